package inmem

import (
	"context"
	"fmt"

	"github.com/workroom-hq/workroom-go/internal/model"
)

type projects struct{ s *memStore }

func (p *projects) List(ctx context.Context, f model.ProjectFilter) ([]model.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.s.mu.Lock()
	defer p.s.mu.Unlock()

	out := make([]model.Project, 0, len(p.s.projects))
	for i := range p.s.projects {
		pr := p.s.projects[i]
		if f.ClientID != "" && pr.ClientID != f.ClientID {
			continue
		}
		if f.Status != "" && pr.Status != f.Status {
			continue
		}
		if f.Search != "" && !containsFold(pr.Name, f.Search) {
			continue
		}
		pr.ClientName = p.s.clientName(&pr.ClientID)
		out = append(out, pr)
	}
	sortNewestFirst(out, func(pr model.Project) string { return pr.UpdatedAt })
	return out, nil
}

func (p *projects) Get(ctx context.Context, id string) (*model.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	for i := range p.s.projects {
		if p.s.projects[i].ID == id {
			out := p.s.projects[i]
			out.ClientName = p.s.clientName(&out.ClientID)
			return &out, nil
		}
	}
	return nil, nil
}

func (p *projects) Create(ctx context.Context, in model.CreateProjectInput) (*model.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if in.ClientID == "" {
		return nil, fmt.Errorf("%w: project client is required", model.ErrValidation)
	}
	p.s.mu.Lock()
	defer p.s.mu.Unlock()

	currency := in.Currency
	if currency == "" {
		currency = model.DefaultCurrency
	}
	status := in.Status
	if status == "" {
		status = model.ProjectPlanned
	}
	ts := nowISO()
	pr := model.Project{
		ID:          newID(),
		ClientID:    in.ClientID,
		Name:        in.Name,
		Description: in.Description,
		Status:      status,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Budget:      in.Budget,
		Currency:    currency,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	p.s.projects = append(p.s.projects, pr)
	out := pr
	out.ClientName = p.s.clientName(&out.ClientID)
	return &out, nil
}

func (p *projects) Update(ctx context.Context, id string, patch model.ProjectPatch) (*model.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.s.mu.Lock()
	defer p.s.mu.Unlock()

	for i := range p.s.projects {
		if p.s.projects[i].ID != id {
			continue
		}
		pr := &p.s.projects[i]
		if v, ok := patch.ClientID.Get(); ok {
			pr.ClientID = v
		}
		if v, ok := patch.Name.Get(); ok {
			pr.Name = v
		}
		applyOpt(&pr.Description, patch.Description)
		if v, ok := patch.Status.Get(); ok {
			pr.Status = v
		}
		applyOpt(&pr.StartDate, patch.StartDate)
		applyOpt(&pr.EndDate, patch.EndDate)
		applyOpt(&pr.Budget, patch.Budget)
		if v, ok := patch.Currency.Get(); ok {
			pr.Currency = v
		}
		pr.UpdatedAt = nowISO()
		out := *pr
		out.ClientName = p.s.clientName(&out.ClientID)
		return &out, nil
	}
	return nil, notFound("project", id)
}

func (p *projects) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	for i := range p.s.projects {
		if p.s.projects[i].ID == id {
			p.s.projects = append(p.s.projects[:i], p.s.projects[i+1:]...)
			return nil
		}
	}
	return notFound("project", id)
}
