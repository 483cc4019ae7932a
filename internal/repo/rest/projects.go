package rest

import (
	"context"
	"fmt"

	"github.com/workroom-hq/workroom-go/internal/model"
	"github.com/workroom-hq/workroom-go/internal/postgrest"
)

const (
	projectsTable = "projects"
	projectSelect = "*,clients(name)"
	projectOrder  = "updated_at.desc"
)

type projects struct{ s *restStore }

type projectRow struct {
	ID          string   `json:"id"`
	ClientID    string   `json:"client_id"`
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	Status      string   `json:"status"`
	StartDate   *string  `json:"start_date"`
	EndDate     *string  `json:"end_date"`
	Budget      numeric  `json:"budget"`
	Currency    string   `json:"currency"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
	Client      *nameRow `json:"clients"`
}

func (r *projectRow) toDomain() model.Project {
	return model.Project{
		ID:          r.ID,
		ClientID:    r.ClientID,
		ClientName:  r.Client.name(),
		Name:        r.Name,
		Description: r.Description,
		Status:      model.ProjectStatus(r.Status),
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		Budget:      r.Budget.ptr(),
		Currency:    r.Currency,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func projectInsertBody(in model.CreateProjectInput) map[string]any {
	currency := in.Currency
	if currency == "" {
		currency = model.DefaultCurrency
	}
	status := in.Status
	if status == "" {
		status = model.ProjectPlanned
	}
	body := map[string]any{
		"client_id": in.ClientID,
		"name":      in.Name,
		"status":    status,
		"currency":  currency,
	}
	putPtr(body, "description", in.Description)
	putPtr(body, "start_date", in.StartDate)
	putPtr(body, "end_date", in.EndDate)
	putPtr(body, "budget", in.Budget)
	return body
}

func projectPatchBody(p model.ProjectPatch) map[string]any {
	body := map[string]any{}
	putOpt(body, "client_id", p.ClientID)
	putOpt(body, "name", p.Name)
	putOpt(body, "description", p.Description)
	putOpt(body, "status", p.Status)
	putOpt(body, "start_date", p.StartDate)
	putOpt(body, "end_date", p.EndDate)
	putOpt(body, "budget", p.Budget)
	putOpt(body, "currency", p.Currency)
	return body
}

func (p *projects) List(ctx context.Context, f model.ProjectFilter) ([]model.Project, error) {
	params := postgrest.Params{}.Select(projectSelect).Order(projectOrder)
	if f.ClientID != "" {
		params.Eq("client_id", f.ClientID)
	}
	if f.Status != "" {
		params.Eq("status", string(f.Status))
	}
	if f.Search != "" {
		params.ILike("name", f.Search)
	}
	var rows []projectRow
	if err := p.s.getRows(ctx, projectsTable, params, &rows); err != nil {
		return nil, err
	}
	out := make([]model.Project, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}

func (p *projects) Get(ctx context.Context, id string) (*model.Project, error) {
	params := postgrest.Params{}.Select(projectSelect).Eq("id", id).Limit(1)
	var rows []projectRow
	if err := p.s.getRows(ctx, projectsTable, params, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	out := rows[0].toDomain()
	return &out, nil
}

func (p *projects) Create(ctx context.Context, in model.CreateProjectInput) (*model.Project, error) {
	if in.ClientID == "" {
		return nil, fmt.Errorf("%w: project client is required", model.ErrValidation)
	}
	var rows []projectRow
	if err := p.s.insert(ctx, projectsTable, projectInsertBody(in), &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, model.ErrEmptyCreateResult
	}
	full, err := p.Get(ctx, rows[0].ID)
	if err != nil || full == nil {
		out := rows[0].toDomain()
		return &out, nil
	}
	return full, nil
}

func (p *projects) Update(ctx context.Context, id string, patch model.ProjectPatch) (*model.Project, error) {
	if body := projectPatchBody(patch); len(body) > 0 {
		if err := p.s.patchRows(ctx, projectsTable, postgrest.Params{}.Eq("id", id), body); err != nil {
			return nil, err
		}
	}
	full, err := p.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if full == nil {
		return nil, notFoundErr("project", id)
	}
	return full, nil
}

func (p *projects) Delete(ctx context.Context, id string) error {
	return p.s.deleteRows(ctx, projectsTable, postgrest.Params{}.Eq("id", id))
}
