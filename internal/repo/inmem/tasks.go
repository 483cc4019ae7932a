package inmem

import (
	"context"

	"github.com/workroom-hq/workroom-go/internal/model"
)

type tasks struct{ s *memStore }

func matchesTask(t model.Task, f model.TaskFilter) bool {
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.Priority != "" && t.Priority != f.Priority {
		return false
	}
	if f.AssigneeID != "" && derefOr(t.AssigneeID, "") != f.AssigneeID {
		return false
	}
	if f.ClientID != "" && derefOr(t.ClientID, "") != f.ClientID {
		return false
	}
	if f.ProjectID != "" && derefOr(t.ProjectID, "") != f.ProjectID {
		return false
	}
	if f.CategoryID != "" && derefOr(t.CategoryID, "") != f.CategoryID {
		return false
	}
	if f.PersonalFor != "" {
		if !t.IsPersonal || derefOr(t.OwnerUserID, "") != f.PersonalFor {
			return false
		}
	}
	if f.Search != "" && !containsFold(t.Description, f.Search) {
		return false
	}
	return true
}

func (t *tasks) List(ctx context.Context, f model.TaskFilter) ([]model.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	out := make([]model.Task, 0, len(t.s.tasks))
	for i := range t.s.tasks {
		tk := t.s.tasks[i]
		if !matchesTask(tk, f) {
			continue
		}
		tk.Tags = append([]string(nil), t.s.tasks[i].Tags...)
		tk.ClientName = t.s.clientName(tk.ClientID)
		tk.ProjectName = t.s.projectName(tk.ProjectID)
		out = append(out, tk)
	}
	sortNewestFirst(out, func(tk model.Task) string { return tk.UpdatedAt })
	return out, nil
}

func (t *tasks) Get(ctx context.Context, id string) (*model.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	for i := range t.s.tasks {
		if t.s.tasks[i].ID == id {
			out := t.s.tasks[i]
			out.Tags = append([]string(nil), t.s.tasks[i].Tags...)
			out.ClientName = t.s.clientName(out.ClientID)
			out.ProjectName = t.s.projectName(out.ProjectID)
			return &out, nil
		}
	}
	return nil, nil
}

func (t *tasks) Create(ctx context.Context, in model.CreateTaskInput) (*model.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	status := in.Status
	if status == "" {
		status = model.TaskTodo
	}
	priority := in.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	ts := nowISO()
	tk := model.Task{
		ID:          newID(),
		Description: in.Description,
		Status:      status,
		Priority:    priority,
		AssigneeID:  in.AssigneeID,
		ClientID:    in.ClientID,
		ProjectID:   in.ProjectID,
		CategoryID:  in.CategoryID,
		DueAt:       in.DueAt,
		Tags:        append([]string(nil), in.Tags...),
		IsPersonal:  in.IsPersonal,
		OwnerUserID: in.OwnerUserID,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	t.s.tasks = append(t.s.tasks, tk)
	out := tk
	out.ClientName = t.s.clientName(out.ClientID)
	out.ProjectName = t.s.projectName(out.ProjectID)
	return &out, nil
}

func (t *tasks) Update(ctx context.Context, id string, p model.TaskPatch) (*model.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	for i := range t.s.tasks {
		if t.s.tasks[i].ID != id {
			continue
		}
		tk := &t.s.tasks[i]
		if v, ok := p.Description.Get(); ok {
			tk.Description = v
		}
		if v, ok := p.Status.Get(); ok {
			tk.Status = v
		}
		if v, ok := p.Priority.Get(); ok {
			tk.Priority = v
		}
		applyOpt(&tk.AssigneeID, p.AssigneeID)
		applyOpt(&tk.ClientID, p.ClientID)
		applyOpt(&tk.ProjectID, p.ProjectID)
		applyOpt(&tk.CategoryID, p.CategoryID)
		applyOpt(&tk.DueAt, p.DueAt)
		if p.Tags.Present() {
			v, _ := p.Tags.Get()
			tk.Tags = append([]string(nil), v...)
		}
		if v, ok := p.IsPersonal.Get(); ok {
			tk.IsPersonal = v
		}
		applyOpt(&tk.OwnerUserID, p.OwnerUserID)
		tk.UpdatedAt = nowISO()
		out := *tk
		out.Tags = append([]string(nil), tk.Tags...)
		out.ClientName = t.s.clientName(out.ClientID)
		out.ProjectName = t.s.projectName(out.ProjectID)
		return &out, nil
	}
	return nil, notFound("task", id)
}

func (t *tasks) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	for i := range t.s.tasks {
		if t.s.tasks[i].ID == id {
			t.s.tasks = append(t.s.tasks[:i], t.s.tasks[i+1:]...)
			return nil
		}
	}
	return notFound("task", id)
}
