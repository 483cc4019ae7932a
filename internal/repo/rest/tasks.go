package rest

import (
	"context"

	"github.com/workroom-hq/workroom-go/internal/model"
	"github.com/workroom-hq/workroom-go/internal/postgrest"
)

const (
	tasksTable = "tasks"
	taskSelect = "*,clients(name),projects(name)"
	taskOrder  = "updated_at.desc"
)

type tasks struct{ s *restStore }

type taskRow struct {
	ID          string   `json:"id"`
	Description string   `json:"description"`
	Status      string   `json:"status"`
	Priority    string   `json:"priority"`
	AssigneeID  *string  `json:"assignee_id"`
	ClientID    *string  `json:"client_id"`
	ProjectID   *string  `json:"project_id"`
	CategoryID  *string  `json:"category_id"`
	DueAt       *string  `json:"due_at"`
	Tags        []string `json:"tags"`
	IsPersonal  *bool    `json:"is_personal"`
	OwnerUserID *string  `json:"owner_user_id"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
	Client      *nameRow `json:"clients"`
	Project     *nameRow `json:"projects"`
}

func (r *taskRow) toDomain() model.Task {
	t := model.Task{
		ID:          r.ID,
		Description: r.Description,
		Status:      model.TaskStatus(r.Status),
		Priority:    model.TaskPriority(r.Priority),
		AssigneeID:  r.AssigneeID,
		ClientID:    r.ClientID,
		ProjectID:   r.ProjectID,
		CategoryID:  r.CategoryID,
		ClientName:  r.Client.name(),
		ProjectName: r.Project.name(),
		DueAt:       r.DueAt,
		Tags:        r.Tags,
		OwnerUserID: r.OwnerUserID,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.IsPersonal != nil {
		t.IsPersonal = *r.IsPersonal
	}
	return t
}

func taskInsertBody(in model.CreateTaskInput) map[string]any {
	status := in.Status
	if status == "" {
		status = model.TaskTodo
	}
	priority := in.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	body := map[string]any{
		"description": in.Description,
		"status":      status,
		"priority":    priority,
		"is_personal": in.IsPersonal,
	}
	putPtr(body, "assignee_id", in.AssigneeID)
	putPtr(body, "client_id", in.ClientID)
	putPtr(body, "project_id", in.ProjectID)
	putPtr(body, "category_id", in.CategoryID)
	putPtr(body, "due_at", in.DueAt)
	putPtr(body, "owner_user_id", in.OwnerUserID)
	if len(in.Tags) > 0 {
		body["tags"] = in.Tags
	}
	return body
}

func taskPatchBody(p model.TaskPatch) map[string]any {
	body := map[string]any{}
	putOpt(body, "description", p.Description)
	putOpt(body, "status", p.Status)
	putOpt(body, "priority", p.Priority)
	putOpt(body, "assignee_id", p.AssigneeID)
	putOpt(body, "client_id", p.ClientID)
	putOpt(body, "project_id", p.ProjectID)
	putOpt(body, "category_id", p.CategoryID)
	putOpt(body, "due_at", p.DueAt)
	putOpt(body, "tags", p.Tags)
	putOpt(body, "is_personal", p.IsPersonal)
	putOpt(body, "owner_user_id", p.OwnerUserID)
	return body
}

func taskListParams(f model.TaskFilter) postgrest.Params {
	params := postgrest.Params{}.Select(taskSelect).Order(taskOrder)
	if f.Status != "" {
		params.Eq("status", string(f.Status))
	}
	if f.Priority != "" {
		params.Eq("priority", string(f.Priority))
	}
	if f.AssigneeID != "" {
		params.Eq("assignee_id", f.AssigneeID)
	}
	if f.ClientID != "" {
		params.Eq("client_id", f.ClientID)
	}
	if f.ProjectID != "" {
		params.Eq("project_id", f.ProjectID)
	}
	if f.CategoryID != "" {
		params.Eq("category_id", f.CategoryID)
	}
	if f.PersonalFor != "" {
		params.Eq("is_personal", "true")
		params.Eq("owner_user_id", f.PersonalFor)
	}
	if f.Search != "" {
		params.ILike("description", f.Search)
	}
	return params
}

func (t *tasks) List(ctx context.Context, f model.TaskFilter) ([]model.Task, error) {
	var rows []taskRow
	if err := t.s.getRows(ctx, tasksTable, taskListParams(f), &rows); err != nil {
		return nil, err
	}
	out := make([]model.Task, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}

func (t *tasks) Get(ctx context.Context, id string) (*model.Task, error) {
	params := postgrest.Params{}.Select(taskSelect).Eq("id", id).Limit(1)
	var rows []taskRow
	if err := t.s.getRows(ctx, tasksTable, params, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	out := rows[0].toDomain()
	return &out, nil
}

func (t *tasks) Create(ctx context.Context, in model.CreateTaskInput) (*model.Task, error) {
	var rows []taskRow
	if err := t.s.insert(ctx, tasksTable, taskInsertBody(in), &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, model.ErrEmptyCreateResult
	}
	full, err := t.Get(ctx, rows[0].ID)
	if err != nil || full == nil {
		out := rows[0].toDomain()
		return &out, nil
	}
	return full, nil
}

func (t *tasks) Update(ctx context.Context, id string, p model.TaskPatch) (*model.Task, error) {
	if body := taskPatchBody(p); len(body) > 0 {
		if err := t.s.patchRows(ctx, tasksTable, postgrest.Params{}.Eq("id", id), body); err != nil {
			return nil, err
		}
	}
	full, err := t.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if full == nil {
		return nil, notFoundErr("task", id)
	}
	return full, nil
}

func (t *tasks) Delete(ctx context.Context, id string) error {
	return t.s.deleteRows(ctx, tasksTable, postgrest.Params{}.Eq("id", id))
}
