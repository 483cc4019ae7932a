package rest

import (
	"context"

	"github.com/workroom-hq/workroom-go/internal/model"
	"github.com/workroom-hq/workroom-go/internal/postgrest"
)

const (
	categoriesTable = "task_categories"
	categoryOrder   = "name.asc"
)

type categories struct{ s *restStore }

type categoryRow struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Slug      string  `json:"slug"`
	Color     *string `json:"color"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

func (r *categoryRow) toDomain() model.TaskCategory {
	return model.TaskCategory{
		ID:        r.ID,
		Name:      r.Name,
		Slug:      r.Slug,
		Color:     r.Color,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func (c *categories) List(ctx context.Context) ([]model.TaskCategory, error) {
	params := postgrest.Params{}.Order(categoryOrder)
	var rows []categoryRow
	if err := c.s.getRows(ctx, categoriesTable, params, &rows); err != nil {
		return nil, err
	}
	out := make([]model.TaskCategory, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}

func (c *categories) Get(ctx context.Context, id string) (*model.TaskCategory, error) {
	params := postgrest.Params{}.Eq("id", id).Limit(1)
	var rows []categoryRow
	if err := c.s.getRows(ctx, categoriesTable, params, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	out := rows[0].toDomain()
	return &out, nil
}

func (c *categories) Create(ctx context.Context, in model.CreateCategoryInput) (*model.TaskCategory, error) {
	body := map[string]any{"name": in.Name, "slug": in.Slug}
	putPtr(body, "color", in.Color)
	var rows []categoryRow
	if err := c.s.insert(ctx, categoriesTable, body, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, model.ErrEmptyCreateResult
	}
	out := rows[0].toDomain()
	return &out, nil
}

func (c *categories) Update(ctx context.Context, id string, p model.CategoryPatch) (*model.TaskCategory, error) {
	body := map[string]any{}
	putOpt(body, "name", p.Name)
	putOpt(body, "slug", p.Slug)
	putOpt(body, "color", p.Color)
	if len(body) > 0 {
		if err := c.s.patchRows(ctx, categoriesTable, postgrest.Params{}.Eq("id", id), body); err != nil {
			return nil, err
		}
	}
	full, err := c.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if full == nil {
		return nil, notFoundErr("task category", id)
	}
	return full, nil
}

func (c *categories) Delete(ctx context.Context, id string) error {
	return c.s.deleteRows(ctx, categoriesTable, postgrest.Params{}.Eq("id", id))
}
