package inmem

import (
	"context"
	"sort"

	"github.com/workroom-hq/workroom-go/internal/model"
)

type categories struct{ s *memStore }

func (c *categories) List(ctx context.Context) ([]model.TaskCategory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	out := append([]model.TaskCategory(nil), c.s.categories...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (c *categories) Get(ctx context.Context, id string) (*model.TaskCategory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	for i := range c.s.categories {
		if c.s.categories[i].ID == id {
			out := c.s.categories[i]
			return &out, nil
		}
	}
	return nil, nil
}

func (c *categories) Create(ctx context.Context, in model.CreateCategoryInput) (*model.TaskCategory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	ts := nowISO()
	cat := model.TaskCategory{
		ID:        newID(),
		Name:      in.Name,
		Slug:      in.Slug,
		Color:     in.Color,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	c.s.categories = append(c.s.categories, cat)
	out := cat
	return &out, nil
}

func (c *categories) Update(ctx context.Context, id string, p model.CategoryPatch) (*model.TaskCategory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	for i := range c.s.categories {
		if c.s.categories[i].ID != id {
			continue
		}
		cat := &c.s.categories[i]
		if v, ok := p.Name.Get(); ok {
			cat.Name = v
		}
		if v, ok := p.Slug.Get(); ok {
			cat.Slug = v
		}
		applyOpt(&cat.Color, p.Color)
		cat.UpdatedAt = nowISO()
		out := *cat
		return &out, nil
	}
	return nil, notFound("task category", id)
}

func (c *categories) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	for i := range c.s.categories {
		if c.s.categories[i].ID == id {
			c.s.categories = append(c.s.categories[:i], c.s.categories[i+1:]...)
			return nil
		}
	}
	return notFound("task category", id)
}
