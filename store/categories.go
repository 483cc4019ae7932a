package store

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/workroom-hq/workroom-go/internal/model"
	"github.com/workroom-hq/workroom-go/internal/repo"
)

// CategoryStore manages the task category list. Categories are a flat,
// unfiltered collection, so the store has no SetQuery.
type CategoryStore struct {
	b    *base[model.TaskCategory, struct{}]
	repo repo.TaskCategories
}

func NewCategoryStore(st repo.Store, log zerolog.Logger, opts ...Option) *CategoryStore {
	r := st.TaskCategories()
	list := func(ctx context.Context, _ struct{}) ([]model.TaskCategory, error) {
		return r.List(ctx)
	}
	return &CategoryStore{
		b:    newBase(log.With().Str("store", "categories").Logger(), list, opts),
		repo: r,
	}
}

func (s *CategoryStore) Load(ctx context.Context) error { return s.b.Load(ctx) }
func (s *CategoryStore) Items() []model.TaskCategory    { return s.b.Items() }
func (s *CategoryStore) Status() Status                 { return s.b.Status() }
func (s *CategoryStore) IsLoading() bool                { return s.b.IsLoading() }
func (s *CategoryStore) Err() error                     { return s.b.Err() }

func (s *CategoryStore) reload(ctx context.Context, err error) error {
	if loadErr := s.Load(ctx); err == nil {
		err = loadErr
	}
	return err
}

func (s *CategoryStore) Create(ctx context.Context, in model.CreateCategoryInput) (*model.TaskCategory, error) {
	created, err := s.repo.Create(ctx, in)
	return created, s.reload(ctx, err)
}

func (s *CategoryStore) Update(ctx context.Context, id string, p model.CategoryPatch) (*model.TaskCategory, error) {
	updated, err := s.repo.Update(ctx, id, p)
	return updated, s.reload(ctx, err)
}

func (s *CategoryStore) Delete(ctx context.Context, id string) error {
	return s.reload(ctx, s.repo.Delete(ctx, id))
}
