package store

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/workroom-hq/workroom-go/internal/model"
	"github.com/workroom-hq/workroom-go/internal/repo"
)

// ProjectStore manages the project list.
type ProjectStore struct {
	*base[model.Project, model.ProjectFilter]
	repo repo.Projects
}

func NewProjectStore(st repo.Store, log zerolog.Logger, opts ...Option) *ProjectStore {
	r := st.Projects()
	return &ProjectStore{
		base: newBase(log.With().Str("store", "projects").Logger(), r.List, opts),
		repo: r,
	}
}

func (s *ProjectStore) reload(ctx context.Context, err error) error {
	if loadErr := s.Load(ctx); err == nil {
		err = loadErr
	}
	return err
}

func (s *ProjectStore) Create(ctx context.Context, in model.CreateProjectInput) (*model.Project, error) {
	created, err := s.repo.Create(ctx, in)
	return created, s.reload(ctx, err)
}

func (s *ProjectStore) Update(ctx context.Context, id string, p model.ProjectPatch) (*model.Project, error) {
	updated, err := s.repo.Update(ctx, id, p)
	return updated, s.reload(ctx, err)
}

func (s *ProjectStore) Delete(ctx context.Context, id string) error {
	return s.reload(ctx, s.repo.Delete(ctx, id))
}
