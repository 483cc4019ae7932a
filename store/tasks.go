package store

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/workroom-hq/workroom-go/internal/model"
	"github.com/workroom-hq/workroom-go/internal/repo"
)

// TaskStore manages the task list.
type TaskStore struct {
	*base[model.Task, model.TaskFilter]
	repo repo.Tasks
}

func NewTaskStore(st repo.Store, log zerolog.Logger, opts ...Option) *TaskStore {
	r := st.Tasks()
	return &TaskStore{
		base: newBase(log.With().Str("store", "tasks").Logger(), r.List, opts),
		repo: r,
	}
}

func (s *TaskStore) reload(ctx context.Context, err error) error {
	if loadErr := s.Load(ctx); err == nil {
		err = loadErr
	}
	return err
}

func (s *TaskStore) Create(ctx context.Context, in model.CreateTaskInput) (*model.Task, error) {
	created, err := s.repo.Create(ctx, in)
	return created, s.reload(ctx, err)
}

func (s *TaskStore) Update(ctx context.Context, id string, p model.TaskPatch) (*model.Task, error) {
	updated, err := s.repo.Update(ctx, id, p)
	return updated, s.reload(ctx, err)
}

func (s *TaskStore) Delete(ctx context.Context, id string) error {
	return s.reload(ctx, s.repo.Delete(ctx, id))
}
