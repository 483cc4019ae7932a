package store

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/workroom-hq/workroom-go/internal/model"
	"github.com/workroom-hq/workroom-go/internal/repo"
)

// DocumentStore manages the document list.
type DocumentStore struct {
	*base[model.AppDocument, model.DocumentFilter]
	repo repo.Documents
}

func NewDocumentStore(st repo.Store, log zerolog.Logger, opts ...Option) *DocumentStore {
	r := st.Documents()
	return &DocumentStore{
		base: newBase(log.With().Str("store", "documents").Logger(), r.List, opts),
		repo: r,
	}
}

func (s *DocumentStore) reload(ctx context.Context, err error) error {
	if loadErr := s.Load(ctx); err == nil {
		err = loadErr
	}
	return err
}

func (s *DocumentStore) Upload(ctx context.Context, in model.CreateDocumentInput, content []byte) (*model.AppDocument, error) {
	doc, err := s.repo.Upload(ctx, in, content)
	return doc, s.reload(ctx, err)
}

func (s *DocumentStore) Update(ctx context.Context, id string, p model.DocumentPatch) (*model.AppDocument, error) {
	updated, err := s.repo.Update(ctx, id, p)
	return updated, s.reload(ctx, err)
}

func (s *DocumentStore) Delete(ctx context.Context, id string) error {
	return s.reload(ctx, s.repo.Delete(ctx, id))
}
