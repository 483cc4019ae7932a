package store

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/workroom-hq/workroom-go/internal/model"
	"github.com/workroom-hq/workroom-go/internal/repo"
)

// ClientStore manages the client list.
type ClientStore struct {
	*base[model.Client, model.ClientFilter]
	repo repo.Clients
}

func NewClientStore(st repo.Store, log zerolog.Logger, opts ...Option) *ClientStore {
	r := st.Clients()
	return &ClientStore{
		base: newBase(log.With().Str("store", "clients").Logger(), r.List, opts),
		repo: r,
	}
}

// reload runs after every mutation so the item slice reflects the backend.
// The mutation error wins over a reload error.
func (s *ClientStore) reload(ctx context.Context, err error) error {
	if loadErr := s.Load(ctx); err == nil {
		err = loadErr
	}
	return err
}

func (s *ClientStore) Create(ctx context.Context, in model.CreateClientInput) (*model.Client, error) {
	created, err := s.repo.Create(ctx, in)
	return created, s.reload(ctx, err)
}

func (s *ClientStore) CreateWithAuthUser(ctx context.Context, in model.CreateClientInput, auth model.AuthUserInput) (*model.Client, error) {
	created, err := s.repo.CreateWithAuthUser(ctx, in, auth)
	return created, s.reload(ctx, err)
}

func (s *ClientStore) Update(ctx context.Context, id string, p model.ClientPatch) (*model.Client, error) {
	updated, err := s.repo.Update(ctx, id, p)
	return updated, s.reload(ctx, err)
}

func (s *ClientStore) Delete(ctx context.Context, id string) error {
	return s.reload(ctx, s.repo.Delete(ctx, id))
}

func (s *ClientStore) AddDocument(ctx context.Context, clientID string, in model.CreateDocumentInput, content []byte) (*model.AppDocument, error) {
	doc, err := s.repo.AddDocument(ctx, clientID, in, content)
	return doc, s.reload(ctx, err)
}

func (s *ClientStore) RemoveDocument(ctx context.Context, clientID, documentID string) error {
	return s.reload(ctx, s.repo.RemoveDocument(ctx, clientID, documentID))
}
