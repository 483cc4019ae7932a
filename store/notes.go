package store

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/workroom-hq/workroom-go/internal/model"
	"github.com/workroom-hq/workroom-go/internal/repo"
)

// NoteStore manages the client note list.
type NoteStore struct {
	*base[model.ClientNote, model.NoteFilter]
	repo repo.ClientNotes
}

func NewNoteStore(st repo.Store, log zerolog.Logger, opts ...Option) *NoteStore {
	r := st.Notes()
	return &NoteStore{
		base: newBase(log.With().Str("store", "notes").Logger(), r.List, opts),
		repo: r,
	}
}

func (s *NoteStore) reload(ctx context.Context, err error) error {
	if loadErr := s.Load(ctx); err == nil {
		err = loadErr
	}
	return err
}

func (s *NoteStore) Create(ctx context.Context, in model.CreateNoteInput) (*model.ClientNote, error) {
	created, err := s.repo.Create(ctx, in)
	return created, s.reload(ctx, err)
}

func (s *NoteStore) Update(ctx context.Context, id string, p model.NotePatch) (*model.ClientNote, error) {
	updated, err := s.repo.Update(ctx, id, p)
	return updated, s.reload(ctx, err)
}

func (s *NoteStore) Delete(ctx context.Context, id string) error {
	return s.reload(ctx, s.repo.Delete(ctx, id))
}

// SetResolved flips the flag in the loaded slice immediately so the UI does
// not flicker, then runs the usual write-then-reload. This is the only
// optimistic patch in the package; the reload remains authoritative.
func (s *NoteStore) SetResolved(ctx context.Context, id string, resolved bool) (*model.ClientNote, error) {
	s.applyOptimistic(id, func(n *model.ClientNote) { n.IsResolved = resolved })
	updated, err := s.repo.SetResolved(ctx, id, resolved)
	return updated, s.reload(ctx, err)
}

func (s *NoteStore) AddAttachment(ctx context.Context, noteID string, up model.AttachmentUpload) (*model.ClientNote, error) {
	updated, err := s.repo.AddAttachment(ctx, noteID, up)
	return updated, s.reload(ctx, err)
}

func (s *NoteStore) applyOptimistic(id string, patch func(*model.ClientNote)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			patch(&s.items[i])
			return
		}
	}
}
