package inmem

import (
	"context"
	"sort"

	"github.com/workroom-hq/workroom-go/internal/model"
	"github.com/workroom-hq/workroom-go/internal/storage"
)

type notes struct{ s *memStore }

func (n *notes) snapshot(idx int) model.ClientNote {
	out := n.s.notes[idx]
	out.Attachments = append([]model.NoteAttachment(nil), n.s.notes[idx].Attachments...)
	return out
}

func (n *notes) List(ctx context.Context, f model.NoteFilter) ([]model.ClientNote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n.s.mu.Lock()
	defer n.s.mu.Unlock()

	out := make([]model.ClientNote, 0, len(n.s.notes))
	for i := range n.s.notes {
		nt := n.s.notes[i]
		if f.ClientID != "" && nt.ClientID != f.ClientID {
			continue
		}
		if f.OnlyUnresolved && nt.IsResolved {
			continue
		}
		out = append(out, n.snapshot(i))
	}
	// Unresolved first, then newest first; same compound key as the REST
	// driver's order parameter.
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsResolved != out[j].IsResolved {
			return !out[i].IsResolved
		}
		return out[i].CreatedAt > out[j].CreatedAt
	})
	return out, nil
}

func (n *notes) Get(ctx context.Context, id string) (*model.ClientNote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n.s.mu.Lock()
	defer n.s.mu.Unlock()
	for i := range n.s.notes {
		if n.s.notes[i].ID == id {
			out := n.snapshot(i)
			return &out, nil
		}
	}
	return nil, nil
}

func (n *notes) Create(ctx context.Context, in model.CreateNoteInput) (*model.ClientNote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n.s.mu.Lock()
	defer n.s.mu.Unlock()

	ts := nowISO()
	nt := model.ClientNote{
		ID:           newID(),
		ClientID:     in.ClientID,
		AuthorUserID: n.s.sess.UserID(),
		Body:         in.Body,
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}
	n.s.notes = append(n.s.notes, nt)
	out := nt
	return &out, nil
}

func (n *notes) Update(ctx context.Context, id string, p model.NotePatch) (*model.ClientNote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n.s.mu.Lock()
	defer n.s.mu.Unlock()
	for i := range n.s.notes {
		if n.s.notes[i].ID != id {
			continue
		}
		nt := &n.s.notes[i]
		if v, ok := p.Body.Get(); ok {
			nt.Body = v
		}
		nt.UpdatedAt = nowISO()
		out := n.snapshot(i)
		return &out, nil
	}
	return nil, notFound("client note", id)
}

func (n *notes) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n.s.mu.Lock()
	defer n.s.mu.Unlock()
	for i := range n.s.notes {
		if n.s.notes[i].ID == id {
			n.s.notes = append(n.s.notes[:i], n.s.notes[i+1:]...)
			return nil
		}
	}
	return notFound("client note", id)
}

func (n *notes) SetResolved(ctx context.Context, id string, resolved bool) (*model.ClientNote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n.s.mu.Lock()
	defer n.s.mu.Unlock()
	for i := range n.s.notes {
		if n.s.notes[i].ID != id {
			continue
		}
		nt := &n.s.notes[i]
		nt.IsResolved = resolved
		if resolved {
			// Re-stamps on repeat resolution, matching the REST driver.
			at := nowISO()
			nt.ResolvedAt = &at
			if uid := n.s.sess.UserID(); uid != "" {
				nt.ResolvedBy = &uid
			}
		} else {
			nt.ResolvedAt = nil
			nt.ResolvedBy = nil
		}
		nt.UpdatedAt = nowISO()
		out := n.snapshot(i)
		return &out, nil
	}
	return nil, notFound("client note", id)
}

func (n *notes) AddAttachment(ctx context.Context, noteID string, up model.AttachmentUpload) (*model.ClientNote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n.s.mu.Lock()
	defer n.s.mu.Unlock()
	for i := range n.s.notes {
		if n.s.notes[i].ID != noteID {
			continue
		}
		key := storage.ObjectPath("note-attachments", up.FileName)
		size := int64(len(up.Content))
		att := model.NoteAttachment{
			ID:          newID(),
			NoteID:      noteID,
			StoragePath: key,
			PublicURL:   "memory://" + key,
			FileName:    up.FileName,
			MimeType:    up.MimeType,
			SizeBytes:   &size,
			CreatedAt:   nowISO(),
		}
		n.s.notes[i].Attachments = append(n.s.notes[i].Attachments, att)
		out := n.snapshot(i)
		return &out, nil
	}
	return nil, notFound("client note", noteID)
}
