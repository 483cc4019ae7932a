package rest

import (
	"context"

	"github.com/workroom-hq/workroom-go/internal/model"
	"github.com/workroom-hq/workroom-go/internal/postgrest"
	"github.com/workroom-hq/workroom-go/internal/storage"
)

const (
	notesTable       = "client_notes"
	attachmentsTable = "client_note_attachments"
	noteSelect       = "*,client_note_attachments(*)"
	// Unresolved notes float first, newest first within each group.
	noteOrder = "is_resolved.asc,created_at.desc"
)

type notes struct{ s *restStore }

type noteRow struct {
	ID           string           `json:"id"`
	ClientID     string           `json:"client_id"`
	AuthorUserID string           `json:"author_user_id"`
	Body         string           `json:"body"`
	IsResolved   bool             `json:"is_resolved"`
	ResolvedAt   *string          `json:"resolved_at"`
	ResolvedBy   *string          `json:"resolved_by"`
	CreatedAt    string           `json:"created_at"`
	UpdatedAt    string           `json:"updated_at"`
	Attachments  []*attachmentRow `json:"client_note_attachments"`
}

type attachmentRow struct {
	ID          string  `json:"id"`
	NoteID      string  `json:"note_id"`
	StoragePath string  `json:"storage_path"`
	PublicURL   string  `json:"public_url"`
	FileName    string  `json:"file_name"`
	MimeType    *string `json:"mime_type"`
	SizeBytes   *int64  `json:"size_bytes"`
	CreatedAt   string  `json:"created_at"`
}

func (r *noteRow) toDomain() model.ClientNote {
	n := model.ClientNote{
		ID:           r.ID,
		ClientID:     r.ClientID,
		AuthorUserID: r.AuthorUserID,
		Body:         r.Body,
		IsResolved:   r.IsResolved,
		ResolvedAt:   r.ResolvedAt,
		ResolvedBy:   r.ResolvedBy,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	for _, ar := range r.Attachments {
		if ar == nil {
			continue
		}
		n.Attachments = append(n.Attachments, ar.toDomain())
	}
	return n
}

func (r *attachmentRow) toDomain() model.NoteAttachment {
	return model.NoteAttachment{
		ID:          r.ID,
		NoteID:      r.NoteID,
		StoragePath: r.StoragePath,
		PublicURL:   r.PublicURL,
		FileName:    r.FileName,
		MimeType:    r.MimeType,
		SizeBytes:   r.SizeBytes,
		CreatedAt:   r.CreatedAt,
	}
}

func (n *notes) List(ctx context.Context, f model.NoteFilter) ([]model.ClientNote, error) {
	params := postgrest.Params{}.Select(noteSelect).Order(noteOrder)
	if f.ClientID != "" {
		params.Eq("client_id", f.ClientID)
	}
	if f.OnlyUnresolved {
		params.Eq("is_resolved", "false")
	}
	var rows []noteRow
	if err := n.s.getRows(ctx, notesTable, params, &rows); err != nil {
		return nil, err
	}
	out := make([]model.ClientNote, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}

func (n *notes) Get(ctx context.Context, id string) (*model.ClientNote, error) {
	params := postgrest.Params{}.Select(noteSelect).Eq("id", id).Limit(1)
	var rows []noteRow
	if err := n.s.getRows(ctx, notesTable, params, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	out := rows[0].toDomain()
	return &out, nil
}

func (n *notes) Create(ctx context.Context, in model.CreateNoteInput) (*model.ClientNote, error) {
	body := map[string]any{
		"client_id":   in.ClientID,
		"body":        in.Body,
		"is_resolved": false,
	}
	if uid := n.s.sess.UserID(); uid != "" {
		body["author_user_id"] = uid
	}
	var rows []noteRow
	if err := n.s.insert(ctx, notesTable, body, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, model.ErrEmptyCreateResult
	}
	full, err := n.Get(ctx, rows[0].ID)
	if err != nil || full == nil {
		out := rows[0].toDomain()
		return &out, nil
	}
	return full, nil
}

func (n *notes) Update(ctx context.Context, id string, p model.NotePatch) (*model.ClientNote, error) {
	body := map[string]any{}
	putOpt(body, "body", p.Body)
	if len(body) > 0 {
		if err := n.s.patchRows(ctx, notesTable, postgrest.Params{}.Eq("id", id), body); err != nil {
			return nil, err
		}
	}
	full, err := n.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if full == nil {
		return nil, notFoundErr("client note", id)
	}
	return full, nil
}

func (n *notes) Delete(ctx context.Context, id string) error {
	return n.s.deleteRows(ctx, notesTable, postgrest.Params{}.Eq("id", id))
}

// SetResolved stamps resolved_at/resolved_by together, or clears both.
// Resolving an already-resolved note re-stamps the pair; the backend column
// is simply overwritten.
func (n *notes) SetResolved(ctx context.Context, id string, resolved bool) (*model.ClientNote, error) {
	body := map[string]any{"is_resolved": resolved}
	if resolved {
		body["resolved_at"] = model.NowISO()
		if uid := n.s.sess.UserID(); uid != "" {
			body["resolved_by"] = uid
		}
	} else {
		body["resolved_at"] = nil
		body["resolved_by"] = nil
	}
	if err := n.s.patchRows(ctx, notesTable, postgrest.Params{}.Eq("id", id), body); err != nil {
		return nil, err
	}
	full, err := n.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if full == nil {
		return nil, notFoundErr("client note", id)
	}
	return full, nil
}

// AddAttachment uploads the bytes, records the attachment row, then returns
// the note re-fetched with its full attachment list. Three attachments per
// note is a convention, not an enforced invariant.
func (n *notes) AddAttachment(ctx context.Context, noteID string, up model.AttachmentUpload) (*model.ClientNote, error) {
	key := storage.ObjectPath("note-attachments", up.FileName)
	mime := ""
	if up.MimeType != nil {
		mime = *up.MimeType
	}
	publicURL, err := n.s.objects.Upload(ctx, key, up.Content, mime)
	if err != nil {
		return nil, err
	}

	body := map[string]any{
		"note_id":      noteID,
		"storage_path": key,
		"public_url":   publicURL,
		"file_name":    up.FileName,
		"size_bytes":   int64(len(up.Content)),
	}
	putPtr(body, "mime_type", up.MimeType)
	if err := n.s.insert(ctx, attachmentsTable, body, nil); err != nil {
		return nil, err
	}

	full, err := n.Get(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if full == nil {
		return nil, notFoundErr("client note", noteID)
	}
	return full, nil
}
