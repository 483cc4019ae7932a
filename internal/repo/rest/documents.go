package rest

import (
	"context"

	"github.com/workroom-hq/workroom-go/internal/model"
	"github.com/workroom-hq/workroom-go/internal/postgrest"
	"github.com/workroom-hq/workroom-go/internal/storage"
)

const (
	documentsTable = "documents"
	documentOrder  = "created_at.desc"
)

type documents struct{ s *restStore }

type documentRow struct {
	ID          string  `json:"id"`
	ClientID    *string `json:"client_id"`
	ProjectID   *string `json:"project_id"`
	Kind        string  `json:"kind"`
	Title       string  `json:"title"`
	StoragePath string  `json:"storage_path"`
	FileName    string  `json:"file_name"`
	MimeType    *string `json:"mime_type"`
	SizeBytes   *int64  `json:"size_bytes"`
	UploadedBy  *string `json:"uploaded_by"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

func (r *documentRow) toDomain() model.AppDocument {
	return model.AppDocument{
		ID:          r.ID,
		ClientID:    r.ClientID,
		ProjectID:   r.ProjectID,
		Kind:        model.DocumentKind(r.Kind),
		Title:       r.Title,
		StoragePath: r.StoragePath,
		FileName:    r.FileName,
		MimeType:    r.MimeType,
		SizeBytes:   r.SizeBytes,
		UploadedBy:  r.UploadedBy,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func documentInsertBody(in model.CreateDocumentInput, storagePath, uploadedBy string) map[string]any {
	kind := in.Kind
	if kind == "" {
		kind = model.DocGeneral
	}
	body := map[string]any{
		"kind":         kind,
		"title":        in.Title,
		"storage_path": storagePath,
		"file_name":    in.FileName,
	}
	putPtr(body, "client_id", in.ClientID)
	putPtr(body, "project_id", in.ProjectID)
	putPtr(body, "mime_type", in.MimeType)
	putPtr(body, "size_bytes", in.SizeBytes)
	if uploadedBy != "" {
		body["uploaded_by"] = uploadedBy
	}
	return body
}

func (d *documents) List(ctx context.Context, f model.DocumentFilter) ([]model.AppDocument, error) {
	params := postgrest.Params{}.Order(documentOrder)
	if f.ClientID != "" {
		params.Eq("client_id", f.ClientID)
	}
	if f.ProjectID != "" {
		params.Eq("project_id", f.ProjectID)
	}
	if f.Kind != "" {
		params.Eq("kind", string(f.Kind))
	}
	var rows []documentRow
	if err := d.s.getRows(ctx, documentsTable, params, &rows); err != nil {
		return nil, err
	}
	out := make([]model.AppDocument, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}

func (d *documents) Get(ctx context.Context, id string) (*model.AppDocument, error) {
	params := postgrest.Params{}.Eq("id", id).Limit(1)
	var rows []documentRow
	if err := d.s.getRows(ctx, documentsTable, params, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	out := rows[0].toDomain()
	return &out, nil
}

// Upload stores the bytes first and inserts the metadata row second. The two
// steps are not transactional: a failed insert leaves an orphaned object,
// which is accepted and visible in the returned error.
func (d *documents) Upload(ctx context.Context, in model.CreateDocumentInput, content []byte) (*model.AppDocument, error) {
	key := storage.ObjectPath("documents", in.FileName)
	mime := ""
	if in.MimeType != nil {
		mime = *in.MimeType
	}
	if _, err := d.s.objects.Upload(ctx, key, content, mime); err != nil {
		return nil, err
	}
	if in.SizeBytes == nil {
		n := int64(len(content))
		in.SizeBytes = &n
	}
	var rows []documentRow
	if err := d.s.insert(ctx, documentsTable, documentInsertBody(in, key, d.s.sess.UserID()), &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, model.ErrEmptyCreateResult
	}
	out := rows[0].toDomain()
	return &out, nil
}

func (d *documents) Update(ctx context.Context, id string, p model.DocumentPatch) (*model.AppDocument, error) {
	body := map[string]any{}
	putOpt(body, "client_id", p.ClientID)
	putOpt(body, "project_id", p.ProjectID)
	putOpt(body, "kind", p.Kind)
	putOpt(body, "title", p.Title)
	if len(body) > 0 {
		if err := d.s.patchRows(ctx, documentsTable, postgrest.Params{}.Eq("id", id), body); err != nil {
			return nil, err
		}
	}
	full, err := d.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if full == nil {
		return nil, notFoundErr("document", id)
	}
	return full, nil
}

func (d *documents) Delete(ctx context.Context, id string) error {
	doc, err := d.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := d.s.deleteRows(ctx, documentsTable, postgrest.Params{}.Eq("id", id)); err != nil {
		return err
	}
	if doc != nil && doc.StoragePath != "" {
		if err := d.s.objects.Remove(ctx, doc.StoragePath); err != nil {
			d.s.log.Warn().Err(err).Str("path", doc.StoragePath).Msg("stored object removal failed; row already deleted")
		}
	}
	return nil
}
