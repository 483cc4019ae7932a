package inmem

import (
	"context"

	"github.com/workroom-hq/workroom-go/internal/model"
	"github.com/workroom-hq/workroom-go/internal/storage"
)

type documents struct{ s *memStore }

func (d *documents) List(ctx context.Context, f model.DocumentFilter) ([]model.AppDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.s.mu.Lock()
	defer d.s.mu.Unlock()

	out := make([]model.AppDocument, 0, len(d.s.documents))
	for i := range d.s.documents {
		doc := d.s.documents[i]
		if f.ClientID != "" && derefOr(doc.ClientID, "") != f.ClientID {
			continue
		}
		if f.ProjectID != "" && derefOr(doc.ProjectID, "") != f.ProjectID {
			continue
		}
		if f.Kind != "" && doc.Kind != f.Kind {
			continue
		}
		out = append(out, doc)
	}
	sortNewestFirst(out, func(doc model.AppDocument) string { return doc.CreatedAt })
	return out, nil
}

func (d *documents) Get(ctx context.Context, id string) (*model.AppDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.s.mu.Lock()
	defer d.s.mu.Unlock()
	for i := range d.s.documents {
		if d.s.documents[i].ID == id {
			out := d.s.documents[i]
			return &out, nil
		}
	}
	return nil, nil
}

// Upload keeps the bytes nowhere; only the metadata row exists. The derived
// object key follows the same ASCII-safe scheme as the REST driver so paths
// look identical to callers.
func (d *documents) Upload(ctx context.Context, in model.CreateDocumentInput, content []byte) (*model.AppDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.s.mu.Lock()
	defer d.s.mu.Unlock()

	kind := in.Kind
	if kind == "" {
		kind = model.DocGeneral
	}
	size := int64(len(content))
	if in.SizeBytes != nil {
		size = *in.SizeBytes
	}
	ts := nowISO()
	doc := model.AppDocument{
		ID:          newID(),
		ClientID:    in.ClientID,
		ProjectID:   in.ProjectID,
		Kind:        kind,
		Title:       in.Title,
		StoragePath: storage.ObjectPath("documents", in.FileName),
		FileName:    in.FileName,
		MimeType:    in.MimeType,
		SizeBytes:   &size,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	if uid := d.s.sess.UserID(); uid != "" {
		doc.UploadedBy = &uid
	}
	d.s.documents = append(d.s.documents, doc)
	out := doc
	return &out, nil
}

func (d *documents) Update(ctx context.Context, id string, p model.DocumentPatch) (*model.AppDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.s.mu.Lock()
	defer d.s.mu.Unlock()
	for i := range d.s.documents {
		if d.s.documents[i].ID != id {
			continue
		}
		doc := &d.s.documents[i]
		applyOpt(&doc.ClientID, p.ClientID)
		applyOpt(&doc.ProjectID, p.ProjectID)
		if v, ok := p.Kind.Get(); ok {
			doc.Kind = v
		}
		if v, ok := p.Title.Get(); ok {
			doc.Title = v
		}
		doc.UpdatedAt = nowISO()
		out := *doc
		return &out, nil
	}
	return nil, notFound("document", id)
}

func (d *documents) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.s.mu.Lock()
	defer d.s.mu.Unlock()
	for i := range d.s.documents {
		if d.s.documents[i].ID == id {
			d.s.documents = append(d.s.documents[:i], d.s.documents[i+1:]...)
			return nil
		}
	}
	return notFound("document", id)
}
