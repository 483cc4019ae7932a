// Package repo defines the persistence contracts shared by the REST-backed
// and in-memory drivers. Implementations live under internal/repo/<driver>/.
package repo

import (
	"context"

	"github.com/workroom-hq/workroom-go/internal/model"
)

// Store exposes one repository per entity.
type Store interface {
	Clients() Clients
	Projects() Projects
	Tasks() Tasks
	TaskCategories() TaskCategories
	Documents() Documents
	Notes() ClientNotes
}

// Clients manages business clients and their denormalized children.
//
// Get returns (nil, nil) when no client matches. Delete is a no-op for a
// missing id on the REST driver; the in-memory driver reports an error
// instead, and callers may depend on either behaviour.
type Clients interface {
	List(ctx context.Context, f model.ClientFilter) ([]model.Client, error)
	Get(ctx context.Context, id string) (*model.Client, error)
	Create(ctx context.Context, in model.CreateClientInput) (*model.Client, error)
	// CreateWithAuthUser provisions a login identity for the new client.
	// If provisioning fails the freshly created client row is deleted
	// best-effort and the provisioning error is returned. If the follow-up
	// link step fails, both the client and the identity remain and the
	// failure is logged as non-fatal.
	CreateWithAuthUser(ctx context.Context, in model.CreateClientInput, auth model.AuthUserInput) (*model.Client, error)
	Update(ctx context.Context, id string, p model.ClientPatch) (*model.Client, error)
	Delete(ctx context.Context, id string) error
	AddDocument(ctx context.Context, clientID string, in model.CreateDocumentInput, content []byte) (*model.AppDocument, error)
	RemoveDocument(ctx context.Context, clientID, documentID string) error
}

// Projects manages projects.
type Projects interface {
	List(ctx context.Context, f model.ProjectFilter) ([]model.Project, error)
	Get(ctx context.Context, id string) (*model.Project, error)
	Create(ctx context.Context, in model.CreateProjectInput) (*model.Project, error)
	Update(ctx context.Context, id string, p model.ProjectPatch) (*model.Project, error)
	Delete(ctx context.Context, id string) error
}

// Tasks manages tasks.
type Tasks interface {
	List(ctx context.Context, f model.TaskFilter) ([]model.Task, error)
	Get(ctx context.Context, id string) (*model.Task, error)
	Create(ctx context.Context, in model.CreateTaskInput) (*model.Task, error)
	Update(ctx context.Context, id string, p model.TaskPatch) (*model.Task, error)
	Delete(ctx context.Context, id string) error
}

// TaskCategories manages task categories.
type TaskCategories interface {
	List(ctx context.Context) ([]model.TaskCategory, error)
	Get(ctx context.Context, id string) (*model.TaskCategory, error)
	Create(ctx context.Context, in model.CreateCategoryInput) (*model.TaskCategory, error)
	Update(ctx context.Context, id string, p model.CategoryPatch) (*model.TaskCategory, error)
	Delete(ctx context.Context, id string) error
}

// Documents manages stored files and their metadata rows.
type Documents interface {
	List(ctx context.Context, f model.DocumentFilter) ([]model.AppDocument, error)
	Get(ctx context.Context, id string) (*model.AppDocument, error)
	// Upload stores the content under a derived ASCII-safe object key, then
	// inserts the metadata row. The two steps are not transactional.
	Upload(ctx context.Context, in model.CreateDocumentInput, content []byte) (*model.AppDocument, error)
	Update(ctx context.Context, id string, p model.DocumentPatch) (*model.AppDocument, error)
	Delete(ctx context.Context, id string) error
}

// ClientNotes manages notes and their attachments.
type ClientNotes interface {
	List(ctx context.Context, f model.NoteFilter) ([]model.ClientNote, error)
	Get(ctx context.Context, id string) (*model.ClientNote, error)
	Create(ctx context.Context, in model.CreateNoteInput) (*model.ClientNote, error)
	Update(ctx context.Context, id string, p model.NotePatch) (*model.ClientNote, error)
	Delete(ctx context.Context, id string) error
	// SetResolved stamps resolved_at/resolved_by together when resolving and
	// clears both when unresolving. Resolving an already-resolved note
	// re-stamps them.
	SetResolved(ctx context.Context, id string, resolved bool) (*model.ClientNote, error)
	AddAttachment(ctx context.Context, noteID string, up model.AttachmentUpload) (*model.ClientNote, error)
}
