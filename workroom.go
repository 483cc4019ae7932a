// Package workroom is the data-access and synchronization layer for the
// Workroom business backend: per-entity repositories over a hosted
// REST+Auth+Storage service, an in-memory fallback for unconfigured
// environments, and UI-facing stores in the store subpackage.
package workroom

import (
	"github.com/rs/zerolog"

	"github.com/workroom-hq/workroom-go/internal/config"
	"github.com/workroom-hq/workroom-go/internal/factory"
	"github.com/workroom-hq/workroom-go/internal/model"
	"github.com/workroom-hq/workroom-go/internal/platform/logger"
	"github.com/workroom-hq/workroom-go/internal/repo"
)

// Store exposes one repository per entity. See the entity interfaces for
// per-operation guarantees.
type Store = repo.Store

// Per-entity repository contracts.
type (
	Clients        = repo.Clients
	Projects       = repo.Projects
	Tasks          = repo.Tasks
	TaskCategories = repo.TaskCategories
	Documents      = repo.Documents
	ClientNotes    = repo.ClientNotes
)

// Config holds backend connection settings; see internal/config for the
// environment variables involved.
type Config = config.Config

// LoadConfig reads the configuration from the environment.
func LoadConfig() (*Config, error) { return config.New() }

// Open returns the store for cfg: REST-backed when the backend probe
// succeeds, in-memory otherwise. A nil cfg is loaded from the environment.
func Open(cfg *Config) (Store, error) {
	if cfg == nil {
		loaded, err := config.New()
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	return factory.NewStore(cfg, logger.New("workroom")), nil
}

// OpenWith builds a store for an explicit configuration and logger.
func OpenWith(cfg *Config, log zerolog.Logger) Store {
	return factory.NewStore(cfg, log)
}

// Domain entities.
type (
	Client         = model.Client
	Contact        = model.Contact
	Project        = model.Project
	Task           = model.Task
	TaskCategory   = model.TaskCategory
	AppDocument    = model.AppDocument
	ClientNote     = model.ClientNote
	NoteAttachment = model.NoteAttachment
)

// Inputs and patches.
type (
	CreateClientInput   = model.CreateClientInput
	CreateProjectInput  = model.CreateProjectInput
	CreateTaskInput     = model.CreateTaskInput
	CreateCategoryInput = model.CreateCategoryInput
	CreateDocumentInput = model.CreateDocumentInput
	CreateNoteInput     = model.CreateNoteInput
	ContactInput        = model.ContactInput
	AuthUserInput       = model.AuthUserInput
	AttachmentUpload    = model.AttachmentUpload

	ClientPatch   = model.ClientPatch
	ProjectPatch  = model.ProjectPatch
	TaskPatch     = model.TaskPatch
	CategoryPatch = model.CategoryPatch
	DocumentPatch = model.DocumentPatch
	NotePatch     = model.NotePatch
)

// Filters.
type (
	ClientFilter   = model.ClientFilter
	ProjectFilter  = model.ProjectFilter
	TaskFilter     = model.TaskFilter
	DocumentFilter = model.DocumentFilter
	NoteFilter     = model.NoteFilter
)
