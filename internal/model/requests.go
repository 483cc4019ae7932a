package model

// ------------------------------
// Create inputs
// ------------------------------

// ContactInput describes one contact in a wholesale contact-list write.
// Entries with an empty Name are dropped before insertion.
type ContactInput struct {
	Name  string
	Email *string
	Phone *string
}

// CreateClientInput holds parameters for a new client.
type CreateClientInput struct {
	Name           string
	Notes          *string
	TotalPrice     *float64
	RemainingToPay *float64
	Contacts       []ContactInput
}

// AuthUserInput provisions a login identity linked to a client.
type AuthUserInput struct {
	Email    string
	Password string
}

// CreateProjectInput holds parameters for a new project. Currency defaults to
// DefaultCurrency when empty.
type CreateProjectInput struct {
	ClientID    string
	Name        string
	Description *string
	Status      ProjectStatus
	StartDate   *string
	EndDate     *string
	Budget      *float64
	Currency    string
}

// CreateTaskInput holds parameters for a new task.
type CreateTaskInput struct {
	Description string
	Status      TaskStatus
	Priority    TaskPriority
	AssigneeID  *string
	ClientID    *string
	ProjectID   *string
	CategoryID  *string
	DueAt       *string
	Tags        []string
	IsPersonal  bool
	OwnerUserID *string
}

// CreateCategoryInput holds parameters for a new task category.
type CreateCategoryInput struct {
	Name  string
	Slug  string
	Color *string
}

// CreateDocumentInput holds the metadata for a document upload. The storage
// object key is derived by the repository; callers only supply the original
// file name.
type CreateDocumentInput struct {
	ClientID  *string
	ProjectID *string
	Kind      DocumentKind
	Title     string
	FileName  string
	MimeType  *string
	SizeBytes *int64
}

// CreateNoteInput holds parameters for a new client note. The author is
// stamped from the current session by the repository.
type CreateNoteInput struct {
	ClientID string
	Body     string
}

// AttachmentUpload carries one file destined for a note.
type AttachmentUpload struct {
	FileName string
	MimeType *string
	Content  []byte
}

// ------------------------------
// Patches
// ------------------------------

// ClientPatch is a partial client update. A present Contacts field replaces
// the whole contact list for the client.
type ClientPatch struct {
	Name           Opt[string]
	Notes          Opt[string]
	TotalPrice     Opt[float64]
	RemainingToPay Opt[float64]
	Contacts       Opt[[]ContactInput]
}

// ProjectPatch is a partial project update.
type ProjectPatch struct {
	ClientID    Opt[string]
	Name        Opt[string]
	Description Opt[string]
	Status      Opt[ProjectStatus]
	StartDate   Opt[string]
	EndDate     Opt[string]
	Budget      Opt[float64]
	Currency    Opt[string]
}

// TaskPatch is a partial task update.
type TaskPatch struct {
	Description Opt[string]
	Status      Opt[TaskStatus]
	Priority    Opt[TaskPriority]
	AssigneeID  Opt[string]
	ClientID    Opt[string]
	ProjectID   Opt[string]
	CategoryID  Opt[string]
	DueAt       Opt[string]
	Tags        Opt[[]string]
	IsPersonal  Opt[bool]
	OwnerUserID Opt[string]
}

// CategoryPatch is a partial task-category update.
type CategoryPatch struct {
	Name  Opt[string]
	Slug  Opt[string]
	Color Opt[string]
}

// DocumentPatch is a partial document-metadata update. The stored object
// itself is immutable; only metadata moves.
type DocumentPatch struct {
	ClientID  Opt[string]
	ProjectID Opt[string]
	Kind      Opt[DocumentKind]
	Title     Opt[string]
}

// NotePatch is a partial client-note update.
type NotePatch struct {
	Body Opt[string]
}

// ------------------------------
// Filters
// ------------------------------
//
// Empty string means "no constraint on this field"; such fields are omitted
// from the outgoing query entirely, never sent as empty or null literals.

// ClientFilter narrows client listings.
type ClientFilter struct {
	// Search matches name or notes, case-insensitive substring.
	Search string
}

// ProjectFilter narrows project listings.
type ProjectFilter struct {
	ClientID string
	Status   ProjectStatus
	Search   string
}

// TaskFilter narrows task listings.
type TaskFilter struct {
	Status     TaskStatus
	Priority   TaskPriority
	AssigneeID string
	ClientID   string
	ProjectID  string
	CategoryID string
	// PersonalFor restricts to the personal partition of the given user.
	PersonalFor string
	// Search matches the composite description, case-insensitive substring.
	Search string
}

// DocumentFilter narrows document listings.
type DocumentFilter struct {
	ClientID  string
	ProjectID string
	Kind      DocumentKind
}

// NoteFilter narrows client-note listings.
type NoteFilter struct {
	ClientID       string
	OnlyUnresolved bool
}
