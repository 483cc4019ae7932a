// Package model holds the normalized, UI-facing domain entities together with
// the inputs, patches and filters the repositories accept.
//
// Identifiers are opaque strings. Timestamps are ISO-8601 UTC strings and are
// compared lexicographically; date-only values ("2024-03-01") are legal for
// project start/end dates. They stay strings end to end because formatting is
// a presentation concern that does not belong in this layer.
package model

import "time"

// ProjectStatus enumerates the lifecycle of a project.
type ProjectStatus string

const (
	ProjectPlanned   ProjectStatus = "planned"
	ProjectActive    ProjectStatus = "active"
	ProjectOnHold    ProjectStatus = "on_hold"
	ProjectCompleted ProjectStatus = "completed"
	ProjectCancelled ProjectStatus = "cancelled"
)

// TaskStatus enumerates task states. Most views only surface todo/done.
type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in_progress"
	TaskDone       TaskStatus = "done"
)

// TaskPriority enumerates task priorities.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// DocumentKind enumerates the kinds of documents attached to clients/projects.
type DocumentKind string

const (
	DocGeneral    DocumentKind = "general"
	DocReceipt    DocumentKind = "receipt"
	DocInvoice    DocumentKind = "invoice"
	DocQuote      DocumentKind = "quote"
	DocContract   DocumentKind = "contract"
	DocTaxInvoice DocumentKind = "tax_invoice"
	DocOther      DocumentKind = "other"
)

// Client is a business client with an ordered contact list and its documents.
// The contact list is replaced wholesale on update; there is no partial
// contact patch.
type Client struct {
	ID             string
	Name           string
	Notes          *string
	TotalPrice     *float64
	RemainingToPay *float64
	AuthUserID     *string
	Contacts       []Contact
	Documents      []AppDocument
	CreatedAt      string
	UpdatedAt      string
}

// Contact is a single entry of a client's contact list.
type Contact struct {
	ID        string
	ClientID  string
	Name      string
	Email     *string
	Phone     *string
	CreatedAt string
	UpdatedAt string
}

// Project belongs to exactly one client. ClientName is populated from the
// embedded relation on reads and is never written back.
type Project struct {
	ID          string
	ClientID    string
	ClientName  *string
	Name        string
	Description *string
	Status      ProjectStatus
	StartDate   *string
	EndDate     *string
	Budget      *float64
	Currency    string
	CreatedAt   string
	UpdatedAt   string
}

// DefaultCurrency is applied when a project is created without one.
const DefaultCurrency = "ILS"

// Task carries a composite "title\n\ndetails" string in Description; there is
// no separately persisted title column. A DueAt at midnight local time is the
// sentinel for "all day, no specific time".
type Task struct {
	ID          string
	Description string
	Status      TaskStatus
	Priority    TaskPriority
	AssigneeID  *string
	ClientID    *string
	ProjectID   *string
	CategoryID  *string
	ClientName  *string
	ProjectName *string
	DueAt       *string
	Tags        []string
	IsPersonal  bool
	OwnerUserID *string
	CreatedAt   string
	UpdatedAt   string
}

// TaskCategory is a user-managed label for grouping tasks.
type TaskCategory struct {
	ID        string
	Name      string
	Slug      string
	Color     *string
	CreatedAt string
	UpdatedAt string
}

// AppDocument is a stored file attached to a client and/or project.
// StoragePath is the ASCII-safe backend object key; FileName keeps the
// original, possibly non-ASCII, display name.
type AppDocument struct {
	ID          string
	ClientID    *string
	ProjectID   *string
	Kind        DocumentKind
	Title       string
	StoragePath string
	FileName    string
	MimeType    *string
	SizeBytes   *int64
	UploadedBy  *string
	CreatedAt   string
	UpdatedAt   string
}

// ClientNote is a note on a client with up to a few attachments (three by
// convention, not enforced). ResolvedAt and ResolvedBy are set together and
// cleared together.
type ClientNote struct {
	ID           string
	ClientID     string
	AuthorUserID string
	Body         string
	IsResolved   bool
	ResolvedAt   *string
	ResolvedBy   *string
	Attachments  []NoteAttachment
	CreatedAt    string
	UpdatedAt    string
}

// NoteAttachment is a stored file hanging off a client note.
type NoteAttachment struct {
	ID          string
	NoteID      string
	StoragePath string
	PublicURL   string
	FileName    string
	MimeType    *string
	SizeBytes   *int64
	CreatedAt   string
}

// TimestampLayout is the fixed-width layout used for locally stamped
// timestamps. The fraction is zero-padded so values order lexicographically.
const TimestampLayout = "2006-01-02T15:04:05.000000Z"

// NowISO returns the current UTC time in TimestampLayout.
func NowISO() string { return time.Now().UTC().Format(TimestampLayout) }
