package repotest

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/workroom-hq/workroom-go/internal/model"
	"github.com/workroom-hq/workroom-go/internal/repo"
)

// pause keeps locally stamped timestamps strictly increasing between writes.
const pause = 2 * time.Millisecond

func strPtr(s string) *string   { return &s }
func f64Ptr(f float64) *float64 { return &f }

// Run exercises the shared repository contract against a store implementation.
// makeStore must return a clean, isolated store. Behaviours that deliberately
// differ between drivers (Delete on a missing id) are not asserted here.
func Run(t *testing.T, makeStore func(t *testing.T) repo.Store) {
	t.Helper()

	s := makeStore(t)
	ctx := context.Background()

	// Task categories: name-ascending listing regardless of creation order.
	if _, err := s.TaskCategories().Create(ctx, model.CreateCategoryInput{Name: "Billing", Slug: "billing"}); err != nil {
		t.Fatalf("CreateCategory Billing: %v", err)
	}
	admin, err := s.TaskCategories().Create(ctx, model.CreateCategoryInput{Name: "Admin", Slug: "admin", Color: strPtr("#ff0000")})
	if err != nil {
		t.Fatalf("CreateCategory Admin: %v", err)
	}
	cats, err := s.TaskCategories().List(ctx)
	if err != nil || len(cats) != 2 {
		t.Fatalf("ListCategories: n=%d err=%v", len(cats), err)
	}
	if cats[0].Name != "Admin" || cats[1].Name != "Billing" {
		t.Fatalf("ListCategories order: got %q, %q", cats[0].Name, cats[1].Name)
	}
	if got, err := s.TaskCategories().Get(ctx, admin.ID); err != nil || got == nil || got.Slug != "admin" {
		t.Fatalf("GetCategory: got=%v err=%v", got, err)
	}

	// Clients: create with contacts; empty contact names are dropped.
	client, err := s.Clients().Create(ctx, model.CreateClientInput{
		Name:       "Acme Industries",
		Notes:      strPtr("widget supplier"),
		TotalPrice: f64Ptr(12000),
		Contacts: []model.ContactInput{
			{Name: "Dana", Email: strPtr("dana@acme.test")},
			{Name: ""},
		},
	})
	if err != nil {
		t.Fatalf("CreateClient: %v", err)
	}
	if client.ID == "" {
		t.Fatal("CreateClient: empty id")
	}
	if len(client.Contacts) != 1 || client.Contacts[0].Name != "Dana" {
		t.Fatalf("CreateClient contacts: got %+v", client.Contacts)
	}

	if got, err := s.Clients().Get(ctx, client.ID); err != nil || got == nil || got.Name != "Acme Industries" {
		t.Fatalf("GetClient: got=%v err=%v", got, err)
	}
	if got, err := s.Clients().Get(ctx, "00000000-0000-0000-0000-000000000000"); err != nil || got != nil {
		t.Fatalf("GetClient missing: got=%v err=%v", got, err)
	}

	// Search hits name and notes case-insensitively; no hit means empty list.
	if lst, err := s.Clients().List(ctx, model.ClientFilter{Search: "acme"}); err != nil || len(lst) != 1 {
		t.Fatalf("ListClients search name: n=%d err=%v", len(lst), err)
	}
	if lst, err := s.Clients().List(ctx, model.ClientFilter{Search: "WIDGET"}); err != nil || len(lst) != 1 {
		t.Fatalf("ListClients search notes: n=%d err=%v", len(lst), err)
	}
	if lst, err := s.Clients().List(ctx, model.ClientFilter{Search: "zzz-no-match"}); err != nil || len(lst) != 0 {
		t.Fatalf("ListClients search miss: n=%d err=%v", len(lst), err)
	}

	// Partial patch must not clobber untouched fields.
	time.Sleep(pause)
	var notesPatch model.ClientPatch
	notesPatch.Notes = model.Set("now also gadgets")
	updated, err := s.Clients().Update(ctx, client.ID, notesPatch)
	if err != nil {
		t.Fatalf("UpdateClient notes: %v", err)
	}
	if updated.Name != "Acme Industries" || updated.Notes == nil || *updated.Notes != "now also gadgets" {
		t.Fatalf("UpdateClient non-clobber: got name=%q notes=%v", updated.Name, updated.Notes)
	}
	if updated.TotalPrice == nil || *updated.TotalPrice != 12000 {
		t.Fatalf("UpdateClient kept total: got %v", updated.TotalPrice)
	}

	// Contacts replace wholesale.
	var contactsPatch model.ClientPatch
	contactsPatch.Contacts = model.Set([]model.ContactInput{
		{Name: "Noa", Phone: strPtr("+972-50-0000000")},
		{Name: "Omri"},
	})
	updated, err = s.Clients().Update(ctx, client.ID, contactsPatch)
	if err != nil {
		t.Fatalf("UpdateClient contacts: %v", err)
	}
	if len(updated.Contacts) != 2 {
		t.Fatalf("UpdateClient contacts replace: n=%d", len(updated.Contacts))
	}
	for _, c := range updated.Contacts {
		if c.Name == "Dana" {
			t.Fatalf("UpdateClient contacts: stale contact survived replace")
		}
	}

	// A contacts-only update leaves the parent row's recency alone: the
	// newer client must stay first under the updated_at ordering.
	time.Sleep(pause)
	other, err := s.Clients().Create(ctx, model.CreateClientInput{Name: "Borealis Ltd"})
	if err != nil {
		t.Fatalf("CreateClient borealis: %v", err)
	}
	time.Sleep(pause)
	var contactsOnly model.ClientPatch
	contactsOnly.Contacts = model.Set([]model.ContactInput{{Name: "Yael"}})
	if _, err := s.Clients().Update(ctx, client.ID, contactsOnly); err != nil {
		t.Fatalf("UpdateClient contacts only: %v", err)
	}
	if lst, err := s.Clients().List(ctx, model.ClientFilter{}); err != nil || len(lst) != 2 || lst[0].ID != other.ID {
		t.Fatalf("ListClients after contacts-only update: n=%d err=%v (expected newer client first)", len(lst), err)
	}
	if err := s.Clients().Delete(ctx, other.ID); err != nil {
		t.Fatalf("DeleteClient borealis: %v", err)
	}

	// Projects: defaults, joined client name, filters.
	time.Sleep(pause)
	website, err := s.Projects().Create(ctx, model.CreateProjectInput{
		ClientID: client.ID, Name: "Website Redesign", Status: model.ProjectActive, Budget: f64Ptr(4500),
	})
	if err != nil {
		t.Fatalf("CreateProject website: %v", err)
	}
	if website.Currency != model.DefaultCurrency {
		t.Fatalf("CreateProject currency default: got %q", website.Currency)
	}
	time.Sleep(pause)
	internal, err := s.Projects().Create(ctx, model.CreateProjectInput{ClientID: client.ID, Name: "Internal Audit"})
	if err != nil {
		t.Fatalf("CreateProject internal: %v", err)
	}
	if internal.Status != model.ProjectPlanned {
		t.Fatalf("CreateProject status default: got %q", internal.Status)
	}
	if got, err := s.Projects().Get(ctx, website.ID); err != nil || got == nil || got.ClientName == nil || *got.ClientName != "Acme Industries" {
		t.Fatalf("GetProject joined name: got=%v err=%v", got, err)
	}
	if lst, err := s.Projects().List(ctx, model.ProjectFilter{Status: model.ProjectActive}); err != nil || len(lst) != 1 || lst[0].ID != website.ID {
		t.Fatalf("ListProjects status: n=%d err=%v", len(lst), err)
	}
	if lst, err := s.Projects().List(ctx, model.ProjectFilter{ClientID: client.ID}); err != nil || len(lst) != 2 {
		t.Fatalf("ListProjects client: n=%d err=%v", len(lst), err)
	}
	if lst, err := s.Projects().List(ctx, model.ProjectFilter{Search: "website"}); err != nil || len(lst) != 1 {
		t.Fatalf("ListProjects search: n=%d err=%v", len(lst), err)
	}

	// Newest-updated first.
	if lst, err := s.Projects().List(ctx, model.ProjectFilter{}); err != nil || len(lst) != 2 || lst[0].ID != internal.ID {
		t.Fatalf("ListProjects order: n=%d first=%v err=%v", len(lst), lst, err)
	}

	time.Sleep(pause)
	var done model.ProjectPatch
	done.Status = model.Set(model.ProjectCompleted)
	if got, err := s.Projects().Update(ctx, website.ID, done); err != nil || got.Status != model.ProjectCompleted {
		t.Fatalf("UpdateProject status: got=%v err=%v", got, err)
	}

	// Tasks: filters including the personal partition.
	assignee := "user-a"
	fix, err := s.Tasks().Create(ctx, model.CreateTaskInput{
		Description: "Fix login page\n\nusers report blank screen",
		Status:      model.TaskTodo,
		Priority:    model.PriorityHigh,
		AssigneeID:  &assignee,
		ClientID:    &client.ID,
		ProjectID:   &website.ID,
		Tags:        []string{"bug", "frontend"},
	})
	if err != nil {
		t.Fatalf("CreateTask fix: %v", err)
	}
	owner := "user-b"
	time.Sleep(pause)
	personal, err := s.Tasks().Create(ctx, model.CreateTaskInput{
		Description: "Book dentist",
		IsPersonal:  true,
		OwnerUserID: &owner,
	})
	if err != nil {
		t.Fatalf("CreateTask personal: %v", err)
	}
	if lst, err := s.Tasks().List(ctx, model.TaskFilter{Status: model.TaskTodo}); err != nil || len(lst) != 2 {
		t.Fatalf("ListTasks status: n=%d err=%v", len(lst), err)
	}
	if lst, err := s.Tasks().List(ctx, model.TaskFilter{PersonalFor: owner}); err != nil || len(lst) != 1 || lst[0].ID != personal.ID {
		t.Fatalf("ListTasks personal: n=%d err=%v", len(lst), err)
	}
	if lst, err := s.Tasks().List(ctx, model.TaskFilter{AssigneeID: assignee}); err != nil || len(lst) != 1 || lst[0].ID != fix.ID {
		t.Fatalf("ListTasks assignee: n=%d err=%v", len(lst), err)
	}
	if lst, err := s.Tasks().List(ctx, model.TaskFilter{Search: "LOGIN"}); err != nil || len(lst) != 1 || lst[0].ID != fix.ID {
		t.Fatalf("ListTasks search: n=%d err=%v", len(lst), err)
	}
	if got, err := s.Tasks().Get(ctx, fix.ID); err != nil || got == nil || got.ProjectName == nil || *got.ProjectName != "Website Redesign" {
		t.Fatalf("GetTask joined project: got=%v err=%v", got, err)
	}

	time.Sleep(pause)
	var finish model.TaskPatch
	finish.Status = model.Set(model.TaskDone)
	if got, err := s.Tasks().Update(ctx, fix.ID, finish); err != nil || got.Status != model.TaskDone || !strings.Contains(got.Description, "Fix login page") {
		t.Fatalf("UpdateTask non-clobber: got=%v err=%v", got, err)
	}

	// Documents: upload derives an ASCII key, keeps the display name, defaults
	// the kind.
	doc, err := s.Documents().Upload(ctx, model.CreateDocumentInput{
		ClientID: &client.ID,
		Kind:     model.DocReceipt,
		Title:    "March receipt",
		FileName: "קבלה.pdf",
		MimeType: strPtr("application/pdf"),
	}, []byte("%PDF-1.4 fake"))
	if err != nil {
		t.Fatalf("UploadDocument: %v", err)
	}
	if doc.FileName != "קבלה.pdf" {
		t.Fatalf("UploadDocument display name: got %q", doc.FileName)
	}
	if doc.StoragePath == "" || !strings.HasPrefix(doc.StoragePath, "documents/") || !strings.HasSuffix(doc.StoragePath, ".pdf") {
		t.Fatalf("UploadDocument key: got %q", doc.StoragePath)
	}
	if doc.SizeBytes == nil || *doc.SizeBytes != int64(len("%PDF-1.4 fake")) {
		t.Fatalf("UploadDocument size: got %v", doc.SizeBytes)
	}
	time.Sleep(pause)
	plain, err := s.Documents().Upload(ctx, model.CreateDocumentInput{Title: "Untyped", FileName: "scan"}, []byte("x"))
	if err != nil {
		t.Fatalf("UploadDocument untyped: %v", err)
	}
	if plain.Kind != model.DocGeneral {
		t.Fatalf("UploadDocument kind default: got %q", plain.Kind)
	}
	if lst, err := s.Documents().List(ctx, model.DocumentFilter{ClientID: client.ID}); err != nil || len(lst) != 1 || lst[0].ID != doc.ID {
		t.Fatalf("ListDocuments client: n=%d err=%v", len(lst), err)
	}
	if lst, err := s.Documents().List(ctx, model.DocumentFilter{Kind: model.DocReceipt}); err != nil || len(lst) != 1 {
		t.Fatalf("ListDocuments kind: n=%d err=%v", len(lst), err)
	}
	var retitle model.DocumentPatch
	retitle.Title = model.Set("March receipt (signed)")
	if got, err := s.Documents().Update(ctx, doc.ID, retitle); err != nil || got.Title != "March receipt (signed)" {
		t.Fatalf("UpdateDocument: got=%v err=%v", got, err)
	}
	if err := s.Documents().Delete(ctx, plain.ID); err != nil {
		t.Fatalf("DeleteDocument: %v", err)
	}

	// Client-attached documents surface in the client's document list.
	attached, err := s.Clients().AddDocument(ctx, client.ID, model.CreateDocumentInput{
		Title: "Contract", Kind: model.DocContract, FileName: "contract.pdf",
	}, []byte("contract body"))
	if err != nil {
		t.Fatalf("AddDocument: %v", err)
	}
	if got, err := s.Clients().Get(ctx, client.ID); err != nil || got == nil || len(got.Documents) != 2 {
		n := -1
		if got != nil {
			n = len(got.Documents)
		}
		t.Fatalf("GetClient documents: n=%d err=%v", n, err)
	}
	if err := s.Clients().RemoveDocument(ctx, client.ID, attached.ID); err != nil {
		t.Fatalf("RemoveDocument: %v", err)
	}
	if got, _ := s.Clients().Get(ctx, client.ID); got == nil || len(got.Documents) != 1 {
		t.Fatalf("GetClient documents after remove: got=%v", got)
	}

	// Notes: unresolved-first ordering, resolve stamps, attachment flow.
	n1, err := s.Notes().Create(ctx, model.CreateNoteInput{ClientID: client.ID, Body: "call back about invoice"})
	if err != nil {
		t.Fatalf("CreateNote n1: %v", err)
	}
	time.Sleep(pause)
	n2, err := s.Notes().Create(ctx, model.CreateNoteInput{ClientID: client.ID, Body: "send updated quote"})
	if err != nil {
		t.Fatalf("CreateNote n2: %v", err)
	}
	if lst, err := s.Notes().List(ctx, model.NoteFilter{ClientID: client.ID}); err != nil || len(lst) != 2 || lst[0].ID != n2.ID {
		t.Fatalf("ListNotes order: n=%d err=%v", len(lst), err)
	}

	resolved, err := s.Notes().SetResolved(ctx, n1.ID, true)
	if err != nil {
		t.Fatalf("SetResolved: %v", err)
	}
	if !resolved.IsResolved || resolved.ResolvedAt == nil {
		t.Fatalf("SetResolved stamps: got %+v", resolved)
	}
	firstStamp := *resolved.ResolvedAt

	// Resolved notes sink below unresolved ones.
	if lst, err := s.Notes().List(ctx, model.NoteFilter{ClientID: client.ID}); err != nil || len(lst) != 2 || lst[0].ID != n2.ID || lst[1].ID != n1.ID {
		t.Fatalf("ListNotes resolved order: err=%v lst=%v", err, lst)
	}
	if lst, err := s.Notes().List(ctx, model.NoteFilter{ClientID: client.ID, OnlyUnresolved: true}); err != nil || len(lst) != 1 || lst[0].ID != n2.ID {
		t.Fatalf("ListNotes unresolved: n=%d err=%v", len(lst), err)
	}

	// Resolving again re-stamps rather than keeping the first timestamp.
	time.Sleep(pause)
	again, err := s.Notes().SetResolved(ctx, n1.ID, true)
	if err != nil {
		t.Fatalf("SetResolved again: %v", err)
	}
	if again.ResolvedAt == nil || !(*again.ResolvedAt > firstStamp) {
		t.Fatalf("SetResolved re-stamp: first=%q second=%v", firstStamp, again.ResolvedAt)
	}

	// Unresolving clears both stamps together.
	cleared, err := s.Notes().SetResolved(ctx, n1.ID, false)
	if err != nil {
		t.Fatalf("SetResolved clear: %v", err)
	}
	if cleared.IsResolved || cleared.ResolvedAt != nil || cleared.ResolvedBy != nil {
		t.Fatalf("SetResolved clear stamps: got %+v", cleared)
	}

	withAtt, err := s.Notes().AddAttachment(ctx, n2.ID, model.AttachmentUpload{
		FileName: "screenshot.png", MimeType: strPtr("image/png"), Content: []byte{0x89, 0x50, 0x4e, 0x47},
	})
	if err != nil {
		t.Fatalf("AddAttachment: %v", err)
	}
	if len(withAtt.Attachments) != 1 || withAtt.Attachments[0].PublicURL == "" {
		t.Fatalf("AddAttachment: got %+v", withAtt.Attachments)
	}
	if !strings.HasPrefix(withAtt.Attachments[0].StoragePath, "note-attachments/") {
		t.Fatalf("AddAttachment key: got %q", withAtt.Attachments[0].StoragePath)
	}

	var reword model.NotePatch
	reword.Body = model.Set("send updated quote today")
	if got, err := s.Notes().Update(ctx, n2.ID, reword); err != nil || got.Body != "send updated quote today" {
		t.Fatalf("UpdateNote: got=%v err=%v", got, err)
	}

	// Teardown through the contract itself.
	if err := s.Notes().Delete(ctx, n2.ID); err != nil {
		t.Fatalf("DeleteNote: %v", err)
	}
	if err := s.Tasks().Delete(ctx, personal.ID); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if err := s.Projects().Delete(ctx, internal.ID); err != nil {
		t.Fatalf("DeleteProject: %v", err)
	}
	if err := s.TaskCategories().Delete(ctx, admin.ID); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}
	if err := s.Clients().Delete(ctx, client.ID); err != nil {
		t.Fatalf("DeleteClient: %v", err)
	}
	if got, err := s.Clients().Get(ctx, client.ID); err != nil || got != nil {
		t.Fatalf("GetClient after delete: got=%v err=%v", got, err)
	}
}
