package inmem

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/workroom-hq/workroom-go/internal/model"
	"github.com/workroom-hq/workroom-go/internal/repo"
	"github.com/workroom-hq/workroom-go/internal/repo/repotest"
	"github.com/workroom-hq/workroom-go/internal/session"
)

func TestInMemStoreCompliance(t *testing.T) {
	repotest.Run(t, func(t *testing.T) repo.Store {
		return New(zerolog.Nop(), session.Static("user-mem"))
	})
}

// Unlike the REST driver, writes against a missing id report the miss.
func TestWritesAgainstMissingIDs(t *testing.T) {
	s := New(zerolog.Nop(), session.Static(""))
	ctx := context.Background()

	if _, err := s.Clients().Update(ctx, "nope", model.ClientPatch{}); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("Update: %v", err)
	}
	if err := s.Clients().Delete(ctx, "nope"); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Notes().SetResolved(ctx, "nope", true); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("SetResolved: %v", err)
	}
	if got, err := s.Tasks().Get(ctx, "nope"); err != nil || got != nil {
		t.Fatalf("Get: got=%v err=%v", got, err)
	}
}

func TestCreateWithAuthUserLinksIdentity(t *testing.T) {
	s := New(zerolog.Nop(), session.Static(""))
	created, err := s.Clients().CreateWithAuthUser(context.Background(),
		model.CreateClientInput{Name: "Acme"},
		model.AuthUserInput{Email: "acme@example.test", Password: "pw"})
	if err != nil {
		t.Fatalf("CreateWithAuthUser: %v", err)
	}
	if created.AuthUserID == nil || *created.AuthUserID == "" {
		t.Fatalf("identity not linked: %+v", created)
	}
}

func TestAuthProvisioningFailureRollsBackClient(t *testing.T) {
	boom := errors.New("identity service down")
	s := New(zerolog.Nop(), session.Static(""), WithAuthProvisioner(
		func(context.Context, model.AuthUserInput) (string, error) { return "", boom },
	))
	ctx := context.Background()

	_, err := s.Clients().CreateWithAuthUser(ctx,
		model.CreateClientInput{Name: "Acme"},
		model.AuthUserInput{Email: "acme@example.test", Password: "pw"})
	if !errors.Is(err, boom) {
		t.Fatalf("got %v, want provisioning error", err)
	}
	lst, err := s.Clients().List(ctx, model.ClientFilter{})
	if err != nil || len(lst) != 0 {
		t.Fatalf("client row survived rollback: n=%d err=%v", len(lst), err)
	}
}

func TestAuthorStampedFromSession(t *testing.T) {
	s := New(zerolog.Nop(), session.Static("user-42"))
	ctx := context.Background()

	client, err := s.Clients().Create(ctx, model.CreateClientInput{Name: "Acme"})
	if err != nil {
		t.Fatalf("CreateClient: %v", err)
	}
	note, err := s.Notes().Create(ctx, model.CreateNoteInput{ClientID: client.ID, Body: "hello"})
	if err != nil {
		t.Fatalf("CreateNote: %v", err)
	}
	if note.AuthorUserID != "user-42" {
		t.Fatalf("author: %q", note.AuthorUserID)
	}
	resolved, err := s.Notes().SetResolved(ctx, note.ID, true)
	if err != nil {
		t.Fatalf("SetResolved: %v", err)
	}
	if resolved.ResolvedBy == nil || *resolved.ResolvedBy != "user-42" {
		t.Fatalf("resolved_by: %v", resolved.ResolvedBy)
	}
}
