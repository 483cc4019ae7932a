package rest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"

	"github.com/workroom-hq/workroom-go/internal/config"
	"github.com/workroom-hq/workroom-go/internal/errs"
	"github.com/workroom-hq/workroom-go/internal/model"
	"github.com/workroom-hq/workroom-go/internal/repo"
	"github.com/workroom-hq/workroom-go/internal/repo/repotest"
	"github.com/workroom-hq/workroom-go/internal/session"
)

func newFakeStore(t *testing.T) (repo.Store, *repotest.FakeBackend) {
	t.Helper()
	fake := repotest.NewFakeBackend()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	cfg := config.NewForTesting(srv.URL, "test-key")
	return New(cfg, zerolog.Nop(), session.Static("user-test")), fake
}

func TestRestStoreCompliance(t *testing.T) {
	repotest.Run(t, func(t *testing.T) repo.Store {
		s, _ := newFakeStore(t)
		return s
	})
}

// lastQuery returns the parsed query of the most recent request matching
// method and path.
func lastQuery(t *testing.T, fake *repotest.FakeBackend, method, path string) url.Values {
	t.Helper()
	reqs := fake.Requests()
	for i := len(reqs) - 1; i >= 0; i-- {
		line := reqs[i]
		prefix := method + " " + path
		if line != prefix && !strings.HasPrefix(line, prefix+"?") {
			continue
		}
		_, raw, _ := strings.Cut(line, "?")
		q, err := url.ParseQuery(raw)
		if err != nil {
			t.Fatalf("ParseQuery %q: %v", raw, err)
		}
		return q
	}
	t.Fatalf("no request %s %s in %v", method, path, reqs)
	return nil
}

func TestListOmitsUnsetFilters(t *testing.T) {
	s, fake := newFakeStore(t)
	ctx := context.Background()

	if _, err := s.Tasks().List(ctx, model.TaskFilter{}); err != nil {
		t.Fatalf("List: %v", err)
	}
	q := lastQuery(t, fake, http.MethodGet, "/rest/v1/tasks")
	if len(q) != 2 || q.Get("select") == "" || q.Get("order") == "" {
		t.Fatalf("empty filter leaked predicates: %v", q)
	}

	if _, err := s.Tasks().List(ctx, model.TaskFilter{Status: model.TaskTodo, PersonalFor: "u-9"}); err != nil {
		t.Fatalf("List filtered: %v", err)
	}
	q = lastQuery(t, fake, http.MethodGet, "/rest/v1/tasks")
	if q.Get("status") != "eq.todo" {
		t.Fatalf("status predicate: %q", q.Get("status"))
	}
	if q.Get("is_personal") != "eq.true" || q.Get("owner_user_id") != "eq.u-9" {
		t.Fatalf("personal partition predicates: %v", q)
	}
}

func TestSearchMetacharactersStayInsideThePattern(t *testing.T) {
	s, fake := newFakeStore(t)

	if _, err := s.Clients().List(context.Background(), model.ClientFilter{Search: `50%,(off)_`}); err != nil {
		t.Fatalf("List: %v", err)
	}
	q := lastQuery(t, fake, http.MethodGet, "/rest/v1/clients")
	want := `(name.ilike.*50\%\,\(off\)\_*,notes.ilike.*50\%\,\(off\)\_*)`
	if q.Get("or") != want {
		t.Fatalf("or predicate:\n got %q\nwant %q", q.Get("or"), want)
	}
}

func TestGetUsesEqAndLimitOne(t *testing.T) {
	s, fake := newFakeStore(t)
	got, err := s.Projects().Get(context.Background(), "p-404")
	if err != nil || got != nil {
		t.Fatalf("Get missing: got=%v err=%v", got, err)
	}
	q := lastQuery(t, fake, http.MethodGet, "/rest/v1/projects")
	if q.Get("id") != "eq.p-404" || q.Get("limit") != "1" {
		t.Fatalf("get predicates: %v", q)
	}
}

func TestDeleteMissingIsNoOp(t *testing.T) {
	s, _ := newFakeStore(t)
	if err := s.Clients().Delete(context.Background(), "never-existed"); err != nil {
		t.Fatalf("Delete missing: %v", err)
	}
}

func TestCreateFailsOnEmptyRepresentation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("[]"))
	}))
	defer srv.Close()

	s := New(config.NewForTesting(srv.URL, "k"), zerolog.Nop(), session.Static(""))
	_, err := s.Tasks().Create(context.Background(), model.CreateTaskInput{Description: "x"})
	if !errors.Is(err, model.ErrEmptyCreateResult) {
		t.Fatalf("got %v, want ErrEmptyCreateResult", err)
	}
}

func TestAuthProvisioningFailureRollsBackClient(t *testing.T) {
	s, fake := newFakeStore(t)
	fake.FailAuth(http.StatusUnprocessableEntity)

	_, err := s.Clients().CreateWithAuthUser(context.Background(),
		model.CreateClientInput{Name: "Acme"},
		model.AuthUserInput{Email: "acme@example.test", Password: "pw"})
	if err == nil {
		t.Fatal("expected provisioning error")
	}
	if errs.StatusCode(err) != http.StatusUnprocessableEntity {
		t.Fatalf("status: %d", errs.StatusCode(err))
	}
	if rows := fake.Rows("clients"); len(rows) != 0 {
		t.Fatalf("client row survived rollback: %v", rows)
	}
	if users := fake.AuthUsers(); len(users) != 0 {
		t.Fatalf("auth user created despite failure: %v", users)
	}
}

func TestLinkFailureKeepsClientAndAuthUser(t *testing.T) {
	s, fake := newFakeStore(t)
	fake.FailNextPatch(http.StatusBadRequest)

	created, err := s.Clients().CreateWithAuthUser(context.Background(),
		model.CreateClientInput{Name: "Acme"},
		model.AuthUserInput{Email: "acme@example.test", Password: "pw"})
	if err != nil {
		t.Fatalf("link failure must not surface: %v", err)
	}
	if created == nil || created.Name != "Acme" {
		t.Fatalf("created: %+v", created)
	}
	if rows := fake.Rows("clients"); len(rows) != 1 {
		t.Fatalf("client rows: %d", len(rows))
	}
	if users := fake.AuthUsers(); len(users) != 1 {
		t.Fatalf("auth users: %d", len(users))
	}
}

func TestRecoverableStatusIsRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) <= 2 {
			http.Error(w, `{"msg":"busy"}`, http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("[]"))
	}))
	defer srv.Close()

	s := New(config.NewForTesting(srv.URL, "k"), zerolog.Nop(), session.Static(""))
	if _, err := s.Tasks().List(context.Background(), model.TaskFilter{}); err != nil {
		t.Fatalf("List after retries: %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 3 {
		t.Fatalf("attempts: %d, want 3", n)
	}
}

func TestIrrecoverableStatusFailsFast(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, `{"msg":"no such column"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	s := New(config.NewForTesting(srv.URL, "k"), zerolog.Nop(), session.Static(""))
	_, err := s.Tasks().List(context.Background(), model.TaskFilter{})
	if err == nil || !errs.IsIrrecoverable(err) {
		t.Fatalf("got %v, want irrecoverable", err)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("attempts: %d, want 1", n)
	}
}

func TestRequestsCarryAuthHeaders(t *testing.T) {
	var apikey, bearer string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apikey = r.Header.Get("apikey")
		bearer = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("[]"))
	}))
	defer srv.Close()

	s := New(config.NewForTesting(srv.URL, "service-key"), zerolog.Nop(), session.Static(""))
	if _, err := s.TaskCategories().List(context.Background()); err != nil {
		t.Fatalf("List: %v", err)
	}
	if apikey != "service-key" {
		t.Fatalf("apikey header: %q", apikey)
	}
	if bearer != "Bearer service-key" {
		t.Fatalf("authorization header: %q", bearer)
	}
}
