// Package inmem is a process-local drop-in substitute for the REST driver,
// used when no backend is configured (local development, tests). Filtering
// and sort semantics replicate the REST driver exactly so callers cannot tell
// the two apart; only the error shape of writes against missing ids differs,
// deliberately.
package inmem

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/workroom-hq/workroom-go/internal/model"
	"github.com/workroom-hq/workroom-go/internal/repo"
	"github.com/workroom-hq/workroom-go/internal/session"
)

// AuthProvisioner provisions a login identity and returns its id. The
// default always succeeds with a fresh id; tests inject failures.
type AuthProvisioner func(ctx context.Context, auth model.AuthUserInput) (string, error)

// Option configures the in-memory store during construction.
type Option func(*memStore)

// WithAuthProvisioner replaces the identity-provisioning step.
func WithAuthProvisioner(fn AuthProvisioner) Option {
	return func(s *memStore) { s.provision = fn }
}

type memStore struct {
	mu   sync.Mutex
	log  zerolog.Logger
	sess session.Session

	clients    []model.Client
	projects   []model.Project
	tasks      []model.Task
	categories []model.TaskCategory
	documents  []model.AppDocument
	notes      []model.ClientNote

	provision AuthProvisioner
}

// New constructs an empty in-memory store.
func New(log zerolog.Logger, sess session.Session, opts ...Option) repo.Store {
	s := &memStore{
		log:  log,
		sess: sess,
		provision: func(context.Context, model.AuthUserInput) (string, error) {
			return newID(), nil
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *memStore) Clients() repo.Clients               { return &clients{s} }
func (s *memStore) Projects() repo.Projects             { return &projects{s} }
func (s *memStore) Tasks() repo.Tasks                   { return &tasks{s} }
func (s *memStore) TaskCategories() repo.TaskCategories { return &categories{s} }
func (s *memStore) Documents() repo.Documents           { return &documents{s} }
func (s *memStore) Notes() repo.ClientNotes             { return &notes{s} }

// Ids only need to be locally unique; nothing outlives the process.
func newID() string { return uuid.NewString() }

func nowISO() string { return model.NowISO() }

func notFound(kind, id string) error {
	return fmt.Errorf("%w: %s %s", model.ErrNotFound, kind, id)
}

// containsFold is the in-memory equivalent of an ilike substring pattern.
func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// applyOpt folds an optional patch field into a nullable column: absent
// leaves it alone, null clears it, a value replaces it.
func applyOpt[T any](dst **T, o model.Opt[T]) {
	if !o.Present() {
		return
	}
	if v, ok := o.Get(); ok {
		*dst = &v
		return
	}
	*dst = nil
}

func derefOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}

// sortNewestFirst orders by the given timestamp key descending; ties keep
// insertion order, matching the backend's stable ordering.
func sortNewestFirst[T any](items []T, key func(T) string) {
	sort.SliceStable(items, func(i, j int) bool {
		return key(items[i]) > key(items[j])
	})
}

// clientName resolves the joined client name the REST driver gets from an
// embedded relation. Caller must hold the lock.
func (s *memStore) clientName(id *string) *string {
	if id == nil {
		return nil
	}
	for i := range s.clients {
		if s.clients[i].ID == *id {
			name := s.clients[i].Name
			return &name
		}
	}
	return nil
}

func (s *memStore) projectName(id *string) *string {
	if id == nil {
		return nil
	}
	for i := range s.projects {
		if s.projects[i].ID == *id {
			name := s.projects[i].Name
			return &name
		}
	}
	return nil
}
