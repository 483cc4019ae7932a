package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/workroom-hq/workroom-go/internal/model"
	"github.com/workroom-hq/workroom-go/internal/repo"
	"github.com/workroom-hq/workroom-go/internal/repo/inmem"
	"github.com/workroom-hq/workroom-go/internal/session"
)

// stubStore hands out canned entity repos; everything else panics if touched.
type stubStore struct {
	repo.Store
	tasks repo.Tasks
	notes repo.ClientNotes
}

func (s *stubStore) Tasks() repo.Tasks       { return s.tasks }
func (s *stubStore) Notes() repo.ClientNotes { return s.notes }

type stubTasks struct {
	repo.Tasks
	list func(ctx context.Context, f model.TaskFilter) ([]model.Task, error)
}

func (s *stubTasks) List(ctx context.Context, f model.TaskFilter) ([]model.Task, error) {
	return s.list(ctx, f)
}

type stubNotes struct {
	repo.ClientNotes
	list        func(ctx context.Context, f model.NoteFilter) ([]model.ClientNote, error)
	setResolved func(ctx context.Context, id string, resolved bool) (*model.ClientNote, error)
}

func (s *stubNotes) List(ctx context.Context, f model.NoteFilter) ([]model.ClientNote, error) {
	return s.list(ctx, f)
}

func (s *stubNotes) SetResolved(ctx context.Context, id string, resolved bool) (*model.ClientNote, error) {
	return s.setResolved(ctx, id, resolved)
}

func TestLoadTransitionsToReady(t *testing.T) {
	st := NewTaskStore(inmem.New(zerolog.Nop(), session.Static("")), zerolog.Nop())
	require.Equal(t, StatusIdle, st.Status())

	require.NoError(t, st.Load(context.Background()))
	require.Equal(t, StatusReady, st.Status())
	require.Empty(t, st.Items())
	require.NoError(t, st.Err())
}

func TestMutationReloadsItems(t *testing.T) {
	st := NewTaskStore(inmem.New(zerolog.Nop(), session.Static("")), zerolog.Nop())
	ctx := context.Background()

	created, err := st.Create(ctx, model.CreateTaskInput{Description: "write report"})
	require.NoError(t, err)
	require.NotNil(t, created)

	items := st.Items()
	require.Len(t, items, 1)
	require.Equal(t, created.ID, items[0].ID)
	require.Equal(t, StatusReady, st.Status())
}

func TestSetQueryMergesWithoutReloading(t *testing.T) {
	backing := inmem.New(zerolog.Nop(), session.Static(""))
	_, err := backing.Tasks().Create(context.Background(), model.CreateTaskInput{Description: "done already", Status: model.TaskDone})
	require.NoError(t, err)
	_, err = backing.Tasks().Create(context.Background(), model.CreateTaskInput{Description: "still open"})
	require.NoError(t, err)

	st := NewTaskStore(backing, zerolog.Nop())
	st.SetQuery(func(f *model.TaskFilter) { f.Status = model.TaskDone })

	// Merging the filter alone must not touch the store state.
	require.Equal(t, StatusIdle, st.Status())
	require.Empty(t, st.Items())

	require.NoError(t, st.Load(context.Background()))
	items := st.Items()
	require.Len(t, items, 1)
	require.Equal(t, model.TaskDone, items[0].Status)

	// Merge keeps previously set fields.
	st.SetQuery(func(f *model.TaskFilter) { f.Search = "done" })
	require.Equal(t, model.TaskDone, st.Filter().Status)
	require.Equal(t, "done", st.Filter().Search)
}

func TestLoadFailureBecomesErrorState(t *testing.T) {
	boom := errors.New("backend unavailable")
	st := NewTaskStore(&stubStore{tasks: &stubTasks{
		list: func(context.Context, model.TaskFilter) ([]model.Task, error) { return nil, boom },
	}}, zerolog.Nop())

	err := st.Load(context.Background())
	require.ErrorIs(t, err, boom)
	require.Equal(t, StatusError, st.Status())
	require.ErrorIs(t, st.Err(), boom)
}

func TestLoadTimeoutBecomesErrorState(t *testing.T) {
	st := NewTaskStore(&stubStore{tasks: &stubTasks{
		list: func(ctx context.Context, _ model.TaskFilter) ([]model.Task, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}}, zerolog.Nop(), WithLoadTimeout(10*time.Millisecond))

	err := st.Load(context.Background())
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Equal(t, StatusError, st.Status())
}

// A slow response from an earlier Load must not overwrite the result of a
// later one.
func TestStaleLoadResponseDiscarded(t *testing.T) {
	firstStarted := make(chan struct{})
	release := make(chan struct{})
	var mu sync.Mutex
	calls := 0

	st := NewTaskStore(&stubStore{tasks: &stubTasks{
		list: func(ctx context.Context, _ model.TaskFilter) ([]model.Task, error) {
			mu.Lock()
			calls++
			n := calls
			mu.Unlock()
			if n == 1 {
				close(firstStarted)
				<-release
				return []model.Task{{ID: "stale"}}, nil
			}
			return []model.Task{{ID: "fresh"}}, nil
		},
	}}, zerolog.Nop())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = st.Load(context.Background())
	}()
	<-firstStarted

	require.NoError(t, st.Load(context.Background()))
	require.Equal(t, "fresh", st.Items()[0].ID)

	close(release)
	wg.Wait()

	items := st.Items()
	require.Len(t, items, 1)
	require.Equal(t, "fresh", items[0].ID, "stale response overwrote newer load")
	require.Equal(t, StatusReady, st.Status())
}

func TestSetResolvedAppliesOptimisticPatch(t *testing.T) {
	listErr := error(nil)
	notes := &stubNotes{
		list: func(context.Context, model.NoteFilter) ([]model.ClientNote, error) {
			if listErr != nil {
				return nil, listErr
			}
			return []model.ClientNote{{ID: "n1", Body: "call back"}}, nil
		},
		setResolved: func(context.Context, string, bool) (*model.ClientNote, error) {
			return nil, errors.New("write rejected")
		},
	}
	st := NewNoteStore(&stubStore{notes: notes}, zerolog.Nop())

	require.NoError(t, st.Load(context.Background()))
	require.False(t, st.Items()[0].IsResolved)

	// Both the write and the authoritative reload fail; the optimistic flip
	// is what remains visible.
	listErr = errors.New("backend unavailable")
	_, err := st.SetResolved(context.Background(), "n1", true)
	require.Error(t, err)

	items := st.Items()
	require.Len(t, items, 1)
	require.True(t, items[0].IsResolved)
	require.Equal(t, StatusError, st.Status())
}

func TestReloadAfterResolveIsAuthoritative(t *testing.T) {
	resolved := false
	notes := &stubNotes{
		list: func(context.Context, model.NoteFilter) ([]model.ClientNote, error) {
			return []model.ClientNote{{ID: "n1", IsResolved: resolved}}, nil
		},
		setResolved: func(_ context.Context, _ string, v bool) (*model.ClientNote, error) {
			resolved = v
			return &model.ClientNote{ID: "n1", IsResolved: v}, nil
		},
	}
	st := NewNoteStore(&stubStore{notes: notes}, zerolog.Nop())
	require.NoError(t, st.Load(context.Background()))

	got, err := st.SetResolved(context.Background(), "n1", true)
	require.NoError(t, err)
	require.True(t, got.IsResolved)
	require.True(t, st.Items()[0].IsResolved)
	require.Equal(t, StatusReady, st.Status())
}
