// Package store provides UI-facing stores, one per entity. A store owns a
// filter and the last loaded item slice, and runs every write through the
// write-then-reload protocol: mutate via the repository, then reload the
// list so callers always observe backend-authoritative state.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Status is the lifecycle of a store's item slice.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusReady
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

const defaultLoadTimeout = 30 * time.Second

// Option tunes a store at construction time.
type Option func(*options)

type options struct {
	loadTimeout time.Duration
}

// WithLoadTimeout bounds each Load call. A load that exceeds the bound
// transitions the store to the error state instead of hanging.
func WithLoadTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.loadTimeout = d
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{loadTimeout: defaultLoadTimeout}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// base carries the state machine shared by every entity store. Each Load
// draws a sequence number; a response is applied only when its number is
// still the latest issued, so a slow early response can never overwrite the
// result of a later one.
type base[T any, F any] struct {
	mu      sync.Mutex
	log     zerolog.Logger
	list    func(ctx context.Context, f F) ([]T, error)
	filter  F
	items   []T
	status  Status
	err     error
	seq     uint64
	timeout time.Duration
}

func newBase[T any, F any](log zerolog.Logger, list func(context.Context, F) ([]T, error), opts []Option) *base[T, F] {
	o := buildOptions(opts)
	return &base[T, F]{log: log, list: list, timeout: o.loadTimeout}
}

// Load snapshots the current filter, lists through the repository, and
// replaces the item slice wholesale. Failures are recorded as store state
// and also returned for callers that want them immediately.
func (b *base[T, F]) Load(ctx context.Context) error {
	b.mu.Lock()
	b.seq++
	seq := b.seq
	f := b.filter
	b.status = StatusLoading
	b.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()
	items, err := b.list(ctx, f)

	b.mu.Lock()
	defer b.mu.Unlock()
	if seq != b.seq {
		// A newer Load was issued while this one was in flight.
		b.log.Debug().Uint64("seq", seq).Uint64("latest", b.seq).Msg("discarding stale load response")
		return err
	}
	if err != nil {
		b.status = StatusError
		b.err = err
		b.log.Error().Err(err).Msg("load failed")
		return err
	}
	b.items = items
	b.status = StatusReady
	b.err = nil
	return nil
}

// SetQuery merges changes into the filter via the mutator. It never
// triggers a reload; callers decide when to Load.
func (b *base[T, F]) SetQuery(mutate func(*F)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	mutate(&b.filter)
}

// Items returns a copy of the last loaded slice.
func (b *base[T, F]) Items() []T {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]T(nil), b.items...)
}

// Filter returns the current filter value.
func (b *base[T, F]) Filter() F {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.filter
}

func (b *base[T, F]) Status() Status {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.status
}

func (b *base[T, F]) IsLoading() bool { return b.Status() == StatusLoading }

// Err returns the error recorded by the most recent failed Load, or nil.
func (b *base[T, F]) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.err
}
