// Package fetch provides the read/mutation layer between the admin console
// and the backend repositories: cache-keyed reads with request deduplication
// and manual revalidation, and mutation triggers with in-flight state.
//
// The layer deliberately performs no optimistic updates. A mutation never
// touches a cache; callers refetch the resources they care about afterwards,
// so every displayed list reflects a real server round-trip.
package fetch

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// FetchFunc loads the value for a cache key.
type FetchFunc[T any] func(ctx context.Context, key string) (T, error)

// Options tune a Resource. The zero value matches the defaults: no polling.
type Options struct {
	// RefreshInterval makes Run re-issue the fetch periodically.
	// Zero disables polling.
	RefreshInterval time.Duration
}

// State is a point-in-time snapshot of a Resource.
type State[T any] struct {
	// Data is the last successfully fetched value, or nil.
	Data *T
	// Err is the error from the most recent failed fetch, cleared on success.
	Err error
	// Loading is true exactly when a key is present, no error has occurred,
	// and no data has arrived yet.
	Loading bool
	// Validating is true while a fetch is in flight.
	Validating bool
}

// Resource is a shared cache entry keyed by a string. All consumers holding
// the same Resource observe the same value, and concurrent fetches collapse
// into a single upstream request per key.
//
// A key function returning "" suppresses the resource entirely: no request
// is ever issued and the state reports not-loading, no data, no error.
type Resource[T any] struct {
	key  func() string
	fn   FetchFunc[T]
	opts Options

	sf singleflight.Group

	mu       sync.Mutex
	data     *T
	err      error
	inflight int
}

// NewResource creates a Resource. key yields the current cache key ("" to
// suppress); fn loads the value for that key.
func NewResource[T any](key func() string, fn FetchFunc[T], opts Options) *Resource[T] {
	return &Resource[T]{key: key, fn: fn, opts: opts}
}

// StaticKey keys a resource that is always active.
func StaticKey(key string) func() string {
	return func() string { return key }
}

// Key returns the current cache key, or "" when the resource is suppressed.
func (r *Resource[T]) Key() string {
	if r.key == nil {
		return ""
	}
	return r.key()
}

// State returns a snapshot of the resource.
func (r *Resource[T]) State() State[T] {
	key := r.Key()

	r.mu.Lock()
	defer r.mu.Unlock()
	return State[T]{
		Data:       r.data,
		Err:        r.err,
		Loading:    key != "" && r.err == nil && r.data == nil,
		Validating: r.inflight > 0,
	}
}

// Load returns the cached value, fetching it first when nothing has been
// cached yet. A suppressed resource returns (nil, nil) without touching the
// network.
func (r *Resource[T]) Load(ctx context.Context) (*T, error) {
	key := r.Key()
	if key == "" {
		return nil, nil
	}

	r.mu.Lock()
	if r.data != nil {
		data := r.data
		r.mu.Unlock()
		return data, nil
	}
	r.mu.Unlock()

	return r.fetch(ctx, key)
}

// Refetch re-issues the request for the current key and resolves once new
// data lands. It is the caller's revalidation hook after mutations.
func (r *Resource[T]) Refetch(ctx context.Context) (*T, error) {
	key := r.Key()
	if key == "" {
		return nil, nil
	}
	return r.fetch(ctx, key)
}

// Run polls the resource at the configured interval until ctx ends. It
// returns immediately when polling is disabled.
func (r *Resource[T]) Run(ctx context.Context) {
	if r.opts.RefreshInterval <= 0 {
		return
	}
	ticker := time.NewTicker(r.opts.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = r.Refetch(ctx)
		}
	}
}

// fetch runs the fetch function through singleflight and records the result.
func (r *Resource[T]) fetch(ctx context.Context, key string) (*T, error) {
	r.mu.Lock()
	r.inflight++
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		r.inflight--
		r.mu.Unlock()
	}()

	v, err, _ := r.sf.Do(key, func() (any, error) {
		return r.fn(ctx, key)
	})

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.err = err
		return nil, err
	}
	val := v.(T)
	r.data = &val
	r.err = nil
	return &val, nil
}
