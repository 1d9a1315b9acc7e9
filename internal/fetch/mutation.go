package fetch

import (
	"context"
	"sync/atomic"

	"pricedesk/internal/backend"
)

// TriggerFunc performs one backend mutation.
type TriggerFunc[Arg, Res any] func(ctx context.Context, arg Arg) (Res, error)

// Mutation wraps a repository mutation with in-flight tracking and uniform
// error normalization. It never updates any cache; callers refetch the read
// resources they care about after a successful trigger.
type Mutation[Arg, Res any] struct {
	fn       TriggerFunc[Arg, Res]
	inFlight atomic.Int64
}

// NewMutation creates a Mutation around fn.
func NewMutation[Arg, Res any](fn TriggerFunc[Arg, Res]) *Mutation[Arg, Res] {
	return &Mutation[Arg, Res]{fn: fn}
}

// IsMutating reports whether any trigger is currently in flight.
func (m *Mutation[Arg, Res]) IsMutating() bool {
	return m.inFlight.Load() > 0
}

// Trigger runs the mutation. Every failure surfaces as *backend.Error: repo
// errors are normalized, and a panic inside the mutation function becomes
// the unknown-error shape instead of taking the process down.
func (m *Mutation[Arg, Res]) Trigger(ctx context.Context, arg Arg) (res Res, err error) {
	m.inFlight.Add(1)
	defer m.inFlight.Add(-1)
	defer func() {
		if rec := recover(); rec != nil {
			err = backend.Unknown()
		}
	}()

	res, err = m.fn(ctx, arg)
	if err != nil {
		return res, backend.Normalize(err)
	}
	return res, nil
}
