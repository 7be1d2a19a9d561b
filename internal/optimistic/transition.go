// Package optimistic models a UI value that is shown before the remote call confirming it
// returns: Apply a tentative value, then Confirm it or Revert to the prior one.
package optimistic

import (
	"errors"
	"sync"
)

var ErrNoPending = errors.New("no tentative value pending")

// Transition holds a committed value and at most one tentative value in flight.
type Transition[T any] struct {
	mu        sync.Mutex
	committed T
	tentative T
	pending   bool
}

func New[T any](initial T) *Transition[T] {
	return &Transition[T]{committed: initial}
}

// Apply records a tentative value. A second Apply before Confirm/Revert replaces the
// tentative value but keeps the original committed one for rollback.
func (t *Transition[T]) Apply(v T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.tentative = v
	t.pending = true
}

// Confirm commits the tentative value.
func (t *Transition[T]) Confirm() (T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.pending {
		return t.committed, ErrNoPending
	}
	t.committed = t.tentative
	t.pending = false
	return t.committed, nil
}

// Revert drops the tentative value and returns the committed one.
func (t *Transition[T]) Revert() T {
	t.mu.Lock()
	defer t.mu.Unlock()
	var zero T
	t.tentative = zero
	t.pending = false
	return t.committed
}

// Current is what the UI should show: the tentative value while one is pending.
func (t *Transition[T]) Current() T {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.pending {
		return t.tentative
	}
	return t.committed
}

func (t *Transition[T]) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending
}

// Run applies v, calls confirm, and commits or reverts based on its error.
func (t *Transition[T]) Run(v T, confirm func(T) error) (T, error) {
	return t.RunSettled(v, func(v T) (T, error) {
		return v, confirm(v)
	})
}

// RunSettled is Run for a remote that answers with the value it stored; that answer
// is committed instead of the tentative value.
func (t *Transition[T]) RunSettled(v T, confirm func(T) (T, error)) (T, error) {
	t.Apply(v)
	got, err := confirm(v)
	if err != nil {
		return t.Revert(), err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.pending {
		return t.committed, ErrNoPending
	}
	var zero T
	t.committed = got
	t.tentative = zero
	t.pending = false
	return t.committed, nil
}
