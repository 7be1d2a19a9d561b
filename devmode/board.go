package devmode

import (
	"context"
	"fmt"
	"sync"

	"github.com/jrsteele09/nexus-console/internal/optimistic"
)

// Resolver confirms an approve/reject decision remotely.
type Resolver interface {
	ResolveDevModeRequest(ctx context.Context, id string, decision RequestStatus) (Request, error)
}

// Toggler flips a company's developer-mode switch remotely.
type Toggler interface {
	ToggleDevMode(ctx context.Context, empresaID string, enabled bool) (Switch, error)
}

// Board is the local mirror of requests and switches for one admin session.
// Requests change only after the remote call succeeded; switches change optimistically
// and roll back when the remote call fails.
type Board struct {
	mu       sync.RWMutex
	requests []Request
	switches map[string]*optimistic.Transition[bool]
}

func NewBoard() *Board {
	return &Board{switches: make(map[string]*optimistic.Transition[bool])}
}

// SetRequests replaces the mirrored requests with a fresh list from the API.
func (b *Board) SetRequests(reqs []Request) {
	copied := make([]Request, len(reqs))
	copy(copied, reqs)
	SortRecent(copied)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = copied
}

// Requests returns the mirrored requests, most recent first.
func (b *Board) Requests() []Request {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Request, len(b.requests))
	copy(out, b.requests)
	return out
}

func (b *Board) Pending() []Request {
	return PendingOnly(b.Requests())
}

// Resolve sends the decision and mirrors the API's answer on success.
func (b *Board) Resolve(ctx context.Context, r Resolver, id string, decision RequestStatus) (Request, error) {
	if !ValidDecision(decision) {
		return Request{}, fmt.Errorf("invalid decision %q", decision)
	}
	updated, err := r.ResolveDevModeRequest(ctx, id, decision)
	if err != nil {
		return Request{}, err
	}
	if updated.ID == "" {
		updated.ID = id
	}
	if updated.Status == "" {
		updated.Status = decision
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.requests {
		if b.requests[i].ID == updated.ID {
			// Keep fields the API may omit in its reply
			merged := b.requests[i]
			merged.Status = updated.Status
			if !updated.RequestedAt.IsZero() {
				merged.RequestedAt = updated.RequestedAt
			}
			b.requests[i] = merged
			return merged, nil
		}
	}
	b.requests = append(b.requests, updated)
	SortRecent(b.requests)
	return updated, nil
}

// SetSwitch records the confirmed switch state reported by the API.
func (b *Board) SetSwitch(s Switch) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.switches[s.EmpresaID] = optimistic.New(s.Enabled)
}

// Enabled is the state to display, tentative value included.
func (b *Board) Enabled(empresaID string) bool {
	b.mu.RLock()
	tr, ok := b.switches[empresaID]
	b.mu.RUnlock()
	if !ok {
		return false
	}
	return tr.Current()
}

// Toggle shows enabled immediately and confirms it remotely, reverting on failure.
// On success the remote's reported state is kept. It returns the value to display afterwards.
func (b *Board) Toggle(ctx context.Context, t Toggler, empresaID string, enabled bool) (bool, error) {
	b.mu.Lock()
	tr, ok := b.switches[empresaID]
	if !ok {
		tr = optimistic.New(!enabled)
		b.switches[empresaID] = tr
	}
	b.mu.Unlock()

	return tr.RunSettled(enabled, func(v bool) (bool, error) {
		sw, err := t.ToggleDevMode(ctx, empresaID, v)
		return sw.Enabled, err
	})
}

// Boards hands out one Board per admin session key.
type Boards struct {
	mu     sync.Mutex
	boards map[string]*Board
}

func NewBoards() *Boards {
	return &Boards{boards: make(map[string]*Board)}
}

func (bs *Boards) Get(key string) *Board {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	b, ok := bs.boards[key]
	if !ok {
		b = NewBoard()
		bs.boards[key] = b
	}
	return b
}

// Drop forgets the board of a session that ended.
func (bs *Boards) Drop(key string) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	delete(bs.boards, key)
}
