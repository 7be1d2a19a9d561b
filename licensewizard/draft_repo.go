package licensewizard

import (
	"errors"
	"sync"
)

// DraftRepo keeps in-progress wizards between requests, keyed by admin session.
type DraftRepo interface {
	Upsert(key string, w *Wizard) error
	Get(key string) (*Wizard, error)
	Delete(key string) error
}

var ErrDraftNotFound = errors.New("draft not found")

// InMemoryDraftRepo is a thread-safe in-memory implementation of DraftRepo
type InMemoryDraftRepo struct {
	mu     sync.RWMutex
	drafts map[string]*Wizard
}

func NewInMemoryDraftRepo() *InMemoryDraftRepo {
	return &InMemoryDraftRepo{
		drafts: make(map[string]*Wizard),
	}
}

// Upsert stores or updates a draft
func (r *InMemoryDraftRepo) Upsert(key string, w *Wizard) error {
	if key == "" {
		return errors.New("key cannot be empty")
	}
	if w == nil {
		return errors.New("wizard cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Store a copy to prevent external modifications
	r.drafts[key] = w.Clone()
	return nil
}

// Get retrieves a draft
func (r *InMemoryDraftRepo) Get(key string) (*Wizard, error) {
	if key == "" {
		return nil, errors.New("key cannot be empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	w, ok := r.drafts[key]
	if !ok {
		return nil, ErrDraftNotFound
	}
	return w.Clone(), nil
}

// Delete removes a draft
func (r *InMemoryDraftRepo) Delete(key string) error {
	if key == "" {
		return errors.New("key cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.drafts, key)
	return nil
}
