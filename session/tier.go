package session

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

var ErrNotFound = errors.New("session key not found")

// Tier is one storage location for the serialized session record.
type Tier interface {
	Get(key string) ([]byte, error)
	Put(key string, data []byte) error
	Delete(key string) error
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time // zero means no tier-level expiry
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// MemoryTier is the short-lived tier: it lives as long as the process and can
// additionally drop entries after a TTL.
type MemoryTier struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryTier creates an in-memory tier. A ttl of 0 keeps entries until deleted.
func NewMemoryTier(ttl time.Duration) *MemoryTier {
	return &MemoryTier{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (m *MemoryTier) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, fmt.Errorf("key is required")
	}

	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	if entry.expired(m.now()) {
		m.mu.Lock()
		// A Put may have replaced the entry since the read
		entry, ok = m.entries[key]
		if ok && entry.expired(m.now()) {
			delete(m.entries, key)
			ok = false
		}
		m.mu.Unlock()
		if !ok {
			return nil, ErrNotFound
		}
	}

	// Copy so callers can't mutate what we hold
	out := make([]byte, len(entry.data))
	copy(out, entry.data)
	return out, nil
}

func (m *MemoryTier) Put(key string, data []byte) error {
	if key == "" {
		return fmt.Errorf("key is required")
	}

	entry := memoryEntry{data: make([]byte, len(data))}
	copy(entry.data, data)
	if m.ttl > 0 {
		entry.expiresAt = m.now().Add(m.ttl)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = entry
	return nil
}

func (m *MemoryTier) Delete(key string) error {
	if key == "" {
		return fmt.Errorf("key is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key) // already gone is fine
	return nil
}

// Len reports how many entries are held, expired ones included.
func (m *MemoryTier) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
