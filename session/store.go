package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// Store defines the session persistence operations every API-calling layer depends on.
type Store interface {
	// Load returns the current session, or false when there is none or it has expired.
	// It never returns an error: unreadable records count as "no session".
	Load() (*Session, bool)

	// Save persists the session to every tier
	Save(s *Session) error

	// Clear removes the session from every tier
	Clear() error
}

// ClearReason labels why a session left storage.
type ClearReason string

const (
	ClearExpired      ClearReason = "expired"
	ClearCorrupt      ClearReason = "corrupt"
	ClearExplicit     ClearReason = "explicit"
	ClearUnauthorized ClearReason = "unauthorized"
)

// TieredStore keeps one session record under a fixed key in a short-lived tier and a
// durable tier. Reads prefer the short-lived tier.
type TieredStore struct {
	key     string
	short   Tier
	durable Tier
	now     func() time.Time
	onClear func(ClearReason)
}

var _ Store = (*TieredStore)(nil)

type Option func(*TieredStore)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(t *TieredStore) { t.now = now }
}

// WithClearHook is called every time the store clears a session.
func WithClearHook(fn func(ClearReason)) Option {
	return func(t *TieredStore) { t.onClear = fn }
}

func NewTieredStore(key string, short, durable Tier, opts ...Option) *TieredStore {
	if key == "" {
		key = StorageKey
	}
	t := &TieredStore{
		key:     key,
		short:   short,
		durable: durable,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Key is the storage key this store reads and writes.
func (t *TieredStore) Key() string {
	return t.key
}

func (t *TieredStore) Save(s *Session) error {
	if s == nil || s.Token == "" {
		return fmt.Errorf("session with a token is required")
	}
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	if err := t.short.Put(t.key, data); err != nil {
		return fmt.Errorf("save short-lived session: %w", err)
	}
	if err := t.durable.Put(t.key, data); err != nil {
		// Don't leave a session only half saved
		_ = t.short.Delete(t.key)
		return fmt.Errorf("save durable session: %w", err)
	}
	return nil
}

func (t *TieredStore) Load() (*Session, bool) {
	data, fromDurable, ok := t.read()
	if !ok {
		return nil, false
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil || s.Token == "" {
		log.Warn().Str("key", t.key).Msg("discarding unreadable session record")
		t.clear(ClearCorrupt)
		return nil, false
	}

	if !s.ValidAt(t.now()) {
		log.Info().Str("key", t.key).Str("session_id", s.SessionID).Msg("session expired")
		t.clear(ClearExpired)
		return nil, false
	}

	if fromDurable {
		// Best effort: the next read should hit the short-lived tier
		_ = t.short.Put(t.key, data)
	}
	return &s, true
}

func (t *TieredStore) read() (data []byte, fromDurable bool, ok bool) {
	data, err := t.short.Get(t.key)
	if err == nil {
		return data, false, true
	}
	if !errors.Is(err, ErrNotFound) {
		log.Warn().Err(err).Str("key", t.key).Msg("short-lived session tier read failed")
	}

	data, err = t.durable.Get(t.key)
	if err == nil {
		return data, true, true
	}
	if !errors.Is(err, ErrNotFound) {
		log.Warn().Err(err).Str("key", t.key).Msg("durable session tier read failed")
	}
	return nil, false, false
}

func (t *TieredStore) Clear() error {
	return t.clear(ClearExplicit)
}

// ClearFor removes the session and labels the removal with reason.
func (t *TieredStore) ClearFor(reason ClearReason) error {
	return t.clear(reason)
}

func (t *TieredStore) clear(reason ClearReason) error {
	// Both deletes are attempted even when the first fails
	shortErr := t.short.Delete(t.key)
	durableErr := t.durable.Delete(t.key)
	if t.onClear != nil {
		t.onClear(reason)
	}
	return errors.Join(shortErr, durableErr)
}
