package session_test

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/jrsteele09/nexus-console/session"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newStore(t *testing.T, opts ...session.Option) (*session.TieredStore, *session.MemoryTier, *session.FileTier) {
	t.Helper()
	short := session.NewMemoryTier(0)
	durable := session.NewFileTier(t.TempDir(), "")
	opts = append([]session.Option{session.WithClock(func() time.Time { return fixedNow })}, opts...)
	return session.NewTieredStore(session.StorageKey, short, durable, opts...), short, durable
}

func testSession(loggedAt time.Time, expiresIn int64) *session.Session {
	return &session.Session{
		Token:       "tok-123",
		ExpiresIn:   expiresIn,
		LoggedAt:    loggedAt.UnixMilli(),
		Usuario:     session.User{ID: "u-1", Nombre: "Ana", Email: "ana@example.com"},
		SessionID:   "sess-1",
		Permissions: []string{"admin"},
	}
}

// failingTier fails every operation named in failOn.
type failingTier struct {
	session.Tier
	failOn map[string]bool
}

func (f failingTier) Put(key string, data []byte) error {
	if f.failOn["put"] {
		return errors.New("disk full")
	}
	return f.Tier.Put(key, data)
}

func (f failingTier) Delete(key string) error {
	if f.failOn["delete"] {
		return errors.New("permission denied")
	}
	return f.Tier.Delete(key)
}

func TestTieredStore_SaveLoad(t *testing.T) {
	store, short, durable := newStore(t)

	require.NoError(t, store.Save(testSession(fixedNow.Add(-time.Minute), 3600)))

	_, err := short.Get(session.StorageKey)
	require.NoError(t, err)
	_, err = durable.Get(session.StorageKey)
	require.NoError(t, err)

	s, ok := store.Load()
	require.True(t, ok)
	require.Equal(t, "tok-123", s.Token)
	require.Equal(t, "ana@example.com", s.Usuario.Email)
}

func TestTieredStore_ExpiryBoundary(t *testing.T) {
	cases := []struct {
		name      string
		elapsed   time.Duration
		expiresIn int64
		valid     bool
	}{
		{"fresh", 0, 60, true},
		{"exactly at expiry", 60 * time.Second, 60, true},
		{"one ms past expiry", 60*time.Second + time.Millisecond, 60, false},
		{"long expired", 48 * time.Hour, 3600, false},
		{"zero lifetime same instant", 0, 0, true},
		{"zero lifetime later", time.Millisecond, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var reasons []session.ClearReason
			store, short, durable := newStore(t, session.WithClearHook(func(r session.ClearReason) {
				reasons = append(reasons, r)
			}))
			require.NoError(t, store.Save(testSession(fixedNow.Add(-tc.elapsed), tc.expiresIn)))

			s, ok := store.Load()
			require.Equal(t, tc.valid, ok)
			if tc.valid {
				require.NotNil(t, s)
				require.Empty(t, reasons)
				return
			}
			require.Nil(t, s)
			require.Equal(t, []session.ClearReason{session.ClearExpired}, reasons)
			_, err := short.Get(session.StorageKey)
			require.ErrorIs(t, err, session.ErrNotFound)
			_, err = durable.Get(session.StorageKey)
			require.ErrorIs(t, err, session.ErrNotFound)
		})
	}
}

func TestTieredStore_LoadFallsBackToDurable(t *testing.T) {
	store, short, _ := newStore(t)
	require.NoError(t, store.Save(testSession(fixedNow, 600)))
	require.NoError(t, short.Delete(session.StorageKey))

	s, ok := store.Load()
	require.True(t, ok)
	require.Equal(t, "sess-1", s.SessionID)

	// Promoted back into the short-lived tier
	_, err := short.Get(session.StorageKey)
	require.NoError(t, err)
}

func TestTieredStore_LoadCorrupt(t *testing.T) {
	store, short, durable := newStore(t)
	require.NoError(t, short.Put(session.StorageKey, []byte("{not json")))
	require.NoError(t, durable.Put(session.StorageKey, []byte("{not json")))

	s, ok := store.Load()
	require.False(t, ok)
	require.Nil(t, s)
	_, err := durable.Get(session.StorageKey)
	require.ErrorIs(t, err, session.ErrNotFound)
}

func TestTieredStore_LoadEmpty(t *testing.T) {
	store, _, _ := newStore(t)
	s, ok := store.Load()
	require.False(t, ok)
	require.Nil(t, s)
}

func TestTieredStore_SaveDurableFailure(t *testing.T) {
	short := session.NewMemoryTier(0)
	durable := failingTier{Tier: session.NewMemoryTier(0), failOn: map[string]bool{"put": true}}
	store := session.NewTieredStore("", short, durable)

	err := store.Save(testSession(time.Now(), 60))
	require.Error(t, err)
	require.Contains(t, err.Error(), "durable")

	// The short-lived write was rolled back
	_, err = short.Get(session.StorageKey)
	require.ErrorIs(t, err, session.ErrNotFound)
}

func TestTieredStore_SaveRequiresToken(t *testing.T) {
	store, _, _ := newStore(t)
	require.Error(t, store.Save(nil))
	require.Error(t, store.Save(&session.Session{}))
}

func TestTieredStore_ClearAttemptsBothTiers(t *testing.T) {
	short := failingTier{Tier: session.NewMemoryTier(0), failOn: map[string]bool{"delete": true}}
	durable := session.NewMemoryTier(0)
	store := session.NewTieredStore("k", short, durable)
	require.NoError(t, store.Save(testSession(time.Now(), 60)))

	err := store.Clear()
	require.Error(t, err)
	_, getErr := durable.Get("k")
	require.ErrorIs(t, getErr, session.ErrNotFound)
}

func TestFileTier_Sealed(t *testing.T) {
	dir := t.TempDir()
	sealed := session.NewFileTier(dir, "s3cret")
	require.NoError(t, sealed.Put("nexus_session:abc", []byte(`{"token":"t"}`)))

	got, err := sealed.Get("nexus_session:abc")
	require.NoError(t, err)
	require.JSONEq(t, `{"token":"t"}`, string(got))

	// Same directory without the secret sees ciphertext, a different secret can't open it
	plain := session.NewFileTier(dir, "")
	raw, err := plain.Get("nexus_session:abc")
	require.NoError(t, err)
	require.NotContains(t, string(raw), "token")

	_, err = session.NewFileTier(dir, "other").Get("nexus_session:abc")
	require.ErrorIs(t, err, session.ErrSealedRecord)

	require.FileExists(t, filepath.Join(dir, "nexus_session_abc.json"))
	require.NoError(t, sealed.Delete("nexus_session:abc"))
	require.NoError(t, sealed.Delete("nexus_session:abc"))
}

func TestMemoryTier_TTL(t *testing.T) {
	tier := session.NewMemoryTier(time.Nanosecond)
	require.NoError(t, tier.Put("k", []byte("v")))
	time.Sleep(time.Millisecond)
	_, err := tier.Get("k")
	require.ErrorIs(t, err, session.ErrNotFound)
	require.Equal(t, 0, tier.Len())
}

func TestMemoryTier_KeyRequired(t *testing.T) {
	tier := session.NewMemoryTier(0)
	require.Error(t, tier.Put("", nil))
	_, err := tier.Get("")
	require.Error(t, err)
	require.Error(t, tier.Delete(""))
}
