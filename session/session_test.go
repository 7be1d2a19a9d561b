package session_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/nexus-console/session"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("not-our-key"))
	require.NoError(t, err)
	return raw
}

func TestExpiryFromToken(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	t.Run("exp minus iat", func(t *testing.T) {
		tok := signedToken(t, jwt.MapClaims{"iat": now.Add(-time.Minute).Unix(), "exp": now.Add(time.Hour).Unix()})
		d, ok := session.ExpiryFromToken(tok, now)
		require.True(t, ok)
		require.Equal(t, time.Hour+time.Minute, d)
	})

	t.Run("exp minus now without iat", func(t *testing.T) {
		tok := signedToken(t, jwt.MapClaims{"exp": now.Add(30 * time.Minute).Unix()})
		d, ok := session.ExpiryFromToken(tok, now)
		require.True(t, ok)
		require.Equal(t, 30*time.Minute, d)
	})

	t.Run("opaque token", func(t *testing.T) {
		_, ok := session.ExpiryFromToken("opaque-token", now)
		require.False(t, ok)
	})

	t.Run("no exp claim", func(t *testing.T) {
		_, ok := session.ExpiryFromToken(signedToken(t, jwt.MapClaims{"sub": "x"}), now)
		require.False(t, ok)
	})
}

func TestSession_Normalize(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	t.Run("keeps explicit values", func(t *testing.T) {
		s := &session.Session{Token: "x", ExpiresIn: 120, LoggedAt: 5}
		s.Normalize(now, time.Hour)
		require.EqualValues(t, 120, s.ExpiresIn)
		require.EqualValues(t, 5, s.LoggedAt)
	})

	t.Run("derives from jwt", func(t *testing.T) {
		s := &session.Session{Token: signedToken(t, jwt.MapClaims{"exp": now.Add(2 * time.Hour).Unix()})}
		s.Normalize(now, time.Hour)
		require.EqualValues(t, 7200, s.ExpiresIn)
		require.Equal(t, now.UnixMilli(), s.LoggedAt)
	})

	t.Run("falls back for opaque token", func(t *testing.T) {
		s := &session.Session{Token: "opaque"}
		s.Normalize(now, 8*time.Hour)
		require.EqualValues(t, 8*3600, s.ExpiresIn)
	})
}

func TestSession_ValidAt(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	s := &session.Session{ExpiresIn: 10, LoggedAt: now.UnixMilli()}
	require.True(t, s.ValidAt(now.Add(10*time.Second)))
	require.False(t, s.ValidAt(now.Add(10*time.Second+time.Millisecond)))
	require.Equal(t, now.Add(10*time.Second), s.ExpiresAt())

	var nilSession *session.Session
	require.False(t, nilSession.ValidAt(now))
}
