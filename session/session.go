package session

import "time"

// StorageKey is the fixed name the session record is persisted under.
const StorageKey = "nexus_session"

// User is the administrator returned by the login call.
type User struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
	Email  string `json:"email"`
	Rol    string `json:"rol,omitempty"`
}

// Session is the signed-in administrator's authentication context. Expiry is tracked
// client-side: LoggedAt (epoch ms) plus ExpiresIn (seconds).
type Session struct {
	Token       string   `json:"token"`
	ExpiresIn   int64    `json:"expires_in"` // seconds
	LoggedAt    int64    `json:"logged_at"`  // epoch milliseconds
	Usuario     User     `json:"usuario"`
	SessionID   string   `json:"session_id"`
	Permissions []string `json:"permissions,omitempty"`
}

// ValidAt reports whether now - logged_at <= expires_in * 1000.
func (s *Session) ValidAt(now time.Time) bool {
	if s == nil {
		return false
	}
	return now.UnixMilli()-s.LoggedAt <= s.ExpiresIn*1000
}

// ExpiresAt is the wall-clock instant after which the session is no longer valid.
func (s *Session) ExpiresAt() time.Time {
	return time.UnixMilli(s.LoggedAt).Add(time.Duration(s.ExpiresIn) * time.Second)
}

// Normalize fills LoggedAt and ExpiresIn when the login response left them empty.
// ExpiresIn is derived from the token's exp claim when possible, else fallback.
func (s *Session) Normalize(now time.Time, fallback time.Duration) {
	if s.LoggedAt <= 0 {
		s.LoggedAt = now.UnixMilli()
	}
	if s.ExpiresIn > 0 {
		return
	}
	if d, ok := ExpiryFromToken(s.Token, now); ok {
		s.ExpiresIn = int64(d / time.Second)
		return
	}
	s.ExpiresIn = int64(fallback / time.Second)
}
