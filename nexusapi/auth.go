package nexusapi

import (
	"context"
	"net/http"
	"strings"

	ierrors "github.com/jrsteele09/nexus-console/internal/errors"
	"github.com/jrsteele09/nexus-console/session"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates against POST /auth/login and persists the resulting session.
// Rejected credentials come back as an *APIError; nothing is cleared.
func (c *Client) Login(ctx context.Context, email, password string) (*session.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ierrors.Wrapf(ierrors.ErrInvalidInput, "email and password are required")
	}

	header := http.Header{}
	if c.apiKey != "" {
		header.Set("X-API-Key", c.apiKey)
	}
	body, err := c.do(ctx, request{
		op:       "login",
		method:   http.MethodPost,
		path:     "/auth/login",
		jsonBody: loginRequest{Email: email, Password: password},
		header:   header,
	})
	if err != nil {
		return nil, err
	}

	s, err := decodeData[session.Session]("login", body)
	if err != nil {
		return nil, err
	}
	if s.Token == "" {
		return nil, &DecodeError{Endpoint: "login", Envelope: EnvelopeData, Err: errors.New("login response carries no token")}
	}
	s.Normalize(c.nowTime(), c.sessionTTL)

	if err := c.store.Save(&s); err != nil {
		return nil, errors.Wrap(err, "persist session")
	}
	log.Info().Str("email", s.Usuario.Email).Str("session_id", s.SessionID).Int64("expires_in", s.ExpiresIn).Msg("admin signed in")
	return &s, nil
}

// Logout forgets the local session. The remote API keeps no logout endpoint.
func (c *Client) Logout() error {
	return c.store.Clear()
}
