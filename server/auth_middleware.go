package server

import (
	"context"
	"net/http"

	"github.com/jrsteele09/nexus-console/nexusapi"
	"github.com/jrsteele09/nexus-console/session"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeyBrowserID stores the console cookie id of the browser
	ContextKeyBrowserID ContextKey = "browser_id"
	// ContextKeySession stores the loaded API session
	ContextKeySession ContextKey = "session"
	// ContextKeyClient stores the API client bound to the browser's session
	ContextKeyClient ContextKey = "client"
)

// RequireSessionAuth is middleware for HTML/HTMX routes. The browser cookie selects a
// stored API session; without a valid one the request is sent to the login page.
func (s *Server) RequireSessionAuth() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			browserID, ok := browserIDFromRequest(r)
			if !ok {
				redirectWithError(w, r, RouteLogin, msgLoginRequired)
				return
			}

			client := s.clientFor(browserID)
			sess, ok := client.Session()
			if !ok {
				// Expired or unreadable records were already cleared by the store
				s.forgetBrowser(browserID)
				redirectWithError(w, r, RouteLogin, nexusapi.SessionExpiredMessage)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyBrowserID, browserID)
			ctx = context.WithValue(ctx, ContextKeySession, sess)
			ctx = context.WithValue(ctx, ContextKeyClient, client)
			next(w, r.WithContext(ctx))
		}
	}
}

func browserIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(ContextKeyBrowserID).(string)
	return id
}

func sessionFrom(ctx context.Context) *session.Session {
	sess, _ := ctx.Value(ContextKeySession).(*session.Session)
	return sess
}

func clientFrom(ctx context.Context) *nexusapi.Client {
	c, _ := ctx.Value(ContextKeyClient).(*nexusapi.Client)
	return c
}
