package server

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/jrsteele09/nexus-console/nexusapi"
	"github.com/jrsteele09/nexus-console/session"
	"github.com/rs/zerolog/log"
)

const (
	// consoleSessionCookie names the cookie that ties a browser to its stored API session
	consoleSessionCookie = "nexus_console_id"

	contentTypeHTML = "text/html; charset=utf-8"

	msgLoginRequired = "Inicia sesión para continuar"
)

func newBrowserID() string {
	return uuid.NewString()
}

func browserIDFromRequest(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(consoleSessionCookie)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	if _, err := uuid.Parse(cookie.Value); err != nil {
		return "", false
	}
	return cookie.Value, true
}

func (s *Server) SetConsoleSessionCookie(w http.ResponseWriter, browserID string, r *http.Request, maxAge int) {
	isSecure := getScheme(r) == "https"

	http.SetCookie(w, &http.Cookie{
		Name:     consoleSessionCookie,
		Value:    browserID,
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
}

// storageKey scopes the fixed session key to one browser.
func storageKey(browserID string) string {
	return session.StorageKey + ":" + browserID
}

// storeFor builds the tiered session store of one browser.
func (s *Server) storeFor(browserID string) *session.TieredStore {
	return session.NewTieredStore(storageKey(browserID), s.shortTier, s.durableTier,
		session.WithClock(s.nowTime),
		session.WithClearHook(func(reason session.ClearReason) {
			s.metrics.RecordSessionClear(string(reason))
			log.Info().Str("browser_id", browserID).Str("reason", string(reason)).Msg("console session cleared")
		}),
	)
}

// clientFor returns an API client bound to the browser's session store.
func (s *Server) clientFor(browserID string) *nexusapi.Client {
	return nexusapi.NewClient(s.config, s.storeFor(browserID),
		nexusapi.WithHTTPClient(s.httpClient),
		nexusapi.WithMetrics(s.metrics),
		nexusapi.WithSessionTTL(s.config.GetSessionDefaultTTL()),
		nexusapi.WithNowTime(s.nowTime),
	)
}

// forgetBrowser drops the per-browser state kept outside the session store.
func (s *Server) forgetBrowser(browserID string) {
	s.boards.Drop(browserID)
	_ = s.drafts.Delete(browserID)
}

// redirectSuccess helper for htmx-aware success redirects
func redirectSuccess(w http.ResponseWriter, r *http.Request, path string) {
	if isHTMXRequest(r) {
		w.Header().Set("HX-Redirect", path)
		w.WriteHeader(http.StatusNoContent) // 204 - no content, just redirect instruction
		return
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// redirectWithError helper for htmx-aware error redirects
func redirectWithError(w http.ResponseWriter, r *http.Request, path, errorMsg string) {
	fullPath := path + "?error=" + url.QueryEscape(errorMsg)

	if isHTMXRequest(r) {
		w.Header().Set("HX-Redirect", fullPath)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, fullPath, http.StatusSeeOther)
}

// isHTMXRequest checks if the request was initiated by HTMX
func isHTMXRequest(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// handleAuthFailure sends the browser back to login when err means the API session is
// gone. It reports whether it wrote a response.
func (s *Server) handleAuthFailure(w http.ResponseWriter, r *http.Request, err error) bool {
	if !errors.Is(err, nexusapi.ErrUnauthorized) {
		return false
	}
	s.forgetBrowser(browserIDFrom(r.Context()))
	redirectWithError(w, r, RouteLogin, nexusapi.SessionExpiredMessage)
	return true
}
