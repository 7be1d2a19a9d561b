package server

import (
	"net/http"
	"net/url"

	"github.com/jrsteele09/nexus-console/nexusapi"
	"github.com/rs/zerolog/log"
)

// LoginPageData contains data for rendering the login page
type LoginPageData struct {
	AppName string
	Error   string
	Email   string // Preserve email on error
}

// LoginPageUIHandler displays the login page (GET /login)
func (s *Server) LoginPageUIHandler() http.HandlerFunc {
	loginTmpl, err := ParseTemplate("login.html")
	if err != nil {
		log.Err(err).Msg("Failed to parse login template")
	}

	return func(w http.ResponseWriter, r *http.Request) {
		// Already signed in: skip the form
		if browserID, ok := browserIDFromRequest(r); ok {
			if _, ok := s.clientFor(browserID).Session(); ok {
				redirectSuccess(w, r, RouteAdminDashboard)
				return
			}
		}

		data := LoginPageData{
			AppName: s.config.GetAppName(),
			Error:   r.URL.Query().Get("error"),
			Email:   r.URL.Query().Get("email"),
		}

		w.Header().Set("Content-Type", contentTypeHTML)
		if err := loginTmpl.Execute(w, data); err != nil {
			log.Err(err).Msg("Failed to render login template")
			http.Error(w, "Failed to render login page", http.StatusInternalServerError)
		}
	}
}

// LoginSubmissionHandler authenticates against the remote API and binds the resulting
// session to a fresh browser cookie.
func (s *Server) LoginSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		email := r.FormValue("email")
		password := r.FormValue("password")
		if email == "" || password == "" {
			s.renderLoginError(w, r, "Correo y contraseña son obligatorios", email)
			return
		}

		// A new id per login so a stale cookie never inherits someone else's session
		if old, ok := browserIDFromRequest(r); ok {
			_ = s.storeFor(old).Clear()
			s.forgetBrowser(old)
		}
		browserID := newBrowserID()

		sess, err := s.clientFor(browserID).Login(r.Context(), email, password)
		if err != nil {
			log.Warn().Err(err).Str("email", email).Msg("login failed")
			s.renderLoginError(w, r, nexusapi.UserMessage(err), email)
			return
		}

		s.SetConsoleSessionCookie(w, browserID, r, int(sess.ExpiresIn))
		redirectSuccess(w, r, RouteAdminDashboard)
	}
}

// LogoutHandler clears the browser's stored session and cookie
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if browserID, ok := browserIDFromRequest(r); ok {
			if err := s.storeFor(browserID).Clear(); err != nil {
				log.Err(err).Str("browser_id", browserID).Msg("Failed to clear session on logout")
			}
			s.forgetBrowser(browserID)
		}
		s.SetConsoleSessionCookie(w, "", r, -1) // Delete cookie
		redirectSuccess(w, r, RouteLogin)
	}
}

// renderLoginError redirects to login page with an error message
func (s *Server) renderLoginError(w http.ResponseWriter, r *http.Request, errorMsg, email string) {
	redirectURL := RouteLogin + "?error=" + url.QueryEscape(errorMsg)
	if email != "" {
		redirectURL += "&email=" + url.QueryEscape(email)
	}

	redirectSuccess(w, r, redirectURL)
}
