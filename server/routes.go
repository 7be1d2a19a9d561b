package server

import (
	"net/http"
	"strings"

	"github.com/jrsteele09/nexus-console/devmode"
)

func (s *Server) initRoutes() {
	s.RegisterRouteFunc("GET /{$}", s.IndexHandler())

	// LOGIN
	s.RegisterRouteHandler("GET "+RouteLogin, ChainMiddleware(s.LoginPageUIHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("POST "+RouteAuthLogin, ChainMiddleware(s.LoginSubmissionHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteAuthLogout, ChainMiddleware(s.LogoutHandler(), s.HTMLMiddleWare()...))

	// Admin routes (require a stored API session for the browser)
	admin := func(h http.HandlerFunc) http.HandlerFunc {
		return ChainMiddleware(h, s.HTMLMiddleWare(s.RequireSessionAuth())...)
	}
	s.RegisterRouteHandler("GET "+RouteAdminDashboard, admin(s.AdminDashboardHandler()))
	s.RegisterRouteHandler("GET "+RouteAdminEmpresas, admin(s.AdminEmpresasHandler()))
	s.RegisterRouteHandler("GET "+RouteAdminLicencias, admin(s.AdminLicenciasHandler()))
	s.RegisterRouteHandler("GET "+RouteAdminSistema, admin(s.AdminSistemaHandler()))

	s.RegisterRouteHandler("GET "+RouteAdminAnuncios, admin(s.AdminAnunciosHandler()))
	s.RegisterRouteHandler("POST "+RouteAdminAnuncios, admin(s.AdminAnuncioCreateHandler()))
	s.RegisterRouteHandler("POST "+RouteAdminAnuncio, admin(s.AdminAnuncioUpdateHandler()))
	s.RegisterRouteHandler("POST "+RouteAdminAnuncioDelete, admin(s.AdminAnuncioDeleteHandler()))
	s.RegisterRouteHandler("POST "+RouteAdminAnuncioToggle, admin(s.AdminAnuncioToggleHandler()))
	s.RegisterRouteHandler("POST "+RouteAdminAnuncioImagen, admin(s.AdminAnuncioImagenHandler()))
	s.RegisterRouteHandler("POST "+RouteAdminAnuncioImagenDelete, admin(s.AdminAnuncioImagenDeleteHandler()))

	s.RegisterRouteHandler("GET "+RouteAdminDevMode, admin(s.AdminDevModeHandler()))
	s.RegisterRouteHandler("POST "+RouteAdminDevModeApprove, admin(s.AdminDevModeResolveHandler(devmode.StatusApproved)))
	s.RegisterRouteHandler("POST "+RouteAdminDevModeReject, admin(s.AdminDevModeResolveHandler(devmode.StatusRejected)))
	s.RegisterRouteHandler("POST "+RouteAdminDevModeToggle, admin(s.AdminDevModeToggleHandler()))

	s.RegisterRouteHandler("GET "+RouteAdminWizard, admin(s.WizardPageHandler()))
	s.RegisterRouteHandler("POST "+RouteAdminWizardStepOne, admin(s.WizardStepOneHandler()))
	s.RegisterRouteHandler("POST "+RouteAdminWizardStepTwo, admin(s.WizardStepTwoHandler()))
	s.RegisterRouteHandler("POST "+RouteAdminWizardBack, admin(s.WizardBackHandler()))
	s.RegisterRouteHandler("POST "+RouteAdminWizardValidate, admin(s.WizardValidateHandler()))

	// Operational
	s.RegisterRouteHandler("GET "+RouteMetrics, ChainMiddleware(s.metricsHandler().ServeHTTP, s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteHealthz, ChainMiddleware(s.HealthzHandler(), s.APIMiddleware()...))

	s.RegisterRouteHandler("GET "+RouteStaticCSS, ChainMiddleware(s.serveFileHandler(), s.HTMLMiddleWare(s.CacheMiddleware)...))
}

func (s *Server) serveFileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filePath := strings.TrimPrefix(r.URL.Path, "/")
		if filePath == "" {
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}
		err := StreamFile(w, r, filePath)
		if err != nil {
			logError("GET", filePath, err.Error())
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}
	}
}

// HealthzHandler reports liveness of the console process itself.
func (s *Server) HealthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	}
}
