package server

import (
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"github.com/jrsteele09/nexus-console/dashboard"
	"github.com/jrsteele09/nexus-console/empresas"
	"github.com/jrsteele09/nexus-console/nexusapi"
	"github.com/rs/zerolog/log"
)

// renderAdminPage renders a page with the admin layout
func (s *Server) renderAdminPage(w http.ResponseWriter, r *http.Request, activePage, pageTitle, contentTemplate string, data any) {
	s.renderAdminLayout(w, r, http.StatusOK, activePage, pageTitle, contentTemplate, data, "")
}

// renderScreenError shows err in place of the screen's content. Authorization failures
// redirect to login instead; either way no partial data reaches the page.
func (s *Server) renderScreenError(w http.ResponseWriter, r *http.Request, activePage, pageTitle string, err error) {
	if s.handleAuthFailure(w, r, err) {
		return
	}
	log.Warn().Err(err).Str("page", activePage).Msg("screen failed to load")
	s.renderAdminLayout(w, r, http.StatusBadGateway, activePage, pageTitle, "", nil, nexusapi.UserMessage(err))
}

func (s *Server) renderAdminLayout(w http.ResponseWriter, r *http.Request, status int, activePage, pageTitle, contentTemplate string, data any, errorMsg string) {
	var content template.HTML
	if contentTemplate != "" {
		contentTmpl, err := ParseTemplate(contentTemplate)
		if err != nil {
			log.Err(err).Str("template", contentTemplate).Msg("Failed to load content template")
			http.Error(w, "Failed to load content template", http.StatusInternalServerError)
			return
		}
		var contentBuf strings.Builder
		if err := contentTmpl.Execute(&contentBuf, data); err != nil {
			log.Err(err).Str("template", contentTemplate).Msg("Failed to render content")
			http.Error(w, "Failed to render content", http.StatusInternalServerError)
			return
		}
		content = template.HTML(contentBuf.String())
	}

	if errorMsg == "" {
		errorMsg = r.URL.Query().Get("error")
	}

	layoutTmpl, err := ParseTemplate("admin_layout.html")
	if err != nil {
		http.Error(w, "Failed to load layout template", http.StatusInternalServerError)
		return
	}

	userName, userEmail := "", ""
	if sess := sessionFrom(r.Context()); sess != nil {
		userName = sess.Usuario.Nombre
		userEmail = sess.Usuario.Email
		if userName == "" {
			userName = userEmail
		}
	}

	layoutData := map[string]interface{}{
		"UserName":   userName,
		"UserEmail":  userEmail,
		"AppName":    s.config.GetAppName(),
		"ActivePage": activePage,
		"PageTitle":  pageTitle,
		"Error":      errorMsg,
		"Notice":     r.URL.Query().Get("notice"),
		"Content":    content,
	}

	w.Header().Set("Content-Type", contentTypeHTML)
	w.WriteHeader(status)
	_ = layoutTmpl.Execute(w, layoutData)
}

// mutationFailed sends the browser back to backPath with the error shown there.
func (s *Server) mutationFailed(w http.ResponseWriter, r *http.Request, backPath string, err error) {
	if s.handleAuthFailure(w, r, err) {
		return
	}
	log.Warn().Err(err).Str("path", r.URL.Path).Msg("admin action failed")
	redirectWithError(w, r, backPath, nexusapi.UserMessage(err))
}

// redirectWithNotice redirects to path with a confirmation message
func redirectWithNotice(w http.ResponseWriter, r *http.Request, path, notice string) {
	redirectSuccess(w, r, path+"?notice="+url.QueryEscape(notice))
}

// AdminDashboardHandler renders the aggregated dashboard
func (s *Server) AdminDashboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc := dashboard.NewService(clientFrom(r.Context()), dashboard.WithNowTime(s.nowTime))
		view, err := svc.Build(r.Context())
		if err != nil {
			s.renderScreenError(w, r, "dashboard", "Dashboard", err)
			return
		}
		s.renderAdminPage(w, r, "dashboard", "Dashboard", "admin_dashboard_content.html", view)
	}
}

// EmpresasPageData is the company directory screen
type EmpresasPageData struct {
	Empresas []empresas.Empresa
	Parents  int
}

// AdminEmpresasHandler lists every company
func (s *Server) AdminEmpresasHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := clientFrom(r.Context()).Companies(r.Context())
		if err != nil {
			s.renderScreenError(w, r, "empresas", "Empresas", err)
			return
		}
		data := EmpresasPageData{Empresas: list, Parents: len(empresas.Parents(list))}
		s.renderAdminPage(w, r, "empresas", "Empresas", "admin_empresas_content.html", data)
	}
}

// LicenseRow is one company on the licenses screen; Error is set when its capacity
// could not be loaded.
type LicenseRow struct {
	Empresa empresas.Empresa
	License empresas.License
	Error   string
}

type LicenciasPageData struct {
	Rows   []LicenseRow
	Alerts empresas.AlertSummary
}

// AdminLicenciasHandler shows the capacity of every parent-level company
func (s *Server) AdminLicenciasHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		client := clientFrom(r.Context())
		list, err := client.Companies(r.Context())
		if err != nil {
			s.renderScreenError(w, r, "licencias", "Licencias", err)
			return
		}

		results := dashboard.FetchCapacities(r.Context(), client, empresas.Parents(list))
		rows := make([]LicenseRow, 0, len(results))
		for _, res := range results {
			if s.handleAuthFailure(w, r, res.Err) {
				return
			}
			row := LicenseRow{Empresa: res.Empresa, License: empresas.NewLicense(res.Empresa, res.Capacity)}
			if res.Err != nil {
				row.Error = nexusapi.UserMessage(res.Err)
			}
			rows = append(rows, row)
		}

		data := LicenciasPageData{Rows: rows, Alerts: empresas.Summarize(dashboard.LicenseUsage(results))}
		s.renderAdminPage(w, r, "licencias", "Licencias", "admin_licencias_content.html", data)
	}
}

// AdminSistemaHandler probes the remote services
func (s *Server) AdminSistemaHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		prober := dashboard.NewProber(clientFrom(r.Context()), s.config.GetProbeTimeout(), s.metrics)
		results := prober.Probe(r.Context(), dashboard.DefaultEndpoints)
		s.renderAdminPage(w, r, "sistema", "Estado del sistema", "admin_sistema_content.html", results)
	}
}
