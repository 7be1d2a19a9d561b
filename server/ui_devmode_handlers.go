package server

import (
	"context"
	"net/http"
	"strconv"

	"github.com/jrsteele09/nexus-console/dashboard"
	"github.com/jrsteele09/nexus-console/devmode"
	"github.com/jrsteele09/nexus-console/empresas"
	"github.com/jrsteele09/nexus-console/nexusapi"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// SwitchRow is one company's developer-mode switch
type SwitchRow struct {
	EmpresaID     string
	EmpresaNombre string
	Enabled       bool
	Error         string
}

type DevModePageData struct {
	Requests []dashboard.ActivityItem
	Pending  int
	Switches []SwitchRow
}

// loadSwitches reads every parent company's switch, all settled
func loadSwitches(ctx context.Context, client *nexusapi.Client, companies []empresas.Empresa) ([]devmode.Switch, []error) {
	switches := make([]devmode.Switch, len(companies))
	errs := make([]error, len(companies))
	var g errgroup.Group
	for i, e := range companies {
		g.Go(func() error {
			switches[i], errs[i] = client.DevModeStatus(ctx, e.ID)
			return nil
		})
	}
	_ = g.Wait()
	return switches, errs
}

// AdminDevModeHandler lists developer-mode requests and per-company switches
func (s *Server) AdminDevModeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		client := clientFrom(r.Context())
		board := s.boards.Get(browserIDFrom(r.Context()))

		page, err := client.DevModeRequests(r.Context(), dashboard.RequestFetchLimit)
		if err != nil {
			s.renderScreenError(w, r, "devmode", "Modo desarrollador", err)
			return
		}
		companies, err := client.Companies(r.Context())
		if err != nil {
			s.renderScreenError(w, r, "devmode", "Modo desarrollador", err)
			return
		}
		board.SetRequests(page.Rows)

		parents := empresas.Parents(companies)
		switches, errs := loadSwitches(r.Context(), client, parents)
		rows := make([]SwitchRow, len(parents))
		for i, e := range parents {
			if s.handleAuthFailure(w, r, errs[i]) {
				return
			}
			rows[i] = SwitchRow{EmpresaID: e.ID, EmpresaNombre: e.Nombre}
			if errs[i] != nil {
				rows[i].Error = nexusapi.UserMessage(errs[i])
				continue
			}
			if switches[i].EmpresaID == "" {
				switches[i].EmpresaID = e.ID
			}
			board.SetSwitch(switches[i])
			rows[i].Enabled = board.Enabled(e.ID)
		}

		data := DevModePageData{
			Requests: dashboard.ActivityFeed(board.Requests(), s.nowTime()),
			Pending:  len(board.Pending()),
			Switches: rows,
		}
		s.renderAdminPage(w, r, "devmode", "Modo desarrollador", "admin_devmode_content.html", data)
	}
}

// AdminDevModeResolveHandler approves or rejects a pending request
func (s *Server) AdminDevModeResolveHandler(decision devmode.RequestStatus) http.HandlerFunc {
	notice := "Solicitud aprobada"
	if decision == devmode.StatusRejected {
		notice = "Solicitud rechazada"
	}
	return func(w http.ResponseWriter, r *http.Request) {
		board := s.boards.Get(browserIDFrom(r.Context()))
		if _, err := board.Resolve(r.Context(), clientFrom(r.Context()), r.PathValue("id"), decision); err != nil {
			s.mutationFailed(w, r, RouteAdminDevMode, err)
			return
		}
		redirectWithNotice(w, r, RouteAdminDevMode, notice)
	}
}

// AdminDevModeToggleHandler flips a company's switch. HTMX callers get the switch
// fragment back, showing the rolled-back value when the API refused.
func (s *Server) AdminDevModeToggleHandler() http.HandlerFunc {
	switchTmpl, err := ParseTemplate("devmode_switch.html")
	if err != nil {
		log.Err(err).Msg("Failed to parse devmode switch template")
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		enabled, err := strconv.ParseBool(r.FormValue("enabled"))
		if err != nil {
			http.Error(w, "enabled must be true or false", http.StatusBadRequest)
			return
		}

		empresaID := r.PathValue("empresaId")
		board := s.boards.Get(browserIDFrom(r.Context()))
		shown, err := board.Toggle(r.Context(), clientFrom(r.Context()), empresaID, enabled)
		if s.handleAuthFailure(w, r, err) {
			return
		}

		if !isHTMXRequest(r) {
			if err != nil {
				redirectWithError(w, r, RouteAdminDevMode, nexusapi.UserMessage(err))
				return
			}
			redirectSuccess(w, r, RouteAdminDevMode)
			return
		}

		row := SwitchRow{EmpresaID: empresaID, Enabled: shown}
		if err != nil {
			row.Error = nexusapi.UserMessage(err)
		}
		w.Header().Set("Content-Type", contentTypeHTML)
		_ = switchTmpl.Execute(w, row)
	}
}
