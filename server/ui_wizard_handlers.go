package server

import (
	"errors"
	"net/http"

	"github.com/jrsteele09/nexus-console/licensewizard"
	"github.com/jrsteele09/nexus-console/nexusapi"
	"github.com/rs/zerolog/log"
)

// WizardPageData is the license creation wizard screen
type WizardPageData struct {
	Step   int
	Form   licensewizard.Form
	Errors map[string]string
}

// WizardFieldData is the fragment returned by per-field validation
type WizardFieldData struct {
	Field   string
	Message string

	// Set when changing max users clamped or re-checked the connected users field
	RefreshConnected bool
	Connected        string
	ConnectedMessage string
}

func wizardPageData(wz *licensewizard.Wizard) WizardPageData {
	errs := make(map[string]string, len(wz.Errors))
	for k, v := range wz.Errors {
		errs[string(k)] = v
	}
	return WizardPageData{Step: wz.Step, Form: wz.Form, Errors: errs}
}

// loadDraft returns the browser's wizard in progress, or a new one
func (s *Server) loadDraft(r *http.Request) *licensewizard.Wizard {
	wz, err := s.drafts.Get(browserIDFrom(r.Context()))
	if err != nil {
		if !errors.Is(err, licensewizard.ErrDraftNotFound) {
			log.Err(err).Msg("Failed to load wizard draft")
		}
		return licensewizard.New()
	}
	return wz
}

func (s *Server) saveDraft(r *http.Request, wz *licensewizard.Wizard) {
	if err := s.drafts.Upsert(browserIDFrom(r.Context()), wz); err != nil {
		log.Err(err).Msg("Failed to save wizard draft")
	}
}

func (s *Server) renderWizard(w http.ResponseWriter, r *http.Request, status int, wz *licensewizard.Wizard, errorMsg string) {
	s.renderAdminLayout(w, r, status, "licencias", "Nueva licencia", "admin_wizard_content.html", wizardPageData(wz), errorMsg)
}

// WizardPageHandler shows the wizard where the browser left it
func (s *Server) WizardPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("reiniciar") != "" {
			_ = s.drafts.Delete(browserIDFrom(r.Context()))
		}
		s.renderWizard(w, r, http.StatusOK, s.loadDraft(r), "")
	}
}

// WizardStepOneHandler records company and admin data and advances when valid
func (s *Server) WizardStepOneHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		wz := s.loadDraft(r)
		wz.Form.EmpresaNombre = r.FormValue(string(licensewizard.FieldEmpresaNombre))
		wz.Form.EmpresaRFC = r.FormValue(string(licensewizard.FieldEmpresaRFC))
		wz.Form.UsuarioEmail = r.FormValue(string(licensewizard.FieldUsuarioEmail))

		status := http.StatusOK
		if !wz.Next() {
			status = http.StatusUnprocessableEntity
		}
		s.saveDraft(r, wz)
		s.renderWizard(w, r, status, wz, "")
	}
}

// WizardBackHandler returns to step 1 keeping the typed values
func (s *Server) WizardBackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wz := s.loadDraft(r)
		if err := r.ParseForm(); err == nil {
			// Keep what was typed on step 2 as well
			if v := r.FormValue(string(licensewizard.FieldMaxUsuarios)); v != "" {
				wz.Form.MaxUsuarios = v
			}
			if v := r.FormValue(string(licensewizard.FieldMaxUsuariosConectados)); v != "" {
				wz.Form.MaxUsuariosConectados = v
			}
		}
		wz.Back()
		s.saveDraft(r, wz)
		s.renderWizard(w, r, http.StatusOK, wz, "")
	}
}

// WizardValidateHandler validates the single field that changed (HTMX, on blur)
func (s *Server) WizardValidateHandler() http.HandlerFunc {
	fieldTmpl, err := ParseTemplate("wizard_field.html")
	if err != nil {
		log.Err(err).Msg("Failed to parse wizard field template")
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		field := r.Header.Get("HX-Trigger-Name")
		if field == "" {
			field = r.FormValue("field")
		}

		wz := s.loadDraft(r)
		f := licensewizard.Field(field)
		data := WizardFieldData{Field: field}
		switch f {
		case licensewizard.FieldEmpresaNombre, licensewizard.FieldEmpresaRFC, licensewizard.FieldUsuarioEmail,
			licensewizard.FieldMaxUsuariosConectados:
			data.Message = wz.Set(f, r.FormValue(field))
		case licensewizard.FieldMaxUsuarios:
			data.Message = wz.Set(f, r.FormValue(field))
			data.RefreshConnected = true
			data.Connected = wz.Form.MaxUsuariosConectados
			data.ConnectedMessage = wz.Errors[licensewizard.FieldMaxUsuariosConectados]
		default:
			http.Error(w, "unknown field", http.StatusBadRequest)
			return
		}
		s.saveDraft(r, wz)

		w.Header().Set("Content-Type", contentTypeHTML)
		_ = fieldTmpl.Execute(w, data)
	}
}

// WizardStepTwoHandler validates capacity and submits the license to the API
func (s *Server) WizardStepTwoHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		wz := s.loadDraft(r)
		wz.Form.MaxUsuariosConectados = r.FormValue(string(licensewizard.FieldMaxUsuariosConectados))
		wz.SetMaxUsers(r.FormValue(string(licensewizard.FieldMaxUsuarios)))

		payload, ok := wz.Submit()
		s.saveDraft(r, wz)
		if !ok {
			s.renderWizard(w, r, http.StatusUnprocessableEntity, wz, "")
			return
		}

		if _, err := clientFrom(r.Context()).SetupLicense(r.Context(), payload); err != nil {
			if s.handleAuthFailure(w, r, err) {
				return
			}
			var verr *nexusapi.ValidationError
			if errors.As(err, &verr) {
				wz.Reject(verr.Fields)
				s.saveDraft(r, wz)
				s.renderWizard(w, r, http.StatusUnprocessableEntity, wz, "")
				return
			}
			log.Warn().Err(err).Str("empresa", payload.EmpresaNombre).Msg("license setup failed")
			s.renderWizard(w, r, http.StatusBadGateway, wz, nexusapi.UserMessage(err))
			return
		}

		_ = s.drafts.Delete(browserIDFrom(r.Context()))
		log.Info().Str("empresa", payload.EmpresaNombre).Str("rfc", payload.EmpresaRFC).Msg("license created")
		redirectWithNotice(w, r, RouteAdminLicencias, "Licencia creada para "+payload.EmpresaNombre)
	}
}
