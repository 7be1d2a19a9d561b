package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jrsteele09/nexus-console/anuncios"
)

const maxImageUploadBytes = 10 << 20

// AnunciosPageData is the announcements screen: the list plus the create/edit form
type AnunciosPageData struct {
	Anuncios   []anuncios.Anuncio
	Form       anuncios.Input
	FormErrors anuncios.FieldErrors
	EditID     string
	Now        time.Time
}

// Accepted date layouts from <input type="date"> and <input type="datetime-local">
var formDateLayouts = []string{"2006-01-02T15:04", "2006-01-02"}

func parseFormDate(raw string) (*time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, true
	}
	for _, layout := range formDateLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return &t, true
		}
	}
	return nil, false
}

// anuncioFromForm reads and validates the announcement form
func anuncioFromForm(r *http.Request) (anuncios.Input, anuncios.FieldErrors) {
	in := anuncios.Input{
		Titulo:  r.FormValue("titulo"),
		Mensaje: r.FormValue("mensaje"),
		LinkURL: r.FormValue("link_url"),
		Activo:  r.FormValue("activo") != "",
	}

	parseErrs := anuncios.FieldErrors{}
	if raw := strings.TrimSpace(r.FormValue("prioridad")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			parseErrs["prioridad"] = "La prioridad debe ser un número entero"
		}
		in.Prioridad = n
	}
	var ok bool
	if in.FechaInicio, ok = parseFormDate(r.FormValue("fecha_inicio")); !ok {
		parseErrs["fecha_inicio"] = "Fecha de inicio inválida"
	}
	if in.FechaFin, ok = parseFormDate(r.FormValue("fecha_fin")); !ok {
		parseErrs["fecha_fin"] = "Fecha de fin inválida"
	}

	errs := in.Validate()
	for k, v := range parseErrs {
		errs[k] = v
	}
	return in, errs
}

// AdminAnunciosHandler lists announcements; ?edit={id} preloads the form
func (s *Server) AdminAnunciosHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := clientFrom(r.Context()).Anuncios(r.Context())
		if err != nil {
			s.renderScreenError(w, r, "anuncios", "Anuncios", err)
			return
		}

		data := AnunciosPageData{Anuncios: list, Now: s.nowTime()}
		if editID := r.URL.Query().Get("edit"); editID != "" {
			for _, a := range list {
				if a.ID == editID {
					data.EditID = a.ID
					data.Form = anuncios.InputFrom(a)
				}
			}
		}
		s.renderAdminPage(w, r, "anuncios", "Anuncios", "admin_anuncios_content.html", data)
	}
}

// renderAnuncioFormErrors re-renders the list with the rejected form. Nothing was sent.
func (s *Server) renderAnuncioFormErrors(w http.ResponseWriter, r *http.Request, editID string, in anuncios.Input, errs anuncios.FieldErrors) {
	list, err := clientFrom(r.Context()).Anuncios(r.Context())
	if err != nil {
		s.renderScreenError(w, r, "anuncios", "Anuncios", err)
		return
	}
	data := AnunciosPageData{Anuncios: list, Form: in, FormErrors: errs, EditID: editID, Now: s.nowTime()}
	s.renderAdminLayout(w, r, http.StatusUnprocessableEntity, "anuncios", "Anuncios", "admin_anuncios_content.html", data, "")
}

// AdminAnuncioCreateHandler creates an announcement
func (s *Server) AdminAnuncioCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		in, errs := anuncioFromForm(r)
		if len(errs) > 0 {
			s.renderAnuncioFormErrors(w, r, "", in, errs)
			return
		}
		if _, err := clientFrom(r.Context()).CreateAnuncio(r.Context(), in); err != nil {
			s.mutationFailed(w, r, RouteAdminAnuncios, err)
			return
		}
		redirectWithNotice(w, r, RouteAdminAnuncios, "Anuncio creado")
	}
}

// AdminAnuncioUpdateHandler saves an edited announcement
func (s *Server) AdminAnuncioUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		id := r.PathValue("id")
		in, errs := anuncioFromForm(r)
		if len(errs) > 0 {
			s.renderAnuncioFormErrors(w, r, id, in, errs)
			return
		}
		if _, err := clientFrom(r.Context()).UpdateAnuncio(r.Context(), id, in); err != nil {
			s.mutationFailed(w, r, RouteAdminAnuncios, err)
			return
		}
		redirectWithNotice(w, r, RouteAdminAnuncios, "Anuncio actualizado")
	}
}

// AdminAnuncioDeleteHandler removes an announcement
func (s *Server) AdminAnuncioDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := clientFrom(r.Context()).DeleteAnuncio(r.Context(), r.PathValue("id")); err != nil {
			s.mutationFailed(w, r, RouteAdminAnuncios, err)
			return
		}
		redirectWithNotice(w, r, RouteAdminAnuncios, "Anuncio eliminado")
	}
}

// AdminAnuncioToggleHandler flips the active flag, rolling back on failure
func (s *Server) AdminAnuncioToggleHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		client := clientFrom(r.Context())
		current, err := client.Anuncio(r.Context(), r.PathValue("id"))
		if err != nil {
			s.mutationFailed(w, r, RouteAdminAnuncios, err)
			return
		}
		if _, err := anuncios.ToggleActivo(r.Context(), client, current); err != nil {
			s.mutationFailed(w, r, RouteAdminAnuncios, err)
			return
		}
		redirectSuccess(w, r, RouteAdminAnuncios)
	}
}

// AdminAnuncioImagenHandler forwards an uploaded image to the API
func (s *Server) AdminAnuncioImagenHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxImageUploadBytes)
		if err := r.ParseMultipartForm(maxImageUploadBytes); err != nil {
			redirectWithError(w, r, RouteAdminAnuncios, "La imagen es demasiado grande o el formulario es inválido")
			return
		}
		file, header, err := r.FormFile("imagen")
		if err != nil {
			redirectWithError(w, r, RouteAdminAnuncios, "Selecciona una imagen")
			return
		}
		defer file.Close()

		if _, err := clientFrom(r.Context()).UploadAnuncioImagen(r.Context(), r.PathValue("id"), header.Filename, file); err != nil {
			s.mutationFailed(w, r, RouteAdminAnuncios, err)
			return
		}
		redirectWithNotice(w, r, RouteAdminAnuncios, "Imagen actualizada")
	}
}

// AdminAnuncioImagenDeleteHandler removes an announcement's image
func (s *Server) AdminAnuncioImagenDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := clientFrom(r.Context()).DeleteAnuncioImagen(r.Context(), r.PathValue("id")); err != nil {
			s.mutationFailed(w, r, RouteAdminAnuncios, err)
			return
		}
		redirectWithNotice(w, r, RouteAdminAnuncios, "Imagen eliminada")
	}
}
