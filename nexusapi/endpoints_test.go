package nexusapi_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/jrsteele09/nexus-console/anuncios"
	"github.com/jrsteele09/nexus-console/devmode"
	ierrors "github.com/jrsteele09/nexus-console/internal/errors"
	"github.com/jrsteele09/nexus-console/licensewizard"
	"github.com/jrsteele09/nexus-console/nexusapi"
	sessionfakes "github.com/jrsteele09/nexus-console/session/repofakes"
	"github.com/stretchr/testify/require"
)

func TestSetupLicense(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		require.Equal(t, "/api/licenses/setup", r.URL.Path)
		var p licensewizard.SetupPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&p))
		require.Equal(t, "ACN010101AB1", p.EmpresaRFC)
		writeJSON(w, http.StatusCreated, `{"data":{"empresa_id":"e9"}}`)
	}))
	defer srv.Close()
	c := newTestClient(t, srv, sessionfakes.NewFakeStore(signedIn()))

	t.Run("valid payload", func(t *testing.T) {
		res, err := c.SetupLicense(t.Context(), licensewizard.SetupPayload{
			EmpresaNombre:         "Acme Norte",
			EmpresaRFC:            "ACN010101AB1",
			UsuarioEmail:          "admin@acme.mx",
			MaxUsuarios:           10,
			MaxUsuariosConectados: 5,
		})
		require.NoError(t, err)
		require.Equal(t, "e9", res["empresa_id"])
	})

	t.Run("invalid payload is never sent", func(t *testing.T) {
		before := hits.Load()
		_, err := c.SetupLicense(t.Context(), licensewizard.SetupPayload{
			EmpresaNombre:         "Acme Norte",
			EmpresaRFC:            "ACN010101AB1",
			UsuarioEmail:          "admin@acme.mx",
			MaxUsuarios:           3,
			MaxUsuariosConectados: 5,
		})
		require.ErrorIs(t, err, ierrors.ErrValidation)
		require.Equal(t, before, hits.Load())

		var verr *nexusapi.ValidationError
		require.ErrorAs(t, err, &verr)
		require.Equal(t, map[string]string{"max_usuarios_conectados": "ltefield"}, verr.Fields)
		require.Equal(t, nexusapi.ValidationMessage, nexusapi.UserMessage(err))
	})

	t.Run("email the form accepted is still guarded", func(t *testing.T) {
		before := hits.Load()
		_, err := c.SetupLicense(t.Context(), licensewizard.SetupPayload{
			EmpresaNombre:         "Acme Norte",
			EmpresaRFC:            "ACN010101AB1",
			UsuarioEmail:          "admin@acme,mx.com",
			MaxUsuarios:           3,
			MaxUsuariosConectados: 1,
		})
		var verr *nexusapi.ValidationError
		require.ErrorAs(t, err, &verr)
		require.Equal(t, map[string]string{"usuario_email": "email"}, verr.Fields)
		require.Equal(t, before, hits.Load())
	})
}

func TestDevModeEndpoints(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/dev-mode/requests", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "20", r.URL.Query().Get("limit"))
		writeJSON(w, http.StatusOK, `{"data":{"rows":[{"id":"r1","empresaId":"e1","status":"pending","requestedAt":"2025-03-01T11:00:00Z"}],"total":1,"page":1,"limit":20}}`)
	})
	mux.HandleFunc("PUT /api/dev-mode/toggle/{empresaId}", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]bool
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		writeJSON(w, http.StatusOK, `{"data":{"empresaId":"`+r.PathValue("empresaId")+`","enabled":`+strconv.FormatBool(body["enabled"])+`}}`)
	})
	mux.HandleFunc("GET /api/dev-mode/status/{empresaId}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"data":{"empresaId":"e1","enabled":true}}`)
	})
	mux.HandleFunc("POST /api/dev-mode/requests/{id}/approve", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"data":{"id":"`+r.PathValue("id")+`","status":"approved"}}`)
	})
	mux.HandleFunc("DELETE /api/dev-mode/requests/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	c := newTestClient(t, srv, sessionfakes.NewFakeStore(signedIn()))

	page, err := c.DevModeRequests(t.Context(), 20)
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	require.Len(t, page.Rows, 1)
	require.True(t, page.Rows[0].IsPending())

	sw, err := c.ToggleDevMode(t.Context(), "e1", true)
	require.NoError(t, err)
	require.Equal(t, devmode.Switch{EmpresaID: "e1", Enabled: true}, sw)

	sw, err = c.DevModeStatus(t.Context(), "e1")
	require.NoError(t, err)
	require.True(t, sw.Enabled)

	req, err := c.ResolveDevModeRequest(t.Context(), "r1", devmode.StatusApproved)
	require.NoError(t, err)
	require.Equal(t, devmode.StatusApproved, req.Status)

	_, err = c.ResolveDevModeRequest(t.Context(), "r1", devmode.StatusPending)
	require.Error(t, err)

	require.NoError(t, c.DeleteDevModeRequest(t.Context(), "r1"))
}

func TestAnuncioEndpoints(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/anuncios", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `[{"id":"a1","titulo":"Hola","activo":true},{"id":"a2","titulo":"Adiós"}]`)
	})
	mux.HandleFunc("POST /api/anuncios", func(w http.ResponseWriter, r *http.Request) {
		var in anuncios.Input
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		writeJSON(w, http.StatusCreated, `{"data":{"id":"a3","titulo":"`+in.Titulo+`"}}`)
	})
	mux.HandleFunc("POST /api/anuncios/{id}/imagen", func(w http.ResponseWriter, r *http.Request) {
		f, hdr, err := r.FormFile(nexusapi.ImageField)
		require.NoError(t, err)
		defer f.Close()
		data, _ := io.ReadAll(f)
		require.Equal(t, "banner.png", hdr.Filename)
		require.Equal(t, "PNGDATA", string(data))
		writeJSON(w, http.StatusOK, `{"data":{"id":"a1","imagen_url":"https://cdn/banner.png"}}`)
	})
	mux.HandleFunc("DELETE /api/anuncios/{id}/imagen", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"data":{"id":"a1"}}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	c := newTestClient(t, srv, sessionfakes.NewFakeStore(signedIn()))

	list, err := c.Anuncios(t.Context())
	require.NoError(t, err)
	require.Equal(t, 1, anuncios.CountActive(list))

	created, err := c.CreateAnuncio(t.Context(), anuncios.Input{Titulo: "Nuevo", Mensaje: "m"})
	require.NoError(t, err)
	require.Equal(t, "a3", created.ID)

	withImage, err := c.UploadAnuncioImagen(t.Context(), "a1", "banner.png", strings.NewReader("PNGDATA"))
	require.NoError(t, err)
	require.Equal(t, "https://cdn/banner.png", withImage.ImagenURL)

	cleared, err := c.DeleteAnuncioImagen(t.Context(), "a1")
	require.NoError(t, err)
	require.Empty(t, cleared.ImagenURL)
}
