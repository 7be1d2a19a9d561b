package cli_test

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jrsteele09/nexus-console/internal/cli"
	"github.com/jrsteele09/nexus-console/internal/config"
	"github.com/stretchr/testify/require"
)

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

type fakeAPI struct {
	companiesStatus int
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"data":{"token":"tok-abc","expires_in":3600,"usuario":{"nombre":"Ana","email":"admin@nexus.mx"}}}`)
	})
	mux.HandleFunc("GET /api/companies", func(w http.ResponseWriter, r *http.Request) {
		if f.companiesStatus != 0 {
			writeJSON(w, f.companiesStatus, `{"message":"forbidden"}`)
			return
		}
		writeJSON(w, http.StatusOK, `{"data":[{"id":"e1","nombre":"Acme","activa":true}]}`)
	})
	mux.HandleFunc("GET /api/licenses/empresa/{id}/capacity", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"data":{"usuarios_activos":7,"max_usuarios":10,"sesiones_activas":2}}`)
	})
	mux.HandleFunc("GET /api/dev-mode/requests", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"data":{"rows":[],"total":0,"page":1,"limit":100}}`)
	})
	mux.HandleFunc("GET /api/anuncios", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `[]`)
	})
	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"status":"ok"}`)
	})
	mux.HandleFunc("GET /api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, `{}`)
	})
	mux.HandleFunc("GET /api/licenses", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"data":[]}`)
	})
	return mux
}

func testConfig(t *testing.T, apiURL, sessionDir string) config.Config {
	t.Helper()
	cfg, err := config.FromSettings(config.Settings{
		APIURL:        apiURL + "/api",
		Env:           "TEST",
		LogLevel:      "error",
		SessionDir:    sessionDir,
		SessionSecret: "s3cret",
	})
	require.NoError(t, err)
	return cfg
}

func execute(t *testing.T, cfg config.Config, args ...string) (string, error) {
	t.Helper()
	cmd := cli.NewRootCmd(cli.WithConfig(cfg))
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(t.Context())
	return out.String(), err
}

func TestLoginDashboardLogout(t *testing.T) {
	api := &fakeAPI{}
	srv := httptest.NewServer(api.handler())
	defer srv.Close()
	cfg := testConfig(t, srv.URL, t.TempDir())

	out, err := execute(t, cfg, "login", "--email", "admin@nexus.mx", "--password", "secreto")
	require.NoError(t, err)
	require.Contains(t, out, "Signed in as Ana")

	// A later invocation reads the session back from disk
	out, err = execute(t, cfg, "dashboard")
	require.NoError(t, err)
	require.Contains(t, out, "Usuarios activos")
	require.Contains(t, out, "Acme")
	require.Contains(t, out, "70%")
	require.Contains(t, out, "warning")

	out, err = execute(t, cfg, "logout")
	require.NoError(t, err)
	require.Contains(t, out, "Signed out")

	_, err = execute(t, cfg, "dashboard")
	require.EqualError(t, err, "session expired, run `nexus login`")
}

func TestDashboardUnauthorized(t *testing.T) {
	api := &fakeAPI{}
	srv := httptest.NewServer(api.handler())
	defer srv.Close()
	cfg := testConfig(t, srv.URL, t.TempDir())

	_, err := execute(t, cfg, "login", "--email", "admin@nexus.mx", "--password", "secreto")
	require.NoError(t, err)

	api.companiesStatus = http.StatusForbidden
	_, err = execute(t, cfg, "dashboard")
	require.EqualError(t, err, "session expired, run `nexus login`")

	// The 403 cleared the stored session
	api.companiesStatus = 0
	_, err = execute(t, cfg, "dashboard")
	require.EqualError(t, err, "session expired, run `nexus login`")
}

func TestLoginRequiresFlags(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1", t.TempDir())

	_, err := execute(t, cfg, "login", "--email", "admin@nexus.mx")
	require.EqualError(t, err, "--password is required")
}

func TestProbe(t *testing.T) {
	api := &fakeAPI{}
	srv := httptest.NewServer(api.handler())
	defer srv.Close()
	cfg := testConfig(t, srv.URL, t.TempDir())

	_, err := execute(t, cfg, "login", "--email", "admin@nexus.mx", "--password", "secreto")
	require.NoError(t, err)

	out, err := execute(t, cfg, "probe")
	require.NoError(t, err)
	require.Contains(t, out, "Auth")
	require.NotContains(t, out, "fuera de línea")
}
