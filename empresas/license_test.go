package empresas_test

import (
	"testing"

	"github.com/jrsteele09/nexus-console/empresas"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestPercent(t *testing.T) {
	require.Equal(t, 0, empresas.Percent(0, 0))
	require.Equal(t, 0, empresas.Percent(5, 0))
	require.Equal(t, 50, empresas.Percent(5, 10))
	require.Equal(t, 100, empresas.Percent(8, 8))
	require.Equal(t, 67, empresas.Percent(2, 3))
	require.Equal(t, 33, empresas.Percent(1, 3))
	require.Equal(t, 150, empresas.Percent(3, 2))
}

func TestBucket(t *testing.T) {
	for pct := 0; pct <= 120; pct++ {
		got := empresas.Bucket(pct)
		switch {
		case pct >= 90:
			require.Equal(t, empresas.StatusCritical, got, "pct=%d", pct)
		case pct >= 70:
			require.Equal(t, empresas.StatusWarning, got, "pct=%d", pct)
		default:
			require.Equal(t, empresas.StatusOK, got, "pct=%d", pct)
		}
	}
	require.Equal(t, empresas.StatusWarning, empresas.Bucket(70))
	require.Equal(t, empresas.StatusCritical, empresas.Bucket(90))
	require.Equal(t, empresas.StatusOK, empresas.Bucket(69))
}

func TestNewLicense(t *testing.T) {
	e := empresas.Empresa{ID: "e1", Nombre: "Acme"}

	t.Run("zero max is ok", func(t *testing.T) {
		l := empresas.NewLicense(e, empresas.Capacity{UsuariosActivos: 3, MaxUsuarios: 0})
		require.Equal(t, 0, l.Pct)
		require.Equal(t, empresas.StatusOK, l.Status)
	})

	t.Run("full is critical", func(t *testing.T) {
		l := empresas.NewLicense(e, empresas.Capacity{UsuariosActivos: 8, MaxUsuarios: 8})
		require.Equal(t, 100, l.Pct)
		require.Equal(t, empresas.StatusCritical, l.Status)
		require.Equal(t, "Acme", l.EmpresaNombre)
	})
}

func TestSummarize(t *testing.T) {
	e := empresas.Empresa{ID: "e"}
	licenses := []empresas.License{
		empresas.NewLicense(e, empresas.Capacity{UsuariosActivos: 9, MaxUsuarios: 10}),
		empresas.NewLicense(e, empresas.Capacity{UsuariosActivos: 7, MaxUsuarios: 10}),
		empresas.NewLicense(e, empresas.Capacity{UsuariosActivos: 8, MaxUsuarios: 10}),
		empresas.NewLicense(e, empresas.Capacity{UsuariosActivos: 1, MaxUsuarios: 10}),
	}
	s := empresas.Summarize(licenses)
	require.Equal(t, empresas.AlertSummary{Critical: 1, Warning: 2}, s)
	require.True(t, s.Show())
	require.False(t, empresas.Summarize(nil).Show())
}

func TestParents(t *testing.T) {
	all := []empresas.Empresa{
		{ID: "a"},
		{ID: "b", ParentID: ptr("a")},
		{ID: "c", ParentID: ptr("")},
	}
	parents := empresas.Parents(all)
	require.Len(t, parents, 2)
	require.Equal(t, "a", parents[0].ID)
	require.Equal(t, "c", parents[1].ID)
}
