package anuncios_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/nexus-console/anuncios"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestInput_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		in := anuncios.Input{Titulo: "  Mantenimiento ", Mensaje: "Sábado 10pm", LinkURL: "https://status.example.com"}
		require.Empty(t, in.Validate())
		require.Equal(t, "Mantenimiento", in.Titulo)
	})

	t.Run("short title and empty message", func(t *testing.T) {
		in := anuncios.Input{Titulo: "ab", Mensaje: "   "}
		errs := in.Validate()
		require.Contains(t, errs, "titulo")
		require.Contains(t, errs, "mensaje")
	})

	t.Run("bad link", func(t *testing.T) {
		in := anuncios.Input{Titulo: "Hola", Mensaje: "x", LinkURL: "javascript:alert(1)"}
		require.Contains(t, in.Validate(), "link_url")
	})

	t.Run("end before start", func(t *testing.T) {
		start := time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC)
		in := anuncios.Input{Titulo: "Hola", Mensaje: "x", FechaInicio: &start, FechaFin: ptr(start.Add(-time.Hour))}
		require.Contains(t, in.Validate(), "fecha_fin")
	})
}

func TestAnuncio_VisibleAt(t *testing.T) {
	now := time.Date(2026, 5, 2, 12, 0, 0, 0, time.UTC)
	a := anuncios.Anuncio{Activo: true}
	require.True(t, a.VisibleAt(now))

	a.FechaInicio = ptr(now.Add(time.Hour))
	require.False(t, a.VisibleAt(now))

	a.FechaInicio = ptr(now.Add(-time.Hour))
	a.FechaFin = ptr(now.Add(-time.Minute))
	require.False(t, a.VisibleAt(now))

	require.False(t, anuncios.Anuncio{}.VisibleAt(now))
}

func TestCountActive(t *testing.T) {
	list := []anuncios.Anuncio{{Activo: true}, {Activo: false}, {Activo: true}}
	require.Equal(t, 2, anuncios.CountActive(list))
}

func TestInputFrom(t *testing.T) {
	a := anuncios.Anuncio{ID: "a1", Titulo: "Hola", Mensaje: "m", Activo: true, Prioridad: 2, ImagenURL: "https://cdn/x.png"}
	in := anuncios.InputFrom(a)
	require.Equal(t, anuncios.Input{Titulo: "Hola", Mensaje: "m", Activo: true, Prioridad: 2}, in)
}
