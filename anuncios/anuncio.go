package anuncios

import (
	"strings"
	"time"
)

// Anuncio is a system-wide announcement with an optional image and link.
type Anuncio struct {
	ID          string     `json:"id"`
	Titulo      string     `json:"titulo"`
	Mensaje     string     `json:"mensaje"`
	ImagenURL   string     `json:"imagen_url,omitempty"`
	LinkURL     string     `json:"link_url,omitempty"`
	Activo      bool       `json:"activo"`
	Prioridad   int        `json:"prioridad"`
	FechaInicio *time.Time `json:"fecha_inicio,omitempty"`
	FechaFin    *time.Time `json:"fecha_fin,omitempty"`
	CreatedAt   time.Time  `json:"created_at,omitempty"`
}

// Input is the writable subset sent on create and update.
type Input struct {
	Titulo      string     `json:"titulo"`
	Mensaje     string     `json:"mensaje"`
	LinkURL     string     `json:"link_url,omitempty"`
	Activo      bool       `json:"activo"`
	Prioridad   int        `json:"prioridad"`
	FechaInicio *time.Time `json:"fecha_inicio,omitempty"`
	FechaFin    *time.Time `json:"fecha_fin,omitempty"`
}

// InputFrom copies the writable fields of an existing announcement.
func InputFrom(a Anuncio) Input {
	return Input{
		Titulo:      a.Titulo,
		Mensaje:     a.Mensaje,
		LinkURL:     a.LinkURL,
		Activo:      a.Activo,
		Prioridad:   a.Prioridad,
		FechaInicio: a.FechaInicio,
		FechaFin:    a.FechaFin,
	}
}

// VisibleAt reports whether an active announcement falls inside its date window.
func (a Anuncio) VisibleAt(now time.Time) bool {
	if !a.Activo {
		return false
	}
	if a.FechaInicio != nil && now.Before(*a.FechaInicio) {
		return false
	}
	if a.FechaFin != nil && now.After(*a.FechaFin) {
		return false
	}
	return true
}

// CountActive counts announcements flagged active.
func CountActive(list []Anuncio) int {
	n := 0
	for _, a := range list {
		if a.Activo {
			n++
		}
	}
	return n
}

// FieldErrors maps a form field name to its message.
type FieldErrors map[string]string

// Validate checks an announcement form. Titles are trimmed in place.
func (in *Input) Validate() FieldErrors {
	errs := FieldErrors{}
	in.Titulo = strings.TrimSpace(in.Titulo)
	in.Mensaje = strings.TrimSpace(in.Mensaje)
	in.LinkURL = strings.TrimSpace(in.LinkURL)

	if len([]rune(in.Titulo)) < 3 {
		errs["titulo"] = "El título debe tener al menos 3 caracteres"
	}
	if in.Mensaje == "" {
		errs["mensaje"] = "El mensaje es obligatorio"
	}
	if in.LinkURL != "" && !strings.HasPrefix(in.LinkURL, "http://") && !strings.HasPrefix(in.LinkURL, "https://") {
		errs["link_url"] = "El enlace debe comenzar con http:// o https://"
	}
	if in.Prioridad < 0 {
		errs["prioridad"] = "La prioridad no puede ser negativa"
	}
	if in.FechaInicio != nil && in.FechaFin != nil && in.FechaFin.Before(*in.FechaInicio) {
		errs["fecha_fin"] = "La fecha de fin no puede ser anterior a la de inicio"
	}
	return errs
}
