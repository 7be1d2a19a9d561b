package anuncios

import (
	"context"

	"github.com/jrsteele09/nexus-console/internal/optimistic"
)

// Updater persists an announcement's writable fields.
type Updater interface {
	UpdateAnuncio(ctx context.Context, id string, in Input) (Anuncio, error)
}

// ToggleActivo flips the active flag optimistically. On failure the original record is
// returned alongside the error so the caller can render the rolled-back state.
func ToggleActivo(ctx context.Context, u Updater, a Anuncio) (Anuncio, error) {
	tr := optimistic.New(a)
	flipped := a
	flipped.Activo = !a.Activo

	var saved Anuncio
	shown, err := tr.Run(flipped, func(v Anuncio) error {
		var err error
		saved, err = u.UpdateAnuncio(ctx, v.ID, InputFrom(v))
		return err
	})
	if err != nil {
		return shown, err
	}
	if saved.ID == "" {
		return shown, nil
	}
	return saved, nil
}
