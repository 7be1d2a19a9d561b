package nexusapi

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/jrsteele09/nexus-console/anuncios"
	"github.com/pkg/errors"
)

// ImageField is the multipart field name the API expects for announcement images.
const ImageField = "imagen"

var _ anuncios.Updater = (*Client)(nil)

// Anuncios lists announcements. Unlike the other lists this one is a bare array.
func (c *Client) Anuncios(ctx context.Context) ([]anuncios.Anuncio, error) {
	body, err := c.do(ctx, request{op: "anuncios", method: http.MethodGet, path: "/anuncios", authed: true})
	if err != nil {
		return nil, err
	}
	return decodeBare[[]anuncios.Anuncio]("anuncios", body)
}

func (c *Client) anuncio(ctx context.Context, op, method, path string, in *anuncios.Input) (anuncios.Anuncio, error) {
	r := request{op: op, method: method, path: path, authed: true}
	if in != nil {
		r.jsonBody = in
	}
	body, err := c.do(ctx, r)
	if err != nil {
		return anuncios.Anuncio{}, err
	}
	return decodeData[anuncios.Anuncio](op, body)
}

func anuncioPath(id string) string {
	return "/anuncios/" + url.PathEscape(id)
}

func (c *Client) Anuncio(ctx context.Context, id string) (anuncios.Anuncio, error) {
	return c.anuncio(ctx, "anuncio_get", http.MethodGet, anuncioPath(id), nil)
}

func (c *Client) CreateAnuncio(ctx context.Context, in anuncios.Input) (anuncios.Anuncio, error) {
	return c.anuncio(ctx, "anuncio_create", http.MethodPost, "/anuncios", &in)
}

func (c *Client) UpdateAnuncio(ctx context.Context, id string, in anuncios.Input) (anuncios.Anuncio, error) {
	return c.anuncio(ctx, "anuncio_update", http.MethodPut, anuncioPath(id), &in)
}

// DeleteAnuncio removes an announcement; the API echoes the deleted record.
func (c *Client) DeleteAnuncio(ctx context.Context, id string) (anuncios.Anuncio, error) {
	return c.anuncio(ctx, "anuncio_delete", http.MethodDelete, anuncioPath(id), nil)
}

// UploadAnuncioImagen sends the image as multipart field "imagen".
func (c *Client) UploadAnuncioImagen(ctx context.Context, id, filename string, image io.Reader) (anuncios.Anuncio, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(ImageField, filename)
	if err != nil {
		return anuncios.Anuncio{}, errors.Wrap(err, "create multipart part")
	}
	if _, err := io.Copy(part, image); err != nil {
		return anuncios.Anuncio{}, errors.Wrap(err, "copy image")
	}
	if err := mw.Close(); err != nil {
		return anuncios.Anuncio{}, errors.Wrap(err, "close multipart body")
	}

	body, err := c.do(ctx, request{
		op:          "anuncio_image_upload",
		method:      http.MethodPost,
		path:        anuncioPath(id) + "/imagen",
		rawBody:     &buf,
		contentType: mw.FormDataContentType(),
		authed:      true,
	})
	if err != nil {
		return anuncios.Anuncio{}, err
	}
	return decodeData[anuncios.Anuncio]("anuncio_image_upload", body)
}

func (c *Client) DeleteAnuncioImagen(ctx context.Context, id string) (anuncios.Anuncio, error) {
	return c.anuncio(ctx, "anuncio_image_delete", http.MethodDelete, anuncioPath(id)+"/imagen", nil)
}
