package nexusapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/go-playground/validator/v10"
	"github.com/jrsteele09/nexus-console/empresas"
	"github.com/jrsteele09/nexus-console/licensewizard"
	"github.com/pkg/errors"
)

// Companies lists every tenant company. Envelope: {data: [...]}.
func (c *Client) Companies(ctx context.Context) ([]empresas.Empresa, error) {
	body, err := c.do(ctx, request{op: "companies", method: http.MethodGet, path: "/companies", authed: true})
	if err != nil {
		return nil, err
	}
	return decodeData[[]empresas.Empresa]("companies", body)
}

// Capacity fetches the license usage of one company. Envelope: {data: Capacity}.
func (c *Client) Capacity(ctx context.Context, empresaID string) (empresas.Capacity, error) {
	body, err := c.do(ctx, request{
		op:     "capacity",
		method: http.MethodGet,
		path:   "/licenses/empresa/" + url.PathEscape(empresaID) + "/capacity",
		authed: true,
	})
	if err != nil {
		return empresas.Capacity{}, err
	}
	return decodeData[empresas.Capacity]("capacity", body)
}

// SetupResult is whatever the API echoes back after creating a license.
type SetupResult map[string]any

// SetupLicense creates a company, its admin user and its license in one call.
// The payload is checked again before it leaves the process.
func (c *Client) SetupLicense(ctx context.Context, p licensewizard.SetupPayload) (SetupResult, error) {
	if err := c.validate.Struct(p); err != nil {
		verr := &ValidationError{Fields: map[string]string{}, Err: err}
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				verr.Fields[fe.Field()] = fe.Tag()
			}
		}
		return nil, verr
	}
	body, err := c.do(ctx, request{
		op:       "license_setup",
		method:   http.MethodPost,
		path:     "/licenses/setup",
		jsonBody: p,
		authed:   true,
	})
	if err != nil {
		return nil, err
	}
	return decodeData[SetupResult]("license_setup", body)
}
