package nexusapi

import (
	"encoding/json"
	"fmt"
	"strings"

	ierrors "github.com/jrsteele09/nexus-console/internal/errors"
)

// GenericMessage is shown for network and decode failures.
const GenericMessage = "No se pudo conectar con el servidor"

// ValidationMessage is shown when a payload was refused before it was sent.
const ValidationMessage = "Revisa los datos del formulario"

// SessionExpiredMessage is shown after the API rejected the stored credentials.
const SessionExpiredMessage = "Tu sesión expiró, inicia sesión de nuevo"

// ErrUnauthorized is returned after a 401/403 response cleared the session, or when
// an authenticated call is attempted without a session.
var ErrUnauthorized = ierrors.ErrUnauthorized

// APIError is any other non-2xx response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// ValidationError is a payload refused before sending. Fields maps each rejected
// JSON field to the failed validator tag.
type ValidationError struct {
	Fields map[string]string
	Err    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid payload: %v", e.Err)
}

func (e *ValidationError) Unwrap() []error {
	return []error{ierrors.ErrValidation, e.Err}
}

// Envelope names the response shape an endpoint declares.
type Envelope string

const (
	EnvelopeBare  Envelope = "bare"
	EnvelopeData  Envelope = "data"
	EnvelopePage  Envelope = "page"
	EnvelopeEmpty Envelope = "empty"
)

// DecodeError means a 2xx body did not match the endpoint's declared envelope.
type DecodeError struct {
	Endpoint string
	Envelope Envelope
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s (%s envelope): %v", e.Endpoint, e.Envelope, e.Err)
}

func (e *DecodeError) Unwrap() []error {
	return []error{ierrors.ErrDecode, e.Err}
}

// UserMessage turns any client error into the text an admin should see.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if ierrors.As(err, &apiErr) {
		return apiErr.Message
	}
	if ierrors.Is(err, ErrUnauthorized) {
		return SessionExpiredMessage
	}
	if ierrors.Is(err, ierrors.ErrValidation) {
		return ValidationMessage
	}
	return GenericMessage
}

// errorMessage reads "message", then "error", from a JSON error body.
func errorMessage(status int, body []byte) string {
	var payload struct {
		Message json.RawMessage `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		for _, raw := range []json.RawMessage{payload.Message, payload.Error} {
			var s string
			if len(raw) > 0 && json.Unmarshal(raw, &s) == nil && strings.TrimSpace(s) != "" {
				return s
			}
		}
	}
	return fmt.Sprintf("HTTP %d", status)
}
