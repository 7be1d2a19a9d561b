package licensewizard

import (
	"strconv"
	"strings"
)

// Form holds the raw wizard inputs as typed by the admin.
type Form struct {
	EmpresaNombre         string `json:"empresa_nombre"`
	EmpresaRFC            string `json:"empresa_rfc"`
	UsuarioEmail          string `json:"usuario_email"`
	MaxUsuarios           string `json:"max_usuarios"`
	MaxUsuariosConectados string `json:"max_usuarios_conectados"`
}

// SetupPayload is the body of POST /licenses/setup.
type SetupPayload struct {
	EmpresaNombre         string `json:"empresa_nombre" validate:"required,min=2"`
	EmpresaRFC            string `json:"empresa_rfc" validate:"required,min=12,max=13"`
	UsuarioEmail          string `json:"usuario_email" validate:"required,email"`
	MaxUsuarios           int    `json:"max_usuarios" validate:"gte=1"`
	MaxUsuariosConectados int    `json:"max_usuarios_conectados" validate:"gte=1,ltefield=MaxUsuarios"`
}

var (
	stepOneFields = []Field{FieldEmpresaNombre, FieldEmpresaRFC, FieldUsuarioEmail}
	stepTwoFields = []Field{FieldMaxUsuarios, FieldMaxUsuariosConectados}
)

// Wizard is the two-step license creation flow: company + admin on step 1,
// capacity on step 2.
type Wizard struct {
	Step   int             `json:"step"`
	Form   Form            `json:"form"`
	Errors map[Field]string `json:"errors,omitempty"`
}

func New() *Wizard {
	return &Wizard{
		Step: 1,
		Form: Form{
			MaxUsuarios:           "1",
			MaxUsuariosConectados: "1",
		},
		Errors: map[Field]string{},
	}
}

func (w *Wizard) setError(f Field, msg string) {
	if w.Errors == nil {
		w.Errors = map[Field]string{}
	}
	if msg == "" {
		delete(w.Errors, f)
		return
	}
	w.Errors[f] = msg
}

func (w *Wizard) validate(fields ...Field) bool {
	ok := true
	for _, f := range fields {
		msg := ValidateField(f, w.Form)
		w.setError(f, msg)
		if msg != "" {
			ok = false
		}
	}
	return ok
}

// Set updates one field and re-validates it. Changing max users goes through
// SetMaxUsers so the connected-users field is clamped and re-checked.
func (w *Wizard) Set(field Field, value string) string {
	switch field {
	case FieldEmpresaNombre:
		w.Form.EmpresaNombre = value
	case FieldEmpresaRFC:
		w.Form.EmpresaRFC = value
	case FieldUsuarioEmail:
		w.Form.UsuarioEmail = value
	case FieldMaxUsuarios:
		w.SetMaxUsers(value)
		return w.Errors[FieldMaxUsuarios]
	case FieldMaxUsuariosConectados:
		w.Form.MaxUsuariosConectados = value
	default:
		return ""
	}
	w.validate(field)
	return w.Errors[field]
}

// SetMaxUsers sets max users and clamps connected users down to it when they
// would exceed the new maximum.
func (w *Wizard) SetMaxUsers(raw string) {
	w.Form.MaxUsuarios = raw
	max, err := strconv.Atoi(strings.TrimSpace(raw))
	if err == nil && max >= 1 {
		if conn, err := strconv.Atoi(strings.TrimSpace(w.Form.MaxUsuariosConectados)); err == nil && conn > max {
			w.Form.MaxUsuariosConectados = strconv.Itoa(max)
		}
	}
	w.validate(FieldMaxUsuarios, FieldMaxUsuariosConectados)
}

// Next advances to step 2 only when name, RFC and email are valid.
func (w *Wizard) Next() bool {
	if !w.validate(stepOneFields...) {
		return false
	}
	w.Step = 2
	return true
}

// Back returns to step 1 keeping everything typed so far.
func (w *Wizard) Back() {
	w.Step = 1
}

// Submit re-validates every field and builds the normalized payload.
func (w *Wizard) Submit() (SetupPayload, bool) {
	stepOne := w.validate(stepOneFields...)
	stepTwo := w.validate(stepTwoFields...)
	if !stepOne {
		w.Step = 1
		return SetupPayload{}, false
	}
	if !stepTwo {
		return SetupPayload{}, false
	}

	max, _ := strconv.Atoi(strings.TrimSpace(w.Form.MaxUsuarios))
	conn, _ := strconv.Atoi(strings.TrimSpace(w.Form.MaxUsuariosConectados))
	return SetupPayload{
		EmpresaNombre:         strings.TrimSpace(w.Form.EmpresaNombre),
		EmpresaRFC:            NormalizeRFC(w.Form.EmpresaRFC),
		UsuarioEmail:          strings.TrimSpace(w.Form.UsuarioEmail),
		MaxUsuarios:           max,
		MaxUsuariosConectados: conn,
	}, true
}

// Clone returns a deep copy.
func (w *Wizard) Clone() *Wizard {
	c := &Wizard{Step: w.Step, Form: w.Form, Errors: make(map[Field]string, len(w.Errors))}
	for k, v := range w.Errors {
		c.Errors[k] = v
	}
	return c
}

// Reject records fields refused after Submit, keyed by JSON field name with the
// failed rule tag, and returns to the first step holding one of them.
func (w *Wizard) Reject(fields map[string]string) {
	for name, tag := range fields {
		f := Field(name)
		msg := rejectMessage(f, tag)
		if msg == "" {
			continue
		}
		w.setError(f, msg)
		for _, s1 := range stepOneFields {
			if f == s1 {
				w.Step = 1
			}
		}
	}
}

func rejectMessage(f Field, tag string) string {
	switch f {
	case FieldEmpresaNombre:
		return MsgNombreCorto
	case FieldEmpresaRFC:
		return MsgRFCLongitud
	case FieldUsuarioEmail:
		return MsgEmailInvalido
	case FieldMaxUsuarios:
		return MsgMaxUsuarios
	case FieldMaxUsuariosConectados:
		if tag == "ltefield" {
			return MsgConectadosExcedido
		}
		return MsgConectadosMinimo
	}
	return ""
}
