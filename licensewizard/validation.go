package licensewizard

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Field names match the JSON keys of the setup payload.
type Field string

const (
	FieldEmpresaNombre         Field = "empresa_nombre"
	FieldEmpresaRFC            Field = "empresa_rfc"
	FieldUsuarioEmail          Field = "usuario_email"
	FieldMaxUsuarios           Field = "max_usuarios"
	FieldMaxUsuariosConectados Field = "max_usuarios_conectados"
)

// Messages returned by the validators. An empty string means valid.
const (
	MsgNombreCorto        = "El nombre de la empresa debe tener al menos 2 caracteres"
	MsgRFCLongitud        = "El RFC debe tener 12 o 13 caracteres"
	MsgEmailInvalido      = "Ingresa un correo electrónico válido"
	MsgMaxUsuarios        = "El máximo de usuarios debe ser un número entero mayor o igual a 1"
	MsgConectadosMinimo   = "El máximo de usuarios conectados debe ser al menos 1"
	MsgConectadosExcedido = "El máximo de usuarios conectados no puede ser mayor que el máximo de usuarios"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NormalizeRFC upper-cases and trims a tax id.
func NormalizeRFC(rfc string) string {
	return strings.ToUpper(strings.TrimSpace(rfc))
}

// ValidateEmpresaNombre: trimmed length >= 2.
func ValidateEmpresaNombre(nombre string) string {
	if utf8.RuneCountInString(strings.TrimSpace(nombre)) < 2 {
		return MsgNombreCorto
	}
	return ""
}

// ValidateRFC: normalized length is 12 (moral) or 13 (física). Content is not checked.
func ValidateRFC(rfc string) string {
	n := utf8.RuneCountInString(NormalizeRFC(rfc))
	if n != 12 && n != 13 {
		return MsgRFCLongitud
	}
	return ""
}

func ValidateEmail(email string) string {
	if !emailPattern.MatchString(strings.TrimSpace(email)) {
		return MsgEmailInvalido
	}
	return ""
}

// ValidateMaxUsuarios: an integer >= 1.
func ValidateMaxUsuarios(raw string) string {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return MsgMaxUsuarios
	}
	return ""
}

// ValidateMaxUsuariosConectados: an integer >= 1 and <= max users. The upper bound is
// only enforced when max users itself parses.
func ValidateMaxUsuariosConectados(raw, maxUsuarios string) string {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return MsgConectadosMinimo
	}
	if max, err := strconv.Atoi(strings.TrimSpace(maxUsuarios)); err == nil && n > max {
		return MsgConectadosExcedido
	}
	return ""
}

// ValidateField runs the rule for one field against the whole form, since the
// connected-users rule depends on max users.
func ValidateField(field Field, f Form) string {
	switch field {
	case FieldEmpresaNombre:
		return ValidateEmpresaNombre(f.EmpresaNombre)
	case FieldEmpresaRFC:
		return ValidateRFC(f.EmpresaRFC)
	case FieldUsuarioEmail:
		return ValidateEmail(f.UsuarioEmail)
	case FieldMaxUsuarios:
		return ValidateMaxUsuarios(f.MaxUsuarios)
	case FieldMaxUsuariosConectados:
		return ValidateMaxUsuariosConectados(f.MaxUsuariosConectados, f.MaxUsuarios)
	}
	return ""
}
