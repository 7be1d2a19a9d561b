package empresas

import "time"

// Empresa is a tenant company record as returned by the remote API.
// Branches carry the ID of their parent company; parent-level companies carry none.
type Empresa struct {
	ID        string    `json:"id"`
	Nombre    string    `json:"nombre"`
	RFC       string    `json:"rfc,omitempty"`
	Email     string    `json:"email,omitempty"`
	ParentID  *string   `json:"parent_id,omitempty"`
	Activa    bool      `json:"activa"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// IsParent reports whether the company has no parent reference.
func (e Empresa) IsParent() bool {
	return e.ParentID == nil || *e.ParentID == ""
}

// Parents keeps only parent-level companies, preserving order.
func Parents(all []Empresa) []Empresa {
	out := make([]Empresa, 0, len(all))
	for _, e := range all {
		if e.IsParent() {
			out = append(out, e)
		}
	}
	return out
}

// Capacity is a per-company license usage snapshot.
type Capacity struct {
	UsuariosActivos       int `json:"usuarios_activos"`
	MaxUsuarios           int `json:"max_usuarios"`
	SesionesActivas       int `json:"sesiones_activas"`
	MaxUsuariosConectados int `json:"max_usuarios_conectados,omitempty"`
}
