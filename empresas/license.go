package empresas

import "math"

// Status is the severity bucket of a company's license usage.
type Status string

const (
	StatusOK       Status = "ok"
	StatusWarning  Status = "warning"
	StatusCritical Status = "critical"
)

const (
	WarningThreshold  = 70
	CriticalThreshold = 90
)

// Percent returns round(activos / max * 100), or 0 when max is 0.
func Percent(activos, max int) int {
	if max <= 0 {
		return 0
	}
	return int(math.Round(float64(activos) / float64(max) * 100))
}

// Bucket maps a usage percentage to its status: >=90 critical, 70..89 warning, else ok.
func Bucket(pct int) Status {
	switch {
	case pct >= CriticalThreshold:
		return StatusCritical
	case pct >= WarningThreshold:
		return StatusWarning
	default:
		return StatusOK
	}
}

// License is the display model for one company's capacity.
type License struct {
	EmpresaID     string `json:"empresa_id"`
	EmpresaNombre string `json:"empresa_nombre"`
	Capacity
	Pct    int    `json:"pct"`
	Status Status `json:"status"`
}

// NewLicense derives Pct and Status from a raw capacity record.
func NewLicense(e Empresa, c Capacity) License {
	pct := Percent(c.UsuariosActivos, c.MaxUsuarios)
	return License{
		EmpresaID:     e.ID,
		EmpresaNombre: e.Nombre,
		Capacity:      c,
		Pct:           pct,
		Status:        Bucket(pct),
	}
}

// AlertSummary counts companies needing attention, for the sitewide banner.
type AlertSummary struct {
	Critical int `json:"critical"`
	Warning  int `json:"warning"`
}

// Show reports whether the banner should be displayed at all.
func (a AlertSummary) Show() bool {
	return a.Critical > 0 || a.Warning > 0
}

func Summarize(licenses []License) AlertSummary {
	var s AlertSummary
	for _, l := range licenses {
		switch l.Status {
		case StatusCritical:
			s.Critical++
		case StatusWarning:
			s.Warning++
		}
	}
	return s
}
