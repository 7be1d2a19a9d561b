package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Auth Routes - Login & Logout
	RouteLogin      = "/login"
	RouteAuthLogin  = "/auth/login"
	RouteAuthLogout = "/auth/logout"

	// Admin Routes
	RouteAdminDashboard = "/admin/dashboard"
	RouteAdminEmpresas  = "/admin/empresas"
	RouteAdminLicencias = "/admin/licencias"
	RouteAdminSistema   = "/admin/sistema"

	// Admin Routes - Anuncios
	RouteAdminAnuncios            = "/admin/anuncios"
	RouteAdminAnuncio             = "/admin/anuncios/{id}"
	RouteAdminAnuncioDelete       = "/admin/anuncios/{id}/delete"
	RouteAdminAnuncioToggle       = "/admin/anuncios/{id}/toggle"
	RouteAdminAnuncioImagen       = "/admin/anuncios/{id}/imagen"
	RouteAdminAnuncioImagenDelete = "/admin/anuncios/{id}/imagen/delete"

	// Admin Routes - Developer mode
	RouteAdminDevMode        = "/admin/devmode"
	RouteAdminDevModeApprove = "/admin/devmode/{id}/approve"
	RouteAdminDevModeReject  = "/admin/devmode/{id}/reject"
	RouteAdminDevModeToggle  = "/admin/devmode/empresas/{empresaId}/toggle"

	// Admin Routes - License wizard
	RouteAdminWizard         = "/admin/licencias/nueva"
	RouteAdminWizardStepOne  = "/admin/licencias/nueva/paso1"
	RouteAdminWizardStepTwo  = "/admin/licencias/nueva/paso2"
	RouteAdminWizardBack     = "/admin/licencias/nueva/atras"
	RouteAdminWizardValidate = "/admin/licencias/nueva/validar"

	// Operational Routes
	RouteMetrics = "/metrics"
	RouteHealthz = "/healthz"

	// Static Asset Routes (patterns)
	RouteStaticCSS = "/css/{file}"
)
