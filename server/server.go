package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jrsteele09/nexus-console/devmode"
	"github.com/jrsteele09/nexus-console/internal/config"
	"github.com/jrsteele09/nexus-console/internal/metrics"
	"github.com/jrsteele09/nexus-console/licensewizard"
	"github.com/jrsteele09/nexus-console/server/ui"
	"github.com/jrsteele09/nexus-console/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

type Server struct {
	env        string // Environment (e.g., "DEV", "PROD")
	mux        *http.ServeMux
	routes     []string
	config     config.Config
	httpClient *http.Client

	// Session tiers shared by every browser; keys are scoped per browser cookie
	shortTier   session.Tier
	durableTier session.Tier

	drafts   licensewizard.DraftRepo
	boards   *devmode.Boards
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
	nowTime  func() time.Time
}

// Option defines a function type to modify the Server instance.
type Option func(*Server)

// WithTiers replaces the session storage tiers.
func WithTiers(short, durable session.Tier) Option {
	return func(s *Server) {
		s.shortTier = short
		s.durableTier = durable
	}
}

// WithHTTPClient sets the client used to reach the remote API.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *Server) {
		s.httpClient = hc
	}
}

// WithMetrics registers the console metrics on registry and serves them on /metrics.
func WithMetrics(registry *prometheus.Registry) Option {
	return func(s *Server) {
		s.metrics = metrics.NewMetrics(registry)
		s.gatherer = registry
	}
}

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) Option {
	return func(s *Server) {
		s.nowTime = nowFunc
	}
}

func New(cfg config.Config, opts ...Option) (*Server, error) {
	s := &Server{
		env:        cfg.GetEnv(),
		mux:        http.NewServeMux(),
		config:     cfg,
		httpClient: &http.Client{Timeout: cfg.GetHTTPTimeout()},
		drafts:     licensewizard.NewInMemoryDraftRepo(),
		boards:     devmode.NewBoards(),
		nowTime:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.shortTier == nil {
		s.shortTier = session.NewMemoryTier(cfg.GetSessionDefaultTTL())
	}
	if s.durableTier == nil {
		if cfg.GetSessionDir() == "" {
			return nil, fmt.Errorf("[Server New] a session directory is required")
		}
		s.durableTier = session.NewFileTier(cfg.GetSessionDir(), cfg.GetSessionSecret())
	}
	if s.metrics == nil {
		registry := prometheus.NewRegistry()
		s.metrics = metrics.NewMetrics(registry)
		s.gatherer = registry
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) metricsHandler() http.Handler {
	return promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func colouredMethod(method string) string {
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := ui.MethodColors[method]; ok {
		return color + paddedMethod + ui.ResetColor
	}
	return ui.Gray + paddedMethod + ui.ResetColor
}

func logRoute(method, path string) {
	log.Info().Msgf("[%-19s] %s", colouredMethod(method), path)
}

func logError(method, path, error string) {
	log.Error().Msgf("[%-19s] %s %s", colouredMethod(method), path, ui.Red+error+ui.ResetColor)
}

// Helper function to determine the scheme (http/https)
func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
