package dashboard

import (
	"context"
	"net/http"
	"time"

	"github.com/jrsteele09/nexus-console/internal/metrics"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Endpoint is a named service reachable under the API base URL.
type Endpoint struct {
	Name string
	Path string
}

// DefaultEndpoints are the services shown on the system status screen.
var DefaultEndpoints = []Endpoint{
	{Name: "API", Path: "/health"},
	{Name: "Auth", Path: "/auth/me"},
	{Name: "Licencias", Path: "/licenses"},
	{Name: "Anuncios", Path: "/anuncios"},
}

// Pinger issues an authenticated GET and returns the status code.
type Pinger interface {
	Ping(ctx context.Context, path string) (int, error)
}

type ProbeResult struct {
	Name      string
	Online    bool
	Status    int
	LatencyMs int64
	Err       error
}

// Online classifies a probe status: 2xx, 401 and 403 all mean the service answered.
func Online(status int) bool {
	return (status >= 200 && status < 300) || status == http.StatusUnauthorized || status == http.StatusForbidden
}

// Prober runs the status probes.
type Prober struct {
	pinger  Pinger
	timeout time.Duration
	metrics *metrics.Metrics
}

func NewProber(p Pinger, timeout time.Duration, m *metrics.Metrics) *Prober {
	return &Prober{pinger: p, timeout: timeout, metrics: m}
}

// Probe checks every endpoint concurrently. Each probe is independent and bounded by
// the per-probe timeout.
func (p *Prober) Probe(ctx context.Context, endpoints []Endpoint) []ProbeResult {
	results := make([]ProbeResult, len(endpoints))
	var g errgroup.Group
	for i, ep := range endpoints {
		g.Go(func() error {
			results[i] = p.probeOne(ctx, ep)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (p *Prober) probeOne(ctx context.Context, ep Endpoint) ProbeResult {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	start := time.Now()
	status, err := p.pinger.Ping(ctx, ep.Path)
	res := ProbeResult{
		Name:      ep.Name,
		Status:    status,
		LatencyMs: time.Since(start).Milliseconds(),
		Err:       err,
		Online:    err == nil && Online(status),
	}

	p.metrics.RecordProbe(ep.Name, res.Online, res.LatencyMs)
	log.Debug().Str("service", ep.Name).Bool("online", res.Online).Int("status", status).Int64("latency_ms", res.LatencyMs).Msg("probe")
	return res
}
