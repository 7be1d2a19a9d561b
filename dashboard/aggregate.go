// Package dashboard aggregates companies, capacities, developer-mode requests and
// announcements into the figures shown on the admin dashboard.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/jrsteele09/nexus-console/devmode"
	"github.com/jrsteele09/nexus-console/empresas"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	// RecentWindow caps the activity feed.
	RecentWindow = 20
	// PendingDisplayCap caps the pending requests shown on the dashboard.
	PendingDisplayCap = 5
)

// CapacityFetcher loads one company's license usage.
type CapacityFetcher interface {
	Capacity(ctx context.Context, empresaID string) (empresas.Capacity, error)
}

// CapacityResult is the settled outcome of one capacity fetch. Err set means the
// capacity is all zeroes.
type CapacityResult struct {
	Empresa  empresas.Empresa
	Capacity empresas.Capacity
	Err      error
}

// FetchCapacities fetches every company's capacity concurrently. One failure never
// affects the others; results keep the order of companies.
func FetchCapacities(ctx context.Context, f CapacityFetcher, companies []empresas.Empresa) []CapacityResult {
	results := make([]CapacityResult, len(companies))
	var g errgroup.Group
	for i, e := range companies {
		g.Go(func() error {
			c, err := f.Capacity(ctx, e.ID)
			if err != nil {
				log.Warn().Err(err).Str("empresa_id", e.ID).Msg("capacity fetch failed")
				results[i] = CapacityResult{Empresa: e, Err: err}
				return nil
			}
			results[i] = CapacityResult{Empresa: e, Capacity: c}
			return nil
		})
	}
	_ = g.Wait() // goroutines never return an error
	return results
}

// Totals sums active users and active sessions. Failed fetches contribute zero.
func Totals(results []CapacityResult) (activeUsers, activeSessions int) {
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		activeUsers += r.Capacity.UsuariosActivos
		activeSessions += r.Capacity.SesionesActivas
	}
	return activeUsers, activeSessions
}

// LicenseUsage builds the usage rows for companies with a license (max users > 0).
func LicenseUsage(results []CapacityResult) []empresas.License {
	out := make([]empresas.License, 0, len(results))
	for _, r := range results {
		if r.Err != nil || r.Capacity.MaxUsuarios <= 0 {
			continue
		}
		out = append(out, empresas.NewLicense(r.Empresa, r.Capacity))
	}
	return out
}

func plural(n int, singular, pluralForm string) string {
	if n == 1 {
		return singular
	}
	return pluralForm
}

// RelativeTime labels t relative to now in Spanish. Future instants read "ahora".
func RelativeTime(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "ahora"
	case d < time.Hour:
		n := int(d / time.Minute)
		return fmt.Sprintf("hace %d %s", n, plural(n, "minuto", "minutos"))
	case d < 24*time.Hour:
		n := int(d / time.Hour)
		return fmt.Sprintf("hace %d %s", n, plural(n, "hora", "horas"))
	default:
		n := int(d / (24 * time.Hour))
		return fmt.Sprintf("hace %d %s", n, plural(n, "día", "días"))
	}
}

// ActivityItem is one dashboard feed row.
type ActivityItem struct {
	Request devmode.Request
	Label   string
}

// ActivityFeed orders requests most recent first, keeps RecentWindow of them and
// labels each one.
func ActivityFeed(reqs []devmode.Request, now time.Time) []ActivityItem {
	sorted := make([]devmode.Request, len(reqs))
	copy(sorted, reqs)
	devmode.SortRecent(sorted)
	if len(sorted) > RecentWindow {
		sorted = sorted[:RecentWindow]
	}

	out := make([]ActivityItem, len(sorted))
	for i, r := range sorted {
		out[i] = ActivityItem{Request: r, Label: RelativeTime(r.RequestedAt, now)}
	}
	return out
}

// PendingPreview returns up to PendingDisplayCap pending requests, most recent first,
// and the full pending count.
func PendingPreview(reqs []devmode.Request) ([]devmode.Request, int) {
	sorted := make([]devmode.Request, len(reqs))
	copy(sorted, reqs)
	devmode.SortRecent(sorted)

	pending := devmode.PendingOnly(sorted)
	total := len(pending)
	if len(pending) > PendingDisplayCap {
		pending = pending[:PendingDisplayCap]
	}
	return pending, total
}

// Stats are the headline numbers on the dashboard.
type Stats struct {
	TotalCompanies      int
	TotalActiveUsers    int
	TotalActiveSessions int
	PendingRequests     int
	ActiveAnuncios      int
}
