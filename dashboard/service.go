package dashboard

import (
	"context"
	"errors"
	"time"

	"github.com/jrsteele09/nexus-console/anuncios"
	"github.com/jrsteele09/nexus-console/devmode"
	"github.com/jrsteele09/nexus-console/empresas"
	"github.com/jrsteele09/nexus-console/nexusapi"
	"golang.org/x/sync/errgroup"
)

// RequestFetchLimit is how many developer-mode requests the dashboard asks for.
const RequestFetchLimit = 100

// Source is the slice of the API client the dashboard reads from.
type Source interface {
	CapacityFetcher
	Companies(ctx context.Context) ([]empresas.Empresa, error)
	DevModeRequests(ctx context.Context, limit int) (nexusapi.Page[devmode.Request], error)
	Anuncios(ctx context.Context) ([]anuncios.Anuncio, error)
}

// View is everything the dashboard screen renders.
type View struct {
	Stats          Stats
	Licenses       []empresas.License
	Alerts         empresas.AlertSummary
	Activity       []ActivityItem
	Pending        []devmode.Request
	CapacityErrors int
	GeneratedAt    time.Time
}

type Service struct {
	source  Source
	nowTime func() time.Time
}

// ServiceOption defines a function type to modify the Service instance.
type ServiceOption func(*Service)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

func NewService(src Source, opts ...ServiceOption) *Service {
	s := &Service{source: src, nowTime: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Build loads the three required lists, then the per-company capacities. Any failure of
// a required list aborts the whole view, as does an authorization failure on any call.
func (s *Service) Build(ctx context.Context) (View, error) {
	var (
		companies []empresas.Empresa
		requests  nexusapi.Page[devmode.Request]
		list      []anuncios.Anuncio
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		companies, err = s.source.Companies(gctx)
		return err
	})
	g.Go(func() (err error) {
		requests, err = s.source.DevModeRequests(gctx, RequestFetchLimit)
		return err
	})
	g.Go(func() (err error) {
		list, err = s.source.Anuncios(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return View{}, err
	}

	parents := empresas.Parents(companies)
	results := FetchCapacities(ctx, s.source, parents)
	for _, r := range results {
		// The session is already cleared; nothing partial may be shown
		if errors.Is(r.Err, nexusapi.ErrUnauthorized) {
			return View{}, r.Err
		}
	}
	users, sessions := Totals(results)
	licenses := LicenseUsage(results)
	pending, pendingTotal := PendingPreview(requests.Rows)
	now := s.nowTime()

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}

	return View{
		Stats: Stats{
			TotalCompanies:      len(parents),
			TotalActiveUsers:    users,
			TotalActiveSessions: sessions,
			PendingRequests:     pendingTotal,
			ActiveAnuncios:      anuncios.CountActive(list),
		},
		Licenses:       licenses,
		Alerts:         empresas.Summarize(licenses),
		Activity:       ActivityFeed(requests.Rows, now),
		Pending:        pending,
		CapacityErrors: failed,
		GeneratedAt:    now,
	}, nil
}
