// Package nexusapi is the typed client for the remote Nexus REST API.
package nexusapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jrsteele09/nexus-console/internal/config"
	ierrors "github.com/jrsteele09/nexus-console/internal/errors"
	"github.com/jrsteele09/nexus-console/internal/metrics"
	"github.com/jrsteele09/nexus-console/session"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

const maxBodyBytes = 8 << 20

// Client calls the remote API on behalf of one session store.
type Client struct {
	baseURL    string
	apiKey     string
	store      session.Store
	httpClient *http.Client
	metrics    *metrics.Metrics
	sessionTTL time.Duration
	validate   *validator.Validate
	nowTime    func() time.Time
}

// ClientOption defines a function type to modify the Client instance.
type ClientOption func(*Client)

// WithHTTPClient sets the underlying client. Its Transport is wrapped for bearer auth
// and its Timeout is kept.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithMetrics(m *metrics.Metrics) ClientOption {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithSessionTTL is the lifetime given to sessions whose login response carries no expiry.
func WithSessionTTL(d time.Duration) ClientOption {
	return func(c *Client) {
		c.sessionTTL = d
	}
}

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ClientOption {
	return func(c *Client) {
		c.nowTime = nowFunc
	}
}

func NewClient(cfg config.APIConfig, store session.Store, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    cfg.GetAPIBaseURL(),
		apiKey:     cfg.GetAPIKey(),
		store:      store,
		httpClient: &http.Client{Timeout: cfg.GetHTTPTimeout()},
		sessionTTL: 8 * time.Hour,
		validate:   newValidator(),
		nowTime:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// newValidator reports struct fields by their JSON names so rejections map back onto
// form fields.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Session returns the stored session when one is present and still valid.
func (c *Client) Session() (*session.Session, bool) {
	return c.store.Load()
}

// request describes one remote call.
type request struct {
	op          string // metrics label, e.g. "companies"
	method      string
	path        string
	jsonBody    any
	rawBody     io.Reader
	contentType string
	header      http.Header
	authed      bool
}

// authorizedClient builds an HTTP client that sends the stored token as a bearer credential.
func (c *Client) authorizedClient() (*http.Client, error) {
	s, ok := c.store.Load()
	if !ok {
		return nil, ErrUnauthorized
	}
	base := c.httpClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	return &http.Client{
		Timeout: c.httpClient.Timeout,
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: s.Token, TokenType: "Bearer"}),
			Base:   base,
		},
	}, nil
}

// do performs the call and returns the body of a 2xx response.
func (c *Client) do(ctx context.Context, r request) ([]byte, error) {
	hc := c.httpClient
	if r.authed {
		var err error
		if hc, err = c.authorizedClient(); err != nil {
			c.metrics.RecordAPICall(r.op, "no_session", 0)
			return nil, err
		}
	}

	body := r.rawBody
	contentType := r.contentType
	if r.jsonBody != nil {
		encoded, err := json.Marshal(r.jsonBody)
		if err != nil {
			return nil, errors.Wrapf(err, "encode %s request", r.op)
		}
		body = bytes.NewReader(encoded)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, body)
	if err != nil {
		return nil, errors.Wrapf(err, "build %s request", r.op)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for k, vs := range r.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	start := time.Now()
	resp, err := hc.Do(req)
	elapsed := time.Since(start).Seconds()
	if err != nil {
		c.metrics.RecordAPICall(r.op, "network_error", elapsed)
		log.Error().Err(err).Str("op", r.op).Str("path", r.path).Msg("remote api unreachable")
		return nil, errors.Wrapf(fmt.Errorf("%w: %w", ierrors.ErrUnreachable, err), "%s %s", r.method, r.path)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		c.metrics.RecordAPICall(r.op, "network_error", elapsed)
		return nil, errors.Wrapf(fmt.Errorf("%w: %w", ierrors.ErrUnreachable, err), "read %s response", r.op)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		c.metrics.RecordAPICall(r.op, "ok", elapsed)
		return payload, nil

	case r.authed && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden):
		c.metrics.RecordAPICall(r.op, "unauthorized", elapsed)
		c.clearUnauthorized(r.op, resp.StatusCode)
		return nil, errors.Wrapf(ErrUnauthorized, "%s %s returned %d", r.method, r.path, resp.StatusCode)

	default:
		c.metrics.RecordAPICall(r.op, "http_error", elapsed)
		apiErr := &APIError{Status: resp.StatusCode, Message: errorMessage(resp.StatusCode, payload)}
		log.Warn().Int("status", resp.StatusCode).Str("op", r.op).Str("message", apiErr.Message).Msg("remote api error")
		return nil, apiErr
	}
}

// reasonClearer is implemented by stores that label why a session was removed.
type reasonClearer interface {
	ClearFor(reason session.ClearReason) error
}

func (c *Client) clearUnauthorized(op string, status int) {
	var err error
	if rc, ok := c.store.(reasonClearer); ok {
		err = rc.ClearFor(session.ClearUnauthorized)
	} else {
		err = c.store.Clear()
	}
	event := log.Info()
	if err != nil {
		event = log.Error().Err(err)
	}
	event.Str("op", op).Int("status", status).Msg("session cleared after authorization failure")
}
