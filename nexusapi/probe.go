package nexusapi

import (
	"context"
	"net/http"
)

// Ping issues an authenticated GET and reports only the status code. Unlike every
// other call it never clears the session: probes classify 401/403, they don't act on it.
func (c *Client) Ping(ctx context.Context, path string) (int, error) {
	hc := c.httpClient
	if authed, err := c.authorizedClient(); err == nil {
		hc = authed
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return 0, err
	}
	resp, err := hc.Do(req)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()
	return resp.StatusCode, nil
}
