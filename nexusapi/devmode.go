package nexusapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jrsteele09/nexus-console/devmode"
)

var (
	_ devmode.Resolver = (*Client)(nil)
	_ devmode.Toggler  = (*Client)(nil)
)

// DevModeRequests lists developer-mode requests. Envelope: {data: {rows, total, page, limit}}.
func (c *Client) DevModeRequests(ctx context.Context, limit int) (Page[devmode.Request], error) {
	path := "/dev-mode/requests"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	body, err := c.do(ctx, request{op: "devmode_requests", method: http.MethodGet, path: path, authed: true})
	if err != nil {
		return Page[devmode.Request]{}, err
	}
	return decodePage[devmode.Request]("devmode_requests", body)
}

// DevModeStatus reads one company's switch. Envelope: {data: DevModeStatus}.
func (c *Client) DevModeStatus(ctx context.Context, empresaID string) (devmode.Switch, error) {
	body, err := c.do(ctx, request{
		op:     "devmode_status",
		method: http.MethodGet,
		path:   "/dev-mode/status/" + url.PathEscape(empresaID),
		authed: true,
	})
	if err != nil {
		return devmode.Switch{}, err
	}
	return decodeData[devmode.Switch]("devmode_status", body)
}

// ToggleDevMode sets one company's switch. Envelope: {data: DevModeStatus}.
func (c *Client) ToggleDevMode(ctx context.Context, empresaID string, enabled bool) (devmode.Switch, error) {
	body, err := c.do(ctx, request{
		op:       "devmode_toggle",
		method:   http.MethodPut,
		path:     "/dev-mode/toggle/" + url.PathEscape(empresaID),
		jsonBody: map[string]bool{"enabled": enabled},
		authed:   true,
	})
	if err != nil {
		return devmode.Switch{}, err
	}
	return decodeData[devmode.Switch]("devmode_toggle", body)
}

// ResolveDevModeRequest approves or rejects a pending request. Envelope: {data: DevModeRequest}.
func (c *Client) ResolveDevModeRequest(ctx context.Context, id string, decision devmode.RequestStatus) (devmode.Request, error) {
	var action string
	switch decision {
	case devmode.StatusApproved:
		action = "approve"
	case devmode.StatusRejected:
		action = "reject"
	default:
		return devmode.Request{}, fmt.Errorf("invalid decision %q", decision)
	}
	body, err := c.do(ctx, request{
		op:     "devmode_" + action,
		method: http.MethodPost,
		path:   "/dev-mode/requests/" + url.PathEscape(id) + "/" + action,
		authed: true,
	})
	if err != nil {
		return devmode.Request{}, err
	}
	return decodeData[devmode.Request]("devmode_"+action, body)
}

// DeleteDevModeRequest removes a request. The API answers with an empty body.
func (c *Client) DeleteDevModeRequest(ctx context.Context, id string) error {
	body, err := c.do(ctx, request{
		op:     "devmode_delete",
		method: http.MethodDelete,
		path:   "/dev-mode/requests/" + url.PathEscape(id),
		authed: true,
	})
	if err != nil {
		return err
	}
	return decodeEmpty("devmode_delete", body)
}
