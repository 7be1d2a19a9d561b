package config

import "time"

type APIConfig interface {
	GetAPIBaseURL() string
	GetAPIKey() string
	GetHTTPTimeout() time.Duration
	GetProbeTimeout() time.Duration
}

type API struct {
	baseURL      string
	apiKey       string
	httpTimeout  time.Duration
	probeTimeout time.Duration
}

var _ APIConfig = API{}

// GetAPIBaseURL returns the remote API root without a trailing slash (e.g. "https://host/api")
func (a API) GetAPIBaseURL() string {
	return a.baseURL
}

// GetAPIKey returns the key sent on the login call only
func (a API) GetAPIKey() string {
	return a.apiKey
}

func (a API) GetHTTPTimeout() time.Duration {
	return a.httpTimeout
}

func (a API) GetProbeTimeout() time.Duration {
	return a.probeTimeout
}
