package config

import "time"

type SessionConfig interface {
	GetSessionDir() string
	GetSessionSecret() string
	GetSessionDefaultTTL() time.Duration
}

type Session struct {
	dir        string
	secret     string
	defaultTTL time.Duration
}

var _ SessionConfig = Session{}

// GetSessionDir is where the durable session tier keeps its files
func (s Session) GetSessionDir() string {
	return s.dir
}

// GetSessionSecret seals durable session files when non-empty
func (s Session) GetSessionSecret() string {
	return s.secret
}

// GetSessionDefaultTTL is used when the login response carries no usable expiry
func (s Session) GetSessionDefaultTTL() time.Duration {
	return s.defaultTTL
}
