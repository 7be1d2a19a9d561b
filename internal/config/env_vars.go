package config

import (
	"fmt"
	"strings"
)

type EnvVars struct {
	port     string
	appName  string
	env      string
	logLevel string
}

var _ EnvConfig = EnvVars{}

func (e EnvVars) GetPort() string {
	port := e.port
	if port == "" {
		port = "8080"
	}
	if !strings.HasPrefix(port, ":") {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (e EnvVars) GetAppName() string {
	if e.appName == "" {
		return "Nexus"
	}
	return e.appName
}

func (e EnvVars) GetEnv() string {
	if e.env == "" {
		return "DEV"
	}
	return strings.ToUpper(e.env)
}

func (e EnvVars) GetLogLevel() string {
	if e.logLevel == "" {
		return "info"
	}
	return e.logLevel
}
