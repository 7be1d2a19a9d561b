// Package cli holds the nexus command line: the web console server plus headless
// login, dashboard and probe commands that share the console's session store.
package cli

import (
	"os"
	"strings"

	"github.com/jrsteele09/nexus-console/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type app struct {
	loadConfig func() (config.Config, error)
	cfg        config.Config
}

// Option customises the root command.
type Option func(*app)

// WithConfig skips environment loading and uses cfg (primarily for testing)
func WithConfig(cfg config.Config) Option {
	return func(a *app) {
		a.loadConfig = func() (config.Config, error) { return cfg, nil }
	}
}

// NewRootCmd builds the nexus command tree.
func NewRootCmd(opts ...Option) *cobra.Command {
	a := &app{loadConfig: config.Load}
	for _, opt := range opts {
		opt(a)
	}

	rootCmd := &cobra.Command{
		Use:   "nexus",
		Short: "Nexus admin console",
		Long: `nexus runs the Nexus administration console in front of the Nexus REST API.

Besides the web console (serve), the same session store backs a few headless
commands for scripts and quick checks.

Examples:
  nexus serve
  nexus login --email admin@nexus.mx --password secreto
  nexus dashboard
  nexus probe`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			a.cfg = cfg
			setupLogging(cfg)
			return nil
		},
	}

	rootCmd.AddCommand(
		a.serveCmd(),
		a.loginCmd(),
		a.logoutCmd(),
		a.dashboardCmd(),
		a.probeCmd(),
	)
	return rootCmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

// setupLogging writes human readable logs in DEV and JSON elsewhere.
func setupLogging(cfg config.EnvConfig) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.GetLogLevel()))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.GetEnv() == "DEV" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
		return
	}
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
}
