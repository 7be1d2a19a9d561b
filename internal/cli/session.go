package cli

import (
	"errors"

	"github.com/jrsteele09/nexus-console/internal/config"
	"github.com/jrsteele09/nexus-console/nexusapi"
	"github.com/jrsteele09/nexus-console/session"
	"github.com/rs/zerolog/log"
)

// errSessionExpired is what every command reports once the API session is gone
var errSessionExpired = errors.New("session expired, run `nexus login`")

// store is the CLI's session store. The record survives between invocations in the
// sealed file tier under the fixed storage key.
func store(cfg config.SessionConfig) (*session.TieredStore, error) {
	if cfg.GetSessionDir() == "" {
		return nil, errors.New("SESSION_DIR must be set")
	}
	return session.NewTieredStore(session.StorageKey,
		session.NewMemoryTier(cfg.GetSessionDefaultTTL()),
		session.NewFileTier(cfg.GetSessionDir(), cfg.GetSessionSecret()),
		session.WithClearHook(func(reason session.ClearReason) {
			log.Debug().Str("reason", string(reason)).Msg("cli session cleared")
		}),
	), nil
}

func (a *app) client() (*nexusapi.Client, error) {
	s, err := store(a.cfg)
	if err != nil {
		return nil, err
	}
	return nexusapi.NewClient(a.cfg, s, nexusapi.WithSessionTTL(a.cfg.GetSessionDefaultTTL())), nil
}

// cliError turns an expired session into the login hint.
func cliError(err error) error {
	if errors.Is(err, nexusapi.ErrUnauthorized) {
		return errSessionExpired
	}
	return err
}
