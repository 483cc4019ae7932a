// Package factory selects the persistence driver once, at startup, based on
// the configuration probe. Stores receive the result via constructor
// arguments; nothing reads a process-wide singleton.
package factory

import (
	"github.com/rs/zerolog"

	"github.com/workroom-hq/workroom-go/internal/config"
	"github.com/workroom-hq/workroom-go/internal/repo"
	"github.com/workroom-hq/workroom-go/internal/repo/inmem"
	"github.com/workroom-hq/workroom-go/internal/repo/rest"
	"github.com/workroom-hq/workroom-go/internal/session"
)

// NewStore returns the REST-backed store when a backend is configured and
// the in-memory fallback otherwise. The choice never changes at runtime.
func NewStore(cfg *config.Config, log zerolog.Logger) repo.Store {
	if !cfg.BackendConfigured() {
		log.Warn().Msg("no backend configured; using in-memory store")
		return inmem.New(log, session.Static(""))
	}
	sess := session.FromBearer(cfg.APIKey)
	log.Info().Str("base_url", cfg.BaseURL).Msg("using REST store")
	return rest.New(cfg, log, sess)
}
