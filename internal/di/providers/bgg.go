package providers

import (
	"github.com/samber/do/v2"

	"github.com/gameshelfapp/gameshelf-server/internal/bgg"
	"github.com/gameshelfapp/gameshelf-server/internal/config"
	"github.com/gameshelfapp/gameshelf-server/internal/logger"
)

// ProvideBGGClient provides the BoardGameGeek XML API client.
func ProvideBGGClient(i do.Injector) (*bgg.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	client := bgg.New(cfg.BGG, log.Logger)

	log.Info("BGG client configured",
		"base_url", cfg.BGG.BaseURL,
		"request_interval", cfg.BGG.RequestInterval,
	)

	return client, nil
}
