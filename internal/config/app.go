package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/poolmart/poolbot/pkg/log"
)

type AppConfig struct {
	// Transport flags
	EnableTelegram bool `env:"ENABLE_TELEGRAM" envDefault:"true"`
	EnableHTTP     bool `env:"ENABLE_HTTP" envDefault:"true"`

	// Conversation history kept per session, in turns.
	HistoryLimit int `env:"HISTORY_LIMIT" envDefault:"10"`

	DatabasePath string `env:"POOLBOT_DB_PATH" envDefault:"poolbot.db"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	return c
}
