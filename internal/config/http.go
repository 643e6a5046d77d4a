package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/poolmart/poolbot/pkg/log"
)

type HTTPConfig struct {
	ListenAddr string `env:"HTTP_LISTEN_ADDR" envDefault:":8000"`
}

func NewHTTPConfig(ctx context.Context) *HTTPConfig {
	c := &HTTPConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse HTTP config")
	}
	return c
}
