package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/poolmart/poolbot/pkg/log"
)

// BackendConfig describes the product/store/pricing REST API and the fixed
// tenant identity sent with every request.
type BackendConfig struct {
	BaseURL string `env:"BACKEND_BASE_URL,required,notEmpty"`

	CustomerID     string `env:"CUSTOMER_ID" envDefault:"HPTA"`
	BranchCode     string `env:"BRANCH_CODE" envDefault:"BELHARR"`
	ShipToSequence string `env:"SHIP_TO_SEQUENCE" envDefault:"1"`
}

func NewBackendConfig(ctx context.Context) *BackendConfig {
	c := &BackendConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Backend config")
	}
	return c
}
