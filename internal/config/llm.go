package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/poolmart/poolbot/pkg/log"
)

type LLMConfig struct {
	APIKey      string  `env:"OPENAI_API_KEY,required,notEmpty"`
	Model       string  `env:"OPENAI_MODEL" envDefault:"gpt-4o"`
	BaseURL     string  `env:"OPENAI_BASE_URL"`
	Temperature float64 `env:"LLM_TEMPERATURE" envDefault:"0.7"`
	MaxTokens   int     `env:"LLM_MAX_TOKENS" envDefault:"1000"`
}

func NewLLMConfig(ctx context.Context) *LLMConfig {
	c := &LLMConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse LLM config")
	}
	return c
}
