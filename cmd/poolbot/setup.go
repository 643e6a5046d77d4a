package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"github.com/poolmart/poolbot/internal/backend"
	"github.com/poolmart/poolbot/internal/classifier"
	"github.com/poolmart/poolbot/internal/config"
	"github.com/poolmart/poolbot/internal/coordinator"
	"github.com/poolmart/poolbot/internal/core"
	"github.com/poolmart/poolbot/internal/llm"
	"github.com/poolmart/poolbot/internal/responder"
	"github.com/poolmart/poolbot/internal/scope"
	"github.com/poolmart/poolbot/internal/service/chat"
	"github.com/poolmart/poolbot/internal/storage/sqlite"
	"github.com/poolmart/poolbot/internal/transport/httpapi"
	"github.com/poolmart/poolbot/internal/transport/telegram"
	"github.com/poolmart/poolbot/pkg/cache"
	"github.com/poolmart/poolbot/pkg/log"
	"github.com/poolmart/poolbot/pkg/srv"
)

func NewServices(ctx context.Context) []srv.Service {
	logger := log.FromCtx(ctx)
	services := make([]srv.Service, 0)

	initEnv(ctx)

	// 1. Configuration
	appCfg := config.NewAppConfig(ctx)
	backendCfg := config.NewBackendConfig(ctx)
	llmCfg := config.NewLLMConfig(ctx)

	// 2. Storage
	db, err := sqlite.NewDB(ctx, appCfg.DatabasePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	services = append(services, srv.NewCleanup(db.Close))
	history := sqlite.NewHistory(db)

	// 3. Domain API clients, sharing one cache
	client := backend.NewClient(backendCfg, nil)
	responseCache := cache.New()
	products := backend.NewProductClient(client, responseCache)
	stores := backend.NewStoreClient(client, responseCache)
	pricing := backend.NewPricingClient(client, responseCache)

	probeBackend(ctx, client)

	// 4. Generator
	gen := llm.NewOpenAI(llmCfg)

	// 5. Query pipeline
	cls := classifier.New(gen)
	gate := scope.NewGate(cls)
	responders := map[core.Category]responder.Responder{
		core.CategoryProductSearch:   responder.NewProduct(gen, products),
		core.CategoryStoreLocation:   responder.NewStore(gen, stores, responder.NewGeocoder(gen)),
		core.CategoryPricing:         responder.NewPricing(gen, pricing),
		core.CategoryTechnicalAdvice: responder.NewAdvisor(gen),
	}
	coord := coordinator.New(gate, cls, responders, gen)
	service := chat.New(coord, history, appCfg.HistoryLimit)

	// 6. Transports
	services = append(services, newTransports(ctx, appCfg, service)...)

	return services
}

func newTransports(ctx context.Context, cfg *config.AppConfig, service *chat.Chat) []srv.Service {
	logger := log.FromCtx(ctx)
	var services []srv.Service

	if cfg.EnableTelegram {
		tgCfg := config.NewTelegramConfig(ctx)
		bot, err := telegram.NewBot(ctx, tgCfg, service)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize telegram bot")
		}
		services = append(services, bot)
	}

	if cfg.EnableHTTP {
		httpCfg := config.NewHTTPConfig(ctx)
		services = append(services, httpapi.NewServer(ctx, httpCfg, service, debug))
	}

	if len(services) == 0 {
		logger.Fatal().Msg("no transport enabled, set ENABLE_TELEGRAM or ENABLE_HTTP")
	}
	return services
}

// probeBackend checks the domain API once at startup. A failure is worth a
// warning, not a refusal to start; the API may come up later.
func probeBackend(ctx context.Context, client *backend.Client) {
	if _, err := client.Health(ctx); err != nil {
		log.FromCtx(ctx).Warn().Err(err).Msg("domain API health probe failed")
		return
	}
	log.FromCtx(ctx).Info().Msg("domain API is healthy")
}

func initEnv(ctx context.Context) {
	logger := log.FromCtx(ctx)

	if _, err := os.Stat(".env"); err != nil {
		return
	}

	if err := godotenv.Load(); err != nil {
		logger.Warn().Err(err).Msg("failed to load .env file")
		return
	}
	logger.Debug().Msg("loaded .env file")
}
