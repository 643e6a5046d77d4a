package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/poolmart/poolbot/internal/config"
	"github.com/poolmart/poolbot/internal/core"
	"github.com/poolmart/poolbot/pkg/log"
)

// ChatService is the chat surface the HTTP handlers sit on.
type ChatService interface {
	Handle(ctx context.Context, sessionID, text string) string
	HandleStateless(ctx context.Context, text string, history []core.Message) string
}

// Server exposes the chat pipeline over HTTP: a health endpoint, a direct
// chat API, and a Telegram webhook alternative to long polling.
type Server struct {
	cfg     *config.HTTPConfig
	service ChatService
	srv     *http.Server

	// baseCtx carries the app logger into request handling.
	baseCtx context.Context
}

func NewServer(ctx context.Context, cfg *config.HTTPConfig, service ChatService, debug bool) *Server {
	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		cfg:     cfg,
		service: service,
		baseCtx: ctx,
	}

	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", s.handleHealth)
	router.POST("/api/chat", s.handleChat)
	router.POST("/webhook/telegram", s.handleTelegramWebhook)

	s.srv = &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Str("addr", s.cfg.ListenAddr).Msg("starting http server")
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
