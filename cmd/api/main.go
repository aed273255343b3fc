package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	server "github.com/koregy/sejong-eats-chatbot/internal/adapters/http_server"
	"github.com/koregy/sejong-eats-chatbot/internal/adapters/llm"
	"github.com/koregy/sejong-eats-chatbot/internal/adapters/observability"
	"github.com/koregy/sejong-eats-chatbot/internal/app"
	"github.com/koregy/sejong-eats-chatbot/internal/shared"
	"github.com/koregy/sejong-eats-chatbot/internal/storage"
)

// generation picks the capability variant once for the process lifetime.
func generation(cfg shared.Config) app.Generation {
	if cfg.LLMKey == "" {
		return app.Unavailable()
	}
	client, err := llm.New(llm.Config{
		APIKey:  cfg.LLMKey,
		BaseURL: cfg.LLMBaseURL,
		Model:   cfg.LLMModel,
		RPS:     cfg.LLMRPS,
		Timeout: cfg.LLMTimeout,
	})
	if err != nil {
		log.Warn().Err(err).Msg("language model gateway disabled")
		return app.Unavailable()
	}
	log.Info().Str("model", cfg.LLMModel).Msg("language model gateway ready")
	return app.Available(client, cfg.LLMTimeout)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	store, closeStore, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.CatalogDriver).Msg("catalog open failed")
	}
	defer closeStore()

	// deps
	gen := generation(cfg)
	search := app.NewSearchEngine(store)
	chat := app.NewChatResolver(app.NewKeywordExtractor(gen), search, gen)
	details := app.NewDetailService(store)

	// http
	srv := server.New(server.Options{CORSOrigins: cfg.CORSOrigins, RequestTimeout: cfg.RequestTimeout})
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Chat: chat, Details: details})

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("http shutdown failed")
		}
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("API stopped")
}
