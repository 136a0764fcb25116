// Package app wires configuration, adapters, services and the HTTP server
// into a runnable application.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/drag2anki/backend/internal/adapter/anki"
	"github.com/drag2anki/backend/internal/adapter/hanja"
	"github.com/drag2anki/backend/internal/adapter/postgres"
	"github.com/drag2anki/backend/internal/adapter/postgres/kv"
	"github.com/drag2anki/backend/internal/adapter/provider/deepl"
	"github.com/drag2anki/backend/internal/adapter/provider/jisho"
	"github.com/drag2anki/backend/internal/adapter/provider/kanjiapi"
	"github.com/drag2anki/backend/internal/adapter/provider/openai"
	"github.com/drag2anki/backend/internal/cache"
	"github.com/drag2anki/backend/internal/config"
	"github.com/drag2anki/backend/internal/morph"
	"github.com/drag2anki/backend/internal/service/card"
	"github.com/drag2anki/backend/internal/service/resolver"
	"github.com/drag2anki/backend/internal/transport/middleware"
	"github.com/drag2anki/backend/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, builds the
// adapters and services, and serves HTTP until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.Bool("shared_store", cfg.Database.SharedStoreEnabled()),
	)

	var pool *pgxpool.Pool
	if cfg.Database.SharedStoreEnabled() {
		pool, err = postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("app: connect shared store: %w", err)
		}
		defer pool.Close()
	}

	local := cache.NewLocal(cfg.Cache.TTL)
	var entryCache *cache.Tiered
	if pool != nil {
		entryCache = cache.NewTiered(local, kv.New(pool), logger)
	} else {
		entryCache = cache.NewTiered(local, nil, logger)
	}

	analyzer, err := morph.NewAnalyzer()
	if err != nil {
		return fmt.Errorf("app: init morphological analyzer: %w", err)
	}

	glosses, err := hanja.NewStore(cfg.Hanja.GlossPath, cfg.Hanja.VariantPath, logger)
	if err != nil {
		return fmt.Errorf("app: load hanja datasets: %w", err)
	}

	dict := jisho.NewProviderWithURL(cfg.Providers.Jisho.BaseURL, logger)
	chars := kanjiapi.NewProviderWithURL(cfg.Providers.KanjiAPI.BaseURL, logger)
	gen := openai.NewProvider(openai.Config{
		BaseURL:   cfg.Providers.OpenAI.BaseURL,
		APIKey:    cfg.Providers.OpenAI.APIKey,
		Model:     cfg.Providers.OpenAI.Model,
		MaxTokens: cfg.Providers.OpenAI.MaxTokens,
	}, logger)
	translate := deepl.NewProvider(deepl.Config{
		BaseURL:    cfg.Providers.DeepL.BaseURL,
		APIKey:     cfg.Providers.DeepL.APIKey,
		TargetLang: cfg.Providers.DeepL.TargetLang,
	}, logger)

	store := anki.NewGateway(cfg.Anki.URL, logger)

	resolveSvc := resolver.NewService(logger, analyzer, entryCache, dict, chars, gen, translate, glosses)
	cardSvc := card.NewService(logger, store, cfg.Anki)

	resolveHandler := rest.NewResolveHandler(resolveSvc, logger)
	cardsHandler := rest.NewCardsHandler(resolveSvc, cardSvc, logger)

	var healthHandler *rest.HealthHandler
	if pool != nil {
		healthHandler = rest.NewHealthHandler(pool, cardSvc, BuildVersion())
	} else {
		healthHandler = rest.NewHealthHandler(nil, cardSvc, BuildVersion())
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/resolve", resolveHandler.Resolve)
	mux.HandleFunc("POST /v1/cards", cardsHandler.Save)
	mux.HandleFunc("POST /v1/cards/components", cardsHandler.SaveComponent)
	mux.HandleFunc("GET /v1/decks", cardsHandler.Decks)
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.HandleFunc("GET /health/live", healthHandler.Live)
	mux.HandleFunc("GET /health/ready", healthHandler.Ready)

	handler := middleware.Chain(
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Recovery(logger),
		middleware.CORS(cfg.CORS),
	)(mux)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("app: serve: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down", slog.Duration("timeout", cfg.Server.ShutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("app: shutdown: %w", err)
	}

	return nil
}
