package main

import (
	"RestaurantRoulette/config/database"
	"RestaurantRoulette/config/environment"
	"RestaurantRoulette/logging"
	"RestaurantRoulette/middleware"
	v1 "RestaurantRoulette/routes/v1"
	"RestaurantRoulette/services"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func main() {
	cfg, err := environment.Load()
	if err != nil {
		logging.Error().Err(err).Msg("failed to load configuration")
		os.Exit(1)
	}
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, closeStores, err := openStores(ctx, cfg.Storage)
	if err != nil {
		logging.Error().Err(err).Str("driver", cfg.Storage.Driver).Msg("failed to open session store")
		os.Exit(1)
	}
	defer closeStores()

	completer, err := newCompleter(ctx, cfg.Upstream)
	if err != nil {
		logging.Error().Err(err).Str("provider", cfg.Upstream.Provider).Msg("failed to create completion client")
		os.Exit(1)
	}

	secret := cfg.Session.Secret
	if secret == "" {
		secret = uuid.NewString()
		logging.Warn().Msg("SESSION_SECRET not set, session tokens will not survive a restart")
	}
	tokens, err := middleware.NewSessionTokens(secret, 0)
	if err != nil {
		logging.Error().Err(err).Msg("failed to create session tokens")
		os.Exit(1)
	}

	sessionService := services.NewSessionService(
		services.NewSuggestionService(completer),
		stores,
		cfg.Session.IdleTTL,
		services.SelectionConfig{
			ConfirmDebounce:   cfg.Session.ConfirmDebounce,
			BackgroundTimeout: cfg.Upstream.Timeout,
		},
	)
	defer sessionService.Close()

	// Setup Gin router
	gin.SetMode(cfg.Server.GinMode)
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())

	// Pasang middleware error handler
	r.Use(middleware.ErrorHandlerMiddleware())

	// CORS Middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", middleware.SessionHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.SessionHeader},
		AllowCredentials: !containsWildcard(cfg.Server.CORSOrigins),
		MaxAge:           12 * time.Hour,
	}))

	// Register all routes
	v1.RegisterRoutes(r, sessionService, tokens)

	srv := &http.Server{Addr: ":" + cfg.Server.Port, Handler: r}
	go func() {
		logging.Info().Str("port", cfg.Server.Port).Msg("🚀 Server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func openStores(ctx context.Context, cfg environment.StorageConfig) (services.StoreFactory, func(), error) {
	switch cfg.Driver {
	case "badger":
		db, err := database.OpenBadger(cfg.BadgerPath)
		if err != nil {
			return nil, nil, err
		}
		return services.NewBadgerStore(db), func() { _ = db.Close() }, nil
	case "firestore":
		client, err := database.InitFirestore(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return services.NewFirestoreStore(client), func() { _ = client.Close() }, nil
	}
	return services.NewMemoryStore(), func() {}, nil
}

func newCompleter(ctx context.Context, cfg environment.UpstreamConfig) (services.Completer, error) {
	var next services.Completer
	switch cfg.Provider {
	case "proxy":
		next = services.NewProxyCompleter(cfg.URL, cfg.APIKey, cfg.Timeout)
	case "openai":
		baseURL := cfg.URL
		if baseURL == environment.DefaultProxyURL {
			baseURL = ""
		}
		next = services.NewOpenAICompleter(cfg.APIKey, baseURL, cfg.Model)
	case "gemini":
		gemini, err := services.NewGeminiCompleter(ctx, cfg.APIKey, cfg.Model)
		if err != nil {
			return nil, err
		}
		next = gemini
	default:
		return nil, fmt.Errorf("unknown upstream provider %q", cfg.Provider)
	}
	return services.NewResilientCompleter(next, cfg.Provider, cfg.RatePerSec, cfg.Burst), nil
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
