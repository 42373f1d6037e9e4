package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/postdeck/scheduler-server-go/internal/config"
	"github.com/postdeck/scheduler-server-go/internal/handler"
	"github.com/postdeck/scheduler-server-go/internal/jobs"
	"github.com/postdeck/scheduler-server-go/internal/kvstore"
	"github.com/postdeck/scheduler-server-go/internal/middleware"
	"github.com/postdeck/scheduler-server-go/internal/repository"
	"github.com/postdeck/scheduler-server-go/internal/service"
	"github.com/postdeck/scheduler-server-go/internal/sse"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	setLogLevel(cfg.LogLevel)

	store, rdb, err := openStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.StorageBackend).Msg("failed to open store")
	}
	defer store.Close()
	log.Info().Str("backend", cfg.StorageBackend).Msg("store connected")

	broker := sse.NewBroker(rdb)
	defer broker.Close()

	sessionRepo := repository.NewSessionRepository(store)
	postRepo := repository.NewPostRepository(store)

	sessionService := service.NewSessionService(sessionRepo, broker)
	schedulerService := service.NewSchedulerService(postRepo, sessionService, broker)

	loadCtx, loadCancel := context.WithTimeout(context.Background(), config.StorePingTimeout)
	if err := sessionService.Load(loadCtx); err != nil {
		log.Fatal().Err(err).Msg("failed to load session state")
	}
	if err := schedulerService.Load(loadCtx); err != nil {
		log.Fatal().Err(err).Msg("failed to load post collection")
	}
	loadCancel()

	authMiddleware := middleware.NewAuthMiddleware(sessionService)
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitPerMin)
	bodyLimitMiddleware := middleware.NewBodyLimitMiddleware(cfg.MaxBodyBytes)

	sessionHandler := handler.NewSessionHandler(sessionService)
	postsHandler := handler.NewPostsHandler(schedulerService)
	eventsHandler := handler.NewEventsHandler(broker)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(config.ServerRequestTimeout))
	r.Use(bodyLimitMiddleware.Handler)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{
			"status":    "ok",
			"timestamp": time.Now().UnixMilli(),
		})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Use(rateLimitMiddleware.Handler)

		r.Mount("/session", sessionHandler.Routes())

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Handler)
			r.Mount("/accounts", sessionHandler.AccountRoutes())
			r.Mount("/posts", postsHandler.Routes())
			r.Get("/events", eventsHandler.ServeHTTP)
		})
	})

	overdueJob := jobs.NewOverdueJob(schedulerService, cfg.OverdueCheckInterval())
	overdueJob.Start()
	defer overdueJob.Stop()

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: 0,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.ServerShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

// openStore builds the configured key-value backend. The redis backend
// also hands its connection to the event broker for cross-process
// fan-out.
func openStore(cfg *config.Config) (kvstore.Store, *redis.Client, error) {
	switch cfg.StorageBackend {
	case config.BackendRedis:
		store, err := kvstore.NewRedisStore(cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Client(), nil
	case config.BackendPostgres:
		store, err := kvstore.NewPostgresStore(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return store, nil, nil
	default:
		return kvstore.NewMemoryStore(), nil, nil
	}
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
