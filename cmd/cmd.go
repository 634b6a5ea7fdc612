package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"locator-backend/internal/config"
	"locator-backend/internal/handlers"
	"locator-backend/internal/push"
	"locator-backend/internal/repository"
	"locator-backend/internal/services"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	defaultDispatchTimeout = 5 * time.Second
	defaultStaleAfter      = 10 * time.Minute
)

func Run() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	setupLogger(cfg.Log.Level)

	// Pick the user store
	var store services.UserStore
	if cfg.Database.Driver == "memory" {
		log.Warn().Msg("Using in-memory store, records will not survive a restart")
		store = repository.NewMemoryRepository()
	} else {
		db, err := pgxpool.New(context.Background(), cfg.Database.DSN())
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer db.Close()

		if err := db.Ping(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("Failed to ping database")
		}
		if err := repository.Migrate(context.Background(), db); err != nil {
			log.Fatal().Err(err).Msg("Failed to migrate database")
		}
		log.Info().Msg("Database connection established")

		store = repository.NewUserRepository(db)
	}

	// Build the push sender
	sender, err := push.NewSender(cfg.Push)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create push sender")
	}

	dispatchTimeout := defaultDispatchTimeout
	if cfg.Push.TimeoutSeconds > 0 {
		dispatchTimeout = time.Duration(cfg.Push.TimeoutSeconds) * time.Second
	}
	staleAfter := defaultStaleAfter
	if cfg.Push.StaleAfterSeconds > 0 {
		staleAfter = time.Duration(cfg.Push.StaleAfterSeconds) * time.Second
	}

	// Initialize services
	userService := services.NewUserService(store)
	locationService := services.NewLocationService(store)
	searchService := services.NewSearchService(store)
	notifyService := services.NewNotifyService(store, sender, dispatchTimeout, staleAfter)

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService, locationService, notifyService)
	searchHandler := handlers.NewSearchHandler(searchService)
	notifyHandler := handlers.NewNotifyHandler(notifyService)

	router := handlers.NewRouter(userHandler, searchHandler, notifyHandler)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Str("push_provider", cfg.Push.Provider).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// setupLogger configures zerolog logger
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

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
