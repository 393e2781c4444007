package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/portfolio-api/internal/api"
	"github.com/portfolio-api/internal/config"
	"github.com/portfolio-api/internal/database"
	"github.com/portfolio-api/internal/mailer"
	"github.com/portfolio-api/internal/repository"
	"github.com/portfolio-api/internal/service"
	"github.com/portfolio-api/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		// logger settings come from the config, fall back to defaults
		log := logger.New(config.LogConfig{Level: "info", Format: "json"})
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize logger
	log := logger.New(cfg.Log)
	log.Info().Str("driver", cfg.Database.Driver).Msg("Starting Portfolio API server...")

	// Connect to the store
	store, err := database.Open(context.Background(), &cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	// Run migrations or ensure indexes
	if err := store.Prepare(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to prepare database")
	}

	// Initialize repositories
	repos, err := repository.New(store)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize repositories")
	}

	// Initialize services
	services := service.NewServices(repos, mailer.NewLogMailer(log), cfg, log)

	if cfg.Auth.JWTSecret == "" {
		log.Warn().Msg("ADMIN_JWT_SECRET is not set, write routes are open")
	}

	// Initialize router
	if cfg.Log.Format != "pretty" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(services, store, cfg, log)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	if err := store.Close(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to close database")
	}

	log.Info().Msg("Server exited gracefully")
}
