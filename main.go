package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/isdelr/socialsync-api/internal/api"
	"github.com/isdelr/socialsync-api/internal/auth"
	"github.com/isdelr/socialsync-api/internal/config"
	"github.com/isdelr/socialsync-api/internal/database"
	"github.com/isdelr/socialsync-api/internal/jobs"
	"github.com/isdelr/socialsync-api/internal/logger"
	"github.com/isdelr/socialsync-api/internal/services"
	"github.com/isdelr/socialsync-api/internal/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}

// run owns every resource it opens so deferred cleanup happens before main
// exits on an error.
func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	logger.Init(cfg.LogLevel, !cfg.IsProduction())

	ctx := context.Background()

	// Set up database
	db, err := database.New(ctx, cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	tokens, err := auth.NewTokenManager([]byte(cfg.JWTSecret))
	if err != nil {
		return fmt.Errorf("initialize token manager: %w", err)
	}

	scheduler := jobs.NewScheduler()

	// Session revocation
	var revoker auth.Revoker = auth.NoopRevoker{}
	switch cfg.SessionRevocation {
	case config.RevocationRedis:
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("parse REDIS_URL: %w", err)
		}
		rdb := redis.NewClient(opts)
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Error().Err(err).Msg("Failed to close redis client")
			}
		}()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		revoker = auth.NewRedisRevoker(rdb)
	case config.RevocationDatabase:
		sqlRevoker := auth.NewSQLRevoker(db)
		if err := scheduler.AddPurge(jobs.PurgeSpec, "revoked_tokens", sqlRevoker); err != nil {
			return fmt.Errorf("schedule revocation purge: %w", err)
		}
		revoker = sqlRevoker
	}
	log.Info().Str("mode", cfg.SessionRevocation).Msg("Session revocation configured")

	// Set up WebSocket Hub
	hub := websocket.NewHub()
	go hub.Run()
	defer hub.Stop()

	// Object storage for uploads
	s3Client, err := services.NewS3Client(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize S3 client: %w", err)
	}

	// Set up services
	userService := services.NewUserService(db)
	eventService := services.NewEventService(db, hub)
	taskService := services.NewTaskService(db, eventService, hub)
	agendaService := services.NewAgendaService(eventService, taskService)
	uploadService := services.NewUploadService(s3Client, cfg)
	imageService := services.NewImageService(cfg.UnsplashAccessKey, "")
	if cfg.UnsplashAccessKey == "" {
		log.Warn().Msg("UNSPLASH_ACCESS_KEY not set, image search disabled")
	}

	scheduler.Start()
	defer scheduler.Stop()

	// Set up router
	router := api.NewRouter(api.Dependencies{
		Config:  cfg,
		DB:      db,
		Tokens:  tokens,
		Revoker: revoker,
		Hub:     hub,
		Users:   userService,
		Events:  eventService,
		Tasks:   taskService,
		Agenda:  agendaService,
		Uploads: uploadService,
		Images:  imageService,
	})

	// Set up server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	serveErr := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.ServerPort).Str("env", cfg.Environment).Msg("Server starting")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		return fmt.Errorf("listen: %w", err)
	case <-quit:
	}
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
	return nil
}
