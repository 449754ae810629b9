package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/instihub/instihub-backend/internal/config"
	"github.com/instihub/instihub-backend/internal/database"
	"github.com/instihub/instihub-backend/internal/handler"
	"github.com/instihub/instihub-backend/internal/logger"
	"github.com/instihub/instihub-backend/internal/middleware"
	"github.com/instihub/instihub-backend/internal/repository"
	"github.com/instihub/instihub-backend/internal/router"
	"github.com/instihub/instihub-backend/internal/service"
	"github.com/instihub/instihub-backend/internal/validator"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting InstiHub Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis (optional) ───────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	if rdb != nil {
		defer rdb.Close()
	}

	// ─── Object Storage Client (optional, probes only) ─────────────────
	storageClient, err := database.NewStorageClient(ctx, cfg, log)
	if err != nil {
		log.Warn().Err(err).Msg("Object storage client unavailable, probe disabled")
	}

	// ─── Initialize Repositories ───────────────────────────────────────
	institutionRepo := repository.NewInstitutionRepository(pool)
	pendingRepo := repository.NewPendingInstitutionRepository(pool)
	platformAdminRepo := repository.NewPlatformAdminRepository(pool)
	instructorRepo := repository.NewInstructorRepository(pool)
	studentRepo := repository.NewStudentRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg)
	resolver := service.NewIdentityResolver(authService, institutionRepo, instructorRepo, studentRepo)
	institutionService := service.NewInstitutionService(institutionRepo, pendingRepo, authService, log)
	accessService := service.NewAccessService(institutionRepo, platformAdminRepo, authService, log)
	platformService := service.NewPlatformAdminService(platformAdminRepo, authService)
	systemService := service.NewSystemService(pool, rdb, storageClient, cfg, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:        handler.NewAuthHandler(authService, resolver, cfg),
		Admin:       handler.NewAdminHandler(authService, platformService, institutionService, systemService),
		Institution: handler.NewInstitutionHandler(institutionService),
		Access:      handler.NewAccessHandler(accessService),
		SystemWS:    handler.NewSystemWSHandler(systemService, log, cfg.AllowedOrigins),
	}

	// ─── Rate Limiter ─────────────────────────────────────────────────
	// Falls back to a no-op limiter when Redis is not configured.
	limiter := middleware.NewRateLimiter(rdb, cfg.RateLimitRequests, cfg.RateLimitWindow, log)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, limiter, handlers, cfg, log)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
