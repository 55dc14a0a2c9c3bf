package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/attendance-portal/internal/config"
	"github.com/stemsi/attendance-portal/internal/database"
	"github.com/stemsi/attendance-portal/internal/handler"
	"github.com/stemsi/attendance-portal/internal/logger"
	"github.com/stemsi/attendance-portal/internal/middleware"
	"github.com/stemsi/attendance-portal/internal/router"
	"github.com/stemsi/attendance-portal/internal/service"
	"github.com/stemsi/attendance-portal/internal/validator"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.Setup("info", "pretty")
		bootLog.Fatal().Err(err).Msg("Invalid configuration")
	}

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("storage", cfg.StorageBackend).
		Str("timezone", cfg.AttendanceLocation.String()).
		Msg("Starting Attendance Portal")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect Storage ───────────────────────────────────────────────
	stores, err := database.OpenStores(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open storage")
	}
	defer stores.Close()

	// ─── Initialize Services ──────────────────────────────────────────
	tokens, err := service.NewTokenService(cfg.JWTSecret, cfg.JWTExpiry)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize token service")
	}
	authService := service.NewAuthService(tokens, stores.Users, stores.Sessions, cfg.BcryptCost, log)
	userService := service.NewUserService(stores.Users, log)
	attendanceService := service.NewAttendanceService(stores.Attendance, stores.Users, stores.Feed, cfg.AttendanceLocation, log)
	statsService := service.NewStatsService(stores.Attendance, stores.Users, cfg.AttendanceLocation)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:       handler.NewAuthHandler(authService, userService, log),
		Attendance: handler.NewAttendanceHandler(attendanceService, statsService, log),
		User:       handler.NewUserHandler(userService, log),
		Feed:       handler.NewFeedHandler(stores.Feed, attendanceService, log, cfg.AllowedOrigins),
	}

	// ─── Rate Limiters ─────────────────────────────────────────────────
	// Shared counters in Redis when available, per-process buckets otherwise.
	var limiters router.Limiters
	if cfg.RateLimitPerMinute > 0 {
		if stores.Redis != nil {
			limiters.Auth = middleware.NewRedisLimiter(stores.Redis, "auth", cfg.RateLimitPerMinute, time.Minute)
			limiters.Mark = middleware.NewRedisLimiter(stores.Redis, "mark", cfg.RateLimitPerMinute, time.Minute)
		} else {
			limiters.Auth = middleware.NewMemoryLimiter(ctx, cfg.RateLimitPerMinute, time.Minute)
			limiters.Mark = middleware.NewMemoryLimiter(ctx, cfg.RateLimitPerMinute, time.Minute)
		}
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, limiters, cfg, log)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
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

	// Stops limiter sweepers and ends feed subscriptions.
	cancel()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
