package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/chartcyanvas/backend/internal/config"
	"github.com/chartcyanvas/backend/internal/database"
	"github.com/chartcyanvas/backend/internal/discord"
	"github.com/chartcyanvas/backend/internal/handlers"
	"github.com/chartcyanvas/backend/internal/logging"
	"github.com/chartcyanvas/backend/internal/middleware"
	"github.com/chartcyanvas/backend/internal/routes"
	"github.com/chartcyanvas/backend/internal/services"
	"github.com/chartcyanvas/backend/internal/storage"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	cfg := config.Load()

	// Structured logging (JSON to stdout)
	stdout := logging.Setup(cfg.LogLevel)

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.MigrateShared(); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(database.DB, 5*time.Second)
	slog.SetDefault(slog.New(logging.NewMultiHandler(stdout, pgLogHandler)))

	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cfg.LogRetention, cleanupDone)

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStartup()

	if cfg.AdminHandle != "" {
		if err := database.PromoteAdmin(startupCtx, database.DB, cfg.AdminHandle); err != nil {
			slog.Error("admin promotion failed", "admin_handle", cfg.AdminHandle, "error", err)
		}
	}

	// Integrations
	var notifier services.Notifier
	if cfg.DiscordEnabled() {
		notifier = discord.NewClient(cfg.DiscordToken, discord.WithBaseURL(cfg.DiscordAPIURL))
		slog.Info("discord notifications enabled", "channel", cfg.DiscordWarningChannelID)
	} else {
		slog.Warn("discord notifications disabled: DISCORD_TOKEN or DISCORD_WARNING_CHANNEL_ID not set")
	}

	var objects services.ObjectRemover
	if cfg.S3Enabled() {
		store, err := storage.NewMinio(startupCtx, storage.MinioConfig{
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			UseSSL:          cfg.S3UseSSL,
		})
		if err != nil {
			slog.Error("object storage unavailable", "error", err)
			os.Exit(1)
		}
		objects = store
	}

	// Services
	authService := services.NewAuthService(database.DB, cfg)
	userService := services.NewUserService(database.DB)
	chartService := services.NewChartService(database.DB)
	adminService := services.NewAdminService(database.DB, userService, notifier, objects, cfg.DiscordWarningChannelID)

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(routes.AppConfig(cfg))

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecurityHeaders())

	routes.Setup(app, cfg, authService, routes.Handlers{
		Health: handlers.NewHealthHandler(database.DB),
		User:   handlers.NewUserHandler(userService),
		Chart:  handlers.NewChartHandler(chartService),
		Admin:  handlers.NewAdminHandler(adminService),
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	adminService.Wait()
	close(cleanupDone)
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if sqlDB, err := database.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}
