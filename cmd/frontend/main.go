package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chartcyanvas/backend/internal/config"
	"github.com/chartcyanvas/backend/internal/frontend"
	"github.com/chartcyanvas/backend/internal/logging"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel)

	client, err := frontend.NewClient(cfg.BackendURL, cfg.FrontendCacheTTL)
	if err != nil {
		slog.Error("backend client init failed", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	translator, err := frontend.NewTranslator()
	if err != nil {
		slog.Error("failed to load translations", "error", err)
		os.Exit(1)
	}
	pages, err := frontend.NewPages()
	if err != nil {
		slog.Error("failed to parse templates", "error", err)
		os.Exit(1)
	}

	srv := frontend.NewServer(cfg.BackendURL, client, translator, pages)
	app := fiber.New(fiber.Config{ErrorHandler: srv.ErrorHandler})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	srv.Register(app)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("frontend starting", "port", cfg.FrontendPort, "backend", cfg.BackendURL, "host", cfg.Host)
		if err := app.Listen(":" + cfg.FrontendPort); err != nil {
			slog.Error("frontend failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down frontend...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("frontend shutdown error", "error", err)
	}
	slog.Info("frontend stopped")
}
