package main

import (
	"context"
	log "log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	"lull/internal/config"
	"lull/internal/dashboard"
	dashboardHandler "lull/internal/dashboard/handler"
	"lull/internal/logging"
	"lull/internal/middleware"
)

const shutdownTimeout = 5 * time.Second

func main() {
	config.LoadEnvFile(os.Getenv("LULL_ENV_FILE"))

	closer := logging.Setup(logging.Options{
		Level: strings.ToLower(os.Getenv("LULL_LOG_LEVEL")),
		File:  os.Getenv("LULL_LOG_FILE"),
	})
	defer closer.Close()

	cfg, err := config.Load()
	if err != nil {
		log.Error("Invalid configuration", "err", err)
		os.Exit(1)
	}

	app := newApp(cfg, time.Now)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		log.Info("Shutting down dashboard")
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			log.Error("Shutdown failed", "err", err)
		}
	}()

	log.Info("Dashboard listening", "addr", cfg.DashboardAddr)
	if err := app.Listen(cfg.DashboardAddr); err != nil {
		log.Error("Error starting server", "err", err)
		os.Exit(1)
	}
}

func newApp(cfg config.Config, now func() time.Time) *fiber.App {
	app := config.NewFiber()
	middleware.New(cfg.DashboardRate, int(cfg.DashboardRate*2)).Use(app)

	store := dashboard.NewSeededStore(now)
	dashboardHandler.New(store, config.NewValidator()).Start(app)

	app.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message": "Server is Healthy!",
		})
	})
	return app
}
