// Package main — bot entry point.
// Loads configuration, initializes the application and runs it.
// Supports graceful shutdown on SIGINT/SIGTERM.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"streakbot/internal/app"
	"streakbot/internal/config"
)

func main() {
	setupLogging()

	// Local runs keep their secrets in .env; in Docker the environment
	// is already populated and the file is simply absent.
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file, using the process environment")
	}

	log.Info("=== Bot starting ===")

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}

	level, err := log.ParseLevel(cfg.AppLogLevel)
	if err == nil {
		log.SetLevel(level)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	application, err := app.New(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize application")
	}
	defer application.DB.Close()

	application.Scheduler.Start(ctx)
	defer application.Scheduler.Stop()

	// HTTP sidecar (keep-alive, health, metrics)
	go func() {
		if err := application.Server.Start(); err != nil {
			log.WithError(err).Error("HTTP sidecar stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go application.Bot.Start(ctx)

	log.Info("=== Bot ready ===")

	sig := <-quit
	log.Infof("Received %s, shutting down...", sig)

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := application.Server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("HTTP sidecar shutdown failed")
	}

	log.Info("=== Bot stopped ===")
}

// setupLogging configures the log format.
func setupLogging() {
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	log.SetOutput(os.Stdout)
	log.SetLevel(log.DebugLevel)
}
