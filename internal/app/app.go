// Package app initializes all application components.
// app.go is the assembly point: database pool, repositories, services,
// handlers, the bot, the scheduler and the HTTP sidecar.
package app

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"

	"streakbot/internal/bot"
	"streakbot/internal/bot/filters"
	"streakbot/internal/config"
	"streakbot/internal/db/postgres"
	"streakbot/internal/features/admin"
	"streakbot/internal/features/broadcast"
	"streakbot/internal/features/members"
	"streakbot/internal/features/streak"
	"streakbot/internal/jobs"
	"streakbot/internal/metrics"
	"streakbot/internal/server"
)

// App holds all application components.
type App struct {
	Bot       *bot.Bot
	Scheduler *jobs.Scheduler
	Server    *server.Server
	DB        *pgxpool.Pool
	BotAPI    *tgbotapi.BotAPI
}

// New creates and wires the application. Initialization order matters —
// components depend on each other.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// === 1. Database ===
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection: %w", err)
	}

	if err := runMigrations(ctx, pool); err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}

	// === 2. Telegram Bot API ===
	botAPI, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("telegram API: %w", err)
	}
	botAPI.Debug = cfg.AppEnv == "development"
	log.Infof("Authorized as @%s", botAPI.Self.UserName)

	// === 3. Reference timezone and metrics ===
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// === 4. Repositories ===
	streakRepo := streak.NewRepository(pool)
	memberRepo := members.NewRepository(pool)
	configRepo := broadcast.NewRepository(pool)

	// === 5. Services ===
	engine := streak.NewEngine(loc, cfg.CheckinHour)
	streakService := streak.NewService(streakRepo, engine, collector)
	memberService := members.NewService(memberRepo)
	adminService := admin.NewService(cfg)

	send := func(chatID int64, text string) error {
		_, err := botAPI.Send(tgbotapi.NewMessage(chatID, text))
		return err
	}
	broadcastService := broadcast.NewService(
		configRepo, send, streakService.Countdown, cfg.CheckinHour, collector,
	)

	// === 6. Handlers ===
	streakHandler := streak.NewHandler(streakService, memberService, botAPI, cfg)
	broadcastHandler := broadcast.NewHandler(broadcastService, botAPI)
	adminHandler := admin.NewHandler(adminService, botAPI)

	// === 7. Filters ===
	relayFilter := filters.NewRelayFilter(cfg.RelayBotID, memberService)

	// === 8. Bot, scheduler, HTTP sidecar ===
	b := bot.New(
		botAPI, cfg,
		memberService, adminService,
		streakHandler, broadcastHandler, adminHandler,
		relayFilter,
	)
	scheduler := jobs.NewScheduler(loc, broadcastService, cfg.BroadcastHour, cfg.ReminderHour)
	srv := server.New(cfg.HTTPPort, pool, registry)

	return &App{
		Bot:       b,
		Scheduler: scheduler,
		Server:    srv,
		DB:        pool,
		BotAPI:    botAPI,
	}, nil
}

// runMigrations applies all SQL migrations in order.
func runMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	if err := postgres.InitMigrations(ctx, pool); err != nil {
		return err
	}

	migrations := []struct {
		version int
		sql     string
	}{
		{1, migration001Streaks},
		{2, migration002ServerConfig},
		{3, migration003Members},
	}

	for _, m := range migrations {
		if err := postgres.ExecMigrationSQL(ctx, pool, m.version, m.sql); err != nil {
			return fmt.Errorf("migration %d: %w", m.version, err)
		}
		log.Infof("Migration %d applied", m.version)
	}

	return nil
}

// SQL migrations are embedded in the binary to keep deployment to a
// single artifact.

var migration001Streaks = `
CREATE TABLE IF NOT EXISTS streaks (
    user_id TEXT PRIMARY KEY,
    streak INTEGER NOT NULL DEFAULT 0 CHECK (streak >= 0),
    last_updated TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_streaks_streak ON streaks(streak DESC);
`

var migration002ServerConfig = `
CREATE TABLE IF NOT EXISTS server_config (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    channel_id BIGINT NOT NULL,
    ping_tag TEXT NOT NULL
);
`

var migration003Members = `
CREATE TABLE IF NOT EXISTS members (
    user_id BIGINT PRIMARY KEY,
    username VARCHAR(255) NOT NULL DEFAULT '',
    first_name VARCHAR(255) NOT NULL DEFAULT '',
    last_name VARCHAR(255) NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ DEFAULT NOW(),
    updated_at TIMESTAMPTZ DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_members_username ON members(username);
`
