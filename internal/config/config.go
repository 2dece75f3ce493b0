// Package config loads the bot configuration from environment
// variables. envconfig maps the variables onto the Config struct.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds ALL application settings.
type Config struct {
	// --- Telegram ---
	TelegramBotToken string `envconfig:"TELEGRAM_BOT_TOKEN" required:"true"`
	// Admin user ids allowed to run setup without a password login.
	AdminIDsRaw string  `envconfig:"ADMIN_IDS" default:""`
	AdminIDs    []int64 `envconfig:"-"` // filled manually from AdminIDsRaw
	// Optional id of a relay bot whose messages are scanned for
	// commands on behalf of the mentioned user. 0 disables the relay.
	RelayBotID int64 `envconfig:"RELAY_BOT_ID" default:"0"`

	// --- Database ---
	// Inside Docker "localhost" is almost always wrong; default to the
	// compose service name and override DB_HOST=localhost for local runs.
	DBHost     string `envconfig:"DB_HOST" default:"postgres"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"streakbot"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" default:"streakbot"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	DBMaxConns int32  `envconfig:"DB_MAX_CONNS" default:"25"`
	DBMinConns int32  `envconfig:"DB_MIN_CONNS" default:"5"`

	// --- Application ---
	AppEnv      string `envconfig:"APP_ENV" default:"development"`
	AppLogLevel string `envconfig:"APP_LOG_LEVEL" default:"debug"`

	// --- Streak windows ---
	// All window boundaries are computed in this one timezone,
	// independent of where any user lives.
	Timezone string `envconfig:"TIMEZONE" default:"Asia/Kolkata"`
	// Local hour of the daily check-in boundary.
	CheckinHour int `envconfig:"CHECKIN_HOUR" default:"21"`

	// --- Scheduled broadcasts ---
	// Local hour of the daily role-ping post.
	BroadcastHour int `envconfig:"BROADCAST_HOUR" default:"21"`
	// Local hour of the pre-window reminder.
	ReminderHour int `envconfig:"REMINDER_HOUR" default:"20"`

	// --- HTTP sidecar (health + metrics) ---
	HTTPPort int `envconfig:"PORT" default:"8000"`

	// --- Bot runtime ---
	// How many updates are processed in parallel. Without the cap a
	// goroutine per update leaks memory under flood.
	BotMaxInflight          int `envconfig:"BOT_MAX_INFLIGHT" default:"64"`
	BotUpdateTimeoutSeconds int `envconfig:"BOT_UPDATE_TIMEOUT_SECONDS" default:"60"`

	// --- Admin ---
	// Argon2id hash for /login; empty disables password login
	// (setup is then available to ADMIN_IDS only).
	AdminPasswordHash string `envconfig:"ADMIN_PASSWORD_HASH" default:""`

	// --- Rate limiting ---
	RateLimitRequests int           `envconfig:"RATE_LIMIT_REQUESTS" default:"10"`
	RateLimitWindow   time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`
}

// DatabaseDSN returns the PostgreSQL connection string.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

// Location loads the reference timezone. Fatal at startup if it does
// not resolve — window math in a wrong zone is worse than not starting.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("cannot load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func (c *Config) Validate() error {
	if c.CheckinHour < 0 || c.CheckinHour > 23 {
		return fmt.Errorf("CHECKIN_HOUR must be in 0..23, got %d", c.CheckinHour)
	}
	if c.BroadcastHour < 0 || c.BroadcastHour > 23 {
		return fmt.Errorf("BROADCAST_HOUR must be in 0..23, got %d", c.BroadcastHour)
	}
	if c.ReminderHour < 0 || c.ReminderHour > 23 {
		return fmt.Errorf("REMINDER_HOUR must be in 0..23, got %d", c.ReminderHour)
	}
	if c.BotMaxInflight <= 0 {
		return fmt.Errorf("BOT_MAX_INFLIGHT must be > 0")
	}
	if c.BotUpdateTimeoutSeconds <= 0 {
		return fmt.Errorf("BOT_UPDATE_TIMEOUT_SECONDS must be > 0")
	}
	if c.DBMaxConns <= 0 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("invalid DB_MIN_CONNS/DB_MAX_CONNS")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Load reads environment variables and fills the Config struct.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("cannot load configuration: %w", err)
	}

	ids, err := parseInt64CSV(cfg.AdminIDsRaw)
	if err != nil {
		return nil, fmt.Errorf("ADMIN_IDS parse: %w", err)
	}
	cfg.AdminIDs = ids

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func parseInt64CSV(s string) ([]int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		v, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad int64 %q: %w", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}
