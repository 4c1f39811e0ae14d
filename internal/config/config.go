package config

import (
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Load reads configuration from environment variables and .env file.
// Everything the interactive client needs has a sensible default.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	getEnv := func(key, fallback string) string {
		if value, ok := os.LookupEnv(key); ok {
			return value
		}
		return fallback
	}

	cfg := Config{
		APIBaseURL:    getEnv("INSPORT_API_URL", "http://localhost:8080"),
		DBName:        getEnv("INSPORT_DB_NAME", "insport.db"),
		MigrationsDir: getEnv("INSPORT_MIGRATIONS_DIR", "./migrations"),
		ProfilePath:   getEnv("INSPORT_PROFILE", defaultProfilePath()),
		Port:          getEnv("PORT", "8090"),
		WatchPoints:   splitList(getEnv("INSPORT_WATCH_POINTS", "")),
		WatchInterval: parseDuration(getEnv("INSPORT_WATCH_INTERVAL", "30s")),
		Slack: SlackConfig{
			Token:     getEnv("SLACK_BOT_TOKEN", ""),
			ChannelID: getEnv("SLACK_CHANNEL_ID", ""),
		},
		Turso: TursoConfig{
			PrimaryURL: getEnv("TURSO_PRIMARY_URL", ""),
			AuthToken:  getEnv("TURSO_AUTH_TOKEN", ""),
		},
	}
	return cfg
}

// LoadDaemon is Load plus the variables the watcher daemon cannot run
// without. It fails fast when one is missing.
func LoadDaemon() Config {
	cfg := Load()

	require := func(key, value string) string {
		if value == "" {
			log.Fatalf("Error: Required environment variable %s is not set.", key)
		}
		return value
	}

	cfg.Slack.Token = require("SLACK_BOT_TOKEN", cfg.Slack.Token)
	cfg.Slack.ChannelID = require("SLACK_CHANNEL_ID", cfg.Slack.ChannelID)
	return cfg
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func parseDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Warn("Invalid duration, using 30s", "value", value)
		return 30 * time.Second
	}
	return d
}

func defaultProfilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "insport_profile.bin"
	}
	return home + "/.insport/profile.bin"
}
