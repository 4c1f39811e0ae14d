package config

import "time"

// Config holds all configuration for the application.
type Config struct {
	APIBaseURL    string
	DBName        string
	MigrationsDir string
	ProfilePath   string
	Port          string
	WatchPoints   []string
	WatchInterval time.Duration
	Slack         SlackConfig
	Turso         TursoConfig
}

type SlackConfig struct {
	Token     string
	ChannelID string
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}
