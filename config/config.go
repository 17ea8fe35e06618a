// Package config loads application configuration from the environment
package config

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config stores all configuration of the application
type Config struct {
	HTTPPort string `envconfig:"HTTP_PORT" default:"8080"`

	// PocketBase external server
	PocketBaseURL   string `envconfig:"POCKETBASE_URL" default:"http://127.0.0.1:8090"`
	PocketBaseToken string `envconfig:"POCKETBASE_TOKEN"`

	// Redis (optional; empty disables durable history and location cache)
	RedisAddr string `envconfig:"REDIS_ADDR"`

	// IP geolocation service for the best-effort network cross-check
	// (empty disables the check)
	IPGeoURL string `envconfig:"IPGEO_URL" default:"https://ipapi.co/json/"`

	// Telegram bot
	TelegramBotToken string `envconfig:"TELEGRAM_BOT_TOKEN"`
	AuthorizedChatID string `envconfig:"AUTHORIZED_CHAT_ID"`

	// Attendance policy
	GraceMinutes        int `envconfig:"GRACE_MINUTES" default:"15"`
	ClockOutLeadMinutes int `envconfig:"CLOCK_OUT_LEAD_MINUTES" default:"30"`
}

// LoadConfig loads configuration, reading a .env file when present.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env vars: %w", err)
	}
	return &cfg, nil
}
