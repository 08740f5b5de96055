package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	Discord DiscordConfig
	Redis   RedisConfig
	Content ContentConfig
	Session SessionConfig
}

// DiscordConfig holds Discord-specific configuration
type DiscordConfig struct {
	Token   string
	AppID   string
	GuildID string // Optional: for guild-specific commands
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// ContentConfig holds the content pack location
type ContentConfig struct {
	Dir string
}

// SessionConfig holds session and lobby tuning
type SessionConfig struct {
	IdleTimeout   time.Duration
	SweepInterval time.Duration
	PartySize     int
	VoteTTL       time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Discord: DiscordConfig{
			Token:   os.Getenv("DISCORD_TOKEN"),
			AppID:   os.Getenv("DISCORD_APP_ID"),
			GuildID: os.Getenv("DISCORD_GUILD_ID"),
		},
		Redis: RedisConfig{
			Addr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvAsIntOrDefault("REDIS_DB", 0),
		},
		Content: ContentConfig{
			Dir: getEnvOrDefault("CONTENT_DIR", "data"),
		},
		Session: SessionConfig{
			IdleTimeout:   getEnvAsDurationOrDefault("SESSION_IDLE_TIMEOUT", 45*time.Minute),
			SweepInterval: getEnvAsDurationOrDefault("SESSION_SWEEP_INTERVAL", time.Minute),
			PartySize:     getEnvAsIntOrDefault("PARTY_SIZE", 4),
			VoteTTL:       getEnvAsDurationOrDefault("LOBBY_VOTE_TTL", 10*time.Minute),
		},
	}

	if cfg.Discord.Token == "" {
		return nil, fmt.Errorf("DISCORD_TOKEN is required")
	}
	if cfg.Discord.AppID == "" {
		return nil, fmt.Errorf("DISCORD_APP_ID is required")
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
