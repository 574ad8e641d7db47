package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds process configuration gathered from the environment.
// A .env file in the working directory is honored when present.
type Config struct {
	DatabaseURL  string // DATABASE_URL; empty means the in-memory store
	OpenAIAPIKey string // OPENAI_API_KEY; empty disables extraction
	LogLevel     string // LOG_LEVEL, default "info"
	LogFormat    string // LOG_FORMAT: "console" (default) or "json"
}

func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),
		LogLevel:     os.Getenv("LOG_LEVEL"),
		LogFormat:    os.Getenv("LOG_FORMAT"),
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "console"
	}
	return cfg
}
