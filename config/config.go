package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration. Everything is loaded from
// environment variables; a local .env file is honoured when present.
type Config struct {
	Port string

	DB DBConfig

	JWTSecret string

	FoodDB FoodDBConfig
	AI     AIConfig
}

type DBConfig struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     string
}

// FoodDBConfig configures the Open Food Facts client.
type FoodDBConfig struct {
	BaseURL        string
	UserAgent      string
	TimeoutSeconds int
}

// AIConfig configures the nutrition estimation model. PromptFile and
// SchemaFile are optional; built-in defaults are used when unset.
type AIConfig struct {
	APIKey         string
	BaseURL        string
	Model          string
	PromptFile     string
	SchemaFile     string
	TimeoutSeconds int
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	// .env is a dev convenience; absence is fine in production
	_ = godotenv.Load()

	cfg := &Config{
		Port: getEnv("PORT", "8080"),
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			User:     getEnv("DB_USER", "postgres"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     getEnv("DB_NAME", "macrolog"),
			Port:     getEnv("DB_PORT", "5432"),
		},
		JWTSecret: os.Getenv("JWT_SECRET"),
		FoodDB: FoodDBConfig{
			BaseURL:        getEnv("FOOD_DB_BASE_URL", "https://world.openfoodfacts.org"),
			UserAgent:      getEnv("FOOD_DB_USER_AGENT", "MacroLog/1.0 (support@macrolog.app)"),
			TimeoutSeconds: getEnvAsInt("FOOD_DB_TIMEOUT", 10),
		},
		AI: AIConfig{
			APIKey:         os.Getenv("OPENAI_API_KEY"),
			BaseURL:        getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Model:          getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			PromptFile:     os.Getenv("AI_PROMPT_FILE"),
			SchemaFile:     os.Getenv("AI_SCHEMA_FILE"),
			TimeoutSeconds: getEnvAsInt("OPENAI_TIMEOUT", 30),
		},
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
