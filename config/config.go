package config

import (
	"fmt"
	"log"

	"github.com/spf13/viper"
)

// Config holds the full application configuration loaded from environment
// variables or a .env file.
//
// Example YAML/ENV equivalent:
//
//	SERVER_PORT=8080
//	POSTGRES_HOST=localhost
//	POSTGRES_PORT=5432
//	POSTGRES_USER=admin
//	POSTGRES_PASSWORD=secret
//	POSTGRES_DB=quantlog
//	POSTGRES_SSLMODE=disable
//	MARKET_API_BASE_URL=https://quotes.example.com
//	MARKET_API_KEY=...
//	AI_API_URL=https://api.mistral.ai/v1/chat/completions
//	AI_API_KEY=...
//	AI_MODEL=pixtral-large-latest
type Config struct {
	Server   ServerConfig   // HTTP server configuration
	Postgres PostgresConfig // PostgreSQL connection settings
	Market   MarketConfig   // External market-data feed
	AI       AIConfig       // Chat-completions endpoint for screenshot extraction
}

// ServerConfig holds HTTP server settings such as the port to listen on.
type ServerConfig struct {
	Port string
}

// PostgresConfig defines connection details for PostgreSQL.
// URL is the computed DSN used by database/sql to connect.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	URL      string
}

// MarketConfig points at the external quote API the snapshot endpoint
// proxies.
type MarketConfig struct {
	BaseURL string
	APIKey  string
}

// AIConfig points at the chat-completions endpoint used for trade-field
// extraction from screenshots.
type AIConfig struct {
	URL    string
	APIKey string
	Model  string
}

// AppConfig is the globally accessible configuration instance, populated
// once via LoadConfig().
var AppConfig Config

// LoadConfig initializes the global AppConfig.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
//
// If required variables are missing, validateConfig() terminates the app
// with a descriptive log message.
func LoadConfig() {
	viper.SetDefault("SERVER_PORT", "8080")

	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", 5432)
	viper.SetDefault("POSTGRES_USER", "postgres")
	viper.SetDefault("POSTGRES_PASSWORD", "postgres")
	viper.SetDefault("POSTGRES_DB", "quantlog")
	viper.SetDefault("POSTGRES_SSLMODE", "disable")

	viper.SetDefault("MARKET_API_BASE_URL", "https://quotes.example.com")
	viper.SetDefault("AI_API_URL", "https://api.mistral.ai/v1/chat/completions")
	viper.SetDefault("AI_MODEL", "pixtral-large-latest")

	// Optionally read from .env if present (common in local dev)
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig() // ignore error if no .env

	viper.AutomaticEnv()

	AppConfig = Config{
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
		},
		Postgres: PostgresConfig{
			Host:     viper.GetString("POSTGRES_HOST"),
			Port:     viper.GetInt("POSTGRES_PORT"),
			User:     viper.GetString("POSTGRES_USER"),
			Password: viper.GetString("POSTGRES_PASSWORD"),
			DBName:   viper.GetString("POSTGRES_DB"),
			SSLMode:  viper.GetString("POSTGRES_SSLMODE"),
		},
		Market: MarketConfig{
			BaseURL: viper.GetString("MARKET_API_BASE_URL"),
			APIKey:  viper.GetString("MARKET_API_KEY"),
		},
		AI: AIConfig{
			URL:    viper.GetString("AI_API_URL"),
			APIKey: viper.GetString("AI_API_KEY"),
			Model:  viper.GetString("AI_MODEL"),
		},
	}

	AppConfig.Postgres.URL = fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		AppConfig.Postgres.User,
		AppConfig.Postgres.Password,
		AppConfig.Postgres.Host,
		AppConfig.Postgres.Port,
		AppConfig.Postgres.DBName,
		AppConfig.Postgres.SSLMode,
	)

	validateConfig()
}

// validateConfig ensures required variables are present and terminates the
// application if they are missing. The market and AI keys are deliberately
// not required: without them the corresponding endpoints fail per-request
// instead of blocking startup of the journal itself.
func validateConfig() {
	var missing []string

	if AppConfig.Server.Port == "" {
		missing = append(missing, "SERVER_PORT")
	}
	if AppConfig.Postgres.Host == "" {
		missing = append(missing, "POSTGRES_HOST")
	}
	if AppConfig.Postgres.Port == 0 {
		missing = append(missing, "POSTGRES_PORT")
	}
	if AppConfig.Postgres.User == "" {
		missing = append(missing, "POSTGRES_USER")
	}
	if AppConfig.Postgres.Password == "" {
		missing = append(missing, "POSTGRES_PASSWORD")
	}
	if AppConfig.Postgres.DBName == "" {
		missing = append(missing, "POSTGRES_DB")
	}

	if len(missing) > 0 {
		log.Fatalf("missing required environment variables: %v\n", missing)
	}
}
