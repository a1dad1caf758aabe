package config

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds the full application configuration loaded from environment variables or .env file.
//
// It is composed of smaller structs that represent different concerns of the system,
// such as server settings, upload storage, the LLM client and the optional Redis cache.
//
// Example ENV equivalent:
//
//	SERVER_PORT=8080
//	UPLOAD_DIR=uploads
//	STORAGE_DRIVER=fs
//	ANALYSIS_DEFAULT_WINDOW=30
//	OPENAI_API_KEY=sk-...
//	OPENAI_MODEL=gpt-3.5-turbo
//	REDIS_ADDR=localhost:6379
type Config struct {
	Server   ServerConfig   // HTTP server configuration
	Upload   UploadConfig   // Upload storage and retention
	Analysis AnalysisConfig // Analyzer defaults
	Postgres PostgresConfig // PostgreSQL connection settings (STORAGE_DRIVER=postgres)
	LLM      LLMConfig      // Chat-completion client used for explanations
	Redis    RedisConfig    // Explanation cache (disabled when Addr is empty)
	Janitor  JanitorConfig  // Periodic purge of stale uploads
}

// ServerConfig holds HTTP server settings such as the port to listen on.
type ServerConfig struct {
	Port string // The TCP port the HTTP server will listen on (e.g., "8080")
}

// UploadConfig defines where uploaded CSV files live and how large they may be.
//
// Fields:
//   - Driver: "fs" (default) or "postgres".
//   - Dir: directory used by the filesystem driver.
//   - MaxBytes: maximum accepted multipart body size.
//   - Retention: uploads older than this are purged by the janitor (0 disables purging).
type UploadConfig struct {
	Driver    string
	Dir       string
	MaxBytes  int64
	Retention time.Duration
}

// AnalysisConfig holds defaults applied when a request does not specify them.
type AnalysisConfig struct {
	DefaultWindow int
}

// PostgresConfig defines connection details for PostgreSQL.
//
// Fields:
//   - Host: hostname of the database server.
//   - Port: port number of the database server (default 5432).
//   - User: username for authentication.
//   - Password: password for authentication.
//   - DBName: target database name.
//   - SSLMode: SSL mode (e.g., "disable", "require").
//   - URL: computed DSN used by database/sql to connect.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	URL      string
}

// LLMConfig configures the OpenAI-compatible chat-completion client.
//
// An empty APIKey keeps the service running; explanation requests then fail
// with a 502 instead of the whole process refusing to start.
type LLMConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// RedisConfig holds the explanation cache connection settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// JanitorConfig holds the cron expression for the upload purge job.
type JanitorConfig struct {
	Schedule string
}

// AppConfig is the globally accessible configuration instance.
//
// It is populated once via LoadConfig() and used throughout the application.
// All services should import this package and read from AppConfig instead of
// reloading environment variables directly.
var AppConfig Config

// LoadConfig initializes the global AppConfig by reading from .env file
// or directly from environment variables.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
//
// Behavior:
//   - Sets defaults for all required fields.
//   - Reads environment variables automatically with viper.AutomaticEnv().
//   - Constructs the PostgreSQL connection string (DSN).
//   - Calls validateConfig() to ensure required fields are present.
//
// Fatal exit:
//   - If required variables are missing or invalid, validateConfig() will terminate the app
//     with a descriptive log message.
func LoadConfig() {
	// Default values
	viper.SetDefault("SERVER_PORT", "8080")

	viper.SetDefault("STORAGE_DRIVER", "fs")
	viper.SetDefault("UPLOAD_DIR", "uploads")
	viper.SetDefault("UPLOAD_MAX_BYTES", 10<<20)
	viper.SetDefault("UPLOAD_RETENTION", "168h")

	viper.SetDefault("ANALYSIS_DEFAULT_WINDOW", 30)

	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", 5432)
	viper.SetDefault("POSTGRES_USER", "postgres")
	viper.SetDefault("POSTGRES_PASSWORD", "postgres")
	viper.SetDefault("POSTGRES_DB", "stockpulse")
	viper.SetDefault("POSTGRES_SSLMODE", "disable")

	viper.SetDefault("OPENAI_API_KEY", "")
	viper.SetDefault("OPENAI_BASE_URL", "")
	viper.SetDefault("OPENAI_MODEL", "gpt-3.5-turbo")
	viper.SetDefault("OPENAI_TIMEOUT", "60s")

	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("EXPLANATION_CACHE_TTL", "24h")

	viper.SetDefault("JANITOR_SCHEDULE", "@hourly")

	// Optionally read from .env if present (common in local dev)
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig() // ignore error if no .env

	// Read environment variables automatically
	viper.AutomaticEnv()

	// Populate global config instance
	AppConfig = Config{
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
		},
		Upload: UploadConfig{
			Driver:    viper.GetString("STORAGE_DRIVER"),
			Dir:       viper.GetString("UPLOAD_DIR"),
			MaxBytes:  viper.GetInt64("UPLOAD_MAX_BYTES"),
			Retention: viper.GetDuration("UPLOAD_RETENTION"),
		},
		Analysis: AnalysisConfig{
			DefaultWindow: viper.GetInt("ANALYSIS_DEFAULT_WINDOW"),
		},
		Postgres: PostgresConfig{
			Host:     viper.GetString("POSTGRES_HOST"),
			Port:     viper.GetInt("POSTGRES_PORT"),
			User:     viper.GetString("POSTGRES_USER"),
			Password: viper.GetString("POSTGRES_PASSWORD"),
			DBName:   viper.GetString("POSTGRES_DB"),
			SSLMode:  viper.GetString("POSTGRES_SSLMODE"),
		},
		LLM: LLMConfig{
			APIKey:  viper.GetString("OPENAI_API_KEY"),
			BaseURL: viper.GetString("OPENAI_BASE_URL"),
			Model:   viper.GetString("OPENAI_MODEL"),
			Timeout: viper.GetDuration("OPENAI_TIMEOUT"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
			TTL:      viper.GetDuration("EXPLANATION_CACHE_TTL"),
		},
		Janitor: JanitorConfig{
			Schedule: viper.GetString("JANITOR_SCHEDULE"),
		},
	}

	// Construct Postgres DSN (used by database/sql)
	AppConfig.Postgres.URL = PostgresDSN(AppConfig.Postgres)

	// Validate critical fields
	validateConfig()
}

// PostgresDSN renders the URL-style DSN understood by lib/pq.
func PostgresDSN(pg PostgresConfig) string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		pg.User,
		pg.Password,
		pg.Host,
		pg.Port,
		pg.DBName,
		pg.SSLMode,
	)
}

// validateConfig ensures required variables are present and terminates
// the application if they are missing.
//
// Behavior:
//   - Checks each critical field of AppConfig.
//   - Postgres fields are only required when STORAGE_DRIVER=postgres.
//   - If any are missing, logs them and terminates the app with log.Fatalf().
func validateConfig() {
	if missing := missingFields(AppConfig); len(missing) > 0 {
		log.Fatalf("missing or invalid environment variables: %v\n", missing)
	}
}

func missingFields(cfg Config) []string {
	var missing []string

	if cfg.Server.Port == "" {
		missing = append(missing, "SERVER_PORT")
	}
	if cfg.Analysis.DefaultWindow < 1 {
		missing = append(missing, "ANALYSIS_DEFAULT_WINDOW")
	}
	if cfg.Upload.MaxBytes <= 0 {
		missing = append(missing, "UPLOAD_MAX_BYTES")
	}

	switch cfg.Upload.Driver {
	case "fs":
		if cfg.Upload.Dir == "" {
			missing = append(missing, "UPLOAD_DIR")
		}
	case "postgres":
		if cfg.Postgres.Host == "" {
			missing = append(missing, "POSTGRES_HOST")
		}
		if cfg.Postgres.Port == 0 {
			missing = append(missing, "POSTGRES_PORT")
		}
		if cfg.Postgres.User == "" {
			missing = append(missing, "POSTGRES_USER")
		}
		if cfg.Postgres.Password == "" {
			missing = append(missing, "POSTGRES_PASSWORD")
		}
		if cfg.Postgres.DBName == "" {
			missing = append(missing, "POSTGRES_DB")
		}
	default:
		missing = append(missing, "STORAGE_DRIVER")
	}

	return missing
}
