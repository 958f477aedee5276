package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	Auth     AuthConfig
	Domain   DomainConfig
}

type AppConfig struct {
	Port                string
	Environment         string
	LogFilePath         string
	RealtimeLogFilePath string
	CorsAllowedOrigins  string
	NatsURL             string
	RedisURL            string
	OtelEnabled         bool
	OtelEndpoint        string
	NotificationTopic   string
}

type DatabaseConfig struct {
	Connection string
	Driver     string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type AuthConfig struct {
	JwtSecret string
}

type DomainConfig struct {
	FeedbackEditWindow time.Duration
	ReconcileOnStartup bool
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// ValidateServer checks what the HTTP server cannot run without.
func (c *Config) ValidateServer() error {
	if c.Auth.JwtSecret == "" {
		return errors.New("JWT_SECRET must be set")
	}
	return nil
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:                getEnv("APP_PORT", "3000"),
			Environment:         getEnv("GO_ENV", "development"),
			LogFilePath:         getEnv("LOG_FILE_PATH", "logs/app.log"),
			RealtimeLogFilePath: getEnv("REALTIME_LOG_FILE_PATH", "logs/realtime.log"),
			CorsAllowedOrigins:  getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:             getEnv("NATS_URL", ""),
			RedisURL:            getEnv("REDIS_URL", ""),
			OtelEnabled:         getEnvAsBool("OTEL_ENABLED", false),
			OtelEndpoint:        getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			NotificationTopic:   getEnv("NOTIFICATION_TOPIC", "EMAIL_NOTIFICATION"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
			Driver:     strings.ToLower(getEnv("STORAGE_DRIVER", StorageDriverPostgres)),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "Consultation Desk"),
		},
		Auth: AuthConfig{
			JwtSecret: getEnv("JWT_SECRET", ""),
		},
		Domain: DomainConfig{
			FeedbackEditWindow: time.Duration(getEnvAsInt("FEEDBACK_EDIT_WINDOW_HOURS", 168)) * time.Hour,
			ReconcileOnStartup: getEnvAsBool("RECONCILE_ON_STARTUP", true),
		},
	}
}

// getEnv treats an empty variable as unset.
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
