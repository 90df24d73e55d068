package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Attachments AttachmentConfig
	Reminders   ReminderConfig
	LogLevel    string
}

type ServerConfig struct {
	Port           string
	GinMode        string
	AllowedOrigins []string
}

type DatabaseConfig struct {
	URL         string
	AutoMigrate bool
	LogLevel    string
}

type AttachmentConfig struct {
	Root string
}

type ReminderConfig struct {
	TwilioAccountSID     string
	TwilioAuthToken      string
	TwilioPhoneNumber    string
	TwilioWhatsAppNumber string
	Schedule             string
	Lead                 time.Duration
}

// Enabled reports whether Twilio credentials are configured.
func (r ReminderConfig) Enabled() bool {
	return r.TwilioAccountSID != "" && r.TwilioAuthToken != ""
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			GinMode:        getEnv("GIN_MODE", "release"),
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		},
		Database: DatabaseConfig{
			URL:         os.Getenv("DB_URL"),
			AutoMigrate: getEnvAsBool("DB_AUTO_MIGRATE", false),
			LogLevel:    getEnv("DB_LOG_LEVEL", "warn"),
		},
		Attachments: AttachmentConfig{
			Root: getEnv("ATTACHMENT_ROOT", "data/motif-files"),
		},
		Reminders: ReminderConfig{
			TwilioAccountSID:     os.Getenv("TWILIO_ACCOUNT_SID"),
			TwilioAuthToken:      os.Getenv("TWILIO_AUTH_TOKEN"),
			TwilioPhoneNumber:    os.Getenv("TWILIO_PHONE_NUMBER"),
			TwilioWhatsAppNumber: os.Getenv("TWILIO_WHATSAPP_NUMBER"),
			Schedule:             getEnv("REMINDER_SCHEDULE", "*/15 * * * *"),
			Lead:                 getEnvAsDuration("REMINDER_LEAD", 24*time.Hour),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Database.URL == "" {
		return fmt.Errorf("DB_URL is required")
	}

	if c.Attachments.Root == "" {
		return fmt.Errorf("ATTACHMENT_ROOT is required")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid boolean for %s, using default: %t", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration for %s, using default: %s", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var values []string
	for _, v := range strings.Split(valueStr, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}
