package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port           string
	DatabaseType   string
	DatabaseURL    string
	AdminPassword  string
	MediaDir       string
	MediaBaseURL   string
	PublicBaseURL  string
	MaxUploadBytes int64
	LogLevel       string

	CoupleNames     string
	WeddingDate     string
	WeddingLocation string

	AMQPURL      string
	AMQPExchange string

	WhatsAppEnabled    bool
	WhatsAppDataDir    string
	DefaultCountryCode string
}

// LoadConfig reads an optional .env file and then the environment.
// Variables already set in the environment win over the file.
func LoadConfig(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	maxUpload, err := getEnvInt64("MAX_UPLOAD_BYTES", 10<<20)
	if err != nil {
		return nil, err
	}
	whatsappEnabled, err := getEnvBool("WHATSAPP_ENABLED", false)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:           getEnv("PORT", "3000"),
		DatabaseType:   strings.ToLower(getEnv("DATABASE_TYPE", "sqlite")),
		DatabaseURL:    getEnv("DATABASE_URL", "data/wedding.db"),
		AdminPassword:  os.Getenv("ADMIN_PASSWORD"),
		MediaDir:       getEnv("MEDIA_DIR", "data/media"),
		MediaBaseURL:   getEnv("MEDIA_BASE_URL", "/media"),
		PublicBaseURL:  getEnv("PUBLIC_BASE_URL", "http://localhost:3000"),
		MaxUploadBytes: maxUpload,
		LogLevel:       getEnv("LOG_LEVEL", "info"),

		CoupleNames:     getEnv("COUPLE_NAMES", "Bride & Groom"),
		WeddingDate:     os.Getenv("WEDDING_DATE"),
		WeddingLocation: os.Getenv("WEDDING_LOCATION"),

		AMQPURL:      os.Getenv("AMQP_URL"),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "wedding.submissions"),

		WhatsAppEnabled:    whatsappEnabled,
		WhatsAppDataDir:    getEnv("WHATSAPP_DATA_DIR", "data"),
		DefaultCountryCode: getEnv("DEFAULT_COUNTRY_CODE", "972"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that cannot be defaulted
func (c *Config) Validate() error {
	switch c.DatabaseType {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("DATABASE_TYPE must be sqlite or postgres, got %q", c.DatabaseType)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) (int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}
