package config

import (
	"crypto/rand"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"chat-api/internal/logger"

	"github.com/sirupsen/logrus"
)

// AppConfig holds all application configuration
type AppConfig struct {
	Server   ServerConfig
	Database DatabaseConfig
	LLM      LLMConfig
	Auth     AuthConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// LLMConfig holds LLM provider configuration
type LLMConfig struct {
	GroqAPIKey         string
	Model              string
	MaxInputLength     int
	MaxHistoryMessages int
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTSecret          []byte
	AccessTokenTTL     time.Duration
	RefreshTokenMaxAge time.Duration
}

// LoadConfig loads and validates application configuration from environment
func LoadConfig() (*AppConfig, error) {
	config := &AppConfig{}

	config.Server = ServerConfig{
		Port:           getEnvOrDefault("PORT", "8000"),
		AllowedOrigins: splitOrigins(os.Getenv("ALLOWED_ORIGINS")),
	}

	config.Database = DatabaseConfig{
		Host:     getEnvOrDefault("DB_HOST", "postgres"),
		Port:     getEnvOrDefault("DB_PORT", "5432"),
		User:     getEnvOrDefault("DB_USER", "postgres"),
		Password: getEnvOrDefault("DB_PASSWORD", "postgres"),
		Name:     getEnvOrDefault("DB_NAME", "chatapp"),
		SSLMode:  getEnvOrDefault("DB_SSLMODE", "disable"),
	}

	apiKey := os.Getenv("GROQ_API_KEY")
	if apiKey == "" {
		logger.Log.Warn("GROQ_API_KEY environment variable not set, chat replies will be degraded")
	}

	config.LLM = LLMConfig{
		GroqAPIKey:         apiKey,
		Model:              getEnvOrDefault("GROQ_MODEL", "llama-3.1-8b-instant"),
		MaxInputLength:     getEnvAsInt("MAX_INPUT_LENGTH", 2000),
		MaxHistoryMessages: getEnvAsInt("MAX_HISTORY_MESSAGES", 10),
	}

	secret := []byte(os.Getenv("JWT_SECRET"))
	if len(secret) == 0 {
		// Tokens signed with a generated secret do not survive a restart.
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("failed to generate signing secret: %w", err)
		}
		logger.Log.Warn("JWT_SECRET not set, using a random secret; issued tokens will not survive a restart")
	}

	config.Auth = AuthConfig{
		JWTSecret:          secret,
		AccessTokenTTL:     getEnvAsDuration("ACCESS_TOKEN_TTL", 24*time.Hour),
		RefreshTokenMaxAge: getEnvAsDuration("REFRESH_TOKEN_MAX_AGE", 720*time.Hour),
	}

	return config, nil
}

// GetDSN returns the database connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// KeyLoaded reports whether a provider API key was configured
func (c *LLMConfig) KeyLoaded() bool {
	return c.GroqAPIKey != ""
}

func splitOrigins(value string) []string {
	var origins []string
	for _, origin := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		logger.Log.WithFields(logrus.Fields{"key": key, "default": defaultValue}).Warn("Invalid integer value, using default")
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
		logger.Log.WithFields(logrus.Fields{"key": key, "default": defaultValue}).Warn("Invalid duration value, using default")
		return defaultValue
	}
	return value
}
