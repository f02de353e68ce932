package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server     ServerConfig
	Store      StoreConfig
	Classifier ClassifierConfig
	Extract    ExtractConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	HTTPAddr string
}

// StoreConfig holds the learning-store configuration
type StoreConfig struct {
	Path        string
	BusyTimeout time.Duration
}

// ClassifierConfig holds the optional automated format classifier
// configuration. An empty URL disables the classifier entirely.
type ClassifierConfig struct {
	URL           string
	Timeout       time.Duration
	MinConfidence float64
}

// ExtractConfig holds extraction behavior flags
type ExtractConfig struct {
	MaxPages             int
	PromotionMinCount    int
	PromotionMinContexts int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
		},
		Store: StoreConfig{
			Path:        getEnv("LEARNING_DB_PATH", "./payslip-learning.db"),
			BusyTimeout: getEnvAsDuration("LEARNING_DB_BUSY_TIMEOUT", 5*time.Second),
		},
		Classifier: ClassifierConfig{
			URL:           getEnv("CLASSIFIER_URL", ""),
			Timeout:       getEnvAsDuration("CLASSIFIER_TIMEOUT", 15*time.Second),
			MinConfidence: getEnvAsFloat64("CLASSIFIER_MIN_CONFIDENCE", 0.7),
		},
		Extract: ExtractConfig{
			MaxPages:             getEnvAsInt("EXTRACT_MAX_PAGES", 0),
			PromotionMinCount:    getEnvAsInt("PROMOTION_MIN_COUNT", 5),
			PromotionMinContexts: getEnvAsInt("PROMOTION_MIN_CONTEXTS", 3),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
