// internal/infrastructure/config/config.go
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// App
	AppVersion string

	// Metrics/health HTTP server
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Flight datasets
	DataDir         string
	PreloadDatasets []string

	// MCP transport: "stdio" or "http"
	MCPTransport string
	MCPAddr      string

	// PostgreSQL (airport reference data; optional)
	PostgresDSN string

	// MongoDB (user context persistence)
	MongoURI string
	MongoDB  string

	// User context store: "memory" or "mongo"
	ContextStore string
	// ContextTTL of zero keeps contexts for the life of the store.
	ContextTTL time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	// Set defaults and override with env vars
	config := &Config{
		AppVersion:   getEnv("APP_VERSION", "1.0.0"),
		Port:         getEnv("PORT", "8080"),
		ReadTimeout:  time.Duration(getEnvAsInt("READ_TIMEOUT", 30)) * time.Second,
		WriteTimeout: time.Duration(getEnvAsInt("WRITE_TIMEOUT", 30)) * time.Second,

		DataDir:         getEnv("DATA_DIR", "data"),
		PreloadDatasets: getEnvAsList("PRELOAD_DATASETS"),

		MCPTransport: getEnv("MCP_TRANSPORT", "stdio"),
		MCPAddr:      getEnv("MCP_ADDR", "127.0.0.1:8483"),

		PostgresDSN: getEnv("POSTGRES_DSN", ""),

		MongoURI: getEnv("MONGODB_DSN", "mongodb://localhost:27017"),
		MongoDB:  getEnv("MONGO_DB", "flightquery"),

		ContextStore: getEnv("CONTEXT_STORE", "memory"),
		ContextTTL:   time.Duration(getEnvAsInt("CONTEXT_TTL", 0)) * time.Second,
	}

	return config, nil
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return nil
	}
	var values []string
	for _, v := range strings.Split(valueStr, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}
