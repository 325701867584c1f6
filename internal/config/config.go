package config

import (
	"fmt"
	"os"
)

// Config holds the application configuration
type Config struct {
	// Postgres connection string (required unless UseMockDB)
	DatabaseURL string

	// API key for the phone/email validation service (required)
	NinjasAPIKey string

	// HTTP listen port
	Port string

	UseMockDB bool

	// ClickHouse audit trail configuration. The audit trail is enabled
	// only when ClickHouseAddr is set.
	ClickHouseAddr     string
	ClickHouseDatabase string
	ClickHouseUser     string
	ClickHousePassword string
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	config := &Config{}

	// Use Mock DB (default: false)
	config.UseMockDB = os.Getenv("USE_MOCK_DB") == "true"

	// Postgres connection string (required if not using mock)
	if !config.UseMockDB {
		config.DatabaseURL = os.Getenv("DATABASE_URL")
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required when USE_MOCK_DB is not set")
		}
	}

	// Validation service API key (required)
	config.NinjasAPIKey = os.Getenv("NINJAS_API_KEY")
	if config.NinjasAPIKey == "" {
		return nil, fmt.Errorf("NINJAS_API_KEY is required")
	}

	config.Port = os.Getenv("PORT")
	if config.Port == "" {
		config.Port = "8080"
	}

	// Audit trail (optional)
	config.ClickHouseAddr = os.Getenv("CLICKHOUSE_ADDR")
	if config.ClickHouseAddr != "" {
		config.ClickHouseDatabase = os.Getenv("CLICKHOUSE_DATABASE")
		if config.ClickHouseDatabase == "" {
			config.ClickHouseDatabase = "default"
		}

		config.ClickHouseUser = os.Getenv("CLICKHOUSE_USER")
		if config.ClickHouseUser == "" {
			config.ClickHouseUser = "default"
		}

		config.ClickHousePassword = os.Getenv("CLICKHOUSE_PASSWORD")
		// Password is optional, can be empty
	}

	return config, nil
}
