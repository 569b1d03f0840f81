package config

import "os"

// Config carries the environment-derived settings for the catalog CLI.
type Config struct {
	ConnString string
	IDStrategy string
	SchemaPath string
}

// Load reads configuration from environment variables, falling back to local
// development defaults.
func Load() Config {
	return Config{
		ConnString: getConnectionString(),
		IDStrategy: getIDStrategy(),
		SchemaPath: getSchemaPath(),
	}
}

// getConnectionString returns the database connection string
func getConnectionString() string {
	connStr := os.Getenv("MARKET_DB_CONN_STRING")
	if connStr == "" {
		// Default connection string for local development
		return "postgres://localhost:5432/postgres?sslmode=disable"
	}
	return connStr
}

// getIDStrategy returns the configured product identifier strategy
func getIDStrategy() string {
	strategy := os.Getenv("MARKET_ID_STRATEGY")
	if strategy == "" {
		return "composite" // Default to composite owner-sequence identifiers
	}
	return strategy
}

// getSchemaPath returns the path to the schema initialization file
func getSchemaPath() string {
	path := os.Getenv("MARKET_SCHEMA_PATH")
	if path == "" {
		return "sql/00_init_schema.sql" // Default path
	}
	return path
}
