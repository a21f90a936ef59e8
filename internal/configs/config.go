package configs

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	ViewCounterModeDirect = "direct"
	ViewCounterModeQueue  = "queue"
)

type DatabaseConfig struct {
	URL      string
	MaxConns int
}

type DatasetConfig struct {
	Dir              string
	LegacyPath       string
	DefaultCountries []string
}

type RESTconfig struct {
	PORT               string
	CORSAllowedOrigins []string
}

type RabbitMQConfig struct {
	URL string
}

type StdoutLogConfig struct {
	Level  string
	IsJSON bool
}

type FluentBitConfig struct {
	Enabled bool
	Host    string
	Port    int
	Level   string
}

// AppConfig holds the whole application configuration
type AppConfig struct {
	AppName         string
	Database        DatabaseConfig
	Dataset         DatasetConfig
	Rest            RESTconfig
	FacetsLocale    string
	ViewCounterMode string
	RabbitMQ        RabbitMQConfig
	StdoutLogger    StdoutLogConfig
	FluentBit       FluentBitConfig
}

// LoadConfig reads the environment, optionally seeded from a .env file.
// A missing default .env is fine; an explicitly given path must exist.
func LoadConfig(envPath ...string) (*AppConfig, error) {
	var err error
	if len(envPath) > 0 {
		err = godotenv.Load(envPath[0])
	} else {
		err = godotenv.Load()
		if errors.Is(err, fs.ErrNotExist) {
			err = nil
		}
	}
	if err != nil {
		return nil, fmt.Errorf("could not load .env file (path: %v): %w", envPath, err)
	}

	cfg := &AppConfig{}

	cfg.AppName = getEnvAsString("APP_NAME", "property-service")

	cfg.Database.URL = getEnvAsString("DATABASE_URL", "")
	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	cfg.Database.MaxConns = getEnvAsInt("DATABASE_MAX_CONNS", 10)

	cfg.Dataset.Dir = getEnvAsString("DATASET_DIR", "data/countries")
	cfg.Dataset.LegacyPath = getEnvAsString("LEGACY_DATASET_PATH", "data/legacy/properties.json")
	cfg.Dataset.DefaultCountries = getEnvAsList("DATASET_DEFAULT_COUNTRIES", []string{"TR"})

	cfg.Rest.PORT = getEnvAsString("PORT", "8080")
	cfg.Rest.CORSAllowedOrigins = getEnvAsList("CORS_ALLOWED_ORIGINS", nil)

	cfg.FacetsLocale = getEnvAsString("FACETS_LOCALE", "tr")

	cfg.ViewCounterMode = strings.ToLower(getEnvAsString("VIEW_COUNTER_MODE", ViewCounterModeDirect))
	switch cfg.ViewCounterMode {
	case ViewCounterModeDirect:
	case ViewCounterModeQueue:
		cfg.RabbitMQ.URL = getEnvAsString("RABBITMQ_URL", "")
		if cfg.RabbitMQ.URL == "" {
			return nil, fmt.Errorf("RABBITMQ_URL environment variable is required when VIEW_COUNTER_MODE=queue")
		}
	default:
		return nil, fmt.Errorf("VIEW_COUNTER_MODE must be %q or %q, got %q", ViewCounterModeDirect, ViewCounterModeQueue, cfg.ViewCounterMode)
	}

	cfg.StdoutLogger.Level = getEnvAsString("STDOUT_LOG_LEVEL", "info")
	cfg.StdoutLogger.IsJSON = getEnvAsBool("STDOUT_LOG_JSON", false)

	cfg.FluentBit.Enabled = getEnvAsBool("FLUENTBIT_ENABLED", false)
	if cfg.FluentBit.Enabled {
		cfg.FluentBit.Host = getEnvAsString("FLUENTBIT_HOST", "")
		if cfg.FluentBit.Host == "" {
			log.Println("WARNING: FLUENTBIT_ENABLED is true, but FLUENTBIT_HOST is not set. Disabling Fluent Bit.")
			cfg.FluentBit.Enabled = false
		}
		cfg.FluentBit.Port = getEnvAsInt("FLUENTBIT_PORT", 24224)
		cfg.FluentBit.Level = getEnvAsString("FLUENTBIT_LOG_LEVEL", "info")
	}

	return cfg, nil
}

func getEnvAsString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt falls back to the default (with a warning) when the value is not an int
func getEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists || valueStr == "" {
		return defaultValue
	}

	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as int: %v. Using default value: %d\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return valueInt
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valStr, exists := os.LookupEnv(key)
	if !exists || valStr == "" {
		return defaultValue
	}
	valBool, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as bool: %v. Using default value: %t\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return valBool
}

// getEnvAsList splits a comma-separated value, dropping blanks
func getEnvAsList(key string, defaultValue []string) []string {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	var values []string
	for _, part := range strings.Split(valStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}
