// Package config loads and validates application configuration from
// environment variables, optionally layered over a YAML file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Store drivers accepted by STORE_DRIVER.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// StoreDriver selects the stay store: mongo (default), postgres or memory.
	StoreDriver string

	// MongoURI is the MongoDB connection string. Required for the mongo driver.
	MongoURI string

	// MongoDatabase names the database holding the stay collection. Defaults to "stay_db".
	MongoDatabase string

	// DatabaseURL is the Postgres connection string. Required for the postgres driver.
	DatabaseURL string

	// NATSURL enables stay event publishing when set.
	NATSURL string

	// NATSSubjectPrefix prefixes every event subject. Defaults to "stays".
	NATSSubjectPrefix string

	// JWTSecret enables bearer-token authentication when set.
	JWTSecret string

	// RateLimitPerMinute caps requests per client. Defaults to 300; 0 disables.
	RateLimitPerMinute int

	// MaxBodyBytes caps request body size. Defaults to 1 MiB.
	MaxBodyBytes int64
}

// FileConfig is the YAML shape read from CONFIG_FILE.
// Environment variables win over anything set here.
type FileConfig struct {
	Port               string   `yaml:"port"`
	LogLevel           string   `yaml:"logLevel"`
	CORSOrigins        []string `yaml:"corsOrigins"`
	StoreDriver        string   `yaml:"storeDriver"`
	MongoURI           string   `yaml:"mongoURI"`
	MongoDatabase      string   `yaml:"mongoDatabase"`
	DatabaseURL        string   `yaml:"databaseURL"`
	NATSURL            string   `yaml:"natsURL"`
	NATSSubjectPrefix  string   `yaml:"natsSubjectPrefix"`
	JWTSecret          string   `yaml:"jwtSecret"`
	RateLimitPerMinute *int     `yaml:"rateLimitPerMinute"`
	MaxBodyBytes       int64    `yaml:"maxBodyBytes"`
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set.
func Load() (Config, error) {
	file, err := loadFile(os.Getenv("CONFIG_FILE"))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port:              getEnv("PORT", or(file.Port, "8080")),
		LogLevel:          getEnv("LOG_LEVEL", or(file.LogLevel, "info")),
		StoreDriver:       strings.ToLower(getEnv("STORE_DRIVER", or(file.StoreDriver, DriverMongo))),
		MongoURI:          getEnv("MONGO_URI", file.MongoURI),
		MongoDatabase:     getEnv("MONGO_DATABASE", or(file.MongoDatabase, "stay_db")),
		DatabaseURL:       getEnv("DATABASE_URL", file.DatabaseURL),
		NATSURL:           getEnv("NATS_URL", file.NATSURL),
		NATSSubjectPrefix: getEnv("NATS_SUBJECT_PREFIX", or(file.NATSSubjectPrefix, "stays")),
		JWTSecret:         getEnv("JWT_SECRET", file.JWTSecret),
	}

	cfg.CORSOrigins = file.CORSOrigins
	if v := os.Getenv("CORS_ORIGINS"); v != "" || len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173"))
	}

	rateLimit := 300
	if file.RateLimitPerMinute != nil {
		rateLimit = *file.RateLimitPerMinute
	}
	if cfg.RateLimitPerMinute, err = getEnvInt("RATE_LIMIT_PER_MINUTE", rateLimit); err != nil {
		return Config{}, err
	}

	maxBody := int64(1 << 20)
	if file.MaxBodyBytes > 0 {
		maxBody = file.MaxBodyBytes
	}
	n, err := getEnvInt("MAX_BODY_BYTES", int(maxBody))
	if err != nil {
		return Config{}, err
	}
	cfg.MaxBodyBytes = int64(n)

	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validate(cfg Config) error {
	var missing []string
	switch cfg.StoreDriver {
	case DriverMongo:
		if cfg.MongoURI == "" {
			missing = append(missing, "MONGO_URI")
		}
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			missing = append(missing, "DATABASE_URL")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q (want %s, %s or %s)", cfg.StoreDriver, DriverMongo, DriverPostgres, DriverMemory)
	}

	if len(missing) > 0 {
		return fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}
	if cfg.RateLimitPerMinute < 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be >= 0, got %d", cfg.RateLimitPerMinute)
	}
	if cfg.MaxBodyBytes <= 0 {
		return fmt.Errorf("MAX_BODY_BYTES must be > 0, got %d", cfg.MaxBodyBytes)
	}
	return nil
}

// loadFile parses the YAML file at path. An empty path yields a zero FileConfig.
func loadFile(path string) (FileConfig, error) {
	var fc FileConfig
	if path == "" {
		return fc, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fc, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fc, fmt.Errorf("parse config file: %w", err)
	}
	return fc, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func or(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
