package config

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Storage  StorageConfig
	Pricing  PricingConfig
	CORS     CORSConfig
	Sentry   SentryConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver      string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	SQLitePath  string
	AutoMigrate bool
}

// URL returns the database connection URL
func (c DatabaseConfig) URL() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) + "/" + c.DBName + "?sslmode=" + c.SSLMode
}

// RedisConfig holds Redis configuration. An empty URL disables Redis-backed features.
type RedisConfig struct {
	URL      string
	Password string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret string
	Expiry time.Duration
}

// StorageConfig selects where batch images go
type StorageConfig struct {
	Driver              string
	CloudflareAccountID string
	CloudflareAPIToken  string
	LocalDir            string
	PublicBaseURL       string
}

// PricingConfig holds ledger pricing
type PricingConfig struct {
	ConsumerRate float64
}

// CORSConfig holds allowed browser origins
type CORSConfig struct {
	AllowedOrigins []string
}

// SentryConfig holds error reporting configuration
type SentryConfig struct {
	DSN string
}

const (
	defaultDBPort       = 5432
	defaultJWTExpiry    = 7 * 24 * time.Hour
	defaultConsumerRate = 10.0
)

var defaults = map[string]interface{}{
	"SERVER_PORT":             "8080",
	"SERVER_ENV":              "development",
	"DB_DRIVER":               "postgres",
	"DB_HOST":                 "localhost",
	"DB_PORT":                 defaultDBPort,
	"DB_USER":                 "postgres",
	"DB_PASSWORD":             "postgres",
	"DB_NAME":                 "tracebloom",
	"DB_SSLMODE":              "disable",
	"DB_SQLITE_PATH":          "tracebloom.db",
	"DB_AUTO_MIGRATE":         true,
	"REDIS_URL":               "",
	"REDIS_PASSWORD":          "",
	"JWT_SECRET":              "change-this-in-production",
	"JWT_EXPIRY":              defaultJWTExpiry,
	"STORAGE_DRIVER":          "local",
	"CLOUDFLARE_ACCOUNT_ID":   "",
	"CLOUDFLARE_API_TOKEN":    "",
	"STORAGE_LOCAL_DIR":       "uploads",
	"STORAGE_PUBLIC_BASE_URL": "http://localhost:8080/uploads",
	"PRICING_CONSUMER_RATE":   defaultConsumerRate,
	"CORS_ALLOWED_ORIGINS":    "*",
	"SENTRY_DSN":              "",
}

// Load loads configuration from environment variables
func Load() *Config {
	v := viper.New()
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	return &Config{
		Server: ServerConfig{
			Port: getString(v, "SERVER_PORT"),
			Env:  getString(v, "SERVER_ENV"),
		},
		Database: DatabaseConfig{
			Driver:      strings.ToLower(getString(v, "DB_DRIVER")),
			Host:        getString(v, "DB_HOST"),
			Port:        positive(v.GetInt("DB_PORT"), defaultDBPort),
			User:        getString(v, "DB_USER"),
			Password:    getString(v, "DB_PASSWORD"),
			DBName:      getString(v, "DB_NAME"),
			SSLMode:     getString(v, "DB_SSLMODE"),
			SQLitePath:  getString(v, "DB_SQLITE_PATH"),
			AutoMigrate: v.GetBool("DB_AUTO_MIGRATE"),
		},
		Redis: RedisConfig{
			URL:      getString(v, "REDIS_URL"),
			Password: getString(v, "REDIS_PASSWORD"),
		},
		JWT: JWTConfig{
			Secret: getString(v, "JWT_SECRET"),
			Expiry: positive(v.GetDuration("JWT_EXPIRY"), defaultJWTExpiry),
		},
		Storage: StorageConfig{
			Driver:              strings.ToLower(getString(v, "STORAGE_DRIVER")),
			CloudflareAccountID: getString(v, "CLOUDFLARE_ACCOUNT_ID"),
			CloudflareAPIToken:  getString(v, "CLOUDFLARE_API_TOKEN"),
			LocalDir:            getString(v, "STORAGE_LOCAL_DIR"),
			PublicBaseURL:       getString(v, "STORAGE_PUBLIC_BASE_URL"),
		},
		Pricing: PricingConfig{
			ConsumerRate: positive(finite(v.GetFloat64("PRICING_CONSUMER_RATE")), defaultConsumerRate),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getString(v, "CORS_ALLOWED_ORIGINS")),
		},
		Sentry: SentryConfig{
			DSN: getString(v, "SENTRY_DSN"),
		},
	}
}

// IsProduction reports whether the server runs with production settings
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

func getString(v *viper.Viper, key string) string {
	return strings.TrimSpace(v.GetString(key))
}

// positive falls back when a numeric setting is unparsable (viper yields zero)
// or not greater than zero.
func positive[T int | float64 | time.Duration](value, fallback T) T {
	if value > 0 {
		return value
	}
	return fallback
}

func finite(value float64) float64 {
	if math.IsInf(value, 0) || math.IsNaN(value) {
		return 0
	}
	return value
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
