package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	GoEnv    string
	Port     string
	LogLevel string

	DatabaseDriver string
	DatabaseURL    string

	JWTSecret            string
	JWTIssuer            string
	JWTAudience          string
	TokenExpirationHours int

	AdminUsername string
	AdminPassword string
	AdminEmail    string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	KafkaBrokers []string
	KafkaTopic   string

	AWSRegion          string
	AWSS3Bucket        string
	AWSAccessKeyID     string
	AWSSecretAccessKey string

	ReceiptBaseURL string
}

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

var appConfig *Config

// Load loads the configuration from environment variables
// It automatically determines which .env file to load based on GO_ENV
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// Try to load environment-specific file first
	envFile := fmt.Sprintf(".env.%s", env)
	if err := godotenv.Load(envFile); err != nil {
		if err := godotenv.Load(); err != nil {
			// Deployed environments set variables directly
			log.Printf("No .env file found, using system environment variables")
		}
	} else {
		log.Printf("Loaded configuration from %s", envFile)
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		GoEnv:                v.GetString("GO_ENV"),
		Port:                 v.GetString("PORT"),
		LogLevel:             v.GetString("LOG_LEVEL"),
		DatabaseDriver:       strings.ToLower(v.GetString("DATABASE_DRIVER")),
		DatabaseURL:          v.GetString("DATABASE_URL"),
		JWTSecret:            v.GetString("JWT_SECRET"),
		JWTIssuer:            v.GetString("JWT_ISSUER"),
		JWTAudience:          v.GetString("JWT_AUDIENCE"),
		TokenExpirationHours: v.GetInt("TOKEN_EXPIRATION_HOURS"),
		AdminUsername:        v.GetString("ADMIN_USERNAME"),
		AdminPassword:        v.GetString("ADMIN_PASSWORD"),
		AdminEmail:           v.GetString("ADMIN_EMAIL"),
		RedisAddr:            v.GetString("REDIS_ADDR"),
		RedisPassword:        v.GetString("REDIS_PASSWORD"),
		RedisDB:              v.GetInt("REDIS_DB"),
		CacheTTL:             v.GetDuration("CACHE_TTL"),
		KafkaBrokers:         splitList(v.GetString("KAFKA_BROKERS")),
		KafkaTopic:           v.GetString("KAFKA_TOPIC"),
		AWSRegion:            v.GetString("AWS_REGION"),
		AWSS3Bucket:          v.GetString("AWS_S3_BUCKET"),
		AWSAccessKeyID:       v.GetString("AWS_ACCESS_KEY_ID"),
		AWSSecretAccessKey:   v.GetString("AWS_SECRET_ACCESS_KEY"),
		ReceiptBaseURL:       strings.TrimRight(v.GetString("RECEIPT_BASE_URL"), "/"),
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	appConfig = cfg
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("GO_ENV", "development")
	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DATABASE_DRIVER", DriverPostgres)
	v.SetDefault("JWT_SECRET", "dev-only-secret-change-me-0123456789")
	v.SetDefault("JWT_ISSUER", "pizzeria-api")
	v.SetDefault("JWT_AUDIENCE", "pizzeria-clients")
	v.SetDefault("TOKEN_EXPIRATION_HOURS", 1)
	v.SetDefault("ADMIN_USERNAME", "admin")
	v.SetDefault("ADMIN_EMAIL", "admin@pizzeria.local")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_TTL", "5m")
	v.SetDefault("KAFKA_TOPIC", "pizzeria.orders")
	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("RECEIPT_BASE_URL", "http://localhost:8080")
}

// Validate checks that all required configuration values are set
func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case DriverPostgres, DriverMySQL, DriverSQLite:
	default:
		return fmt.Errorf("DATABASE_DRIVER must be one of postgres, mysql, sqlite (got %q)", c.DatabaseDriver)
	}
	if c.DatabaseURL == "" && c.DatabaseDriver != DriverSQLite {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.IsProduction() && len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 bytes in production")
	}
	if c.TokenExpirationHours <= 0 {
		return fmt.Errorf("TOKEN_EXPIRATION_HOURS must be positive")
	}
	return nil
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// IsTest returns true if the application is running in test mode
func (c *Config) IsTest() bool {
	return c.GoEnv == "test"
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GoEnv == "development"
}

// TokenLifetime returns how long issued access tokens stay valid
func (c *Config) TokenLifetime() time.Duration {
	return time.Duration(c.TokenExpirationHours) * time.Hour
}

// GetConfig returns the configuration loaded by Load
func GetConfig() *Config {
	return appConfig
}

// SetConfig replaces the process-wide configuration (primarily for testing)
func SetConfig(cfg *Config) {
	appConfig = cfg
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
