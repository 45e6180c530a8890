package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Logger   LoggerConfig
	Admin    AdminConfig
	Cart     CartConfig
	Photos   PhotoConfig
	Notifier NotifierConfig
	Static   StaticConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig holds database-related configuration.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	MaxConnections  int
	MinConnections  int
	MaxConnLifetime int // seconds
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

// AdminConfig holds the admin panel credentials. PasswordHash is a bcrypt
// hash; use scripts/hashpass to generate one.
type AdminConfig struct {
	Username     string
	PasswordHash string
}

// CartConfig holds session cart storage configuration. When Redis is
// disabled carts live in process memory and do not survive a restart.
type CartConfig struct {
	RedisEnabled bool
	RedisURL     string
	TTL          int // seconds
}

// PhotoConfig holds product photo storage configuration.
type PhotoConfig struct {
	S3Enabled bool
	Bucket    string
	Region    string
	Prefix    string // Path prefix within bucket (e.g. "photos/")
	UploadDir string // Local directory used when S3 is disabled
}

// NotifierConfig holds order notification configuration.
type NotifierConfig struct {
	Enabled bool
	URL     string
	Timeout int // seconds
}

// StaticConfig holds frontend static serving configuration.
type StaticConfig struct {
	Dir string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			Database:        getEnv("DB_NAME", "gardenstore"),
			MaxConnections:  getEnvAsInt("DB_MAX_CONNECTIONS", 25),
			MinConnections:  getEnvAsInt("DB_MIN_CONNECTIONS", 5),
			MaxConnLifetime: getEnvAsInt("DB_MAX_CONN_LIFETIME", 300),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Admin: AdminConfig{
			Username:     getEnv("ADMIN_USERNAME", "admin"),
			PasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		},
		Cart: CartConfig{
			RedisEnabled: getEnvAsBool("CART_REDIS_ENABLED", false),
			RedisURL:     getEnv("CART_REDIS_URL", "redis://localhost:6379/0"),
			TTL:          getEnvAsInt("CART_TTL", 86400),
		},
		Photos: PhotoConfig{
			S3Enabled: getEnvAsBool("PHOTOS_S3_ENABLED", false),
			Bucket:    getEnv("PHOTOS_S3_BUCKET", ""),
			Region:    getEnv("PHOTOS_S3_REGION", "us-east-1"),
			Prefix:    getEnv("PHOTOS_S3_PREFIX", "photos/"),
			UploadDir: getEnv("UPLOAD_DIR", "static/uploads"),
		},
		Notifier: NotifierConfig{
			Enabled: getEnvAsBool("BOT_ENABLED", false),
			URL:     getEnv("BOT_URL", "http://localhost:5001/send_order"),
			Timeout: getEnvAsInt("BOT_TIMEOUT", 10),
		},
		Static: StaticConfig{
			Dir: getEnv("STATIC_DIR", "web/dist"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", c.Database.Port)
	}

	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}

	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.Database.MaxConnections < 1 {
		return fmt.Errorf("database max connections must be at least 1")
	}

	if c.Database.MinConnections < 1 {
		return fmt.Errorf("database min connections must be at least 1")
	}

	if c.Database.MinConnections > c.Database.MaxConnections {
		return fmt.Errorf("database min connections cannot exceed max connections")
	}

	if c.Admin.Username == "" {
		return fmt.Errorf("admin username is required")
	}

	if c.Admin.PasswordHash == "" {
		return fmt.Errorf("admin password hash is required")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	if c.Cart.RedisEnabled && c.Cart.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when the Redis cart store is enabled")
	}

	if c.Cart.TTL < 1 {
		return fmt.Errorf("cart TTL must be at least 1 second")
	}

	if c.Photos.S3Enabled {
		if c.Photos.Bucket == "" {
			return fmt.Errorf("S3 bucket is required when S3 photo storage is enabled")
		}
		if c.Photos.Region == "" {
			return fmt.Errorf("S3 region is required when S3 photo storage is enabled")
		}
	} else if c.Photos.UploadDir == "" {
		return fmt.Errorf("upload directory is required when S3 photo storage is disabled")
	}

	if c.Notifier.Enabled {
		if c.Notifier.URL == "" {
			return fmt.Errorf("bot URL is required when notifications are enabled")
		}
		if c.Notifier.Timeout < 1 {
			return fmt.Errorf("bot timeout must be at least 1 second")
		}
	}

	return nil
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value.
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
