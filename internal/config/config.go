package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all configuration for the tenancy service
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	NATS      NATSConfig
	Auth      AuthConfig
	Domain    DomainConfig
	Retention RetentionConfig
	App       AppConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig holds PostgreSQL connection configuration
type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	DBName       string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

// RedisConfig holds Redis configuration for resolver caching
type RedisConfig struct {
	URL          string
	MaxRetries   int
	PoolSize     int
	MinIdleConns int
}

// NATSConfig holds NATS configuration for activity event streaming
type NATSConfig struct {
	URL           string
	Enabled       bool
	MaxReconnects int
	ReconnectWait int // In seconds
}

// AuthConfig holds session verification configuration
type AuthConfig struct {
	JWTSecret       string
	CookieName      string
	ProviderURL     string // Optional userinfo endpoint; empty disables the remote check
	ProviderTimeout int    // In seconds
}

// DomainConfig holds hostname routing configuration
type DomainConfig struct {
	BaseDomain     string
	AdminSubdomain string
}

// RetentionConfig holds activity log retention configuration
type RetentionConfig struct {
	Days            int
	CleanupEnabled  bool
	CleanupSchedule string // Cron schedule for the cleanup job
	BatchSize       int
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	Environment string
	LogLevel    string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnvAsInt("DB_PORT", 5432),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", ""),
			DBName:       getEnv("DB_NAME", "school_erp"),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
		},
		Redis: RedisConfig{
			URL:          getEnv("REDIS_URL", ""),
			MaxRetries:   getEnvAsInt("REDIS_MAX_RETRIES", 3),
			PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvAsInt("REDIS_MIN_IDLE_CONNS", 5),
		},
		NATS: NATSConfig{
			URL:           getEnv("NATS_URL", "nats://localhost:4222"),
			Enabled:       getEnvAsBool("NATS_ENABLED", false),
			MaxReconnects: getEnvAsInt("NATS_MAX_RECONNECTS", -1),
			ReconnectWait: getEnvAsInt("NATS_RECONNECT_WAIT", 2), // seconds
		},
		Auth: AuthConfig{
			JWTSecret:       getEnv("AUTH_JWT_SECRET", ""),
			CookieName:      getEnv("AUTH_COOKIE_NAME", "sb-access-token"),
			ProviderURL:     getEnv("AUTH_PROVIDER_URL", ""),
			ProviderTimeout: getEnvAsInt("AUTH_PROVIDER_TIMEOUT", 5),
		},
		Domain: DomainConfig{
			BaseDomain:     getEnv("BASE_DOMAIN", "smartschoolerp.xyz"),
			AdminSubdomain: getEnv("ADMIN_SUBDOMAIN", "admin"),
		},
		Retention: RetentionConfig{
			Days:            getEnvAsInt("ACTIVITY_RETENTION_DAYS", 180),
			CleanupEnabled:  getEnvAsBool("ACTIVITY_CLEANUP_ENABLED", true),
			CleanupSchedule: getEnv("ACTIVITY_CLEANUP_SCHEDULE", "0 2 * * *"), // 2 AM daily
			BatchSize:       getEnvAsInt("ACTIVITY_CLEANUP_BATCH_SIZE", 500),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
		},
	}

	return config, nil
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// IsProduction returns true if running in production
func (c *Config) IsProduction() bool {
	return strings.ToLower(c.App.Environment) == "production"
}

// IsDevelopment returns true if running in development
func (c *Config) IsDevelopment() bool {
	return strings.ToLower(c.App.Environment) == "development"
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		b, err := strconv.ParseBool(value)
		if err == nil {
			return b
		}
	}
	return defaultValue
}
