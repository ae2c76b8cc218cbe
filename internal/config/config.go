// Package config provides configuration management for the Predictsports engine.
package config

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App      AppConfig      `mapstructure:"app" validate:"required"`
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Engine   EngineConfig   `mapstructure:"engine" validate:"required"`
	Cache    CacheConfig    `mapstructure:"cache" validate:"required"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Database DatabaseConfig `mapstructure:"database"`
	Metrics  MetricsConfig  `mapstructure:"metrics" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// ServerConfig represents the HTTP listener configuration
type ServerConfig struct {
	Host                string          `mapstructure:"host"`
	Port                int             `mapstructure:"port" validate:"required,min=1,max=65535"`
	ReadTimeoutSeconds  int             `mapstructure:"read_timeout_seconds" validate:"required,gt=0"`
	WriteTimeoutSeconds int             `mapstructure:"write_timeout_seconds" validate:"required,gt=0"`
	CORSOrigin          string          `mapstructure:"cors_origin" validate:"required"`
	RateLimit           RateLimitConfig `mapstructure:"rate_limit" validate:"required"`
}

// RateLimitConfig represents the token bucket applied to the API
type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second" validate:"required,gt=0"`
	Burst             int     `mapstructure:"burst" validate:"required,gt=0"`
}

// EngineConfig represents prediction engine settings
type EngineConfig struct {
	DefaultTopN  int    `mapstructure:"default_top_n" validate:"required,min=1,max=36"`
	ModelVersion string `mapstructure:"model_version" validate:"required"`
}

// CacheConfig represents prediction cache configuration
type CacheConfig struct {
	Backend       string `mapstructure:"backend" validate:"required,cachebackend"`
	TTLSeconds    int    `mapstructure:"ttl_seconds" validate:"required,gt=0"`
	MaxSize       int    `mapstructure:"max_size" validate:"gte=0"`
	PurgeSchedule string `mapstructure:"purge_schedule" validate:"required,cronspec"`
}

// RedisConfig represents Redis connection configuration
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"gte=0,lte=15"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name           string `mapstructure:"name"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"gte=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"required,startswith=/"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s&pool_max_conns=%d",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
		c.Database.MaxConnections,
	)
}

// ListenAddress returns the host:port the API server binds to
func (c *Config) ListenAddress() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// ReadTimeout returns the server read timeout
func (c *Config) ReadTimeout() time.Duration {
	return time.Duration(c.Server.ReadTimeoutSeconds) * time.Second
}

// WriteTimeout returns the server write timeout
func (c *Config) WriteTimeout() time.Duration {
	return time.Duration(c.Server.WriteTimeoutSeconds) * time.Second
}

// CacheTTL returns how long a cached prediction stays valid
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}
