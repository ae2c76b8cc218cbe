// Package database manages the PostgreSQL connection pool used to persist predictions.
package database

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yourusername/predictsports-engine/internal/config"
)

// Pool tuning for a read-light, write-per-prediction workload
const (
	minConns          = 1
	maxConnLifetime   = 5 * time.Minute
	maxConnIdleTime   = time.Minute
	healthCheckPeriod = 30 * time.Second
	connectTimeoutSec = 5
	applicationName   = "predictsports-engine"
)

// DB holds the pgx pool shared by the repositories
type DB struct {
	pool *pgxpool.Pool
}

// NewDB connects using the database section of the configuration
func NewDB(ctx context.Context, cfg *config.DatabaseConfig) (*DB, error) {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	parts := []string{
		"host=" + cfg.Host,
		"port=" + strconv.Itoa(cfg.Port),
		"user=" + cfg.User,
		"dbname=" + cfg.Name,
		"sslmode=" + sslMode,
		"connect_timeout=" + strconv.Itoa(connectTimeoutSec),
		"application_name=" + applicationName,
	}
	if cfg.Password != "" {
		parts = append(parts, "password="+cfg.Password)
	}
	return Open(ctx, strings.Join(parts, " "), cfg.MaxConnections)
}

// Open creates a pool from a DSN or keyword/value string and pings it.
// maxConns <= 0 keeps the pgx default.
func Open(ctx context.Context, connStr string, maxConns int) (*DB, error) {
	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	if maxConns > 0 {
		poolConfig.MaxConns = int32(maxConns)
	}
	poolConfig.MinConns = minConns
	poolConfig.MaxConnLifetime = maxConnLifetime
	poolConfig.MaxConnIdleTime = maxConnIdleTime
	poolConfig.HealthCheckPeriod = healthCheckPeriod

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Ping verifies database connectivity
func (db *DB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

// Close releases every pooled connection
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// GetPool returns the underlying connection pool
func (db *DB) GetPool() *pgxpool.Pool {
	return db.pool
}
