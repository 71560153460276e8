// Package database manages the optional Postgres connection backing
// the analytics sink.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/winecraft-dev/connect4/internal/config"
	"github.com/winecraft-dev/connect4/internal/logger"
)

// DB wraps the pooled connection.
type DB struct {
	*sql.DB
}

// NewDB opens a pooled Postgres connection and verifies it. A full
// connection URL takes precedence over the individual fields.
func NewDB(cfg config.DatabaseConfig) (*DB, error) {
	connStr := cfg.URL
	if connStr == "" {
		connStr = fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName,
		)
	}

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	logger.Info("database connected", map[string]any{"dbname": cfg.DBName})

	return &DB{db}, nil
}
