// Package db keeps the combat journal in PostgreSQL.
package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/skirmish/internal/config"
)

// The journal is the only writer: one flusher plus the occasional query.
const maxConns = 4

// DB owns the connection pool.
type DB struct {
	pool *pgxpool.Pool
}

// Open connects with cfg, checks the connection and applies migrations.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*DB, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parsing database config %s:%d: %w", cfg.Host, cfg.Port, err)
	}
	pcfg.MaxConns = maxConns

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	if err := Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	slog.Info("database ready", "host", cfg.Host, "db", cfg.DBName)
	return &DB{pool: pool}, nil
}

func (d *DB) Close() {
	d.pool.Close()
}

// Journal returns a repository over the pool.
func (d *DB) Journal() *JournalRepository {
	return NewJournalRepository(d.pool)
}
