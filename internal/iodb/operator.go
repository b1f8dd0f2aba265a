// Package iodb implements database operations using pgxpool.
// This is an impure I/O package that implements contracts
// defined in pkg/.
package iodb

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gnames/gndocs/pkg/config"
	"github.com/gnames/gndocs/pkg/db"
	"github.com/jackc/pgx/v5/pgxpool"
)

// readyInterval is the pause between readiness probes.
var readyInterval = time.Second

// pgxOperator implements db.Operator interface using
// pgxpool for connection pooling.
type pgxOperator struct {
	pool *pgxpool.Pool
	cfg  config.DatabaseConfig
}

// NewPgxOperator creates a new database operator
// (without connecting).
func NewPgxOperator() db.Operator {
	return &pgxOperator{}
}

// Connect creates a connection pool to PostgreSQL.
// Connections are opened lazily, so Connect succeeds even when the
// server is still starting. Use WaitReady to block until it answers.
func (p *pgxOperator) Connect(
	ctx context.Context,
	cfg *config.DatabaseConfig,
) error {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Database,
		cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return ConnectionError(cfg.Host, cfg.Port,
			cfg.Database, cfg.User, err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = 0
	poolConfig.MaxConnLifetime = 0 // No lifetime limit
	poolConfig.MaxConnIdleTime = 0 // No idle timeout

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return ConnectionError(cfg.Host, cfg.Port,
			cfg.Database, cfg.User, err)
	}

	p.pool = pool
	p.cfg = *cfg
	return nil
}

// Close releases all database connections.
func (p *pgxOperator) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}

// Pool returns the underlying pgxpool.Pool for advanced
// operations.
func (p *pgxOperator) Pool() *pgxpool.Pool {
	return p.pool
}

// WaitReady runs `SELECT 1` until it succeeds or ReadyTimeout
// seconds pass.
func (p *pgxOperator) WaitReady(ctx context.Context) error {
	if p.pool == nil {
		return NotConnectedError()
	}

	timeout := time.Duration(p.cfg.ReadyTimeout) * time.Second
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var attempt int
	for {
		attempt++
		var one int
		err := p.pool.QueryRow(ctx, "SELECT 1").Scan(&one)
		if err == nil {
			slog.Info("Database is ready", "attempts", attempt)
			return nil
		}
		slog.Debug("Database is not ready yet",
			"attempt", attempt, "error", err)

		select {
		case <-ctx.Done():
			return NotReadyError(p.cfg.Host, p.cfg.Port, p.cfg.ReadyTimeout, err)
		case <-time.After(readyInterval):
		}
	}
}

// TableExists checks if a table exists in the current
// database.
func (p *pgxOperator) TableExists(
	ctx context.Context,
	tableName string,
) (bool, error) {
	if p.pool == nil {
		return false, NotConnectedError()
	}

	query := `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_schema = 'public'
			AND table_name = $1
		)
	`

	var exists bool
	err := p.pool.QueryRow(ctx, query, tableName).Scan(&exists)
	if err != nil {
		return false, TableExistsCheckError(tableName, err)
	}

	return exists, nil
}
