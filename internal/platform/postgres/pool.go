// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package postgres opens the pgx pool behind every marketplace repository and
runs multi-statement writes in a transaction (tx.go).

Repositories take a [Querier], so the same code runs against the pool or a
[pgx.Tx].
*/
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xcalibur215/mmhub/internal/platform/constants"
)

// # Pool Tuning

const (
	maxConns          = 25
	minConns          = 2
	maxConnLifetime   = time.Hour
	maxConnIdleTime   = 10 * time.Minute
	healthCheckPeriod = time.Minute
	connectTimeout    = 5 * time.Second
	pingTimeout       = 2 * time.Second
)

// Querier is what repositories need from a pool or a transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Pinger is satisfied by [*pgxpool.Pool].
type Pinger interface {
	Ping(ctx context.Context) error
}

/*
NewPool connects to dsn and pings once before returning.

Parameters:
  - ctx: bounds the initial connect and ping
  - dsn: postgres:// URL or key=value string
  - logger: receives the postgres_pool_ready event

Returns:
  - *pgxpool.Pool: ready for queries
  - error: wrapped parse, connect or ping failure
*/
func NewPool(ctx context.Context, dsn string, logger *slog.Logger) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: parse dsn: %w", err)
	}
	tune(config)

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, config)
	if err != nil {
		return nil, fmt.Errorf("postgres: open pool: %w", err)
	}

	if err := Ping(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("postgres_pool_ready",
		slog.Int("max_conns", int(config.MaxConns)),
		slog.Int("total_conns", int(pool.Stat().TotalConns())),
	)
	return pool, nil
}

// tune applies the pool limits and caps every statement at the request timeout.
func tune(config *pgxpool.Config) {
	config.MaxConns = maxConns
	config.MinConns = minConns
	config.MaxConnLifetime = maxConnLifetime
	config.MaxConnIdleTime = maxConnIdleTime
	config.HealthCheckPeriod = healthCheckPeriod
	config.ConnConfig.ConnectTimeout = connectTimeout

	timeout := statementTimeoutQuery(constants.GlobalRequestTimeout)
	config.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		_, err := conn.Exec(ctx, timeout)
		return err
	}
}

// Ping checks the database within [pingTimeout]. Used by the readiness probe.
func Ping(ctx context.Context, db Pinger) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := db.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: ping: %w", err)
	}
	return nil
}

func statementTimeoutQuery(timeout time.Duration) string {
	return fmt.Sprintf("SET statement_timeout = '%ds'", int(timeout.Seconds()))
}
