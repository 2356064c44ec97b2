package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNoDatabaseURL = errors.New("database url is empty")

// NewPool construye y devuelve un pool de conexiones configurado.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	if databaseURL == "" {
		return nil, ErrNoDatabaseURL
	}
	poolCfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	poolCfg.MaxConns = 10
	poolCfg.MinConns = 1
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	poolCfg.HealthCheckPeriod = 30 * time.Second
	poolCfg.ConnConfig.ConnectTimeout = 5 * time.Second

	return pgxpool.NewWithConfig(ctx, poolCfg)
}

// Ping verifica conectividad con la base de datos.
func Ping(ctx context.Context, pool *pgxpool.Pool) error {
	return pool.Ping(ctx)
}

// Migrate crea las tablas si no existen. Es idempotente.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for i, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate step %d: %w", i+1, err)
		}
	}
	return nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		user_id           BIGSERIAL PRIMARY KEY,
		phone_number      VARCHAR(20) NOT NULL UNIQUE,
		password_hash     TEXT NOT NULL,
		user_name         VARCHAR(50) NOT NULL,
		registration_time TIMESTAMPTZ NOT NULL,
		last_login_time   TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS books (
		isbn         VARCHAR(20) PRIMARY KEY,
		name         TEXT NOT NULL,
		author       TEXT NOT NULL,
		introduction TEXT NOT NULL DEFAULT '',
		image_url    TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS inventories (
		inventory_id BIGSERIAL PRIMARY KEY,
		isbn         VARCHAR(20) NOT NULL REFERENCES books (isbn),
		store_time   TIMESTAMPTZ NOT NULL,
		status       VARCHAR(20) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS borrowing_records (
		record_id      BIGSERIAL PRIMARY KEY,
		user_id        BIGINT NOT NULL REFERENCES users (user_id),
		inventory_id   BIGINT NOT NULL REFERENCES inventories (inventory_id),
		borrowing_time TIMESTAMPTZ NOT NULL,
		return_time    TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS borrowing_records_user_idx ON borrowing_records (user_id, borrowing_time DESC)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS borrowing_records_active_idx
		ON borrowing_records (inventory_id) WHERE return_time IS NULL`,
}
