package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // Postgres driver
)

const (
	maxOpenConns    = 25
	maxIdleConns    = 25
	connMaxLifetime = 5 * time.Minute
)

// Connect открывает пул соединений и проверяет его ping'ом с таймаутом.
func Connect(dsn string, timeout time.Duration) (*sql.DB, error) {
	pool, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create database handle: %w", err)
	}

	pool.SetMaxOpenConns(maxOpenConns)
	pool.SetMaxIdleConns(maxIdleConns)
	pool.SetConnMaxLifetime(connMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err = pool.PingContext(ctx); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("failed to ping database within %v: %w", timeout, err)
	}

	return pool, nil
}
