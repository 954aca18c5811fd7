package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	// register the postgres driver with database/sql.
	_ "github.com/lib/pq"
)

const pingTimeout = 5 * time.Second

var ErrEmptyDSN = errors.New("postgres dsn is empty")

type PostgresOptions struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// NewPostgres - opens a pool and checks the connection.
func NewPostgres(ctx context.Context, opts PostgresOptions) (*sql.DB, error) {
	if strings.TrimSpace(opts.DSN) == "" {
		return nil, ErrEmptyDSN
	}

	conn, err := sql.Open("postgres", opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("can't open database: %w", err)
	}

	if opts.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		conn.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		conn.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err = conn.PingContext(pingCtx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("can't connect to database: %w", err)
	}

	return conn, nil
}
