// Package postgres stores comparison results in PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/kozaktomas/saliency-bias/internal/constants"
	_ "github.com/lib/pq"
)

// Pool manages a PostgreSQL connection pool.
type Pool struct {
	db *sql.DB
}

// NewPool creates a new PostgreSQL connection pool.
func NewPool(url string) (*Pool, error) {
	if url == "" {
		return nil, errors.New("database URL is required")
	}

	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A comparison run is sequential, a handful of connections is plenty.
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)
	db.SetConnMaxIdleTime(10 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), constants.DatabasePingTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Pool{db: db}, nil
}

// DB returns the underlying sql.DB for direct access.
func (p *Pool) DB() *sql.DB {
	return p.db
}

// Close closes the connection pool.
func (p *Pool) Close() error {
	if p.db != nil {
		if err := p.db.Close(); err != nil {
			return fmt.Errorf("closing database connection: %w", err)
		}
	}
	return nil
}

// Open connects, applies pending migrations and returns a ready result store.
func Open(ctx context.Context, url string) (*ResultRepository, error) {
	pool, err := NewPool(url)
	if err != nil {
		return nil, fmt.Errorf("failed to create PostgreSQL pool: %w", err)
	}

	if err := pool.Migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return NewResultRepository(pool), nil
}
