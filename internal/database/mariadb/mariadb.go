// Package mariadb stores comparison results in MariaDB or MySQL.
package mariadb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/kozaktomas/saliency-bias/internal/constants"

	_ "github.com/go-sql-driver/mysql"
)

// Pool manages a MariaDB connection pool.
type Pool struct {
	db *sql.DB
}

// NewPool creates a new MariaDB connection pool.
func NewPool(dsn string) (*Pool, error) {
	if dsn == "" {
		return nil, errors.New("MariaDB DSN is required")
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MariaDB: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), constants.DatabasePingTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping MariaDB: %w", err)
	}

	return &Pool{db: db}, nil
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

const createResultsTable = `
CREATE TABLE IF NOT EXISTS comparison_results (
    result_key  VARCHAR(255) NOT NULL PRIMARY KEY,
    group1      VARCHAR(64) NOT NULL,
    group2      VARCHAR(64) NOT NULL,
    samples     INT NOT NULL,
    payload     LONGBLOB NOT NULL,
    created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin`

// EnsureSchema creates the results table when it does not exist yet.
func (p *Pool) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, createResultsTable); err != nil {
		return fmt.Errorf("create results table: %w", err)
	}
	return nil
}

// Open connects using dsn, ensures the schema and returns a ready result store.
func Open(ctx context.Context, dsn string) (*ResultRepository, error) {
	pool, err := NewPool(dsn)
	if err != nil {
		return nil, err
	}
	if err := pool.EnsureSchema(ctx); err != nil {
		_ = pool.Close()
		return nil, err
	}
	return NewResultRepository(pool), nil
}
