package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kozaktomas/saliency-bias/internal/database"
)

// ResultRepository provides PostgreSQL-backed comparison result storage
type ResultRepository struct {
	pool *Pool
}

var _ database.ResultStore = (*ResultRepository)(nil)

// NewResultRepository creates a new PostgreSQL result repository
func NewResultRepository(pool *Pool) *ResultRepository {
	return &ResultRepository{pool: pool}
}

// Get retrieves a result by key, returns nil if not found
func (r *ResultRepository) Get(ctx context.Context, key string) (*database.ComparisonResult, error) {
	var payload []byte
	err := r.pool.db.QueryRowContext(ctx,
		`SELECT payload FROM comparison_results WHERE result_key = $1`, key,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get result: %w", err)
	}
	return database.DecodeResult(payload)
}

// Put stores a result, replacing any previous entry with the same key
func (r *ResultRepository) Put(ctx context.Context, key string, result *database.ComparisonResult) error {
	payload, err := database.EncodeResult(result)
	if err != nil {
		return err
	}

	_, err = r.pool.db.ExecContext(ctx, `
		INSERT INTO comparison_results (result_key, group1, group2, samples, payload)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (result_key) DO UPDATE SET
			group1 = EXCLUDED.group1,
			group2 = EXCLUDED.group2,
			samples = EXCLUDED.samples,
			payload = EXCLUDED.payload,
			updated_at = NOW()
	`, key, result.Group1.Name, result.Group2.Name, result.Samples, payload)
	if err != nil {
		return fmt.Errorf("put result: %w", err)
	}
	return nil
}

// Keys returns all stored keys in lexical order
func (r *ResultRepository) Keys(ctx context.Context) ([]string, error) {
	rows, err := r.pool.db.QueryContext(ctx, `SELECT result_key FROM comparison_results ORDER BY result_key COLLATE "C"`)
	if err != nil {
		return nil, fmt.Errorf("list result keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan result key: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate result keys: %w", err)
	}
	return keys, nil
}

// Close closes the underlying pool
func (r *ResultRepository) Close() error {
	return r.pool.Close()
}
