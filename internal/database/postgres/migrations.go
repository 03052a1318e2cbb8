package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"slices"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const createSchemaMigrations = `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version VARCHAR(255) PRIMARY KEY,
		applied_at TIMESTAMPTZ DEFAULT NOW()
	)`

// scanVersions collects the single version column of rows.
func scanVersions(rows *sql.Rows) ([]string, error) {
	defer rows.Close()

	var versions []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan migration version: %w", err)
		}
		versions = append(versions, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate migration versions: %w", err)
	}
	return versions, nil
}

// pendingMigrations returns the embedded migration files not in applied, in
// lexical order.
func pendingMigrations(applied []string) ([]string, error) {
	files, err := fs.Glob(migrationsFS, "migrations/*.sql")
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}

	var pending []string
	for _, f := range files {
		if name := path.Base(f); !slices.Contains(applied, name) {
			pending = append(pending, name)
		}
	}
	slices.Sort(pending)
	return pending, nil
}

// applyMigration runs one migration file and records it in a single transaction.
func (p *Pool) applyMigration(ctx context.Context, name string) error {
	content, err := migrationsFS.ReadFile("migrations/" + name)
	if err != nil {
		return fmt.Errorf("read migration %s: %w", name, err)
	}

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction for %s: %w", name, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, string(content)); err != nil {
		return fmt.Errorf("execute migration %s: %w", name, err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES ($1)", name); err != nil {
		return fmt.Errorf("record migration %s: %w", name, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration %s: %w", name, err)
	}
	return nil
}

// Migrate applies all pending migrations
func (p *Pool) Migrate(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, createSchemaMigrations); err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}

	applied, err := p.MigrationsApplied(ctx)
	if err != nil {
		return err
	}
	pending, err := pendingMigrations(applied)
	if err != nil {
		return err
	}

	for _, name := range pending {
		if err := p.applyMigration(ctx, name); err != nil {
			return err
		}
		slog.Info("applied migration", "version", name)
	}
	return nil
}

// MigrationsApplied returns the list of applied migrations
func (p *Pool) MigrationsApplied(ctx context.Context) ([]string, error) {
	rows, err := p.db.QueryContext(ctx, "SELECT version FROM schema_migrations ORDER BY version")
	if err != nil {
		return nil, fmt.Errorf("query applied migrations: %w", err)
	}
	return scanVersions(rows)
}
