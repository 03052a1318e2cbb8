package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kozaktomas/saliency-bias/internal/config"
	"github.com/kozaktomas/saliency-bias/internal/database"
	"github.com/kozaktomas/saliency-bias/internal/database/badger"
	"github.com/kozaktomas/saliency-bias/internal/database/mariadb"
	"github.com/kozaktomas/saliency-bias/internal/database/postgres"
)

// openStore opens the result store selected by CACHE_URL. Callers close it
// when the command finishes.
func openStore(ctx context.Context, cfg *config.CacheConfig) (database.ResultStore, error) {
	backend := cfg.CacheBackend()
	slog.Debug("opening result store", "backend", backend)

	switch backend {
	case "postgres":
		store, err := postgres.Open(ctx, cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL result store: %w", err)
		}
		return store, nil
	case "mariadb":
		store, err := mariadb.Open(ctx, cfg.MySQLDSN())
		if err != nil {
			return nil, fmt.Errorf("failed to open MariaDB result store: %w", err)
		}
		return store, nil
	default:
		store, err := badger.Open(badger.DefaultConfig(cfg.URL))
		if err != nil {
			return nil, fmt.Errorf("failed to open result store at %s: %w", cfg.URL, err)
		}
		return store, nil
	}
}

// closeStore closes a store, logging instead of failing the command.
func closeStore(store database.ResultStore) {
	if err := store.Close(); err != nil {
		slog.Warn("closing result store failed", "error", err)
	}
}

// openReader returns the reader the web server queries. A badger directory is
// locked by whichever process opens it, so for badger the store is opened per
// request and compare runs can write while the server is up. SQL stores are
// held open. The returned func releases whatever was held.
func openReader(ctx context.Context, cfg *config.CacheConfig) (database.ResultReader, func(), error) {
	switch cfg.CacheBackend() {
	case "postgres", "mariadb":
		store, err := openStore(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { closeStore(store) }, nil
	default:
		reader := database.NewOnDemandReader(func(ctx context.Context) (database.ResultStore, error) {
			return openStore(ctx, cfg)
		})
		return reader, func() {}, nil
	}
}
