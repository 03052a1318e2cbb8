// Package badger stores comparison results in an embedded BadgerDB directory.
// It is the default result store; every Put is a single atomic transaction.
package badger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/kozaktomas/saliency-bias/internal/database"
)

const keyPrefix = "result:"

// Config holds configuration for a BadgerDB instance.
type Config struct {
	// Path is the directory for BadgerDB files.
	// Ignored when InMemory is true.
	Path string

	// InMemory enables in-memory mode (no disk persistence).
	InMemory bool

	// SyncWrites enables synchronous writes for durability.
	SyncWrites bool

	// Logger receives BadgerDB's internal log output.
	// If nil, BadgerDB's internal logging is disabled.
	Logger *slog.Logger
}

// DefaultConfig returns durable settings for the given directory.
func DefaultConfig(path string) Config {
	return Config{Path: path, SyncWrites: true}
}

// InMemoryConfig returns configuration for tests.
func InMemoryConfig() Config {
	return Config{InMemory: true}
}

// badgerLogger adapts slog.Logger to BadgerDB's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...any) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Warningf(format string, args ...any) {
	l.logger.Warn(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Infof(format string, args ...any) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l *badgerLogger) Debugf(format string, args ...any) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

// Store implements database.ResultStore on top of BadgerDB.
type Store struct {
	db *badger.DB
}

var _ database.ResultStore = (*Store)(nil)

// Open opens (creating if needed) a BadgerDB result store.
func Open(cfg Config) (*Store, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for persistent database")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)

	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}
	return &Store{db: db}, nil
}

// Get implements database.ResultReader.
func (s *Store) Get(ctx context.Context, key string) (*database.ComparisonResult, error) {
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPrefix + key))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("badger get %s: %w", key, err)
	}
	return database.DecodeResult(data)
}

// Put implements database.ResultWriter.
func (s *Store) Put(ctx context.Context, key string, result *database.ComparisonResult) error {
	data, err := database.EncodeResult(result)
	if err != nil {
		return err
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyPrefix+key), data)
	})
	if err != nil {
		return fmt.Errorf("badger put %s: %w", key, err)
	}
	return nil
}

// Keys implements database.ResultReader. Badger iterates in byte order, so the
// keys come back sorted.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, strings.TrimPrefix(string(it.Item().Key()), keyPrefix))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("badger list keys: %w", err)
	}
	return keys, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("closing badger database: %w", err)
	}
	return nil
}
