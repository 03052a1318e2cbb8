package cmd

import (
	"context"
	"testing"

	"github.com/kozaktomas/saliency-bias/internal/config"
	"github.com/kozaktomas/saliency-bias/internal/database"
)

func TestOpenReader_BadgerDoesNotHoldLock(t *testing.T) {
	ctx := context.Background()
	cfg := &config.CacheConfig{URL: t.TempDir()}

	reader, release, err := openReader(ctx, cfg)
	if err != nil {
		t.Fatalf("openReader failed: %v", err)
	}
	defer release()

	if _, err := reader.Keys(ctx); err != nil {
		t.Fatalf("Keys failed: %v", err)
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		t.Fatalf("openStore failed while the server reader was idle: %v", err)
	}
	if err := store.Put(ctx, "Black_White_2", &database.ComparisonResult{Samples: 2}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	closeStore(store)

	got, err := reader.Get(ctx, "Black_White_2")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got == nil || got.Samples != 2 {
		t.Errorf("expected result written by the second store, got %+v", got)
	}
}
