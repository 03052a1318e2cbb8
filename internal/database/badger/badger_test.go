package badger

import (
	"context"
	"reflect"
	"testing"

	"github.com/kozaktomas/saliency-bias/internal/database"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(InMemoryConfig())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_GetMissing(t *testing.T) {
	store := openTestStore(t)

	got, err := store.Get(context.Background(), "Black_White_10")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing key, got %+v", got)
	}
}

func TestStore_PutGet(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	result := &database.ComparisonResult{
		Key:     "Black_White_10",
		Group1:  database.GroupOutcome{Name: "Black", Chosen: []string{"a"}, NotChosen: []string{}},
		Group2:  database.GroupOutcome{Name: "White", Chosen: []string{"b", "c"}, NotChosen: []string{"d"}},
		Samples: 10,
	}
	if err := store.Put(ctx, result.Key, result); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := store.Get(ctx, result.Key)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !reflect.DeepEqual(got, result) {
		t.Errorf("Get returned %+v; want %+v", got, result)
	}
}

func TestStore_PutOverwrites(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	store.Put(ctx, "k", &database.ComparisonResult{Samples: 1})
	store.Put(ctx, "k", &database.ComparisonResult{Samples: 2})

	got, err := store.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Samples != 2 {
		t.Errorf("expected last write to win, got samples=%d", got.Samples)
	}
}

func TestStore_Keys(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for _, key := range []string{"White_Black_5", "Black_White_5", "Male_Female_5"} {
		if err := store.Put(ctx, key, &database.ComparisonResult{Key: key}); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}

	keys, err := store.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys failed: %v", err)
	}
	want := []string{"Black_White_5", "Male_Female_5", "White_Black_5"}
	if !reflect.DeepEqual(keys, want) {
		t.Errorf("Keys() = %v; want %v", keys, want)
	}
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := Open(DefaultConfig(dir))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := store.Put(ctx, "Male_Female_3", &database.ComparisonResult{Samples: 3}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := Open(DefaultConfig(dir))
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Get(ctx, "Male_Female_3")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got == nil || got.Samples != 3 {
		t.Errorf("expected persisted result, got %+v", got)
	}
}

func TestOpen_RequiresPath(t *testing.T) {
	if _, err := Open(Config{}); err == nil {
		t.Error("expected error without path")
	}
}

func TestOnDemandReader_LeavesDirectoryUnlocked(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	seed, err := Open(DefaultConfig(dir))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := seed.Put(ctx, "Black_White_3", &database.ComparisonResult{Samples: 3}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := seed.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reader := database.NewOnDemandReader(func(ctx context.Context) (database.ResultStore, error) {
		return Open(DefaultConfig(dir))
	})
	keys, err := reader.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys failed: %v", err)
	}
	if !reflect.DeepEqual(keys, []string{"Black_White_3"}) {
		t.Errorf("Keys() = %v", keys)
	}

	// A run writing to the same directory while the reader is idle.
	writer, err := Open(DefaultConfig(dir))
	if err != nil {
		t.Fatalf("second store could not open directory held by idle reader: %v", err)
	}
	if err := writer.Put(ctx, "Male_Female_5", &database.ComparisonResult{Samples: 5}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	got, err := reader.Get(ctx, "Male_Female_5")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got == nil || got.Samples != 5 {
		t.Errorf("expected reader to see the new result, got %+v", got)
	}
}
