package postgres

import (
	"reflect"
	"testing"
)

func TestPendingMigrations(t *testing.T) {
	pending, err := pendingMigrations(nil)
	if err != nil {
		t.Fatalf("pendingMigrations failed: %v", err)
	}
	if want := []string{"001_comparison_results.sql"}; !reflect.DeepEqual(pending, want) {
		t.Errorf("pending = %v; want %v", pending, want)
	}

	pending, err = pendingMigrations([]string{"001_comparison_results.sql"})
	if err != nil {
		t.Fatalf("pendingMigrations failed: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("expected nothing pending, got %v", pending)
	}
}

func TestNewPool_RequiresURL(t *testing.T) {
	if _, err := NewPool(""); err == nil {
		t.Error("expected error for empty URL")
	}
}
