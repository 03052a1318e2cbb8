package database_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/kozaktomas/saliency-bias/internal/database"
	"github.com/kozaktomas/saliency-bias/internal/database/mock"
)

func sampleResult() *database.ComparisonResult {
	return &database.ComparisonResult{
		Group1:    database.GroupOutcome{Name: "Black", Chosen: []string{"a.jpg"}, NotChosen: []string{"b.jpg"}},
		Group2:    database.GroupOutcome{Name: "White", Chosen: []string{"c.jpg"}, NotChosen: []string{"d.jpg"}},
		Samples:   3,
		Discarded: 1,
	}
}

func TestResultKey(t *testing.T) {
	tests := []struct {
		g1, g2 string
		n      int
		want   string
	}{
		{"Black", "White", 10000, "Black_White_10000"},
		{"East AsianMale", "IndianFemale", 50, "East AsianMale_IndianFemale_50"},
		{"Male", "Female", 0, "Male_Female_0"},
	}

	for _, tc := range tests {
		if got := database.ResultKey(tc.g1, tc.g2, tc.n); got != tc.want {
			t.Errorf("ResultKey(%q, %q, %d) = %q; want %q", tc.g1, tc.g2, tc.n, got, tc.want)
		}
	}
}

func TestGetOrCompute_ComputesOnce(t *testing.T) {
	store := mock.NewMockResultStore()
	cache := database.NewCache(store)
	ctx := context.Background()

	computes := 0
	compute := func(ctx context.Context) (*database.ComparisonResult, error) {
		computes++
		return sampleResult(), nil
	}

	first, cached, err := cache.GetOrCompute(ctx, "Black_White_3", compute)
	if err != nil {
		t.Fatalf("first GetOrCompute failed: %v", err)
	}
	if cached {
		t.Error("first call must not be served from cache")
	}

	second, cached, err := cache.GetOrCompute(ctx, "Black_White_3", compute)
	if err != nil {
		t.Fatalf("second GetOrCompute failed: %v", err)
	}
	if !cached {
		t.Error("second call must be served from cache")
	}

	if computes != 1 {
		t.Errorf("expected exactly one computation, got %d", computes)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("cached result differs from computed one:\n%+v\n%+v", first, second)
	}
	if second.Key != "Black_White_3" {
		t.Errorf("expected key to be stamped on result, got %q", second.Key)
	}
}

func TestGetOrCompute_DistinctKeys(t *testing.T) {
	cache := database.NewCache(mock.NewMockResultStore())
	ctx := context.Background()

	computes := 0
	compute := func(ctx context.Context) (*database.ComparisonResult, error) {
		computes++
		return sampleResult(), nil
	}

	for _, key := range []string{"Black_White_3", "Black_White_4", "White_Black_3"} {
		if _, _, err := cache.GetOrCompute(ctx, key, compute); err != nil {
			t.Fatalf("GetOrCompute(%s) failed: %v", key, err)
		}
	}
	if computes != 3 {
		t.Errorf("expected one computation per key, got %d", computes)
	}

	keys, err := cache.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys failed: %v", err)
	}
	if !reflect.DeepEqual(keys, []string{"Black_White_3", "Black_White_4", "White_Black_3"}) {
		t.Errorf("unexpected keys %v", keys)
	}
}

func TestGetOrCompute_StaleEntryReturnedAsIs(t *testing.T) {
	store := mock.NewMockResultStore()
	ctx := context.Background()
	stale := &database.ComparisonResult{Key: "Male_Female_10", Samples: 999}
	if err := store.Put(ctx, "Male_Female_10", stale); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	cache := database.NewCache(store)
	got, cached, err := cache.GetOrCompute(ctx, "Male_Female_10", func(ctx context.Context) (*database.ComparisonResult, error) {
		t.Error("compute must not run for an existing key")
		return nil, nil
	})
	if err != nil {
		t.Fatalf("GetOrCompute failed: %v", err)
	}
	if !cached || got.Samples != 999 {
		t.Errorf("expected stale entry to be returned unchanged, got %+v", got)
	}
}

func TestGetOrCompute_ComputeErrorStoresNothing(t *testing.T) {
	store := mock.NewMockResultStore()
	cache := database.NewCache(store)
	boom := errors.New("oracle failed")

	_, _, err := cache.GetOrCompute(context.Background(), "k", func(ctx context.Context) (*database.ComparisonResult, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected compute error, got %v", err)
	}
	if store.PutCalls != 0 {
		t.Errorf("expected no writes, got %d", store.PutCalls)
	}
}

func TestGetOrCompute_StoreErrors(t *testing.T) {
	ctx := context.Background()
	compute := func(ctx context.Context) (*database.ComparisonResult, error) {
		return sampleResult(), nil
	}

	getErr := mock.NewMockResultStore()
	getErr.GetError = errors.New("corrupt")
	if _, _, err := database.NewCache(getErr).GetOrCompute(ctx, "k", compute); err == nil {
		t.Error("expected read error to surface")
	}

	putErr := mock.NewMockResultStore()
	putErr.PutError = errors.New("read-only")
	if _, _, err := database.NewCache(putErr).GetOrCompute(ctx, "k", compute); err == nil {
		t.Error("expected write error to surface")
	}
}

func TestEncodeDecodeResult(t *testing.T) {
	original := sampleResult()
	data, err := database.EncodeResult(original)
	if err != nil {
		t.Fatalf("EncodeResult failed: %v", err)
	}
	decoded, err := database.DecodeResult(data)
	if err != nil {
		t.Fatalf("DecodeResult failed: %v", err)
	}
	if !reflect.DeepEqual(original, decoded) {
		t.Errorf("round trip changed result:\n%+v\n%+v", original, decoded)
	}

	if _, err := database.DecodeResult([]byte("{")); err == nil {
		t.Error("expected error for truncated data")
	}
}
