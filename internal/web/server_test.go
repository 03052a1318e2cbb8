package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kozaktomas/saliency-bias/internal/database"
	"github.com/kozaktomas/saliency-bias/internal/database/mock"
)

func TestRoutes(t *testing.T) {
	store := mock.NewMockResultStore()
	result := &database.ComparisonResult{
		Key:    "Male_Female_2",
		Group1: database.GroupOutcome{Name: "Male", Chosen: []string{"m.jpg"}},
		Group2: database.GroupOutcome{Name: "Female"},
	}
	if err := store.Put(context.Background(), result.Key, result); err != nil {
		t.Fatalf("seeding store: %v", err)
	}

	srv := httptest.NewServer(NewServer(store, Options{Host: "127.0.0.1", Port: 0}).Router())
	defer srv.Close()

	tests := []struct {
		path       string
		wantStatus int
	}{
		{"/api/v1/health", http.StatusOK},
		{"/api/v1/groups", http.StatusOK},
		{"/api/v1/results", http.StatusOK},
		{"/api/v1/results/Male_Female_2", http.StatusOK},
		{"/api/v1/results/Male_Female_3", http.StatusNotFound},
		{"/api/v1/unknown", http.StatusNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			resp, err := http.Get(srv.URL + tc.path)
			if err != nil {
				t.Fatalf("GET %s: %v", tc.path, err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tc.wantStatus {
				t.Errorf("GET %s = %d; want %d", tc.path, resp.StatusCode, tc.wantStatus)
			}
		})
	}

	t.Run("undefined ratio is reported", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/v1/results/Male_Female_2")
		if err != nil {
			t.Fatalf("GET: %v", err)
		}
		defer resp.Body.Close()

		var body struct {
			Summary struct {
				N1           int  `json:"n1"`
				RatioDefined bool `json:"ratio_defined"`
			} `json:"summary"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body.Summary.N1 != 1 || body.Summary.RatioDefined {
			t.Errorf("unexpected summary %+v", body.Summary)
		}
	})
}
