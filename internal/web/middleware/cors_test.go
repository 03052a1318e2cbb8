package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	handler := CORS([]string{"https://lab.example.org"})(next)

	tests := []struct {
		name       string
		method     string
		origin     string
		wantOrigin string
		wantStatus int
	}{
		{"listed origin", http.MethodGet, "https://lab.example.org", "https://lab.example.org", http.StatusTeapot},
		{"localhost", http.MethodGet, "http://localhost:5173", "http://localhost:5173", http.StatusTeapot},
		{"localhost lookalike", http.MethodGet, "http://localhost.evil.com", "", http.StatusTeapot},
		{"unknown origin", http.MethodGet, "https://other.example.org", "", http.StatusTeapot},
		{"no origin", http.MethodGet, "", "", http.StatusTeapot},
		{"preflight", http.MethodOptions, "https://lab.example.org", "https://lab.example.org", http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, "/api/v1/results", nil)
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, req)

			if got := recorder.Header().Get("Access-Control-Allow-Origin"); got != tc.wantOrigin {
				t.Errorf("Allow-Origin = %q; want %q", got, tc.wantOrigin)
			}
			if recorder.Code != tc.wantStatus {
				t.Errorf("status = %d; want %d", recorder.Code, tc.wantStatus)
			}
		})
	}
}
