package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kozaktomas/saliency-bias/internal/analysis"
	"github.com/kozaktomas/saliency-bias/internal/database"
)

// ResultsHandler serves cached comparison results.
type ResultsHandler struct {
	reader database.ResultReader
}

// NewResultsHandler creates a new results handler
func NewResultsHandler(reader database.ResultReader) *ResultsHandler {
	return &ResultsHandler{reader: reader}
}

// ResultResponse carries a stored result together with its summary.
type ResultResponse struct {
	Result  *database.ComparisonResult `json:"result"`
	Summary analysis.Summary           `json:"summary"`
}

// List returns all stored result keys.
func (h *ResultsHandler) List(w http.ResponseWriter, r *http.Request) {
	keys, err := h.reader.Keys(r.Context())
	if err != nil {
		slog.Error("listing result keys failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to list results")
		return
	}
	if keys == nil {
		keys = []string{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"keys": keys})
}

// Get returns one stored result.
func (h *ResultsHandler) Get(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if key == "" {
		respondError(w, http.StatusBadRequest, "missing result key")
		return
	}

	result, err := h.reader.Get(r.Context(), key)
	if err != nil {
		slog.Error("reading result failed", "key", sanitizeForLog(key), "error", err)
		respondError(w, http.StatusInternalServerError, "failed to read result")
		return
	}
	if result == nil {
		respondError(w, http.StatusNotFound, "result not found")
		return
	}

	respondJSON(w, http.StatusOK, ResultResponse{
		Result:  result,
		Summary: analysis.Summarize(result),
	})
}
