package handlers

import (
	"net/http"

	"github.com/kozaktomas/saliency-bias/internal/dataset"
)

// GroupsHandler lists the accepted traits and group labels.
type GroupsHandler struct {
	counts map[string]map[string]int
}

// NewGroupsHandler creates a groups handler. counts maps trait to label to
// number of dataset rows and may be nil when no dataset is loaded.
func NewGroupsHandler(counts map[string]map[string]int) *GroupsHandler {
	return &GroupsHandler{counts: counts}
}

// GroupsResponse is the body of GET /groups.
type GroupsResponse struct {
	Traits []string                  `json:"traits"`
	Groups []string                  `json:"groups"`
	Counts map[string]map[string]int `json:"counts,omitempty"`
}

// List returns the valid traits, labels and dataset counts.
func (h *GroupsHandler) List(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, GroupsResponse{
		Traits: dataset.ValidTraits(),
		Groups: dataset.ValidGroups(),
		Counts: h.counts,
	})
}
