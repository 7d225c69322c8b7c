package handlers

import (
	"net/http"

	"github.com/kozaktomas/campus-tracker/internal/tracking"
)

// JourneysHandler serves the reconstructed journeys of a processed run.
type JourneysHandler struct {
	journeys map[int64][]tracking.Segment
}

func NewJourneysHandler(journeys map[int64][]tracking.Segment) *JourneysHandler {
	return &JourneysHandler{journeys: journeys}
}

// List handles GET /api/v1/journeys.
func (h *JourneysHandler) List(w http.ResponseWriter, r *http.Request) {
	segments := 0
	for _, journey := range h.journeys {
		segments += len(journey)
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"identities": len(h.journeys),
		"segments":   segments,
		"journeys":   h.journeys,
	})
}
