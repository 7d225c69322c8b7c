package handlers

import (
	"net/http"

	"github.com/kozaktomas/campus-tracker/internal/campusmap"
)

// CampusHandler answers geometry questions about the camera layout.
type CampusHandler struct {
	campusMap *campusmap.Map
}

func NewCampusHandler(m *campusmap.Map) *CampusHandler {
	return &CampusHandler{campusMap: m}
}

// Distance handles GET /api/v1/campus/distance?from=SITE&to=SITE.
func (h *CampusHandler) Distance(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" || to == "" {
		respondError(w, http.StatusBadRequest, "from and to are required")
		return
	}

	meters, ok := h.campusMap.SiteDistanceMeters(from, to)
	if !ok {
		respondError(w, http.StatusNotFound, "unknown camera site")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"from":   from,
		"to":     to,
		"meters": meters,
	})
}
