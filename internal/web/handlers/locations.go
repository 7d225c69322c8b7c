package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/kozaktomas/campus-tracker/internal/location"
)

// LocationsHandler classifies camera filenames into campus locations.
type LocationsHandler struct {
	classifier *location.PatternClassifier
}

func NewLocationsHandler(classifier *location.PatternClassifier) *LocationsHandler {
	return &LocationsHandler{classifier: classifier}
}

type classifyRequest struct {
	Filename string `json:"filename"`
}

// Classify handles POST /api/v1/locations/classify.
func (h *LocationsHandler) Classify(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	if req.Filename == "" {
		respondError(w, http.StatusBadRequest, "filename is required")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"filename": req.Filename,
		"location": h.classifier.Classify(req.Filename),
	})
}
