package handlers

import (
	"net/http"
	"time"

	"github.com/kozaktomas/campus-tracker/internal/attendance"
)

// AttendanceHandler serves the attendance ledger of a processed run.
type AttendanceHandler struct {
	ledger      *attendance.Ledger
	principalID string
}

func NewAttendanceHandler(ledger *attendance.Ledger, principalID string) *AttendanceHandler {
	return &AttendanceHandler{ledger: ledger, principalID: principalID}
}

// Report handles GET /api/v1/attendance?date=2006-01-02. Without a date
// it returns today's report; an unknown date yields an empty report, not
// an error.
func (h *AttendanceHandler) Report(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		respondError(w, http.StatusBadRequest, "date must be formatted as 2006-01-02")
		return
	}

	report := h.ledger.Report(date)
	if report == nil {
		report = map[string]attendance.Record{}
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"date":   date,
		"report": report,
	})
}

// Principal handles GET /api/v1/attendance/principal.
func (h *AttendanceHandler) Principal(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"principalId": h.principalID,
		"movements":   h.ledger.PrincipalTracking(h.principalID),
	})
}

// CSV handles GET /api/v1/attendance.csv.
func (h *AttendanceHandler) CSV(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="attendance.csv"`)
	if err := h.ledger.WriteCSV(w); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to write CSV")
	}
}
