package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kozaktomas/campus-tracker/internal/attendance"
	"github.com/kozaktomas/campus-tracker/internal/config"
	"github.com/kozaktomas/campus-tracker/internal/tracking"
)

func testServer(t *testing.T) *Server {
	t.Helper()

	cfg := config.Load()
	ledger := attendance.NewLedger()
	ledger.Log("person_1", "main_entrance", time.Date(2026, 1, 15, 8, 15, 0, 0, time.UTC), 0.9)
	ledger.Log("person_1", "civil_hall", time.Date(2026, 1, 15, 8, 16, 30, 0, time.UTC), 0.8)
	ledger.Log(cfg.Campus.PrincipalID, "main_entrance", time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC), 0.95)

	journeys := map[int64][]tracking.Segment{
		1: {{FromLocation: "main_entrance", ToLocation: "civil_hall", StartTime: 0, EndTime: 90, Confidence: 1.0}},
		2: {},
	}

	return NewServer(cfg, 8080, "localhost", ledger, journeys)
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	rec := get(t, testServer(t), "/api/v1/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("Expected status 'ok', got '%s'", body["status"])
	}
}

func TestAttendanceEndpoint(t *testing.T) {
	s := testServer(t)

	rec := get(t, s, "/api/v1/attendance?date=2026-01-15")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var body struct {
		Date   string                       `json:"date"`
		Report map[string]attendance.Record `json:"report"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if body.Date != "2026-01-15" {
		t.Errorf("Expected date 2026-01-15, got %s", body.Date)
	}
	record, ok := body.Report["person_1"]
	if !ok {
		t.Fatalf("Expected person_1 in report, got %v", body.Report)
	}
	if record.FirstSeen != "08:15:00" {
		t.Errorf("Expected first seen 08:15:00, got %s", record.FirstSeen)
	}
	if len(record.Visits) != 2 {
		t.Errorf("Expected 2 visits, got %d", len(record.Visits))
	}
}

func TestAttendanceEndpointUnknownDate(t *testing.T) {
	rec := get(t, testServer(t), "/api/v1/attendance?date=1999-01-01")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"report":{}`) {
		t.Errorf("Expected empty report, got %s", rec.Body.String())
	}
}

func TestAttendanceEndpointBadDate(t *testing.T) {
	rec := get(t, testServer(t), "/api/v1/attendance?date=15.1.2026")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rec.Code)
	}
}

func TestPrincipalEndpoint(t *testing.T) {
	rec := get(t, testServer(t), "/api/v1/attendance/principal")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var body struct {
		PrincipalID string                                  `json:"principalId"`
		Movements   map[string]attendance.PrincipalMovement `json:"movements"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	movement, ok := body.Movements["2026-01-15"]
	if !ok {
		t.Fatalf("Expected principal movement for 2026-01-15, got %v", body.Movements)
	}
	if movement.ArrivalTime != "09:00:00" {
		t.Errorf("Expected arrival 09:00:00, got %s", movement.ArrivalTime)
	}
}

func TestJourneysEndpoint(t *testing.T) {
	rec := get(t, testServer(t), "/api/v1/journeys")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var body struct {
		Identities int                          `json:"identities"`
		Segments   int                          `json:"segments"`
		Journeys   map[int64][]tracking.Segment `json:"journeys"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if body.Identities != 2 {
		t.Errorf("Expected 2 identities, got %d", body.Identities)
	}
	if body.Segments != 1 {
		t.Errorf("Expected 1 segment, got %d", body.Segments)
	}
}

func TestCSVEndpoint(t *testing.T) {
	rec := get(t, testServer(t), "/api/v1/attendance.csv")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("Expected text/csv, got %s", ct)
	}
	first := strings.SplitN(rec.Body.String(), "\n", 2)[0]
	if first != "date,person_id,first_seen,location,time,confidence" {
		t.Errorf("Unexpected CSV header: %s", first)
	}
}

func TestClassifyEndpoint(t *testing.T) {
	s := testServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/locations/classify",
		strings.NewReader(`{"filename":"ECE_Hall_Cam2.mp4"}`))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if body["location"] != "electronics_hall" {
		t.Errorf("Expected electronics_hall, got %s", body["location"])
	}
}

func TestCampusDistanceEndpoint(t *testing.T) {
	s := testServer(t)

	rec := get(t, s, "/api/v1/campus/distance?from=main_entrance&to=civil_hall")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var body struct {
		Meters float64 `json:"meters"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	// (380,400) to (320,380) is sqrt(4000) pixels at 0.5 m/px.
	if body.Meters < 31.6 || body.Meters > 31.7 {
		t.Errorf("Unexpected distance: %f", body.Meters)
	}

	rec = get(t, s, "/api/v1/campus/distance?from=main_entrance&to=nowhere")
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown site, got %d", rec.Code)
	}
}

func TestClassifyEndpointRejectsBadBody(t *testing.T) {
	s := testServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/locations/classify", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rec.Code)
	}
}
