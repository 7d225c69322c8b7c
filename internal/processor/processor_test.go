package processor

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kozaktomas/campus-tracker/internal/config"
	"github.com/kozaktomas/campus-tracker/internal/recognizer"
)

func writeStream(t *testing.T, dir, name string, dets []map[string]any) {
	t.Helper()
	data, err := json.Marshal(dets)
	if err != nil {
		t.Fatalf("Failed to marshal stream: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		t.Fatalf("Failed to write stream: %v", err)
	}
}

func det(trackID, frameIndex int, confidence float64) map[string]any {
	return map[string]any{
		"trackId":    trackID,
		"bbox":       map[string]int{"x1": 10, "y1": 10, "x2": 50, "y2": 90},
		"confidence": confidence,
		"frameIndex": frameIndex,
	}
}

func TestRunPipeline(t *testing.T) {
	cfg := config.Load()
	dir := t.TempDir()

	// Filenames resolve through the pattern table: MainEntrance_Cam1
	// becomes main_entrance, Civil_Block becomes civil_hall. With
	// FPS=1 the entrance track ends at t=0 and the hall track starts
	// at t=90, matching the configured 90 second travel time.
	writeStream(t, dir, "MainEntrance_Cam1.json", []map[string]any{
		det(1, 0, 0.9),
	})
	writeStream(t, dir, "Civil_Block.json", []map[string]any{
		det(7, 90, 0.8),
	})

	p := New(cfg, nil)
	result, err := p.Run(Options{
		DetectionsDir: dir,
		FPS:           1,
		Quiet:         true,
		BaseTime:      time.Date(2026, 1, 15, 8, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(result.Errors) != 0 {
		t.Fatalf("Expected no errors, got %v", result.Errors)
	}

	if result.DetectionCount != 2 {
		t.Errorf("Expected 2 detections, got %d", result.DetectionCount)
	}
	if len(result.Cameras) != 2 {
		t.Fatalf("Expected 2 cameras, got %v", result.Cameras)
	}
	if result.Cameras[0] != "civil_hall" || result.Cameras[1] != "main_entrance" {
		t.Errorf("Unexpected camera keys: %v", result.Cameras)
	}

	// The hall sighting 90s after the entrance sighting hands off to
	// the same identity, so the run yields one person and one segment.
	if result.IdentityCount != 1 {
		t.Errorf("Expected 1 identity, got %d", result.IdentityCount)
	}
	if result.SegmentCount != 1 {
		t.Errorf("Expected 1 segment, got %d", result.SegmentCount)
	}

	// Without a face match nothing reaches the attendance ledger.
	if report := result.Ledger.Report("2026-01-15"); len(report) != 0 {
		t.Errorf("Expected empty report without recognized faces, got %v", report)
	}
}

func TestRunUnknownCameraKeepsFilename(t *testing.T) {
	cfg := config.Load()
	dir := t.TempDir()

	writeStream(t, dir, "parking_lot.json", []map[string]any{
		det(3, 0, 0.5),
	})

	p := New(cfg, nil)
	result, err := p.Run(Options{DetectionsDir: dir, FPS: 30, Quiet: true})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(result.Cameras) != 1 || result.Cameras[0] != "parking_lot" {
		t.Errorf("Expected fallback camera key 'parking_lot', got %v", result.Cameras)
	}
}

func TestRunMergesStreamsForOneLocation(t *testing.T) {
	cfg := config.Load()
	dir := t.TempDir()

	writeStream(t, dir, "Class_Room_A.json", []map[string]any{det(1, 0, 0.9)})
	writeStream(t, dir, "Class_Room_B.json", []map[string]any{det(2, 10, 0.9)})

	p := New(cfg, nil)
	result, err := p.Run(Options{DetectionsDir: dir, FPS: 1, Quiet: true})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(result.Cameras) != 1 || result.Cameras[0] != "classroom" {
		t.Errorf("Expected merged camera 'classroom', got %v", result.Cameras)
	}
	if result.DetectionCount != 2 {
		t.Errorf("Expected 2 detections, got %d", result.DetectionCount)
	}
}

func TestRunBackfillsRecognizedIdentity(t *testing.T) {
	cfg := config.Load()
	dir := t.TempDir()
	facesDir := t.TempDir()

	// Track 1 has a face observation for its first frame only; track 2
	// never gets one and must stay out of the attendance ledger.
	writeStream(t, dir, "MainEntrance_Cam1.json", []map[string]any{
		det(1, 0, 0.9),
		det(1, 5, 0.8),
		det(2, 0, 0.7),
	})

	embedding := []float32{1, 0, 0}
	obs, _ := json.Marshal([]map[string]any{
		{"trackId": 1, "frameIndex": 0, "embedding": embedding},
	})
	if err := os.WriteFile(filepath.Join(facesDir, "main_entrance.json"), obs, 0o644); err != nil {
		t.Fatalf("Failed to write observations: %v", err)
	}

	registry := recognizer.NewRegistry(0.5)
	registry.Register("Jiří Novák", embedding)

	p := New(cfg, registry)
	result, err := p.Run(Options{
		DetectionsDir: dir,
		FacesDir:      facesDir,
		FPS:           1,
		Quiet:         true,
		BaseTime:      time.Date(2026, 1, 15, 8, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(result.Errors) != 0 {
		t.Fatalf("Expected no errors, got %v", result.Errors)
	}

	report := result.Ledger.Report("2026-01-15")
	if len(report) != 1 {
		t.Fatalf("Expected only the recognized person in report, got %v", report)
	}
	record, ok := report["jiri_novak"]
	if !ok {
		t.Fatalf("Expected recognized person 'jiri_novak' in report, got %v", report)
	}
	// The identity recognized on frame 0 covers the later sighting of
	// the same track as well.
	if record.TotalDetections != 2 {
		t.Errorf("Expected 2 detections for jiri_novak, got %d", record.TotalDetections)
	}
}

func TestWriteOutputs(t *testing.T) {
	cfg := config.Load()
	dir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "out")

	writeStream(t, dir, "MainEntrance_Cam1.json", []map[string]any{det(1, 0, 0.9)})

	p := New(cfg, nil)
	result, err := p.Run(Options{DetectionsDir: dir, FPS: 1, Quiet: true})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if err := WriteOutputs(result, outDir); err != nil {
		t.Fatalf("WriteOutputs failed: %v", err)
	}

	for _, name := range []string{"journeys.json", "attendance.json"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("Expected %s to exist: %v", name, err)
		}
	}
}
