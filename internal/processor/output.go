package processor

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// WriteOutputs persists a run to journeys.json and attendance.json in
// the output directory, creating it when needed.
func WriteOutputs(result *Result, outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := writeJSON(filepath.Join(outDir, "journeys.json"), result.Journeys); err != nil {
		return err
	}

	if err := writeJSON(filepath.Join(outDir, "attendance.json"), result.Ledger.FullReport()); err != nil {
		return err
	}

	return writeJSON(filepath.Join(outDir, "stats.json"), result.Stats)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}
