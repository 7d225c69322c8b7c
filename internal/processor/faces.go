package processor

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kozaktomas/campus-tracker/internal/detection"
)

// faceObservation is one face embedding extracted by the external
// recognition service, keyed back to its detection.
type faceObservation struct {
	TrackID    int       `json:"trackId"`
	FrameIndex int       `json:"frameIndex"`
	Embedding  []float32 `json:"embedding"`
}

// backfillIdentities matches sidecar face observations against the
// known-face registry and writes recognized identities onto the
// corresponding detections. Observation files are named after the
// camera key they belong to; files for unknown cameras are skipped.
func (p *Processor) backfillIdentities(facesDir string, byCamera map[string][]detection.Detection) error {
	entries, err := os.ReadDir(facesDir)
	if err != nil {
		return fmt.Errorf("failed to read faces directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		camera := strings.TrimSuffix(entry.Name(), ".json")
		dets, ok := byCamera[camera]
		if !ok {
			continue
		}

		data, err := os.ReadFile(filepath.Join(facesDir, entry.Name()))
		if err != nil {
			return fmt.Errorf("failed to read face observations %s: %w", entry.Name(), err)
		}

		var observations []faceObservation
		if err := json.Unmarshal(data, &observations); err != nil {
			return fmt.Errorf("failed to parse face observations %s: %w", entry.Name(), err)
		}

		for _, obs := range observations {
			match, ok := p.registry.Match(obs.Embedding)
			if !ok {
				continue
			}
			for i := range dets {
				if dets[i].TrackID == obs.TrackID && dets[i].FrameIndex == obs.FrameIndex {
					dets[i].SetIdentity(match.Identity)
				}
			}
		}
	}

	return nil
}
