package detection

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadStream reads one camera's time-ordered detection stream from a JSON
// file. Timestamps are derived from the frame index and the given frame
// rate. A missing file yields an empty stream: the processor runs
// unattended over batches and missing input is not an error.
func LoadStream(path string, fps float64) ([]Detection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Detection{}, nil
		}
		return nil, fmt.Errorf("reading detection stream %s: %w", path, err)
	}
	if len(data) == 0 {
		return []Detection{}, nil
	}

	var dets []Detection
	if err := json.Unmarshal(data, &dets); err != nil {
		return nil, fmt.Errorf("parsing detection stream %s: %w", path, err)
	}

	if fps <= 0 {
		fps = 30.0
	}
	for i := range dets {
		// Frame dimensions are unknown at load time, so only the origin
		// side of the box gets clamped here.
		dets[i].BBox = dets[i].BBox.Clamp(0, 0)
		dets[i].Timestamp = float64(dets[i].FrameIndex) / fps
		if err := dets[i].Validate(); err != nil {
			return nil, fmt.Errorf("stream %s entry %d: %w", path, i, err)
		}
	}
	return dets, nil
}
