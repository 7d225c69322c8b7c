// Package detection defines the per-camera, per-frame person observation
// record produced by the external detector/tracker, together with its
// validation rules. Every other package consumes this vocabulary.
package detection

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marks a contract violation by the upstream detector,
// such as a negative frame index or a degenerate bounding box. All other
// bad input degrades to empty results instead of failing.
var ErrInvalidInput = errors.New("invalid detection input")

// UntrackedID is the sentinel track id used when the upstream tracker
// could not link a detection to a track.
const UntrackedID = -1

// BBox is an axis-aligned box in pixel coordinates with X1 < X2 and
// Y1 < Y2 once clamped.
type BBox struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Clamp limits the box to the frame dimensions. Width or height of zero
// means the dimension is unknown and is left unclamped.
func (b BBox) Clamp(width, height int) BBox {
	c := b
	if c.X1 < 0 {
		c.X1 = 0
	}
	if c.Y1 < 0 {
		c.Y1 = 0
	}
	if width > 0 && c.X2 > width {
		c.X2 = width
	}
	if height > 0 && c.Y2 > height {
		c.Y2 = height
	}
	return c
}

// Valid reports whether the box has positive area.
func (b BBox) Valid() bool {
	return b.X2 > b.X1 && b.Y2 > b.Y1
}

// IoU calculates Intersection over Union between two bounding boxes.
func IoU(a, b BBox) float64 {
	x1 := max(a.X1, b.X1)
	y1 := max(a.Y1, b.Y1)
	x2 := min(a.X2, b.X2)
	y2 := min(a.Y2, b.Y2)

	if x2 <= x1 || y2 <= y1 {
		return 0 // No intersection
	}

	intersection := float64((x2 - x1) * (y2 - y1))
	areaA := float64((a.X2 - a.X1) * (a.Y2 - a.Y1))
	areaB := float64((b.X2 - b.X1) * (b.Y2 - b.Y1))
	union := areaA + areaB - intersection

	if union <= 0 {
		return 0
	}

	return intersection / union
}

// Detection is one observation of a person in one frame of one camera
// stream. Location and Identity are back-filled after creation by the
// location classifier and the face recognizer; nil means "not yet known".
type Detection struct {
	TrackID    int     `json:"trackId"`
	BBox       BBox    `json:"bbox"`
	Confidence float64 `json:"confidence"`
	FrameIndex int     `json:"frameIndex"`
	Timestamp  float64 `json:"timestamp"`
	Location   *string `json:"location,omitempty"`
	Identity   *string `json:"identity,omitempty"`
}

// Validate checks the invariants the upstream detector must honor. The
// caller is expected to have clamped the box first.
func (d *Detection) Validate() error {
	if d.FrameIndex < 0 {
		return fmt.Errorf("%w: frame index %d", ErrInvalidInput, d.FrameIndex)
	}
	if d.Confidence < 0 || d.Confidence > 1 {
		return fmt.Errorf("%w: confidence %f outside [0,1]", ErrInvalidInput, d.Confidence)
	}
	if !d.BBox.Valid() {
		return fmt.Errorf("%w: degenerate bbox (%d,%d,%d,%d)", ErrInvalidInput,
			d.BBox.X1, d.BBox.Y1, d.BBox.X2, d.BBox.Y2)
	}
	return nil
}

// SetLocation back-fills the location label.
func (d *Detection) SetLocation(location string) {
	d.Location = &location
}

// SetIdentity back-fills the recognized person id.
func (d *Detection) SetIdentity(identity string) {
	d.Identity = &identity
}
