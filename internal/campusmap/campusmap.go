// Package campusmap places cameras on the campus aerial image and
// converts pixel distances to meters.
package campusmap

import (
	"math"

	"github.com/kozaktomas/campus-tracker/internal/config"
)

// Point is a pixel position on the aerial image.
type Point struct {
	X int
	Y int
}

// Map holds the calibrated camera layout.
type Map struct {
	cameraPositions   map[string]Point
	pixelToMeterRatio float64
}

// FromConfig builds the map from the embedded campus configuration.
func FromConfig(campus config.CampusConfig) *Map {
	positions := make(map[string]Point, len(campus.CameraPositions))
	for site, pos := range campus.CameraPositions {
		positions[site] = Point{X: pos.X, Y: pos.Y}
	}
	return &Map{
		cameraPositions:   positions,
		pixelToMeterRatio: campus.PixelToMeterRatio,
	}
}

// CameraPosition returns the pixel position of a camera site.
func (m *Map) CameraPosition(site string) (Point, bool) {
	p, ok := m.cameraPositions[site]
	return p, ok
}

// DistanceMeters converts the straight-line pixel distance between two
// points to meters using the calibration ratio.
func (m *Map) DistanceMeters(a, b Point) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return math.Hypot(dx, dy) * m.pixelToMeterRatio
}

// SiteDistanceMeters is DistanceMeters between two camera sites; false
// when either site has no configured position.
func (m *Map) SiteDistanceMeters(siteA, siteB string) (float64, bool) {
	a, okA := m.cameraPositions[siteA]
	b, okB := m.cameraPositions[siteB]
	if !okA || !okB {
		return 0, false
	}
	return m.DistanceMeters(a, b), true
}
