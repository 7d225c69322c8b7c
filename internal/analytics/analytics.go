// Package analytics derives simple occupancy statistics from raw
// detection streams for the dashboard's summary panels.
package analytics

import (
	"fmt"

	"github.com/kozaktomas/campus-tracker/internal/detection"
)

// PeakHours buckets detections into fixed windows and counts occupancy
// per bucket. The key is the window index (timestamp / window length).
func PeakHours(dets []detection.Detection, windowMinutes int) map[int]int {
	if windowMinutes <= 0 {
		windowMinutes = 15
	}
	window := float64(windowMinutes * 60)

	buckets := make(map[int]int)
	for _, d := range dets {
		buckets[int(d.Timestamp/window)]++
	}
	return buckets
}

// UniqueTracks counts distinct (location, track id) pairs. Detections
// without a location fall into a shared empty-location group.
func UniqueTracks(dets []detection.Detection) int {
	seen := make(map[string]bool)
	for _, d := range dets {
		loc := ""
		if d.Location != nil {
			loc = *d.Location
		}
		seen[fmt.Sprintf("%s:%d", loc, d.TrackID)] = true
	}
	return len(seen)
}

// CorridorCongestion is a crude congestion proxy: the average number of
// simultaneous detections per one-minute bucket.
func CorridorCongestion(dets []detection.Detection) float64 {
	buckets := PeakHours(dets, 1)
	if len(buckets) == 0 {
		return 0
	}
	total := 0
	for _, count := range buckets {
		total += count
	}
	return float64(total) / float64(len(buckets))
}
