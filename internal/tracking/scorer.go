package tracking

import (
	"math"

	"github.com/kozaktomas/campus-tracker/internal/config"
)

const (
	// baselineScore is the weak but non-zero plausibility for
	// transitions the travel model says nothing about, such as a
	// reappearance inside the same area.
	baselineScore = 0.2

	// travelEpsilon guards the ratio against a zero expected time.
	travelEpsilon = 1e-3
)

// Route is an ordered pair of camera sites.
type Route struct {
	From string
	To   string
}

// TravelModel is the static lookup of expected transit seconds between
// ordered site pairs. It is partial: a missing pair means "no prior
// belief", not zero expected time. Pairs are directional, though the
// shipped configuration mirrors them.
type TravelModel map[Route]int

// NewTravelModel builds the lookup from configuration entries.
func NewTravelModel(entries []config.TravelTime) TravelModel {
	m := make(TravelModel, len(entries))
	for _, e := range entries {
		m[Route{From: e.From, To: e.To}] = e.Seconds
	}
	return m
}

// Scorer rates the plausibility that two sightings at different sites
// belong to one continuous journey, based only on elapsed time against
// the travel model.
type Scorer struct {
	model TravelModel
}

func NewScorer(model TravelModel) *Scorer {
	return &Scorer{model: model}
}

// Score returns a confidence in [0,1]. Time moving backward (or not at
// all) scores zero. An unmodeled route scores the fixed baseline
// regardless of elapsed time. A modeled route decays linearly: an exact
// match to the expected travel time scores 1.0 and a deviation of 100%
// of the expected time or more scores 0.
func (s *Scorer) Score(prevLocation string, prevTime float64, currLocation string, currTime float64) float64 {
	dt := currTime - prevTime
	if dt <= 0 {
		return 0
	}

	expected, ok := s.model[Route{From: prevLocation, To: currLocation}]
	if !ok {
		return baselineScore
	}

	e := float64(expected)
	ratio := math.Abs(dt-e) / max(e, travelEpsilon)
	return max(0, 1-ratio)
}
