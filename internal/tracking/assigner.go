// Package tracking correlates per-camera person tracks across disjoint
// camera streams using time and a static expected-travel-time model, and
// reconstructs the ordered journey of each global identity. It carries no
// visual appearance model: cross-camera plausibility comes purely from
// elapsed time between sightings.
package tracking

import (
	"fmt"
	"sync"
)

// IdentityAssigner maps (camera, local track id) pairs to process-unique
// global identities. The mapping is total and single-valued once
// established: the same pair always resolves to the same id, and ids are
// never reused even if the upstream tracker recycles a local id later.
//
// The untracked sentinel (-1) is keyed like any other pair, so repeated
// untracked detections on one camera collapse to a single identity. The
// upstream tracker guarantees the sentinel only appears for unlinked
// single detections, which keeps that collapse harmless.
type IdentityAssigner struct {
	mu      sync.Mutex
	counter int64
	mapping map[string]int64
}

// NewIdentityAssigner creates an assigner with its own counter and
// mapping. State is scoped to the instance so sequential or concurrent
// runs never interfere.
func NewIdentityAssigner() *IdentityAssigner {
	return &IdentityAssigner{
		mapping: make(map[string]int64),
	}
}

func trackKey(camera string, trackID int) string {
	return fmt.Sprintf("%s:%d", camera, trackID)
}

// Assign resolves the global identity for a (camera, track id) pair,
// allocating the next counter value for pairs seen for the first time.
func (a *IdentityAssigner) Assign(camera string, trackID int) int64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	key := trackKey(camera, trackID)
	if id, ok := a.mapping[key]; ok {
		return id
	}
	a.counter++
	a.mapping[key] = a.counter
	return a.counter
}

// Count returns how many distinct pairs have been assigned.
func (a *IdentityAssigner) Count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.mapping)
}
