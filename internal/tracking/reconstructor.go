package tracking

import (
	"sort"

	"github.com/kozaktomas/campus-tracker/internal/detection"
)

// acceptThreshold is the fixed cutoff for accepting a transition between
// two sightings of the same identity, and for handing a new local track
// off to an existing identity. A score equal to the threshold is
// rejected; only strictly greater scores qualify.
const acceptThreshold = 0.4

// Segment is one accepted transition of a global identity between two
// camera sites. Immutable once emitted; the full journey of an identity
// is the ordered sequence of its segments.
type Segment struct {
	FromLocation string  `json:"fromLocation"`
	ToLocation   string  `json:"toLocation"`
	StartTime    float64 `json:"startTime"`
	EndTime      float64 `json:"endTime"`
	Confidence   float64 `json:"confidence"`
}

// Reconstructor merges per-camera detection streams into one global
// temporal order and emits accepted journey segments per global identity.
//
// Local track ids never survive a camera boundary, so a (camera, track)
// pair seen for the first time is first offered to existing identities
// last sighted on a different camera: if the temporal correlation from
// the best candidate's last sighting clears the acceptance threshold, the
// pair is handed off to that identity; otherwise the assigner allocates a
// fresh one. Once linked, a pair resolves to the same identity for the
// rest of the run.
type Reconstructor struct {
	assigner *IdentityAssigner
	scorer   *Scorer

	// state of the most recent Reconstruct call, used to resolve
	// person ids for the attendance ledger afterwards
	pairs map[string]int64
	names map[int64]string
}

func NewReconstructor(assigner *IdentityAssigner, scorer *Scorer) *Reconstructor {
	return &Reconstructor{assigner: assigner, scorer: scorer}
}

// Reconstruct tags every detection with its source camera as location,
// flattens all streams, sorts them by timestamp and walks the sequence
// once. For each identity, a transition from the previous sighting is
// accepted when both sides carry a location and the correlation score
// exceeds the threshold. The previous sighting always advances to the
// current detection, accepted or not: a rejected transition is dropped,
// never retried against an older anchor, so a single noisy sighting can
// sever an otherwise valid journey. That is the intended policy.
//
// Cameras are flattened in lexicographic order and the sort is stable,
// which makes the tie-break for simultaneous cross-camera sightings
// deterministic: lexicographically smaller camera ids come first.
//
// Every global id resolved from the input has an entry in the result,
// empty when no transition qualified.
func (r *Reconstructor) Reconstruct(byCamera map[string][]detection.Detection) map[int64][]Segment {
	cameras := make([]string, 0, len(byCamera))
	for cam := range byCamera {
		cameras = append(cameras, cam)
	}
	sort.Strings(cameras)

	type tagged struct {
		camera string
		det    detection.Detection
	}

	var all []tagged
	for _, cam := range cameras {
		for _, det := range byCamera[cam] {
			det.SetLocation(cam)
			all = append(all, tagged{camera: cam, det: det})
		}
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].det.Timestamp < all[j].det.Timestamp
	})

	journeys := make(map[int64][]Segment)
	lastByGlobal := make(map[int64]detection.Detection)
	r.pairs = make(map[string]int64)
	r.names = make(map[int64]string)

	for _, item := range all {
		globalID := r.resolve(r.pairs, lastByGlobal, item.camera, item.det)
		if _, ok := journeys[globalID]; !ok {
			journeys[globalID] = []Segment{}
		}
		if item.det.Identity != nil {
			if _, ok := r.names[globalID]; !ok {
				r.names[globalID] = *item.det.Identity
			}
		}

		prev, seen := lastByGlobal[globalID]
		if seen && prev.Location != nil && item.det.Location != nil {
			score := r.scorer.Score(*prev.Location, prev.Timestamp, *item.det.Location, item.det.Timestamp)
			if score > acceptThreshold {
				journeys[globalID] = append(journeys[globalID], Segment{
					FromLocation: *prev.Location,
					ToLocation:   *item.det.Location,
					StartTime:    prev.Timestamp,
					EndTime:      item.det.Timestamp,
					Confidence:   score,
				})
			}
		}
		lastByGlobal[globalID] = item.det
	}

	return journeys
}

// RecognizedID resolves a detection from the last reconstructed run to
// the person id used by the attendance ledger. A detection that carries
// a recognized identity uses it directly; otherwise the identity
// recognized for any sighting of the same global id applies. Returns
// false when no sighting of the identity was ever recognized: such
// detections still shape journeys but are skipped for attendance.
func (r *Reconstructor) RecognizedID(camera string, det detection.Detection) (string, bool) {
	if det.Identity != nil {
		return *det.Identity, true
	}
	if id, ok := r.pairs[trackKey(camera, det.TrackID)]; ok {
		if name, named := r.names[id]; named {
			return name, true
		}
	}
	return "", false
}

// resolve returns the global identity for a detection's (camera, track)
// pair, linking first-seen pairs to the best plausible existing identity
// before falling back to a fresh assignment. Candidates are identities
// last sighted on another camera; the best correlation score wins, ties
// going to the smaller id so runs stay deterministic.
func (r *Reconstructor) resolve(pairToGlobal map[string]int64, lastByGlobal map[int64]detection.Detection, camera string, det detection.Detection) int64 {
	key := trackKey(camera, det.TrackID)
	if id, ok := pairToGlobal[key]; ok {
		return id
	}

	var bestID int64
	bestScore := 0.0
	for id, last := range lastByGlobal {
		if last.Location == nil || *last.Location == camera {
			continue
		}
		score := r.scorer.Score(*last.Location, last.Timestamp, camera, det.Timestamp)
		if score > bestScore || (score == bestScore && score > 0 && (bestID == 0 || id < bestID)) {
			bestScore = score
			bestID = id
		}
	}

	if bestScore > acceptThreshold {
		pairToGlobal[key] = bestID
		return bestID
	}

	id := r.assigner.Assign(camera, det.TrackID)
	pairToGlobal[key] = id
	return id
}
