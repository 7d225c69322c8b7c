package recognizer

import (
	"math"
	"sync"

	"github.com/coder/hnsw"
)

// maxNeighbors (M) is the maximum number of neighbors per HNSW node.
const maxNeighbors = 16

// Registry stores one averaged reference embedding per known person and
// answers nearest-neighbour match queries. Repeated registrations for
// the same person fold into a running average, so several reference
// photos sharpen the prototype instead of competing with each other.
type Registry struct {
	mu         sync.RWMutex
	embeddings map[string][]float32
	graph      *hnsw.Graph[string]
	threshold  float64 // cosine distance cutoff for accepting a match
}

// NewRegistry creates an empty registry with the given cosine distance
// threshold. Matches at or beyond the threshold are rejected.
func NewRegistry(threshold float64) *Registry {
	return &Registry{
		embeddings: make(map[string][]float32),
		threshold:  threshold,
	}
}

// Register adds a reference embedding for a person. The person id is
// normalized so it matches the attendance ledger vocabulary. Embeddings
// of mismatched dimension are ignored.
func (r *Registry) Register(personID string, embedding []float32) string {
	id := NormalizePersonID(personID)
	if len(embedding) == 0 {
		return id
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.embeddings[id]; ok && len(existing) == len(embedding) {
		avg := make([]float32, len(existing))
		for i := range existing {
			avg[i] = (existing[i] + embedding[i]) / 2
		}
		r.embeddings[id] = avg
	} else {
		r.embeddings[id] = append([]float32(nil), embedding...)
	}

	r.rebuildLocked()
	return id
}

// Known returns the ids of every registered person.
func (r *Registry) Known() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.embeddings))
	for id := range r.embeddings {
		ids = append(ids, id)
	}
	return ids
}

// Match finds the closest known person to the query embedding. Returns
// false when the registry is empty or the best cosine distance does not
// clear the threshold; an unrecognized face is an expected outcome, not
// an error.
func (r *Registry) Match(embedding []float32) (Match, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.graph == nil || len(r.embeddings) == 0 || len(embedding) == 0 {
		return Match{}, false
	}

	neighbors := r.graph.Search(embedding, 1)
	if len(neighbors) == 0 {
		return Match{}, false
	}

	best := neighbors[0]
	dist := cosineDistance(embedding, best.Value)
	if dist > r.threshold {
		return Match{}, false
	}

	return Match{
		Identity:   best.Key,
		Confidence: math.Max(0, 1-dist),
	}, true
}

// rebuildLocked recreates the HNSW graph from the current embeddings.
// Caller must hold the write lock.
func (r *Registry) rebuildLocked() {
	g := hnsw.NewGraph[string]()
	g.M = maxNeighbors
	g.Ml = 1.0 / float64(maxNeighbors) // Standard HNSW formula
	g.Distance = hnsw.CosineDistance

	for id, emb := range r.embeddings {
		g.Add(hnsw.MakeNode(id, emb))
	}
	r.graph = g
}

// cosineDistance computes 1 - cosine similarity between two embeddings.
// Mismatched or zero vectors get the maximum distance.
func cosineDistance(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 2.0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 2.0
	}

	return 1 - dotProduct/(math.Sqrt(normA)*math.Sqrt(normB))
}
