package store

import (
	"context"
	"fmt"

	"github.com/pgvector/pgvector-go"

	"github.com/kozaktomas/campus-tracker/internal/recognizer"
)

// SaveFace upserts a reference embedding for a person. The person id is
// normalized the same way the in-memory registry normalizes it so the
// two stay in agreement.
func (s *Store) SaveFace(ctx context.Context, personID string, embedding []float32) error {
	if len(embedding) != FaceEmbeddingDim {
		return fmt.Errorf("embedding must have %d dimensions, got %d", FaceEmbeddingDim, len(embedding))
	}

	const upsert = `
		INSERT INTO known_faces (person_id, embedding, dim)
		VALUES ($1, $2, $3)
		ON CONFLICT (person_id)
		DO UPDATE SET embedding = EXCLUDED.embedding, updated_at = NOW()
	`
	normalized := recognizer.NormalizePersonID(personID)
	if _, err := s.db.ExecContext(ctx, upsert, normalized, pgvector.NewVector(embedding), len(embedding)); err != nil {
		return fmt.Errorf("failed to save face for %s: %w", normalized, err)
	}

	return nil
}

// Face is a stored reference embedding.
type Face struct {
	PersonID  string
	Embedding []float32
}

// ListFaces returns every stored face ordered by person id.
func (s *Store) ListFaces(ctx context.Context) ([]Face, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT person_id, embedding FROM known_faces ORDER BY person_id")
	if err != nil {
		return nil, fmt.Errorf("failed to query faces: %w", err)
	}
	defer rows.Close()

	var faces []Face
	for rows.Next() {
		var f Face
		var vec pgvector.Vector
		if err := rows.Scan(&f.PersonID, &vec); err != nil {
			return nil, fmt.Errorf("failed to scan face: %w", err)
		}
		f.Embedding = vec.Slice()
		faces = append(faces, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate faces: %w", err)
	}

	return faces, nil
}

// SearchFace returns the closest stored face to the query embedding by
// cosine distance, with the distance itself.
func (s *Store) SearchFace(ctx context.Context, embedding []float32) (*Face, float64, error) {
	const query = `
		SELECT person_id, embedding, embedding <=> $1 AS distance
		FROM known_faces
		ORDER BY distance
		LIMIT 1
	`
	var f Face
	var vec pgvector.Vector
	var distance float64
	err := s.db.QueryRowContext(ctx, query, pgvector.NewVector(embedding)).Scan(&f.PersonID, &vec, &distance)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search faces: %w", err)
	}
	f.Embedding = vec.Slice()

	return &f, distance, nil
}
