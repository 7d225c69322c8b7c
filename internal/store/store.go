// Package store persists attendance visits and known-face embeddings in
// PostgreSQL. Persistence is optional: commands run purely in memory
// when no DATABASE_URL is configured.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/kozaktomas/campus-tracker/internal/config"
)

// Store wraps a PostgreSQL connection pool.
type Store struct {
	db *sql.DB
}

// New creates a connection pool and verifies connectivity.
func New(cfg *config.DatabaseConfig) (*Store, error) {
	if cfg.URL == "" {
		return nil, errors.New("database URL is required")
	}

	db, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool.
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Hour)
	db.SetConnMaxIdleTime(10 * time.Minute)

	// Verify connection.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// DB returns the underlying sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the connection pool.
func (s *Store) Close() error {
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			return fmt.Errorf("closing database connection: %w", err)
		}
	}
	return nil
}

// FaceEmbeddingDim is the fixed dimension of face embeddings produced by
// the external recognition service.
const FaceEmbeddingDim = 512

// Migrate creates the schema. Safe to run repeatedly.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		return fmt.Errorf("failed to create vector extension: %w", err)
	}

	createVisits := `
		CREATE TABLE IF NOT EXISTS attendance_visits (
			id           BIGSERIAL PRIMARY KEY,
			visit_date   DATE NOT NULL,
			person_id    VARCHAR(255) NOT NULL,
			first_seen   VARCHAR(8) NOT NULL,
			location     VARCHAR(255) NOT NULL,
			visit_time   VARCHAR(8) NOT NULL,
			confidence   DOUBLE PRECISION NOT NULL,
			created_at   TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`
	if _, err := s.db.ExecContext(ctx, createVisits); err != nil {
		return fmt.Errorf("failed to create attendance_visits table: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS attendance_visits_date_person_idx
		ON attendance_visits(visit_date, person_id)
	`); err != nil {
		return fmt.Errorf("failed to create attendance_visits index: %w", err)
	}

	createFaces := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS known_faces (
			person_id    VARCHAR(255) PRIMARY KEY,
			embedding    vector(%d) NOT NULL,
			dim          INTEGER NOT NULL DEFAULT %d,
			created_at   TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at   TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`, FaceEmbeddingDim, FaceEmbeddingDim)
	if _, err := s.db.ExecContext(ctx, createFaces); err != nil {
		return fmt.Errorf("failed to create known_faces table: %w", err)
	}

	return nil
}
