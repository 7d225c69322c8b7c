package store

import (
	"context"
	"fmt"

	"github.com/kozaktomas/campus-tracker/internal/attendance"
)

// VisitRow is a single persisted attendance visit.
type VisitRow struct {
	Date       string
	PersonID   string
	FirstSeen  string
	Location   string
	Time       string
	Confidence float64
}

// SaveReport replaces the stored visits for a date with the ledger's
// report for that date.
func (s *Store) SaveReport(ctx context.Context, date string, report map[string]attendance.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // nolint: errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM attendance_visits WHERE visit_date = $1", date); err != nil {
		return fmt.Errorf("failed to clear visits for %s: %w", date, err)
	}

	const insert = `
		INSERT INTO attendance_visits (visit_date, person_id, first_seen, location, visit_time, confidence)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for personID, record := range report {
		for _, visit := range record.Visits {
			if _, err := tx.ExecContext(ctx, insert,
				date, personID, record.FirstSeen, visit.Location, visit.Time, visit.Confidence,
			); err != nil {
				return fmt.Errorf("failed to insert visit for %s: %w", personID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit visits: %w", err)
	}

	return nil
}

// LoadVisits returns all persisted visits for a date ordered by person
// and time of day.
func (s *Store) LoadVisits(ctx context.Context, date string) ([]VisitRow, error) {
	const query = `
		SELECT visit_date::text, person_id, first_seen, location, visit_time, confidence
		FROM attendance_visits
		WHERE visit_date = $1
		ORDER BY person_id, visit_time
	`
	rows, err := s.db.QueryContext(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query visits: %w", err)
	}
	defer rows.Close()

	var visits []VisitRow
	for rows.Next() {
		var v VisitRow
		if err := rows.Scan(&v.Date, &v.PersonID, &v.FirstSeen, &v.Location, &v.Time, &v.Confidence); err != nil {
			return nil, fmt.Errorf("failed to scan visit: %w", err)
		}
		visits = append(visits, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate visits: %w", err)
	}

	return visits, nil
}
