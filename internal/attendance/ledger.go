// Package attendance accumulates recognized-identity sightings into a
// per-day, per-person ledger and renders the reports the dashboard and
// CSV export consume.
package attendance

import (
	"fmt"
	"sync"
	"time"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"
)

// Visit is one recognized sighting of a person at a camera site.
type Visit struct {
	Location   string  `json:"location"`
	Time       string  `json:"time"`
	Confidence float64 `json:"confidence"`
}

// Record aggregates one person's sightings for one calendar date.
// FirstSeen is written exactly once, by the first sighting of the day;
// everything else only ever appends.
type Record struct {
	FirstSeen        string    `json:"first_seen"`
	Visits           []Visit   `json:"locations"`
	TotalDetections  int       `json:"total_detections"`
	ConfidenceScores []float64 `json:"confidence_scores"`
}

// Ledger is the append-only attendance store for one processing run.
// There is no delete operation; discard the instance to reset. The
// mutex allows concurrent recognition workers to share one ledger.
type Ledger struct {
	mu   sync.Mutex
	days map[string]map[string]*Record
}

func NewLedger() *Ledger {
	return &Ledger{
		days: make(map[string]map[string]*Record),
	}
}

// FromReport rebuilds a ledger from a materialized full report, such as
// one loaded back from attendance.json.
func FromReport(report map[string]map[string]Record) *Ledger {
	l := NewLedger()
	for date, day := range report {
		rebuilt := make(map[string]*Record, len(day))
		for pid, rec := range day {
			c := Record{
				FirstSeen:        rec.FirstSeen,
				Visits:           append([]Visit(nil), rec.Visits...),
				TotalDetections:  rec.TotalDetections,
				ConfidenceScores: append([]float64(nil), rec.ConfidenceScores...),
			}
			rebuilt[pid] = &c
		}
		l.days[date] = rebuilt
	}
	return l
}

// Log records a recognized sighting. Date and time of day derive from
// the timestamp; the first sighting of a (date, person) pair fixes
// FirstSeen for good.
func (l *Ledger) Log(personID, location string, ts time.Time, confidence float64) {
	date := ts.Format(dateLayout)
	timeOfDay := ts.Format(timeLayout)

	l.mu.Lock()
	defer l.mu.Unlock()

	day, ok := l.days[date]
	if !ok {
		day = make(map[string]*Record)
		l.days[date] = day
	}

	rec, ok := day[personID]
	if !ok {
		rec = &Record{FirstSeen: timeOfDay}
		day[personID] = rec
	}

	rec.Visits = append(rec.Visits, Visit{Location: location, Time: timeOfDay, Confidence: confidence})
	rec.TotalDetections++
	rec.ConfidenceScores = append(rec.ConfidenceScores, confidence)
}

// Report returns one date's records, or nil when the date has none.
// The result is a copy; mutating it does not touch the ledger.
func (l *Ledger) Report(date string) map[string]Record {
	l.mu.Lock()
	defer l.mu.Unlock()

	day, ok := l.days[date]
	if !ok {
		return nil
	}
	return copyDay(day)
}

// FullReport returns every date's records as a copy.
func (l *Ledger) FullReport() map[string]map[string]Record {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make(map[string]map[string]Record, len(l.days))
	for date, day := range l.days {
		out[date] = copyDay(day)
	}
	return out
}

func copyDay(day map[string]*Record) map[string]Record {
	out := make(map[string]Record, len(day))
	for pid, rec := range day {
		c := Record{
			FirstSeen:        rec.FirstSeen,
			Visits:           append([]Visit(nil), rec.Visits...),
			TotalDetections:  rec.TotalDetections,
			ConfidenceScores: append([]float64(nil), rec.ConfidenceScores...),
		}
		out[pid] = c
	}
	return out
}

// Duration formats the span between the earliest and latest visit of one
// person on one day. Input order does not matter. Spans above one hour
// format as "{h}h {m}m", shorter spans as "{m}m {s}s"; no visits means
// "0m".
func Duration(visits []Visit) string {
	if len(visits) == 0 {
		return "0m"
	}

	var earliest, latest time.Time
	first := true
	for _, v := range visits {
		t, err := time.Parse(timeLayout, v.Time)
		if err != nil {
			continue
		}
		if first {
			earliest, latest = t, t
			first = false
			continue
		}
		if t.Before(earliest) {
			earliest = t
		}
		if t.After(latest) {
			latest = t
		}
	}
	if first {
		return "0m"
	}

	span := latest.Sub(earliest)
	hours := int(span.Hours())
	minutes := int(span.Minutes()) % 60
	seconds := int(span.Seconds()) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm %ds", minutes, seconds)
}

// PrincipalMovement summarises the distinguished identity's day.
type PrincipalMovement struct {
	ArrivalTime       string   `json:"arrival_time"`
	LocationsVisited  []string `json:"locations_visited"`
	TotalTimeOnCampus string   `json:"total_time_on_campus"`
}

// PrincipalTracking emits, for every date the distinguished identity was
// recognized, the arrival time, ordered visited locations and total time
// on campus.
func (l *Ledger) PrincipalTracking(principalID string) map[string]PrincipalMovement {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make(map[string]PrincipalMovement)
	for date, day := range l.days {
		rec, ok := day[principalID]
		if !ok {
			continue
		}
		locations := make([]string, len(rec.Visits))
		for i, v := range rec.Visits {
			locations[i] = v.Location
		}
		out[date] = PrincipalMovement{
			ArrivalTime:       rec.FirstSeen,
			LocationsVisited:  locations,
			TotalTimeOnCampus: Duration(rec.Visits),
		}
	}
	return out
}
