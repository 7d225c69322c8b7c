package attendance

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
)

// WriteCSV flattens the full ledger into one row per visit with columns
// date, person_id, first_seen, location, time, confidence. Dates and
// person ids are emitted in sorted order so repeated exports diff
// cleanly.
func (l *Ledger) WriteCSV(w io.Writer) error {
	return WriteReportCSV(w, l.FullReport())
}

// WriteReportCSV renders an already materialized full report, such as
// one loaded back from attendance.json.
func WriteReportCSV(w io.Writer, report map[string]map[string]Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "person_id", "first_seen", "location", "time", "confidence"}); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	dates := make([]string, 0, len(report))
	for date := range report {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	for _, date := range dates {
		day := report[date]
		people := make([]string, 0, len(day))
		for pid := range day {
			people = append(people, pid)
		}
		sort.Strings(people)

		for _, pid := range people {
			rec := day[pid]
			for _, v := range rec.Visits {
				row := []string{
					date,
					pid,
					rec.FirstSeen,
					v.Location,
					v.Time,
					strconv.FormatFloat(v.Confidence, 'f', -1, 64),
				}
				if err := cw.Write(row); err != nil {
					return fmt.Errorf("writing csv row: %w", err)
				}
			}
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	return nil
}
