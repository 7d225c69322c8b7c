package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/campus-tracker/internal/attendance"
	"github.com/kozaktomas/campus-tracker/internal/config"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the attendance report of a processed run",
	RunE:  runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().String("dir", "out", "Directory with attendance.json from a processed run")
	reportCmd.Flags().String("date", "", "Report date (2006-01-02, default all dates)")
	reportCmd.Flags().Bool("principal", false, "Show only the principal's movement")
}

// loadAttendance reads the full report written by the process command.
func loadAttendance(dir string) (map[string]map[string]attendance.Record, error) {
	data, err := os.ReadFile(filepath.Join(dir, "attendance.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to read attendance.json (run 'process' first): %w", err)
	}

	var report map[string]map[string]attendance.Record
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to parse attendance.json: %w", err)
	}
	return report, nil
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	report, err := loadAttendance(mustGetString(cmd, "dir"))
	if err != nil {
		return err
	}

	date := mustGetString(cmd, "date")
	if date != "" {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			return fmt.Errorf("invalid date %q, expected 2006-01-02", date)
		}
	}

	principalOnly := mustGetBool(cmd, "principal")

	dates := make([]string, 0, len(report))
	for d := range report {
		if date == "" || d == date {
			dates = append(dates, d)
		}
	}
	sort.Strings(dates)

	if len(dates) == 0 {
		fmt.Println("No attendance recorded")
		return nil
	}

	for _, d := range dates {
		day := report[d]
		fmt.Printf("%s\n", d)

		persons := make([]string, 0, len(day))
		for p := range day {
			if principalOnly && p != cfg.Campus.PrincipalID {
				continue
			}
			persons = append(persons, p)
		}
		sort.Strings(persons)

		if principalOnly && len(persons) == 0 {
			fmt.Printf("  %s was not seen\n", cfg.Campus.PrincipalID)
			continue
		}

		for _, p := range persons {
			rec := day[p]
			locations := make([]string, 0, len(rec.Visits))
			seen := make(map[string]bool)
			for _, v := range rec.Visits {
				if !seen[v.Location] {
					seen[v.Location] = true
					locations = append(locations, v.Location)
				}
			}
			fmt.Printf("  %-24s first seen %s, %d detections, %s on campus, visited %s\n",
				p, rec.FirstSeen, rec.TotalDetections,
				attendance.Duration(rec.Visits), strings.Join(locations, ", "))
		}
	}

	return nil
}
