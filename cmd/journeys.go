package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/campus-tracker/internal/tracking"
)

var journeysCmd = &cobra.Command{
	Use:   "journeys",
	Short: "Print the reconstructed journeys of a processed run",
	RunE:  runJourneys,
}

func init() {
	rootCmd.AddCommand(journeysCmd)

	journeysCmd.Flags().String("dir", "out", "Directory with journeys.json from a processed run")
}

func runJourneys(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(filepath.Join(mustGetString(cmd, "dir"), "journeys.json"))
	if err != nil {
		return fmt.Errorf("failed to read journeys.json (run 'process' first): %w", err)
	}

	var journeys map[int64][]tracking.Segment
	if err := json.Unmarshal(data, &journeys); err != nil {
		return fmt.Errorf("failed to parse journeys.json: %w", err)
	}

	ids := make([]int64, 0, len(journeys))
	for id := range journeys {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		segments := journeys[id]
		fmt.Printf("person %d: %d segment(s)\n", id, len(segments))
		for _, s := range segments {
			fmt.Printf("  %s -> %s  %.1fs -> %.1fs  confidence %.2f\n",
				s.FromLocation, s.ToLocation, s.StartTime, s.EndTime, s.Confidence)
		}
	}

	return nil
}
