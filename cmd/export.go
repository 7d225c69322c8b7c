package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/campus-tracker/internal/attendance"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the attendance report of a processed run as CSV",
	RunE:  runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().String("dir", "out", "Directory with attendance.json from a processed run")
	exportCmd.Flags().String("out", "attendance.csv", "Output CSV file (- for stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	report, err := loadAttendance(mustGetString(cmd, "dir"))
	if err != nil {
		return err
	}

	out := mustGetString(cmd, "out")
	if out == "-" {
		return attendance.WriteReportCSV(os.Stdout, report)
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", out, err)
	}
	defer f.Close()

	if err := attendance.WriteReportCSV(f, report); err != nil {
		return err
	}

	rows := 0
	for _, day := range report {
		for _, rec := range day {
			rows += len(rec.Visits)
		}
	}
	fmt.Printf("Exported %d visit(s) to %s\n", rows, out)
	return nil
}
