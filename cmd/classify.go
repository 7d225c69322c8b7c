package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/campus-tracker/internal/config"
	"github.com/kozaktomas/campus-tracker/internal/location"
)

var classifyCmd = &cobra.Command{
	Use:   "classify FILENAME...",
	Short: "Classify camera files into campus locations",
	Long: `Classify camera files into campus locations. By default filenames are
matched against the pattern table from campus.yaml. With --references
the arguments are frame images instead, classified by visual signature
against reference frames named <site>.<ext> in the references
directory.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)

	classifyCmd.Flags().String("references", "", "Directory with per-site reference frames")
}

func runClassify(cmd *cobra.Command, args []string) error {
	referencesDir := mustGetString(cmd, "references")
	if referencesDir != "" {
		return classifyBySignature(referencesDir, args)
	}

	cfg := config.Load()
	classifier := location.NewPatternClassifier(cfg.Campus.LocationPatterns)

	for _, filename := range args {
		fmt.Printf("%s: %s\n", filename, classifier.Classify(filename))
	}
	return nil
}

func classifyBySignature(referencesDir string, frames []string) error {
	classifier := location.NewSignatureClassifier()

	entries, err := os.ReadDir(referencesDir)
	if err != nil {
		return fmt.Errorf("failed to read references directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(referencesDir, entry.Name()))
		if err != nil {
			return fmt.Errorf("failed to read reference %s: %w", entry.Name(), err)
		}
		site := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		if err := classifier.AddReference(site, data); err != nil {
			return err
		}
	}

	for _, frame := range frames {
		data, err := os.ReadFile(frame)
		if err != nil {
			return fmt.Errorf("failed to read frame %s: %w", frame, err)
		}
		site, confidence, err := classifier.Classify(data)
		if err != nil {
			return err
		}
		fmt.Printf("%s: %s (confidence %.2f)\n", frame, site, confidence)
	}
	return nil
}
