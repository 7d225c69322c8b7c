package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/campus-tracker/internal/config"
	"github.com/kozaktomas/campus-tracker/internal/processor"
	"github.com/kozaktomas/campus-tracker/internal/recognizer"
	"github.com/kozaktomas/campus-tracker/internal/store"
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Process per-camera detection streams into journeys and attendance",
	Long: `Process a directory of per-camera detection streams. Camera filenames
are classified into campus locations, journeys are reconstructed across
cameras and the attendance ledger is aggregated. Results are written to
the output directory and, when DATABASE_URL is set, persisted.`,
	RunE: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().String("detections", "", "Directory with per-camera detection JSON files (required)")
	processCmd.Flags().String("faces", "", "Directory with per-camera face observation JSON files")
	processCmd.Flags().String("out", "out", "Output directory for journeys.json and attendance.json")
	processCmd.Flags().Float64("fps", 0, "Frames per second of the source footage (default from VIDEO_FPS)")
	processCmd.Flags().Int("concurrency", 4, "Number of parallel stream loaders")
}

func runProcess(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	detectionsDir := mustGetString(cmd, "detections")
	if detectionsDir == "" {
		return fmt.Errorf("--detections is required")
	}

	fps := mustGetFloat64(cmd, "fps")
	if fps == 0 {
		fps = cfg.Video.FPS
	}

	ctx := context.Background()

	db, err := openStore(cfg)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	registry := recognizer.NewRegistry(cfg.Recognition.Threshold)
	if db != nil {
		faces, err := db.ListFaces(ctx)
		if err != nil {
			return fmt.Errorf("failed to load known faces: %w", err)
		}
		for _, face := range faces {
			registry.Register(face.PersonID, face.Embedding)
		}
		if len(faces) > 0 {
			fmt.Printf("Loaded %d known faces\n", len(faces))
		}
	}

	p := processor.New(cfg, registry)
	result, err := p.Run(processor.Options{
		DetectionsDir: detectionsDir,
		FacesDir:      mustGetString(cmd, "faces"),
		FPS:           fps,
		Concurrency:   mustGetInt(cmd, "concurrency"),
	})
	if err != nil {
		return fmt.Errorf("processing failed: %w", err)
	}

	outDir := mustGetString(cmd, "out")
	if err := processor.WriteOutputs(result, outDir); err != nil {
		return err
	}

	if db != nil {
		for date, report := range result.Ledger.FullReport() {
			if err := db.SaveReport(ctx, date, report); err != nil {
				return fmt.Errorf("failed to persist report for %s: %w", date, err)
			}
		}
	}

	fmt.Printf("Run %s complete\n", result.RunID)
	fmt.Printf("  Cameras:    %d\n", len(result.Cameras))
	fmt.Printf("  Detections: %d\n", result.DetectionCount)
	fmt.Printf("  Identities: %d\n", result.IdentityCount)
	fmt.Printf("  Segments:   %d\n", result.SegmentCount)
	fmt.Printf("  Tracks:     %d unique\n", result.Stats.UniqueTracks)
	fmt.Printf("  Output:     %s\n", outDir)
	for _, procErr := range result.Errors {
		fmt.Printf("  Warning: %v\n", procErr)
	}

	return nil
}

// openStore connects to PostgreSQL when DATABASE_URL is configured.
// Without it every command runs purely in memory.
func openStore(cfg *config.Config) (*store.Store, error) {
	if cfg.Database.URL == "" {
		return nil, nil
	}
	db, err := store.New(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}
