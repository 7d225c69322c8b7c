package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "campus-tracker",
	Short: "Cross-camera person tracking and attendance for a campus CCTV deployment",
	Long: `Campus Tracker ingests per-camera person detection streams, stitches
them into stable cross-camera identities, reconstructs journeys between
camera sites and aggregates a per-day attendance ledger. Detection,
tracking and face embedding extraction happen upstream; this tool owns
everything after.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}
