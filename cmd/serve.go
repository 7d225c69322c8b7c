package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/campus-tracker/internal/attendance"
	"github.com/kozaktomas/campus-tracker/internal/config"
	"github.com/kozaktomas/campus-tracker/internal/tracking"
	"github.com/kozaktomas/campus-tracker/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a processed run over HTTP",
	Long: `Start the attendance dashboard API over a processed run. The run is
loaded from the output directory written by the process command.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 8080, "Port to listen on")
	serveCmd.Flags().String("host", "0.0.0.0", "Host to bind to")
	serveCmd.Flags().String("dir", "out", "Directory with a processed run")
}

// resolveServeAddr applies the WEB_PORT and WEB_HOST overrides. An
// unparsable port keeps the flag value.
func resolveServeAddr(port int, host string) (int, string) {
	if envPort := os.Getenv("WEB_PORT"); envPort != "" {
		if parsed, err := strconv.Atoi(envPort); err == nil {
			port = parsed
		}
	}
	if envHost := os.Getenv("WEB_HOST"); envHost != "" {
		host = envHost
	}
	return port, host
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	dir := mustGetString(cmd, "dir")
	report, err := loadAttendance(dir)
	if err != nil {
		return err
	}

	var journeys map[int64][]tracking.Segment
	if data, err := os.ReadFile(filepath.Join(dir, "journeys.json")); err == nil {
		if err := json.Unmarshal(data, &journeys); err != nil {
			return fmt.Errorf("failed to parse journeys.json: %w", err)
		}
	}

	port, host := resolveServeAddr(mustGetInt(cmd, "port"), mustGetString(cmd, "host"))

	server := web.NewServer(cfg, port, host, attendance.FromReport(report), journeys)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("Error during shutdown: %v\n", err)
		}
	}()

	fmt.Printf("Starting attendance API on http://%s:%d\n", host, port)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	return nil
}
