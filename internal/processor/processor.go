// Package processor runs the full pipeline over a directory of
// per-camera detection streams: classify camera names into campus
// locations, reconstruct journeys, back-fill recognized identities and
// aggregate the attendance ledger.
package processor

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"

	"github.com/kozaktomas/campus-tracker/internal/analytics"
	"github.com/kozaktomas/campus-tracker/internal/attendance"
	"github.com/kozaktomas/campus-tracker/internal/config"
	"github.com/kozaktomas/campus-tracker/internal/detection"
	"github.com/kozaktomas/campus-tracker/internal/location"
	"github.com/kozaktomas/campus-tracker/internal/recognizer"
	"github.com/kozaktomas/campus-tracker/internal/tracking"
)

type Processor struct {
	classifier *location.PatternClassifier
	scorer     *tracking.Scorer
	registry   *recognizer.Registry
}

type Options struct {
	DetectionsDir string
	FacesDir      string  // optional sidecar face observations
	FPS           float64 // frames per second of the source footage
	Concurrency   int     // parallel stream loaders
	BaseTime      time.Time
	Quiet         bool // suppress the progress bar
}

type Result struct {
	RunID          string
	Cameras        []string
	DetectionCount int
	IdentityCount  int
	SegmentCount   int
	Journeys       map[int64][]tracking.Segment
	Ledger         *attendance.Ledger
	Stats          Stats
	Errors         []error
}

// Stats are the run-level occupancy statistics for the dashboard
// summary panels.
type Stats struct {
	UniqueTracks       int                `json:"uniqueTracks"`
	PeakWindow         int                `json:"peakWindow"`
	PeakOccupancy      int                `json:"peakOccupancy"`
	CongestionByCamera map[string]float64 `json:"congestionByCamera"`
}

func New(cfg *config.Config, registry *recognizer.Registry) *Processor {
	return &Processor{
		classifier: location.NewPatternClassifier(cfg.Campus.LocationPatterns),
		scorer:     tracking.NewScorer(tracking.NewTravelModel(cfg.Campus.TravelTimes)),
		registry:   registry,
	}
}

// streamResult holds one loaded camera stream.
type streamResult struct {
	camera string
	dets   []detection.Detection
	err    error
}

// Run executes the pipeline. The detections directory holds one JSON
// file per camera; the filename is classified through the pattern table
// to obtain the campus location used as the camera key.
func (p *Processor) Run(opts Options) (*Result, error) {
	if opts.FPS <= 0 {
		opts.FPS = 30
	}
	if opts.BaseTime.IsZero() {
		now := time.Now()
		opts.BaseTime = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	}

	entries, err := os.ReadDir(opts.DetectionsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read detections directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		files = append(files, entry.Name())
	}
	sort.Strings(files)

	result := &Result{RunID: uuid.NewString()}

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	var bar *progressbar.ProgressBar
	if !opts.Quiet {
		bar = progressbar.NewOptions(len(files),
			progressbar.OptionSetDescription(fmt.Sprintf("Loading streams (%d workers)", concurrency)),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("cameras"),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionFullWidth(),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "=",
				SaucerHead:    ">",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}),
		)
	}

	// Load streams concurrently; the reconstruction itself only starts
	// once every stream is materialized.
	resultsChan := make(chan streamResult, len(files))
	semaphore := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for _, file := range files {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			camera := p.cameraKey(name)
			dets, err := detection.LoadStream(filepath.Join(opts.DetectionsDir, name), opts.FPS)
			if err != nil {
				err = fmt.Errorf("failed to load stream %s: %w", name, err)
			}
			resultsChan <- streamResult{camera: camera, dets: dets, err: err}
			if bar != nil {
				bar.Add(1)
			}
		}(file)
	}

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	byCamera := make(map[string][]detection.Detection)
	for r := range resultsChan {
		if r.err != nil {
			result.Errors = append(result.Errors, r.err)
			continue
		}
		// Two files classified to the same location merge into one
		// camera stream.
		byCamera[r.camera] = append(byCamera[r.camera], r.dets...)
		result.DetectionCount += len(r.dets)
	}
	if bar != nil {
		fmt.Println()
	}

	for camera := range byCamera {
		result.Cameras = append(result.Cameras, camera)
	}
	sort.Strings(result.Cameras)

	if opts.FacesDir != "" && p.registry != nil {
		if err := p.backfillIdentities(opts.FacesDir, byCamera); err != nil {
			result.Errors = append(result.Errors, err)
		}
	}

	reconstructor := tracking.NewReconstructor(tracking.NewIdentityAssigner(), p.scorer)
	result.Journeys = reconstructor.Reconstruct(byCamera)
	result.IdentityCount = len(result.Journeys)
	for _, segments := range result.Journeys {
		result.SegmentCount += len(segments)
	}

	result.Ledger = p.buildLedger(byCamera, reconstructor, opts.BaseTime)
	result.Stats = buildStats(byCamera)

	return result, nil
}

// buildStats derives the occupancy statistics over all streams. The
// peak window is the 15 minute bucket with the highest detection count.
func buildStats(byCamera map[string][]detection.Detection) Stats {
	var all []detection.Detection
	congestion := make(map[string]float64, len(byCamera))
	for camera, dets := range byCamera {
		congestion[camera] = analytics.CorridorCongestion(dets)
		for _, det := range dets {
			det.SetLocation(camera)
			all = append(all, det)
		}
	}

	stats := Stats{
		UniqueTracks:       analytics.UniqueTracks(all),
		CongestionByCamera: congestion,
	}
	for window, count := range analytics.PeakHours(all, 15) {
		if count > stats.PeakOccupancy {
			stats.PeakWindow = window
			stats.PeakOccupancy = count
		}
	}
	return stats
}

// cameraKey classifies a stream filename into a campus location. Files
// the pattern table does not know keep their base name so their
// detections are still attributed somewhere.
func (p *Processor) cameraKey(filename string) string {
	loc := p.classifier.Classify(filename)
	if loc == location.Unknown {
		return strings.TrimSuffix(filename, filepath.Ext(filename))
	}
	return loc
}

// buildLedger logs recognized sightings under their person id. A
// detection whose identity was never recognized on any sighting is
// skipped for attendance; it still contributed to the journeys.
func (p *Processor) buildLedger(byCamera map[string][]detection.Detection, rec *tracking.Reconstructor, base time.Time) *attendance.Ledger {
	ledger := attendance.NewLedger()

	cameras := make([]string, 0, len(byCamera))
	for camera := range byCamera {
		cameras = append(cameras, camera)
	}
	sort.Strings(cameras)

	for _, camera := range cameras {
		for _, det := range byCamera[camera] {
			personID, ok := rec.RecognizedID(camera, det)
			if !ok {
				continue
			}
			ts := base.Add(time.Duration(det.Timestamp * float64(time.Second)))
			ledger.Log(personID, camera, ts, det.Confidence)
		}
	}

	return ledger
}
