package config

import (
	_ "embed"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

//go:embed campus.yaml
var campusYAML []byte

type Config struct {
	Database    DatabaseConfig
	Recognition RecognitionConfig
	Video       VideoConfig
	Campus      CampusConfig
}

type DatabaseConfig struct {
	URL          string // PostgreSQL connection URL; empty disables persistence
	MaxOpenConns int    // Maximum open connections (default 25)
	MaxIdleConns int    // Maximum idle connections (default 5)
}

type RecognitionConfig struct {
	Threshold float64 // Cosine distance cutoff for accepting a face match
}

type VideoConfig struct {
	FPS float64 // Frame rate used to derive timestamps from frame indexes
}

// CampusConfig is the static campus description embedded in campus.yaml:
// travel times between camera sites, filename classification rules and
// camera positions on the aerial image.
type CampusConfig struct {
	PrincipalID       string             `yaml:"principal_id"`
	PixelToMeterRatio float64            `yaml:"pixel_to_meter_ratio"`
	TravelTimes       []TravelTime       `yaml:"travel_times"`
	LocationPatterns  []LocationPattern  `yaml:"location_patterns"`
	CameraPositions   map[string]Position `yaml:"camera_positions"`
}

type TravelTime struct {
	From    string `yaml:"from"`
	To      string `yaml:"to"`
	Seconds int    `yaml:"seconds"`
}

// LocationPattern maps filename substrings to a camera site. Rules are
// evaluated in the order they appear in campus.yaml.
type LocationPattern struct {
	Location string   `yaml:"location"`
	Patterns []string `yaml:"patterns"`
}

type Position struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envFloat reads an environment variable and parses it as a positive float.
// Returns the default value if the env var is unset, empty, or invalid.
func envFloat(key string, defaultVal float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 {
		return f
	}
	return defaultVal
}

func Load() *Config {
	var campus CampusConfig
	if err := yaml.Unmarshal(campusYAML, &campus); err != nil {
		// This is an embedded file so this error should never happen in practice
		panic("failed to unmarshal embedded campus.yaml: " + err.Error())
	}
	if campus.PrincipalID == "" {
		campus.PrincipalID = "principal"
	}

	return &Config{
		Database: DatabaseConfig{
			URL:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns: envInt("DATABASE_MAX_IDLE_CONNS", 5),
		},
		Recognition: RecognitionConfig{
			Threshold: envFloat("RECOGNITION_THRESHOLD", 0.95),
		},
		Video: VideoConfig{
			FPS: envFloat("VIDEO_FPS", 30.0),
		},
		Campus: campus,
	}
}
