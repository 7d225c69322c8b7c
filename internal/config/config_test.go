package config

import "testing"

func TestLoadCampusData(t *testing.T) {
	cfg := Load()

	if cfg.Campus.PrincipalID != "principal" {
		t.Errorf("expected principal id 'principal', got '%s'", cfg.Campus.PrincipalID)
	}

	if len(cfg.Campus.TravelTimes) == 0 {
		t.Fatal("expected travel times to be loaded from campus.yaml")
	}

	found := false
	for _, tt := range cfg.Campus.TravelTimes {
		if tt.From == "main_entrance" && tt.To == "civil_hall" {
			found = true
			if tt.Seconds != 90 {
				t.Errorf("expected main_entrance->civil_hall = 90s, got %d", tt.Seconds)
			}
		}
	}
	if !found {
		t.Error("expected main_entrance->civil_hall travel time entry")
	}
}

func TestLoadPatternOrder(t *testing.T) {
	cfg := Load()

	if len(cfg.Campus.LocationPatterns) < 2 {
		t.Fatal("expected at least two location pattern rules")
	}

	// Rule order must survive the YAML round trip; classification depends on it.
	if cfg.Campus.LocationPatterns[0].Location != "civil_hall" {
		t.Errorf("expected first rule 'civil_hall', got '%s'", cfg.Campus.LocationPatterns[0].Location)
	}
	if cfg.Campus.LocationPatterns[1].Location != "classroom" {
		t.Errorf("expected second rule 'classroom', got '%s'", cfg.Campus.LocationPatterns[1].Location)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_MAX_OPEN_CONNS", "")
	t.Setenv("VIDEO_FPS", "")
	t.Setenv("RECOGNITION_THRESHOLD", "not-a-number")

	cfg := Load()

	if cfg.Database.MaxOpenConns != 25 {
		t.Errorf("expected default max open conns 25, got %d", cfg.Database.MaxOpenConns)
	}
	if cfg.Video.FPS != 30.0 {
		t.Errorf("expected default fps 30, got %f", cfg.Video.FPS)
	}
	if cfg.Recognition.Threshold != 0.95 {
		t.Errorf("expected default recognition threshold 0.95, got %f", cfg.Recognition.Threshold)
	}
}
