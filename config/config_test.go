package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("WIKI_SEGMENTS", "")
	t.Setenv("FETCH_MODE", "")

	cfg := Load()
	if len(cfg.Segments) != len(DefaultSegments) {
		t.Errorf("segments: got %d, want %d", len(cfg.Segments), len(DefaultSegments))
	}
	if cfg.FetchMode != FetchModeHTTP {
		t.Errorf("fetch mode: got %q, want %q", cfg.FetchMode, FetchModeHTTP)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadSegmentList(t *testing.T) {
	t.Setenv("WIKI_SEGMENTS", " A, ,XYZ ")

	cfg := Load()
	if len(cfg.Segments) != 2 || cfg.Segments[0] != "A" || cfg.Segments[1] != "XYZ" {
		t.Errorf("segments: got %v, want [A XYZ]", cfg.Segments)
	}
}

func TestValidateRejectsFetchMode(t *testing.T) {
	t.Setenv("FETCH_MODE", "Carrier-Pigeon")

	cfg := Load()
	if err := cfg.Validate(); err == nil {
		t.Error("expected an error for unknown fetch mode")
	}
}

func TestDataPaths(t *testing.T) {
	cfg := &Config{DataDir: "/data", RenovationFile: "bruecken.json", DamageFile: "/abs/damage.json"}
	if got := cfg.RenovationPath(); got != "/data/bruecken.json" {
		t.Errorf("RenovationPath: got %q", got)
	}
	if got := cfg.DamagePath(); got != "/abs/damage.json" {
		t.Errorf("DamagePath: got %q", got)
	}
}
