package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"berlin-bridges/config"
	"berlin-bridges/utils"
)

const wikiSegment = `<table class="wikitable">
  <tr><td></td><td>Adlerbrücke</td><td>Treptow-Köpenick</td><td>Teltowkanal</td><td>52.4412 13.5370</td></tr>
</table>`

const (
	damageWarningOnly = `{"bruecken": [
  {"bezirk": "Mitte", "name": "Marschallbrücke", "schadensart": "Risse", "lat": 52.52, "lon": 13.38}
]}`
	damageWithError = `{"bruecken": [
  {"bezirk": "Potsdam", "name": "Glienicker Brücke", "schadensart": "AKR", "lat": 52.41, "lon": 13.09}
]}`
	damageToGeocode = `{"bruecken": [
  {"bezirk": "Treptow-Köpenick", "name": "Adlerbrücke", "schadensart": "AKR"},
  {"bezirk": "Pankow", "name": "Nirgendbrücke", "schadensart": "AKR"}
]}`
)

type runEnv struct {
	cfg     *config.Config
	fetches *int64
}

func newRunEnv(t *testing.T) runEnv {
	t.Helper()
	var fetches int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&fetches, 1)
		w.Write([]byte(wikiSegment))
	}))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	return runEnv{
		cfg: &config.Config{
			WikiBaseURL:      srv.URL + "/wiki",
			Segments:         []string{"A"},
			FetchMode:        config.FetchModeHTTP,
			MaxConcurrency:   1,
			MaxRetries:       1,
			HTTPTimeoutSec:   5,
			DataDir:          dir,
			RenovationFile:   "bruecken.json",
			DamageFile:       "bruecken_tagesspiegel.json",
			UnmatchedCSVPath: filepath.Join(dir, "unmatched_bridges.csv"),
			LogLevel:         "error",
		},
		fetches: &fetches,
	}
}

func writeDamage(t *testing.T, cfg *config.Config, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(cfg.DamagePath(), []byte(body), 0o644))
}

func runQuiet(cfg *config.Config) int {
	return run(context.Background(), cfg, utils.NewLoggerTo(&bytes.Buffer{}, "error"))
}

func TestRunExitCodes(t *testing.T) {
	tests := []struct {
		name   string
		damage string
		strict bool
		want   int
	}{
		{name: "no datasets", want: exitFatal},
		{name: "corrupt json", damage: `{"bruecken": [`, want: exitFatal},
		{name: "strict with errors", damage: damageWithError, strict: true, want: exitValidation},
		{name: "errors without strict", damage: damageWithError, want: exitOK},
		{name: "strict with warnings only", damage: damageWarningOnly, strict: true, want: exitOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newRunEnv(t)
			env.cfg.StrictValidation = tt.strict
			if tt.damage != "" {
				writeDamage(t, env.cfg, tt.damage)
			}
			assert.Equal(t, tt.want, runQuiet(env.cfg))
		})
	}
}

func TestRunInvalidConfig(t *testing.T) {
	env := newRunEnv(t)
	env.cfg.FetchMode = "carrier-pigeon"
	assert.Equal(t, exitFatal, runQuiet(env.cfg))
}

func TestRunSkipGeocodeWritesNothing(t *testing.T) {
	env := newRunEnv(t)
	env.cfg.SkipGeocode = true
	writeDamage(t, env.cfg, damageToGeocode)

	assert.Equal(t, exitOK, runQuiet(env.cfg))

	data, err := os.ReadFile(env.cfg.DamagePath())
	require.NoError(t, err)
	assert.Equal(t, damageToGeocode, string(data))
	assert.NoFileExists(t, env.cfg.UnmatchedCSVPath)
	assert.Zero(t, atomic.LoadInt64(env.fetches))
}

func TestRunGeocodesAndReportsUnmatched(t *testing.T) {
	env := newRunEnv(t)
	writeDamage(t, env.cfg, damageToGeocode)

	assert.Equal(t, exitOK, runQuiet(env.cfg))
	assert.Equal(t, int64(1), atomic.LoadInt64(env.fetches))

	data, err := os.ReadFile(env.cfg.DamagePath())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"coord_quelle": "Wikipedia: Adlerbrücke"`)
	assert.Contains(t, string(data), `"lat": 52.4412`)

	csv, err := os.ReadFile(env.cfg.UnmatchedCSVPath)
	require.NoError(t, err)
	assert.Equal(t,
		"file,section,bezirk,name\nbruecken_tagesspiegel.json,,Pankow,Nirgendbrücke\n",
		string(csv))
}
