package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"berlin-bridges/models"
	"berlin-bridges/utils"
)

const damageJSON = `{"stand":"2025-02","anzahl":2,"bruecken":[
{"id":1,"bezirk":"Mitte","name":"Elsenbrücke","schadensart":"Spannungsrisskorrosion","foto":"a&b.jpg"},
{"id":2,"bezirk":"Spandau","name":"Freybrücke","schadensart":"Korrosion"}]}`

func quietStore(dryRun bool) *JSONStore {
	return NewJSONStore(dryRun, utils.NewLoggerTo(&bytes.Buffer{}, "error"))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := quietStore(false).LoadDamage(filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bruecken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := quietStore(false).LoadRenovation(path)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bruecken_tagesspiegel.json")
	require.NoError(t, os.WriteFile(path, []byte(damageJSON), 0o644))

	store := quietStore(false)
	ds, err := store.LoadDamage(path)
	require.NoError(t, err)
	ds.Bridges[0].SetCoordinates(52.49, 13.46, "Wikipedia: Elsenbrücke")
	require.NoError(t, store.SaveDamage(path, ds))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.True(t, strings.HasSuffix(text, "}\n"))
	assert.Contains(t, text, "\n  \"stand\": \"2025-02\"")
	assert.Contains(t, text, `"foto": "a&b.jpg"`)
	assert.Contains(t, text, `"coord_quelle": "Wikipedia: Elsenbrücke"`)

	again, err := store.LoadDamage(path)
	require.NoError(t, err)
	require.Len(t, again.Bridges, 2)
	assert.True(t, again.Bridges[0].HasCoordinates())
	assert.False(t, again.Bridges[1].HasCoordinates())
}

func TestSaveKeepsUntouchedCoordinateText(t *testing.T) {
	const stored = "{\n" +
		"  \"stand\": \"2025-02\",\n" +
		"  \"bruecken\": [\n" +
		"    {\n      \"name\": \"A\",\n      \"lat\": \"\",\n      \"lon\": \"\"\n    },\n" +
		"    {\n      \"name\": \"B\",\n      \"lat\": \"52,5\",\n      \"lon\": \"13,4\"\n    }\n" +
		"  ]\n" +
		"}\n"
	path := filepath.Join(t.TempDir(), "bruecken_tagesspiegel.json")
	require.NoError(t, os.WriteFile(path, []byte(stored), 0o644))

	store := quietStore(false)
	ds, err := store.LoadDamage(path)
	require.NoError(t, err)
	require.Len(t, ds.Bridges, 2)
	assert.True(t, ds.Bridges[0].HasCoordinates(), "non-null empty strings count as coordinates")
	assert.True(t, ds.Bridges[1].HasCoordinates())

	require.NoError(t, store.SaveDamage(path, ds))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, stored, string(data))
}

func TestSaveDryRunLeavesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bruecken_tagesspiegel.json")
	require.NoError(t, os.WriteFile(path, []byte(damageJSON), 0o644))

	store := quietStore(true)
	ds, err := store.LoadDamage(path)
	require.NoError(t, err)
	ds.Bridges[1].SetCoordinates(52.53, 13.19, "Wikipedia: Freybrücke")
	require.NoError(t, store.SaveDamage(path, ds))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, damageJSON, string(data))
}

func TestWriteUnmatched(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "unmatched_bridges.csv")
	w := NewCSVWriter()

	wrote, err := w.WriteUnmatched(path, []models.UnmatchedBridge{
		{File: "bruecken.json", Section: "bezirke", District: "Mitte", Name: "Fischerinselbrücke"},
		{File: "bruecken_tagesspiegel.json", Section: "", District: "Pankow", Name: "Brücke, Nord"},
	})
	require.NoError(t, err)
	assert.True(t, wrote)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"file,section,bezirk,name\n"+
			"bruecken.json,bezirke,Mitte,Fischerinselbrücke\n"+
			"bruecken_tagesspiegel.json,,Pankow,\"Brücke, Nord\"\n",
		string(data))
}

func TestWriteUnmatchedEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unmatched_bridges.csv")

	wrote, err := NewCSVWriter().WriteUnmatched(path, nil)
	require.NoError(t, err)
	assert.False(t, wrote)
	assert.NoFileExists(t, path)
}

func TestWriteIssuesHeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "validation.csv")

	require.NoError(t, NewCSVWriter().WriteIssues(path, nil))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "file,section,bezirk,name,rule,severity,message\n", string(data))
}

func TestMemoryCatalog(t *testing.T) {
	cat := NewMemoryCatalog()
	ctx := context.Background()
	in := []*models.CatalogEntry{
		{Dataset: models.DatasetDamage, Name: "Elsenbrücke"},
		{Dataset: models.DatasetRenovation, Name: "Mühlendammbrücke"},
	}
	require.NoError(t, cat.Write(ctx, in))

	out, err := cat.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, int64(1), out[0].ID)
	assert.Equal(t, int64(2), out[1].ID)
	assert.False(t, out[1].CreatedAt.IsZero())
	assert.Zero(t, in[0].ID, "input entries must not be mutated")
}

func TestBuildInsertPlaceholders(t *testing.T) {
	query, args := buildInsert([]*models.CatalogEntry{{Name: "a"}, {Name: "b"}})
	assert.Len(t, args, 2*catalogColumns)
	assert.Contains(t, query, "($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11),($12,")
	assert.Contains(t, query, "$22)")
	assert.Nil(t, args[0], "empty run id is stored as NULL")
}
