package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
	"github.com/jszwec/csvutil"

	"berlin-bridges/models"
)

// CSVWriter writes the unmatched and validation reports.
type CSVWriter struct{}

// NewCSVWriter creates a CSVWriter.
func NewCSVWriter() *CSVWriter {
	return &CSVWriter{}
}

// WriteUnmatched writes file,section,bezirk,name rows. An empty list
// writes nothing and reports false.
func (c *CSVWriter) WriteUnmatched(path string, rows []models.UnmatchedBridge) (bool, error) {
	if len(rows) == 0 {
		return false, nil
	}
	if err := writeCSV(path, models.UnmatchedBridge{}, rows); err != nil {
		return false, err
	}
	return true, nil
}

// WriteIssues writes the validation report, header included even when
// there are no issues.
func (c *CSVWriter) WriteIssues(path string, issues []models.ValidationIssue) error {
	return writeCSV(path, models.ValidationIssue{}, issues)
}

func writeCSV(path string, header, rows any) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("csv: create output dir: %w", err)
		}
	}

	pending, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644))
	if err != nil {
		return fmt.Errorf("csv: create pending file %q: %w", path, err)
	}
	defer pending.Cleanup()

	w := csv.NewWriter(pending)
	enc := csvutil.NewEncoder(w)
	if err := enc.EncodeHeader(header); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}
	if err := enc.Encode(rows); err != nil {
		return fmt.Errorf("csv: write rows: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("csv: flush %q: %w", path, err)
	}

	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("csv: replace %q: %w", path, err)
	}
	return nil
}
