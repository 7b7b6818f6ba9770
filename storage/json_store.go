package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/google/renameio/v2"

	"berlin-bridges/models"
	"berlin-bridges/utils"
)

// ErrNotFound is returned when a dataset file does not exist.
var ErrNotFound = errors.New("dataset file not found")

// JSONStore loads and atomically rewrites the published datasets.
type JSONStore struct {
	DryRun bool
	logger *utils.Logger
}

// NewJSONStore creates a JSONStore. With dryRun set, saves are logged only.
func NewJSONStore(dryRun bool, logger *utils.Logger) *JSONStore {
	return &JSONStore{DryRun: dryRun, logger: logger}
}

// LoadRenovation reads bruecken.json.
func (s *JSONStore) LoadRenovation(path string) (*models.RenovationDataset, error) {
	ds := &models.RenovationDataset{}
	if err := s.load(path, ds); err != nil {
		return nil, err
	}
	return ds, nil
}

// LoadDamage reads bruecken_tagesspiegel.json.
func (s *JSONStore) LoadDamage(path string) (*models.DamageDataset, error) {
	ds := &models.DamageDataset{}
	if err := s.load(path, ds); err != nil {
		return nil, err
	}
	return ds, nil
}

// SaveRenovation writes bruecken.json back.
func (s *JSONStore) SaveRenovation(path string, ds *models.RenovationDataset) error {
	return s.save(path, ds)
}

// SaveDamage writes bruecken_tagesspiegel.json back.
func (s *JSONStore) SaveDamage(path string, ds *models.DamageDataset) error {
	return s.save(path, ds)
}

func (s *JSONStore) load(path string, v any) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("json: %s: %w", path, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("json: read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("json: decode %s: %w", path, err)
	}
	return nil
}

func (s *JSONStore) save(path string, v json.Marshaler) error {
	compact, err := v.MarshalJSON()
	if err != nil {
		return fmt.Errorf("json: encode %s: %w", path, err)
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact, "", "  "); err != nil {
		return fmt.Errorf("json: indent %s: %w", path, err)
	}
	out.WriteByte('\n')

	if s.DryRun {
		s.logger.Info("[storage] Dry run, not writing %s (%d bytes)", path, out.Len())
		return nil
	}

	if err := renameio.WriteFile(path, out.Bytes(), 0o644); err != nil {
		return fmt.Errorf("json: write %s: %w", path, err)
	}
	s.logger.Info("[storage] Updated: %s", path)
	return nil
}
