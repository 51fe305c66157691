package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"clipvault/internal/models"
)

// CatalogFileName is the record list file kept next to the blobs.
const CatalogFileName = "catalog.json"

// loadCatalogFile reads the persisted record list. A missing file yields an
// empty catalog; a decode failure is returned to the caller, which treats it
// as data loss and starts empty without touching the file.
func loadCatalogFile(path string) ([]models.ClipRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var records []models.ClipRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return records, nil
}

// writeCatalogFile persists the record list atomically: encode to a temp
// file in the same directory, then rename over the catalog file. Field
// order inside each record is fixed by the struct definition so repeated
// writes of the same state are byte identical.
func writeCatalogFile(path string, records []models.ClipRecord) error {
	if records == nil {
		records = []models.ClipRecord{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "catalog-*")
	if err != nil {
		return fmt.Errorf("create temp catalog: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write catalog: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close catalog: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace catalog: %w", err)
	}
	return nil
}
