// Package dataset reads and writes enriched profile collections as JSON.
package dataset

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"

	"github.com/abduldattijo/investment-data-app/internal/model"
)

// Load reads a JSON array of profiles and normalizes each one.
func Load(path string) ([]model.VCProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: read %s", path)
	}
	return Decode(data)
}

// Decode parses a JSON array of profiles and normalizes each one.
func Decode(data []byte) ([]model.VCProfile, error) {
	var profiles []model.VCProfile
	if err := json.Unmarshal(data, &profiles); err != nil {
		return nil, eris.Wrap(err, "dataset: decode profiles")
	}
	if profiles == nil {
		profiles = []model.VCProfile{}
	}
	for i := range profiles {
		profiles[i].Normalize()
	}
	return profiles, nil
}

// Save writes profiles as indented JSON. The file is written to a temporary
// sibling and renamed into place.
func Save(path string, profiles []model.VCProfile) error {
	if profiles == nil {
		profiles = []model.VCProfile{}
	}
	data, err := json.MarshalIndent(profiles, "", "  ")
	if err != nil {
		return eris.Wrap(err, "dataset: encode profiles")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrapf(err, "dataset: create dir %s", dir)
	}
	tmp, err := os.CreateTemp(dir, ".profiles-*.json")
	if err != nil {
		return eris.Wrap(err, "dataset: create temp file")
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close() //nolint:errcheck
		return eris.Wrap(err, "dataset: write temp file")
	}
	if err := tmp.Close(); err != nil {
		return eris.Wrap(err, "dataset: close temp file")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return eris.Wrapf(err, "dataset: rename to %s", path)
	}
	return nil
}
