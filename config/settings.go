package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"tradeJournal/internal/risk"
)

// LoadSettings reads calculator defaults from a YAML file. Fields missing from the file keep the
// fallback values; a missing file returns the fallback unchanged.
func LoadSettings(path string, fallback risk.Settings) (risk.Settings, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return fallback, nil
	}
	if err != nil {
		return fallback, fmt.Errorf("failed to read settings file '%s': %w", path, err)
	}

	s := fallback
	if err := yaml.Unmarshal(data, &s); err != nil {
		return fallback, fmt.Errorf("failed to parse settings file '%s': %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return fallback, fmt.Errorf("settings file '%s': %w", path, err)
	}
	return s, nil
}

// SaveSettings validates and writes calculator defaults to path, creating parent directories.
func SaveSettings(path string, s risk.Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create settings directory '%s': %w", filepath.Dir(path), err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings file '%s': %w", tmp, err)
	}
	return os.Rename(tmp, path)
}
