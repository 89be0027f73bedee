// Copyright © 2026 Aron Vendel <aron@avendel.dev>

package data

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// SaveRecord writes the helmet record as indented JSON, creating the
// parent directory if needed. This file is rewritten on every finalized
// reading, so readers always find a complete record.
func SaveRecord(path string, rec HelmetRecord) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	buf, err := json.MarshalIndent(rec, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, buf, 0644)
}

// LoadRecord reads a previously saved helmet record.
func LoadRecord(path string) (HelmetRecord, error) {
	var rec HelmetRecord
	buf, err := os.ReadFile(path)
	if err != nil {
		return rec, err
	}
	err = json.Unmarshal(buf, &rec)
	return rec, err
}

// LoadSimulated reads every *.json helmet record from dir. These are the
// pre-canned records for helmets that are not wired to a live stream.
// Unreadable or malformed files are skipped.
func LoadSimulated(dir string) ([]HelmetRecord, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var helmets []HelmetRecord
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		rec, err := LoadRecord(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue
		}
		helmets = append(helmets, rec)
	}
	return helmets, nil
}
