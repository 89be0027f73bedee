// Copyright © 2026 Aron Vendel <aron@avendel.dev>

package data

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord(id string) HelmetRecord {
	hr := 72.0
	return HelmetRecord{
		Snapshot: Snapshot{
			HelmetID:    id,
			Name:        "John Doe",
			Timestamp:   time.Date(2026, 8, 26, 10, 30, 0, 0, time.UTC),
			Temperature: 28.5,
			GasLevel:    120,
			HeartRate:   &hr,
			BloodOxygen: 97.5,
			AlertStatus: AlertNormal,
		},
		History: []Reading{
			{
				Timestamp:   time.Date(2026, 8, 26, 10, 30, 0, 0, time.UTC),
				Temperature: 28.5,
				GasLevel:    120,
				HeartRate:   &hr,
				BloodOxygen: 97.5,
				AlertStatus: AlertNormal,
			},
		},
	}
}

func TestSaveAndLoadRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "live", "h1_history.json")

	rec := sampleRecord("H1")
	require.NoError(t, SaveRecord(path, rec))

	loaded, err := LoadRecord(path)
	require.NoError(t, err)
	assert.Equal(t, rec, loaded)
}

func TestLoadRecordMissingFile(t *testing.T) {
	_, err := LoadRecord(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoadSimulated(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, SaveRecord(filepath.Join(dir, "h2.json"), sampleRecord("H2")))
	require.NoError(t, SaveRecord(filepath.Join(dir, "h3.json"), sampleRecord("H3")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0644))

	helmets, err := LoadSimulated(dir)
	require.NoError(t, err)
	require.Len(t, helmets, 2)

	ids := []string{helmets[0].HelmetID, helmets[1].HelmetID}
	assert.ElementsMatch(t, []string{"H2", "H3"}, ids)
}

func TestLoadSimulatedMissingDir(t *testing.T) {
	_, err := LoadSimulated(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
