package models

import (
	"os"
	"path/filepath"
	"testing"
)

// GetFixturePath returns the absolute path to a fixture file in the "testdata" directory relative to the project's root.
func GetFixturePath(t *testing.T, fixturePath string) string {
	t.Helper()

	absPath, err := filepath.Abs(filepath.Join("..", "..", "testdata", fixturePath))
	if err != nil {
		t.Fatalf("Failed to get absolute path to testdata/%s: %v", fixturePath, err)
	}

	return absPath
}

// WriteGTFSFixture writes the given GTFS tables into a temporary feed
// directory and returns its path. Keys are file names such as
// "stops.csv"; values are the raw file contents.
func WriteGTFSFixture(t *testing.T, tables map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range tables {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("Failed to write fixture table %s: %v", name, err)
		}
	}
	return dir
}
