package planner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "planner.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 80.0, cfg.WalkSpeedMetersPerMin)
	assert.Equal(t, 2.0, cfg.MaxNearbyKm)
	assert.Equal(t, 20, cfg.NearbyLimit)
	assert.Equal(t, 5, cfg.MaxResults)
	assert.Equal(t, 5, cfg.TopStopsForTransfer)
	assert.Equal(t, 5.0, cfg.FareBasePerLeg)
	assert.Equal(t, 1.5, cfg.FarePerStop)
	assert.Equal(t, 0.5, cfg.KmPerStopEstimate)
}

func TestLoadConfigOverrides(t *testing.T) {
	path := writeConfigFile(t, "walk_speed_m_per_min: 100\nmax_results: 3\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 100.0, cfg.WalkSpeedMetersPerMin)
	assert.Equal(t, 3, cfg.MaxResults)

	// Unset keys keep the defaults.
	assert.Equal(t, 2.0, cfg.MaxNearbyKm)
	assert.Equal(t, 1.5, cfg.FarePerStop)
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	path := writeConfigFile(t, "walk_speed_m_per_min: -5\n")

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfigRejectsMalformedYAML(t *testing.T) {
	path := writeConfigFile(t, "walk_speed_m_per_min: [nope\n")

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yml"))
	assert.Error(t, err)
}
