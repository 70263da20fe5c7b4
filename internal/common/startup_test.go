package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	HttpPort uint16
	Archive  struct {
		Path            string
		PersistInterval time.Duration
	}
}

func writeFile(t *testing.T, path, content string) {
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadConfig_MergesFilesThenEnv(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.yaml"), "httpPort: 3003\narchive:\n  path: ./base.json\n  persistInterval: 0s\n")
	override := filepath.Join(dir, "override.yaml")
	writeFile(t, override, "archive:\n  path: ./override.json\n")
	t.Setenv("QPP_ARCHIVE_PERSISTINTERVAL", "5s")

	var config testConfig
	_, err := LoadConfig(&config, dir, []string{override})
	require.NoError(t, err)

	assert.Equal(t, uint16(3003), config.HttpPort)
	assert.Equal(t, "./override.json", config.Archive.Path)
	assert.Equal(t, 5*time.Second, config.Archive.PersistInterval)
}

func TestLoadConfig_MissingDefault(t *testing.T) {
	var config testConfig
	_, err := LoadConfig(&config, t.TempDir(), nil)
	assert.Error(t, err)
}

func TestLoadConfig_MissingOverride(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.yaml"), "httpPort: 3003\n")
	var config testConfig
	_, err := LoadConfig(&config, dir, []string{filepath.Join(dir, "absent.yaml")})
	assert.Error(t, err)
}
