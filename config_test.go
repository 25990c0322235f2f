package furshell

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "furshell.yaml")
	saved := Config{
		Fullscreen:       true,
		Monitor:          "HDMI-1",
		MouseSensitivity: 0.25,
		Width:            1280,
		Height:           720,
	}
	require.NoError(t, SaveConfig(path, saved))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)
}

func TestLoadConfigPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "furshell.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fullscreen: true\n"), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.True(t, cfg.Fullscreen)
	assert.Equal(t, DefaultConfig().MouseSensitivity, cfg.MouseSensitivity)
	assert.Equal(t, DefaultConfig().Width, cfg.Width)
}

func TestLoadConfigMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "furshell.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml"), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}
