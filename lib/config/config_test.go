package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "helloquad.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "#ff0000ff", cfg.QuadColour)
	assert.Equal(t, "#000000ff", cfg.ClearColour)
	assert.Nil(t, cfg.Api)
}

func TestParse(t *testing.T) {
	path := writeConfig(t, `
window:
  title: test
  width: 480
  height: 800
quad_colour: "#00ff00ff"
shaders:
  fragment: shaders/green.frag
  vertex: /abs/quad.vert
api:
  bind: localhost:8000
  enable_profiler: true
`)
	cfg, err := Parse(path)
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.Window.Title)
	assert.Equal(t, 480, cfg.Window.Width)
	assert.Equal(t, 800, cfg.Window.Height)
	assert.Equal(t, 1, cfg.Window.SwapInterval, "unset keys keep their defaults")
	assert.True(t, cfg.Window.Resizable)
	assert.Equal(t, "#00ff00ff", cfg.QuadColour)
	assert.Equal(t, "#000000ff", cfg.ClearColour)
	assert.Equal(t, "410 core", cfg.Shaders.Version)

	assert.Equal(t, CfgPath(filepath.Join(filepath.Dir(path), "shaders/green.frag")), cfg.Shaders.Fragment)
	assert.Equal(t, CfgPath("/abs/quad.vert"), cfg.Shaders.Vertex)

	require.NotNil(t, cfg.Api)
	assert.Equal(t, "localhost:8000", cfg.Api.Bind)
	assert.True(t, cfg.Api.EnableProfiler)

	assert.Contains(t, cfg.String(), "test (480x800, swap interval 1)")
}

func TestParseInvalid(t *testing.T) {
	tests := map[string]string{
		"bad colour":     "quad_colour: red\n",
		"short colour":   "clear_colour: \"#000000\"\n",
		"zero size":      "window:\n  width: 0\n",
		"negative vsync": "window:\n  swap_interval: -1\n",
		"empty bind":     "api:\n  enable_profiler: true\n",
		"unknown key":    "colour: \"#ff0000ff\"\n",
		"no version":     "shaders:\n  version: \"\"\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(writeConfig(t, content))
			assert.Error(t, err)
		})
	}
}

func TestParseMissingFile(t *testing.T) {
	_, err := Parse(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
