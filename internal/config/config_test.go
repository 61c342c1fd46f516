package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTraceSPICE/pkg/spice/placement"
)

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, placement.Linear, cfg.PlacementStrategy())
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.json")

	cfg := Default()
	require.NoError(t, cfg.Set("strategy", "heuristic"))
	require.NoError(t, cfg.Set("grid_spacing", "20"))
	require.NoError(t, cfg.Set("top_level", "true"))
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
	assert.Equal(t, placement.Heuristic, loaded.PlacementStrategy())
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"grid_spacing": 25}`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.GridSpacing)
	assert.Equal(t, "linear", cfg.Strategy)
	assert.Equal(t, 10, cfg.HitTolerance)
}

func TestLoadInvalid(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{`), 0644))
	_, err := Load(bad)
	assert.Error(t, err)

	invalid := filepath.Join(dir, "invalid.json")
	require.NoError(t, os.WriteFile(invalid, []byte(`{"strategy": "spring"}`), 0644))
	_, err = Load(invalid)
	assert.Error(t, err)
}

func TestSetRejectsBadValues(t *testing.T) {
	cfg := Default()
	assert.Error(t, cfg.Set("grid_spacing", "0"))
	assert.Error(t, cfg.Set("grid_spacing", "ten"))
	assert.Error(t, cfg.Set("hit_tolerance", "-1"))
	assert.Error(t, cfg.Set("colour", "red"))
	assert.Equal(t, Default(), cfg)
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("APPDATA", "")
	t.Setenv("HOME", "/home/user")
	path, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/user", ".config", "opentracespice", "config.json"), path)

	t.Setenv("APPDATA", "/appdata")
	path, err = DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/appdata", "OpenTraceSPICE", "config.json"), path)
}
