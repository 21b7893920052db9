package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goslice/internal/config"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoadOverlaysOntoDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".goslice.toml")
	contents := `
[neo4j]
uri = "neo4j://db.internal:7687"

[output]
dir = "build"
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "neo4j://db.internal:7687", cfg.Neo4j.URI)
	assert.Equal(t, "neo4j", cfg.Neo4j.User) // untouched, still the default
	assert.Equal(t, "build", cfg.Output.Dir)
}

func TestLoadInvalidTOMLErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".goslice.toml")
	require.NoError(t, os.WriteFile(path, []byte("not valid = = toml"), 0o644))

	_, err := config.Load(path)
	assert.Error(t, err)
}
