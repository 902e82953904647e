package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "manifest.toml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoadConfig(t *testing.T) {
	p := writeManifest(t, `
[[route]]
path = "/health"
action = "health"

[[group]]
prefix = "/admin"
middleware = ["role:admin"]

  [[group.route]]
  path = "/users"
  action = "list-users"
`)
	cfg, err := LoadConfig(p)
	require.NoError(t, err)
	assert.Len(t, cfg.Routes, 1)
	require.Len(t, cfg.Groups, 1)
	assert.Equal(t, []string{"role:admin"}, cfg.Groups[0].Middleware)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
}

func TestLoadConfigBadTOML(t *testing.T) {
	p := writeManifest(t, `[[route` )
	_, err := LoadConfig(p)
	require.Error(t, err)
}

func TestLoadConfigInvalidManifest(t *testing.T) {
	p := writeManifest(t, `
[[route]]
path = "/x"
`)
	_, err := LoadConfig(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "action is required")
}
