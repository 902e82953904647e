package manifest

import (
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
middleware = ["log-actor"]

[[route]]
path = "/health"
method = "get"
action = "health"

[[group]]
prefix = "/admin"
middleware = ["auth", "role:admin"]

  [[group.route]]
  path = "/users"
  method = "GET"
  action = "list-users"

  [[group.route]]
  path = "/users"
  method = "POST"
  action = "create-user"
  middleware = ["role:admin,editor"]
  timeout_ms = 2500
`

func load(t *testing.T, s string) Config {
	t.Helper()
	var cfg Config
	require.NoError(t, toml.Unmarshal([]byte(s), &cfg))
	return cfg
}

func TestValidateSample(t *testing.T) {
	cfg := load(t, sample)
	require.NoError(t, cfg.Validate())

	require.Len(t, cfg.Routes, 1)
	assert.Equal(t, "GET", cfg.Routes[0].Method, "method upper-cased")

	require.Len(t, cfg.Groups, 1)
	g := cfg.Groups[0]
	assert.Equal(t, "/admin", g.Prefix)
	assert.Equal(t, []string{"auth", "role:admin"}, g.Middleware)
	require.Len(t, g.Routes, 2)
	assert.Equal(t, "/admin/users", g.FullPath(g.Routes[0]))
	assert.Equal(t, 2500, g.Routes[1].TimeoutMS)
}

func TestValidateEmpty(t *testing.T) {
	var cfg Config
	require.Error(t, cfg.Validate())
}

func TestValidateMissingAction(t *testing.T) {
	cfg := load(t, `
[[route]]
path = "/x"
`)
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "action is required")
}

func TestValidateBadMethod(t *testing.T) {
	cfg := load(t, `
[[route]]
path = "/x"
method = "FETCH"
action = "x"
`)
	require.Error(t, cfg.Validate())
}

func TestValidateBadRef(t *testing.T) {
	cfg := load(t, `
[[route]]
path = "/x"
action = "x"
middleware = [":admin"]
`)
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "middleware reference")
}

func TestValidateDuplicateRoute(t *testing.T) {
	cfg := load(t, `
[[route]]
path = "/x"
action = "a"

[[route]]
path = "x"
action = "b"
`)
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate route")
}

func TestValidateDuplicateAcrossGroup(t *testing.T) {
	cfg := load(t, `
[[route]]
path = "/admin/users"
action = "a"

[[group]]
prefix = "admin"

  [[group.route]]
  path = "/users"
  action = "b"
`)
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate route")
}

func TestNormalizePath(t *testing.T) {
	r := Route{Path: "users//all/", Action: "x"}
	require.NoError(t, r.normalize())
	assert.Equal(t, "/users/all", r.Path)
	assert.Equal(t, "GET", r.Method)
}

func TestGroupRootRoute(t *testing.T) {
	g := Group{Prefix: "/admin"}
	require.NoError(t, g.normalize())
	assert.Equal(t, "/admin", g.FullPath(Route{Path: "/"}))
}
