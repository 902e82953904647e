package guard

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wardcore/wardcore/pkg/middleware/auth"
	"github.com/wardcore/wardcore/pkg/middleware/metrics"
	"github.com/wardcore/wardcore/pkg/pipeline"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	SetDenialLogger(zap.NewNop())
	os.Exit(m.Run())
}

func newAuth(t *testing.T, adminRole string) *auth.Middleware {
	t.Helper()
	t.Setenv("ADMIN_ROLE_NAME", adminRole)
	t.Setenv("AUTH_DEV_BYPASS", "")
	t.Setenv("ASSERTION_KEY_URL", "")
	return auth.ProvideAuthentication()
}

func serve(t *testing.T, mw pipeline.Middleware, actor *auth.Actor) (*httptest.ResponseRecorder, int) {
	t.Helper()
	calls := 0
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusTeapot) // distinctive downstream result
	}))
	r := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	if actor != nil {
		r = r.WithContext(auth.WithActor(r.Context(), *actor))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	return rec, calls
}

func TestRequireRoleUnauthenticated(t *testing.T) {
	a := newAuth(t, "")
	rec, calls := serve(t, RequireRole(a, "admin"), nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"unauthenticated"}`, rec.Body.String())
	assert.Zero(t, calls, "continuation must never be invoked")
}

func TestRequireRoleMismatch(t *testing.T) {
	a := newAuth(t, "")
	rec, calls := serve(t, RequireRole(a, "admin"), &auth.Actor{Username: "jdoe", Roles: []string{"editor"}})

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Forbidden\n", rec.Body.String())
	assert.Zero(t, calls)
}

func TestRequireRoleMatch(t *testing.T) {
	a := newAuth(t, "")
	rec, calls := serve(t, RequireRole(a, "admin"), &auth.Actor{Username: "root", Roles: []string{"admin"}})

	assert.Equal(t, http.StatusTeapot, rec.Code, "downstream result propagated unchanged")
	assert.Equal(t, 1, calls, "continuation invoked exactly once")
}

func TestRequireRoleAnyOfParams(t *testing.T) {
	a := newAuth(t, "")
	rec, calls := serve(t, RequireRole(a, "admin", "editor"),
		&auth.Actor{Username: "jdoe", Roles: []string{"reviewer", "editor"}})

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, 1, calls)
}

func TestRequireRoleEmptyRolesActor(t *testing.T) {
	a := newAuth(t, "")
	rec, calls := serve(t, RequireRole(a, "admin"), &auth.Actor{Username: "norole"})

	// Actor present, so the denial is Forbidden rather than unauthenticated.
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Zero(t, calls)
}

func TestRequireRoleAdminOverride(t *testing.T) {
	a := newAuth(t, "admin")
	rec, calls := serve(t, RequireRole(a, "editor"), &auth.Actor{Username: "root", Roles: []string{"admin"}})

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, 1, calls)
}

func TestRequireAuth(t *testing.T) {
	a := newAuth(t, "")

	rec, calls := serve(t, RequireAuth(a), nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, calls)

	rec, calls = serve(t, RequireAuth(a), &auth.Actor{Username: "jdoe"})
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, 1, calls)
}

func TestRequireRoleNilAuth(t *testing.T) {
	rec, calls := serve(t, RequireRole(nil, "admin"), nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, calls)
}

func TestDenialIncrementsCounter(t *testing.T) {
	a := newAuth(t, "")
	rec, _ := serve(t, RequireRole(a, "auditor"), &auth.Actor{Username: "jdoe", Roles: []string{"editor"}})
	require.Equal(t, http.StatusForbidden, rec.Code)

	scrape := httptest.NewRecorder()
	metrics.NewPromHttpHandler().ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, scrape.Body.String(),
		`pipeline_denials_total{middleware="role:auditor",reason="forbidden"}`)
}

func TestRegisterDefaults(t *testing.T) {
	a := newAuth(t, "")
	reg := pipeline.NewRegistry()
	require.NoError(t, RegisterDefaults(reg, a))

	// Registered names resolve with parameters bound.
	mw, err := reg.Resolve(pipeline.Ref{Name: "role", Params: []string{"admin"}})
	require.NoError(t, err)
	require.NotNil(t, mw)

	mw, err = reg.Resolve(pipeline.Ref{Name: "auth"})
	require.NoError(t, err)
	require.NotNil(t, mw)

	// "role" without parameters is a configuration error.
	_, err = reg.Resolve(pipeline.Ref{Name: "role"})
	require.Error(t, err)

	// "auth" takes no parameters.
	_, err = reg.Resolve(pipeline.Ref{Name: "auth", Params: []string{"x"}})
	require.Error(t, err)

	// Second installation collides on the names.
	err = RegisterDefaults(reg, a)
	require.Error(t, err)
	assert.ErrorIs(t, err, pipeline.ErrDuplicateName)
}
