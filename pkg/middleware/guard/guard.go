package guard

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/wardcore/wardcore/pkg/middleware/auth"
	"github.com/wardcore/wardcore/pkg/pipeline"
)

// Names usable from a manifest middleware reference.
const (
	NameAuth = "auth"
	NameRole = "role"
)

// RequireAuth denies unauthenticated requests and otherwise delegates.
func RequireAuth(a *auth.Middleware) pipeline.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if a == nil || !a.IsAuthenticated(r.Context()) {
				denyUnauthenticated(w, r, a, NameAuth)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole allows the request through when the actor holds any of the
// given roles (or the configured admin role). No actor: 401. Actor without a
// matching role: 403. The continuation runs at most once.
func RequireRole(a *auth.Middleware, roles ...string) pipeline.Middleware {
	ref := pipeline.Ref{Name: NameRole, Params: roles}.String()
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if a == nil || !a.IsAuthenticated(r.Context()) {
				denyUnauthenticated(w, r, a, ref)
				return
			}
			if a.IsAdmin(r.Context()) {
				next.ServeHTTP(w, r)
				return
			}
			for _, held := range a.GetActor(r.Context()).Roles {
				if _, ok := allowed[held]; ok {
					next.ServeHTTP(w, r)
					return
				}
			}
			denyForbidden(w, r, a, ref)
		})
	}
}

// RegisterDefaults installs the "auth" and "role" middleware names so
// manifests can reference them (e.g. "role:admin").
func RegisterDefaults(reg *pipeline.Registry, a *auth.Middleware) error {
	if err := reg.Register(NameAuth, func(params []string) (pipeline.Middleware, error) {
		if len(params) > 0 {
			return nil, fmt.Errorf("%q takes no parameters", NameAuth)
		}
		return RequireAuth(a), nil
	}); err != nil {
		return err
	}
	return reg.Register(NameRole, func(params []string) (pipeline.Middleware, error) {
		if len(params) == 0 {
			return nil, errors.New("\"role\" requires at least one role parameter")
		}
		return RequireRole(a, params...), nil
	})
}
