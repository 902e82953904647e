package auth

import (
	"context"
	"net/http"
	"strings"
)

type contextKey struct{ name string }

var actorCtxKey = &contextKey{"actor"}

// Middleware returns the actor-resolution middleware. Credential sources are
// tried in order: dev bypass headers, bearer token, assertion cookie. A
// request with no usable credential continues unauthenticated.
func (m *Middleware) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Dev bypass for local testing (NEVER enable in prod)
			if m.devBypass {
				if a := devActorFromHeaders(r); a.Username != "" {
					ctx := context.WithValue(r.Context(), actorCtxKey, a)
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
			}

			// 1) Bearer token, validated locally against the assertion key
			if raw := bearerToken(r); raw != "" && m.getKey() != nil {
				if a, err := m.validateAssertion(raw); err == nil && a.Username != "" {
					ctx := context.WithValue(r.Context(), actorCtxKey, a)
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
				// fall through on error; guards decide whether to deny
			}

			// 2) Assertion cookie
			if ac, _ := r.Cookie(m.assertCookieName); ac != nil && ac.Value != "" && m.getKey() != nil {
				if a, err := m.validateAssertion(ac.Value); err == nil && a.Username != "" {
					ctx := context.WithValue(r.Context(), actorCtxKey, a)
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
			}

			// 3) No credential; continue unauthenticated
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
