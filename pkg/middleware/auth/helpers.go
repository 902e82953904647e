package auth

import "context"

func (m *Middleware) GetActor(ctx context.Context) Actor {
	if a, ok := ctx.Value(actorCtxKey).(Actor); ok {
		return a
	}
	return Actor{}
}

func (m *Middleware) IsAuthenticated(ctx context.Context) bool {
	a, ok := ctx.Value(actorCtxKey).(Actor)
	return ok && a.Username != ""
}

// HasRole reports whether the current actor holds the role. The configured
// admin role satisfies every check.
func (m *Middleware) HasRole(ctx context.Context, role string) bool {
	if a, ok := ctx.Value(actorCtxKey).(Actor); ok {
		return a.HasRole(role) || (m.adminRole != "" && a.HasRole(m.adminRole))
	}
	return false
}

func (m *Middleware) IsAdmin(ctx context.Context) bool {
	if a, ok := ctx.Value(actorCtxKey).(Actor); ok && m.adminRole != "" {
		return a.HasRole(m.adminRole)
	}
	return false
}

// WithActor returns a context carrying the given actor. Exposed for tests and
// for adapters that resolve identity outside this package.
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorCtxKey, a)
}
