package auth

// Actor is the authenticated identity attached to a request, if any.
// Roles may be empty; role-based access decisions belong to the guard
// middleware, never to this package.
type Actor struct {
	Username string   `json:"username"`
	Provider string   `json:"provider"`
	Roles    []string `json:"roles"`
}

// HasRole reports whether the actor holds the given role directly.
// The admin override lives in Middleware.HasRole, not here.
func (a Actor) HasRole(role string) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}
