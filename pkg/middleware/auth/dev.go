package auth

import (
	"net/http"
	"strings"
)

// Dev-only actor injection via headers when AUTH_DEV_BYPASS=true
func devActorFromHeaders(r *http.Request) Actor {
	user := r.Header.Get("X-Dev-User")
	if user == "" {
		return Actor{}
	}
	var roles []string
	for _, v := range strings.Split(r.Header.Get("X-Dev-Roles"), ",") {
		if v = strings.TrimSpace(v); v != "" {
			roles = append(roles, v)
		}
	}
	return Actor{
		Username: user,
		Provider: "dev",
		Roles:    roles,
	}
}
