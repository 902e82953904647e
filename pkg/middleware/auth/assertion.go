package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

func (m *Middleware) validateAssertion(raw string) (Actor, error) {
	pub := m.getKey()
	if pub == nil {
		return Actor{}, errors.New("assertion key not configured")
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(m.assertLeeway),
	)

	var claims struct {
		jwt.RegisteredClaims
		UID   string   `json:"uid"`
		Roles []string `json:"roles"`
		Role  string   `json:"role"`
	}

	tok, err := parser.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return pub, nil
	})
	if err != nil || !tok.Valid {
		return Actor{}, errors.New("invalid assertion")
	}

	if m.assertIssuer != "" && claims.Issuer != m.assertIssuer {
		return Actor{}, errors.New("bad issuer")
	}

	if m.assertAudience != "" {
		found := false
		for _, a := range claims.Audience {
			if a == m.assertAudience {
				found = true
				break
			}
		}
		if !found {
			return Actor{}, errors.New("bad audience")
		}
	}

	username := claims.UID
	if username == "" {
		username = claims.Subject
	}
	if username == "" {
		return Actor{}, errors.New("missing uid")
	}

	// A token may carry a single role, a role list, or both.
	roles := append([]string(nil), claims.Roles...)
	if claims.Role != "" && !contains(roles, claims.Role) {
		roles = append([]string{claims.Role}, roles...)
	}

	return Actor{
		Username: username,
		Provider: "assert",
		Roles:    roles,
	}, nil
}
