package pipeline

import (
	"errors"
	"strings"
)

// Ref is a middleware reference as written in a manifest: "name" or
// "name:p1,p2". Params are bound once at route construction, never per-request.
type Ref struct {
	Name   string
	Params []string
}

// ParseRef splits a manifest reference into its name and bound parameters.
// Everything after the first ':' is a comma-separated parameter list.
func ParseRef(s string) (Ref, error) {
	raw := strings.TrimSpace(s)
	name := raw
	var params []string
	if i := strings.Index(raw, ":"); i >= 0 {
		name = strings.TrimSpace(raw[:i])
		for _, p := range strings.Split(raw[i+1:], ",") {
			p = strings.TrimSpace(p)
			if p != "" {
				params = append(params, p)
			}
		}
	}
	if name == "" {
		return Ref{}, errors.New("middleware reference has empty name")
	}
	return Ref{Name: name, Params: params}, nil
}

func (r Ref) String() string {
	if len(r.Params) == 0 {
		return r.Name
	}
	return r.Name + ":" + strings.Join(r.Params, ",")
}
