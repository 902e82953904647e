package manifest

import (
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/wardcore/wardcore/pkg/pipeline"
)

// Route describes a single HTTP route: an action name resolved from the
// action registry, plus the middleware references applied before it.
type Route struct {
	Path       string   `toml:"path"`
	Method     string   `toml:"method"`
	Action     string   `toml:"action"`
	Middleware []string `toml:"middleware"`
	TimeoutMS  int      `toml:"timeout_ms"`
}

// normalize path/method
func (r *Route) normalize() error {
	if r.Path == "" {
		return errors.New("path is required")
	}
	if !strings.HasPrefix(r.Path, "/") {
		r.Path = "/" + r.Path
	}
	if r.Path != "/" {
		r.Path = path.Clean(r.Path)
	}
	r.Method = strings.ToUpper(strings.TrimSpace(r.Method))
	if r.Method == "" {
		r.Method = http.MethodGet
	}
	return nil
}

// validate fields that are independent of global state. Middleware names are
// checked syntactically here; registry resolution happens at router build.
func (r *Route) validate() error {
	if strings.TrimSpace(r.Action) == "" {
		return errors.New("action is required")
	}
	switch r.Method {
	case http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
		http.MethodPatch, http.MethodDelete, http.MethodOptions:
	default:
		return fmt.Errorf("unknown method %q", r.Method)
	}
	if r.TimeoutMS < 0 {
		return errors.New("timeout_ms must be >= 0")
	}
	for _, ref := range r.Middleware {
		if err := checkRef(ref); err != nil {
			return err
		}
	}
	return nil
}

func checkRef(ref string) error {
	if _, err := pipeline.ParseRef(ref); err != nil {
		return fmt.Errorf("middleware reference %q: %w", ref, err)
	}
	return nil
}
