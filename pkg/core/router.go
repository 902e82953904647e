// core/router.go
package core

import (
	"fmt"
	"net/http"
	"time"

	chimd "github.com/go-chi/chi/v5/middleware"
	"github.com/wardcore/wardcore/pkg/manifest"
	"github.com/wardcore/wardcore/pkg/middleware/auth"
	"github.com/wardcore/wardcore/pkg/middleware/logger"
	hmetrics "github.com/wardcore/wardcore/pkg/middleware/metrics"
	"github.com/wardcore/wardcore/pkg/pipeline"
	httpx "github.com/wardcore/wardcore/pkg/transport/httpx"
)

type BuildDeps struct {
	Auth     *auth.Middleware
	LogMW    *logger.Middleware
	Metrics  http.Handler
	Registry *pipeline.Registry
	Router   httpx.Router
}

// BuildRouter assembles the full pipeline for every manifest route. All
// middleware references are resolved here, before the handler is returned;
// any unknown name or bad parameter aborts startup. The registry is frozen on
// success, so the pipelines are immutable for the life of the process.
func BuildRouter(cfg manifest.Config, d BuildDeps) (http.Handler, error) {
	r := d.Router
	r.Use(chimd.RequestID, chimd.Recoverer, chimd.Heartbeat("/ping"))
	if d.Auth != nil {
		r.Use(d.Auth.Middleware())
	}
	if d.LogMW != nil {
		r.Use(d.LogMW.Middleware(d.Auth))
	}
	// metrics collector references auth state without copying it; nil-safe
	r.Use(hmetrics.Collect(d.Auth))

	if d.Metrics != nil {
		r.Handle(http.MethodGet, "/metrics", d.Metrics)
	}

	reg := d.Registry
	if reg == nil {
		reg = pipeline.NewRegistry()
	}

	// Global pipeline: code-registered middleware first, then manifest refs.
	globals := reg.Global()
	fromManifest, err := reg.ResolveAll(cfg.Middleware)
	if err != nil {
		return nil, fmt.Errorf("global middleware: %w", err)
	}
	globals = append(globals, fromManifest...)

	for _, rt := range cfg.Routes {
		if err := mountRoute(r, reg, globals, nil, rt.Path, rt); err != nil {
			return nil, err
		}
	}
	for _, g := range cfg.Groups {
		groupMWs, err := reg.ResolveAll(g.Middleware)
		if err != nil {
			return nil, fmt.Errorf("group %s: %w", g.Prefix, err)
		}
		for _, rt := range g.Routes {
			if err := mountRoute(r, reg, globals, groupMWs, g.FullPath(rt), rt); err != nil {
				return nil, err
			}
		}
	}

	reg.Freeze()
	return r.Mux(), nil
}

func mountRoute(r httpx.Router, reg *pipeline.Registry, globals, groupMWs []pipeline.Middleware, fullPath string, rt manifest.Route) error {
	action, ok := LookupAction(rt.Action)
	if !ok {
		return fmt.Errorf("%s %s: action %q not registered", rt.Method, fullPath, rt.Action)
	}
	routeMWs, err := reg.ResolveAll(rt.Middleware)
	if err != nil {
		return fmt.Errorf("%s %s: %w", rt.Method, fullPath, err)
	}

	var h http.Handler = action
	if rt.TimeoutMS > 0 {
		h = withTimeout(h, time.Duration(rt.TimeoutMS)*time.Millisecond)
	}

	// Composition order: global -> group -> route -> action.
	mws := make([]pipeline.Middleware, 0, len(globals)+len(groupMWs)+len(routeMWs))
	mws = append(mws, globals...)
	mws = append(mws, groupMWs...)
	mws = append(mws, routeMWs...)
	h = pipeline.Chain(h, mws...)

	switch rt.Method {
	case http.MethodGet:
		r.Get(fullPath, h)
	case http.MethodPost:
		r.Post(fullPath, h)
	case http.MethodPut:
		r.Put(fullPath, h)
	case http.MethodDelete:
		r.Delete(fullPath, h)
	default:
		r.Handle(rt.Method, fullPath, h)
	}
	return nil
}
