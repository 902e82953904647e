package pipeline

import (
	"fmt"
	"sync"
)

// Factory builds a middleware instance from the parameters bound in a
// manifest reference. Factories run at router build time, not per request.
type Factory func(params []string) (Middleware, error)

// Registry maps middleware names to factories. It is populated during startup
// and frozen before the first request is dispatched; resolution after that
// point is read-only and safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	named  map[string]Factory
	global []Middleware
	frozen bool
}

func NewRegistry() *Registry {
	return &Registry{named: make(map[string]Factory)}
}

// RegisterGlobal appends a middleware applied to every request, in
// registration order, ahead of any group or route middleware.
func (g *Registry) RegisterGlobal(mw Middleware) error {
	if mw == nil {
		return fmt.Errorf("register global: nil middleware")
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.frozen {
		return fmt.Errorf("register global: %w", ErrFrozen)
	}
	g.global = append(g.global, mw)
	return nil
}

// Register makes a named middleware available to manifest references.
// Registering the same name twice is a configuration error and fails here,
// before any route is constructed.
func (g *Registry) Register(name string, f Factory) error {
	if name == "" {
		return fmt.Errorf("register middleware: empty name")
	}
	if f == nil {
		return fmt.Errorf("register middleware %q: nil factory", name)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.frozen {
		return fmt.Errorf("register middleware %q: %w", name, ErrFrozen)
	}
	if _, ok := g.named[name]; ok {
		return fmt.Errorf("register middleware %q: %w", name, ErrDuplicateName)
	}
	g.named[name] = f
	return nil
}

// MustRegister panics on registration failure. Intended for wiring code that
// runs once at process start.
func (g *Registry) MustRegister(name string, f Factory) {
	if err := g.Register(name, f); err != nil {
		panic(err)
	}
}

// Resolve builds the middleware for a parsed reference.
func (g *Registry) Resolve(ref Ref) (Middleware, error) {
	g.mu.RLock()
	f, ok := g.named[ref.Name]
	g.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("resolve %q: %w", ref.Name, ErrUnknownMiddleware)
	}
	mw, err := f(ref.Params)
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", ref.String(), err)
	}
	return mw, nil
}

// ResolveAll parses and resolves a list of manifest references, preserving
// declaration order. The first failure aborts; callers treat that as fatal to
// route construction.
func (g *Registry) ResolveAll(refs []string) ([]Middleware, error) {
	out := make([]Middleware, 0, len(refs))
	for _, s := range refs {
		ref, err := ParseRef(s)
		if err != nil {
			return nil, err
		}
		mw, err := g.Resolve(ref)
		if err != nil {
			return nil, err
		}
		out = append(out, mw)
	}
	return out, nil
}

// Global returns the globally applied middlewares in registration order.
func (g *Registry) Global() []Middleware {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]Middleware, len(g.global))
	copy(out, g.global)
	return out
}

// Freeze marks initialization complete. Later registrations fail with
// ErrFrozen; resolution remains available.
func (g *Registry) Freeze() {
	g.mu.Lock()
	g.frozen = true
	g.mu.Unlock()
}
