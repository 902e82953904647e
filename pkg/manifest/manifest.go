package manifest

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

// Config is the top-level manifest: global middleware references plus routes,
// declared either flat or under prefix groups.
type Config struct {
	Middleware []string `toml:"middleware"` // applied to every request, in order
	Routes     []Route  `toml:"route"`
	Groups     []Group  `toml:"group"`
}

// Group declares routes sharing a path prefix and a middleware list. Group
// middleware runs after the global list and before each route's own.
type Group struct {
	Prefix     string   `toml:"prefix"`
	Middleware []string `toml:"middleware"`
	Routes     []Route  `toml:"route"`
}

// Validate normalizes and checks the whole manifest. It runs once at startup;
// any error prevents the process from serving.
func (c *Config) Validate() error {
	if len(c.Routes) == 0 && len(c.Groups) == 0 {
		return errors.New("no routes defined")
	}

	for _, ref := range c.Middleware {
		if err := checkRef(ref); err != nil {
			return fmt.Errorf("global middleware: %w", err)
		}
	}

	seen := map[string]struct{}{}
	for i := range c.Routes {
		if err := c.Routes[i].normalize(); err != nil {
			return fmt.Errorf("route %d: %w", i, err)
		}
		if err := c.Routes[i].validate(); err != nil {
			return fmt.Errorf("route %d (%s %s): %w", i, c.Routes[i].Method, c.Routes[i].Path, err)
		}
		if err := markSeen(seen, c.Routes[i].Method, c.Routes[i].Path); err != nil {
			return err
		}
	}

	for gi := range c.Groups {
		g := &c.Groups[gi]
		if err := g.normalize(); err != nil {
			return fmt.Errorf("group %d: %w", gi, err)
		}
		for _, ref := range g.Middleware {
			if err := checkRef(ref); err != nil {
				return fmt.Errorf("group %d (%s): %w", gi, g.Prefix, err)
			}
		}
		if len(g.Routes) == 0 {
			return fmt.Errorf("group %d (%s): no routes", gi, g.Prefix)
		}
		for i := range g.Routes {
			if err := g.Routes[i].normalize(); err != nil {
				return fmt.Errorf("group %d route %d: %w", gi, i, err)
			}
			if err := g.Routes[i].validate(); err != nil {
				return fmt.Errorf("group %d route %d (%s %s): %w", gi, i, g.Routes[i].Method, g.Routes[i].Path, err)
			}
			if err := markSeen(seen, g.Routes[i].Method, g.FullPath(g.Routes[i])); err != nil {
				return err
			}
		}
	}
	return nil
}

func (g *Group) normalize() error {
	p := strings.TrimSpace(g.Prefix)
	if p == "" {
		return errors.New("prefix is required")
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	g.Prefix = path.Clean(p)
	return nil
}

// FullPath joins the group prefix with a route path.
func (g *Group) FullPath(r Route) string {
	if r.Path == "/" {
		return g.Prefix
	}
	return path.Join(g.Prefix, r.Path)
}

func markSeen(seen map[string]struct{}, method, p string) error {
	key := method + " " + p
	if _, dup := seen[key]; dup {
		return fmt.Errorf("duplicate route %s", key)
	}
	seen[key] = struct{}{}
	return nil
}
