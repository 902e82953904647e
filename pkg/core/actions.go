// core/actions.go
package core

import (
	"fmt"
	"net/http"
	"sync"
)

// actions maps the names referenced by manifest routes to their handlers.
// Populated at process start, read-only once the router is built.
var (
	actionsMu sync.RWMutex
	actions   = map[string]http.HandlerFunc{}
)

// RegisterAction makes a handler available under a name referenced in the
// manifest. Registering a name twice is a startup configuration error.
func RegisterAction(name string, h http.HandlerFunc) error {
	if name == "" {
		return fmt.Errorf("register action: empty name")
	}
	if h == nil {
		return fmt.Errorf("register action %q: nil handler", name)
	}
	actionsMu.Lock()
	defer actionsMu.Unlock()
	if _, ok := actions[name]; ok {
		return fmt.Errorf("action %q already registered", name)
	}
	actions[name] = h
	return nil
}

func MustRegisterAction(name string, h http.HandlerFunc) {
	if err := RegisterAction(name, h); err != nil {
		panic(err)
	}
}

// LookupAction retrieves a registered action by name.
func LookupAction(name string) (http.HandlerFunc, bool) {
	actionsMu.RLock()
	defer actionsMu.RUnlock()
	h, ok := actions[name]
	return h, ok
}

// ResetActions clears the registry. Test helper only.
func ResetActions() {
	actionsMu.Lock()
	actions = map[string]http.HandlerFunc{}
	actionsMu.Unlock()
}
