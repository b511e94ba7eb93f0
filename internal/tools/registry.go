package tools

import (
	"os"
	"slices"
	"sync"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/baalimago/go_away_boilerplate/pkg/misc"
)

// registry is a threadsafe storage for action specifications.
type registry struct {
	mu          sync.RWMutex
	specs       map[string]Specification
	debug       bool
	hasBeenInit bool
}

// NewRegistry returns an empty specification registry.
func NewRegistry() *registry {
	return &registry{specs: make(map[string]Specification), debug: misc.Truthy(os.Getenv("DEBUG"))}
}

// Registry is the global registry of available UI actions.
var Registry = NewRegistry()

// Init seeds the global Registry with the built in UI actions. If the
// Registry has already been initialized, it simply returns. A host that wants
// a different action set must reconfigure the Registry before any session
// starts.
func Init() {
	if Registry.hasBeenInit {
		return
	}
	Registry.hasBeenInit = true
	Registry.Set(ChangeTheme.Name, ChangeTheme)
	Registry.Set(ShowNotification.Name, ShowNotification)
	Registry.Set(NavigateToScreen.Name, NavigateToScreen)
}

// Get returns the specification registered under name.
func (r *registry) Get(name string) (Specification, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.specs[name]
	return s, ok
}

// Set registers spec under the provided name.
func (r *registry) Set(name string, s Specification) {
	r.mu.Lock()
	if r.debug {
		ancli.Okf("adding action to registry, name: %v\n", s.Name)
	}
	r.specs[name] = s
	r.mu.Unlock()
}

// All returns the registered specifications sorted by name.
func (r *registry) All() []Specification {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]Specification, 0, len(r.specs))
	for _, s := range r.specs {
		all = append(all, s)
	}
	slices.SortFunc(all, func(a, b Specification) int {
		if a.Name < b.Name {
			return -1
		}
		if a.Name > b.Name {
			return 1
		}
		return 0
	})
	return all
}

// Reset removes all registered specifications. Primarily used for tests.
func (r *registry) Reset() {
	r.mu.Lock()
	r.specs = make(map[string]Specification)
	r.hasBeenInit = false
	r.mu.Unlock()
}
