package action

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/teslashibe/go-pointlight/pkg/errs"
	"github.com/teslashibe/go-pointlight/pkg/skeleton"
)

// ErrNotFound is returned when an action is not registered.
var ErrNotFound = errors.New("action not found")

// Action is a named, buildable stimulus.
type Action struct {
	Name        Name
	Description string

	// Custom is true for actions loaded from files.
	Custom bool

	Build BuildFunc
}

// Registry holds the actions available to hosts.
type Registry struct {
	mu      sync.RWMutex
	actions map[Name]*Action
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{actions: make(map[Name]*Action)}
}

// NewDefaultRegistry creates a registry holding the built-in actions.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.LoadBuiltIn()
	return r
}

// LoadBuiltIn registers every built-in action.
func (r *Registry) LoadBuiltIn() {
	for _, name := range Names {
		b := builtins[name]
		r.Register(&Action{Name: name, Description: b.description, Build: b.build})
	}
}

// LoadCustomDir registers every action file in dir.
func (r *Registry) LoadCustomDir(dir string) error {
	actions, err := LoadFromDirectory(dir)
	if err != nil {
		return err
	}
	for _, a := range actions {
		r.Register(a)
	}
	return nil
}

// Register adds an action, replacing any action with the same name.
func (r *Registry) Register(a *Action) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions[a.Name] = a
}

// Unregister removes an action.
func (r *Registry) Unregister(name Name) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.actions, name)
}

// Get retrieves an action by name, case-insensitively.
func (r *Registry) Get(name string) (*Action, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.actions[Name(strings.ToLower(strings.TrimSpace(name)))]
	if !ok {
		return nil, fmt.Errorf("%w: %w", ErrNotFound, errs.Config("action", "unknown action %q", name))
	}
	return a, nil
}

// Build validates mods and builds the named action for skel.
func (r *Registry) Build(name string, skel *skeleton.Skeleton, mods Modifiers) (*Preset, error) {
	if skel == nil {
		return nil, errs.Config("action", "nil skeleton")
	}
	a, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	mods, err = mods.normalize()
	if err != nil {
		return nil, err
	}

	p, err := a.Build(skel, mods)
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", a.Name, err)
	}
	p.Name = a.Name
	p.Description = a.Description
	return p, nil
}

// List returns all registered action names, sorted alphabetically.
func (r *Registry) List() []Name {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]Name, 0, len(r.actions))
	for name := range r.actions {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// Describe returns every action name with its description.
func (r *Registry) Describe() map[Name]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[Name]string, len(r.actions))
	for name, a := range r.actions {
		result[name] = a.Description
	}
	return result
}

// Count returns the number of registered actions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.actions)
}

var defaultRegistry = NewDefaultRegistry()

// Build builds a built-in action. It is shorthand for the default
// registry's Build.
func Build(name Name, skel *skeleton.Skeleton, mods Modifiers) (*Preset, error) {
	return defaultRegistry.Build(string(name), skel, mods)
}
