package modules

import (
	"sort"

	"github.com/thoreinstein/jitsi/internal/framework"
)

// Descriptor describes a module compiled into the launcher.
type Descriptor struct {
	// Name is the short name shown by "jitsi modules".
	Name string
	// Origin is the bundle origin the module is installed from.
	Origin string
	// Description is a one-line summary.
	Description string
	// Abstract descriptors document a shared base and are never installed.
	Abstract bool
	// New creates the module's activator.
	New framework.Factory
}

// Registry is an ordered list of descriptors.
type Registry struct {
	descriptors []Descriptor
}

// NewRegistry returns a Registry preserving the order of ds.
func NewRegistry(ds ...Descriptor) *Registry {
	return &Registry{descriptors: append([]Descriptor(nil), ds...)}
}

// DefaultRegistry returns the registry of built-in modules.
func DefaultRegistry() *Registry {
	return NewRegistry(Builtin()...)
}

// All returns every descriptor, abstract ones included.
func (r *Registry) All() []Descriptor {
	return append([]Descriptor(nil), r.descriptors...)
}

// Concrete returns the installable descriptors in registry order.
func (r *Registry) Concrete() []Descriptor {
	out := make([]Descriptor, 0, len(r.descriptors))
	for _, d := range r.descriptors {
		if !d.Abstract {
			out = append(out, d)
		}
	}
	return out
}

// Lookup finds a descriptor by name.
func (r *Registry) Lookup(name string) (Descriptor, bool) {
	for _, d := range r.descriptors {
		if d.Name == name {
			return d, true
		}
	}
	return Descriptor{}, false
}

// Duplicates returns origins that appear more than once, sorted.
func (r *Registry) Duplicates() []string {
	seen := make(map[string]int, len(r.descriptors))
	for _, d := range r.descriptors {
		seen[d.Origin]++
	}
	var dups []string
	for origin, n := range seen {
		if n > 1 {
			dups = append(dups, origin)
		}
	}
	sort.Strings(dups)
	return dups
}
