package gql

import (
	"errors"
	"fmt"
	"sort"
)

// ErrDuplicate is returned when a name is registered twice.
var ErrDuplicate = errors.New("operation already registered")

// Factory builds an Executor bound to a client.
type Factory func(Client) Executor

type entry struct {
	desc    Descriptor
	factory Factory
}

// Registry maps operation names to their descriptors and factories.
type Registry struct {
	entries map[string]entry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]entry)}
}

// Register adds an operation. A nil factory executes the descriptor with
// the generic Query.
func (r *Registry) Register(desc Descriptor, factory Factory) error {
	if res := Validate(desc); !res.Valid {
		return fmt.Errorf("invalid descriptor %q: %w", desc.Name, res.Errors[0])
	}
	if _, ok := r.entries[desc.Name]; ok {
		return fmt.Errorf("%s: %w", desc.Name, ErrDuplicate)
	}
	desc = desc.clone()
	if factory == nil {
		factory = func(c Client) Executor { return New(c, desc) }
	}
	r.entries[desc.Name] = entry{desc: desc, factory: factory}
	return nil
}

// RegisterAll registers descriptors with the generic Query, stopping at the
// first error.
func (r *Registry) RegisterAll(descs []Descriptor) error {
	for _, d := range descs {
		if err := r.Register(d, nil); err != nil {
			return err
		}
	}
	return nil
}

// Lookup returns the factory registered under name.
func (r *Registry) Lookup(name string) (Factory, bool) {
	e, ok := r.entries[name]
	return e.factory, ok
}

// Describe returns the descriptor registered under name.
func (r *Registry) Describe(name string) (Descriptor, bool) {
	e, ok := r.entries[name]
	return e.desc, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Descriptors returns every registered descriptor, sorted by name.
func (r *Registry) Descriptors() []Descriptor {
	names := r.Names()
	out := make([]Descriptor, len(names))
	for i, name := range names {
		out[i] = r.entries[name].desc
	}
	return out
}
