package models

import (
	"errors"
	"fmt"
)

// ErrUnknownResource is returned when a name or handle is not known to a Registry
var ErrUnknownResource = errors.New("unknown resource")

// Handle identifies a resource within the Registry that issued it.
// The zero value is the first registered resource.
type Handle struct {
	index int
}

// Index returns the zero-based position of the resource in its registry
func (h Handle) Index() int {
	return h.index
}

// String returns a debug representation of the handle
func (h Handle) String() string {
	return fmt.Sprintf("resource#%d", h.index)
}

// Registry maps resource names to handles and back.
// Handles are assigned in registration order and never reused.
type Registry struct {
	names   []string
	handles map[string]Handle
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		names:   make([]string, 0),
		handles: make(map[string]Handle),
	}
}

// CreateResource registers name and returns its handle.
// A repeated name gets a new handle; name lookups return the newest one.
func (r *Registry) CreateResource(name string) Handle {
	r.names = append(r.names, name)
	h := Handle{index: len(r.names) - 1}
	r.handles[name] = h
	return h
}

// Handle returns the handle registered for name
func (r *Registry) Handle(name string) (Handle, error) {
	h, ok := r.handles[name]
	if !ok {
		return Handle{}, fmt.Errorf("%w: %q", ErrUnknownResource, name)
	}
	return h, nil
}

// HasName reports whether name has been registered
func (r *Registry) HasName(name string) bool {
	_, ok := r.handles[name]
	return ok
}

// HasHandle reports whether h is within [0, Len())
func (r *Registry) HasHandle(h Handle) bool {
	return h.index >= 0 && h.index < len(r.names)
}

// NameOf returns the name registered for h
func (r *Registry) NameOf(h Handle) (string, error) {
	if !r.HasHandle(h) {
		return "", fmt.Errorf("%w: %s", ErrUnknownResource, h)
	}
	return r.names[h.index], nil
}

// Len returns the number of issued handles
func (r *Registry) Len() int {
	return len(r.names)
}

// Names returns all names in handle order
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Handles returns all issued handles in order
func (r *Registry) Handles() []Handle {
	out := make([]Handle, len(r.names))
	for i := range r.names {
		out[i] = Handle{index: i}
	}
	return out
}
