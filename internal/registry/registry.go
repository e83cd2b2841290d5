package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/andrei-cloud/go_pool/internal/errorcodes"
	"github.com/andrei-cloud/go_pool/pkg/object"
)

// Registry manages prototypes by key. It is populated once at startup and sealed.
type Registry struct {
	prototypes map[string]*Prototype
	byTemplate map[*object.Object]*Prototype
	sealed     bool
	mu         sync.RWMutex
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		prototypes: make(map[string]*Prototype),
		byTemplate: make(map[*object.Object]*Prototype),
	}
}

// Register adds or overwrites the prototype for key. When key was already registered the
// new prototype still wins and ErrDuplicateKey is returned so loaders can warn about it.
// A template belongs to at most one key: registering it under a second key is refused
// with ErrDuplicateKey and leaves the registry unchanged.
func (r *Registry) Register(key string, p *Prototype) error {
	return r.put(key, p, false)
}

// Replace overwrites the prototype for key without reporting a duplicate.
func (r *Registry) Replace(key string, p *Prototype) error {
	return r.put(key, p, true)
}

func (r *Registry) put(key string, p *Prototype, intended bool) error {
	if key == "" {
		return fmt.Errorf("%w: empty key", errorcodes.ErrInvalidPrototype)
	}
	if p == nil || p.template == nil {
		return fmt.Errorf("%w: nil prototype for key %q", errorcodes.ErrInvalidPrototype, key)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return fmt.Errorf("%w: key %q", errorcodes.ErrRegistrySealed, key)
	}

	if owner, ok := r.byTemplate[p.template]; ok && owner.key != key {
		return fmt.Errorf("%w: template %q already registered as %q",
			errorcodes.ErrDuplicateKey, p.template.Name(), owner.key)
	}

	prev, exists := r.prototypes[key]
	if exists {
		delete(r.byTemplate, prev.template)
	}
	p.key = key
	r.prototypes[key] = p
	r.byTemplate[p.template] = p

	if exists && !intended {
		return fmt.Errorf("%w: %q", errorcodes.ErrDuplicateKey, key)
	}

	return nil
}

// Resolve returns the prototype registered under key.
func (r *Registry) Resolve(key string) (*Prototype, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.prototypes[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", errorcodes.ErrUnknownKey, key)
	}

	return p, nil
}

// ForTemplate returns the registered prototype wrapping template, if any.
func (r *Registry) ForTemplate(template *object.Object) (*Prototype, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byTemplate[template]
	return p, ok
}

// Seal makes the registry read-only.
func (r *Registry) Seal() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sealed = true
}

// Sealed reports whether Seal was called.
func (r *Registry) Sealed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sealed
}

// Len returns the number of registered keys.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.prototypes)
}

// Keys returns all registered keys in sorted order.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.prototypes))
	for k := range r.prototypes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}

// List returns all registered prototypes ordered by key.
func (r *Registry) List() []*Prototype {
	keys := r.Keys()

	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Prototype, 0, len(keys))
	for _, k := range keys {
		if p, ok := r.prototypes[k]; ok {
			result = append(result, p)
		}
	}

	return result
}
