// Package registry maps stable keys to the immutable templates pools are built from.
package registry

import (
	"fmt"
	"time"

	"github.com/andrei-cloud/go_pool/internal/errorcodes"
	"github.com/andrei-cloud/go_pool/pkg/object"
)

// Prototype is the immutable identity a pool is built around: an inert template object plus
// optional lookup key and tuning. Its category is derived from the template when its pool is
// created and is not stored here.
type Prototype struct {
	key      string
	template *object.Object
	lifetime time.Duration
	maxSize  int
}

// PrototypeOption tunes a prototype.
type PrototypeOption func(*Prototype)

// WithKey records the registry key the prototype is known by.
func WithKey(key string) PrototypeOption {
	return func(p *Prototype) { p.key = key }
}

// WithLifetime makes instances return to their pool automatically after d. Zero disables it.
func WithLifetime(d time.Duration) PrototypeOption {
	return func(p *Prototype) {
		if d > 0 {
			p.lifetime = d
		}
	}
}

// WithMaxSize overrides the free-list ceiling of the prototype's pool. Zero keeps the default.
func WithMaxSize(n int) PrototypeOption {
	return func(p *Prototype) {
		if n > 0 {
			p.maxSize = n
		}
	}
}

// NewPrototype wraps template. A nil or destroyed template is rejected.
func NewPrototype(template *object.Object, opts ...PrototypeOption) (*Prototype, error) {
	if template == nil {
		return nil, fmt.Errorf("%w: nil template", errorcodes.ErrInvalidPrototype)
	}
	if template.Destroyed() {
		return nil, fmt.Errorf("%w: template %q is destroyed", errorcodes.ErrInvalidPrototype, template.Name())
	}

	p := &Prototype{template: template}
	for _, opt := range opts {
		opt(p)
	}

	return p, nil
}

// Key returns the registry key, empty for prototypes spawned directly from a template.
func (p *Prototype) Key() string { return p.key }

// Template returns the inert source object. Callers must not activate or mutate it.
func (p *Prototype) Template() *object.Object { return p.template }

// Lifetime returns the automatic return delay, zero when disabled.
func (p *Prototype) Lifetime() time.Duration { return p.lifetime }

// MaxSize returns the free-list ceiling override, zero when unset.
func (p *Prototype) MaxSize() int { return p.maxSize }

// Label returns the key, or the template name for unregistered prototypes.
func (p *Prototype) Label() string {
	if p.key != "" {
		return p.key
	}

	return p.template.Name()
}
