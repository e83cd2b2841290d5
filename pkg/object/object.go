// Package object provides the recyclable instance type handed out by the pool manager.
package object

import (
	"github.com/andrei-cloud/go_pool/pkg/component"
	"github.com/andrei-cloud/go_pool/pkg/scene"
	"github.com/google/uuid"
)

// State is the lifecycle state of an object.
type State uint8

// Lifecycle states.
const (
	StateInactive State = iota
	StateActive
	StateDestroyed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateInactive:
		return "inactive"
	case StateActive:
		return "active"
	case StateDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// Object is a concrete recyclable instance, or an inert template it is copied from.
type Object struct {
	id         uuid.UUID
	name       string
	state      State
	transform  *scene.Transform
	components []component.Component
	caps       component.Capability
}

// New returns an inactive object carrying the given components.
func New(name string, comps ...component.Component) *Object {
	o := &Object{
		id:        uuid.New(),
		name:      name,
		transform: scene.NewTransform(name),
	}
	for _, c := range comps {
		o.Add(c)
	}

	return o
}

// Add attaches a component. Nil components are ignored.
func (o *Object) Add(c component.Component) {
	if c == nil {
		return
	}
	o.components = append(o.components, c)
	o.caps |= c.Capability()
}

// ID returns the unique identifier of the object.
func (o *Object) ID() uuid.UUID { return o.id }

// Name returns the object name.
func (o *Object) Name() string { return o.name }

// State returns the lifecycle state.
func (o *Object) State() State { return o.state }

// Active reports whether the object is checked out and live.
func (o *Object) Active() bool { return o.state == StateActive }

// Destroyed reports whether the object has been destroyed.
func (o *Object) Destroyed() bool { return o.state == StateDestroyed }

// Transform returns the object's transform.
func (o *Object) Transform() *scene.Transform { return o.transform }

// Components returns the attached components. The slice must not be modified.
func (o *Object) Components() []component.Component { return o.components }

// Capabilities returns the union of the component capabilities.
func (o *Object) Capabilities() component.Capability { return o.caps }

// Has implements component.Query.
func (o *Object) Has(c component.Capability) bool { return o.caps.Has(c) }

// Clone deep-copies o into a new inactive object with a fresh id. The clone has no parent.
func (o *Object) Clone() *Object {
	c := &Object{
		id:         uuid.New(),
		name:       o.name,
		transform:  scene.NewTransform(o.name),
		components: make([]component.Component, 0, len(o.components)),
		caps:       o.caps,
	}
	t := o.transform
	c.transform.SetLocal(t.LocalPosition(), t.LocalRotation(), t.LocalScale())
	for _, comp := range o.components {
		c.components = append(c.components, comp.Clone())
	}

	return c
}

// Activate marks the object live. Destroyed objects stay destroyed.
func (o *Object) Activate() {
	if o.state == StateDestroyed {
		return
	}
	o.state = StateActive
}

// Deactivate marks the object inactive and clears transient component state.
func (o *Object) Deactivate() {
	if o.state == StateDestroyed {
		return
	}
	o.state = StateInactive
	for _, c := range o.components {
		c.Reset()
	}
}

// Destroy detaches the object from the hierarchy and releases its components.
func (o *Object) Destroy() {
	if o.state == StateDestroyed {
		return
	}
	o.state = StateDestroyed
	o.transform.Detach()
	o.components = nil
	o.caps = component.None
}

// As returns the first component of type T attached to o.
func As[T component.Component](o *Object) (T, bool) {
	var zero T
	if o == nil {
		return zero, false
	}
	for _, c := range o.components {
		if typed, ok := c.(T); ok {
			return typed, true
		}
	}

	return zero, false
}
