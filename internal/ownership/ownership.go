// Package ownership tracks which prototype every checked-out instance came from, so an
// instance can be returned without the caller remembering its origin.
package ownership

import (
	"sort"

	"github.com/andrei-cloud/go_pool/internal/registry"
	"github.com/andrei-cloud/go_pool/pkg/object"
	"github.com/google/uuid"
)

type entry struct {
	obj   *object.Object
	proto *registry.Prototype
	seq   uint64
}

// Map holds one entry per live instance. It is not safe for concurrent use.
type Map struct {
	entries map[uuid.UUID]entry
	seq     uint64
}

// New returns an empty map.
func New() *Map {
	return &Map{entries: make(map[uuid.UUID]entry)}
}

// Track records that o was checked out from p. Tracking an already tracked instance
// refreshes its prototype and checkout order.
func (m *Map) Track(o *object.Object, p *registry.Prototype) {
	m.seq++
	m.entries[o.ID()] = entry{obj: o, proto: p, seq: m.seq}
}

// Untrack removes o and returns the prototype it was tracked under.
func (m *Map) Untrack(o *object.Object) (*registry.Prototype, bool) {
	e, ok := m.match(o)
	if !ok {
		return nil, false
	}
	delete(m.entries, o.ID())

	return e.proto, true
}

// Lookup returns the prototype o was checked out from.
func (m *Map) Lookup(o *object.Object) (*registry.Prototype, bool) {
	e, ok := m.match(o)
	if !ok {
		return nil, false
	}

	return e.proto, true
}

// Resolve finds a live instance by id.
func (m *Map) Resolve(id uuid.UUID) (*object.Object, bool) {
	e, ok := m.entries[id]
	if !ok {
		return nil, false
	}

	return e.obj, true
}

// Len returns the number of live instances.
func (m *Map) Len() int { return len(m.entries) }

// Live returns every tracked instance in checkout order.
func (m *Map) Live() []*object.Object {
	all := make([]entry, 0, len(m.entries))
	for _, e := range m.entries {
		all = append(all, e)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].seq < all[j].seq })

	out := make([]*object.Object, len(all))
	for i, e := range all {
		out[i] = e.obj
	}

	return out
}

// match requires both the id and the handle to agree.
func (m *Map) match(o *object.Object) (entry, bool) {
	if o == nil {
		return entry{}, false
	}
	e, ok := m.entries[o.ID()]
	if !ok || e.obj != o {
		return entry{}, false
	}

	return e, true
}
