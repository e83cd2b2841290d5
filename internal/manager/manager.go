// Package manager is the single entry point gameplay code uses to spawn and return pooled
// instances.
//
// A Manager is not safe for concurrent use. All calls must come from the goroutine that
// drives the frame loop; other goroutines post work through frame.Loop.Do.
package manager

import (
	"fmt"
	"time"

	"github.com/andrei-cloud/go_pool/internal/category"
	"github.com/andrei-cloud/go_pool/internal/errorcodes"
	"github.com/andrei-cloud/go_pool/internal/logging"
	"github.com/andrei-cloud/go_pool/internal/metrics"
	"github.com/andrei-cloud/go_pool/internal/ownership"
	"github.com/andrei-cloud/go_pool/internal/pool"
	"github.com/andrei-cloud/go_pool/internal/registry"
	"github.com/andrei-cloud/go_pool/pkg/object"
	"github.com/andrei-cloud/go_pool/pkg/scene"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// RootName is the name of the scene node every category group hangs off.
const RootName = "Object Pools"

// Manager routes spawn and return requests to per-prototype pools.
type Manager struct {
	registry *registry.Registry
	owners   *ownership.Map
	table    *pool.Table
	metrics  *metrics.Collector

	root   *scene.Transform
	groups map[category.Category]*scene.Transform

	// prototypes built on the fly for templates that were never registered
	adhoc map[*object.Object]*registry.Prototype

	maxSize         int
	prewarm         int
	defaultLifetime time.Duration
	timers          map[uuid.UUID]*timer
	timerSeq        uint64

	onSpawn  []func(*object.Object)
	onReturn []func(*object.Object)

	closed bool
}

type timer struct {
	obj       *object.Object
	remaining time.Duration
	seq       uint64
}

// New returns a manager resolving keys through reg. A nil reg gets an empty registry.
func New(reg *registry.Registry, opts ...Option) *Manager {
	if reg == nil {
		reg = registry.New()
	}

	m := &Manager{
		registry: reg,
		owners:   ownership.New(),
		root:     scene.NewTransform(RootName),
		groups:   make(map[category.Category]*scene.Transform, len(category.All)),
		adhoc:    make(map[*object.Object]*registry.Prototype),
		maxSize:  pool.DefaultMaxSize,
		timers:   make(map[uuid.UUID]*timer),
	}
	for _, opt := range opts {
		opt(m)
	}

	for _, c := range category.All {
		g := scene.NewTransform(c.GroupName())
		g.SetParent(m.root)
		m.groups[c] = g
	}

	m.table = pool.NewTable(m.owners,
		pool.WithMaxSize(m.maxSize),
		pool.WithGroups(m.Group),
	)

	return m
}

// Registry returns the registry the manager resolves keys through.
func (m *Manager) Registry() *registry.Registry { return m.registry }

// Root returns the scene node all category groups are parented to.
func (m *Manager) Root() *scene.Transform { return m.root }

// Group returns the placement group of c.
func (m *Manager) Group(c category.Category) *scene.Transform {
	if g, ok := m.groups[c]; ok {
		return g
	}

	return m.groups[category.GenericObject]
}

// Closed reports whether Close has been called.
func (m *Manager) Closed() bool { return m.closed }

// Spawn checks an instance of template out of its pool, creating the pool on first use.
func (m *Manager) Spawn(
	template *object.Object,
	at scene.Placement,
	opts ...SpawnOption,
) (*object.Object, error) {
	if m.closed {
		return nil, errorcodes.ErrManagerClosed
	}

	proto, err := m.prototypeFor(template)
	if err != nil {
		m.metrics.Error("invalid_prototype")
		return nil, err
	}

	return m.spawn(proto, at, opts), nil
}

// SpawnKey spawns the prototype registered under key. An unknown key creates no pool.
func (m *Manager) SpawnKey(key string, at scene.Placement, opts ...SpawnOption) (*object.Object, error) {
	if m.closed {
		return nil, errorcodes.ErrManagerClosed
	}

	proto, err := m.registry.Resolve(key)
	if err != nil {
		m.metrics.Error("unknown_key")
		return nil, err
	}

	return m.spawn(proto, at, opts), nil
}

func (m *Manager) prototypeFor(template *object.Object) (*registry.Prototype, error) {
	if template == nil {
		return nil, fmt.Errorf("%w: nil template", errorcodes.ErrInvalidPrototype)
	}
	if template.Destroyed() {
		return nil, fmt.Errorf("%w: template %q is destroyed", errorcodes.ErrInvalidPrototype, template.Name())
	}
	if _, live := m.owners.Lookup(template); live {
		return nil, fmt.Errorf("%w: %q is a live pooled instance", errorcodes.ErrInvalidPrototype, template.Name())
	}
	if m.table.Owns(template) {
		return nil, fmt.Errorf("%w: %q is an idle pooled instance", errorcodes.ErrInvalidPrototype, template.Name())
	}

	if p, ok := m.registry.ForTemplate(template); ok {
		return p, nil
	}
	if p, ok := m.adhoc[template]; ok {
		return p, nil
	}

	p, err := registry.NewPrototype(template)
	if err != nil {
		return nil, err
	}
	m.adhoc[template] = p

	return p, nil
}

func (m *Manager) spawn(proto *registry.Prototype, at scene.Placement, opts []SpawnOption) *object.Object {
	var so spawnOptions
	for _, opt := range opts {
		opt(&so)
	}

	p, created := m.table.GetOrCreate(proto)
	if created && m.prewarm > 0 {
		p.Prewarm(m.prewarm)
	}
	if so.hasHint && so.hint != p.Category() {
		log.Debug().
			Str("event", "category_hint_ignored").
			Str("prototype", proto.Label()).
			Str("hint", so.hint.String()).
			Str("category", p.Category().String()).
			Msg("category hint disagrees with classification")
	}

	o, reused := p.Acquire()
	m.owners.Track(o, proto)

	if !at.Valid() {
		log.Warn().
			Str("event", "missing_parent").
			Str("prototype", proto.Label()).
			Msg("attach target is nil, placing at origin")
		at = scene.At(mgl32.Vec3{}, at.Rotation())
	}
	at.Apply(o.Transform(), m.Group(p.Category()))
	o.Activate()

	lifetime := proto.Lifetime()
	if lifetime <= 0 {
		lifetime = m.defaultLifetime
	}
	if lifetime > 0 {
		m.timerSeq++
		m.timers[o.ID()] = &timer{obj: o, remaining: lifetime, seq: m.timerSeq}
	}

	label := proto.Label()
	m.metrics.Spawned(label, p.Category().String(), reused)
	m.metrics.Occupancy(label, p.ActiveCount(), p.FreeCount())
	logging.LogSpawn(label, p.Category().String(), o.ID().String(), reused, p.ActiveCount(), p.FreeCount())

	for _, fn := range m.onSpawn {
		fn(o)
	}

	return o
}

// Return checks o back into the pool it came from. Returning an instance the manager does
// not own, including one already returned, changes nothing and yields ErrUnownedReturn.
func (m *Manager) Return(o *object.Object) error {
	if m.closed {
		return errorcodes.ErrManagerClosed
	}

	proto, ok := m.owners.Untrack(o)
	if !ok {
		m.metrics.Error("unowned_return")
		ev := log.Warn().Str("event", "unowned_return")
		if o != nil {
			ev = ev.Str("instance", o.ID().String()).Str("name", o.Name())
		}
		ev.Msg("returned instance is not owned by the pool manager")

		return fmt.Errorf("%w: %s", errorcodes.ErrUnownedReturn, describe(o))
	}
	delete(m.timers, o.ID())

	p, _ := m.table.GetOrCreate(proto)
	destroyed := p.Release(o)

	label := proto.Label()
	m.metrics.Returned(label)
	if destroyed {
		m.metrics.Destroyed(label, metrics.ReasonCapacity, 1)
		log.Debug().
			Str("event", "instance_destroyed").
			Str("prototype", label).
			Str("instance", o.ID().String()).
			Msg("free list full, destroyed instance")
	}
	m.metrics.Occupancy(label, p.ActiveCount(), p.FreeCount())
	logging.LogReturn(label, p.Category().String(), o.ID().String(), destroyed, p.ActiveCount(), p.FreeCount())

	for _, fn := range m.onReturn {
		fn(o)
	}

	return nil
}

func describe(o *object.Object) string {
	if o == nil {
		return "nil instance"
	}

	return fmt.Sprintf("%s (%s)", o.Name(), o.ID())
}

// Tick advances instance lifetimes by dt and returns expired instances in checkout order.
// It reports how many instances were returned.
func (m *Manager) Tick(dt time.Duration) int {
	if m.closed || len(m.timers) == 0 {
		return 0
	}

	var expired []*timer
	for _, t := range m.timers {
		t.remaining -= dt
		if t.remaining <= 0 {
			expired = append(expired, t)
		}
	}
	sortTimers(expired)

	n := 0
	for _, t := range expired {
		// An earlier return hook may already have returned it.
		if m.timers[t.obj.ID()] != t {
			continue
		}
		if err := m.Return(t.obj); err == nil {
			n++
		}
	}

	return n
}

// Owner returns the prototype o was spawned from, if o is checked out.
func (m *Manager) Owner(o *object.Object) (*registry.Prototype, bool) {
	return m.owners.Lookup(o)
}

// Instance resolves a checked-out instance by id.
func (m *Manager) Instance(id uuid.UUID) (*object.Object, bool) {
	return m.owners.Resolve(id)
}

// Live returns every checked-out instance in checkout order.
func (m *Manager) Live() []*object.Object { return m.owners.Live() }

// ActiveCount returns the number of checked-out instances across all pools.
func (m *Manager) ActiveCount() int { return m.owners.Len() }

// PoolFor returns the pool of proto without creating it.
func (m *Manager) PoolFor(proto *registry.Prototype) (*pool.Pool, bool) {
	if proto == nil {
		return nil, false
	}

	return m.table.Lookup(proto)
}

// PoolForKey returns the pool of the prototype registered under key without creating it.
func (m *Manager) PoolForKey(key string) (*pool.Pool, bool) {
	proto, err := m.registry.Resolve(key)
	if err != nil {
		return nil, false
	}

	return m.table.Lookup(proto)
}

// PoolCount returns the number of pools created so far.
func (m *Manager) PoolCount() int { return m.table.Len() }

// Stats returns a snapshot of every pool in creation order.
func (m *Manager) Stats() []pool.Stats {
	pools := m.table.Pools()
	out := make([]pool.Stats, 0, len(pools))
	for _, p := range pools {
		out = append(out, p.Stats())
	}

	return out
}

// Prewarm fills the pool of key with up to n idle instances, creating the pool if needed.
func (m *Manager) Prewarm(key string, n int) (int, error) {
	if m.closed {
		return 0, errorcodes.ErrManagerClosed
	}

	proto, err := m.registry.Resolve(key)
	if err != nil {
		return 0, err
	}

	p, _ := m.table.GetOrCreate(proto)
	added := p.Prewarm(n)
	m.metrics.Occupancy(proto.Label(), p.ActiveCount(), p.FreeCount())

	return added, nil
}

// Trim destroys idle instances until every pool holds at most keep of them. It returns
// the number of destroyed instances.
func (m *Manager) Trim(keep int) int {
	if m.closed {
		return 0
	}

	total := 0
	for _, p := range m.table.Pools() {
		n := p.Trim(keep)
		if n == 0 {
			continue
		}
		label := p.Prototype().Label()
		m.metrics.Destroyed(label, metrics.ReasonTrim, n)
		m.metrics.Occupancy(label, p.ActiveCount(), p.FreeCount())
		total += n
	}

	if total > 0 {
		log.Debug().
			Str("event", "pools_trimmed").
			Int("keep", keep).
			Int("destroyed", total).
			Msg("trimmed free lists")
	}

	return total
}

// Close destroys every pooled instance, checked out or idle. Later calls fail with
// ErrManagerClosed.
func (m *Manager) Close() error {
	if m.closed {
		return errorcodes.ErrManagerClosed
	}
	m.closed = true

	for _, o := range m.owners.Live() {
		proto, ok := m.owners.Untrack(o)
		if !ok {
			continue
		}
		if p, ok := m.table.Lookup(proto); ok {
			p.Discard(o)
			m.metrics.Destroyed(proto.Label(), metrics.ReasonShutdown, 1)
		}
	}
	m.timers = make(map[uuid.UUID]*timer)

	total := 0
	for _, p := range m.table.Pools() {
		n := p.Drain()
		label := p.Prototype().Label()
		m.metrics.Destroyed(label, metrics.ReasonShutdown, n)
		m.metrics.Occupancy(label, 0, 0)
		total += n
	}

	log.Info().
		Str("event", "manager_closed").
		Int("pools", m.table.Len()).
		Int("drained", total).
		Msg("pool manager closed")

	return nil
}
