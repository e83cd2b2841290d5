// Package pool provides the per-prototype free lists instances are recycled through.
package pool

import (
	"github.com/andrei-cloud/go_pool/internal/category"
	"github.com/andrei-cloud/go_pool/internal/registry"
	"github.com/andrei-cloud/go_pool/pkg/object"
	"github.com/rs/zerolog/log"
)

// DefaultMaxSize is the free-list ceiling used when none is configured.
const DefaultMaxSize = 10000

// Hooks are the lifecycle callbacks a pool runs on its instances.
type Hooks struct {
	Create    func() *object.Object
	OnGet     func(*object.Object)
	OnRelease func(*object.Object)
	OnDestroy func(*object.Object)
}

// Stats is a snapshot of a pool's occupancy and counters.
type Stats struct {
	Key       string
	Category  category.Category
	MaxSize   int
	Active    int
	Free      int
	Created   int64
	Reused    int64
	Released  int64
	Destroyed int64
}

// Pool manages the free list of one prototype. It is not safe for concurrent use.
type Pool struct {
	proto    *registry.Prototype
	category category.Category
	maxSize  int
	hooks    Hooks

	free []*object.Object
	idle map[*object.Object]struct{}

	active    int
	created   int64
	reused    int64
	released  int64
	destroyed int64
}

// New returns an empty pool for proto. A non-positive maxSize selects DefaultMaxSize.
func New(proto *registry.Prototype, cat category.Category, maxSize int, hooks Hooks) *Pool {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	if hooks.Create == nil {
		hooks.Create = func() *object.Object { return proto.Template().Clone() }
	}

	return &Pool{
		proto:    proto,
		category: cat,
		maxSize:  maxSize,
		hooks:    hooks,
		idle:     make(map[*object.Object]struct{}),
	}
}

// Prototype returns the prototype the pool was built for.
func (p *Pool) Prototype() *registry.Prototype { return p.proto }

// Category returns the category fixed at pool creation.
func (p *Pool) Category() category.Category { return p.category }

// MaxSize returns the free-list ceiling.
func (p *Pool) MaxSize() int { return p.maxSize }

// FreeCount returns the number of idle instances.
func (p *Pool) FreeCount() int { return len(p.free) }

// ActiveCount returns the number of checked-out instances.
func (p *Pool) ActiveCount() int { return p.active }

// Contains reports whether o is currently in the free list.
func (p *Pool) Contains(o *object.Object) bool {
	_, ok := p.idle[o]
	return ok
}

// Acquire pops a free instance, or creates one when the free list is empty. The bool
// reports whether the instance was reused.
func (p *Pool) Acquire() (*object.Object, bool) {
	for len(p.free) > 0 {
		last := len(p.free) - 1
		o := p.free[last]
		p.free[last] = nil
		p.free = p.free[:last]
		delete(p.idle, o)

		if o.State() != object.StateInactive {
			log.Warn().
				Str("event", "corrupt_free_list").
				Str("prototype", p.proto.Label()).
				Str("instance", o.ID().String()).
				Str("state", o.State().String()).
				Msg("discarding non-idle instance found in free list")

			continue
		}

		p.checkout(o)
		p.reused++

		return o, true
	}

	o := p.hooks.Create()
	p.created++
	p.checkout(o)

	return o, false
}

func (p *Pool) checkout(o *object.Object) {
	p.active++
	if p.hooks.OnGet != nil {
		p.hooks.OnGet(o)
	}
}

// Release checks o back in. When the free list is already at its ceiling, or o was
// destroyed while checked out, o is destroyed instead and Release returns true.
func (p *Pool) Release(o *object.Object) bool {
	if p.Contains(o) {
		return false
	}
	if p.active > 0 {
		p.active--
	}
	p.released++

	if p.hooks.OnRelease != nil {
		p.hooks.OnRelease(o)
	}

	if o.Destroyed() || len(p.free) >= p.maxSize {
		p.destroy(o)
		return true
	}

	p.free = append(p.free, o)
	p.idle[o] = struct{}{}

	return false
}

// Prewarm creates up to n idle instances without exceeding the ceiling and returns how
// many were added.
func (p *Pool) Prewarm(n int) int {
	added := 0
	for ; added < n && len(p.free) < p.maxSize; added++ {
		o := p.hooks.Create()
		p.created++
		p.free = append(p.free, o)
		p.idle[o] = struct{}{}
	}

	return added
}

// Trim destroys idle instances until at most keep remain and returns how many were destroyed.
func (p *Pool) Trim(keep int) int {
	if keep < 0 {
		keep = 0
	}
	n := 0
	for len(p.free) > keep {
		last := len(p.free) - 1
		o := p.free[last]
		p.free[last] = nil
		p.free = p.free[:last]
		delete(p.idle, o)
		p.destroy(o)
		n++
	}

	return n
}

// Drain destroys every idle instance.
func (p *Pool) Drain() int {
	return p.Trim(0)
}

// Discard destroys a checked-out instance without recycling it.
func (p *Pool) Discard(o *object.Object) {
	if p.Contains(o) {
		return
	}
	if p.active > 0 {
		p.active--
	}
	p.destroy(o)
}

func (p *Pool) destroy(o *object.Object) {
	p.destroyed++
	if p.hooks.OnDestroy != nil {
		p.hooks.OnDestroy(o)
	}
	o.Destroy()
}

// Stats returns a snapshot of the pool.
func (p *Pool) Stats() Stats {
	return Stats{
		Key:       p.proto.Label(),
		Category:  p.category,
		MaxSize:   p.maxSize,
		Active:    p.active,
		Free:      len(p.free),
		Created:   p.created,
		Reused:    p.reused,
		Released:  p.released,
		Destroyed: p.destroyed,
	}
}
