package pool

import (
	"github.com/andrei-cloud/go_pool/internal/category"
	"github.com/andrei-cloud/go_pool/internal/ownership"
	"github.com/andrei-cloud/go_pool/internal/registry"
	"github.com/andrei-cloud/go_pool/pkg/object"
	"github.com/andrei-cloud/go_pool/pkg/scene"
	"github.com/rs/zerolog/log"
)

// Table holds one pool per prototype, created lazily and never removed.
type Table struct {
	pools   map[*object.Object]*Pool
	order   []*Pool
	owners  *ownership.Map
	maxSize int
	groups  func(category.Category) *scene.Transform
}

// TableOption configures a Table.
type TableOption func(*Table)

// WithMaxSize sets the default free-list ceiling for new pools.
func WithMaxSize(n int) TableOption {
	return func(t *Table) { t.maxSize = n }
}

// WithGroups sets the resolver of the transform idle instances of a category are parked under.
func WithGroups(groups func(category.Category) *scene.Transform) TableOption {
	return func(t *Table) { t.groups = groups }
}

// NewTable returns an empty table. Destroyed instances are removed from owners.
func NewTable(owners *ownership.Map, opts ...TableOption) *Table {
	t := &Table{
		pools:   make(map[*object.Object]*Pool),
		owners:  owners,
		maxSize: DefaultMaxSize,
	}
	for _, opt := range opts {
		opt(t)
	}

	return t
}

// GetOrCreate returns the pool of proto, creating it on first use. The bool reports
// whether this call created it.
func (t *Table) GetOrCreate(proto *registry.Prototype) (*Pool, bool) {
	if p, ok := t.pools[proto.Template()]; ok {
		return p, false
	}

	cat := category.Classify(proto.Template())
	maxSize := t.maxSize
	if proto.MaxSize() > 0 {
		maxSize = proto.MaxSize()
	}

	p := New(proto, cat, maxSize, t.hooks(proto, cat))
	t.pools[proto.Template()] = p
	t.order = append(t.order, p)

	log.Debug().
		Str("event", "pool_created").
		Str("prototype", proto.Label()).
		Str("category", cat.String()).
		Int("max_size", maxSize).
		Msg("created pool")

	return p, true
}

// Lookup returns the pool of proto without creating it.
func (t *Table) Lookup(proto *registry.Prototype) (*Pool, bool) {
	p, ok := t.pools[proto.Template()]
	return p, ok
}

// Owns reports whether o sits idle in any pool's free list.
func (t *Table) Owns(o *object.Object) bool {
	for _, p := range t.order {
		if p.Contains(o) {
			return true
		}
	}

	return false
}

// Len returns the number of pools.
func (t *Table) Len() int { return len(t.order) }

// Pools returns every pool in creation order.
func (t *Table) Pools() []*Pool {
	out := make([]*Pool, len(t.order))
	copy(out, t.order)

	return out
}

func (t *Table) group(cat category.Category) *scene.Transform {
	if t.groups == nil {
		return nil
	}

	return t.groups(cat)
}

func (t *Table) hooks(proto *registry.Prototype, cat category.Category) Hooks {
	return Hooks{
		Create: func() *object.Object {
			o := proto.Template().Clone()
			o.Transform().SetParent(t.group(cat))

			return o
		},
		// Reserved for per-kind setup on checkout.
		OnGet: func(*object.Object) {},
		OnRelease: func(o *object.Object) {
			o.Deactivate()
			if g := t.group(cat); g != nil && o.Transform().Parent() != g {
				o.Transform().SetParent(g)
			}
		},
		OnDestroy: func(o *object.Object) {
			if t.owners != nil {
				t.owners.Untrack(o)
			}
		},
	}
}
