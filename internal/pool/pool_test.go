package pool

import (
	"testing"

	"github.com/andrei-cloud/go_pool/internal/category"
	"github.com/andrei-cloud/go_pool/internal/ownership"
	"github.com/andrei-cloud/go_pool/internal/registry"
	"github.com/andrei-cloud/go_pool/pkg/component"
	"github.com/andrei-cloud/go_pool/pkg/object"
	"github.com/andrei-cloud/go_pool/pkg/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProto(t *testing.T, opts ...registry.PrototypeOption) *registry.Prototype {
	t.Helper()
	p, err := registry.NewPrototype(
		object.New("bolt", &component.ProjectileMotion{Speed: 10}, &component.TrailRenderer{}),
		opts...,
	)
	require.NoError(t, err)

	return p
}

func TestAcquireGrowsThenReuses(t *testing.T) {
	t.Parallel()

	p := New(newProto(t), category.Projectile, 4, Hooks{})

	a, reused := p.Acquire()
	assert.False(t, reused)
	assert.Equal(t, 1, p.ActiveCount())

	assert.False(t, p.Release(a))
	assert.True(t, p.Contains(a))

	b, reused := p.Acquire()
	assert.True(t, reused)
	assert.Same(t, a, b)
	assert.False(t, p.Contains(b))

	st := p.Stats()
	assert.Equal(t, int64(1), st.Created)
	assert.Equal(t, int64(1), st.Reused)
	assert.Equal(t, "bolt", st.Key)
}

func TestReleaseAtCeilingDestroys(t *testing.T) {
	t.Parallel()

	const ceiling = 3
	p := New(newProto(t), category.Projectile, ceiling, Hooks{})

	var out []*object.Object
	for i := 0; i < ceiling+1; i++ {
		o, _ := p.Acquire()
		out = append(out, o)
	}

	destroyed := 0
	for _, o := range out {
		if p.Release(o) {
			destroyed++
		}
	}

	assert.Equal(t, 1, destroyed)
	assert.Equal(t, ceiling, p.FreeCount())
	assert.True(t, out[ceiling].Destroyed())
	assert.Equal(t, int64(1), p.Stats().Destroyed)
}

func TestReleaseTwiceIsIgnored(t *testing.T) {
	t.Parallel()

	p := New(newProto(t), category.Projectile, 4, Hooks{})
	o, _ := p.Acquire()
	p.Release(o)
	p.Release(o)

	assert.Equal(t, 1, p.FreeCount())
	assert.Zero(t, p.ActiveCount())
}

func TestAcquireSkipsCorruptEntries(t *testing.T) {
	t.Parallel()

	p := New(newProto(t), category.Projectile, 4, Hooks{})
	a, _ := p.Acquire()
	b, _ := p.Acquire()
	p.Release(a)
	p.Release(b)

	// Something outside the manager reactivated b while it sat in the free list.
	b.Activate()

	got, reused := p.Acquire()
	assert.True(t, reused)
	assert.Same(t, a, got)
	assert.Zero(t, p.FreeCount())
}

func TestReleaseDestroyedInstance(t *testing.T) {
	t.Parallel()

	p := New(newProto(t), category.Projectile, 4, Hooks{})
	o, _ := p.Acquire()
	o.Destroy()

	assert.True(t, p.Release(o))
	assert.Zero(t, p.FreeCount())
}

func TestPrewarmAndTrim(t *testing.T) {
	t.Parallel()

	p := New(newProto(t), category.Projectile, 5, Hooks{})
	assert.Equal(t, 5, p.Prewarm(8), "prewarm stops at the ceiling")
	assert.Equal(t, 5, p.FreeCount())

	assert.Equal(t, 3, p.Trim(2))
	assert.Equal(t, 2, p.FreeCount())
	assert.Equal(t, 2, p.Drain())
	assert.Zero(t, p.FreeCount())
	assert.Zero(t, p.Trim(-1))
}

func TestDefaultMaxSize(t *testing.T) {
	t.Parallel()

	p := New(newProto(t), category.Projectile, 0, Hooks{})
	assert.Equal(t, DefaultMaxSize, p.MaxSize())
}

func TestTableGetOrCreateIsLazyAndStable(t *testing.T) {
	t.Parallel()

	tbl := NewTable(ownership.New(), WithMaxSize(7))
	proto := newProto(t)

	_, ok := tbl.Lookup(proto)
	assert.False(t, ok)

	first, created := tbl.GetOrCreate(proto)
	require.True(t, created)
	assert.Equal(t, category.Projectile, first.Category())
	assert.Equal(t, 7, first.MaxSize())

	for i := 0; i < 3; i++ {
		again, created := tbl.GetOrCreate(proto)
		assert.False(t, created)
		assert.Same(t, first, again)
	}
	assert.Equal(t, 1, tbl.Len())
}

func TestTablePrototypeCeilingOverride(t *testing.T) {
	t.Parallel()

	tbl := NewTable(ownership.New(), WithMaxSize(7))
	p, _ := tbl.GetOrCreate(newProto(t, registry.WithMaxSize(2)))
	assert.Equal(t, 2, p.MaxSize())
}

func TestTableHooks(t *testing.T) {
	t.Parallel()

	owners := ownership.New()
	groups := map[category.Category]*scene.Transform{category.Projectile: scene.NewTransform("Projectiles")}
	tbl := NewTable(owners,
		WithMaxSize(1),
		WithGroups(func(c category.Category) *scene.Transform { return groups[c] }),
	)
	proto := newProto(t)
	p, _ := tbl.GetOrCreate(proto)

	a, _ := p.Acquire()
	b, _ := p.Acquire()
	assert.Same(t, groups[category.Projectile], a.Transform().Parent(), "new instances start in their group")

	a.Activate()
	attach := scene.NewTransform("hand")
	a.Transform().SetParent(attach)
	owners.Track(b, proto)

	p.Release(a)
	assert.False(t, a.Active(), "release deactivates")
	assert.Same(t, groups[category.Projectile], a.Transform().Parent(), "release parks under the group")

	// The ceiling is 1, so b is destroyed and the destroy hook drops its ownership entry.
	assert.True(t, p.Release(b))
	_, tracked := owners.Lookup(b)
	assert.False(t, tracked)
}

func TestTableOwnsIdleInstances(t *testing.T) {
	t.Parallel()

	tbl := NewTable(ownership.New())
	p, _ := tbl.GetOrCreate(newProto(t))

	o, _ := p.Acquire()
	assert.False(t, tbl.Owns(o), "checked-out instances are not idle")

	p.Release(o)
	assert.True(t, tbl.Owns(o))
	assert.False(t, tbl.Owns(object.New("stranger")))
}
