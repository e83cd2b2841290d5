package object

import (
	"testing"

	"github.com/andrei-cloud/go_pool/pkg/component"
	"github.com/andrei-cloud/go_pool/pkg/scene"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloneIsDeepAndInactive(t *testing.T) {
	t.Parallel()

	tmpl := New("fireball",
		&component.ProjectileMotion{Speed: 20},
		&component.TrailRenderer{Width: 0.3},
	)
	tmpl.Transform().SetLocal(mgl32.Vec3{0, 1, 0}, mgl32.QuatIdent(), mgl32.Vec3{2, 2, 2})

	clone := tmpl.Clone()
	assert.NotEqual(t, tmpl.ID(), clone.ID())
	assert.Equal(t, StateInactive, clone.State())
	assert.Equal(t, tmpl.Capabilities(), clone.Capabilities())
	assert.Equal(t, mgl32.Vec3{2, 2, 2}, clone.Transform().LocalScale())
	assert.Nil(t, clone.Transform().Parent())

	proj, ok := As[*component.ProjectileMotion](clone)
	require.True(t, ok)
	proj.Launch(mgl32.Vec3{1, 0, 0})

	orig, ok := As[*component.ProjectileMotion](tmpl)
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec3{}, orig.Velocity, "template must stay untouched")
}

func TestLifecycleTransitions(t *testing.T) {
	t.Parallel()

	emitter := &component.ParticleEmitter{Burst: 4}
	o := New("sparks", emitter)
	assert.False(t, o.Active())

	o.Activate()
	assert.True(t, o.Active())
	emitter.Play()

	o.Deactivate()
	assert.Equal(t, StateInactive, o.State())
	assert.False(t, emitter.Playing(), "deactivate resets transient state")

	parent := scene.NewTransform("group")
	o.Transform().SetParent(parent)
	o.Destroy()
	assert.True(t, o.Destroyed())
	assert.Empty(t, parent.Children())
	assert.False(t, o.Has(component.Particles))

	o.Activate()
	assert.True(t, o.Destroyed(), "destroyed objects never come back")
	o.Deactivate()
	assert.True(t, o.Destroyed())
}

func TestAsMissingComponent(t *testing.T) {
	t.Parallel()

	o := New("crate")
	_, ok := As[*component.AudioEmitter](o)
	assert.False(t, ok)

	_, ok = As[*component.AudioEmitter](nil)
	assert.False(t, ok)
}

func TestStateString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "inactive", StateInactive.String())
	assert.Equal(t, "active", StateActive.String())
	assert.Equal(t, "destroyed", StateDestroyed.String())
	assert.Equal(t, "unknown", State(42).String())
}

func TestAddIgnoresNil(t *testing.T) {
	t.Parallel()

	o := New("label", nil, &component.TextMesh{Default: "hi"})
	assert.Len(t, o.Components(), 1)
	assert.True(t, o.Has(component.TextLabel))
}
