package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Placement tells the pool manager where a spawned instance goes: either an absolute
// world pose or an attachment under a parent at its local origin.
type Placement struct {
	parent   *Transform
	position mgl32.Vec3
	rotation mgl32.Quat
	attached bool
}

// At places an instance at a world position and rotation.
func At(pos mgl32.Vec3, rot mgl32.Quat) Placement {
	return Placement{position: pos, rotation: rot}
}

// Origin places an instance at the world origin with identity rotation.
func Origin() Placement {
	return At(mgl32.Vec3{}, mgl32.QuatIdent())
}

// Under attaches an instance to parent at local origin with the given local rotation.
func Under(parent *Transform, localRot mgl32.Quat) Placement {
	return Placement{parent: parent, rotation: localRot, attached: true}
}

// Attached reports whether the placement attaches to a parent.
func (p Placement) Attached() bool { return p.attached }

// Parent returns the attach target, nil for absolute placements.
func (p Placement) Parent() *Transform { return p.parent }

// Position returns the world position of an absolute placement.
func (p Placement) Position() mgl32.Vec3 { return p.position }

// Rotation returns the world rotation, or the local rotation when attached.
func (p Placement) Rotation() mgl32.Quat {
	if p.rotation == (mgl32.Quat{}) {
		return mgl32.QuatIdent()
	}

	return p.rotation
}

// Valid reports whether an attached placement has a parent to attach to.
func (p Placement) Valid() bool {
	return !p.attached || p.parent != nil
}

// Apply moves t according to the placement. Absolute placements put t under group,
// which organises instances by kind and is expected to sit at the world origin.
func (p Placement) Apply(t, group *Transform) {
	if p.attached && p.parent != nil {
		t.SetParent(p.parent)
		t.SetLocal(mgl32.Vec3{}, p.Rotation(), mgl32.Vec3{1, 1, 1})

		return
	}

	t.SetParent(group)
	t.scale = mgl32.Vec3{1, 1, 1}
	t.SetWorld(p.position, p.Rotation())
}
