// Package scene provides the minimal transform hierarchy pooled objects are placed into.
package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Transform is a node in the placement hierarchy. Position, rotation and scale are local
// to the parent; a nil parent means world space.
type Transform struct {
	Name string

	position mgl32.Vec3
	rotation mgl32.Quat
	scale    mgl32.Vec3
	parent   *Transform
	children []*Transform
}

// NewTransform returns an identity transform with no parent.
func NewTransform(name string) *Transform {
	return &Transform{
		Name:     name,
		rotation: mgl32.QuatIdent(),
		scale:    mgl32.Vec3{1, 1, 1},
	}
}

// Parent returns the parent transform or nil.
func (t *Transform) Parent() *Transform { return t.parent }

// Children returns the attached children. The slice must not be modified.
func (t *Transform) Children() []*Transform { return t.children }

// LocalPosition returns the position relative to the parent.
func (t *Transform) LocalPosition() mgl32.Vec3 { return t.position }

// LocalRotation returns the rotation relative to the parent.
func (t *Transform) LocalRotation() mgl32.Quat { return t.rotation }

// LocalScale returns the scale relative to the parent.
func (t *Transform) LocalScale() mgl32.Vec3 { return t.scale }

// SetLocal replaces the local position, rotation and scale.
func (t *Transform) SetLocal(pos mgl32.Vec3, rot mgl32.Quat, scale mgl32.Vec3) {
	t.position = pos
	t.rotation = rot.Normalize()
	t.scale = scale
}

// WorldPosition resolves the position through the parent chain.
func (t *Transform) WorldPosition() mgl32.Vec3 {
	if t.parent == nil {
		return t.position
	}

	p := t.parent
	scaled := mgl32.Vec3{
		t.position[0] * p.worldScale()[0],
		t.position[1] * p.worldScale()[1],
		t.position[2] * p.worldScale()[2],
	}

	return p.WorldPosition().Add(p.WorldRotation().Rotate(scaled))
}

// WorldRotation resolves the rotation through the parent chain.
func (t *Transform) WorldRotation() mgl32.Quat {
	if t.parent == nil {
		return t.rotation
	}

	return t.parent.WorldRotation().Mul(t.rotation).Normalize()
}

func (t *Transform) worldScale() mgl32.Vec3 {
	if t.parent == nil {
		return t.scale
	}
	ps := t.parent.worldScale()

	return mgl32.Vec3{t.scale[0] * ps[0], t.scale[1] * ps[1], t.scale[2] * ps[2]}
}

// SetWorld places the transform at a world position and rotation, keeping its parent.
// Parents are assumed to carry unit scale.
func (t *Transform) SetWorld(pos mgl32.Vec3, rot mgl32.Quat) {
	if t.parent == nil {
		t.position = pos
		t.rotation = rot.Normalize()
		return
	}

	inv := t.parent.WorldRotation().Inverse()
	t.position = inv.Rotate(pos.Sub(t.parent.WorldPosition()))
	t.rotation = inv.Mul(rot).Normalize()
}

// SetParent attaches t under parent, detaching it from any previous parent. Local values
// are kept as they are. A nil parent detaches t into world space.
func (t *Transform) SetParent(parent *Transform) {
	if t.parent == parent {
		return
	}
	if parent != nil && parent.isDescendantOf(t) {
		return
	}

	if t.parent != nil {
		t.parent.removeChild(t)
	}
	t.parent = parent
	if parent != nil {
		parent.children = append(parent.children, t)
	}
}

// Detach removes t from its parent and detaches all of its children.
func (t *Transform) Detach() {
	t.SetParent(nil)
	for _, c := range t.children {
		c.parent = nil
	}
	t.children = nil
}

func (t *Transform) removeChild(c *Transform) {
	for i, child := range t.children {
		if child == c {
			last := len(t.children) - 1
			copy(t.children[i:], t.children[i+1:])
			t.children[last] = nil
			t.children = t.children[:last]

			return
		}
	}
}

func (t *Transform) isDescendantOf(ancestor *Transform) bool {
	for p := t; p != nil; p = p.parent {
		if p == ancestor {
			return true
		}
	}

	return false
}
