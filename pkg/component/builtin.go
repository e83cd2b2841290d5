package component

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

// ProjectileMotion carries launch parameters and the live velocity of a projectile.
type ProjectileMotion struct {
	Speed    float32
	Damage   float32
	Gravity  bool
	Velocity mgl32.Vec3
}

// Capability implements Component.
func (p *ProjectileMotion) Capability() Capability { return Projectile }

// Clone implements Component.
func (p *ProjectileMotion) Clone() Component {
	c := *p
	return &c
}

// Reset zeroes the velocity so a recycled projectile never inherits momentum.
func (p *ProjectileMotion) Reset() {
	p.Velocity = mgl32.Vec3{}
}

// Launch sets the velocity along dir scaled by Speed.
func (p *ProjectileMotion) Launch(dir mgl32.Vec3) {
	if dir.Len() == 0 {
		p.Velocity = mgl32.Vec3{}
		return
	}
	p.Velocity = dir.Normalize().Mul(p.Speed)
}

// ParticleEmitter describes a particle burst.
type ParticleEmitter struct {
	Burst    int
	Duration time.Duration
	Looping  bool

	playing bool
	emitted int
}

// Capability implements Component.
func (e *ParticleEmitter) Capability() Capability { return Particles }

// Clone implements Component.
func (e *ParticleEmitter) Clone() Component {
	c := *e
	return &c
}

// Reset stops playback and clears the emitted count.
func (e *ParticleEmitter) Reset() {
	e.playing = false
	e.emitted = 0
}

// Play starts the emitter and records one burst.
func (e *ParticleEmitter) Play() {
	e.playing = true
	e.emitted += e.Burst
}

// Playing reports whether the emitter is running.
func (e *ParticleEmitter) Playing() bool { return e.playing }

// Emitted returns the number of particles emitted since the last reset.
func (e *ParticleEmitter) Emitted() int { return e.emitted }

// AudioEmitter plays a clip at the object's position.
type AudioEmitter struct {
	Clip   string
	Volume float32
	Loop   bool

	playing bool
}

// Capability implements Component.
func (a *AudioEmitter) Capability() Capability { return Audio }

// Clone implements Component.
func (a *AudioEmitter) Clone() Component {
	c := *a
	return &c
}

// Reset stops playback.
func (a *AudioEmitter) Reset() { a.playing = false }

// Play starts playback.
func (a *AudioEmitter) Play() { a.playing = true }

// Playing reports whether the clip is playing.
func (a *AudioEmitter) Playing() bool { return a.playing }

// TrailRenderer records the recent path of a moving object.
type TrailRenderer struct {
	Width float32
	Time  time.Duration

	points []mgl32.Vec3
}

// Capability implements Component.
func (t *TrailRenderer) Capability() Capability { return Trail }

// Clone implements Component. Recorded points are not copied.
func (t *TrailRenderer) Clone() Component {
	return &TrailRenderer{Width: t.Width, Time: t.Time}
}

// Reset drops recorded points so a recycled trail does not streak from its last position.
func (t *TrailRenderer) Reset() { t.points = t.points[:0] }

// AddPoint appends a point to the trail.
func (t *TrailRenderer) AddPoint(p mgl32.Vec3) { t.points = append(t.points, p) }

// Points returns the recorded points.
func (t *TrailRenderer) Points() []mgl32.Vec3 { return t.points }

// VisualEffectGraph is a GPU effect graph with exposed float properties.
type VisualEffectGraph struct {
	Asset    string
	Defaults map[string]float32

	properties map[string]float32
}

// Capability implements Component.
func (v *VisualEffectGraph) Capability() Capability { return VisualEffect }

// Clone implements Component.
func (v *VisualEffectGraph) Clone() Component {
	c := &VisualEffectGraph{Asset: v.Asset}
	if v.Defaults != nil {
		c.Defaults = make(map[string]float32, len(v.Defaults))
		for k, val := range v.Defaults {
			c.Defaults[k] = val
		}
	}

	return c
}

// Reset discards overridden properties.
func (v *VisualEffectGraph) Reset() {
	for k := range v.properties {
		delete(v.properties, k)
	}
}

// SetFloat overrides a property for the current checkout.
func (v *VisualEffectGraph) SetFloat(name string, val float32) {
	if v.properties == nil {
		v.properties = make(map[string]float32)
	}
	v.properties[name] = val
}

// Float returns the overridden property or its default.
func (v *VisualEffectGraph) Float(name string) (float32, bool) {
	if val, ok := v.properties[name]; ok {
		return val, true
	}
	val, ok := v.Defaults[name]

	return val, ok
}

// TextMesh is a world-space text label such as floating damage numbers.
type TextMesh struct {
	Default  string
	FontSize float32
	Color    mgl32.Vec4

	Text string
}

// Capability implements Component.
func (t *TextMesh) Capability() Capability { return TextLabel }

// Clone implements Component.
func (t *TextMesh) Clone() Component {
	c := *t
	c.Text = c.Default
	return &c
}

// Reset restores the template text.
func (t *TextMesh) Reset() { t.Text = t.Default }
