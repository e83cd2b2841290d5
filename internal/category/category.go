// Package category maps an object's capability set to the logical group it is filed under.
// Categories only choose a placement group; they never affect reuse.
package category

import (
	"fmt"
	"strings"

	"github.com/andrei-cloud/go_pool/pkg/component"
)

// Category is a logical grouping tag.
type Category uint8

// Categories, in declaration order of the placement groups.
const (
	GenericObject Category = iota
	ParticleEffect
	VisualEffectGraph
	AudioEmitter
	Projectile
	TrailEffect
	TextLabel
)

// All lists every category.
var All = []Category{
	GenericObject,
	ParticleEffect,
	VisualEffectGraph,
	AudioEmitter,
	Projectile,
	TrailEffect,
	TextLabel,
}

// precedence is the classification chain. The most specific gameplay role comes first,
// so a projectile with a trail is filed as a projectile.
var precedence = []struct {
	capability component.Capability
	category   Category
}{
	{component.Projectile, Projectile},
	{component.Particles, ParticleEffect},
	{component.Audio, AudioEmitter},
	{component.Trail, TrailEffect},
	{component.VisualEffect, VisualEffectGraph},
	{component.TextLabel, TextLabel},
}

// Classify returns the category of q. It is total and pure.
func Classify(q component.Query) Category {
	if q == nil {
		return GenericObject
	}
	for _, p := range precedence {
		if q.Has(p.capability) {
			return p.category
		}
	}

	return GenericObject
}

var names = map[Category]string{
	GenericObject:     "generic_object",
	ParticleEffect:    "particle_effect",
	VisualEffectGraph: "visual_effect_graph",
	AudioEmitter:      "audio_emitter",
	Projectile:        "projectile",
	TrailEffect:       "trail_effect",
	TextLabel:         "text_label",
}

var groups = map[Category]string{
	GenericObject:     "GameObjects",
	ParticleEffect:    "Particle Systems",
	VisualEffectGraph: "VFX Graphs",
	AudioEmitter:      "Sound Objects",
	Projectile:        "Projectiles",
	TrailEffect:       "Trails",
	TextLabel:         "Hovering Texts",
}

// String returns the snake_case name used in config, logs and metrics.
func (c Category) String() string {
	if n, ok := names[c]; ok {
		return n
	}

	return fmt.Sprintf("category(%d)", uint8(c))
}

// GroupName returns the label of the placement group holding instances of c.
func (c Category) GroupName() string {
	if g, ok := groups[c]; ok {
		return g
	}

	return groups[GenericObject]
}

// Parse converts a name produced by String back into a Category.
func Parse(s string) (Category, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for c, n := range names {
		if n == s {
			return c, nil
		}
	}

	return GenericObject, fmt.Errorf("unknown category %q", s)
}
