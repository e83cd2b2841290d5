// Package component defines the capability model of pooled objects and the built-in
// data components a template can carry.
package component

import (
	"strings"
)

// Capability is a bit set of behavioural facets an object may expose.
type Capability uint16

// Known capabilities.
const (
	Projectile Capability = 1 << iota
	Particles
	Audio
	Trail
	VisualEffect
	TextLabel

	None Capability = 0
)

var capabilityNames = []struct {
	c    Capability
	name string
}{
	{Projectile, "projectile"},
	{Particles, "particles"},
	{Audio, "audio"},
	{Trail, "trail"},
	{VisualEffect, "vfx"},
	{TextLabel, "text"},
}

// Has reports whether every bit of other is set in c.
func (c Capability) Has(other Capability) bool {
	return other != None && c&other == other
}

// String returns the capability names joined by '|'.
func (c Capability) String() string {
	if c == None {
		return "none"
	}

	parts := make([]string, 0, len(capabilityNames))
	for _, cn := range capabilityNames {
		if c&cn.c != 0 {
			parts = append(parts, cn.name)
		}
	}

	return strings.Join(parts, "|")
}

// Query answers capability probes. Objects and templates implement it.
type Query interface {
	Has(c Capability) bool
}

// Component is a piece of per-object data that can be deep-copied into a new instance
// and stripped of its transient state when the instance goes back to its pool.
type Component interface {
	// Capability reports the facet this component provides.
	Capability() Capability
	// Clone returns a deep copy with no shared mutable state.
	Clone() Component
	// Reset clears transient state accumulated while the instance was checked out.
	Reset()
}

// Set is a static capability set, handy for probing without a full object.
type Set Capability

// Has implements Query.
func (s Set) Has(c Capability) bool {
	return Capability(s).Has(c)
}
