package category

import (
	"testing"

	"github.com/andrei-cloud/go_pool/pkg/component"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyPrecedence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		caps component.Capability
		want Category
	}{
		{name: "nothing", caps: component.None, want: GenericObject},
		{name: "projectile", caps: component.Projectile, want: Projectile},
		{name: "projectile beats particles", caps: component.Projectile | component.Particles, want: Projectile},
		{name: "projectile beats trail", caps: component.Projectile | component.Trail, want: Projectile},
		{name: "particles beat audio", caps: component.Particles | component.Audio, want: ParticleEffect},
		{name: "audio beats trail", caps: component.Audio | component.Trail, want: AudioEmitter},
		{name: "trail beats vfx", caps: component.Trail | component.VisualEffect, want: TrailEffect},
		{name: "vfx beats text", caps: component.VisualEffect | component.TextLabel, want: VisualEffectGraph},
		{name: "text", caps: component.TextLabel, want: TextLabel},
		{
			name: "everything",
			caps: component.Projectile | component.Particles | component.Audio |
				component.Trail | component.VisualEffect | component.TextLabel,
			want: Projectile,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Classify(component.Set(tt.caps)))
		})
	}
}

func TestClassifyNilQuery(t *testing.T) {
	t.Parallel()

	assert.Equal(t, GenericObject, Classify(nil))
}

func TestNamesRoundTrip(t *testing.T) {
	t.Parallel()

	for _, c := range All {
		parsed, err := Parse(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, parsed)
		assert.NotEmpty(t, c.GroupName())
	}

	_, err := Parse("hologram")
	assert.Error(t, err)
	assert.Equal(t, "category(99)", Category(99).String())
	assert.Equal(t, "GameObjects", Category(99).GroupName())
	assert.Equal(t, "Hovering Texts", TextLabel.GroupName())
}
