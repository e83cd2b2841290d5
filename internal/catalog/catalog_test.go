package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/andrei-cloud/go_pool/internal/category"
	"github.com/andrei-cloud/go_pool/internal/errorcodes"
	"github.com/andrei-cloud/go_pool/internal/registry"
	"github.com/andrei-cloud/go_pool/pkg/component"
	"github.com/andrei-cloud/go_pool/pkg/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const projectiles = `
key: fireball
name: Fireball
lifetime: 5s
max_size: 64
components:
  - type: projectile
    speed: 22
    damage: 12
  - type: trail
    width: 0.2
    time: 0.4
---
key: arrow
components:
  - type: projectile
    speed: 40
    gravity: true
`

const effects = `
key: hit_sparks
components:
  - type: particles
    burst: 24
    duration: 300ms
---
key: damage_text
lifetime: 1.5
components:
  - type: text
    text: "-12"
    font_size: 2
    color: [1, 0.2, 0.2]
---
key: portal
components:
  - type: vfx
    asset: portal.vfx
    params:
      radius: 2.5
`

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "projectiles.yaml", projectiles)
	writeFile(t, dir, "effects.yml", effects)
	writeFile(t, dir, "README.md", "not a manifest")

	entries, err := LoadDir(dir)
	require.NoError(t, err)

	keys := make([]string, 0, len(entries))
	byKey := make(map[string]*registry.Prototype)
	for _, e := range entries {
		keys = append(keys, e.Key)
		byKey[e.Key] = e.Prototype
	}
	assert.Equal(t, []string{"hit_sparks", "damage_text", "portal", "fireball", "arrow"}, keys)

	fireball := byKey["fireball"]
	assert.Equal(t, "Fireball", fireball.Template().Name())
	assert.Equal(t, 5*time.Second, fireball.Lifetime())
	assert.Equal(t, 64, fireball.MaxSize())
	assert.Equal(t, category.Projectile, category.Classify(fireball.Template()))

	trail, ok := object.As[*component.TrailRenderer](fireball.Template())
	require.True(t, ok)
	assert.Equal(t, 400*time.Millisecond, trail.Time)

	assert.Equal(t, "arrow", byKey["arrow"].Template().Name(), "name defaults to the key")

	text, ok := object.As[*component.TextMesh](byKey["damage_text"].Template())
	require.True(t, ok)
	assert.Equal(t, "-12", text.Default)
	assert.InDelta(t, 0.2, text.Color.Y(), 1e-6)
	assert.InDelta(t, 1, text.Color.W(), 1e-6)
	assert.Equal(t, 1500*time.Millisecond, byKey["damage_text"].Lifetime())

	vfx, ok := object.As[*component.VisualEffectGraph](byKey["portal"].Template())
	require.True(t, ok)
	radius, ok := vfx.Float("radius")
	require.True(t, ok)
	assert.InDelta(t, 2.5, radius, 1e-6)
}

func TestDecodeRejectsMalformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"missing key", "components: []\nname: x\n", "missing key"},
		{"unknown component", "key: a\ncomponents:\n  - type: laser\n", "unknown component type"},
		{"untyped component", "key: a\ncomponents:\n  - speed: 3\n", "without type"},
		{"bad duration", "key: a\nlifetime: soon\n", "invalid duration"},
		{"unknown field", "key: a\ncolour: red\n", "colour"},
		{"unknown component field", "key: a\ncomponents:\n  - type: projectile\n    sped: 22\n", "sped"},
		{"audio without clip", "key: a\ncomponents:\n  - type: audio\n", "needs a clip"},
		{"negative ceiling", "key: a\nmax_size: -1\n", "negative max_size"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Decode(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadFileNamesManifest(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "broken.yaml", "key: a\ncomponents:\n  - type: laser\n")

	_, err := LoadDir(dir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errorcodes.ErrInvalidManifest))
	assert.Contains(t, err.Error(), "broken.yaml")
}

func TestLoadDirMissing(t *testing.T) {
	t.Parallel()

	_, err := LoadDir(filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}

func TestPopulateReportsDuplicatesAndSeals(t *testing.T) {
	t.Parallel()

	first, err := Decode(strings.NewReader("key: boom\ncomponents:\n  - type: particles\n"))
	require.NoError(t, err)
	second, err := Decode(strings.NewReader("key: boom\ncomponents:\n  - type: audio\n    clip: boom.wav\n"))
	require.NoError(t, err)

	reg := registry.New()
	warnings, err := Populate(reg, append(first, second...))
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.True(t, errors.Is(warnings[0], errorcodes.ErrDuplicateKey))

	p, err := reg.Resolve("boom")
	require.NoError(t, err)
	assert.Same(t, second[0].Prototype, p, "last registration wins")
	assert.True(t, reg.Sealed())

	err = reg.Register("late", first[0].Prototype)
	assert.True(t, errors.Is(err, errorcodes.ErrRegistrySealed))
}

func TestShippedTemplatesLoad(t *testing.T) {
	t.Parallel()

	entries, err := LoadDir("../../templates")
	require.NoError(t, err)

	reg := registry.New()
	warnings, err := Populate(reg, entries)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, []string{
		"arrow", "damage_text", "dash_trail", "fireball", "footstep", "hit_sparks", "pickup", "portal",
	}, reg.Keys())
}
