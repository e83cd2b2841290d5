package catalog

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/andrei-cloud/go_pool/pkg/component"
	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

// Manifest is one template document.
type Manifest struct {
	Key        string      `yaml:"key"`
	Name       string      `yaml:"name"`
	Lifetime   Duration    `yaml:"lifetime"`
	MaxSize    int         `yaml:"max_size"`
	Components []yaml.Node `yaml:"components"`
}

func (m *Manifest) empty() bool {
	return m.Key == "" && m.Name == "" && len(m.Components) == 0
}

// Duration accepts either a Go duration string ("250ms") or a number of seconds.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: duration must be a scalar", n.Line)
	}
	if secs, err := strconv.ParseFloat(n.Value, 64); err == nil {
		*d = Duration(secs * float64(time.Second))
		return nil
	}
	v, err := time.ParseDuration(n.Value)
	if err != nil {
		return fmt.Errorf("line %d: invalid duration %q", n.Line, n.Value)
	}
	*d = Duration(v)

	return nil
}

type projectileSpec struct {
	Type    string  `yaml:"type"`
	Speed   float32 `yaml:"speed"`
	Damage  float32 `yaml:"damage"`
	Gravity bool    `yaml:"gravity"`
}

type particlesSpec struct {
	Type     string   `yaml:"type"`
	Burst    int      `yaml:"burst"`
	Duration Duration `yaml:"duration"`
	Looping  bool     `yaml:"looping"`
}

type audioSpec struct {
	Type   string  `yaml:"type"`
	Clip   string  `yaml:"clip"`
	Volume float32 `yaml:"volume"`
	Loop   bool    `yaml:"loop"`
}

type trailSpec struct {
	Type  string   `yaml:"type"`
	Width float32  `yaml:"width"`
	Time  Duration `yaml:"time"`
}

type vfxSpec struct {
	Type   string             `yaml:"type"`
	Asset  string             `yaml:"asset"`
	Params map[string]float32 `yaml:"params"`
}

type textSpec struct {
	Type     string    `yaml:"type"`
	Text     string    `yaml:"text"`
	FontSize float32   `yaml:"font_size"`
	Color    []float32 `yaml:"color"`
}

// decodeStrict decodes n into out, rejecting fields out does not declare.
func decodeStrict(n *yaml.Node, out any) error {
	raw, err := yaml.Marshal(n)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}

	return nil
}

// decodeComponent builds the component described by n, dispatching on its type field.
func decodeComponent(n *yaml.Node) (component.Component, error) {
	var head struct {
		Type string `yaml:"type"`
	}
	if err := n.Decode(&head); err != nil {
		return nil, err
	}

	switch head.Type {
	case "projectile":
		var s projectileSpec
		if err := decodeStrict(n, &s); err != nil {
			return nil, err
		}
		return &component.ProjectileMotion{Speed: s.Speed, Damage: s.Damage, Gravity: s.Gravity}, nil
	case "particles":
		s := particlesSpec{Burst: 1}
		if err := decodeStrict(n, &s); err != nil {
			return nil, err
		}
		return &component.ParticleEmitter{
			Burst:    s.Burst,
			Duration: time.Duration(s.Duration),
			Looping:  s.Looping,
		}, nil
	case "audio":
		s := audioSpec{Volume: 1}
		if err := decodeStrict(n, &s); err != nil {
			return nil, err
		}
		if s.Clip == "" {
			return nil, fmt.Errorf("line %d: audio component needs a clip", n.Line)
		}
		return &component.AudioEmitter{Clip: s.Clip, Volume: s.Volume, Loop: s.Loop}, nil
	case "trail":
		var s trailSpec
		if err := decodeStrict(n, &s); err != nil {
			return nil, err
		}
		return &component.TrailRenderer{Width: s.Width, Time: time.Duration(s.Time)}, nil
	case "vfx":
		var s vfxSpec
		if err := decodeStrict(n, &s); err != nil {
			return nil, err
		}
		return &component.VisualEffectGraph{Asset: s.Asset, Defaults: s.Params}, nil
	case "text":
		s := textSpec{FontSize: 1}
		if err := decodeStrict(n, &s); err != nil {
			return nil, err
		}
		color := mgl32.Vec4{1, 1, 1, 1}
		switch len(s.Color) {
		case 0:
		case 3, 4:
			copy(color[:], s.Color)
		default:
			return nil, fmt.Errorf("line %d: color needs 3 or 4 channels", n.Line)
		}
		return &component.TextMesh{Default: s.Text, FontSize: s.FontSize, Color: color}, nil
	case "":
		return nil, fmt.Errorf("line %d: component without type", n.Line)
	default:
		return nil, fmt.Errorf("line %d: unknown component type %q", n.Line, head.Type)
	}
}
