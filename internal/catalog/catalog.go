// Package catalog loads prototype templates from YAML manifests and registers them.
package catalog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/andrei-cloud/go_pool/internal/errorcodes"
	"github.com/andrei-cloud/go_pool/internal/registry"
	"github.com/andrei-cloud/go_pool/pkg/component"
	"github.com/andrei-cloud/go_pool/pkg/object"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Entry is a prototype read from a manifest.
type Entry struct {
	File      string
	Key       string
	Prototype *registry.Prototype
}

// LoadDir reads every *.yaml and *.yml file in dir, in name order.
func LoadDir(dir string) ([]Entry, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read template directory: %w", err)
	}

	var entries []Entry
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(f.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}

		loaded, err := LoadFile(filepath.Join(dir, f.Name()))
		if err != nil {
			return nil, err
		}
		entries = append(entries, loaded...)
	}

	return entries, nil
}

// LoadFile reads all manifest documents in path.
func LoadFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}
	defer f.Close()

	entries, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errorcodes.ErrInvalidManifest, filepath.Base(path), err)
	}
	for i := range entries {
		entries[i].File = path
	}

	return entries, nil
}

// Decode reads a stream of manifest documents.
func Decode(r io.Reader) ([]Entry, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var entries []Entry
	for doc := 1; ; doc++ {
		var m Manifest
		err := dec.Decode(&m)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", doc, err)
		}
		if m.empty() {
			continue
		}

		e, err := build(&m)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", doc, err)
		}
		entries = append(entries, e)
	}

	return entries, nil
}

func build(m *Manifest) (Entry, error) {
	if m.Key == "" {
		return Entry{}, errors.New("missing key")
	}
	if m.Lifetime < 0 {
		return Entry{}, fmt.Errorf("negative lifetime for %q", m.Key)
	}
	if m.MaxSize < 0 {
		return Entry{}, fmt.Errorf("negative max_size for %q", m.Key)
	}

	name := m.Name
	if name == "" {
		name = m.Key
	}

	comps := make([]component.Component, 0, len(m.Components))
	for i := range m.Components {
		c, err := decodeComponent(&m.Components[i])
		if err != nil {
			return Entry{}, fmt.Errorf("%q: %w", m.Key, err)
		}
		comps = append(comps, c)
	}

	p, err := registry.NewPrototype(
		object.New(name, comps...),
		registry.WithKey(m.Key),
		registry.WithLifetime(time.Duration(m.Lifetime)),
		registry.WithMaxSize(m.MaxSize),
	)
	if err != nil {
		return Entry{}, err
	}

	return Entry{Key: m.Key, Prototype: p}, nil
}

// Populate registers entries in order and seals reg. Duplicate keys are not fatal: the
// later entry wins and the duplicates are returned as warnings.
func Populate(reg *registry.Registry, entries []Entry) ([]error, error) {
	var warnings []error
	for _, e := range entries {
		err := reg.Register(e.Key, e.Prototype)
		switch {
		case err == nil:
		case errors.Is(err, errorcodes.ErrDuplicateKey):
			log.Warn().
				Str("event", "duplicate_key").
				Str("key", e.Key).
				Str("file", e.File).
				Msg("template key registered more than once, keeping the last one")
			warnings = append(warnings, fmt.Errorf("%s: %w", e.File, err))
		default:
			return warnings, fmt.Errorf("%s: %w", e.File, err)
		}

		log.Debug().
			Str("event", "template_loaded").
			Str("key", e.Key).
			Str("file", e.File).
			Str("capabilities", e.Prototype.Template().Capabilities().String()).
			Msg("registered template")
	}
	reg.Seal()

	return warnings, nil
}
