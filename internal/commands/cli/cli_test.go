package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/andrei-cloud/go_pool/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const manifests = `
key: fireball
lifetime: 2s
max_size: 32
components:
  - type: projectile
    speed: 20
  - type: trail
    width: 0.1
---
key: damage_text
components:
  - type: text
    text: "-5"
`

func templateDir(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	return dir
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	t.Setenv("HOME", t.TempDir())
	config.Reset()

	root, err := NewRootCommand()
	require.NoError(t, err)

	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	err = root.Execute()

	return buf.String(), err
}

func TestTemplatesList(t *testing.T) {
	dir := templateDir(t, map[string]string{"game.yaml": manifests})

	out, err := runCLI(t, "templates", "list", "--templates", dir, "--max-size", "500")
	require.NoError(t, err)

	assert.Contains(t, out, "fireball")
	assert.Contains(t, out, "projectile|trail")
	assert.Contains(t, out, "2s")
	assert.Contains(t, out, "32")
	assert.Contains(t, out, "damage_text")
	assert.Contains(t, out, "text_label")
	assert.Contains(t, out, "500 (default)")
}

func TestTemplatesValidate(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]string
		strict  bool
		wantErr bool
		want    string
	}{
		{
			name:  "valid",
			files: map[string]string{"game.yaml": manifests},
			want:  "2 templates, 2 keys, 0 duplicates",
		},
		{
			name:  "duplicate is a warning",
			files: map[string]string{"a.yaml": manifests, "b.yaml": "key: fireball\n"},
			want:  "3 templates, 2 keys, 1 duplicates",
		},
		{
			name:    "duplicate fails when strict",
			files:   map[string]string{"a.yaml": manifests, "b.yaml": "key: fireball\n"},
			strict:  true,
			wantErr: true,
		},
		{
			name:    "malformed manifest",
			files:   map[string]string{"bad.yaml": "key: x\ncomponents:\n  - type: laser\n"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := []string{"templates", "validate", templateDir(t, tt.files)}
			if tt.strict {
				args = append(args, "--strict")
			}

			out, err := runCLI(t, args...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestBench(t *testing.T) {
	dir := templateDir(t, map[string]string{"game.yaml": manifests})

	out, err := runCLI(t, "bench", "--templates", dir, "--frames", "120", "--burst", "3")
	require.NoError(t, err)

	assert.Contains(t, out, "120 frames")
	assert.Contains(t, out, "fireball")
	assert.Contains(t, out, "Reuse %")

	_, err = runCLI(t, "bench", "--templates", dir, "--frames", "0")
	assert.Error(t, err)
}
