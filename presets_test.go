package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/netisu/relief/aeno"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePresetsFillsDefaults(t *testing.T) {
	presets, err := ParsePresets([]byte(`
materials:
  brick:
    albedo: brick_albedo
    height: brick_height
  dunes:
    color: "#d8c08a"
    perlin: {seed: 7, frequency: 6}
    parallax: {layers: 24, height_scale: 0.05}
`))
	require.NoError(t, err)
	require.Len(t, presets, 2)

	assert.Equal(t, aeno.DefaultParallax, presets["brick"].Parallax)
	assert.Equal(t, "brick_height", presets["brick"].Height)

	dunes := presets["dunes"]
	assert.Equal(t, aeno.Parallax{Layers: 24, HeightScale: 0.05}, dunes.Parallax)
	require.NotNil(t, dunes.Perlin)
	assert.Equal(t, int64(7), dunes.Perlin.Seed)

	h := dunes.Perlin.PerlinField().Height(aeno.Point{X: 0.2, Y: 0.4}, 0)
	assert.GreaterOrEqual(t, h, 0.0)
	assert.LessOrEqual(t, h, 1.0)
}

func TestParsePresetsKeepsExplicitZeroRelief(t *testing.T) {
	presets, err := ParsePresets([]byte(`
materials:
  flat:
    height: flat_map
    parallax: {height_scale: 0}
  deep:
    height: deep_map
    parallax: {layers: 64}
`))
	require.NoError(t, err)
	assert.Equal(t, aeno.Parallax{Layers: aeno.DefaultParallax.Layers, HeightScale: 0}, presets["flat"].Parallax)
	assert.Equal(t, aeno.Parallax{Layers: 64, HeightScale: aeno.DefaultParallax.HeightScale}, presets["deep"].Parallax)
}

func TestParsePresetsRejectsBadEntries(t *testing.T) {
	_, err := ParsePresets([]byte(`
materials:
  broken:
    parallax: {layers: -2}
`))
	assert.ErrorIs(t, err, aeno.ErrInvalidLayers)

	_, err = ParsePresets([]byte(`
materials:
  zero:
    parallax: {layers: 0}
`))
	assert.ErrorIs(t, err, aeno.ErrInvalidLayers)

	_, err = ParsePresets([]byte(`
materials:
  both:
    height: some_map
    perlin: {seed: 1}
`))
	assert.ErrorContains(t, err, "exclusive")

	_, err = ParsePresets([]byte("materials: [not, a, map]"))
	assert.Error(t, err)
}

func TestLoadPresets(t *testing.T) {
	presets, err := LoadPresets(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Empty(t, presets)

	path := filepath.Join(t.TempDir(), "materials.yaml")
	require.NoError(t, os.WriteFile(path, []byte("materials:\n  flat:\n    color: \"#ffffff\"\n"), 0644))
	presets, err = LoadPresets(path)
	require.NoError(t, err)
	assert.Contains(t, presets, "flat")
}

func TestRepositoryPresetsParse(t *testing.T) {
	presets, err := LoadPresets("materials.yaml")
	require.NoError(t, err)
	assert.Contains(t, presets, "brick")
	assert.True(t, presets["cobble"].Invert)
}
