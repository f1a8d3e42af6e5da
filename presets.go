package main

import (
	"fmt"
	"os"

	"github.com/netisu/relief/aeno"
	"gopkg.in/yaml.v3"
)

// PerlinPreset describes a procedural height field.
type PerlinPreset struct {
	Alpha     float64 `yaml:"alpha"`
	Beta      float64 `yaml:"beta"`
	Octaves   int32   `yaml:"octaves"`
	Seed      int64   `yaml:"seed"`
	Frequency float64 `yaml:"frequency"`
}

// MaterialPreset names the assets and parallax settings of a material.
// Asset values are upload hashes resolved against the CDN.
type MaterialPreset struct {
	Albedo   string        `yaml:"albedo"`
	Height   string        `yaml:"height"`
	Normal   string        `yaml:"normal"`
	Color    string        `yaml:"color"`
	Invert   bool          `yaml:"invert"`
	Perlin   *PerlinPreset `yaml:"perlin"`
	Parallax aeno.Parallax `yaml:"parallax"`
}

// UnmarshalYAML seeds the default parallax so only keys present in the
// document override it. An explicit height_scale of 0 is kept.
func (p *MaterialPreset) UnmarshalYAML(value *yaml.Node) error {
	type plain MaterialPreset
	preset := plain{Parallax: aeno.DefaultParallax}
	if err := value.Decode(&preset); err != nil {
		return err
	}
	*p = MaterialPreset(preset)
	return nil
}

type presetFile struct {
	Materials map[string]MaterialPreset `yaml:"materials"`
}

// ParsePresets decodes a presets document. Parallax settings missing
// from an entry default to aeno.DefaultParallax.
func ParsePresets(data []byte) (map[string]MaterialPreset, error) {
	var f presetFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse presets: %w", err)
	}
	presets := make(map[string]MaterialPreset, len(f.Materials))
	for name, p := range f.Materials {
		if err := p.Parallax.Validate(); err != nil {
			return nil, fmt.Errorf("preset %q: %w", name, err)
		}
		if p.Perlin != nil && p.Height != "" {
			return nil, fmt.Errorf("preset %q: perlin and height are exclusive", name)
		}
		presets[name] = p
	}
	return presets, nil
}

// LoadPresets reads presets from path. A missing file yields no presets.
func LoadPresets(path string) (map[string]MaterialPreset, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return map[string]MaterialPreset{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read presets %s: %w", path, err)
	}
	return ParsePresets(data)
}

// PerlinField builds the procedural field of a preset.
func (p *PerlinPreset) PerlinField() *aeno.PerlinHeightField {
	alpha, beta, octaves := p.Alpha, p.Beta, p.Octaves
	if alpha == 0 {
		alpha = 2
	}
	if beta == 0 {
		beta = 2
	}
	if octaves == 0 {
		octaves = 3
	}
	return aeno.NewPerlinHeightField(alpha, beta, octaves, p.Seed, p.Frequency)
}
