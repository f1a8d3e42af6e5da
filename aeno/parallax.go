package aeno

import (
	"errors"
	"fmt"
	"math"
)

// Point is a position in texture space.
type Point struct {
	X, Y float64
}

func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

func (p Point) MulScalar(s float64) Point {
	return Point{p.X * s, p.Y * s}
}

func (p Point) Length() float64 {
	return math.Hypot(p.X, p.Y)
}

// HeightField is a read-only 2D field of heights in [0, 1] where 1 is the
// raised surface. Addressing outside [0, 1] is up to the field.
type HeightField interface {
	Height(p Point, lod float64) float64
}

// HeightFieldFunc adapts a function to a HeightField.
type HeightFieldFunc func(p Point, lod float64) float64

func (f HeightFieldFunc) Height(p Point, lod float64) float64 {
	return f(p, lod)
}

// Parallax holds the tunables of parallax occlusion mapping.
//
// Layers is the number of march steps the [0, 1] depth range is split
// into. HeightScale is the relief depth in texture space.
type Parallax struct {
	Layers      int     `yaml:"layers" json:"layers"`
	HeightScale float64 `yaml:"height_scale" json:"height_scale"`
}

// DefaultParallax is used when a material does not set its own values.
var DefaultParallax = Parallax{Layers: 32, HeightScale: 0.08}

var (
	ErrInvalidLayers      = errors.New("parallax layers must be at least 1")
	ErrInvalidHeightScale = errors.New("parallax height scale must be finite and non-negative")
)

// Validate reports whether p can be used to march a height field.
func (p Parallax) Validate() error {
	if p.Layers < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidLayers, p.Layers)
	}
	if p.HeightScale < 0 || math.IsNaN(p.HeightScale) || math.IsInf(p.HeightScale, 0) {
		return fmt.Errorf("%w: got %v", ErrInvalidHeightScale, p.HeightScale)
	}
	return nil
}

// Displace returns the texture coordinate the viewer actually sees at uv
// once the height field is taken into account. All other material layers
// should be sampled at the returned coordinate.
//
// view is the direction from the surface point to the eye in tangent
// space. Its Z component must be non-zero; callers are expected to clamp
// grazing directions before calling.
func (p Parallax) Displace(field HeightField, uv Point, view Vector) Point {
	return p.March(field, uv, view).UV
}

// March steps along the view ray projected into texture space one depth
// layer at a time until the ray drops below the surface, then linearly
// refines between the last two samples. The field is sampled at most
// Layers+1 times, always at lod 0.
func (p Parallax) March(field HeightField, uv Point, view Vector) Hit {
	if p.Layers < 1 {
		return Hit{UV: uv}
	}
	layers := float64(p.Layers)
	layerDepth := 1 / layers
	step := Point{view.X, view.Y}.MulScalar(p.HeightScale / (view.Z * layers))

	// Fields store height, the march works in depth from the top.
	current := uv
	depth := 0.0
	sampled := 1 - field.Height(current, 0)
	previous := sampled

	hit := Hit{}
	for hit.Steps < p.Layers {
		depth += layerDepth
		current = current.Sub(step)
		previous = sampled
		sampled = 1 - field.Height(current, 0)
		hit.Steps++
		if sampled < depth {
			hit.Crossed = true
			break
		}
	}

	back := current.Add(step)
	after := sampled - depth
	before := previous - depth + layerDepth
	t := after / (after - before)
	if math.IsNaN(t) || t < 0 || t > 1 {
		t = 0
	}

	hit.UV = current.Add(back.Sub(current).MulScalar(t))
	hit.Depth = depth
	return hit
}
