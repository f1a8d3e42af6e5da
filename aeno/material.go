package aeno

import (
	"fmt"
	"math"
)

// Material is a flat surface with relief. Albedo and Normal are sampled
// at the coordinate corrected by the Height field.
type Material struct {
	Name     string
	Color    Color
	Albedo   Texture
	Normal   Texture
	Height   HeightField
	Parallax Parallax
}

// Surface is what a material looks like at one shaded point.
type Surface struct {
	UV     Point
	Color  Color
	Normal Vector // tangent space
	Hit    Hit
}

// NewMaterial returns a material with the default parallax settings.
func NewMaterial(name string, color Color) *Material {
	return &Material{Name: name, Color: color, Parallax: DefaultParallax}
}

// Validate checks the parallax settings when the material has relief.
func (m *Material) Validate() error {
	if m.Height == nil {
		return nil
	}
	if err := m.Parallax.Validate(); err != nil {
		return fmt.Errorf("material %q: %w", m.Name, err)
	}
	return nil
}

// Surface resolves uv seen from the tangent-space direction view.
func (m *Material) Surface(uv Point, view Vector) Surface {
	s := Surface{UV: uv, Color: m.Color, Normal: V(0, 0, 1), Hit: Hit{UV: uv}}
	if m.Height != nil {
		s.Hit = m.Parallax.March(m.Height, uv, view)
		s.UV = s.Hit.UV
	}
	if m.Albedo != nil {
		s.Color = m.Albedo.BilinearSample(s.UV.X, s.UV.Y)
	}
	if m.Normal != nil {
		c := m.Normal.BilinearSample(s.UV.X, s.UV.Y)
		n := V(c.R*2-1, c.G*2-1, c.B*2-1)
		if l := n.Length(); l > 0 && !math.IsNaN(l) {
			s.Normal = n.DivScalar(l)
		}
	}
	return s
}
