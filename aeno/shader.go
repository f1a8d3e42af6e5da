package aeno

import (
	"math"

	"github.com/fogleman/fauxgl"
)

// ParallaxShader is a Blinn-Phong shader that samples its material at the
// parallax corrected texture coordinate.
type ParallaxShader struct {
	Matrix         Matrix
	LightDirection Vector
	CameraPosition Vector
	Frame          TangentFrame
	Material       *Material
	AmbientColor   Color
	LightColor     Color
	SpecularColor  Color
	SpecularPower  float64
	// MinViewZ keeps the tangent-space view off the surface plane, where
	// the parallax step grows without bound.
	MinViewZ float64
}

// NewParallaxShader creates a new ParallaxShader.
func NewParallaxShader(matrix Matrix, light, eye Vector, material *Material, ambient, diffuse Color) *ParallaxShader {
	return &ParallaxShader{
		Matrix:         matrix,
		LightDirection: light,
		CameraPosition: eye,
		Frame:          DefaultFrame,
		Material:       material,
		AmbientColor:   ambient,
		LightColor:     diffuse,
		SpecularColor:  HexColor("#333333"),
		SpecularPower:  32,
		MinViewZ:       0.05,
	}
}

// WithObject returns a copy of the shader for drawing one object.
func (s *ParallaxShader) WithObject(frame TangentFrame, material *Material) *ParallaxShader {
	c := *s
	c.Frame = frame
	c.Material = material
	return &c
}

func (s *ParallaxShader) Vertex(v fauxgl.Vertex) fauxgl.Vertex {
	v.Output = s.Matrix.MulPositionW(v.Position)
	return v
}

func (s *ParallaxShader) Fragment(v fauxgl.Vertex) Color {
	eye := s.CameraPosition.Sub(v.Position).Normalize()
	view := s.Frame.ToTangent(eye)
	if view.Z < s.MinViewZ {
		view.Z = s.MinViewZ
	}

	uv := Point{v.Texture.X, v.Texture.Y}
	surface := Surface{UV: uv, Color: fauxgl.White, Normal: V(0, 0, 1)}
	if s.Material != nil {
		surface = s.Material.Surface(uv, view)
	}

	normal := s.Frame.ToWorld(surface.Normal).Normalize()
	light := s.AmbientColor
	diffuse := math.Max(normal.Dot(s.LightDirection), 0)
	light = light.Add(s.LightColor.MulScalar(diffuse))
	if diffuse > 0 && s.SpecularPower > 0 {
		half := s.LightDirection.Add(eye).Normalize()
		specular := math.Max(normal.Dot(half), 0)
		if specular > 0 {
			specular = math.Pow(specular, s.SpecularPower)
			light = light.Add(s.SpecularColor.MulScalar(specular))
		}
	}
	color := surface.Color
	return color.Mul(light).Min(fauxgl.White).Alpha(color.A)
}
