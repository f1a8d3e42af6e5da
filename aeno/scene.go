package aeno

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"log"

	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
)

// Camera places the eye for a scene.
type Camera struct {
	Eye, Center, Up Vector
	Fovy            float64
	Near, Far       float64
}

// Matrix is the view-projection matrix for a square image.
func (c Camera) Matrix() Matrix {
	return fauxgl.LookAt(c.Eye, c.Center, c.Up).Perspective(c.Fovy, 1, c.Near, c.Far)
}

// Scene struct to store all data for a scene
type Scene struct {
	Objects []*Object
	Camera  Camera
	Light   Vector
	Ambient Color
	Diffuse Color
	size    int
	scale   int
}

// NewScene returns a new scene rendered at size pixels, supersampled by scale.
func NewScene(camera Camera, size, scale int, light Vector, ambient, diffuse string) *Scene {
	if scale < 1 {
		scale = 1
	}
	return &Scene{
		Camera:  camera,
		Light:   light.Normalize(),
		Ambient: HexColor(ambient),
		Diffuse: HexColor(diffuse),
		size:    size,
		scale:   scale,
	}
}

// AddObject adds an object to the scene
func (s *Scene) AddObject(o *Object) {
	s.Objects = append(s.Objects, o)
}

// AddObjects is a convenience method to add multiple objects
func (s *Scene) AddObjects(objects []*Object) {
	for _, o := range objects {
		s.AddObject(o)
	}
}

// Render draws every object with its own tangent frame and material and
// downsamples the result to the scene size.
func (s *Scene) Render() image.Image {
	context := fauxgl.NewContext(s.size*s.scale, s.size*s.scale)
	context.ClearColorBufferWith(fauxgl.Transparent)
	context.Cull = fauxgl.CullNone

	shader := NewParallaxShader(s.Camera.Matrix(), s.Light, s.Camera.Eye, nil, s.Ambient, s.Diffuse)
	for _, o := range s.Objects {
		if o.Mesh == nil {
			log.Printf("Object attempted to render with nil mesh")
			continue
		}
		mesh, frame := o.World()
		context.Shader = shader.WithObject(frame, o.Material)
		context.DrawMesh(mesh)
	}

	im := context.Image()
	if s.scale > 1 {
		im = resize.Resize(uint(s.size), uint(s.size), im, resize.Bilinear)
	}
	return im
}

// GenerateSceneToWriter renders objects and writes the PNG to w.
func GenerateSceneToWriter(w io.Writer, objects []*Object, camera Camera, size, scale int, light Vector, ambient, diffuse string) error {
	scene := NewScene(camera, size, scale, light, ambient, diffuse)
	scene.AddObjects(objects)
	if err := png.Encode(w, scene.Render()); err != nil {
		return fmt.Errorf("encode scene: %w", err)
	}
	return nil
}
