package aeno

import (
	"math"

	"github.com/fogleman/fauxgl"
)

// Object struct for objects
// objects can be passed to the renderer to be rendererd
type Object struct {
	Mesh     *fauxgl.Mesh
	Frame    TangentFrame
	Material *Material
	Matrix   Matrix
}

// NewPanel returns a unit quad in the XY plane facing +Z with texture
// coordinates covering [0, 1].
func NewPanel(material *Material) *Object {
	p := [4]Vector{V(-0.5, -0.5, 0), V(0.5, -0.5, 0), V(0.5, 0.5, 0), V(-0.5, 0.5, 0)}
	t := [4]Vector{V(0, 0, 0), V(1, 0, 0), V(1, 1, 0), V(0, 1, 0)}
	frame := FrameForTriangle(p[0], p[1], p[2], t[0], t[1], t[2])

	vertex := func(i int) fauxgl.Vertex {
		return fauxgl.Vertex{Position: p[i], Normal: frame.Normal, Texture: t[i], Color: fauxgl.White}
	}
	mesh := fauxgl.NewTriangleMesh([]*fauxgl.Triangle{
		fauxgl.NewTriangle(vertex(0), vertex(1), vertex(2)),
		fauxgl.NewTriangle(vertex(0), vertex(2), vertex(3)),
	})
	return &Object{Mesh: mesh, Frame: frame, Material: material, Matrix: fauxgl.Identity()}
}

// NewPanelCube returns the six faces of a unit cube as panels.
func NewPanelCube(material *Material) []*Object {
	x, y := V(1, 0, 0), V(0, 1, 0)
	faces := []Matrix{
		fauxgl.Identity(),
		fauxgl.Rotate(y, math.Pi),
		fauxgl.Rotate(y, math.Pi/2),
		fauxgl.Rotate(y, -math.Pi/2),
		fauxgl.Rotate(x, -math.Pi/2),
		fauxgl.Rotate(x, math.Pi/2),
	}
	objects := make([]*Object, len(faces))
	for i, rotation := range faces {
		o := NewPanel(material)
		o.Matrix = rotation.Mul(fauxgl.Translate(V(0, 0, 0.5)))
		objects[i] = o
	}
	return objects
}

// Transform applies m after the object's current matrix.
func (o *Object) Transform(m Matrix) *Object {
	o.Matrix = m.Mul(o.Matrix)
	return o
}

// World returns a copy of the mesh and the frame carried through Matrix.
func (o *Object) World() (*fauxgl.Mesh, TangentFrame) {
	mesh := o.Mesh.Copy()
	mesh.Transform(o.Matrix)
	return mesh, o.Frame.Transform(o.Matrix)
}
