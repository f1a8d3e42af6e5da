package aeno

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCamera = Camera{Eye: V(0, -1.1, 1.4), Center: V(0, 0, 0), Up: V(0, 1, 0), Fovy: 40, Near: 0.1, Far: 100}

func TestNewPanelCubeFacesPointOutwards(t *testing.T) {
	faces := NewPanelCube(NewMaterial("cube", HexColor("#ffffff")))
	require.Len(t, faces, 6)

	seen := map[Vector]bool{}
	for _, o := range faces {
		mesh, frame := o.World()
		centre := Vector{}
		n := 0
		for _, tri := range mesh.Triangles {
			for _, v := range []Vector{tri.V1.Position, tri.V2.Position, tri.V3.Position} {
				centre = centre.Add(v)
				n++
			}
		}
		centre = centre.DivScalar(float64(n))
		assert.InDelta(t, 0.5, centre.Length(), 1e-9)
		assert.InDelta(t, 1, frame.Normal.Dot(centre.Normalize()), 1e-9)
		seen[V(round(frame.Normal.X), round(frame.Normal.Y), round(frame.Normal.Z))] = true
	}
	assert.Len(t, seen, 6)
}

func round(x float64) float64 {
	if x > 0.5 {
		return 1
	}
	if x < -0.5 {
		return -1
	}
	return 0
}

func TestSceneRenderDrawsPanel(t *testing.T) {
	m := NewMaterial("perlin", HexColor("#d8c08a"))
	m.Height = NewPerlinHeightField(2, 2, 3, 7, 6)
	m.Parallax = Parallax{Layers: 8, HeightScale: 0.05}

	scene := NewScene(testCamera, 32, 2, V(-1, 1, 2), "#b0b0b0", "#808080")
	scene.AddObject(NewPanel(m))
	scene.AddObject(&Object{Material: m})
	im := scene.Render()

	require.Equal(t, 32, im.Bounds().Dx())
	require.Equal(t, 32, im.Bounds().Dy())
	_, _, _, a := im.At(16, 16).RGBA()
	assert.NotZero(t, a, "centre of the panel is covered")
	_, _, _, a = im.At(0, 0).RGBA()
	assert.Zero(t, a, "corner stays clear")
}

func TestGenerateSceneToWriterEncodesPNG(t *testing.T) {
	var buf bytes.Buffer
	objects := NewPanelCube(NewMaterial("cube", HexColor("#808080")))
	err := GenerateSceneToWriter(&buf, objects, Camera{Eye: V(1.6, 1.3, 2), Up: V(0, 1, 0), Fovy: 40, Near: 0.1, Far: 100}, 24, 1, V(-1, 1, 2), "#b0b0b0", "#808080")
	require.NoError(t, err)

	im, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 24, im.Bounds().Dx())
}
