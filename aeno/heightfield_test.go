package aeno

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func grayImage(w, h int, values ...uint8) *image.Gray {
	im := image.NewGray(image.Rect(0, 0, w, h))
	for i, v := range values {
		im.SetGray(i%w, i/w, color.Gray{Y: v})
	}
	return im
}

func TestImageHeightFieldSamplesTexelCentres(t *testing.T) {
	f := NewImageHeightField(grayImage(2, 1, 0, 255))

	assert.InDelta(t, 0, f.Height(Point{0.25, 0.5}, 0), 1e-9)
	assert.InDelta(t, 1, f.Height(Point{0.75, 0.5}, 0), 1e-9)
	assert.InDelta(t, 0.5, f.Height(Point{0.5, 0.5}, 0), 1e-9)
}

func TestImageHeightFieldAddressModes(t *testing.T) {
	f := NewImageHeightField(grayImage(2, 1, 0, 255))

	// u = 0 sits halfway between the last texel (wrapped) and the first
	assert.InDelta(t, 0.5, f.Height(Point{0, 0.5}, 0), 1e-9)
	assert.InDelta(t, 0, f.Height(Point{1.25, 0.5}, 0), 1e-9)
	assert.InDelta(t, 1, f.Height(Point{-0.25, 0.5}, 0), 1e-9)

	f.Address = Clamp
	assert.InDelta(t, 0, f.Height(Point{0, 0.5}, 0), 1e-9)
	assert.InDelta(t, 1, f.Height(Point{1.25, 0.5}, 0), 1e-9)
	assert.InDelta(t, 0, f.Height(Point{-3, 0.5}, 0), 1e-9)
}

func TestImageHeightFieldFlipsV(t *testing.T) {
	// row 0 is the top of the image
	f := NewImageHeightField(grayImage(1, 2, 255, 0))
	assert.InDelta(t, 1, f.Height(Point{0.5, 0.75}, 0), 1e-9)
	assert.InDelta(t, 0, f.Height(Point{0.5, 0.25}, 0), 1e-9)
}

func TestImageHeightFieldMipChain(t *testing.T) {
	f := NewImageHeightField(grayImage(4, 2, 0, 0, 255, 255, 0, 0, 255, 255))
	require.Equal(t, 3, f.Levels())
	w, h := f.Size()
	assert.Equal(t, 4, w)
	assert.Equal(t, 2, h)

	p := Point{0.125, 0.5}
	assert.InDelta(t, 0, f.Height(p, 0), 1e-9)
	assert.InDelta(t, 0.5, f.Height(p, 2), 0.01)
	assert.InDelta(t, 0.5, f.Height(p, 99), 0.01)
	assert.InDelta(t, f.Height(p, 0), f.Height(p, -1), 1e-12)

	half := f.Height(p, 1.5)
	assert.InDelta(t, (f.Height(p, 1)+f.Height(p, 2))/2, half, 1e-9)
}

func TestImageHeightFieldFromReader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, grayImage(2, 2, 255, 255, 255, 255)))

	f, err := HeightFieldFromReader(&buf)
	require.NoError(t, err)
	assert.InDelta(t, 1, f.Height(Point{0.3, 0.9}, 0), 1e-9)

	_, err = HeightFieldFromReader(bytes.NewReader([]byte("not an image")))
	assert.Error(t, err)
}

func TestInvertHeightField(t *testing.T) {
	f := InvertHeightField{Field: ConstantHeightField(0.25)}
	assert.Equal(t, 0.75, f.Height(Point{}, 0))
}

func TestPerlinHeightFieldRange(t *testing.T) {
	f := NewPerlinHeightField(2, 2, 3, 9, 8)
	for i := 0; i < 50; i++ {
		for j := 0; j < 50; j++ {
			h := f.Height(Point{float64(i) / 50, float64(j) / 50}, 0)
			assert.GreaterOrEqual(t, h, 0.0)
			assert.LessOrEqual(t, h, 1.0)
		}
	}
	// same seed, same field
	g := NewPerlinHeightField(2, 2, 3, 9, 8)
	assert.Equal(t, f.Height(Point{0.31, 0.77}, 0), g.Height(Point{0.31, 0.77}, 0))
}
