package aeno

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOffsetMapZeroReliefHasNoOffsets(t *testing.T) {
	m := ComputeOffsetMap(ramp, Parallax{Layers: 8, HeightScale: 0}, V(0.4, 0.3, 0.8), 16, 8, 3)
	require.Len(t, m.Hits, 16*8)
	assert.Zero(t, m.MaxOffset())

	im := m.Image(0)
	for y := 0; y < 8; y++ {
		for x := 0; x < 16; x++ {
			c := im.NRGBAAt(x, y)
			assert.Equal(t, uint8(128), c.R)
			assert.Equal(t, uint8(128), c.G)
			assert.Equal(t, uint8(255), c.A)
		}
	}
}

func TestOffsetMapMatchesSerialMarch(t *testing.T) {
	p := Parallax{Layers: 16, HeightScale: 0.1}
	field := NewPerlinHeightField(2, 2, 3, 3, 6)
	view := V(-0.3, 0.5, 0.7)

	parallel := ComputeOffsetMap(field, p, view, 24, 20, 7)
	serial := ComputeOffsetMap(field, p, view, 24, 20, 1)
	assert.Equal(t, serial.Hits, parallel.Hits)

	// texel centres run top to bottom
	assert.Greater(t, parallel.texel(0, 0).Y, parallel.texel(0, 19).Y)
	assert.Equal(t, p.March(field, parallel.texel(0, 0), view), parallel.At(0, 0))
	assert.Equal(t, p.March(field, parallel.texel(23, 19), view), parallel.At(23, 19))
}

func TestOffsetMapRecessedFieldUsesEveryLayer(t *testing.T) {
	p := Parallax{Layers: 4, HeightScale: 0.2}
	view := V(1, 0, 1)
	m := ComputeOffsetMap(ConstantHeightField(0), p, view, 4, 4, 0)

	// 4 steps of 0.05 against the view
	assert.InDelta(t, 0.2, m.MaxOffset(), 1e-9)
	im := m.Image(m.MaxOffset())
	c := im.NRGBAAt(1, 2)
	assert.Equal(t, uint8(1), c.R)
	assert.Equal(t, uint8(128), c.G)
	assert.Equal(t, uint8(0), c.B)
}

func TestOffsetMapMarksCrossings(t *testing.T) {
	m := ComputeOffsetMap(ConstantHeightField(0.5), Parallax{Layers: 8, HeightScale: 0.1}, V(0.2, 0.2, 0.9), 2, 2, 2)
	im := m.Image(1)
	for _, hit := range m.Hits {
		assert.True(t, hit.Crossed)
	}
	assert.Equal(t, uint8(255), im.NRGBAAt(0, 0).B)
}
