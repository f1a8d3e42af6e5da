package aeno

import (
	"image"
	"image/color"
	"math"
	"runtime"
	"sync"
)

// OffsetMap evaluates the parallax march at every texel centre of a
// width x height grid for one tangent-space view direction.
type OffsetMap struct {
	Width, Height int
	Hits          []Hit // row-major, row 0 at v = 1
}

// ComputeOffsetMap marches field in parallel, one band of rows per
// worker. workers <= 0 uses one worker per CPU.
func ComputeOffsetMap(field HeightField, p Parallax, view Vector, width, height, workers int) *OffsetMap {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	workers = min(workers, max(height, 1))

	m := &OffsetMap{Width: width, Height: height, Hits: make([]Hit, width*height)}
	rows := make(chan int, height)
	for y := 0; y < height; y++ {
		rows <- y
	}
	close(rows)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for y := range rows {
				v := 1 - (float64(y)+0.5)/float64(height)
				for x := 0; x < width; x++ {
					u := (float64(x) + 0.5) / float64(width)
					m.Hits[y*width+x] = p.March(field, Point{u, v}, view)
				}
			}
		}()
	}
	wg.Wait()
	return m
}

// At returns the hit for texel (x, y).
func (m *OffsetMap) At(x, y int) Hit {
	return m.Hits[y*m.Width+x]
}

// MaxOffset is the largest displacement in the map.
func (m *OffsetMap) MaxOffset() float64 {
	var best float64
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			best = math.Max(best, m.At(x, y).Offset(m.texel(x, y)).Length())
		}
	}
	return best
}

func (m *OffsetMap) texel(x, y int) Point {
	return Point{
		X: (float64(x) + 0.5) / float64(m.Width),
		Y: 1 - (float64(y)+0.5)/float64(m.Height),
	}
}

// Image encodes the displacement as colour: R and G hold du and dv
// around 128 scaled so that range maps to the full byte, B is 255 where
// the ray crossed the surface.
func (m *OffsetMap) Image(scale float64) *image.NRGBA {
	if scale <= 0 {
		scale = 1
	}
	im := image.NewNRGBA(image.Rect(0, 0, m.Width, m.Height))
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			hit := m.At(x, y)
			d := hit.Offset(m.texel(x, y))
			c := color.NRGBA{R: encodeOffset(d.X / scale), G: encodeOffset(d.Y / scale), A: 255}
			if hit.Crossed {
				c.B = 255
			}
			im.SetNRGBA(x, y, c)
		}
	}
	return im
}

func encodeOffset(d float64) uint8 {
	return uint8(math.Round(clampFloat(d*127+128, 0, 255)))
}
