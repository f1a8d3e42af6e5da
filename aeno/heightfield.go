package aeno

import (
	"fmt"
	"image"
	"io"
	"math"

	"github.com/aquilax/go-perlin"
	"github.com/disintegration/imaging"
)

// AddressMode selects how coordinates outside [0, 1] are resolved.
type AddressMode int

const (
	Wrap AddressMode = iota
	Clamp
)

// ConstantHeightField is a flat field.
type ConstantHeightField float64

func (c ConstantHeightField) Height(p Point, lod float64) float64 {
	return float64(c)
}

// InvertHeightField turns a depth map (0 = top) into a height field.
type InvertHeightField struct {
	Field HeightField
}

func (f InvertHeightField) Height(p Point, lod float64) float64 {
	return 1 - f.Field.Height(p, lod)
}

type heightLevel struct {
	width, height int
	pix           []float64
}

func (l *heightLevel) at(x, y int, mode AddressMode) float64 {
	switch mode {
	case Clamp:
		x = clampInt(x, 0, l.width-1)
		y = clampInt(y, 0, l.height-1)
	default:
		x = wrapInt(x, l.width)
		y = wrapInt(y, l.height)
	}
	return l.pix[y*l.width+x]
}

// bilinear samples between texel centres.
func (l *heightLevel) bilinear(u, v float64, mode AddressMode) float64 {
	x := u*float64(l.width) - 0.5
	y := v*float64(l.height) - 0.5
	x0 := int(math.Floor(x))
	y0 := int(math.Floor(y))
	fx := x - float64(x0)
	fy := y - float64(y0)
	h00 := l.at(x0, y0, mode)
	h10 := l.at(x0+1, y0, mode)
	h01 := l.at(x0, y0+1, mode)
	h11 := l.at(x0+1, y0+1, mode)
	top := h00 + (h10-h00)*fx
	bottom := h01 + (h11-h01)*fx
	return top + (bottom-top)*fy
}

// ImageHeightField samples a greyscale image with a box-filtered mip chain.
// It is immutable once built and safe for concurrent use.
type ImageHeightField struct {
	Address AddressMode
	levels  []heightLevel
}

// NewImageHeightField converts im to grey and builds its mip chain down to 1x1.
func NewImageHeightField(im image.Image) *ImageHeightField {
	gray := imaging.Grayscale(im)
	width, height := gray.Bounds().Dx(), gray.Bounds().Dy()
	f := &ImageHeightField{}
	if width == 0 || height == 0 {
		f.levels = []heightLevel{{width: 1, height: 1, pix: []float64{0}}}
		return f
	}
	level := gray
	for {
		f.levels = append(f.levels, newHeightLevel(level))
		if width == 1 && height == 1 {
			break
		}
		width = max(width/2, 1)
		height = max(height/2, 1)
		level = imaging.Resize(gray, width, height, imaging.Box)
	}
	return f
}

func newHeightLevel(im *image.NRGBA) heightLevel {
	b := im.Bounds()
	l := heightLevel{width: b.Dx(), height: b.Dy()}
	l.pix = make([]float64, l.width*l.height)
	for y := 0; y < l.height; y++ {
		row := im.Pix[y*im.Stride:]
		for x := 0; x < l.width; x++ {
			l.pix[y*l.width+x] = float64(row[x*4]) / 255
		}
	}
	return l
}

// Levels is the length of the mip chain.
func (f *ImageHeightField) Levels() int {
	return len(f.levels)
}

// Size is the resolution of level 0.
func (f *ImageHeightField) Size() (int, int) {
	return f.levels[0].width, f.levels[0].height
}

// Height samples the field bilinearly, blending mip levels for a
// fractional lod. V runs bottom to top like the texture sampler.
func (f *ImageHeightField) Height(p Point, lod float64) float64 {
	u := p.X
	v := 1 - p.Y
	if f.Address == Wrap {
		u -= math.Floor(u)
		v -= math.Floor(v)
	}
	if math.IsNaN(lod) || lod <= 0 {
		return f.levels[0].bilinear(u, v, f.Address)
	}
	last := float64(len(f.levels) - 1)
	if lod >= last {
		return f.levels[len(f.levels)-1].bilinear(u, v, f.Address)
	}
	i := int(lod)
	frac := lod - float64(i)
	h0 := f.levels[i].bilinear(u, v, f.Address)
	if frac == 0 {
		return h0
	}
	h1 := f.levels[i+1].bilinear(u, v, f.Address)
	return h0 + (h1-h0)*frac
}

// HeightFieldFromReader decodes a PNG or JPEG height map.
func HeightFieldFromReader(r io.Reader) (*ImageHeightField, error) {
	im, err := imaging.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode height map: %w", err)
	}
	return NewImageHeightField(im), nil
}

// LoadHeightField opens a height map from disk.
func LoadHeightField(path string) (*ImageHeightField, error) {
	im, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open height map %s: %w", path, err)
	}
	return NewImageHeightField(im), nil
}

// PerlinHeightField is a procedural field built from Perlin noise.
type PerlinHeightField struct {
	Frequency float64
	noise     *perlin.Perlin
}

// NewPerlinHeightField returns a field with the given noise parameters.
// alpha controls smoothing, beta the frequency step between octaves.
func NewPerlinHeightField(alpha, beta float64, octaves int32, seed int64, frequency float64) *PerlinHeightField {
	if frequency <= 0 {
		frequency = 1
	}
	return &PerlinHeightField{
		Frequency: frequency,
		noise:     perlin.NewPerlin(alpha, beta, octaves, seed),
	}
}

func (f *PerlinHeightField) Height(p Point, lod float64) float64 {
	n := f.noise.Noise2D(p.X*f.Frequency, p.Y*f.Frequency)
	return clampFloat((n+1)/2, 0, 1)
}

func clampInt(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func clampFloat(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

func wrapInt(x, n int) int {
	x %= n
	if x < 0 {
		x += n
	}
	return x
}
