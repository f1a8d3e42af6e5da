package aeno

import (
	"fmt"

	"github.com/fogleman/fauxgl"
)

const (
	ver = "a.2"
)

// Vector, Color and Matrix are the fauxgl types the engine renders with.
type (
	Vector = fauxgl.Vector
	Color  = fauxgl.Color
	Matrix = fauxgl.Matrix
)

// V is shorthand for a Vector.
func V(x, y, z float64) Vector {
	return Vector{X: x, Y: y, Z: z}
}

// HexColor parses "#rrggbb", "rrggbb" or the short forms.
func HexColor(x string) Color {
	return fauxgl.HexColor(x)
}

// Banner returns the engine name and version.
func Banner() string {
	return fmt.Sprintf("Aeno %s relief", ver)
}
