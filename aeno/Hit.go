package aeno

// Hit describes where a view ray entered a height field.
type Hit struct {
	UV      Point   // corrected texture coordinate
	Depth   float64 // layer depth reached by the march
	Steps   int     // number of layers stepped
	Crossed bool    // false when the march ran out of layers above the surface
}

// Offset is the texture-space displacement from base to the hit.
func (h Hit) Offset(base Point) Point {
	return h.UV.Sub(base)
}
