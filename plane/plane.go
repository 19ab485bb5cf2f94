// Package plane provides the sample grids the codec works on and the
// geometric stages that operate on them: padding, cropping, 4:2:0 chroma
// sampling and 8x8 block access.
//
// Every function returns a freshly allocated plane and treats its input as
// read-only. The only in-place operations are SetBlock methods, which write
// into a destination the caller owns.
package plane

// Plane is a row-major grid of 8-bit samples.
type Plane struct {
	Width  int
	Height int
	Pix    []uint8
}

// New allocates a zeroed plane.
func New(width, height int) *Plane {
	return &Plane{Width: width, Height: height, Pix: make([]uint8, width*height)}
}

// At returns the sample at (x, y). Coordinates are not checked.
func (p *Plane) At(x, y int) uint8 {
	return p.Pix[y*p.Width+x]
}

// Set stores the sample at (x, y).
func (p *Plane) Set(x, y int, v uint8) {
	p.Pix[y*p.Width+x] = v
}

// Clone returns a deep copy of p.
func (p *Plane) Clone() *Plane {
	c := New(p.Width, p.Height)
	copy(c.Pix, p.Pix)
	return c
}

// Float converts p to a FloatPlane.
func (p *Plane) Float() *FloatPlane {
	f := NewFloat(p.Width, p.Height)
	for i, v := range p.Pix {
		f.Pix[i] = float64(v)
	}
	return f
}

// FloatPlane is a row-major grid of float64 samples, used for residuals and
// other signed intermediate values.
type FloatPlane struct {
	Width  int
	Height int
	Pix    []float64
}

// NewFloat allocates a zeroed float plane.
func NewFloat(width, height int) *FloatPlane {
	return &FloatPlane{Width: width, Height: height, Pix: make([]float64, width*height)}
}

// At returns the sample at (x, y). Coordinates are not checked.
func (p *FloatPlane) At(x, y int) float64 {
	return p.Pix[y*p.Width+x]
}

// Set stores the sample at (x, y).
func (p *FloatPlane) Set(x, y int, v float64) {
	p.Pix[y*p.Width+x] = v
}

// Clone returns a deep copy of p.
func (p *FloatPlane) Clone() *FloatPlane {
	c := NewFloat(p.Width, p.Height)
	copy(c.Pix, p.Pix)
	return c
}

// IsZero reports whether every sample is exactly zero.
func (p *FloatPlane) IsZero() bool {
	for _, v := range p.Pix {
		if v != 0 {
			return false
		}
	}
	return true
}
