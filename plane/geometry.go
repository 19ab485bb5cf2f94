package plane

import (
	"fmt"
	"math"
)

// BlockSize is the edge length of the block grid.
const BlockSize = 8

// Geometry records a frame's original extent and its block-aligned padded
// extent.
//
// Invariants: PaddedWidth%8 == 0, PaddedHeight%8 == 0,
// PaddedWidth >= Width, PaddedHeight >= Height.
type Geometry struct {
	Width        int
	Height       int
	PaddedWidth  int
	PaddedHeight int
}

// NewGeometry returns the geometry of a width x height frame. Dimensions
// must be positive and fit the int16 header fields.
func NewGeometry(width, height int) (Geometry, error) {
	if width <= 0 || height <= 0 || width > math.MaxInt16 || height > math.MaxInt16 {
		return Geometry{}, &GeometryError{Op: "geometry", Width: width, Height: height}
	}
	return Geometry{
		Width:        width,
		Height:       height,
		PaddedWidth:  AlignUp(width),
		PaddedHeight: AlignUp(height),
	}, nil
}

// Chroma returns the geometry of the subsampled chroma planes. Their
// original extent is half the padded luma extent (rounded up), padded again
// so chroma blocks are whole 8x8 tiles.
func (g Geometry) Chroma() Geometry {
	w := (g.PaddedWidth + 1) / 2
	h := (g.PaddedHeight + 1) / 2
	return Geometry{Width: w, Height: h, PaddedWidth: AlignUp(w), PaddedHeight: AlignUp(h)}
}

// Blocks returns the number of 8x8 blocks in the padded extent.
func (g Geometry) Blocks() int {
	return (g.PaddedWidth / BlockSize) * (g.PaddedHeight / BlockSize)
}

// Samples returns the number of samples in the padded extent.
func (g Geometry) Samples() int {
	return g.PaddedWidth * g.PaddedHeight
}

func (g Geometry) String() string {
	return fmt.Sprintf("%dx%d (padded %dx%d)", g.Width, g.Height, g.PaddedWidth, g.PaddedHeight)
}

// AlignUp rounds n up to the next multiple of BlockSize.
func AlignUp(n int) int {
	return (n + BlockSize - 1) &^ (BlockSize - 1)
}
