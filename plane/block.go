package plane

import "math"

// Block is an 8x8 tile in row-major order.
type Block [64]float64

// Block copies the 8x8 tile whose top-left corner is (x, y).
func (p *Plane) Block(x, y int) (Block, error) {
	var b Block
	if err := checkBlock("block", x, y, p.Width, p.Height); err != nil {
		return b, err
	}
	for j := 0; j < BlockSize; j++ {
		row := p.Pix[(y+j)*p.Width+x:][:BlockSize]
		for i, v := range row {
			b[j*BlockSize+i] = float64(v)
		}
	}
	return b, nil
}

// SetBlock writes b into p at (x, y), rounding and clamping each sample to
// [0,255].
func (p *Plane) SetBlock(x, y int, b *Block) error {
	if err := checkBlock("set block", x, y, p.Width, p.Height); err != nil {
		return err
	}
	for j := 0; j < BlockSize; j++ {
		row := p.Pix[(y+j)*p.Width+x:][:BlockSize]
		for i := range row {
			row[i] = clampByte(b[j*BlockSize+i])
		}
	}
	return nil
}

// SetBytes writes 64 already-final samples into p at (x, y).
func (p *Plane) SetBytes(x, y int, b *[64]uint8) error {
	if err := checkBlock("set block", x, y, p.Width, p.Height); err != nil {
		return err
	}
	for j := 0; j < BlockSize; j++ {
		copy(p.Pix[(y+j)*p.Width+x:][:BlockSize], b[j*BlockSize:][:BlockSize])
	}
	return nil
}

// Blocks returns the number of whole 8x8 blocks in p.
func (p *Plane) Blocks() int {
	return (p.Width / BlockSize) * (p.Height / BlockSize)
}

// BlockOffset returns the top-left corner of block i in raster order
// (row-major, block by block).
func (p *Plane) BlockOffset(i int) (x, y int) {
	return blockOffset(i, p.Width)
}

// Block copies the 8x8 tile whose top-left corner is (x, y).
func (p *FloatPlane) Block(x, y int) (Block, error) {
	var b Block
	if err := checkBlock("block", x, y, p.Width, p.Height); err != nil {
		return b, err
	}
	for j := 0; j < BlockSize; j++ {
		copy(b[j*BlockSize:][:BlockSize], p.Pix[(y+j)*p.Width+x:])
	}
	return b, nil
}

// SetBlock writes b into p at (x, y) unchanged.
func (p *FloatPlane) SetBlock(x, y int, b *Block) error {
	if err := checkBlock("set block", x, y, p.Width, p.Height); err != nil {
		return err
	}
	for j := 0; j < BlockSize; j++ {
		copy(p.Pix[(y+j)*p.Width+x:][:BlockSize], b[j*BlockSize:][:BlockSize])
	}
	return nil
}

// Blocks returns the number of whole 8x8 blocks in p.
func (p *FloatPlane) Blocks() int {
	return (p.Width / BlockSize) * (p.Height / BlockSize)
}

// BlockOffset returns the top-left corner of block i in raster order.
func (p *FloatPlane) BlockOffset(i int) (x, y int) {
	return blockOffset(i, p.Width)
}

func blockOffset(i, width int) (x, y int) {
	perRow := width / BlockSize
	return (i % perRow) * BlockSize, (i / perRow) * BlockSize
}

func checkBlock(op string, x, y, w, h int) error {
	if x < 0 || y < 0 || x%BlockSize != 0 || y%BlockSize != 0 || x+BlockSize > w || y+BlockSize > h {
		return &GeometryError{Op: op, X: x, Y: y, Width: w, Height: h}
	}
	return nil
}

func clampByte(v float64) uint8 {
	v = math.Round(v)
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}
