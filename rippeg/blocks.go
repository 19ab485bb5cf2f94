package rippeg

import (
	"context"
	"image"

	"github.com/mrjoshuak/go-rippeg/compression"
	"github.com/mrjoshuak/go-rippeg/internal/parallel"
	"github.com/mrjoshuak/go-rippeg/plane"
	"github.com/mrjoshuak/go-rippeg/transform"
	"github.com/mrjoshuak/go-rippeg/ycc"
)

// coefficientsPerBlock is the length of one zigzag sequence.
const coefficientsPerBlock = 64

// framePlanes are the three planes of a frame as the block coder sees
// them: Y at the padded luma extent, Cb and Cr subsampled and padded to the
// chroma block grid.
type framePlanes struct {
	Y, Cb, Cr *plane.Plane
}

// tables returns the quantizer for each plane of framePlanes order.
func tables(quality uint8) [3]*transform.Table {
	l, c := transform.LumaTable(int(quality)), transform.ChromaTable(int(quality))
	return [3]*transform.Table{l, c, c}
}

// splitFrame converts img to YCbCr and lays the planes out on the block
// grid: pad, subsample chroma, pad chroma again.
func splitFrame(img image.Image) (plane.Geometry, framePlanes, error) {
	var fp framePlanes
	b := img.Bounds()
	g, err := plane.NewGeometry(b.Dx(), b.Dy())
	if err != nil {
		return g, fp, err
	}

	y, cb, cr := ycc.FromImage(img)
	if fp.Y, err = plane.PadToGeometry(y, g); err != nil {
		return g, fp, err
	}
	if fp.Cb, err = chromaPlane(cb, g); err != nil {
		return g, fp, err
	}
	if fp.Cr, err = chromaPlane(cr, g); err != nil {
		return g, fp, err
	}
	return g, fp, nil
}

func chromaPlane(p *plane.Plane, g plane.Geometry) (*plane.Plane, error) {
	padded, err := plane.PadToGeometry(p, g)
	if err != nil {
		return nil, err
	}
	return plane.PadToGeometry(plane.Subsample(padded), g.Chroma())
}

// image upsamples the chroma planes to the padded luma extent, crops every
// plane to the original extent and converts back to RGB.
func (fp framePlanes) image(g plane.Geometry) (*image.RGBA, error) {
	cb, err := plane.Upsample(fp.Cb, g)
	if err != nil {
		return nil, err
	}
	cr, err := plane.Upsample(fp.Cr, g)
	if err != nil {
		return nil, err
	}

	out := [3]*plane.Plane{fp.Y, cb, cr}
	for i, p := range out {
		if out[i], err = plane.Crop(p, g.Width, g.Height); err != nil {
			return nil, err
		}
	}
	return ycc.ToImage(out[0], out[1], out[2], g.Width, g.Height), nil
}

// blockReader is satisfied by *plane.Plane and *plane.FloatPlane.
type blockReader interface {
	Block(x, y int) (plane.Block, error)
	Blocks() int
	BlockOffset(i int) (x, y int)
}

// encodeBlocks runs DCT, quantization and zigzag over every block of src
// and returns the sequences concatenated in raster order. Pixel planes are
// level shifted first; residual planes are coded as they are.
func encodeBlocks(ctx context.Context, src blockReader, t *transform.Table, levelShift bool, workers int) ([]int16, error) {
	n := src.Blocks()
	out := make([]int16, n*coefficientsPerBlock)

	err := parallel.ForWithError(ctx, n, workers, func(i int) error {
		x, y := src.BlockOffset(i)
		b, err := src.Block(x, y)
		if err != nil {
			return err
		}
		in := (*[64]float64)(&b)
		if levelShift {
			shifted := transform.ShiftBlock(in)
			in = &shifted
		}
		s := transform.EncodeBlock(in, t)
		copy(out[i*coefficientsPerBlock:], s[:])
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// decodePixels rebuilds a width x height pixel plane from zigzag sequences.
func decodePixels(ctx context.Context, coeffs []int16, width, height int, t *transform.Table, workers int) (*plane.Plane, error) {
	p := plane.New(width, height)
	err := parallel.ForWithError(ctx, p.Blocks(), workers, func(i int) error {
		x, y := p.BlockOffset(i)
		px := transform.DecodePixelBlock((*[64]int16)(coeffs[i*coefficientsPerBlock:]), t)
		return p.SetBytes(x, y, &px)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// decodeResidual rebuilds a residual plane from zigzag sequences.
func decodeResidual(ctx context.Context, coeffs []int16, width, height int, t *transform.Table, workers int) (*plane.FloatPlane, error) {
	p := plane.NewFloat(width, height)
	err := parallel.ForWithError(ctx, p.Blocks(), workers, func(i int) error {
		x, y := p.BlockOffset(i)
		b := plane.Block(transform.DecodeBlock((*[64]int16)(coeffs[i*coefficientsPerBlock:]), t))
		return p.SetBlock(x, y, &b)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// encodeFrame codes the three planes of fp. The result is in framePlanes
// order.
func encodeFrame(ctx context.Context, fp framePlanes, quality uint8, workers int) ([3][]int16, error) {
	var seqs [3][]int16
	tbl := tables(quality)
	for i, p := range [3]*plane.Plane{fp.Y, fp.Cb, fp.Cr} {
		var err error
		if seqs[i], err = encodeBlocks(ctx, p, tbl[i], true, workers); err != nil {
			return seqs, err
		}
	}
	return seqs, nil
}

// decodeFrame inverts encodeFrame.
func decodeFrame(ctx context.Context, g plane.Geometry, seqs [3][]int16, quality uint8, workers int) (framePlanes, error) {
	var fp framePlanes
	tbl := tables(quality)
	c := g.Chroma()
	dims := [3][2]int{{g.PaddedWidth, g.PaddedHeight}, {c.PaddedWidth, c.PaddedHeight}, {c.PaddedWidth, c.PaddedHeight}}
	out := [3]**plane.Plane{&fp.Y, &fp.Cb, &fp.Cr}
	for i := range seqs {
		p, err := decodePixels(ctx, seqs[i], dims[i][0], dims[i][1], tbl[i], workers)
		if err != nil {
			return fp, err
		}
		*out[i] = p
	}
	return fp, nil
}

// packSections run-length codes each sequence.
func packSections(ctx context.Context, workers int, seqs ...[]int16) ([][]byte, error) {
	return parallel.Chunks(ctx, len(seqs), workers, func(i int) ([]byte, error) {
		return compression.RLEncode(seqs[i]), nil
	})
}

// unpackSection expands one run-length coded section, which must hold
// exactly blocks zigzag sequences. Sections too short to expand to that many
// coefficients are rejected before the coefficients are allocated.
func unpackSection(op, name string, data []byte, blocks int) ([]int16, error) {
	n := blocks * coefficientsPerBlock
	if n > compression.MaxDecodedLen(len(data)) {
		return nil, formatError(op, "%s section of %d bytes cannot hold %d coefficients", name, len(data), n)
	}
	coeffs := make([]int16, n)
	if err := compression.RLDecodeTo(data, coeffs); err != nil {
		return nil, &FormatError{Op: op, Msg: name + " section", Err: err}
	}
	return coeffs, nil
}

// blockCounts returns the block count of each plane in framePlanes order.
func blockCounts(g plane.Geometry) [3]int {
	c := g.Chroma().Blocks()
	return [3]int{g.Blocks(), c, c}
}
