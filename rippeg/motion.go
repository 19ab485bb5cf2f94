package rippeg

import (
	"context"
	"image"
	"time"

	"github.com/mrjoshuak/go-rippeg/motion"
	"github.com/mrjoshuak/go-rippeg/plane"
	"github.com/mrjoshuak/go-rippeg/ycc"
)

// EncodeMotion compresses a two-frame sequence. ref becomes the I-frame;
// cur is coded as motion vectors plus a transform-coded difference frame.
// Each of Y, Cb and Cr is searched independently, chroma at half
// resolution.
func EncodeMotion(ref, cur image.Image, opts *Options) (*MotionStream, error) {
	return EncodeMotionContext(context.Background(), ref, cur, opts)
}

// EncodeMotionContext is EncodeMotion with cancellation checked between
// blocks.
func EncodeMotionContext(ctx context.Context, ref, cur image.Image, opts *Options) (*MotionStream, error) {
	o := opts.resolve()
	start := time.Now()

	rs, cs := ref.Bounds().Size(), cur.Bounds().Size()
	if rs != cs {
		return nil, &GeometryError{Op: "encode motion", X: cs.X, Y: cs.Y, Width: rs.X, Height: rs.Y}
	}
	g, refPlanes, err := splitFrame(ref)
	if err != nil {
		return nil, err
	}
	_, curPlanes, err := splitFrame(cur)
	if err != nil {
		return nil, err
	}

	iframe, err := encodeFrame(ctx, refPlanes, o.Quality, o.Workers)
	if err != nil {
		return nil, err
	}

	search := refPlanes
	if o.ClosedLoop {
		if search, err = decodeFrame(ctx, g, iframe, o.Quality, o.Workers); err != nil {
			return nil, err
		}
	}

	var (
		vectors [3][]motion.Vector
		diff    [3][]int16
	)
	tbl := tables(o.Quality)
	curs := [3]*plane.Plane{curPlanes.Y, curPlanes.Cb, curPlanes.Cr}
	refs := [3]*plane.Plane{search.Y, search.Cb, search.Cr}
	for i := range curs {
		f, err := motion.EstimatePlaneContext(ctx, curs[i], refs[i], o.Search)
		if err != nil {
			return nil, err
		}
		vectors[i] = f.Vectors
		if diff[i], err = encodeBlocks(ctx, f.Residual, tbl[i], false, o.Workers); err != nil {
			return nil, err
		}
	}

	sections, err := packSections(ctx, o.Workers, iframe[0], iframe[1], iframe[2], diff[0], diff[1], diff[2])
	if err != nil {
		return nil, err
	}

	s := &MotionStream{
		Y: sections[0], Cb: sections[1], Cr: sections[2],
		DiffY: sections[3], DiffCb: sections[4], DiffCr: sections[5],
		MVY: vectors[0], MVCb: vectors[1], MVCr: vectors[2],
	}
	s.Header = MHeader{
		Header: Header{
			Height:  int16(g.Height),
			Width:   int16(g.Width),
			Quality: o.Quality,
			YLen:    int32(len(s.Y)),
			CbLen:   int32(len(s.Cb)),
			CrLen:   int32(len(s.Cr)),
		},
		DiffYLen:  int32(len(s.DiffY)),
		DiffCbLen: int32(len(s.DiffCb)),
		DiffCrLen: int32(len(s.DiffCr)),
		MVYLen:    int32(len(s.MVY)),
		MVCbLen:   int32(len(s.MVCb)),
		MVCrLen:   int32(len(s.MVCr)),
	}

	o.Logger.Debugw("encoded motion frames",
		"geometry", g.String(),
		"quality", o.Quality,
		"radius", o.Search.Radius,
		"closedLoop", o.ClosedLoop,
		"bytes", s.Len(),
		"elapsed", time.Since(start))
	return s, nil
}

// MotionFrames is the decoded content of a motion stream.
type MotionFrames struct {
	// Reference is the decoded I-frame.
	Reference *image.RGBA
	// Current is the second frame rebuilt by motion compensation.
	Current *image.RGBA

	// DiffY, DiffCb and DiffCr are the decoded residual planes at the padded
	// luma and chroma extents.
	DiffY, DiffCb, DiffCr *plane.FloatPlane

	MVY, MVCb, MVCr []motion.Vector

	Geometry plane.Geometry
}

// Difference renders the residual as an image: zero difference is mid
// gray, chroma residuals tint it.
func (f *MotionFrames) Difference() (*image.RGBA, error) {
	cb, err := plane.UpsampleFloat(f.DiffCb, f.Geometry)
	if err != nil {
		return nil, err
	}
	cr, err := plane.UpsampleFloat(f.DiffCr, f.Geometry)
	if err != nil {
		return nil, err
	}
	y := f.DiffY.Clone()
	for _, p := range []*plane.FloatPlane{y, cb, cr} {
		for i := range p.Pix {
			p.Pix[i] += 128
		}
	}
	return ycc.ToImageFloat(y, cb, cr, f.Geometry.Width, f.Geometry.Height), nil
}

// DecodeMotion reconstructs both frames of s.
func DecodeMotion(s *MotionStream, opts *Options) (*MotionFrames, error) {
	return DecodeMotionContext(context.Background(), s, opts)
}

// DecodeMotionContext is DecodeMotion with cancellation checked between
// blocks.
func DecodeMotionContext(ctx context.Context, s *MotionStream, opts *Options) (*MotionFrames, error) {
	o := opts.resolve()
	start := time.Now()

	h := &s.Header
	if err := h.validate(); err != nil {
		return nil, err
	}
	g, err := h.Geometry()
	if err != nil {
		return nil, err
	}
	if err := checkVectorCounts(g, int32(len(s.MVY)), int32(len(s.MVCb)), int32(len(s.MVCr))); err != nil {
		return nil, err
	}

	iseqs, err := unpackFrame("decode motion", g, s.Y, s.Cb, s.Cr)
	if err != nil {
		return nil, err
	}
	dseqs, err := unpackFrame("decode motion", g, s.DiffY, s.DiffCb, s.DiffCr)
	if err != nil {
		return nil, err
	}

	ref, err := decodeFrame(ctx, g, iseqs, h.Quality, o.Workers)
	if err != nil {
		return nil, err
	}

	f := &MotionFrames{MVY: s.MVY, MVCb: s.MVCb, MVCr: s.MVCr, Geometry: g}
	tbl := tables(h.Quality)
	refs := [3]*plane.Plane{ref.Y, ref.Cb, ref.Cr}
	diffs := [3]**plane.FloatPlane{&f.DiffY, &f.DiffCb, &f.DiffCr}
	vectors := [3][]motion.Vector{s.MVY, s.MVCb, s.MVCr}
	var cur framePlanes
	outs := [3]**plane.Plane{&cur.Y, &cur.Cb, &cur.Cr}

	for i := range refs {
		res, err := decodeResidual(ctx, dseqs[i], refs[i].Width, refs[i].Height, tbl[i], o.Workers)
		if err != nil {
			return nil, err
		}
		*diffs[i] = res
		p, err := motion.Compensate(refs[i], res, vectors[i])
		if err != nil {
			return nil, &FormatError{Op: "decode motion", Msg: "motion vectors", Err: err}
		}
		*outs[i] = p
	}

	if f.Reference, err = ref.image(g); err != nil {
		return nil, err
	}
	if f.Current, err = cur.image(g); err != nil {
		return nil, err
	}

	o.Logger.Debugw("decoded motion frames",
		"geometry", g.String(),
		"quality", h.Quality,
		"elapsed", time.Since(start))
	return f, nil
}
