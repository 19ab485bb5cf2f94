package rippeg

import (
	"context"
	"image"
	"time"
)

// Encode compresses img into a single-frame stream.
func Encode(img image.Image, opts *Options) (*Stream, error) {
	s, _, err := encodeStill(context.Background(), img, opts, false)
	return s, err
}

// EncodeContext is Encode with cancellation checked between blocks.
func EncodeContext(ctx context.Context, img image.Image, opts *Options) (*Stream, error) {
	s, _, err := encodeStill(ctx, img, opts, false)
	return s, err
}

// EncodeImage compresses img and also returns the image a decoder will
// reconstruct from the stream.
func EncodeImage(img image.Image, opts *Options) (*Stream, *image.RGBA, error) {
	return encodeStill(context.Background(), img, opts, true)
}

func encodeStill(ctx context.Context, img image.Image, opts *Options, preview bool) (*Stream, *image.RGBA, error) {
	o := opts.resolve()
	start := time.Now()

	g, fp, err := splitFrame(img)
	if err != nil {
		return nil, nil, err
	}
	seqs, err := encodeFrame(ctx, fp, o.Quality, o.Workers)
	if err != nil {
		return nil, nil, err
	}
	sections, err := packSections(ctx, o.Workers, seqs[:]...)
	if err != nil {
		return nil, nil, err
	}

	s := &Stream{
		Header: Header{
			Height:  int16(g.Height),
			Width:   int16(g.Width),
			Quality: o.Quality,
			YLen:    int32(len(sections[0])),
			CbLen:   int32(len(sections[1])),
			CrLen:   int32(len(sections[2])),
		},
		Y:  sections[0],
		Cb: sections[1],
		Cr: sections[2],
	}
	o.Logger.Debugw("encoded frame",
		"geometry", g.String(),
		"quality", o.Quality,
		"bytes", s.Len(),
		"elapsed", time.Since(start))

	if !preview {
		return s, nil, nil
	}
	rec, err := decodeFrame(ctx, g, seqs, o.Quality, o.Workers)
	if err != nil {
		return nil, nil, err
	}
	out, err := rec.image(g)
	if err != nil {
		return nil, nil, err
	}
	return s, out, nil
}
