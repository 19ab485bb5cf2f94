package rippeg

import (
	"context"
	"image"
	"time"

	"github.com/mrjoshuak/go-rippeg/plane"
)

// Decode reconstructs the image held in s. The header's quality and
// dimensions are used; opts only tunes parallelism and logging.
func Decode(s *Stream, opts *Options) (*image.RGBA, error) {
	return DecodeContext(context.Background(), s, opts)
}

// DecodeContext is Decode with cancellation checked between blocks.
func DecodeContext(ctx context.Context, s *Stream, opts *Options) (*image.RGBA, error) {
	o := opts.resolve()
	start := time.Now()

	if err := s.Header.validate(); err != nil {
		return nil, err
	}
	g, err := s.Header.Geometry()
	if err != nil {
		return nil, err
	}
	seqs, err := unpackFrame("decode", g, s.Y, s.Cb, s.Cr)
	if err != nil {
		return nil, err
	}
	fp, err := decodeFrame(ctx, g, seqs, s.Header.Quality, o.Workers)
	if err != nil {
		return nil, err
	}
	img, err := fp.image(g)
	if err != nil {
		return nil, err
	}

	o.Logger.Debugw("decoded frame",
		"geometry", g.String(),
		"quality", s.Header.Quality,
		"elapsed", time.Since(start))
	return img, nil
}

// unpackFrame expands the Y, Cb and Cr sections of one frame.
func unpackFrame(op string, g plane.Geometry, y, cb, cr []byte) ([3][]int16, error) {
	var seqs [3][]int16
	counts := blockCounts(g)
	names := [3]string{"Y", "Cb", "Cr"}
	for i, data := range [3][]byte{y, cb, cr} {
		var err error
		if seqs[i], err = unpackSection(op, names[i], data, counts[i]); err != nil {
			return seqs, err
		}
	}
	return seqs, nil
}
