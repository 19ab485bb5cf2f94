package rippeg

import (
	"github.com/edaniels/golog"
	"go.uber.org/zap"

	"github.com/mrjoshuak/go-rippeg/motion"
	"github.com/mrjoshuak/go-rippeg/transform"
)

// Options configures encoding and decoding. A nil *Options means
// DefaultOptions().
type Options struct {
	// Quality scales the quantization tables, 1 (smallest) to 100 (best).
	// 0 selects transform.DefaultQuality; larger values are clamped to 100.
	// Decoding always uses the quality stored in the stream.
	Quality uint8

	// Search configures motion estimation. A zero Step selects
	// motion.DefaultConfig().
	Search motion.Config

	// Workers bounds block-level parallelism. 0 uses the package
	// ParallelConfig.
	Workers int

	// ClosedLoop makes the motion encoder search against, and take
	// residuals from, the decoded I-frame instead of the source frame, so
	// encoder and decoder predict from the same reference.
	ClosedLoop bool

	// Logger receives debug timings. nil disables logging.
	Logger golog.Logger
}

// DefaultOptions returns quality 50, an 8-sample exhaustive search and
// open-loop residuals.
func DefaultOptions() *Options {
	return &Options{
		Quality: transform.DefaultQuality,
		Search:  motion.DefaultConfig(),
	}
}

// resolve returns a filled-in copy of o.
func (o *Options) resolve() Options {
	var r Options
	if o == nil {
		r = *DefaultOptions()
	} else {
		r = *o
	}
	switch {
	case r.Quality == 0:
		r.Quality = transform.DefaultQuality
	case r.Quality > transform.MaxQuality:
		r.Quality = transform.MaxQuality
	}
	if r.Search.Step == 0 {
		radius := r.Search.Radius
		r.Search = motion.DefaultConfig()
		if radius > 0 {
			r.Search.Radius = radius
		}
	}
	if r.Search.Workers == 0 {
		r.Search.Workers = r.Workers
	}
	if r.Logger == nil {
		r.Logger = zap.NewNop().Sugar()
	}
	return r
}
