// Package motion implements block-matching motion estimation and
// compensation over 8x8 blocks.
//
// For every block of the current plane the estimator searches a square
// window of the reference plane for the candidate with the smallest mean
// absolute difference (MAD). The zero displacement is scored first and a
// candidate only replaces the incumbent on a strictly smaller MAD, so ties
// resolve to the earliest candidate and identical planes always produce
// zero vectors.
package motion

import (
	"context"
	"errors"
	"fmt"

	"github.com/mrjoshuak/go-rippeg/internal/parallel"
	"github.com/mrjoshuak/go-rippeg/plane"
)

const blockSize = plane.BlockSize

// ErrConfig is returned for a negative radius or a non-positive step.
var ErrConfig = errors.New("motion: invalid search configuration")

// Config controls the search window.
type Config struct {
	// Radius is the largest displacement searched along each axis.
	// 0 disables the search and yields zero motion.
	Radius int

	// Step is the candidate spacing within the window.
	Step int

	// Workers bounds block-level parallelism. 0 uses the package default.
	Workers int
}

// DefaultConfig returns an 8-sample radius searched exhaustively.
func DefaultConfig() Config {
	return Config{Radius: 8, Step: 1}
}

// Validate reports whether c describes a usable search.
func (c Config) Validate() error {
	if c.Radius < 0 || c.Step < 1 {
		return fmt.Errorf("%w: radius %d, step %d", ErrConfig, c.Radius, c.Step)
	}
	return nil
}

// Vector is one block's motion: (X, Y) is the block in the current frame,
// (U, V) the matching block in the reference frame.
type Vector struct {
	X, Y int32
	U, V int32
}

// Displacement returns (U-X, V-Y).
func (v Vector) Displacement() (dx, dy int) {
	return int(v.U - v.X), int(v.V - v.Y)
}

// Match is the outcome of searching for one block.
type Match struct {
	Vector
	// MinDiff is the MAD of the winning candidate.
	MinDiff float64
	// Residual is current minus the matched reference block.
	Residual plane.Block
}

// Estimate searches ref for the best match of cur's block at (x, y).
func Estimate(cur, ref *plane.Plane, x, y int, cfg Config) (Match, error) {
	if err := cfg.Validate(); err != nil {
		return Match{}, err
	}
	if err := sameSize(cur, ref); err != nil {
		return Match{}, err
	}
	blk, err := cur.Block(x, y)
	if err != nil {
		return Match{}, err
	}

	bestU, bestV := x, y
	bestSAD := sad(&blk, ref, x, y)

	for v := y - cfg.Radius; v <= y+cfg.Radius && bestSAD > 0; v += cfg.Step {
		if v < 0 || v+blockSize > ref.Height {
			continue
		}
		for u := x - cfg.Radius; u <= x+cfg.Radius; u += cfg.Step {
			if u < 0 || u+blockSize > ref.Width || (u == x && v == y) {
				continue
			}
			if s := sad(&blk, ref, u, v); s < bestSAD {
				bestU, bestV, bestSAD = u, v, s
			}
		}
	}

	m := Match{
		Vector:  Vector{X: int32(x), Y: int32(y), U: int32(bestU), V: int32(bestV)},
		MinDiff: float64(bestSAD) / (blockSize * blockSize),
	}
	for j := 0; j < blockSize; j++ {
		row := ref.Pix[(bestV+j)*ref.Width+bestU:][:blockSize]
		for i, r := range row {
			m.Residual[j*blockSize+i] = blk[j*blockSize+i] - float64(r)
		}
	}
	return m, nil
}

// sad is the sum of absolute differences between blk and the 8x8 region of
// ref at (u, v). MAD is sad/64; comparing sums keeps ties exact.
func sad(blk *plane.Block, ref *plane.Plane, u, v int) int {
	total := 0
	for j := 0; j < blockSize; j++ {
		row := ref.Pix[(v+j)*ref.Width+u:][:blockSize]
		for i, r := range row {
			d := int(blk[j*blockSize+i]) - int(r)
			if d < 0 {
				d = -d
			}
			total += d
		}
	}
	return total
}

// Field holds the motion of every block of a plane in raster order.
type Field struct {
	Vectors  []Vector
	MinDiffs []float64
	// Residual is the difference plane, same size as the inputs.
	Residual *plane.FloatPlane
}

// EstimatePlane runs Estimate for every block of cur. Blocks are searched
// in parallel; the result is identical to a sequential run.
func EstimatePlane(cur, ref *plane.Plane, cfg Config) (*Field, error) {
	return EstimatePlaneContext(context.Background(), cur, ref, cfg)
}

// EstimatePlaneContext is EstimatePlane with cancellation checked between
// blocks.
func EstimatePlaneContext(ctx context.Context, cur, ref *plane.Plane, cfg Config) (*Field, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := sameSize(cur, ref); err != nil {
		return nil, err
	}
	if cur.Width%blockSize != 0 || cur.Height%blockSize != 0 {
		return nil, &plane.GeometryError{Op: "estimate", X: cur.Width, Y: cur.Height, Width: cur.Width, Height: cur.Height}
	}

	n := cur.Blocks()
	f := &Field{
		Vectors:  make([]Vector, n),
		MinDiffs: make([]float64, n),
		Residual: plane.NewFloat(cur.Width, cur.Height),
	}

	err := parallel.ForWithError(ctx, n, cfg.Workers, func(i int) error {
		x, y := cur.BlockOffset(i)
		m, err := Estimate(cur, ref, x, y, cfg)
		if err != nil {
			return err
		}
		f.Vectors[i] = m.Vector
		f.MinDiffs[i] = m.MinDiff
		return f.Residual.SetBlock(x, y, &m.Residual)
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Compensate rebuilds the current plane from ref, the residual and the
// motion vectors: out[x+i, y+j] = clamp(ref[u+i, v+j] + residual[x+i, y+j]).
func Compensate(ref *plane.Plane, residual *plane.FloatPlane, vectors []Vector) (*plane.Plane, error) {
	if residual.Width != ref.Width || residual.Height != ref.Height {
		return nil, &plane.GeometryError{Op: "compensate", X: residual.Width, Y: residual.Height, Width: ref.Width, Height: ref.Height}
	}
	if len(vectors) != residual.Blocks() {
		return nil, fmt.Errorf("motion: %d vectors for %d blocks", len(vectors), residual.Blocks())
	}

	out := plane.New(ref.Width, ref.Height)
	for i, mv := range vectors {
		x, y := residual.BlockOffset(i)
		u, v := int(mv.U), int(mv.V)
		if int(mv.X) != x || int(mv.Y) != y {
			return nil, &plane.GeometryError{Op: "compensate", X: int(mv.X), Y: int(mv.Y), Width: ref.Width, Height: ref.Height}
		}
		if u < 0 || v < 0 || u+blockSize > ref.Width || v+blockSize > ref.Height {
			return nil, &plane.GeometryError{Op: "compensate", X: u, Y: v, Width: ref.Width, Height: ref.Height}
		}

		var b plane.Block
		for j := 0; j < blockSize; j++ {
			refRow := ref.Pix[(v+j)*ref.Width+u:][:blockSize]
			resRow := residual.Pix[(y+j)*residual.Width+x:][:blockSize]
			for k := range refRow {
				b[j*blockSize+k] = float64(refRow[k]) + resRow[k]
			}
		}
		if err := out.SetBlock(x, y, &b); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func sameSize(cur, ref *plane.Plane) error {
	if cur.Width != ref.Width || cur.Height != ref.Height {
		return &plane.GeometryError{Op: "estimate", X: cur.Width, Y: cur.Height, Width: ref.Width, Height: ref.Height}
	}
	return nil
}
