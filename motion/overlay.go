package motion

import (
	"image"
	"image/color"
	"image/draw"
)

// Overlay draws each vector onto img as a line from the centre of the
// current block to the centre of its match. Zero vectors become a single
// dot. Pixels outside img's bounds are skipped.
func Overlay(img draw.Image, vectors []Vector, c color.Color) {
	const half = blockSize / 2
	for _, v := range vectors {
		line(img, int(v.X)+half, int(v.Y)+half, int(v.U)+half, int(v.V)+half, c)
	}
}

// line rasterizes a segment with Bresenham's algorithm.
func line(img draw.Image, x0, y0, x1, y1 int, c color.Color) {
	bounds := img.Bounds()
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}

	err := dx + dy
	for {
		if (image.Point{x0, y0}).In(bounds) {
			img.Set(x0, y0, c)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
