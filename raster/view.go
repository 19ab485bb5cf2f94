package raster

import (
	"image"
	"image/draw"
	"math"

	"github.com/disintegration/gift"
	"github.com/nfnt/resize"

	"github.com/mrjoshuak/go-rippeg/plane"
)

// PlaneImage returns a grayscale view of a sample plane.
func PlaneImage(p *plane.Plane) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, p.Width, p.Height))
	for y := 0; y < p.Height; y++ {
		copy(img.Pix[y*img.Stride:y*img.Stride+p.Width], p.Pix[y*p.Width:(y+1)*p.Width])
	}
	return img
}

// ResidualImage renders a residual plane around mid gray, so zero maps to
// 128. contrast is a percentage in [-100, 100] applied afterwards; small
// residuals are invisible without it.
func ResidualImage(p *plane.FloatPlane, contrast float32) *image.Gray {
	src := image.NewGray(image.Rect(0, 0, p.Width, p.Height))
	for i, v := range p.Pix {
		src.Pix[i] = clampByte(v + 128)
	}
	if contrast == 0 {
		return src
	}

	g := gift.New(gift.Contrast(contrast))
	dst := image.NewGray(g.Bounds(src.Bounds()))
	g.Draw(dst, src)
	return dst
}

// Preview scales img down to fit within maxWidth x maxHeight, keeping the
// aspect ratio. Images that already fit are returned unchanged.
func Preview(img image.Image, maxWidth, maxHeight uint) image.Image {
	b := img.Bounds()
	if uint(b.Dx()) <= maxWidth && uint(b.Dy()) <= maxHeight {
		return img
	}
	return resize.Thumbnail(maxWidth, maxHeight, img, resize.Lanczos3)
}

// Grayscale converts img to a single luminance channel.
func Grayscale(img image.Image) *image.Gray {
	g := gift.New(gift.Grayscale())
	dst := image.NewGray(g.Bounds(img.Bounds()))
	g.Draw(dst, img)
	return dst
}

// RGBA returns img as an *image.RGBA whose bounds start at the origin.
func RGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) {
		return rgba
	}
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

func clampByte(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
