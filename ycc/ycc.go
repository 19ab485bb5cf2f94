// Package ycc converts between RGB and full-range YCbCr (ITU-R BT.601, JFIF
// form) with Cb and Cr centred at 128.
//
//	Y  =       0.299    R + 0.587    G + 0.114    B
//	Cb = 128 - 0.168736 R - 0.331264 G + 0.5      B
//	Cr = 128 + 0.5      R - 0.418688 G - 0.081312 B
//
//	R = Y                        + 1.402    (Cr-128)
//	G = Y - 0.344136 (Cb-128)    - 0.714136 (Cr-128)
//	B = Y + 1.772    (Cb-128)
package ycc

import (
	"image"
	"image/draw"
	"math"

	"github.com/mrjoshuak/go-rippeg/plane"
)

// BT.601 luma weights.
const (
	kr = 0.299
	kg = 0.587
	kb = 0.114
)

// Chroma offset of the 8-bit representation.
const chromaOffset = 128

// Forward converts one RGB triple to YCbCr, rounded and clamped to [0,255].
func Forward(r, g, b uint8) (y, cb, cr uint8) {
	fy, fcb, fcr := ForwardFloat(float64(r), float64(g), float64(b))
	return clamp(fy), clamp(fcb), clamp(fcr)
}

// ForwardFloat is Forward without rounding or clamping.
func ForwardFloat(r, g, b float64) (y, cb, cr float64) {
	y = kr*r + kg*g + kb*b
	cb = chromaOffset - 0.168736*r - 0.331264*g + 0.5*b
	cr = chromaOffset + 0.5*r - 0.418688*g - 0.081312*b
	return y, cb, cr
}

// Inverse converts one 8-bit YCbCr triple back to RGB.
func Inverse(y, cb, cr uint8) (r, g, b uint8) {
	return InverseFloat(float64(y), float64(cb), float64(cr))
}

// InverseFloat converts real-valued YCbCr samples to clamped 8-bit RGB. It
// serves planes reconstructed from residuals, whose samples are not yet
// rounded.
func InverseFloat(y, cb, cr float64) (r, g, b uint8) {
	cb -= chromaOffset
	cr -= chromaOffset
	return clamp(y + 1.402*cr), clamp(y - 0.344136*cb - 0.714136*cr), clamp(y + 1.772*cb)
}

// FromImage splits img into Y, Cb and Cr planes of the image's size.
// Alpha is ignored.
func FromImage(img image.Image) (y, cb, cr *plane.Plane) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	y, cb, cr = plane.New(w, h), plane.New(w, h), plane.New(w, h)

	rgba, ok := img.(*image.RGBA)
	if !ok {
		rgba = image.NewRGBA(image.Rect(0, 0, w, h))
		draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	}

	for j := 0; j < h; j++ {
		row := rgba.Pix[rgba.PixOffset(rgba.Rect.Min.X, rgba.Rect.Min.Y+j):]
		off := j * w
		for i := 0; i < w; i++ {
			px := row[4*i : 4*i+3 : 4*i+3]
			y.Pix[off+i], cb.Pix[off+i], cr.Pix[off+i] = Forward(px[0], px[1], px[2])
		}
	}
	return y, cb, cr
}

// ToImage recombines full-resolution planes into a w x h opaque image,
// reading the top-left w x h region of each plane.
func ToImage(y, cb, cr *plane.Plane, w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for j := 0; j < h; j++ {
		row := img.Pix[j*img.Stride:]
		for i := 0; i < w; i++ {
			r, g, b := Inverse(y.At(i, j), cb.At(i, j), cr.At(i, j))
			row[4*i], row[4*i+1], row[4*i+2], row[4*i+3] = r, g, b, 0xff
		}
	}
	return img
}

// ToImageFloat is ToImage for float planes.
func ToImageFloat(y, cb, cr *plane.FloatPlane, w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for j := 0; j < h; j++ {
		row := img.Pix[j*img.Stride:]
		for i := 0; i < w; i++ {
			r, g, b := InverseFloat(y.At(i, j), cb.At(i, j), cr.At(i, j))
			row[4*i], row[4*i+1], row[4*i+2], row[4*i+3] = r, g, b, 0xff
		}
	}
	return img
}

func clamp(v float64) uint8 {
	v = math.Round(v)
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}
