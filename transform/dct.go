// Package transform implements the per-block coefficient stages of the
// codec: the 8x8 DCT, scalar quantization and zigzag reordering.
//
// Blocks are row-major [64] arrays; index = row*8 + col.
package transform

import "math"

// BlockSize is the edge length of a transform block.
const BlockSize = 8

// LevelShift is subtracted from 8-bit pixel samples before the forward DCT
// so that the DC term of a mid-gray block is zero.
const LevelShift = 128

// dctCoeff is the orthonormal DCT-II basis:
// dctCoeff[k][n] = c(k) * cos((2n+1) * k * pi / 16)
// with c(0) = 1/sqrt(8) and c(k) = sqrt(2/8) otherwise.
var dctCoeff [BlockSize][BlockSize]float64

func init() {
	sqrt8 := math.Sqrt(8)
	sqrt2_8 := math.Sqrt(2.0 / 8.0)
	for k := 0; k < BlockSize; k++ {
		for n := 0; n < BlockSize; n++ {
			c := math.Cos(float64(2*n+1) * float64(k) * math.Pi / 16.0)
			if k == 0 {
				dctCoeff[k][n] = c / sqrt8
			} else {
				dctCoeff[k][n] = c * sqrt2_8
			}
		}
	}
}

// Forward returns the 2D DCT-II of b. The transform is separable: rows
// first, then columns.
func Forward(b *[64]float64) [64]float64 {
	var work, out [64]float64

	for row := 0; row < BlockSize; row++ {
		base := row * BlockSize
		for k := 0; k < BlockSize; k++ {
			ck := &dctCoeff[k]
			var sum float64
			for n := 0; n < BlockSize; n++ {
				sum += b[base+n] * ck[n]
			}
			work[base+k] = sum
		}
	}

	for col := 0; col < BlockSize; col++ {
		for k := 0; k < BlockSize; k++ {
			ck := &dctCoeff[k]
			var sum float64
			for n := 0; n < BlockSize; n++ {
				sum += work[n*BlockSize+col] * ck[n]
			}
			out[k*BlockSize+col] = sum
		}
	}

	return out
}

// Inverse returns the 2D DCT-III of b, the exact inverse of Forward.
func Inverse(b *[64]float64) [64]float64 {
	var work, out [64]float64

	// Columns first, mirroring Forward.
	for col := 0; col < BlockSize; col++ {
		for n := 0; n < BlockSize; n++ {
			var sum float64
			for k := 0; k < BlockSize; k++ {
				sum += b[k*BlockSize+col] * dctCoeff[k][n]
			}
			work[n*BlockSize+col] = sum
		}
	}

	for row := 0; row < BlockSize; row++ {
		base := row * BlockSize
		for n := 0; n < BlockSize; n++ {
			var sum float64
			for k := 0; k < BlockSize; k++ {
				sum += work[base+k] * dctCoeff[k][n]
			}
			out[base+n] = sum
		}
	}

	return out
}

// InverseBytes inverts a level-shifted pixel block: the inverse DCT,
// +LevelShift, rounded and clamped to [0,255].
func InverseBytes(b *[64]float64) [64]uint8 {
	spatial := Inverse(b)
	var out [64]uint8
	for i, v := range spatial {
		out[i] = ClampByte(v + LevelShift)
	}
	return out
}

// ShiftBlock subtracts LevelShift from every sample of a pixel block.
func ShiftBlock(b *[64]float64) [64]float64 {
	var out [64]float64
	for i, v := range b {
		out[i] = v - LevelShift
	}
	return out
}

// ClampByte rounds v to the nearest integer and clamps it to [0,255].
func ClampByte(v float64) uint8 {
	v = math.Round(v)
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}
