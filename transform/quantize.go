package transform

import "math"

// Quality bounds. Quality 50 uses the base tables unscaled.
const (
	MinQuality     = 1
	MaxQuality     = 100
	DefaultQuality = 50
)

// Coefficients is an 8x8 block of quantized DCT coefficients in row-major
// order.
type Coefficients [64]int16

// Table holds the 64 quantizer divisors of a block, row-major.
type Table [64]float64

// baseLumaTable is the JPEG Annex K luminance table.
var baseLumaTable = [64]int32{
	16, 11, 10, 16, 24, 40, 51, 61,
	12, 12, 14, 19, 26, 58, 60, 55,
	14, 13, 16, 24, 40, 57, 69, 56,
	14, 17, 22, 29, 51, 87, 80, 62,
	18, 22, 37, 56, 68, 109, 103, 77,
	24, 35, 55, 64, 81, 104, 113, 92,
	49, 64, 78, 87, 103, 121, 120, 101,
	72, 92, 95, 98, 112, 100, 103, 99,
}

// baseChromaTable is the JPEG Annex K chrominance table.
var baseChromaTable = [64]int32{
	17, 18, 24, 47, 99, 99, 99, 99,
	18, 21, 26, 66, 99, 99, 99, 99,
	24, 26, 56, 99, 99, 99, 99, 99,
	47, 66, 99, 99, 99, 99, 99, 99,
	99, 99, 99, 99, 99, 99, 99, 99,
	99, 99, 99, 99, 99, 99, 99, 99,
	99, 99, 99, 99, 99, 99, 99, 99,
	99, 99, 99, 99, 99, 99, 99, 99,
}

// LumaTable returns the luminance table scaled for quality (1..100).
// Out of range qualities are clamped.
func LumaTable(quality int) *Table {
	return scaleTable(&baseLumaTable, quality)
}

// ChromaTable returns the chrominance table scaled for quality (1..100).
func ChromaTable(quality int) *Table {
	return scaleTable(&baseChromaTable, quality)
}

// scaleTable applies the IJG quality curve: below 50 the divisors grow as
// 5000/q percent, above 50 they shrink as 200-2q percent.
func scaleTable(base *[64]int32, quality int) *Table {
	quality = max(MinQuality, min(MaxQuality, quality))

	var scale int32
	if quality < 50 {
		scale = int32(5000 / quality)
	} else {
		scale = int32(200 - quality*2)
	}

	t := new(Table)
	for i, b := range base {
		val := (b*scale + 50) / 100
		t[i] = float64(max(1, min(255, val)))
	}
	return t
}

// Quantize divides each coefficient by its divisor and rounds to the
// nearest integer, saturating at the int16 range.
func Quantize(coeffs *[64]float64, t *Table) Coefficients {
	var q Coefficients
	for i, c := range coeffs {
		v := math.Round(c / t[i])
		switch {
		case v > math.MaxInt16:
			q[i] = math.MaxInt16
		case v < math.MinInt16:
			q[i] = math.MinInt16
		default:
			q[i] = int16(v)
		}
	}
	return q
}

// Dequantize multiplies each quantized coefficient back by its divisor.
func Dequantize(q *Coefficients, t *Table) [64]float64 {
	var out [64]float64
	for i, v := range q {
		out[i] = float64(v) * t[i]
	}
	return out
}
