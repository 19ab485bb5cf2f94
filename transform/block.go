package transform

// EncodeBlock runs the forward coefficient chain on a block that has already
// been level shifted (or is a residual): DCT, quantization, zigzag scan.
func EncodeBlock(b *[64]float64, t *Table) [64]int16 {
	coeffs := Forward(b)
	q := Quantize(&coeffs, t)
	return ZigZag(&q)
}

// DecodeBlock reverses EncodeBlock up to the spatial domain. The result is
// still level shifted; pixel callers add LevelShift (see InverseBytes).
func DecodeBlock(s *[64]int16, t *Table) [64]float64 {
	q := UnZigZag(s)
	coeffs := Dequantize(&q, t)
	return Inverse(&coeffs)
}

// DecodePixelBlock reverses EncodeBlock for a level-shifted pixel block and
// returns rounded, clamped 8-bit samples.
func DecodePixelBlock(s *[64]int16, t *Table) [64]uint8 {
	q := UnZigZag(s)
	coeffs := Dequantize(&q, t)
	return InverseBytes(&coeffs)
}
