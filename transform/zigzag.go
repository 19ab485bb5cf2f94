package transform

// zigzag[i] is the row-major position of the i-th coefficient in scan order.
var zigzag = [64]int{
	0, 1, 8, 16, 9, 2, 3, 10,
	17, 24, 32, 25, 18, 11, 4, 5,
	12, 19, 26, 33, 40, 48, 41, 34,
	27, 20, 13, 6, 7, 14, 21, 28,
	35, 42, 49, 56, 57, 50, 43, 36,
	29, 22, 15, 23, 30, 37, 44, 51,
	58, 59, 52, 45, 38, 31, 39, 46,
	53, 60, 61, 54, 47, 55, 62, 63,
}

// ZigZag returns the coefficients of c in diagonal scan order, DC first.
func ZigZag(c *Coefficients) [64]int16 {
	var s [64]int16
	for i, pos := range zigzag {
		s[i] = c[pos]
	}
	return s
}

// UnZigZag places a scan-ordered sequence back into row-major positions.
func UnZigZag(s *[64]int16) Coefficients {
	var c Coefficients
	for i, pos := range zigzag {
		c[pos] = s[i]
	}
	return c
}
