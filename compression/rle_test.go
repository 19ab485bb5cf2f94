package compression

import (
	"errors"
	"math"
	"slices"
	"testing"
)

func TestRLEncodeEmpty(t *testing.T) {
	enc := RLEncode(nil)
	if len(enc) != 0 {
		t.Errorf("RLEncode(nil) = %v, want empty", enc)
	}

	dec, err := RLDecode(enc)
	if err != nil {
		t.Fatalf("RLDecode(empty) error: %v", err)
	}
	if len(dec) != 0 {
		t.Errorf("RLDecode(empty) = %v, want empty", dec)
	}
}

func TestRLEncodeKnown(t *testing.T) {
	tests := []struct {
		name string
		in   []int16
		want []byte
	}{
		{"single zero", []int16{0}, []byte{0, 0x00}},
		{"zigzag mapping", []int16{0, -1, 1, -2}, []byte{3, 0x00, 0x01, 0x02, 0x03}},
		{"zero run", []int16{0, 0, 0, 0, 0, 3, -1}, []byte{0xFC, 0x00, 1, 0x06, 0x01}},
		{"two byte varint", []int16{64}, []byte{1, 0x80, 0x01}},
	}

	for _, tt := range tests {
		got := RLEncode(tt.in)
		if !slices.Equal(got, tt.want) {
			t.Errorf("%s: RLEncode(%v) = %v, want %v", tt.name, tt.in, got, tt.want)
		}
	}
}

func TestRLERoundTrip(t *testing.T) {
	tests := [][]int16{
		{1},
		{1, 2},
		{1, 2, 3, 4, 5},
		{7, 7, 7, 7, 7, 7, 7, 7},
		{-3, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 12},
		{math.MinInt16, math.MaxInt16, -1, 0, 1},
		{200, 200, 200, -200, -200, -200},
	}

	// A typical quantized block: DC, a few AC terms, trailing zeros
	block := make([]int16, 64)
	block[0], block[1], block[2], block[5] = -26, -3, 2, 1
	tests = append(tests, block)

	// Long run crossing the 127 token limit
	tests = append(tests, make([]int16, 1000))

	for i, original := range tests {
		enc := RLEncode(original)
		dec, err := RLDecode(enc)
		if err != nil {
			t.Errorf("test %d: decode error: %v", i, err)
			continue
		}
		if !slices.Equal(dec, original) {
			t.Errorf("test %d: round-trip failed:\ngot  %v\nwant %v", i, dec, original)
		}
	}
}

func TestRLENoRuns(t *testing.T) {
	// Strictly increasing values never produce a run token
	data := make([]int16, 500)
	for i := range data {
		data[i] = int16(i*37 - 9000)
	}

	enc := RLEncode(data)
	dec, err := RLDecode(enc)
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if !slices.Equal(dec, data) {
		t.Error("round-trip failed for sequence without runs")
	}
}

func TestRLESizeBound(t *testing.T) {
	inputs := map[string][]int16{
		"extremes":    make([]int16, 513),
		"alternating": make([]int16, 300),
		"small":       make([]int16, 129),
	}
	for i := range inputs["extremes"] {
		if i%2 == 0 {
			inputs["extremes"][i] = math.MinInt16
		} else {
			inputs["extremes"][i] = math.MaxInt16 - int16(i)
		}
	}
	for i := range inputs["alternating"] {
		inputs["alternating"][i] = int16(i%2*2 - 1)
	}
	for i := range inputs["small"] {
		inputs["small"][i] = int16(i%50 - 25)
	}

	for name, in := range inputs {
		enc := RLEncode(in)
		if limit := 2 * 2 * len(in); len(enc) > limit {
			t.Errorf("%s: encoded %d values into %d bytes, limit %d", name, len(in), len(enc), limit)
		}
	}
}

func TestRLDecodeTo(t *testing.T) {
	original := []int16{5, 0, 0, 0, 0, -5}
	enc := RLEncode(original)

	dst := make([]int16, len(original))
	if err := RLDecodeTo(enc, dst); err != nil {
		t.Fatalf("RLDecodeTo error: %v", err)
	}
	if !slices.Equal(dst, original) {
		t.Errorf("RLDecodeTo = %v, want %v", dst, original)
	}

	if err := RLDecodeTo(enc, make([]int16, len(original)+1)); !errors.Is(err, ErrRLEOverflow) {
		t.Errorf("RLDecodeTo with long dst error = %v, want ErrRLEOverflow", err)
	}
	if err := RLDecodeTo(enc, make([]int16, len(original)-1)); !errors.Is(err, ErrRLEOverflow) {
		t.Errorf("RLDecodeTo with short dst error = %v, want ErrRLEOverflow", err)
	}
}

func TestRLDecodeCorrupted(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"run missing value", []byte{0xFC}},
		{"literal truncated", []byte{5, 1, 2}},
		{"unterminated varint", []byte{0, 0x80}},
		{"varint too long", []byte{3, 0xFF, 0xFF, 0xFF, 0x01}},
		{"varint out of range", []byte{2, 0xFF, 0xFF, 0x04}},
	}

	for _, tt := range tests {
		_, err := RLDecode(tt.data)
		if !errors.Is(err, ErrRLECorrupted) {
			t.Errorf("%s: error = %v, want ErrRLECorrupted", tt.name, err)
		}
	}
}

func TestMaxDecodedLen(t *testing.T) {
	worst := []byte{0x80, 0x00}
	got, err := RLDecode(worst)
	if err != nil {
		t.Fatalf("RLDecode error: %v", err)
	}
	if len(got) != MaxDecodedLen(len(worst)) {
		t.Errorf("longest run token decoded to %d values, bound %d", len(got), MaxDecodedLen(len(worst)))
	}

	runs := make([]int16, 5000)
	mixed := make([]int16, 700)
	for i := range mixed {
		mixed[i] = int16(i % 7 * (i % 3))
	}
	for _, in := range [][]int16{runs, mixed, {1}, {}} {
		enc := RLEncode(in)
		if len(in) > MaxDecodedLen(len(enc)) {
			t.Errorf("%d values encoded into %d bytes exceed bound %d", len(in), len(enc), MaxDecodedLen(len(enc)))
		}
	}

	if err := RLDecodeTo(worst, make([]int16, 64)); !errors.Is(err, ErrRLEOverflow) {
		t.Errorf("RLDecodeTo into short dst error = %v, want ErrRLEOverflow", err)
	}
}

func BenchmarkRLEncode(b *testing.B) {
	data := make([]int16, 64*1024)
	for i := range data {
		if i%64 < 6 {
			data[i] = int16(i%13 - 6)
		}
	}
	b.SetBytes(int64(len(data) * 2))
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		RLEncode(data)
	}
}

func BenchmarkRLDecode(b *testing.B) {
	data := make([]int16, 64*1024)
	for i := range data {
		if i%64 < 6 {
			data[i] = int16(i%13 - 6)
		}
	}
	enc := RLEncode(data)
	dst := make([]int16, len(data))
	b.SetBytes(int64(len(data) * 2))
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		RLDecodeTo(enc, dst)
	}
}
