// Package compression provides the lossless entropy stages of the rippeg
// codec and the optional archive framing for stored streams.
package compression

import (
	"errors"
)

// RLE errors
var (
	ErrRLECorrupted = errors.New("compression: corrupted RLE data")
	ErrRLEOverflow  = errors.New("compression: RLE decoded count mismatch")
)

// RLE constants
const (
	// rleMinRunLength is the shortest byte run emitted as a run token.
	rleMinRunLength = 3
	// rleMaxRunLength is the longest run or literal a single token covers.
	rleMaxRunLength = 127
	// rleMaxExpansion is the most bytes one run token decodes to
	// (count byte -128).
	rleMaxExpansion = 129
)

// RLEncode compresses a sequence of quantized coefficients.
//
// The coder has two layers. Each value is first mapped to an unsigned zigzag
// varint, so small magnitudes take one byte and zero is the byte 0x00:
//
//	0 -> 0x00, -1 -> 0x01, 1 -> 0x02, -2 -> 0x03, ...
//
// The varint bytes are then packed with a signed-count byte RLE:
//   - Negative count (-n): the next byte is repeated (n+1) times (run)
//   - Positive count (+n): the next (n+1) bytes are copied literally
//
// Runs shorter than three bytes are folded into literals. After zigzag
// reordering most of a quantized block is zero, so the trailing and interior
// zero runs collapse into two-byte tokens.
//
// For example:
//
//	[0, 0, 0, 0, 0, 3, -1] -> [-4, 0x00, 1, 0x06, 0x01]
//
// The output is at most 3 bytes per value plus one count byte per 128 literal
// bytes, which keeps it within twice the size of the int16 input.
func RLEncode(values []int16) []byte {
	if len(values) == 0 {
		return []byte{}
	}
	return packRuns(appendVarints(make([]byte, 0, len(values)), values))
}

// RLDecode expands data produced by RLEncode. The tokens are walked twice:
// once to count the values, then into a slice of exactly that length.
func RLDecode(src []byte) ([]int16, error) {
	counter := varintSink{countOnly: true}
	if err := unpackRuns(src, &counter); err != nil {
		return nil, err
	}
	dst := make([]int16, counter.n)
	if err := RLDecodeTo(src, dst); err != nil {
		return nil, err
	}
	return dst, nil
}

// RLDecodeTo expands data produced by RLEncode into dst, which must have
// exactly the decoded length. The decoder knows the coefficient count from
// the frame geometry, so a stream that decodes to any other count is corrupt.
// The contents of dst are undefined when an error is returned.
func RLDecodeTo(src []byte, dst []int16) error {
	sink := varintSink{dst: dst}
	if err := unpackRuns(src, &sink); err != nil {
		return err
	}
	if sink.n != len(dst) {
		return ErrRLEOverflow
	}
	return nil
}

// MaxDecodedLen returns the largest number of values n bytes of RLEncode
// output can expand to. A two-byte run token repeats one byte at most
// rleMaxExpansion times, and every value takes at least one byte.
func MaxDecodedLen(n int) int {
	return (n + 1) / 2 * rleMaxExpansion
}

// appendVarints appends the zigzag varint form of each value.
func appendVarints(dst []byte, values []int16) []byte {
	for _, v := range values {
		u := uint16(v<<1) ^ uint16(v>>15)
		for u >= 0x80 {
			dst = append(dst, byte(u)|0x80)
			u >>= 7
		}
		dst = append(dst, byte(u))
	}
	return dst
}

// varintSink decodes zigzag varints one byte at a time and writes the
// values into dst through an index cursor.
type varintSink struct {
	dst       []int16
	countOnly bool

	n     int
	u     uint32
	shift uint
}

func (s *varintSink) put(b byte) error {
	s.u |= uint32(b&0x7f) << s.shift
	if b >= 0x80 {
		s.shift += 7
		if s.shift > 14 {
			return ErrRLECorrupted
		}
		return nil
	}
	if s.u > 0xffff {
		return ErrRLECorrupted
	}
	if !s.countOnly {
		if s.n >= len(s.dst) {
			return ErrRLEOverflow
		}
		s.dst[s.n] = int16(uint16(s.u>>1)) ^ -int16(s.u&1)
	}
	s.n++
	s.u, s.shift = 0, 0
	return nil
}

// finish reports a varint cut off at the end of the stream.
func (s *varintSink) finish() error {
	if s.shift != 0 {
		return ErrRLECorrupted
	}
	return nil
}

// packRuns is the byte-level run-length pass.
func packRuns(src []byte) []byte {
	// Worst case: one count byte per 127 literal bytes
	dst := make([]byte, 0, len(src)+len(src)/rleMaxRunLength+1)

	i := 0
	for i < len(src) {
		// Look for a run of identical bytes
		val := src[i]
		runEnd := i + 1
		for runEnd < len(src) && src[runEnd] == val && runEnd-i < rleMaxRunLength {
			runEnd++
		}
		runLength := runEnd - i

		if runLength >= rleMinRunLength {
			dst = append(dst, byte(-(runLength - 1)), val)
			i = runEnd
			continue
		}

		literalStart := i
		for i < len(src) && i-literalStart < rleMaxRunLength {
			if i+rleMinRunLength <= len(src) && src[i+1] == src[i] && src[i+2] == src[i] {
				break
			}
			i++
		}

		dst = append(dst, byte(i-literalStart-1))
		dst = append(dst, src[literalStart:i]...)
	}

	return dst
}

// unpackRuns reverses packRuns, feeding every expanded byte to sink.
func unpackRuns(src []byte, sink *varintSink) error {
	i := 0
	for i < len(src) {
		count := int(int8(src[i]))
		i++

		if count < 0 {
			// Run: repeat the next byte (-count + 1) times
			if i >= len(src) {
				return ErrRLECorrupted
			}
			val := src[i]
			i++
			for n := -count + 1; n > 0; n-- {
				if err := sink.put(val); err != nil {
					return err
				}
			}
			continue
		}

		// Literal: copy the next (count + 1) bytes
		literalLength := count + 1
		if i+literalLength > len(src) {
			return ErrRLECorrupted
		}
		for _, b := range src[i : i+literalLength] {
			if err := sink.put(b); err != nil {
				return err
			}
		}
		i += literalLength
	}

	return sink.finish()
}
