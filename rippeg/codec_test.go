package rippeg

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"math"
	"runtime"
	"testing"

	"github.com/edaniels/golog"
	"github.com/stretchr/testify/require"

	"github.com/mrjoshuak/go-rippeg/motion"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

// smooth is a low-frequency test card, the kind of content the quantizer
// preserves well. (dx, dy) shifts the pattern.
func smooth(w, h, dx, dy int, gray bool) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			fx, fy := float64(x+dx), float64(y+dy)
			v := 128 + 60*math.Sin(fx/5)*math.Cos(fy/7)
			c := color.RGBA{uint8(v), uint8(v), uint8(v), 0xff}
			if !gray {
				c.G = uint8(128 + 50*math.Cos(fx/9))
				c.B = uint8(100 + fy)
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func testOptions(t *testing.T) *Options {
	o := DefaultOptions()
	o.Logger = golog.NewTestLogger(t)
	return o
}

func maxChannelDiff(t *testing.T, a, b *image.RGBA) int {
	t.Helper()
	require.Equal(t, a.Bounds().Size(), b.Bounds().Size())
	worst := 0
	for i := range a.Pix {
		d := int(a.Pix[i]) - int(b.Pix[i])
		if d < 0 {
			d = -d
		}
		worst = max(worst, d)
	}
	return worst
}

func meanChannelDiff(a, b *image.RGBA) float64 {
	total := 0
	for i := range a.Pix {
		d := int(a.Pix[i]) - int(b.Pix[i])
		if d < 0 {
			d = -d
		}
		total += d
	}
	return float64(total) / float64(len(a.Pix))
}

func TestSolidGrayRoundTrip(t *testing.T) {
	src := solid(16, 16, color.RGBA{100, 100, 100, 0xff})

	s, err := Encode(src, testOptions(t))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteStream(&buf, s))
	read, err := ReadStream(buf.Bytes())
	require.NoError(t, err)

	out, err := Decode(read, testOptions(t))
	require.NoError(t, err)
	require.Equal(t, src.Bounds(), out.Bounds())
	require.LessOrEqual(t, maxChannelDiff(t, src, out), 4)
}

func TestRoundTripOddSizes(t *testing.T) {
	sizes := [][2]int{{1, 1}, {7, 3}, {17, 9}, {33, 20}, {40, 41}}

	for _, sz := range sizes {
		src := smooth(sz[0], sz[1], 0, 0, false)
		opts := testOptions(t)
		opts.Quality = 90

		s, preview, err := EncodeImage(src, opts)
		require.NoError(t, err, "size %v", sz)
		require.EqualValues(t, sz[0], s.Header.Width)
		require.EqualValues(t, sz[1], s.Header.Height)

		out, err := Decode(s, opts)
		require.NoError(t, err, "size %v", sz)
		require.Equal(t, preview.Pix, out.Pix, "preview differs from decoded image for size %v", sz)
		require.Less(t, meanChannelDiff(src, out), 8.0, "size %v", sz)
	}
}

func TestQualityAffectsSize(t *testing.T) {
	src := smooth(64, 64, 0, 0, false)

	lo := testOptions(t)
	lo.Quality = 10
	hi := testOptions(t)
	hi.Quality = 95

	small, err := Encode(src, lo)
	require.NoError(t, err)
	large, err := Encode(src, hi)
	require.NoError(t, err)

	require.Less(t, small.Len(), large.Len())
	require.Equal(t, uint8(10), small.Header.Quality)

	outLo, err := Decode(small, nil)
	require.NoError(t, err)
	outHi, err := Decode(large, nil)
	require.NoError(t, err)
	require.Less(t, meanChannelDiff(src, outHi), meanChannelDiff(src, outLo))
}

func TestEncodeParallelDeterminism(t *testing.T) {
	src := smooth(64, 48, 3, 5, false)

	seq := testOptions(t)
	seq.Workers = 1
	par := testOptions(t)
	par.Workers = 8

	a, err := Encode(src, seq)
	require.NoError(t, err)
	b, err := Encode(src, par)
	require.NoError(t, err)

	da, _ := a.MarshalBinary()
	db, _ := b.MarshalBinary()
	require.Equal(t, da, db)

	ia, err := Decode(a, seq)
	require.NoError(t, err)
	ib, err := Decode(b, par)
	require.NoError(t, err)
	require.Equal(t, ia.Pix, ib.Pix)
}

func TestEncodeRejectsEmptyImage(t *testing.T) {
	_, err := Encode(image.NewRGBA(image.Rect(0, 0, 0, 5)), nil)
	require.ErrorIs(t, err, ErrGeometry)

	var ge *GeometryError
	require.ErrorAs(t, err, &ge)
}

func TestEncodeContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := EncodeContext(ctx, smooth(32, 32, 0, 0, true), nil)
	require.ErrorIs(t, err, context.Canceled)

	s, err := Encode(smooth(32, 32, 0, 0, true), nil)
	require.NoError(t, err)
	_, err = DecodeContext(ctx, s, nil)
	require.ErrorIs(t, err, context.Canceled)
}

func TestDecodeCorruptSection(t *testing.T) {
	s, err := Encode(solid(16, 16, color.RGBA{10, 200, 30, 0xff}), nil)
	require.NoError(t, err)

	// One block short of the 4 luma blocks the header implies.
	bad := *s
	bad.Y = []byte{0xC1, 0x00, 0xC1, 0x00, 0xC1, 0x00}
	_, err = Decode(&bad, nil)
	require.ErrorIs(t, err, ErrFormat)

	bad = *s
	bad.Cb = []byte{0x05, 0x01}
	_, err = Decode(&bad, nil)
	require.ErrorIs(t, err, ErrFormat)

	bad = *s
	bad.Header.Quality = 0
	_, err = Decode(&bad, nil)
	require.ErrorIs(t, err, ErrFormat)
}

func TestDecodeTinyStreamLargeDimensions(t *testing.T) {
	s := &Stream{
		Header: Header{Height: math.MaxInt16, Width: math.MaxInt16, Quality: 50},
		Y:      []byte{0, 0},
		Cb:     []byte{0, 0},
		Cr:     []byte{0, 0},
	}
	data, err := s.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, data, HeaderSize+6)

	read, err := ReadStream(data)
	require.NoError(t, err)

	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	_, err = Decode(read, nil)
	runtime.ReadMemStats(&after)

	require.ErrorIs(t, err, ErrFormat)
	require.Less(t, after.TotalAlloc-before.TotalAlloc, uint64(16<<20),
		"decode allocated from header dimensions before checking sections")

	_, err = unpackSection("decode", "Y", read.Y, 1)
	require.ErrorIs(t, err, ErrFormat)
}

func FuzzDecode(f *testing.F) {
	s, err := Encode(smooth(16, 8, 1, 1, false), nil)
	if err != nil {
		f.Fatal(err)
	}
	f.Add(int16(8), int16(16), uint8(50), s.Y, s.Cb, s.Cr)
	f.Add(int16(math.MaxInt16), int16(math.MaxInt16), uint8(50), []byte{0, 0}, []byte{0, 0}, []byte{0, 0})
	f.Add(int16(1), int16(1), uint8(100), []byte{0xC1, 0}, []byte{0xC1, 0}, []byte{0xC1, 0})

	f.Fuzz(func(t *testing.T, height, width int16, quality uint8, y, cb, cr []byte) {
		s := &Stream{
			Header: Header{
				Height: height, Width: width, Quality: quality,
				YLen: int32(len(y)), CbLen: int32(len(cb)), CrLen: int32(len(cr)),
			},
			Y: y, Cb: cb, Cr: cr,
		}
		img, err := Decode(s, nil)
		if err != nil {
			if !errors.Is(err, ErrFormat) {
				t.Fatalf("Decode error kind: %v", err)
			}
			return
		}
		if b := img.Bounds(); b.Dx() != int(width) || b.Dy() != int(height) {
			t.Fatalf("decoded bounds %v for %dx%d header", b, width, height)
		}
	})
}

func TestOptionsResolve(t *testing.T) {
	var nilOpts *Options
	r := nilOpts.resolve()
	require.Equal(t, uint8(50), r.Quality)
	require.Equal(t, 8, r.Search.Radius)
	require.Equal(t, 1, r.Search.Step)
	require.NotNil(t, r.Logger)

	r = (&Options{Quality: 200, Search: motion.Config{Radius: 3}, Workers: 2}).resolve()
	require.Equal(t, uint8(100), r.Quality)
	require.Equal(t, 3, r.Search.Radius)
	require.Equal(t, 1, r.Search.Step)
	require.Equal(t, 2, r.Search.Workers)
}

func TestParallelConfig(t *testing.T) {
	orig := GetParallelConfig()
	defer SetParallelConfig(orig)

	SetParallelConfig(ParallelConfig{NumWorkers: 3, GrainSize: 2})
	require.Equal(t, ParallelConfig{NumWorkers: 3, GrainSize: 2}, GetParallelConfig())
	require.Equal(t, 0, DefaultParallelConfig().NumWorkers)

	// Still deterministic under the changed configuration.
	src := smooth(48, 48, 0, 0, false)
	a, err := Encode(src, nil)
	require.NoError(t, err)
	SetParallelConfig(ParallelConfig{NumWorkers: 1})
	b, err := Encode(src, nil)
	require.NoError(t, err)
	require.Equal(t, a, b)

	require.True(t, errors.Is(&FormatError{Op: "x", Msg: "y"}, ErrFormat))
}

func BenchmarkEncode(b *testing.B) {
	src := smooth(256, 256, 0, 0, false)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Encode(src, nil)
	}
}

func BenchmarkDecode(b *testing.B) {
	s, _ := Encode(smooth(256, 256, 0, 0, false), nil)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Decode(s, nil)
	}
}
