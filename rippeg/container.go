package rippeg

import (
	"io"
	"math"

	"github.com/mrjoshuak/go-rippeg/internal/wire"
	"github.com/mrjoshuak/go-rippeg/motion"
	"github.com/mrjoshuak/go-rippeg/plane"
)

// vectorSize is the size of one motion vector record: 4 x int32.
const vectorSize = 16

// Stream is a decoded-from-disk (or ready-to-write) single-frame stream:
// the header plus the three run-length coded plane sections.
type Stream struct {
	Header Header
	Y      []byte
	Cb     []byte
	Cr     []byte
}

// Len returns the encoded size of the stream in bytes.
func (s *Stream) Len() int {
	return HeaderSize + len(s.Y) + len(s.Cb) + len(s.Cr)
}

// MarshalBinary encodes the stream. Header lengths are taken from the
// sections; the header's other fields are written as they are.
func (s *Stream) MarshalBinary() ([]byte, error) {
	h := s.Header
	var err error
	if h.YLen, h.CbLen, h.CrLen, err = sectionLens(s.Y, s.Cb, s.Cr); err != nil {
		return nil, err
	}

	b := wire.NewBuilder(s.Len())
	h.put(b)
	b.Section(s.Y)
	b.Section(s.Cb)
	b.Section(s.Cr)
	return b.Bytes(), nil
}

// WriteStream writes s to w in .rippeg layout.
func WriteStream(w io.Writer, s *Stream) error {
	data, err := s.MarshalBinary()
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return ioError("write stream", err)
	}
	return nil
}

// ReadStream parses a complete .rippeg stream. The header is read first and
// every declared section is checked against the remaining bytes before any
// payload is copied. Trailing bytes are an error.
func ReadStream(data []byte) (*Stream, error) {
	c := wire.NewCursor(data)
	h, err := ReadHeader(c)
	if err != nil {
		return nil, err
	}
	if err := checkPayload("read stream", h.PayloadLen(), c.Len()); err != nil {
		return nil, err
	}

	s := &Stream{Header: *h}
	if s.Y, s.Cb, s.Cr, err = readSections(c, h.YLen, h.CbLen, h.CrLen); err != nil {
		return nil, err
	}
	return s, nil
}

// MotionStream is a two-frame .mrippeg stream: the I-frame sections, the
// difference-frame sections and the per-plane motion vectors.
type MotionStream struct {
	Header MHeader

	Y, Cb, Cr             []byte
	DiffY, DiffCb, DiffCr []byte
	MVY, MVCb, MVCr       []motion.Vector
}

// Len returns the encoded size of the stream in bytes.
func (s *MotionStream) Len() int {
	return MHeaderSize +
		len(s.Y) + len(s.Cb) + len(s.Cr) +
		len(s.DiffY) + len(s.DiffCb) + len(s.DiffCr) +
		vectorSize*(len(s.MVY)+len(s.MVCb)+len(s.MVCr))
}

// MarshalBinary encodes the stream. Section lengths and vector counts are
// taken from the slices.
func (s *MotionStream) MarshalBinary() ([]byte, error) {
	h := s.Header
	var err error
	if h.YLen, h.CbLen, h.CrLen, err = sectionLens(s.Y, s.Cb, s.Cr); err != nil {
		return nil, err
	}
	if h.DiffYLen, h.DiffCbLen, h.DiffCrLen, err = sectionLens(s.DiffY, s.DiffCb, s.DiffCr); err != nil {
		return nil, err
	}
	h.MVYLen, h.MVCbLen, h.MVCrLen = int32(len(s.MVY)), int32(len(s.MVCb)), int32(len(s.MVCr))

	b := wire.NewBuilder(s.Len())
	h.put(b)
	for _, sec := range [][]byte{s.Y, s.Cb, s.Cr, s.DiffY, s.DiffCb, s.DiffCr} {
		b.Section(sec)
	}
	for _, vs := range [][]motion.Vector{s.MVY, s.MVCb, s.MVCr} {
		for _, v := range vs {
			b.Int32(v.X)
			b.Int32(v.Y)
			b.Int32(v.U)
			b.Int32(v.V)
		}
	}
	return b.Bytes(), nil
}

// WriteMotionStream writes s to w in .mrippeg layout.
func WriteMotionStream(w io.Writer, s *MotionStream) error {
	data, err := s.MarshalBinary()
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return ioError("write motion stream", err)
	}
	return nil
}

// ReadMotionStream parses a complete .mrippeg stream. Besides the section
// checks of ReadStream, the vector counts must equal the block counts of the
// luma and chroma planes the header's dimensions imply.
func ReadMotionStream(data []byte) (*MotionStream, error) {
	c := wire.NewCursor(data)
	h, err := ReadMHeader(c)
	if err != nil {
		return nil, err
	}
	if err := checkPayload("read motion stream", h.PayloadLen(), c.Len()); err != nil {
		return nil, err
	}
	g, err := h.Geometry()
	if err != nil {
		return nil, err
	}
	if err := checkVectorCounts(g, h.MVYLen, h.MVCbLen, h.MVCrLen); err != nil {
		return nil, err
	}

	s := &MotionStream{Header: *h}
	if s.Y, s.Cb, s.Cr, err = readSections(c, h.YLen, h.CbLen, h.CrLen); err != nil {
		return nil, err
	}
	if s.DiffY, s.DiffCb, s.DiffCr, err = readSections(c, h.DiffYLen, h.DiffCbLen, h.DiffCrLen); err != nil {
		return nil, err
	}
	if s.MVY, err = readVectors(c, h.MVYLen); err != nil {
		return nil, err
	}
	if s.MVCb, err = readVectors(c, h.MVCbLen); err != nil {
		return nil, err
	}
	if s.MVCr, err = readVectors(c, h.MVCrLen); err != nil {
		return nil, err
	}
	return s, nil
}

func checkPayload(op string, declared int64, remaining int) error {
	switch {
	case declared > int64(remaining):
		return formatError(op, "header declares %d payload bytes, stream has %d", declared, remaining)
	case declared < int64(remaining):
		return formatError(op, "%d trailing bytes after payload", int64(remaining)-declared)
	}
	return nil
}

func checkVectorCounts(g plane.Geometry, y, cb, cr int32) error {
	luma, chroma := g.Blocks(), g.Chroma().Blocks()
	if int(y) != luma || int(cb) != chroma || int(cr) != chroma {
		return formatError("read motion stream", "vector counts %d/%d/%d, want %d/%d/%d", y, cb, cr, luma, chroma, chroma)
	}
	return nil
}

func readSections(c *wire.Cursor, lens ...int32) (y, cb, cr []byte, err error) {
	out := make([][]byte, 3)
	for i, n := range lens {
		if out[i], err = c.Section(int(n)); err != nil {
			return nil, nil, nil, &FormatError{Op: "read section", Msg: "truncated section", Err: err}
		}
	}
	return out[0], out[1], out[2], nil
}

func readVectors(c *wire.Cursor, n int32) ([]motion.Vector, error) {
	vs := make([]motion.Vector, n)
	for i := range vs {
		var f [4]int32
		for k := range f {
			v, err := c.Int32()
			if err != nil {
				return nil, &FormatError{Op: "read vectors", Msg: "truncated vector records", Err: err}
			}
			f[k] = v
		}
		vs[i] = motion.Vector{X: f[0], Y: f[1], U: f[2], V: f[3]}
	}
	return vs, nil
}

func sectionLens(y, cb, cr []byte) (int32, int32, int32, error) {
	for _, s := range [][]byte{y, cb, cr} {
		if len(s) > math.MaxInt32 {
			return 0, 0, 0, formatError("write stream", "section of %d bytes exceeds int32", len(s))
		}
	}
	return int32(len(y)), int32(len(cb)), int32(len(cr)), nil
}
