package rippeg

import (
	"errors"

	"github.com/mrjoshuak/go-rippeg/internal/wire"
	"github.com/mrjoshuak/go-rippeg/plane"
	"github.com/mrjoshuak/go-rippeg/transform"
)

// Header sizes in bytes.
const (
	HeaderSize  = 2 + 2 + 1 + 3*4
	MHeaderSize = HeaderSize + 6*4
)

// Header starts a single-frame .rippeg stream.
//
//	int16 height, int16 width, uint8 quality
//	int32 yLen, cbLen, crLen
//
// The lengths are byte counts of the run-length coded Y, Cb and Cr sections
// that follow.
type Header struct {
	Height  int16
	Width   int16
	Quality uint8
	YLen    int32
	CbLen   int32
	CrLen   int32
}

// MarshalBinary encodes the header. It never fails.
func (h *Header) MarshalBinary() ([]byte, error) {
	b := wire.NewBuilder(HeaderSize)
	h.put(b)
	return b.Bytes(), nil
}

// UnmarshalBinary decodes and validates a header occupying all of data.
func (h *Header) UnmarshalBinary(data []byte) error {
	c := wire.NewCursor(data)
	got, err := ReadHeader(c)
	if err != nil {
		return err
	}
	if c.Len() != 0 {
		return formatError("header", "%d trailing bytes", c.Len())
	}
	*h = *got
	return nil
}

func (h *Header) put(b *wire.Builder) {
	b.Int16(h.Height)
	b.Int16(h.Width)
	b.Uint8(h.Quality)
	b.Int32(h.YLen)
	b.Int32(h.CbLen)
	b.Int32(h.CrLen)
}

// ReadHeader reads and validates a header at the cursor.
func ReadHeader(c *wire.Cursor) (*Header, error) {
	h := new(Header)
	if err := h.read(c); err != nil {
		return nil, err
	}
	if err := h.validate(); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *Header) read(c *wire.Cursor) error {
	var err error
	if h.Height, err = c.Int16(); err != nil {
		return headerError(err)
	}
	if h.Width, err = c.Int16(); err != nil {
		return headerError(err)
	}
	if h.Quality, err = c.Uint8(); err != nil {
		return headerError(err)
	}
	for _, f := range []*int32{&h.YLen, &h.CbLen, &h.CrLen} {
		if *f, err = c.Int32(); err != nil {
			return headerError(err)
		}
	}
	return nil
}

func (h *Header) validate() error {
	if h.Width <= 0 || h.Height <= 0 {
		return formatError("header", "invalid dimensions %dx%d", h.Width, h.Height)
	}
	if h.Quality < transform.MinQuality || h.Quality > transform.MaxQuality {
		return formatError("header", "quality %d outside %d..%d", h.Quality, transform.MinQuality, transform.MaxQuality)
	}
	return checkLengths("header", h.YLen, h.CbLen, h.CrLen)
}

// Geometry returns the frame geometry the header describes.
func (h *Header) Geometry() (plane.Geometry, error) {
	g, err := plane.NewGeometry(int(h.Width), int(h.Height))
	if err != nil {
		return g, &FormatError{Op: "header", Msg: "invalid dimensions", Err: err}
	}
	return g, nil
}

// PayloadLen returns the number of payload bytes the header declares.
func (h *Header) PayloadLen() int64 {
	return int64(h.YLen) + int64(h.CbLen) + int64(h.CrLen)
}

// MHeader starts a motion-compensated .mrippeg stream. It extends Header
// with the difference-frame section lengths and the motion vector counts.
//
//	int32 diffYLen, diffCbLen, diffCrLen
//	int32 mvYLen, mvCbLen, mvCrLen
//
// The MV fields count 16-byte vector records, not bytes.
type MHeader struct {
	Header
	DiffYLen  int32
	DiffCbLen int32
	DiffCrLen int32
	MVYLen    int32
	MVCbLen   int32
	MVCrLen   int32
}

// MarshalBinary encodes the header. It never fails.
func (h *MHeader) MarshalBinary() ([]byte, error) {
	b := wire.NewBuilder(MHeaderSize)
	h.put(b)
	return b.Bytes(), nil
}

// UnmarshalBinary decodes and validates a header occupying all of data.
func (h *MHeader) UnmarshalBinary(data []byte) error {
	c := wire.NewCursor(data)
	got, err := ReadMHeader(c)
	if err != nil {
		return err
	}
	if c.Len() != 0 {
		return formatError("header", "%d trailing bytes", c.Len())
	}
	*h = *got
	return nil
}

func (h *MHeader) put(b *wire.Builder) {
	h.Header.put(b)
	for _, v := range h.extra() {
		b.Int32(*v)
	}
}

func (h *MHeader) extra() []*int32 {
	return []*int32{&h.DiffYLen, &h.DiffCbLen, &h.DiffCrLen, &h.MVYLen, &h.MVCbLen, &h.MVCrLen}
}

// ReadMHeader reads and validates a motion header at the cursor.
func ReadMHeader(c *wire.Cursor) (*MHeader, error) {
	h := new(MHeader)
	if err := h.Header.read(c); err != nil {
		return nil, err
	}
	var err error
	for _, f := range h.extra() {
		if *f, err = c.Int32(); err != nil {
			return nil, headerError(err)
		}
	}
	if err := h.Header.validate(); err != nil {
		return nil, err
	}
	if err := checkLengths("header", h.DiffYLen, h.DiffCbLen, h.DiffCrLen); err != nil {
		return nil, err
	}
	if err := checkLengths("header", h.MVYLen, h.MVCbLen, h.MVCrLen); err != nil {
		return nil, err
	}
	return h, nil
}

// PayloadLen returns the number of payload bytes the header declares,
// including the motion vector records.
func (h *MHeader) PayloadLen() int64 {
	return h.Header.PayloadLen() +
		int64(h.DiffYLen) + int64(h.DiffCbLen) + int64(h.DiffCrLen) +
		vectorSize*(int64(h.MVYLen)+int64(h.MVCbLen)+int64(h.MVCrLen))
}

func checkLengths(op string, lens ...int32) error {
	for _, n := range lens {
		if n < 0 {
			return formatError(op, "negative section length %d", n)
		}
	}
	return nil
}

func headerError(err error) error {
	if errors.Is(err, wire.ErrShortBuffer) {
		return &FormatError{Op: "header", Msg: "truncated header", Err: err}
	}
	return &FormatError{Op: "header", Msg: "unreadable header", Err: err}
}
