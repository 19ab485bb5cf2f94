// Package wire provides the little-endian primitives used by the rippeg
// container formats.
//
// Both .rippeg and .mrippeg streams are a fixed header of int16, uint8 and
// int32 fields followed by raw byte sections and int32 motion vector records.
// Cursor reads those fields from an in-memory stream with bounds checking on
// every access; Builder appends them to a buffer sized up front by the caller.
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
)

var (
	// ErrShortBuffer is returned when a read needs more bytes than remain.
	ErrShortBuffer = errors.New("wire: buffer too short")

	// ErrNegativeSize is returned when a section length is negative.
	ErrNegativeSize = errors.New("wire: negative size")
)

// ByteOrder is the byte order of every multi-byte field in a rippeg stream.
var ByteOrder = binary.LittleEndian

// Cursor reads little-endian fields from a byte slice.
type Cursor struct {
	data []byte
	pos  int
}

// NewCursor creates a Cursor positioned at the start of data.
func NewCursor(data []byte) *Cursor {
	return &Cursor{data: data}
}

// Len returns the number of unread bytes.
func (c *Cursor) Len() int {
	if c.pos >= len(c.data) {
		return 0
	}
	return len(c.data) - c.pos
}

// Pos returns the current read offset.
func (c *Cursor) Pos() int {
	return c.pos
}

// need reports a short read with the offset it happened at.
func (c *Cursor) need(n int) error {
	if n < 0 {
		return ErrNegativeSize
	}
	if n > c.Len() {
		return fmt.Errorf("need %d bytes at offset %d, have %d: %w", n, c.pos, c.Len(), ErrShortBuffer)
	}
	return nil
}

// Uint8 reads one unsigned byte.
func (c *Cursor) Uint8() (uint8, error) {
	if err := c.need(1); err != nil {
		return 0, err
	}
	v := c.data[c.pos]
	c.pos++
	return v, nil
}

// Int16 reads a signed 16-bit field.
func (c *Cursor) Int16() (int16, error) {
	if err := c.need(2); err != nil {
		return 0, err
	}
	v := ByteOrder.Uint16(c.data[c.pos:])
	c.pos += 2
	return int16(v), nil
}

// Int32 reads a signed 32-bit field.
func (c *Cursor) Int32() (int32, error) {
	if err := c.need(4); err != nil {
		return 0, err
	}
	v := ByteOrder.Uint32(c.data[c.pos:])
	c.pos += 4
	return int32(v), nil
}

// Section copies the next n bytes into a new slice. The length is checked
// against the remaining data before anything is allocated, so a corrupt
// header cannot trigger a huge allocation.
func (c *Cursor) Section(n int) ([]byte, error) {
	if err := c.need(n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, c.data[c.pos:c.pos+n])
	c.pos += n
	return out, nil
}

// Builder appends little-endian fields to a buffer.
type Builder struct {
	buf []byte
}

// NewBuilder creates a Builder with room for size bytes. Callers compute the
// full stream size from the header before writing.
func NewBuilder(size int) *Builder {
	return &Builder{buf: make([]byte, 0, size)}
}

// Len returns the number of bytes written.
func (b *Builder) Len() int {
	return len(b.buf)
}

// Bytes returns the written data. The slice aliases the builder's buffer.
func (b *Builder) Bytes() []byte {
	return b.buf
}

// Uint8 appends one unsigned byte.
func (b *Builder) Uint8(v uint8) {
	b.buf = append(b.buf, v)
}

// Int16 appends a signed 16-bit field.
func (b *Builder) Int16(v int16) {
	b.buf = ByteOrder.AppendUint16(b.buf, uint16(v))
}

// Int32 appends a signed 32-bit field.
func (b *Builder) Int32(v int32) {
	b.buf = ByteOrder.AppendUint32(b.buf, uint32(v))
}

// Section appends raw section bytes.
func (b *Builder) Section(p []byte) {
	b.buf = append(b.buf, p...)
}
