package wire

import (
	"bytes"
	"errors"
	"testing"
)

func TestCursorFields(t *testing.T) {
	data := []byte{
		0x34, 0x12, // int16: 0x1234
		0x07,                   // uint8
		0xFD, 0xFF, 0xFF, 0xFF, // int32: -3
		'a', 'b', 'c',
	}
	c := NewCursor(data)

	i16, err := c.Int16()
	if err != nil || i16 != 0x1234 {
		t.Fatalf("Int16() = 0x%04X, %v; want 0x1234", i16, err)
	}
	u8, err := c.Uint8()
	if err != nil || u8 != 7 {
		t.Fatalf("Uint8() = %d, %v; want 7", u8, err)
	}
	i32, err := c.Int32()
	if err != nil || i32 != -3 {
		t.Fatalf("Int32() = %d, %v; want -3", i32, err)
	}
	sec, err := c.Section(3)
	if err != nil || string(sec) != "abc" {
		t.Fatalf("Section(3) = %q, %v; want abc", sec, err)
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
	if c.Pos() != len(data) {
		t.Errorf("Pos() = %d, want %d", c.Pos(), len(data))
	}
}

func TestCursorShort(t *testing.T) {
	c := NewCursor([]byte{1, 2, 3})
	if _, err := c.Int32(); !errors.Is(err, ErrShortBuffer) {
		t.Errorf("Int32() on 3 bytes error = %v, want ErrShortBuffer", err)
	}
	// A failed read must not move the cursor.
	if c.Pos() != 0 {
		t.Errorf("Pos() after failed read = %d, want 0", c.Pos())
	}
	if _, err := c.Section(1000); !errors.Is(err, ErrShortBuffer) {
		t.Errorf("Section(1000) error = %v, want ErrShortBuffer", err)
	}
	if _, err := c.Section(-1); !errors.Is(err, ErrNegativeSize) {
		t.Errorf("Section(-1) error = %v, want ErrNegativeSize", err)
	}
}

func TestCursorSectionCopies(t *testing.T) {
	data := []byte{9, 9}
	c := NewCursor(data)
	sec, _ := c.Section(2)
	sec[0] = 0
	if data[0] != 9 {
		t.Error("Section must return a copy of the stream bytes")
	}
}

func TestBuilderRoundTrip(t *testing.T) {
	b := NewBuilder(16)
	b.Int16(-300)
	b.Uint8(200)
	b.Int32(-70000)
	b.Section([]byte{1, 2, 3})

	want := []byte{0xD4, 0xFE, 200, 0x90, 0xEE, 0xFE, 0xFF, 1, 2, 3}
	if !bytes.Equal(b.Bytes(), want) {
		t.Fatalf("Bytes() = %v, want %v", b.Bytes(), want)
	}
	if b.Len() != len(want) {
		t.Errorf("Len() = %d, want %d", b.Len(), len(want))
	}

	c := NewCursor(b.Bytes())
	i16, _ := c.Int16()
	u8, _ := c.Uint8()
	i32, _ := c.Int32()
	if i16 != -300 || u8 != 200 || i32 != -70000 {
		t.Errorf("round trip = %d %d %d", i16, u8, i32)
	}
}

func FuzzCursor(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff})
	f.Fuzz(func(t *testing.T, data []byte) {
		c := NewCursor(data)
		for c.Len() > 0 {
			before := c.Pos()
			if _, err := c.Int32(); err != nil {
				if c.Pos() != before {
					t.Fatal("cursor moved on failed read")
				}
				if _, err := c.Uint8(); err != nil {
					t.Fatalf("Uint8 with %d bytes left: %v", c.Len(), err)
				}
			}
		}
	})
}
