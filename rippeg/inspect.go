package rippeg

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mrjoshuak/go-rippeg/compression"
	"github.com/mrjoshuak/go-rippeg/plane"
)

// Kind identifies a stream format.
type Kind int

const (
	KindStill  Kind = iota // .rippeg
	KindMotion             // .mrippeg
)

func (k Kind) String() string {
	switch k {
	case KindStill:
		return "rippeg"
	case KindMotion:
		return "mrippeg"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// KindFromPath picks the stream format from a file name, looking through
// any archive suffix.
func KindFromPath(path string) (Kind, error) {
	switch strings.ToLower(filepath.Ext(compression.TrimArchiveSuffix(path))) {
	case Ext:
		return KindStill, nil
	case MotionExt:
		return KindMotion, nil
	}
	return 0, fmt.Errorf("rippeg: %s: unknown stream extension", path)
}

// Info summarizes a stream without decoding its planes.
type Info struct {
	Kind     Kind
	Geometry plane.Geometry
	Quality  uint8

	// Sections maps section names (Y, Cb, Cr, DiffY, ...) to byte sizes.
	Sections map[string]int

	// Vectors maps plane names to motion vector counts. Nil for still
	// streams.
	Vectors map[string]int

	// Size is the total stream size and Raw the size of the uncompressed
	// RGB frames it holds.
	Size int
	Raw  int
}

// Ratio returns the compression ratio Raw/Size.
func (i *Info) Ratio() float64 {
	if i.Size == 0 {
		return 0
	}
	return float64(i.Raw) / float64(i.Size)
}

// Inspect parses and validates data as a stream of the given kind.
func Inspect(data []byte, kind Kind) (*Info, error) {
	switch kind {
	case KindStill:
		s, err := ReadStream(data)
		if err != nil {
			return nil, err
		}
		info, err := newInfo(kind, &s.Header, len(data), 1)
		if err != nil {
			return nil, err
		}
		info.Sections = map[string]int{"Y": len(s.Y), "Cb": len(s.Cb), "Cr": len(s.Cr)}
		return info, nil
	case KindMotion:
		s, err := ReadMotionStream(data)
		if err != nil {
			return nil, err
		}
		info, err := newInfo(kind, &s.Header.Header, len(data), 2)
		if err != nil {
			return nil, err
		}
		info.Sections = map[string]int{
			"Y": len(s.Y), "Cb": len(s.Cb), "Cr": len(s.Cr),
			"DiffY": len(s.DiffY), "DiffCb": len(s.DiffCb), "DiffCr": len(s.DiffCr),
		}
		info.Vectors = map[string]int{"Y": len(s.MVY), "Cb": len(s.MVCb), "Cr": len(s.MVCr)}
		return info, nil
	}
	return nil, fmt.Errorf("rippeg: unknown stream kind %v", kind)
}

// InspectFile reads path and inspects it as the format its name implies.
func InspectFile(path string) (*Info, error) {
	kind, err := KindFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := readArchive(path)
	if err != nil {
		return nil, err
	}
	return Inspect(data, kind)
}

func newInfo(kind Kind, h *Header, size, frames int) (*Info, error) {
	g, err := h.Geometry()
	if err != nil {
		return nil, err
	}
	return &Info{
		Kind:     kind,
		Geometry: g,
		Quality:  h.Quality,
		Size:     size,
		Raw:      frames * 3 * g.Width * g.Height,
	}, nil
}
