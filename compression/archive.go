package compression

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

// Archive errors
var (
	ErrArchiveCorrupted = errors.New("compression: corrupted archive data")
	ErrArchiveTooLarge  = errors.New("compression: archive expands beyond limit")
	ErrArchiveUnknown   = errors.New("compression: unknown archive kind")
)

// MaxUnpackedSize bounds the size of a stream recovered from an archive.
const MaxUnpackedSize = 1 << 30

// Archive selects the optional outer framing of a stored stream.
// The inner .rippeg/.mrippeg bytes are never altered.
type Archive int

const (
	ArchiveNone Archive = iota // stored as-is
	ArchiveZstd                // .zst, zstd frame
	ArchiveZlib                // .zz, zlib stream
)

// String returns the archive name.
func (a Archive) String() string {
	switch a {
	case ArchiveNone:
		return "none"
	case ArchiveZstd:
		return "zstd"
	case ArchiveZlib:
		return "zlib"
	default:
		return "unknown"
	}
}

// Suffix returns the file suffix for the archive kind, including the dot.
func (a Archive) Suffix() string {
	switch a {
	case ArchiveZstd:
		return ".zst"
	case ArchiveZlib:
		return ".zz"
	default:
		return ""
	}
}

// ArchiveFromPath picks the archive kind from a file name suffix.
func ArchiveFromPath(path string) Archive {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zst":
		return ArchiveZstd
	case ".zz":
		return ArchiveZlib
	default:
		return ArchiveNone
	}
}

// TrimArchiveSuffix removes the archive suffix, if any, so the inner
// extension can be inspected ("a.mrippeg.zst" -> "a.mrippeg").
func TrimArchiveSuffix(path string) string {
	if a := ArchiveFromPath(path); a != ArchiveNone {
		return path[:len(path)-len(a.Suffix())]
	}
	return path
}

// The zstd encoder and decoder are safe for concurrent EncodeAll/DecodeAll
// calls, so one of each is shared.
var (
	zstdEncoder = sync.OnceValues(func() (*zstd.Encoder, error) {
		return zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault), zstd.WithEncoderConcurrency(1))
	})
	zstdDecoder = sync.OnceValues(func() (*zstd.Decoder, error) {
		return zstd.NewReader(nil, zstd.WithDecoderMaxMemory(MaxUnpackedSize), zstd.WithDecoderConcurrency(1))
	})
)

// Pool for zlib writers; each item owns its destination buffer.
type zlibWriterPoolItem struct {
	writer *zlib.Writer
	buf    *bytes.Buffer
}

var zlibWriterPool = sync.Pool{
	New: func() any {
		buf := new(bytes.Buffer)
		w, _ := zlib.NewWriterLevel(buf, zlib.BestCompression)
		return &zlibWriterPoolItem{writer: w, buf: buf}
	},
}

// Pack wraps data in the given archive framing.
func Pack(a Archive, data []byte) ([]byte, error) {
	switch a {
	case ArchiveNone:
		return data, nil
	case ArchiveZstd:
		enc, err := zstdEncoder()
		if err != nil {
			return nil, errors.Wrap(err, "compression: zstd encoder")
		}
		return enc.EncodeAll(data, make([]byte, 0, len(data)/2+64)), nil
	case ArchiveZlib:
		return zlibPack(data)
	default:
		return nil, errors.WithStack(ErrArchiveUnknown)
	}
}

// Unpack removes the given archive framing.
func Unpack(a Archive, data []byte) ([]byte, error) {
	switch a {
	case ArchiveNone:
		return data, nil
	case ArchiveZstd:
		dec, err := zstdDecoder()
		if err != nil {
			return nil, errors.Wrap(err, "compression: zstd decoder")
		}
		out, err := dec.DecodeAll(data, nil)
		if err != nil {
			if errors.Is(err, zstd.ErrDecoderSizeExceeded) {
				return nil, errors.WithStack(ErrArchiveTooLarge)
			}
			return nil, errors.Wrap(ErrArchiveCorrupted, err.Error())
		}
		return out, nil
	case ArchiveZlib:
		return zlibUnpack(data)
	default:
		return nil, errors.WithStack(ErrArchiveUnknown)
	}
}

func zlibPack(data []byte) ([]byte, error) {
	item := zlibWriterPool.Get().(*zlibWriterPoolItem)
	defer zlibWriterPool.Put(item)
	item.buf.Reset()
	item.writer.Reset(item.buf)

	if _, err := item.writer.Write(data); err != nil {
		item.writer.Close()
		return nil, errors.Wrap(err, "compression: zlib write")
	}
	if err := item.writer.Close(); err != nil {
		return nil, errors.Wrap(err, "compression: zlib close")
	}

	result := make([]byte, item.buf.Len())
	copy(result, item.buf.Bytes())
	return result, nil
}

func zlibUnpack(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(ErrArchiveCorrupted, err.Error())
	}
	defer r.Close()

	// One byte past the limit distinguishes "exactly at limit" from "over".
	out, err := io.ReadAll(io.LimitReader(r, MaxUnpackedSize+1))
	if err != nil {
		return nil, errors.Wrap(ErrArchiveCorrupted, err.Error())
	}
	if len(out) > MaxUnpackedSize {
		return nil, errors.WithStack(ErrArchiveTooLarge)
	}
	return out, nil
}
