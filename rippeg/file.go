package rippeg

import (
	"errors"
	"os"

	"github.com/mrjoshuak/go-rippeg/compression"
)

// File extensions of the two stream formats. Either may carry an archive
// suffix (".zst" or ".zz") that wraps the stream in outer compression.
const (
	Ext       = ".rippeg"
	MotionExt = ".mrippeg"
)

// WriteFile stores s at path, applying the archive framing the path's
// suffix selects.
func WriteFile(path string, s *Stream) error {
	data, err := s.MarshalBinary()
	if err != nil {
		return err
	}
	return writeArchive(path, data)
}

// ReadFile loads a single-frame stream from path.
func ReadFile(path string) (*Stream, error) {
	data, err := readArchive(path)
	if err != nil {
		return nil, err
	}
	return ReadStream(data)
}

// WriteMotionFile stores s at path, applying the archive framing the path's
// suffix selects.
func WriteMotionFile(path string, s *MotionStream) error {
	data, err := s.MarshalBinary()
	if err != nil {
		return err
	}
	return writeArchive(path, data)
}

// ReadMotionFile loads a motion stream from path.
func ReadMotionFile(path string) (*MotionStream, error) {
	data, err := readArchive(path)
	if err != nil {
		return nil, err
	}
	return ReadMotionStream(data)
}

func writeArchive(path string, data []byte) error {
	packed, err := compression.Pack(compression.ArchiveFromPath(path), data)
	if err != nil {
		return ioError("pack "+path, err)
	}
	if err := os.WriteFile(path, packed, 0o644); err != nil {
		return ioError("write "+path, err)
	}
	return nil
}

// readArchive returns the inner stream bytes of the file at path.
func readArchive(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, ioError("read "+path, err)
	}
	data, err := compression.Unpack(compression.ArchiveFromPath(path), raw)
	if err != nil {
		if errors.Is(err, compression.ErrArchiveCorrupted) || errors.Is(err, compression.ErrArchiveTooLarge) {
			return nil, &FormatError{Op: "read " + path, Msg: "archive", Err: err}
		}
		return nil, ioError("unpack "+path, err)
	}
	return data, nil
}
