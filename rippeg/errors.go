package rippeg

import (
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"

	"github.com/mrjoshuak/go-rippeg/plane"
)

// Error kinds, matched with errors.Is.
var (
	ErrFormat   = errors.New("rippeg: invalid stream")
	ErrGeometry = plane.ErrGeometry
	ErrIO       = errors.New("rippeg: i/o failure")
)

// FormatError reports a stream that does not match its header: sections
// shorter than declared, inconsistent dimensions or counts, or corrupt
// run-length data.
type FormatError struct {
	Op  string
	Msg string
	Err error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("rippeg: %s: %s: %v", e.Op, e.Msg, e.Err)
	}
	return fmt.Sprintf("rippeg: %s: %s", e.Op, e.Msg)
}

func (e *FormatError) Unwrap() error { return e.Err }

func (e *FormatError) Is(target error) bool { return target == ErrFormat }

// GeometryError reports a block offset or extent outside a plane.
type GeometryError = plane.GeometryError

// IOError wraps a failure of the underlying reader, writer or file system.
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("rippeg: %s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func (e *IOError) Is(target error) bool { return target == ErrIO }

func formatError(op, format string, args ...any) error {
	return &FormatError{Op: op, Msg: fmt.Sprintf(format, args...)}
}

// ioError records the call stack at the I/O boundary.
func ioError(op string, err error) error {
	return &IOError{Op: op, Err: pkgerrors.WithStack(err)}
}
