package plane

import (
	"errors"
	"fmt"
)

// ErrGeometry is matched by every *GeometryError.
var ErrGeometry = errors.New("plane: geometry error")

// GeometryError reports an offset or extent that does not fit a plane.
type GeometryError struct {
	Op     string
	X, Y   int
	Width  int
	Height int
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("plane: %s: (%d,%d) outside %dx%d", e.Op, e.X, e.Y, e.Width, e.Height)
}

// Is makes errors.Is(err, ErrGeometry) true for any GeometryError.
func (e *GeometryError) Is(target error) bool {
	return target == ErrGeometry
}
