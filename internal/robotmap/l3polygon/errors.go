package l3polygon

import (
	"errors"
	"fmt"
)

var (
	// ErrNotEnoughVertices is returned when a ring has fewer than 3 vertices.
	ErrNotEnoughVertices = errors.New("polygon needs at least 3 vertices")
	// ErrInvalidGeometry is returned for rings without a usable bounding box
	// or with zero area.
	ErrInvalidGeometry = errors.New("invalid polygon geometry")
	// ErrNonFiniteCoordinate is returned when a vertex or the resolution
	// contains NaN or Inf.
	ErrNonFiniteCoordinate = errors.New("non-finite coordinate")
	// ErrInvalidResolution is returned for zero or negative resolutions.
	ErrInvalidResolution = errors.New("invalid resolution")
)

// GeometryError reports which ring (and vertex, when known) was rejected.
type GeometryError struct {
	// Ring is 0 for the outline and i+1 for the i-th explored region.
	Ring int
	// Vertex is the offending vertex index, or -1.
	Vertex int
	Err    error
}

func (e *GeometryError) Error() string {
	where := "outline"
	if e.Ring > 0 {
		where = fmt.Sprintf("explored region %d", e.Ring-1)
	}
	if e.Vertex >= 0 {
		return fmt.Sprintf("%s vertex %d: %v", where, e.Vertex, e.Err)
	}
	return fmt.Sprintf("%s: %v", where, e.Err)
}

func (e *GeometryError) Unwrap() error { return e.Err }
