package l1coords

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Point is a position in 3D space, in meters.
type Point struct {
	X, Y, Z float64
}

// NewPoint returns the point (x, y, z).
func NewPoint(x, y, z float64) Point {
	return Point{X: x, Y: y, Z: z}
}

func (p Point) vec() r3.Vec { return r3.Vec{X: p.X, Y: p.Y, Z: p.Z} }

func fromVec(v r3.Vec) Point { return Point{X: v.X, Y: v.Y, Z: v.Z} }

// Add returns p+q componentwise.
func (p Point) Add(q Point) Point {
	return fromVec(r3.Add(p.vec(), q.vec()))
}

// Sub returns p-q componentwise.
func (p Point) Sub(q Point) Point {
	return fromVec(r3.Sub(p.vec(), q.vec()))
}

// IsFinite reports whether no component is NaN or infinite.
func (p Point) IsFinite() bool {
	return isFinite(p.X) && isFinite(p.Y) && isFinite(p.Z)
}

func (p Point) String() string {
	return fmt.Sprintf("(%g, %g, %g)", p.X, p.Y, p.Z)
}

// Min returns the componentwise minimum of a and b.
func Min(a, b Point) Point {
	return Point{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y), Z: math.Min(a.Z, b.Z)}
}

// Max returns the componentwise maximum of a and b.
func Max(a, b Point) Point {
	return Point{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y), Z: math.Max(a.Z, b.Z)}
}

// DistanceX returns |a.X - b.X|.
func DistanceX(a, b Point) float64 { return math.Abs(a.X - b.X) }

// DistanceY returns |a.Y - b.Y|.
func DistanceY(a, b Point) float64 { return math.Abs(a.Y - b.Y) }

// DistanceZ returns |a.Z - b.Z|.
func DistanceZ(a, b Point) float64 { return math.Abs(a.Z - b.Z) }

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Point) float64 {
	return r3.Norm(r3.Sub(a.vec(), b.vec()))
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// AxisResolution is the number of cells per meter along each axis.
type AxisResolution struct {
	X, Y, Z float64
}

// Uniform returns a resolution with the same factor on every axis.
func Uniform(r float64) AxisResolution {
	return AxisResolution{X: r, Y: r, Z: r}
}

// Validate checks that every factor is finite and strictly positive.
func (r AxisResolution) Validate() error {
	for _, f := range []struct {
		axis string
		v    float64
	}{{"x", r.X}, {"y", r.Y}, {"z", r.Z}} {
		if !isFinite(f.v) || f.v <= 0 {
			return fmt.Errorf("resolution.%s must be a positive finite number, got %v", f.axis, f.v)
		}
	}
	return nil
}
