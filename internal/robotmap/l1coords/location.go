package l1coords

// RealWorldLocation is a Point in the caller's frame. It never carries an
// offset; it is the only coordinate type accepted or returned by the map
// layers above.
type RealWorldLocation struct {
	Point
}

// NewRealWorldLocation wraps p as a real-world location.
func NewRealWorldLocation(p Point) RealWorldLocation {
	return RealWorldLocation{Point: p}
}

// FromXYZ is shorthand for NewRealWorldLocation(NewPoint(x, y, z)).
func FromXYZ(x, y, z float64) RealWorldLocation {
	return RealWorldLocation{Point: NewPoint(x, y, z)}
}

// IntoInternal translates the location into the frame anchored at offset and
// scaled by resolution. Only x and y are scaled; z is shifted but kept in
// meters since the grid never indexes on it.
func (l RealWorldLocation) IntoInternal(offset Point, resolution AxisResolution) InternalLocation {
	d := l.Point.Sub(offset)
	return InternalLocation{
		point:      Point{X: d.X * resolution.X, Y: d.Y * resolution.Y, Z: d.Z},
		offset:     offset,
		resolution: resolution,
		source:     l,
		hasSource:  true,
	}
}

// InternalLocation is a grid-relative coordinate. It keeps the offset and
// resolution that produced it:
//
//	internal = (real - offset) * resolution   (x and y only)
//
// Locations made by IntoInternal also keep the real-world location they came
// from, so converting back returns it bit for bit.
type InternalLocation struct {
	point      Point
	offset     Point
	resolution AxisResolution

	source    RealWorldLocation
	hasSource bool
}

// NewInternalLocation builds an internal location from a point that is
// already expressed in the frame given by offset and resolution, such as a
// cell index. Converting it back is plain arithmetic.
func NewInternalLocation(p Point, offset Point, resolution AxisResolution) InternalLocation {
	return InternalLocation{point: p, offset: offset, resolution: resolution}
}

// Point returns the grid-relative coordinates.
func (l InternalLocation) Point() Point { return l.point }

// Offset returns the real-world origin this location is relative to.
func (l InternalLocation) Offset() Point { return l.offset }

// Resolution returns the scaling used to produce this location.
func (l InternalLocation) Resolution() AxisResolution { return l.resolution }

// IntoRealWorld is the inverse of RealWorldLocation.IntoInternal:
// l.IntoInternal(o, r).IntoRealWorld() == l for every finite l.
func (l InternalLocation) IntoRealWorld() RealWorldLocation {
	if l.hasSource {
		return l.source
	}
	unscaled := Point{
		X: l.point.X / l.resolution.X,
		Y: l.point.Y / l.resolution.Y,
		Z: l.point.Z,
	}
	return RealWorldLocation{Point: unscaled.Add(l.offset)}
}

// ChangeOffset re-anchors the location to newOffset, keeping the resolution.
// It always goes through the real-world frame rather than patching the
// stored offset, and carries the source location forward, so any chain of
// re-anchorings still converts back to the original real-world location.
func (l InternalLocation) ChangeOffset(newOffset Point) InternalLocation {
	return l.IntoRealWorld().IntoInternal(newOffset, l.resolution)
}
