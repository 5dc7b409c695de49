package l3polygon

import (
	"errors"
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/banshee-data/localmap/internal/robotmap/l1coords"
	"github.com/banshee-data/localmap/internal/robotmap/l2grid"
)

// minVertices is the smallest ring that encloses an area.
const minVertices = 3

// PolygonMap describes a map region by the vertices of its outline, plus any
// sub-regions that have already been explored.
//
// Vertices are real-world locations; only x and y take part in
// rasterization. Rings are implicitly closed.
type PolygonMap struct {
	vertices []l1coords.RealWorldLocation
	explored [][]l1coords.RealWorldLocation
}

// New validates and stores the outline and explored regions. Every ring needs
// at least 3 vertices with finite coordinates.
func New(vertices []l1coords.RealWorldLocation, explored ...[]l1coords.RealWorldLocation) (*PolygonMap, error) {
	if err := checkRing(0, vertices); err != nil {
		opsf("rejecting polygon: %v", err)
		return nil, err
	}
	for i, ring := range explored {
		if err := checkRing(i+1, ring); err != nil {
			opsf("rejecting polygon: %v", err)
			return nil, err
		}
	}

	p := &PolygonMap{
		vertices: append([]l1coords.RealWorldLocation(nil), vertices...),
		explored: make([][]l1coords.RealWorldLocation, len(explored)),
	}
	for i, ring := range explored {
		p.explored[i] = append([]l1coords.RealWorldLocation(nil), ring...)
	}
	return p, nil
}

func checkRing(ring int, vertices []l1coords.RealWorldLocation) error {
	if len(vertices) < minVertices {
		return &GeometryError{Ring: ring, Vertex: -1, Err: ErrNotEnoughVertices}
	}
	for i, v := range vertices {
		if !v.IsFinite() {
			return &GeometryError{Ring: ring, Vertex: i, Err: ErrNonFiniteCoordinate}
		}
	}
	return nil
}

// Vertices returns a copy of the outline.
func (p *PolygonMap) Vertices() []l1coords.RealWorldLocation {
	return append([]l1coords.RealWorldLocation(nil), p.vertices...)
}

// Explored returns a copy of the explored regions.
func (p *PolygonMap) Explored() [][]l1coords.RealWorldLocation {
	out := make([][]l1coords.RealWorldLocation, len(p.explored))
	for i, ring := range p.explored {
		out[i] = append([]l1coords.RealWorldLocation(nil), ring...)
	}
	return out
}

// ToCellMap rasterizes the polygon at the given resolution.
//
// The grid's offset is the lower corner of the outline's bounding box and
// its size is the box extent times resolution, truncated. Cells whose center
// lies inside the outline are Unexplored, the rest OutOfMap. Each explored
// region is then rasterized on its own bounding box; every inside cell whose
// center also lands on the main grid is overwritten to Explored. Explored
// cells outside the main grid are dropped.
func (p *PolygonMap) ToCellMap(resolution l1coords.AxisResolution) (*l2grid.CellMap, error) {
	if err := checkResolution(resolution); err != nil {
		return nil, err
	}

	grid, err := rasterize(0, p.vertices, resolution)
	if err != nil {
		return nil, err
	}
	diagf("outline rasterized to %dx%d at offset %v", grid.Width(), grid.Height(), grid.Offset())

	for i, ring := range p.explored {
		region, err := rasterize(i+1, ring, resolution)
		if err != nil {
			return nil, err
		}
		stamped, dropped, err := stampExplored(grid, region)
		if err != nil {
			return nil, fmt.Errorf("explored region %d: %w", i, err)
		}
		diagf("explored region %d: %d cells stamped, %d outside the map", i, stamped, dropped)
	}
	return grid, nil
}

func checkResolution(r l1coords.AxisResolution) error {
	for _, f := range []float64{r.X, r.Y, r.Z} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("resolution %+v: %w", r, ErrNonFiniteCoordinate)
		}
	}
	if err := r.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResolution, err)
	}
	return nil
}

// rasterize builds a grid over the ring's bounding box, marking cells whose
// center is inside the ring Unexplored and the rest OutOfMap.
func rasterize(index int, vertices []l1coords.RealWorldLocation, resolution l1coords.AxisResolution) (*l2grid.CellMap, error) {
	lo, hi := vertices[0].Point, vertices[0].Point
	for _, v := range vertices[1:] {
		lo = l1coords.Min(lo, v.Point)
		hi = l1coords.Max(hi, v.Point)
	}
	if hi.X-lo.X <= 0 || hi.Y-lo.Y <= 0 {
		return nil, &GeometryError{Ring: index, Vertex: -1, Err: ErrInvalidGeometry}
	}
	width := math.Floor((hi.X - lo.X) * resolution.X)
	height := math.Floor((hi.Y - lo.Y) * resolution.Y)
	if width > math.MaxInt32 || height > math.MaxInt32 || width*height > float64(l2grid.MaxCells) {
		// also catches extents that overflow to +Inf
		err := fmt.Errorf("%w: %gx%g cells exceeds %d", l2grid.ErrMapTooLarge, width, height, l2grid.MaxCells)
		return nil, &GeometryError{Ring: index, Vertex: -1, Err: err}
	}

	// The offset keeps the bounding box's z so that z survives the
	// real-world round trip of explored cells.
	offset := lo
	ring := make(orb.Ring, len(vertices))
	for i, v := range vertices {
		in := v.IntoInternal(offset, resolution).Point()
		ring[i] = orb.Point{in.X, in.Y}
	}
	if area := planar.Area(ring); area == 0 || math.IsNaN(area) {
		return nil, &GeometryError{Ring: index, Vertex: -1, Err: ErrInvalidGeometry}
	}

	cols, rows := int(width), int(height)
	raster := make([][]l2grid.CellLabel, rows)
	inside := 0
	for row := range raster {
		raster[row] = make([]l2grid.CellLabel, cols)
		for col := range raster[row] {
			center := orb.Point{float64(col) + 0.5, float64(row) + 0.5}
			if planar.RingContains(ring, center) {
				raster[row][col] = l2grid.Unexplored
				inside++
			} else {
				raster[row][col] = l2grid.OutOfMap
			}
		}
	}
	tracef("ring %d: %d of %d cells inside", index, inside, rows*cols)

	if rows == 0 {
		// FromRaster takes its width from the first row.
		return l2grid.NewSized(0, cols, offset, resolution), nil
	}
	return l2grid.FromRaster(raster, resolution, offset), nil
}

// stampExplored marks every inside cell of region as Explored on grid,
// addressing cells by the real-world position of their center.
func stampExplored(grid, region *l2grid.CellMap) (stamped, dropped int, err error) {
	for _, cell := range region.GetMapState(l2grid.Unexplored) {
		center := l1coords.NewInternalLocation(
			l1coords.NewPoint(float64(cell.Col)+0.5, float64(cell.Row)+0.5, 0),
			region.Offset(),
			region.Resolution(),
		).IntoRealWorld()
		switch err := grid.SetLocation(center, l2grid.Explored); {
		case err == nil:
			stamped++
		case errors.Is(err, l2grid.ErrOutOfMap):
			dropped++
		default:
			return stamped, dropped, err
		}
	}
	return stamped, dropped, nil
}
