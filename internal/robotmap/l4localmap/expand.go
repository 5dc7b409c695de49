package l4localmap

import (
	"errors"
	"fmt"
	"math"

	"github.com/banshee-data/localmap/internal/robotmap/l1coords"
	"github.com/banshee-data/localmap/internal/robotmap/l2grid"
)

// MaxExpandedCells bounds the size of the grid NewExpanding will allocate.
var MaxExpandedCells = 1 << 24

// ErrExpansionTooLarge is returned when fitting every robot would need a grid
// larger than MaxExpandedCells.
var ErrExpansionTooLarge = errors.New("expanded map too large")

// maxFitPasses limits how often the bounds are widened to absorb rounding
// in the shifted offset.
const maxFitPasses = 4

// cellBounds is a half-open cell range [minCol, maxCol) x [minRow, maxRow)
// in the original grid's index space. Values are whole numbers.
type cellBounds struct {
	minCol, minRow float64
	maxCol, maxRow float64
}

func (b *cellBounds) include(col, row float64) {
	b.minCol = math.Min(b.minCol, col)
	b.minRow = math.Min(b.minRow, row)
	b.maxCol = math.Max(b.maxCol, col+1)
	b.maxRow = math.Max(b.maxRow, row+1)
}

func (b cellBounds) cols() float64 { return b.maxCol - b.minCol }
func (b cellBounds) rows() float64 { return b.maxRow - b.minRow }

// NewExpanding places robots like NewStrict, first growing the grid so that
// every position lands on it.
//
// The grid grows by whole cells of the original resolution. The new offset
// is the old one moved down and left by the number of cells added on those
// sides, every old label keeps its real-world position, and added cells are
// Unexplored. The grid passed in is not modified; the LocalMap owns a new
// one. A grid that already covers every robot is copied unchanged.
func NewExpanding(grid *l2grid.CellMap, my l1coords.RealWorldLocation, others []l1coords.RealWorldLocation) (*LocalMap, error) {
	if grid == nil {
		return nil, ErrNoMap
	}
	ps := placements(my, others)
	for _, p := range ps {
		if !p.pos.IsFinite() {
			return nil, &PlacementError{Position: p.pos, Label: p.label, Err: l2grid.ErrOutOfMap}
		}
	}

	res := grid.Resolution()
	b := cellBounds{maxCol: float64(grid.Width()), maxRow: float64(grid.Height())}
	for _, p := range ps {
		in := p.pos.IntoInternal(grid.Offset(), res).Point()
		b.include(math.Floor(in.X), math.Floor(in.Y))
	}

	// The shifted offset is rounded, so a robot sitting exactly on a cell
	// edge can land one cell outside the new bounds. Widen and retry.
	offset := shiftedOffset(grid, b)
	for pass := 0; pass < maxFitPasses; pass++ {
		if err := checkSize(b); err != nil {
			return nil, err
		}
		var left, right, below, above bool
		for _, p := range ps {
			in := p.pos.IntoInternal(offset, res).Point()
			col, row := math.Floor(in.X), math.Floor(in.Y)
			left = left || col < 0
			right = right || col >= b.cols()
			below = below || row < 0
			above = above || row >= b.rows()
		}
		if !left && !right && !below && !above {
			break
		}
		if left {
			b.minCol--
		}
		if right {
			b.maxCol++
		}
		if below {
			b.minRow--
		}
		if above {
			b.maxRow++
		}
		offset = shiftedOffset(grid, b)
	}
	if err := checkSize(b); err != nil {
		return nil, err
	}

	expanded := copyInto(grid, b, offset)
	if expanded.Width() != grid.Width() || expanded.Height() != grid.Height() {
		diagf("expanded grid from %dx%d to %dx%d, offset %v -> %v",
			grid.Width(), grid.Height(), expanded.Width(), expanded.Height(), grid.Offset(), offset)
	}
	return NewStrict(expanded, my, others)
}

func checkSize(b cellBounds) error {
	if cells := b.cols() * b.rows(); cells > float64(MaxExpandedCells) {
		return fmt.Errorf("%w: %.0fx%.0f cells exceeds %d", ErrExpansionTooLarge, b.cols(), b.rows(), MaxExpandedCells)
	}
	return nil
}

// shiftedOffset returns the real-world lower corner of cell (minRow, minCol)
// of the original grid.
func shiftedOffset(grid *l2grid.CellMap, b cellBounds) l1coords.Point {
	corner := l1coords.NewPoint(b.minCol, b.minRow, 0)
	return l1coords.NewInternalLocation(corner, grid.Offset(), grid.Resolution()).IntoRealWorld().Point
}

// copyInto allocates the grid described by b and copies every old label
// across by index.
func copyInto(grid *l2grid.CellMap, b cellBounds, offset l1coords.Point) *l2grid.CellMap {
	rows, cols := int(b.rows()), int(b.cols())
	shiftRow, shiftCol := int(-b.minRow), int(-b.minCol)

	raster := make([][]l2grid.CellLabel, rows)
	for r := range raster {
		raster[r] = make([]l2grid.CellLabel, cols)
		for c := range raster[r] {
			raster[r][c] = l2grid.Unexplored
		}
	}
	for r, row := range grid.Labels() {
		copy(raster[r+shiftRow][shiftCol:], row)
	}
	return l2grid.FromRaster(raster, grid.Resolution(), offset)
}
