package l2grid

import (
	"errors"
	"fmt"
	"math"

	"github.com/banshee-data/localmap/internal/robotmap/l1coords"
)

// ErrOutOfMap is returned when a location falls outside the grid.
var ErrOutOfMap = errors.New("location is out of map")

// LocationError reports the location that could not be resolved to a cell.
type LocationError struct {
	Location l1coords.RealWorldLocation
	Err      error
}

func (e *LocationError) Error() string {
	return fmt.Sprintf("%v: %v", e.Location.Point, e.Err)
}

func (e *LocationError) Unwrap() error { return e.Err }

// Location is implemented by maps that can be read and written using
// real-world coordinates only.
type Location interface {
	// GetLocation returns the label at loc.
	GetLocation(loc l1coords.RealWorldLocation) (CellLabel, error)
	// SetLocation overwrites the label at loc.
	SetLocation(loc l1coords.RealWorldLocation, label CellLabel) error
}

// CellMap describes a map as a 2D grid of labeled cells.
//
// Only the x and y components of coordinates index the grid; z is carried
// through conversions but otherwise ignored. Callers always pass and receive
// real-world coordinates.
//
// Cells are stored row-major: Cells[row*cols + col]. Row 0 sits at the
// offset's y, column 0 at the offset's x.
type CellMap struct {
	cells []CellLabel
	rows  int
	cols  int

	// resolution is in cells per meter.
	resolution l1coords.AxisResolution
	// offset is the real-world position of the bottom-left corner. Matrices
	// cannot have negative indices, so every coordinate is shifted by it,
	// positive ones included.
	offset l1coords.Point
}

var _ Location = (*CellMap)(nil)
var _ Mask = (*CellMap)(nil)

// MaxCells bounds the number of cells New will allocate.
var MaxCells = 1 << 26

// ErrMapTooLarge is returned when a map would need more than MaxCells cells.
var ErrMapTooLarge = errors.New("map too large")

// CheckSize returns ErrMapTooLarge when a rows x cols grid exceeds MaxCells.
func CheckSize(rows, cols int) error {
	if float64(rows)*float64(cols) > float64(MaxCells) {
		return fmt.Errorf("%w: %dx%d cells exceeds %d", ErrMapTooLarge, cols, rows, MaxCells)
	}
	return nil
}

// New creates a map covering the bounding box spanned by corner1 and corner2.
// Partial cells are dropped: a 1.5m wide box at 1 cell/m is 1 cell wide.
// All cells start Unexplored. Boxes larger than MaxCells fail with
// ErrMapTooLarge.
func New(corner1, corner2 l1coords.RealWorldLocation, resolution l1coords.AxisResolution) (*CellMap, error) {
	cols := cellCount(l1coords.DistanceX(corner1.Point, corner2.Point), resolution.X)
	rows := cellCount(l1coords.DistanceY(corner1.Point, corner2.Point), resolution.Y)
	if err := CheckSize(rows, cols); err != nil {
		return nil, err
	}
	offset := l1coords.Min(corner1.Point, corner2.Point)
	return NewSized(rows, cols, offset, resolution), nil
}

// NewSized creates a rows x cols map anchored at offset with every cell
// Unexplored. The size is not bounded; see CheckSize.
func NewSized(rows, cols int, offset l1coords.Point, resolution l1coords.AxisResolution) *CellMap {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	cells := make([]CellLabel, rows*cols)
	for i := range cells {
		cells[i] = Unexplored
	}
	return &CellMap{cells: cells, rows: rows, cols: cols, resolution: resolution, offset: offset}
}

// FromRaster creates a map from an existing row-major raster.
//
// The values are taken as-is: nothing checks that resolution and offset
// match the raster. The width is taken from the first row; shorter rows are
// padded with OutOfMap and longer rows are cut.
func FromRaster(raster [][]CellLabel, resolution l1coords.AxisResolution, offset l1coords.Point) *CellMap {
	rows := len(raster)
	cols := 0
	if rows > 0 {
		cols = len(raster[0])
	}
	cells := make([]CellLabel, rows*cols)
	for r, row := range raster {
		copy(cells[r*cols:(r+1)*cols], row)
	}
	return &CellMap{cells: cells, rows: rows, cols: cols, resolution: resolution, offset: offset}
}

// cellCount truncates extent*resolution to a whole number of cells.
func cellCount(extent, resolution float64) int {
	n := math.Floor(extent * resolution)
	if math.IsNaN(n) || n <= 0 {
		return 0
	}
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(n)
}

// Resolution returns the cells-per-meter factors.
func (m *CellMap) Resolution() l1coords.AxisResolution { return m.resolution }

// Offset returns the real-world bottom-left corner of the map.
func (m *CellMap) Offset() l1coords.Point { return m.offset }

// Width returns the number of columns.
func (m *CellMap) Width() int { return m.cols }

// Height returns the number of rows.
func (m *CellMap) Height() int { return m.rows }

func (m *CellMap) idx(row, col int) int { return row*m.cols + col }

// At returns the label at (row, col). It panics on out-of-range indices, like
// slice indexing.
func (m *CellMap) At(row, col int) CellLabel {
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		panic(fmt.Sprintf("l2grid: index (%d, %d) out of range %dx%d", row, col, m.rows, m.cols))
	}
	return m.cells[m.idx(row, col)]
}

// Labels returns a copy of the raster, one slice per row.
func (m *CellMap) Labels() [][]CellLabel {
	out := make([][]CellLabel, m.rows)
	for r := range out {
		out[r] = make([]CellLabel, m.cols)
		copy(out[r], m.cells[r*m.cols:(r+1)*m.cols])
	}
	return out
}

// Counts returns how many cells carry each label. Labels with no cells are
// omitted.
func (m *CellMap) Counts() map[CellLabel]int {
	counts := make(map[CellLabel]int)
	for _, c := range m.cells {
		counts[c]++
	}
	return counts
}

// CellLocation returns the real-world lower corner of cell (row, col).
func (m *CellMap) CellLocation(row, col int) l1coords.RealWorldLocation {
	p := l1coords.NewPoint(float64(col), float64(row), 0)
	return l1coords.NewInternalLocation(p, m.offset, m.resolution).IntoRealWorld()
}

// LocationToMapIndex resolves a real-world location to its (row, col) cell.
// The internal coordinates are floored; anything below zero or at/after the
// width or height is ErrOutOfMap.
func (m *CellMap) LocationToMapIndex(loc l1coords.RealWorldLocation) (row, col int, err error) {
	in := loc.IntoInternal(m.offset, m.resolution).Point()
	x := math.Floor(in.X)
	y := math.Floor(in.Y)
	// NaN fails every comparison below, so test for it explicitly.
	if math.IsNaN(x) || math.IsNaN(y) ||
		x < 0 || y < 0 || x >= float64(m.cols) || y >= float64(m.rows) {
		return 0, 0, &LocationError{Location: loc, Err: ErrOutOfMap}
	}
	return int(y), int(x), nil
}

// GetLocation returns the label of the cell containing loc.
func (m *CellMap) GetLocation(loc l1coords.RealWorldLocation) (CellLabel, error) {
	row, col, err := m.LocationToMapIndex(loc)
	if err != nil {
		return 0, err
	}
	return m.cells[m.idx(row, col)], nil
}

// SetLocation overwrites the label of the cell containing loc. No other cell
// is touched.
func (m *CellMap) SetLocation(loc l1coords.RealWorldLocation, label CellLabel) error {
	row, col, err := m.LocationToMapIndex(loc)
	if err != nil {
		return err
	}
	m.cells[m.idx(row, col)] = label
	return nil
}

// Clone returns a deep copy of the map.
func (m *CellMap) Clone() *CellMap {
	cells := make([]CellLabel, len(m.cells))
	copy(cells, m.cells)
	return &CellMap{cells: cells, rows: m.rows, cols: m.cols, resolution: m.resolution, offset: m.offset}
}

func (m *CellMap) String() string {
	return fmt.Sprintf("CellMap{%dx%d offset=%v resolution=%+v}", m.cols, m.rows, m.offset, m.resolution)
}
