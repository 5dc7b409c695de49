package l2grid

import "github.com/banshee-data/localmap/internal/robotmap/l1coords"

// Cell is a region query result: the real-world lower corner of a cell, its
// indices and its label.
type Cell struct {
	Location l1coords.RealWorldLocation
	Row      int
	Col      int
	Label    CellLabel
}

// Mask is implemented by maps that can be filtered by label.
type Mask interface {
	// GetMapRegion returns every cell whose label satisfies filter, in
	// row-major order (row 0 first, column 0 first within a row).
	GetMapRegion(filter func(CellLabel) bool) []Cell
}

// GetMapState returns the cells of m labeled exactly label.
func GetMapState(m Mask, label CellLabel) []Cell {
	return m.GetMapRegion(func(l CellLabel) bool { return l == label })
}

// GetMapRegion implements Mask.
func (m *CellMap) GetMapRegion(filter func(CellLabel) bool) []Cell {
	var out []Cell
	for row := 0; row < m.rows; row++ {
		for col := 0; col < m.cols; col++ {
			label := m.cells[m.idx(row, col)]
			if !filter(label) {
				continue
			}
			out = append(out, Cell{
				Location: m.CellLocation(row, col),
				Row:      row,
				Col:      col,
				Label:    label,
			})
		}
	}
	return out
}

// GetMapState is GetMapState(m, label).
func (m *CellMap) GetMapState(label CellLabel) []Cell {
	return GetMapState(m, label)
}
