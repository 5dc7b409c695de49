package l2grid

import "fmt"

// CellLabel describes the state of a single cell.
type CellLabel uint8

const (
	// OutOfMap marks cells outside the region of interest, mostly relevant
	// for non-rectangular maps produced from polygons.
	OutOfMap CellLabel = iota
	// OtherRobot marks a cell occupied by another robot.
	OtherRobot
	// MyRobot marks the cell occupied by this robot.
	MyRobot
	// Explored marks cells already covered by some robot.
	Explored
	// Unexplored marks cells nobody has covered yet.
	Unexplored
	// Frontier marks the boundary between Explored and Unexplored.
	Frontier
	// Assigned marks cells assigned to this robot.
	Assigned
)

// AllLabels lists every label in declaration order.
var AllLabels = []CellLabel{OutOfMap, OtherRobot, MyRobot, Explored, Unexplored, Frontier, Assigned}

type labelInfo struct {
	name string
	gray uint8
	rgb  [3]uint8
}

var labelTable = [...]labelInfo{
	OutOfMap:   {"OutOfMap", 0, [3]uint8{0, 0, 0}},
	OtherRobot: {"OtherRobot", 40, [3]uint8{50, 255, 50}},
	MyRobot:    {"MyRobot", 50, [3]uint8{255, 50, 50}},
	Explored:   {"Explored", 180, [3]uint8{200, 200, 200}},
	Unexplored: {"Unexplored", 120, [3]uint8{100, 100, 100}},
	Frontier:   {"Frontier", 220, [3]uint8{255, 100, 255}},
	Assigned:   {"Assigned", 255, [3]uint8{255, 255, 0}},
}

// Valid reports whether l is one of the declared labels.
func (l CellLabel) Valid() bool { return int(l) < len(labelTable) }

func (l CellLabel) String() string {
	if !l.Valid() {
		return fmt.Sprintf("CellLabel(%d)", uint8(l))
	}
	return labelTable[l].name
}

// Gray returns the grayscale level used when rendering the label.
func (l CellLabel) Gray() uint8 {
	if !l.Valid() {
		return 0
	}
	return labelTable[l].gray
}

// RGB returns the color used when rendering the label.
func (l CellLabel) RGB() (r, g, b uint8) {
	if !l.Valid() {
		return 0, 0, 0
	}
	c := labelTable[l].rgb
	return c[0], c[1], c[2]
}

// ParseCellLabel is the inverse of CellLabel.String.
func ParseCellLabel(name string) (CellLabel, error) {
	for i, info := range labelTable {
		if info.name == name {
			return CellLabel(i), nil
		}
	}
	return 0, fmt.Errorf("unknown cell label %q", name)
}

// MarshalText encodes the label by name.
func (l CellLabel) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid cell label %d", uint8(l))
	}
	return []byte(l.String()), nil
}

// UnmarshalText decodes a label name.
func (l *CellLabel) UnmarshalText(text []byte) error {
	parsed, err := ParseCellLabel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
