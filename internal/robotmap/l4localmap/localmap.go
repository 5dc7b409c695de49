package l4localmap

import (
	"errors"
	"fmt"

	"github.com/banshee-data/localmap/internal/robotmap/l1coords"
	"github.com/banshee-data/localmap/internal/robotmap/l2grid"
)

// PlacementError reports the robot position that could not be placed.
type PlacementError struct {
	Position l1coords.RealWorldLocation
	Label    l2grid.CellLabel
	Err      error
}

func (e *PlacementError) Error() string {
	return fmt.Sprintf("placing %v at %v: %v", e.Label, e.Position.Point, e.Err)
}

func (e *PlacementError) Unwrap() error { return e.Err }

// LocalMap is one robot's view of the shared area: a grid plus the
// positions of this robot and the others it knows about.
//
// The LocalMap owns its grid. Constructors stamp robots directly onto the
// grid they are given.
type LocalMap struct {
	grid           *l2grid.CellMap
	myPosition     l1coords.RealWorldLocation
	otherPositions []l1coords.RealWorldLocation
	partition      PartitionFunc
}

type placement struct {
	pos   l1coords.RealWorldLocation
	label l2grid.CellLabel
}

func placements(my l1coords.RealWorldLocation, others []l1coords.RealWorldLocation) []placement {
	out := make([]placement, 0, len(others)+1)
	out = append(out, placement{pos: my, label: l2grid.MyRobot})
	for _, o := range others {
		out = append(out, placement{pos: o, label: l2grid.OtherRobot})
	}
	return out
}

func newLocalMap(grid *l2grid.CellMap, my l1coords.RealWorldLocation, others []l1coords.RealWorldLocation) *LocalMap {
	return &LocalMap{
		grid:           grid,
		myPosition:     my,
		otherPositions: append([]l1coords.RealWorldLocation(nil), others...),
	}
}

// NewStrict places MyRobot at my and OtherRobot at each of others, in that
// order. Robots sharing a cell overwrite each other; the last one wins.
//
// Every position is checked before any cell is written, so when a robot is
// off the grid the returned *PlacementError names the first such position
// and the grid is left unchanged.
func NewStrict(grid *l2grid.CellMap, my l1coords.RealWorldLocation, others []l1coords.RealWorldLocation) (*LocalMap, error) {
	if grid == nil {
		return nil, ErrNoMap
	}
	ps := placements(my, others)
	for _, p := range ps {
		if _, _, err := grid.LocationToMapIndex(p.pos); err != nil {
			opsf("strict placement rejected %v at %v: %v", p.label, p.pos.Point, err)
			return nil, &PlacementError{Position: p.pos, Label: p.label, Err: err}
		}
	}
	for _, p := range ps {
		if err := grid.SetLocation(p.pos, p.label); err != nil {
			return nil, &PlacementError{Position: p.pos, Label: p.label, Err: err}
		}
	}
	diagf("placed %d robots on %dx%d grid", len(ps), grid.Width(), grid.Height())
	return newLocalMap(grid, my, others), nil
}

// NewTolerant is NewStrict except that robots off the grid are skipped. Their
// positions are still recorded on the LocalMap.
func NewTolerant(grid *l2grid.CellMap, my l1coords.RealWorldLocation, others []l1coords.RealWorldLocation) (*LocalMap, error) {
	if grid == nil {
		return nil, ErrNoMap
	}
	skipped := 0
	for _, p := range placements(my, others) {
		err := grid.SetLocation(p.pos, p.label)
		switch {
		case err == nil:
		case errors.Is(err, l2grid.ErrOutOfMap):
			tracef("skipping %v at %v: off the grid", p.label, p.pos.Point)
			skipped++
		default:
			return nil, &PlacementError{Position: p.pos, Label: p.label, Err: err}
		}
	}
	if skipped > 0 {
		diagf("tolerant placement skipped %d of %d robots", skipped, len(others)+1)
	}
	return newLocalMap(grid, my, others), nil
}

// Map returns the grid.
func (m *LocalMap) Map() *l2grid.CellMap { return m.grid }

// MyPosition returns where this robot was placed.
func (m *LocalMap) MyPosition() l1coords.RealWorldLocation { return m.myPosition }

// OtherPositions returns a copy of the other robots' positions.
func (m *LocalMap) OtherPositions() []l1coords.RealWorldLocation {
	return append([]l1coords.RealWorldLocation(nil), m.otherPositions...)
}

func (m *LocalMap) String() string {
	others := make([]string, len(m.otherPositions))
	for i, o := range m.otherPositions {
		others[i] = o.Point.String()
	}
	return fmt.Sprintf("LocalMap{map=%v my=%v others=%v partition=%t}",
		m.grid, m.myPosition.Point, others, m.partition != nil)
}
