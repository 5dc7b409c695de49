// Package l2grid owns Layer 2 (Grid) of the local map model.
//
// Responsibilities: the labeled cell raster, translating real-world
// locations to cell indices, and label-based region queries.
// Key types: CellMap, CellLabel, Cell.
//
// Every lookup by location goes through CellMap.LocationToMapIndex; nothing
// else in this package turns coordinates into indices.
//
// Dependency rule: L2 may depend on L1, never on L3+.
package l2grid
