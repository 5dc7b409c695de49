// Package l3polygon owns Layer 3 (Rasterizer) of the local map model.
//
// Responsibilities: describing a region of interest as a polygon with
// optional already-explored sub-regions, and turning it into a labeled
// l2grid.CellMap.
// Key types: PolygonMap, GeometryError.
//
// Membership is decided per cell by sampling the cell center against the
// polygon ring (github.com/paulmach/orb/planar). Points on an edge count as
// inside.
//
// Dependency rule: L3 may depend on L1-L2, but never on L4+.
package l3polygon
