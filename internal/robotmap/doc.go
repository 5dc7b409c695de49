// Package robotmap groups the layers of a single robot's local coverage map.
//
// Layers, leaves first:
//
//	l1coords   real-world and grid-relative coordinates
//	l2grid     labeled cell grid, location lookups and region queries
//	l3polygon  polygon to grid rasterization
//	l4localmap grid plus robot placement and the partition hook
//
// Dependency rule: L(n) may import L(<n) only. Rendering lives in visualiser
// and persistence in storage/sqlite; neither is imported by l1-l4.
package robotmap
