// Package l4localmap owns Layer 4 (Local Map) of the local map model.
//
// Responsibilities: placing this robot and the other robots onto a grid,
// growing a grid to fit robots that fall outside it, and carrying the
// caller-supplied partitioning strategy.
// Key types: LocalMap, PlacementError, PartitionFunc.
//
// Dependency rule: L4 may depend on L1-L3. Rendering and storage live
// outside the layer stack and are never imported here.
package l4localmap
