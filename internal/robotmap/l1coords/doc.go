// Package l1coords owns Layer 1 (Coordinates) of the local map model.
//
// Responsibilities: the raw Point type, per-axis resolution, and the two
// tagged coordinate frames used everywhere above this layer.
// Key types: Point, AxisResolution, RealWorldLocation, InternalLocation.
//
// Callers outside the map only ever see RealWorldLocation. InternalLocation
// carries the offset and resolution it was derived from, so it can always be
// turned back into a real-world value without outside context.
//
// Dependency rule: L1 imports no other robotmap layer.
package l1coords
