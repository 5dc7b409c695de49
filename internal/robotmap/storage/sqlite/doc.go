// Package sqlite persists cell map snapshots in SQLite.
//
// All SQL for the local map model lives here; the l1-l4 layers never touch
// a database. A snapshot is the label raster together with the offset and
// resolution needed to rebuild the grid exactly.
package sqlite
