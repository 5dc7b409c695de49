package l2grid

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"
)

// Signature returns a stable hash of the map's shape, anchoring and labels.
// Two maps with equal signatures render and query identically; storage uses
// it to skip writing unchanged snapshots.
func (m *CellMap) Signature() string {
	d := xxhash.New()
	var buf [8]byte
	writeU64 := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		_, _ = d.Write(buf[:])
	}
	writeU64(uint64(m.rows))
	writeU64(uint64(m.cols))
	for _, f := range []float64{
		m.offset.X, m.offset.Y, m.offset.Z,
		m.resolution.X, m.resolution.Y, m.resolution.Z,
	} {
		writeU64(math.Float64bits(f))
	}
	raw := make([]byte, len(m.cells))
	for i, c := range m.cells {
		raw[i] = byte(c)
	}
	_, _ = d.Write(raw)
	return fmt.Sprintf("%016x", d.Sum64())
}
