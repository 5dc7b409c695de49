package l4localmap

import "errors"

var (
	// ErrNoPartitioningAlgorithm is returned by Partition when no algorithm
	// has been set.
	ErrNoPartitioningAlgorithm = errors.New("no partitioning algorithm provided")
	// ErrNoMap is returned when there is no grid to work on.
	ErrNoMap = errors.New("no map")
)

// PartitionFunc splits the work area between robots. It receives the local
// map and the caller's factors (which may be nil) and returns the
// partitioned map. The algorithm is detached from m while it runs.
type PartitionFunc func(m *LocalMap, factors any) *LocalMap

// SetPartitionAlgorithm replaces the partitioning algorithm. Passing nil
// clears it.
func (m *LocalMap) SetPartitionAlgorithm(fn PartitionFunc) { m.partition = fn }

// HasPartitionAlgorithm reports whether an algorithm is set.
func (m *LocalMap) HasPartitionAlgorithm() bool { return m.partition != nil }

// Partition runs the partitioning algorithm once and returns its result with
// the same algorithm attached, ready for the next round.
func (m *LocalMap) Partition(factors any) (*LocalMap, error) {
	fn := m.partition
	if fn == nil {
		return nil, ErrNoPartitioningAlgorithm
	}
	if m.grid == nil {
		return nil, ErrNoMap
	}

	m.partition = nil
	out := fn(m, factors)
	m.partition = fn

	if out == nil || out.grid == nil {
		opsf("partition algorithm returned no map")
		return nil, ErrNoMap
	}
	out.partition = fn
	return out, nil
}
