package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/banshee-data/localmap/internal/robotmap/l1coords"
	"github.com/banshee-data/localmap/internal/robotmap/l2grid"
	"github.com/banshee-data/localmap/internal/timeutil"
)

// ErrNotFound is returned when no snapshot matches the query.
var ErrNotFound = errors.New("snapshot not found")

// Snapshot is a stored grid together with the metadata to rebuild it.
type Snapshot struct {
	SnapshotID  string                  `json:"snapshot_id"`
	Name        string                  `json:"name"`
	Signature   string                  `json:"signature"`
	Rows        int                     `json:"rows"`
	Cols        int                     `json:"cols"`
	Offset      l1coords.Point          `json:"offset"`
	Resolution  l1coords.AxisResolution `json:"resolution"`
	Labels      []byte                  `json:"-"`
	CreatedAtNs int64                   `json:"created_at_ns"`
	Notes       string                  `json:"notes,omitempty"`
}

// CellMap rebuilds the grid stored in the snapshot.
func (s *Snapshot) CellMap() (*l2grid.CellMap, error) {
	if len(s.Labels) != s.Rows*s.Cols {
		return nil, fmt.Errorf("snapshot %s: %d labels for %dx%d grid", s.SnapshotID, len(s.Labels), s.Cols, s.Rows)
	}
	raster := make([][]l2grid.CellLabel, s.Rows)
	for r := range raster {
		raster[r] = make([]l2grid.CellLabel, s.Cols)
		for c := range raster[r] {
			label := l2grid.CellLabel(s.Labels[r*s.Cols+c])
			if !label.Valid() {
				return nil, fmt.Errorf("snapshot %s: invalid label %d at row %d col %d", s.SnapshotID, s.Labels[r*s.Cols+c], r, c)
			}
			raster[r][c] = label
		}
	}
	if s.Rows == 0 {
		return l2grid.NewSized(0, s.Cols, s.Offset, s.Resolution), nil
	}
	return l2grid.FromRaster(raster, s.Resolution, s.Offset), nil
}

func encodeLabels(m *l2grid.CellMap) []byte {
	out := make([]byte, 0, m.Width()*m.Height())
	for _, row := range m.Labels() {
		for _, label := range row {
			out = append(out, byte(label))
		}
	}
	return out
}

// GridStore provides persistence for cell map snapshots.
type GridStore struct {
	db    *sql.DB
	clock timeutil.Clock
}

// NewGridStore creates a new GridStore. The schema must already be migrated.
func NewGridStore(db *sql.DB) *GridStore {
	return &GridStore{db: db, clock: timeutil.RealClock{}}
}

// WithClock sets the clock used for CreatedAtNs and returns s.
func (s *GridStore) WithClock(c timeutil.Clock) *GridStore {
	s.clock = c
	return s
}

// Save stores m under name. Saving a grid identical to one already stored
// under the same name returns the existing snapshot instead of a new row.
func (s *GridStore) Save(name string, m *l2grid.CellMap, notes string) (*Snapshot, error) {
	sig := m.Signature()
	existing, err := s.findBySignature(name, sig)
	switch {
	case err == nil:
		diagf("snapshot %s already stores %q signature %s", existing.SnapshotID, name, sig)
		return existing, nil
	case !errors.Is(err, ErrNotFound):
		return nil, err
	}

	snap := &Snapshot{
		SnapshotID:  uuid.New().String(),
		Name:        name,
		Signature:   sig,
		Rows:        m.Height(),
		Cols:        m.Width(),
		Offset:      m.Offset(),
		Resolution:  m.Resolution(),
		Labels:      encodeLabels(m),
		CreatedAtNs: s.clock.Now().UnixNano(),
		Notes:       notes,
	}

	query := `
		INSERT INTO grid_snapshots (
			snapshot_id, name, signature, row_count, col_count,
			offset_x, offset_y, offset_z,
			resolution_x, resolution_y, resolution_z,
			labels, created_at_ns, notes
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.db.Exec(query,
		snap.SnapshotID, snap.Name, snap.Signature, snap.Rows, snap.Cols,
		snap.Offset.X, snap.Offset.Y, snap.Offset.Z,
		snap.Resolution.X, snap.Resolution.Y, snap.Resolution.Z,
		snap.Labels, snap.CreatedAtNs, nullString(snap.Notes),
	)
	if err != nil {
		opsf("insert snapshot %q failed: %v", name, err)
		return nil, fmt.Errorf("insert grid snapshot: %w", err)
	}
	diagf("saved snapshot %s for %q (%dx%d)", snap.SnapshotID, name, snap.Cols, snap.Rows)
	return snap, nil
}

const selectColumns = `
	SELECT snapshot_id, name, signature, row_count, col_count,
	       offset_x, offset_y, offset_z,
	       resolution_x, resolution_y, resolution_z,
	       labels, created_at_ns, notes
	FROM grid_snapshots
`

// Get returns the snapshot with the given ID.
func (s *GridStore) Get(snapshotID string) (*Snapshot, error) {
	tracef("get snapshot %s", snapshotID)
	return s.queryOne(selectColumns+` WHERE snapshot_id = ?`, snapshotID)
}

// Latest returns the most recently saved snapshot for name.
func (s *GridStore) Latest(name string) (*Snapshot, error) {
	tracef("latest snapshot for %q", name)
	return s.queryOne(selectColumns+` WHERE name = ? ORDER BY created_at_ns DESC, rowid DESC LIMIT 1`, name)
}

func (s *GridStore) findBySignature(name, signature string) (*Snapshot, error) {
	return s.queryOne(selectColumns+` WHERE name = ? AND signature = ?`, name, signature)
}

// List returns every snapshot saved under name, oldest first.
func (s *GridStore) List(name string) ([]*Snapshot, error) {
	rows, err := s.db.Query(selectColumns+` WHERE name = ? ORDER BY created_at_ns, rowid`, name)
	if err != nil {
		return nil, fmt.Errorf("list grid snapshots: %w", err)
	}
	defer rows.Close()

	var out []*Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate grid snapshots: %w", err)
	}
	return out, nil
}

// Delete removes a snapshot.
func (s *GridStore) Delete(snapshotID string) error {
	res, err := s.db.Exec(`DELETE FROM grid_snapshots WHERE snapshot_id = ?`, snapshotID)
	if err != nil {
		return fmt.Errorf("delete grid snapshot: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete grid snapshot: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("delete %s: %w", snapshotID, ErrNotFound)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func (s *GridStore) queryOne(query string, args ...any) (*Snapshot, error) {
	snap, err := scanSnapshot(s.db.QueryRow(query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return snap, err
}

func scanSnapshot(row scanner) (*Snapshot, error) {
	snap := &Snapshot{}
	var notes sql.NullString
	err := row.Scan(
		&snap.SnapshotID, &snap.Name, &snap.Signature, &snap.Rows, &snap.Cols,
		&snap.Offset.X, &snap.Offset.Y, &snap.Offset.Z,
		&snap.Resolution.X, &snap.Resolution.Y, &snap.Resolution.Z,
		&snap.Labels, &snap.CreatedAtNs, &notes,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan grid snapshot: %w", err)
	}
	if notes.Valid {
		snap.Notes = notes.String
	}
	return snap, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
