package l3polygon

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/localmap/internal/robotmap/l1coords"
	"github.com/banshee-data/localmap/internal/robotmap/l2grid"
)

func ring(xy ...float64) []l1coords.RealWorldLocation {
	out := make([]l1coords.RealWorldLocation, 0, len(xy)/2)
	for i := 0; i+1 < len(xy); i += 2 {
		out = append(out, l1coords.FromXYZ(xy[i], xy[i+1], 0))
	}
	return out
}

// parseRaster turns rows of 'U', 'O' and 'E' into labels.
func parseRaster(t *testing.T, rows ...string) [][]l2grid.CellLabel {
	t.Helper()
	out := make([][]l2grid.CellLabel, len(rows))
	for r, s := range rows {
		out[r] = make([]l2grid.CellLabel, len(s))
		for c, ch := range s {
			switch ch {
			case 'U':
				out[r][c] = l2grid.Unexplored
			case 'O':
				out[r][c] = l2grid.OutOfMap
			case 'E':
				out[r][c] = l2grid.Explored
			default:
				t.Fatalf("bad raster char %q", ch)
			}
		}
	}
	return out
}

func assertRaster(t *testing.T, m *l2grid.CellMap, rows ...string) {
	t.Helper()
	want := parseRaster(t, rows...)
	got := m.Labels()
	if len(got) != len(want) {
		t.Fatalf("got %d rows, want %d", len(got), len(want))
	}
	for r := range want {
		if len(got[r]) != len(want[r]) {
			t.Fatalf("row %d: got %d cols, want %d", r, len(got[r]), len(want[r]))
		}
		for c := range want[r] {
			if got[r][c] != want[r][c] {
				t.Errorf("cell (row %d, col %d) = %v, want %v", r, c, got[r][c], want[r][c])
			}
		}
	}
}

func TestToCellMap_Triangle(t *testing.T) {
	p, err := New(ring(0, 0, 4, 4, 8, 0))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	m, err := p.ToCellMap(l1coords.Uniform(1))
	if err != nil {
		t.Fatalf("ToCellMap: %v", err)
	}
	if m.Width() != 8 || m.Height() != 4 {
		t.Fatalf("size = %dx%d, want 8x4", m.Width(), m.Height())
	}
	if m.Offset() != l1coords.NewPoint(0, 0, 0) {
		t.Fatalf("offset = %v", m.Offset())
	}
	assertRaster(t, m,
		"UUUUUUUU",
		"OUUUUUUO",
		"OOUUUUOO",
		"OOOUUOOO",
	)
}

func TestToCellMap_DoubleResolution(t *testing.T) {
	p, err := New(ring(0, 0, 4, 4, 8, 0))
	require.NoError(t, err)
	m, err := p.ToCellMap(l1coords.Uniform(2))
	require.NoError(t, err)
	assert.Equal(t, 16, m.Width())
	assert.Equal(t, 8, m.Height())

	// the apex row keeps only the two cells straddling x=4
	top := m.Labels()[7]
	for col, label := range top {
		want := l2grid.OutOfMap
		if col == 7 || col == 8 {
			want = l2grid.Unexplored
		}
		assert.Equalf(t, want, label, "top row col %d", col)
	}
}

func TestToCellMap_NegativeCoordinates(t *testing.T) {
	p, err := New(ring(-3, -3, -1, -3, -1, -1, -3, -1))
	require.NoError(t, err)
	m, err := p.ToCellMap(l1coords.Uniform(1))
	require.NoError(t, err)

	assert.Equal(t, l1coords.NewPoint(-3, -3, 0), m.Offset())
	assertRaster(t, m, "UU", "UU")

	label, err := m.GetLocation(l1coords.FromXYZ(-3, -3, 0))
	require.NoError(t, err)
	assert.Equal(t, l2grid.Unexplored, label)
}

func TestToCellMap_ExploredInside(t *testing.T) {
	p, err := New(ring(0, 0, 4, 4, 8, 0), ring(2, 0, 6, 0, 6, 2, 2, 2))
	require.NoError(t, err)
	m, err := p.ToCellMap(l1coords.Uniform(1))
	require.NoError(t, err)

	assertRaster(t, m,
		"UUEEEEUU",
		"OUEEEEUO",
		"OOUUUUOO",
		"OOOUUOOO",
	)
}

func TestToCellMap_ExploredClippedToMap(t *testing.T) {
	var diag bytes.Buffer
	SetLogWriters(nil, &diag, nil)
	defer SetLogWriters(nil, nil, nil)

	p, err := New(ring(0, 0, 4, 4, 8, 0), ring(6, -2, 10, -2, 10, 2, 6, 2))
	require.NoError(t, err)
	m, err := p.ToCellMap(l1coords.Uniform(1))
	require.NoError(t, err)

	// every explored cell landing on the grid is overwritten, including
	// OutOfMap cells inside the bounding box
	assertRaster(t, m,
		"UUUUUUEE",
		"OUUUUUEE",
		"OOUUUUOO",
		"OOOUUOOO",
	)
	assert.Contains(t, diag.String(), "4 cells stamped, 12 outside the map")
}

func TestToCellMap_ExploredEntirelyOutside(t *testing.T) {
	p, err := New(ring(0, 0, 4, 4, 8, 0), ring(20, 20, 22, 20, 22, 22))
	require.NoError(t, err)
	m, err := p.ToCellMap(l1coords.Uniform(1))
	require.NoError(t, err)
	_, hasExplored := m.Counts()[l2grid.Explored]
	assert.False(t, hasExplored)
}

func TestNew_NotEnoughVertices(t *testing.T) {
	tests := []struct {
		name     string
		outline  []l1coords.RealWorldLocation
		explored [][]l1coords.RealWorldLocation
		ring     int
	}{
		{"empty outline", nil, nil, 0},
		{"two vertex outline", ring(0, 0, 1, 1), nil, 0},
		{"short explored region", ring(0, 0, 1, 1, 2, 0), [][]l1coords.RealWorldLocation{ring(0, 0, 1, 1, 1, 0), ring(0, 0)}, 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.outline, tc.explored...)
			if !errors.Is(err, ErrNotEnoughVertices) {
				t.Fatalf("err = %v, want ErrNotEnoughVertices", err)
			}
			var gerr *GeometryError
			if !errors.As(err, &gerr) || gerr.Ring != tc.ring {
				t.Fatalf("err = %#v, want ring %d", err, tc.ring)
			}
		})
	}
}

func TestNew_NonFiniteVertex(t *testing.T) {
	var ops bytes.Buffer
	SetLogWriters(&ops, nil, nil)
	defer SetLogWriters(nil, nil, nil)

	_, err := New(ring(0, 0, math.NaN(), 1, 2, 0))
	require.ErrorIs(t, err, ErrNonFiniteCoordinate)

	var gerr *GeometryError
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, 0, gerr.Ring)
	assert.Equal(t, 1, gerr.Vertex)
	assert.Equal(t, "outline vertex 1: non-finite coordinate", gerr.Error())
	assert.True(t, strings.Contains(ops.String(), "[l3polygon]"))

	_, err = New(ring(0, 0, 1, 1, 2, 0), ring(0, 0, 1, math.Inf(1), 2, 0))
	require.ErrorIs(t, err, ErrNonFiniteCoordinate)
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, "explored region 0 vertex 1: non-finite coordinate", gerr.Error())
}

func TestToCellMap_InvalidGeometry(t *testing.T) {
	tests := []struct {
		name     string
		outline  []l1coords.RealWorldLocation
		explored []l1coords.RealWorldLocation
	}{
		{"collinear diagonal", ring(0, 0, 1, 1, 2, 2), nil},
		{"flat in y", ring(0, 0, 1, 0, 2, 0), nil},
		{"flat in x", ring(3, 0, 3, 1, 3, 5), nil},
		{"repeated point", ring(1, 1, 1, 1, 1, 1), nil},
		{"degenerate explored region", ring(0, 0, 4, 4, 8, 0), ring(1, 0, 2, 0, 3, 0)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var explored [][]l1coords.RealWorldLocation
			if tc.explored != nil {
				explored = append(explored, tc.explored)
			}
			p, err := New(tc.outline, explored...)
			require.NoError(t, err)
			m, err := p.ToCellMap(l1coords.Uniform(1))
			assert.Nil(t, m)
			assert.ErrorIs(t, err, ErrInvalidGeometry)
		})
	}
}

func TestToCellMap_TooLarge(t *testing.T) {
	tests := []struct {
		name     string
		outline  []l1coords.RealWorldLocation
		explored []l1coords.RealWorldLocation
		res      float64
		wantRing int
	}{
		{"extent overflows", ring(-1e308, -1e308, 1e308, -1e308, 0, 1e308), nil, 1, 0},
		{"huge outline", ring(0, 0, 1e12, 0, 0, 1e12), nil, 1, 0},
		{"fine resolution", ring(0, 0, 100, 0, 0, 100), nil, 1000, 0},
		{"huge explored region", ring(0, 0, 4, 4, 8, 0), ring(0, 0, 1e9, 0, 0, 1e9), 1, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var explored [][]l1coords.RealWorldLocation
			if tc.explored != nil {
				explored = append(explored, tc.explored)
			}
			p, err := New(tc.outline, explored...)
			require.NoError(t, err)

			m, err := p.ToCellMap(l1coords.Uniform(tc.res))
			assert.Nil(t, m)
			assert.ErrorIs(t, err, l2grid.ErrMapTooLarge)
			var geoErr *GeometryError
			require.True(t, errors.As(err, &geoErr), "want *GeometryError, got %T", err)
			assert.Equal(t, tc.wantRing, geoErr.Ring)
			assert.Equal(t, -1, geoErr.Vertex)
		})
	}
}

func TestToCellMap_BadResolution(t *testing.T) {
	p, err := New(ring(0, 0, 4, 4, 8, 0))
	require.NoError(t, err)

	_, err = p.ToCellMap(l1coords.Uniform(math.NaN()))
	assert.ErrorIs(t, err, ErrNonFiniteCoordinate)

	_, err = p.ToCellMap(l1coords.AxisResolution{X: 1, Y: math.Inf(1), Z: 1})
	assert.ErrorIs(t, err, ErrNonFiniteCoordinate)

	_, err = p.ToCellMap(l1coords.Uniform(0))
	assert.ErrorIs(t, err, ErrInvalidResolution)

	_, err = p.ToCellMap(l1coords.AxisResolution{X: 1, Y: -1, Z: 1})
	assert.ErrorIs(t, err, ErrInvalidResolution)
}

func TestToCellMap_SubCellPolygon(t *testing.T) {
	p, err := New(ring(0, 0, 0.5, 0, 0.5, 0.5))
	require.NoError(t, err)
	m, err := p.ToCellMap(l1coords.Uniform(1))
	require.NoError(t, err)
	assert.Equal(t, 0, m.Height())
	assert.Empty(t, m.GetMapState(l2grid.Unexplored))
}

func TestNew_CopiesInput(t *testing.T) {
	outline := ring(0, 0, 4, 4, 8, 0)
	explored := ring(2, 0, 6, 0, 6, 2)
	p, err := New(outline, explored)
	require.NoError(t, err)

	outline[0] = l1coords.FromXYZ(100, 100, 0)
	explored[0] = l1coords.FromXYZ(100, 100, 0)

	assert.Equal(t, l1coords.FromXYZ(0, 0, 0), p.Vertices()[0])
	assert.Equal(t, l1coords.FromXYZ(2, 0, 0), p.Explored()[0][0])

	// accessors hand out copies too
	p.Vertices()[1] = l1coords.FromXYZ(-1, -1, 0)
	assert.Equal(t, l1coords.FromXYZ(4, 4, 0), p.Vertices()[1])
}

func TestToCellMap_Deterministic(t *testing.T) {
	p, err := New(ring(-2.5, 1, 3, 7.25, 9, -4, 1, -1), ring(0, 0, 2, 0, 2, 2))
	require.NoError(t, err)
	a, err := p.ToCellMap(l1coords.Uniform(4))
	require.NoError(t, err)
	b, err := p.ToCellMap(l1coords.Uniform(4))
	require.NoError(t, err)
	assert.Equal(t, a.Signature(), b.Signature())
}
