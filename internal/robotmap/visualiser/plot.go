package visualiser

import (
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/banshee-data/localmap/internal/fsutil"
	"github.com/banshee-data/localmap/internal/robotmap/l1coords"
	"github.com/banshee-data/localmap/internal/robotmap/l2grid"
)

// cellCenters returns the real-world center of every cell labeled label.
func cellCenters(m *l2grid.CellMap, label l2grid.CellLabel) []l1coords.Point {
	res := m.Resolution()
	cells := m.GetMapState(label)
	out := make([]l1coords.Point, len(cells))
	for i, c := range cells {
		out[i] = l1coords.Point{
			X: c.Location.X + 0.5/res.X,
			Y: c.Location.Y + 0.5/res.Y,
			Z: c.Location.Z,
		}
	}
	return out
}

// PlotCells draws one scatter series per label present on m, in real-world
// meters. OutOfMap cells are left out.
func PlotCells(m *l2grid.CellMap, title string) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "X (m)"
	p.Y.Label.Text = "Y (m)"

	radius := vg.Points(2)
	for _, label := range l2grid.AllLabels {
		if label == l2grid.OutOfMap {
			continue
		}
		centers := cellCenters(m, label)
		if len(centers) == 0 {
			continue
		}
		pts := make(plotter.XYs, len(centers))
		for i, c := range centers {
			pts[i] = plotter.XY{X: c.X, Y: c.Y}
		}
		s, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, fmt.Errorf("%v series: %w", label, err)
		}
		r, g, b := label.RGB()
		s.GlyphStyle.Color = color.RGBA{R: r, G: g, B: b, A: 0xff}
		s.GlyphStyle.Shape = draw.BoxGlyph{}
		s.GlyphStyle.Radius = radius
		p.Add(s)
		p.Legend.Add(label.String(), s)
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10
	return p, nil
}

// SavePlot writes p as a PNG of the given size to path on fsys.
func SavePlot(fsys fsutil.FileSystem, path string, p *plot.Plot, width, height vg.Length) error {
	wt, err := p.WriterTo(width, height, "png")
	if err != nil {
		return fmt.Errorf("render plot: %w", err)
	}
	return fsutil.WriteWith(fsys, path, func(w io.Writer) error {
		_, err := wt.WriteTo(w)
		return err
	})
}
