package visualiser

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/localmap/internal/robotmap/l2grid"
)

// AssetsHost is where rendered pages load the echarts scripts from.
var AssetsHost = "https://go-echarts.github.io/go-echarts-assets/assets/"

func hexColor(label l2grid.CellLabel) string {
	r, g, b := label.RGB()
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// WriteScatterHTML renders m as an interactive go-echarts scatter chart,
// one series per label colored like the raster images. Points sit at cell
// centers in real-world meters.
func WriteScatterHTML(w io.Writer, m *l2grid.CellMap, title string) error {
	res := m.Resolution()
	off := m.Offset()
	minX, maxX := off.X, off.X+float64(m.Width())/res.X
	minY, maxY := off.Y, off.Y+float64(m.Height())/res.Y

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "900px", Height: "900px", AssetsHost: AssetsHost}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("%dx%d cells offset=%v", m.Width(), m.Height(), off)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: minX, Max: maxX, Name: "X (m)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: minY, Max: maxY, Name: "Y (m)", NameLocation: "middle", NameGap: 30}),
	)

	for _, label := range l2grid.AllLabels {
		centers := cellCenters(m, label)
		if len(centers) == 0 {
			continue
		}
		data := make([]opts.ScatterData, 0, len(centers))
		for _, c := range centers {
			data = append(data, opts.ScatterData{Value: []interface{}{c.X, c.Y}})
		}
		scatter.AddSeries(label.String(), data,
			charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 6}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: hexColor(label)}),
		)
	}
	return scatter.Render(w)
}
