package visualiser

import (
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/banshee-data/localmap/internal/fsutil"
	"github.com/banshee-data/localmap/internal/robotmap/l2grid"
)

// Raster is a grid that can be rendered cell by cell.
type Raster interface {
	Width() int
	Height() int
	At(row, col int) l2grid.CellLabel
}

var _ Raster = (*l2grid.CellMap)(nil)

// RGBImage renders r with one pixel per cell.
func RGBImage(r Raster) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, r.Width(), r.Height()))
	for y := 0; y < r.Height(); y++ {
		for x := 0; x < r.Width(); x++ {
			cr, cg, cb := r.At(y, x).RGB()
			img.SetRGBA(x, y, color.RGBA{R: cr, G: cg, B: cb, A: 0xff})
		}
	}
	return img
}

// GrayImage renders r in grayscale with one pixel per cell.
func GrayImage(r Raster) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, r.Width(), r.Height()))
	for y := 0; y < r.Height(); y++ {
		for x := 0; x < r.Width(); x++ {
			img.SetGray(x, y, color.Gray{Y: r.At(y, x).Gray()})
		}
	}
	return img
}

// WritePNG encodes img as PNG to path on fsys.
func WritePNG(fsys fsutil.FileSystem, path string, img image.Image) error {
	return fsutil.WriteWith(fsys, path, func(w io.Writer) error {
		return png.Encode(w, img)
	})
}
