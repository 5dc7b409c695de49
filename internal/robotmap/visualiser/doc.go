// Package visualiser renders cell maps for humans: raster images, static
// scatter plots and interactive HTML charts.
//
// Pixel (x, y) of every raster image is cell (row=y, col=x). Colors come
// from l2grid.CellLabel.RGB and Gray. Renderers only read the map.
package visualiser
