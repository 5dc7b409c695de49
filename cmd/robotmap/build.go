package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/localmap/internal/config"
	"github.com/banshee-data/localmap/internal/fsutil"
	"github.com/banshee-data/localmap/internal/monitoring"
	"github.com/banshee-data/localmap/internal/robotmap/l1coords"
	"github.com/banshee-data/localmap/internal/robotmap/l2grid"
	"github.com/banshee-data/localmap/internal/robotmap/l3polygon"
	"github.com/banshee-data/localmap/internal/robotmap/l4localmap"
	"github.com/banshee-data/localmap/internal/robotmap/storage/sqlite"
	"github.com/banshee-data/localmap/internal/robotmap/visualiser"
	"github.com/banshee-data/localmap/internal/security"
)

// buildGrid turns the region in req into a cell map.
func buildGrid(req *config.MapRequest) (*l2grid.CellMap, error) {
	res := req.GetResolution()
	if len(req.Corners) == 2 {
		if err := res.Validate(); err != nil {
			return nil, err
		}
		return l2grid.New(req.Corners[0].Location(), req.Corners[1].Location(), res)
	}

	explored := make([][]l1coords.RealWorldLocation, len(req.Explored))
	for i, ring := range req.Explored {
		explored[i] = config.Locations(ring)
	}
	poly, err := l3polygon.New(config.Locations(req.Polygon), explored...)
	if err != nil {
		return nil, err
	}
	return poly.ToCellMap(res)
}

// placeRobots places the robots in req on grid with the requested mode. It
// returns nil when the request has no robots.
func placeRobots(req *config.MapRequest, grid *l2grid.CellMap) (*l4localmap.LocalMap, error) {
	if req.MyPosition == nil {
		return nil, nil
	}
	my := req.MyPosition.Location()
	others := config.Locations(req.OtherPositions)
	switch req.GetPlacement() {
	case config.PlacementTolerant:
		return l4localmap.NewTolerant(grid, my, others)
	case config.PlacementExpanding:
		return l4localmap.NewExpanding(grid, my, others)
	default:
		return l4localmap.NewStrict(grid, my, others)
	}
}

// outputPath returns where output kind is written for the map name.
func outputPath(dir, name, kind string) string {
	name = security.MapFileStem(name)
	switch kind {
	case config.OutputGray:
		return filepath.Join(dir, name+"_gray.png")
	case config.OutputPlot:
		return filepath.Join(dir, name+"_plot.png")
	case config.OutputHTML:
		return filepath.Join(dir, name+".html")
	default:
		return filepath.Join(dir, name+".png")
	}
}

// render writes every requested output concurrently and returns the paths
// written, in request order.
func render(ctx context.Context, fsys fsutil.FileSystem, dir, name string, grid *l2grid.CellMap, outputs []string) ([]string, error) {
	g, ctx := errgroup.WithContext(ctx)
	paths := make([]string, len(outputs))
	for i, kind := range outputs {
		path := outputPath(dir, name, kind)
		paths[i] = path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			switch kind {
			case config.OutputGray:
				return visualiser.WritePNG(fsys, path, visualiser.GrayImage(grid))
			case config.OutputPlot:
				p, err := visualiser.PlotCells(grid, name)
				if err != nil {
					return err
				}
				return visualiser.SavePlot(fsys, path, p, 6*vg.Inch, 6*vg.Inch)
			case config.OutputHTML:
				return fsutil.WriteWith(fsys, path, func(w io.Writer) error {
					return visualiser.WriteScatterHTML(w, grid, name)
				})
			default:
				return visualiser.WritePNG(fsys, path, visualiser.RGBImage(grid))
			}
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

// persist stores grid in the snapshot database at dbPath.
func persist(dbPath, name string, grid *l2grid.CellMap, notes string) (*sqlite.Snapshot, error) {
	db, err := sqlite.Open(dbPath)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	snap, err := sqlite.NewGridStore(db).Save(name, grid, notes)
	if err != nil {
		return nil, err
	}
	monitoring.Logf("stored %q as snapshot %s (signature %s)", name, snap.SnapshotID, snap.Signature)
	return snap, nil
}

// history lists the snapshots stored for name.
func history(w io.Writer, dbPath, name string) error {
	db, err := sqlite.Open(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()
	snaps, err := sqlite.NewGridStore(db).List(name)
	if err != nil {
		return err
	}
	for _, s := range snaps {
		fmt.Fprintf(w, "%s\t%dx%d\t%s\t%d\t%s\n", s.SnapshotID, s.Cols, s.Rows, s.Signature, s.CreatedAtNs, s.Notes)
	}
	return nil
}
