// Command robotmap builds a robot's local coverage map from a request file,
// places the robots on it, renders the requested outputs and optionally
// stores a snapshot in SQLite.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/banshee-data/localmap/internal/config"
	"github.com/banshee-data/localmap/internal/fsutil"
	"github.com/banshee-data/localmap/internal/monitoring"
	"github.com/banshee-data/localmap/internal/robotmap/l3polygon"
	"github.com/banshee-data/localmap/internal/robotmap/l4localmap"
	"github.com/banshee-data/localmap/internal/robotmap/storage/sqlite"
	"github.com/banshee-data/localmap/internal/version"
)

var (
	configPath  = flag.String("config", config.DefaultRequestPath, "Map request file (.json, .yaml or .yml)")
	outDir      = flag.String("out", "", "Output directory (default $ROBOTMAP_OUT or ./out)")
	dbPath      = flag.String("db", "", "Snapshot database (default $ROBOTMAP_DB or robotmap.db)")
	logLevel    = flag.String("log-level", "", "debug, info, warn or error (default $ROBOTMAP_LOG_LEVEL or info)")
	showHistory = flag.Bool("history", false, "List stored snapshots for the request's map name and exit")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

// options is the resolved command line, after flags and environment.
type options struct {
	ConfigPath string
	OutDir     string
	DBPath     string
	LogLevel   string
	History    bool
}

// envOr returns the flag value, else the environment variable, else def.
func envOr(flagValue, key, def string) string {
	if flagValue != "" {
		return flagValue
	}
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func resolveOptions() options {
	return options{
		ConfigPath: *configPath,
		OutDir:     envOr(*outDir, "ROBOTMAP_OUT", "out"),
		DBPath:     envOr(*dbPath, "ROBOTMAP_DB", "robotmap.db"),
		LogLevel:   envOr(*logLevel, "ROBOTMAP_LOG_LEVEL", "info"),
		History:    *showHistory,
	}
}

// wireLogging sends Logf and every package's ops, diag and trace streams
// through l at warn, info and debug level.
func wireLogging(l *zap.Logger) {
	monitoring.UseZap(l)
	ops := monitoring.NewLineWriter(l, zapcore.WarnLevel)
	diag := monitoring.NewLineWriter(l, zapcore.InfoLevel)
	trace := monitoring.NewLineWriter(l, zapcore.DebugLevel)
	l3polygon.SetLogWriters(ops, diag, trace)
	l4localmap.SetLogWriters(ops, diag, trace)
	sqlite.SetLogWriters(ops, diag, trace)
}

// run executes one request. Outputs go to fsys; listings go to stdout.
func run(ctx context.Context, opts options, fsys fsutil.FileSystem, stdout io.Writer) error {
	req, err := config.LoadMapRequest(opts.ConfigPath)
	if err != nil {
		return err
	}
	name := req.GetName()

	if opts.History {
		return history(stdout, opts.DBPath, name)
	}

	grid, err := buildGrid(req)
	if err != nil {
		return fmt.Errorf("build %q: %w", name, err)
	}
	monitoring.Logf("built %q: %v", name, grid)

	lm, err := placeRobots(req, grid)
	if err != nil {
		return fmt.Errorf("place robots on %q: %w", name, err)
	}
	if lm != nil {
		// expanding placement hands back a new grid
		grid = lm.Map()
		monitoring.Logf("placed robots (%s): %v", req.GetPlacement(), lm)
	}

	paths, err := render(ctx, fsys, opts.OutDir, name, grid, req.GetOutputs())
	if err != nil {
		return fmt.Errorf("render %q: %w", name, err)
	}
	for _, p := range paths {
		fmt.Fprintln(stdout, p)
	}

	if req.GetPersist() {
		snap, err := persist(opts.DBPath, name, grid, "placement="+req.GetPlacement())
		if err != nil {
			return fmt.Errorf("persist %q: %w", name, err)
		}
		fmt.Fprintf(stdout, "snapshot %s\n", snap.SnapshotID)
	}
	return nil
}

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	// .env is optional
	_ = godotenv.Load()
	opts := resolveOptions()

	logger, err := monitoring.NewLogger(opts.LogLevel, os.Stderr)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()
	wireLogging(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, fsutil.OSFileSystem{}, os.Stdout); err != nil {
		logger.Error("robotmap failed", zap.Error(err), zap.String("config", opts.ConfigPath))
		stop()
		os.Exit(1)
	}
}
