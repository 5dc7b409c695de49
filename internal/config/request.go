package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/banshee-data/localmap/internal/robotmap/l1coords"
)

// DefaultRequestPath is the example request shipped with the repository.
const DefaultRequestPath = "config/map.example.yaml"

const maxFileSize = 1 * 1024 * 1024 // 1MB

// Placement modes accepted in a request.
const (
	PlacementStrict    = "strict"
	PlacementTolerant  = "tolerant"
	PlacementExpanding = "expanding"
)

// Output kinds accepted in a request.
const (
	OutputPNG  = "png"
	OutputGray = "gray"
	OutputPlot = "plot"
	OutputHTML = "html"
)

// Coordinate is a real-world position in a request file. Z may be omitted.
type Coordinate struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z,omitempty" yaml:"z,omitempty"`
}

// Location converts c for use with the map packages.
func (c Coordinate) Location() l1coords.RealWorldLocation {
	return l1coords.FromXYZ(c.X, c.Y, c.Z)
}

func (c Coordinate) finite() bool {
	return l1coords.NewPoint(c.X, c.Y, c.Z).IsFinite()
}

// MapRequest describes the map to build: either a bounding box (two
// corners) or a polygon with optional explored regions, plus optional robot
// positions and the outputs to produce.
//
// Unset fields fall back to the defaults returned by the Get* methods.
type MapRequest struct {
	Name *string `json:"name,omitempty" yaml:"name,omitempty"`

	// Resolution is in cells per meter on every axis. ResolutionX and
	// ResolutionY override it per axis.
	Resolution  *float64 `json:"resolution,omitempty" yaml:"resolution,omitempty"`
	ResolutionX *float64 `json:"resolution_x,omitempty" yaml:"resolution_x,omitempty"`
	ResolutionY *float64 `json:"resolution_y,omitempty" yaml:"resolution_y,omitempty"`

	Corners  []Coordinate   `json:"corners,omitempty" yaml:"corners,omitempty"`
	Polygon  []Coordinate   `json:"polygon,omitempty" yaml:"polygon,omitempty"`
	Explored [][]Coordinate `json:"explored,omitempty" yaml:"explored,omitempty"`

	MyPosition     *Coordinate  `json:"my_position,omitempty" yaml:"my_position,omitempty"`
	OtherPositions []Coordinate `json:"other_positions,omitempty" yaml:"other_positions,omitempty"`
	Placement      *string      `json:"placement,omitempty" yaml:"placement,omitempty"`

	Outputs []string `json:"outputs,omitempty" yaml:"outputs,omitempty"`
	Persist *bool    `json:"persist,omitempty" yaml:"persist,omitempty"`
}

// LoadMapRequest loads a MapRequest from a .json, .yaml or .yml file no
// larger than 1MB, and validates it.
func LoadMapRequest(path string) (*MapRequest, error) {
	cleanPath := filepath.Clean(path)
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(cleanPath)), ".")
	switch format {
	case "json", "yaml", "yml":
	default:
		return nil, fmt.Errorf("config file must have .json, .yaml or .yml extension, got %q", filepath.Ext(cleanPath))
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseMapRequest(data, format)
}

// ParseMapRequest decodes data as "json" or "yaml"/"yml" and validates it.
// Unknown fields are rejected.
func ParseMapRequest(data []byte, format string) (*MapRequest, error) {
	req := &MapRequest{}
	switch format {
	case "json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(req); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	case "yaml", "yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(req); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", format)
	}

	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return req, nil
}

// MustLoadExample loads DefaultRequestPath, searching the current directory
// and its parents. Panics if the file cannot be loaded, intended for tests.
func MustLoadExample() *MapRequest {
	candidates := []string{
		DefaultRequestPath,
		"../" + DefaultRequestPath,
		"../../" + DefaultRequestPath, // from internal/config/
		"../../../" + DefaultRequestPath,
	}
	for _, path := range candidates {
		if req, err := LoadMapRequest(path); err == nil {
			return req
		}
	}
	panic("cannot find " + DefaultRequestPath + " - run tests from repository root")
}

// Validate checks that the request describes exactly one region and that
// every value is usable.
func (r *MapRequest) Validate() error {
	hasBox, hasPolygon := len(r.Corners) > 0, len(r.Polygon) > 0
	switch {
	case hasBox && hasPolygon:
		return fmt.Errorf("corners and polygon are mutually exclusive")
	case !hasBox && !hasPolygon:
		return fmt.Errorf("one of corners or polygon is required")
	case hasBox && len(r.Corners) != 2:
		return fmt.Errorf("corners must have exactly 2 entries, got %d", len(r.Corners))
	case hasBox && len(r.Explored) > 0:
		return fmt.Errorf("explored regions need a polygon")
	}

	for _, f := range []struct {
		name string
		v    *float64
	}{{"resolution", r.Resolution}, {"resolution_x", r.ResolutionX}, {"resolution_y", r.ResolutionY}} {
		if f.v != nil && (math.IsNaN(*f.v) || math.IsInf(*f.v, 0) || *f.v <= 0) {
			return fmt.Errorf("%s must be a positive finite number, got %v", f.name, *f.v)
		}
	}

	check := func(field string, cs []Coordinate) error {
		for i, c := range cs {
			if !c.finite() {
				return fmt.Errorf("%s[%d] has a non-finite coordinate", field, i)
			}
		}
		return nil
	}
	if err := check("corners", r.Corners); err != nil {
		return err
	}
	if err := check("polygon", r.Polygon); err != nil {
		return err
	}
	for i, ring := range r.Explored {
		if err := check(fmt.Sprintf("explored[%d]", i), ring); err != nil {
			return err
		}
	}
	if err := check("other_positions", r.OtherPositions); err != nil {
		return err
	}
	if r.MyPosition != nil && !r.MyPosition.finite() {
		return fmt.Errorf("my_position has a non-finite coordinate")
	}
	if r.MyPosition == nil && len(r.OtherPositions) > 0 {
		return fmt.Errorf("other_positions need my_position")
	}

	if r.Placement != nil {
		switch *r.Placement {
		case PlacementStrict, PlacementTolerant, PlacementExpanding:
		default:
			return fmt.Errorf("placement must be one of %s, %s, %s; got %q",
				PlacementStrict, PlacementTolerant, PlacementExpanding, *r.Placement)
		}
	}
	seen := make(map[string]bool, len(r.Outputs))
	for _, o := range r.Outputs {
		switch o {
		case OutputPNG, OutputGray, OutputPlot, OutputHTML:
		default:
			return fmt.Errorf("unknown output %q", o)
		}
		// each output kind maps to a single file
		if seen[o] {
			return fmt.Errorf("duplicate output %q", o)
		}
		seen[o] = true
	}
	return nil
}

// GetName returns the map name or "map".
func (r *MapRequest) GetName() string {
	if r.Name == nil || *r.Name == "" {
		return "map"
	}
	return *r.Name
}

// GetResolution returns the per-axis resolution. Axes without a value use
// Resolution, which defaults to 1 cell per meter.
func (r *MapRequest) GetResolution() l1coords.AxisResolution {
	uniform := 1.0
	if r.Resolution != nil {
		uniform = *r.Resolution
	}
	res := l1coords.Uniform(uniform)
	if r.ResolutionX != nil {
		res.X = *r.ResolutionX
	}
	if r.ResolutionY != nil {
		res.Y = *r.ResolutionY
	}
	return res
}

// GetPlacement returns the placement mode or PlacementStrict.
func (r *MapRequest) GetPlacement() string {
	if r.Placement == nil {
		return PlacementStrict
	}
	return *r.Placement
}

// GetOutputs returns the requested outputs, or just OutputPNG.
func (r *MapRequest) GetOutputs() []string {
	if len(r.Outputs) == 0 {
		return []string{OutputPNG}
	}
	return r.Outputs
}

// GetPersist returns the persist flag or false.
func (r *MapRequest) GetPersist() bool {
	if r.Persist == nil {
		return false
	}
	return *r.Persist
}

// Locations converts cs for use with the map packages.
func Locations(cs []Coordinate) []l1coords.RealWorldLocation {
	out := make([]l1coords.RealWorldLocation, len(cs))
	for i, c := range cs {
		out[i] = c.Location()
	}
	return out
}
