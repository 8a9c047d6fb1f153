// Package config holds the editor tunables. Values come from the
// defaults, then an optional rc file, then command-line flags.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"diagramstudio/diagram"
	"diagramstudio/geometry"
	"diagramstudio/interaction"
	"diagramstudio/snapping"
	"diagramstudio/viewport"
)

// RCFile is the name of the user config file in the home directory.
const RCFile = ".diagramstudiorc"

// ErrInvalidValue is returned for rc values that do not parse.
var ErrInvalidValue = errors.New("invalid config value")

// Config is the full set of editor tunables.
type Config struct {
	GridSize           float64
	SnapThreshold      float64
	DragThreshold      float64
	PasteOffset        float64
	QuickCreateSpacing float64
	QuickCreateTries   int
	MinZoom            float64
	MaxZoom            float64
	ZoomStep           float64
	EdgePanZone        float64
	EdgePanSpeed       float64
	CanvasSize         float64
	LineStyle          diagram.LineStyle
	SystemClipboard    bool
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		GridSize:           interaction.DefaultGridSize,
		SnapThreshold:      snapping.DefaultThreshold,
		DragThreshold:      interaction.DefaultDragThreshold,
		PasteOffset:        interaction.DefaultPasteOffset,
		QuickCreateSpacing: interaction.DefaultQuickCreateSpacing,
		QuickCreateTries:   interaction.DefaultQuickCreateTries,
		MinZoom:            viewport.DefaultMinZoom,
		MaxZoom:            viewport.DefaultMaxZoom,
		ZoomStep:           viewport.WheelStep,
		EdgePanZone:        interaction.DefaultEdgePanZone,
		EdgePanSpeed:       interaction.DefaultEdgePanSpeed,
		CanvasSize:         interaction.DefaultCanvasSize,
		LineStyle:          diagram.LineCurved,
		SystemClipboard:    true,
	}
}

// LoadUserConfig reads ~/.diagramstudiorc over the defaults. A missing
// file or home directory is not an error.
func LoadUserConfig() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Default(), nil
	}
	cfg, err := Load(filepath.Join(home, RCFile))
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Load reads an rc file over the defaults.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Default(), err
	}
	defer f.Close()

	cfg := Default()
	if err := cfg.Parse(f); err != nil {
		return Default(), fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse applies "key = value" lines to c. Blank lines, # comments and
// unknown keys are skipped; values that do not parse are errors.
func (c *Config) Parse(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		if err := c.set(key, value); err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	return scanner.Err()
}

func (c *Config) set(key, value string) error {
	num := func(dst *float64) error {
		v, err := strconv.ParseFloat(value, 64)
		if err != nil || geometry.Finite(v, -1) < 0 {
			return fmt.Errorf("%w: %s = %q", ErrInvalidValue, key, value)
		}
		*dst = v
		return nil
	}

	switch key {
	case "grid", "grid_size", "gridsize":
		return num(&c.GridSize)
	case "snap", "snap_threshold":
		return num(&c.SnapThreshold)
	case "drag_threshold":
		return num(&c.DragThreshold)
	case "paste_offset":
		return num(&c.PasteOffset)
	case "quick_create_spacing":
		return num(&c.QuickCreateSpacing)
	case "quick_create_tries":
		v, err := strconv.Atoi(value)
		if err != nil || v < 1 {
			return fmt.Errorf("%w: %s = %q", ErrInvalidValue, key, value)
		}
		c.QuickCreateTries = v
	case "min_zoom":
		return num(&c.MinZoom)
	case "max_zoom":
		return num(&c.MaxZoom)
	case "zoom_step":
		return num(&c.ZoomStep)
	case "edge_pan_zone":
		return num(&c.EdgePanZone)
	case "edge_pan_speed":
		return num(&c.EdgePanSpeed)
	case "canvas_size":
		return num(&c.CanvasSize)
	case "line_style", "linestyle":
		style := diagram.LineStyle(strings.ToLower(value))
		switch style {
		case diagram.LineStraight, diagram.LineArc, diagram.LineCurved,
			diagram.LineSmart, diagram.LineStep, diagram.LineStepSharp:
			c.LineStyle = style
		default:
			return fmt.Errorf("%w: %s = %q", ErrInvalidValue, key, value)
		}
	case "system_clipboard", "clipboard":
		c.SystemClipboard = strings.ToLower(value) == "true"
	}
	return nil
}

// RegisterFlags binds command-line flags to c with the current values as
// defaults. Call it after loading the rc file so flags win.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.Float64Var(&c.GridSize, "grid", c.GridSize, "Grid size for snapping element positions")
	fs.Float64Var(&c.SnapThreshold, "snap", c.SnapThreshold, "Alignment snap threshold in diagram units")
	fs.Float64Var(&c.MinZoom, "min-zoom", c.MinZoom, "Minimum zoom factor")
	fs.Float64Var(&c.MaxZoom, "max-zoom", c.MaxZoom, "Maximum zoom factor")
	fs.Func("line-style", "Line style for new connections: straight, arc, curved, smart, step, step-sharp", func(s string) error {
		return c.set("line_style", s)
	})
	fs.BoolVar(&c.SystemClipboard, "system-clipboard", c.SystemClipboard, "Mirror copied selections to the system clipboard")
}

// Options converts the config to coordinator options. Collaborators
// (ids, boards, frame sources) are left for the caller.
func (c Config) Options() interaction.Options {
	half := c.CanvasSize / 2
	return interaction.Options{
		GridSize:           c.GridSize,
		SnapThreshold:      c.SnapThreshold,
		DragThreshold:      c.DragThreshold,
		PasteOffset:        c.PasteOffset,
		QuickCreateSpacing: c.QuickCreateSpacing,
		QuickCreateTries:   c.QuickCreateTries,
		EdgePanZone:        c.EdgePanZone,
		EdgePanSpeed:       c.EdgePanSpeed,
		MinZoom:            c.MinZoom,
		MaxZoom:            c.MaxZoom,
		ZoomStep:           c.ZoomStep,
		CanvasBounds:       geometry.R(-half, -half, c.CanvasSize, c.CanvasSize),
		DefaultLineStyle:   c.LineStyle,
	}
}
