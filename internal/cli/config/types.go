// Package config loads the CLI configuration: file, environment and
// flag cascade folded into one Config struct. Every heuristic the grid
// uses lives here rather than at a call site, so deployments can tune
// the layout engine against their own data.
package config

import (
	"github.com/gridline-labs/gridline/internal/grid/layout"
	"github.com/gridline-labs/gridline/internal/grid/render"
)

// Default file and value constants.
const (
	DefaultStateFile = "gridline.db"
	DefaultView      = "contacts"
)

// Config is the resolved CLI configuration.
type Config struct {
	// StatePath is the SQLite database holding views, fields, layout
	// overrides and records.
	StatePath string `koanf:"state_path"`

	// View is the default view opened by browse.
	View string `koanf:"view"`

	// Density overrides the view's row density ("compact" or
	// "comfortable"); empty keeps the view's own setting.
	Density string `koanf:"density"`

	Verbose bool `koanf:"verbose"`

	// Layout tunes the column layout pipeline.
	Layout layout.Tuning `koanf:"layout"`

	// Grid tunes the interactive renderer.
	Grid render.Options `koanf:"grid"`
}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		StatePath: DefaultStateFile,
		View:      DefaultView,
		Layout:    layout.DefaultTuning(),
		Grid:      render.DefaultOptions(),
	}
}
