// ABOUTME: YAML configuration for routing, registry policy, layout metrics, the HTTP server, and snapshots.
// ABOUTME: Values from a file are layered over defaults; unknown keys are rejected.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/2389-research/patchbay/geom"
	"github.com/2389-research/patchbay/graph"
	"github.com/2389-research/patchbay/render"
	"github.com/2389-research/patchbay/route"
	"gopkg.in/yaml.v3"
)

// Config is the full patchbay configuration.
type Config struct {
	Router   RouterConfig   `yaml:"router"`
	Graph    GraphConfig    `yaml:"graph"`
	Layout   LayoutConfig   `yaml:"layout"`
	Server   ServerConfig   `yaml:"server"`
	Snapshot SnapshotConfig `yaml:"snapshot"`
}

// RouterConfig shapes connection curves.
type RouterConfig struct {
	GrowOffset float64 `yaml:"grow_offset"`
	// Tension is the Catmull-Rom alpha used when drawing wires.
	Tension float64 `yaml:"tension"`
}

// GraphConfig sets registry policy.
type GraphConfig struct {
	AllowFanIn      bool           `yaml:"allow_fan_in"`
	DefaultPosition graph.Position `yaml:"default_position"`
}

// LayoutConfig holds node metrics per renderer.
type LayoutConfig struct {
	Pixel render.Layout `yaml:"pixel"`
	Cell  render.Layout `yaml:"cell"`
}

// ServerConfig configures the HTTP editor API.
type ServerConfig struct {
	Addr        string        `yaml:"addr"`
	MaxSessions int           `yaml:"max_sessions"`
	SessionTTL  time.Duration `yaml:"session_ttl"`
	CacheTTL    time.Duration `yaml:"cache_ttl"`
}

// SnapshotConfig configures PNG output.
type SnapshotConfig struct {
	Padding  float64 `yaml:"padding"`
	FontSize float64 `yaml:"font_size"`
	// MaxSize caps the snapshot width and height in pixels.
	MaxSize int `yaml:"max_size"`
}

// Default returns the built-in configuration.
func Default() Config {
	png := render.DefaultPNGOptions()
	return Config{
		Router: RouterConfig{
			GrowOffset: geom.DefaultGrowOffset,
			Tension:    geom.DefaultAlpha,
		},
		Graph: GraphConfig{
			DefaultPosition: graph.DefaultPosition,
		},
		Layout: LayoutConfig{
			Pixel: render.PixelLayout,
			Cell:  render.CellLayout,
		},
		Server: ServerConfig{
			Addr:        ":2389",
			MaxSessions: 64,
			SessionTTL:  time.Hour,
			CacheTTL:    5 * time.Minute,
		},
		Snapshot: SnapshotConfig{
			Padding:  png.Padding,
			FontSize: png.FontSize,
			MaxSize:  png.MaxSize,
		},
	}
}

// Load reads a YAML file over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every out-of-range value.
func (c Config) Validate() error {
	var errs []error
	if c.Router.GrowOffset < 0 {
		errs = append(errs, fmt.Errorf("router.grow_offset must be >= 0, got %g", c.Router.GrowOffset))
	}
	if c.Router.Tension < 0 || c.Router.Tension > 1 {
		errs = append(errs, fmt.Errorf("router.tension must be in [0,1], got %g", c.Router.Tension))
	}
	checkLayout := func(name string, l render.Layout) {
		if l.Width <= 0 || l.HeaderHeight <= 0 || l.RowHeight <= 0 {
			errs = append(errs, fmt.Errorf("layout.%s: width, header_height and row_height must be positive", name))
		}
	}
	checkLayout("pixel", c.Layout.Pixel)
	checkLayout("cell", c.Layout.Cell)
	if c.Server.MaxSessions <= 0 {
		errs = append(errs, fmt.Errorf("server.max_sessions must be positive, got %d", c.Server.MaxSessions))
	}
	if c.Server.SessionTTL <= 0 {
		errs = append(errs, fmt.Errorf("server.session_ttl must be positive, got %s", c.Server.SessionTTL))
	}
	if c.Snapshot.Padding < 0 {
		errs = append(errs, fmt.Errorf("snapshot.padding must be >= 0, got %g", c.Snapshot.Padding))
	}
	if c.Snapshot.MaxSize <= 0 {
		errs = append(errs, fmt.Errorf("snapshot.max_size must be positive, got %d", c.Snapshot.MaxSize))
	}
	return errors.Join(errs...)
}

// NewRouter returns the connection router described by the config.
func (c Config) NewRouter() route.Router {
	return route.New(c.Router.GrowOffset)
}

// RegistryOptions returns the registry options described by the config.
// The caller adds its own surface.
func (c Config) RegistryOptions() []graph.Option {
	return []graph.Option{
		graph.WithRouter(c.NewRouter()),
		graph.WithFanIn(c.Graph.AllowFanIn),
		graph.WithDefaultPosition(c.Graph.DefaultPosition),
	}
}

// PNGOptions returns the rasteriser options described by the config.
func (c Config) PNGOptions() render.PNGOptions {
	return render.PNGOptions{
		Padding:  c.Snapshot.Padding,
		Alpha:    c.Router.Tension,
		FontSize: c.Snapshot.FontSize,
		MaxSize:  c.Snapshot.MaxSize,
	}
}
