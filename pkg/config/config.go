// Package config loads pagereview settings from a TOML file.
//
// Every key is optional. Missing keys keep the values from [Default], and a
// partially specified snap source only replaces the fields it names:
//
//	[box]
//	min_size = 12
//	prior_threshold = 8
//
//	[hit]
//	base_px = 6
//	floor_px = 3
//	min_zoom = 0.5
//
//	[snap]
//	enabled = true
//
//	[snap.sources.detected]
//	radius = 14
//
//	[layers]
//	visible = ["rulers", "margin-guides", "baseline-grid"]
//
//	[groups.visible]
//	diagnostic = false
//
//	[groups.opacity]
//	detected = 0.6
package config

import (
	"io"
	"maps"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/asteria/pagereview/pkg/errors"
	"github.com/asteria/pagereview/pkg/geometry"
	"github.com/asteria/pagereview/pkg/guides"
	"github.com/asteria/pagereview/pkg/snap"
)

// EnvVar names the environment variable holding an explicit config path.
const EnvVar = "PAGEREVIEW_CONFIG"

const appName = "pagereview"

// Config is the complete set of tunables.
type Config struct {
	Box    BoxConfig    `toml:"box"`
	Hit    HitConfig    `toml:"hit"`
	Snap   SnapConfig   `toml:"snap"`
	Layers LayersConfig `toml:"layers"`
	Groups GroupsConfig `toml:"groups"`
	Store  StoreConfig  `toml:"store"`
}

type BoxConfig struct {
	MinSize        float64 `toml:"min_size"`
	PriorThreshold float64 `toml:"prior_threshold"`
}

type HitConfig struct {
	BasePx  float64 `toml:"base_px"`
	FloorPx float64 `toml:"floor_px"`
	MinZoom float64 `toml:"min_zoom"`
}

type SnapConfig struct {
	Enabled bool                     `toml:"enabled"`
	Sources map[string]snap.Settings `toml:"sources"`
}

type LayersConfig struct {
	// Visible, when non-empty, replaces the registry defaults: listed layers
	// are shown and every other catalogued layer is hidden.
	Visible []string `toml:"visible"`
}

type GroupsConfig struct {
	Visible map[string]bool    `toml:"visible"`
	Opacity map[string]float64 `toml:"opacity"`
}

type StoreConfig struct {
	// Dir is the patch store root. Empty means the XDG data directory.
	Dir string `toml:"dir"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Box: BoxConfig{MinSize: geometry.DefaultMinSize, PriorThreshold: 8},
		Hit: HitConfig{BasePx: guides.HitTargetPx, FloorPx: guides.MinHitTolerancePx, MinZoom: guides.MinEffectiveZoom},
		Snap: SnapConfig{
			Enabled: true,
			Sources: snap.DefaultSettings(),
		},
	}
}

// Load reads the config file at path, or the file named by Path when path is
// empty. A missing file in the default locations yields Default; a missing
// file named by path or $PAGEREVIEW_CONFIG is an error.
func Load(path string) (Config, error) {
	explicit := path != "" || os.Getenv(EnvVar) != ""
	if !explicit {
		path = Path()
	}
	if path == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !explicit {
			return Default(), nil
		}
		return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInternal, err, "read config %s", path)
	}
	return Parse(data)
}

// Parse decodes TOML on top of Default and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	defaults := cfg.Snap.Sources
	cfg.Snap.Sources = nil

	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown config key %q", undecoded[0].String())
	}
	cfg.Snap.Sources = mergeSources(defaults, cfg.Snap.Sources, md)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// mergeSources fills fields a source table left out from the default settings
// for that source id.
func mergeSources(defaults, decoded map[string]snap.Settings, md toml.MetaData) map[string]snap.Settings {
	out := maps.Clone(defaults)
	for id, s := range decoded {
		base, ok := out[id]
		if !ok {
			out[id] = s
			continue
		}
		defined := func(key string) bool { return md.IsDefined("snap", "sources", id, key) }
		if defined("priority") {
			base.Priority = s.Priority
		}
		if defined("min_confidence") {
			base.MinConfidence = s.MinConfidence
		}
		if defined("weight") {
			base.Weight = s.Weight
		}
		if defined("radius") {
			base.Radius = s.Radius
		}
		out[id] = base
	}
	return out
}

// Validate rejects values the engines cannot work with.
func (c Config) Validate() error {
	if !geometry.Finite(c.Box.MinSize) || c.Box.MinSize <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "box.min_size must be positive, got %v", c.Box.MinSize)
	}
	if !geometry.Finite(c.Box.PriorThreshold) || c.Box.PriorThreshold < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "box.prior_threshold must not be negative, got %v", c.Box.PriorThreshold)
	}
	if c.Hit.BasePx <= 0 || c.Hit.FloorPx < 0 || c.Hit.MinZoom <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "hit sizes must be positive")
	}
	for id, s := range c.Snap.Sources {
		if !geometry.Finite(s.Radius) || s.Radius < 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "snap.sources.%s.radius must not be negative, got %v", id, s.Radius)
		}
		if !geometry.Finite(s.Weight) || s.Weight < 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "snap.sources.%s.weight must not be negative, got %v", id, s.Weight)
		}
	}
	for _, id := range c.Layers.Visible {
		if _, ok := guides.Lookup(id); !ok {
			return errors.New(errors.ErrCodeInvalidConfig, "layers.visible: unknown layer %q", id)
		}
	}
	for name, v := range c.Groups.Opacity {
		if _, ok := guides.ParseGroup(name); !ok {
			return errors.New(errors.ErrCodeInvalidConfig, "groups.opacity: unknown group %q", name)
		}
		if !geometry.Finite(v) || v < 0 || v > 1 {
			return errors.New(errors.ErrCodeInvalidConfig, "groups.opacity.%s must be within [0,1], got %v", name, v)
		}
	}
	for name := range c.Groups.Visible {
		if _, ok := guides.ParseGroup(name); !ok {
			return errors.New(errors.ErrCodeInvalidConfig, "groups.visible: unknown group %q", name)
		}
	}
	return nil
}

// HitParams converts the hit section for the guide hit tester.
func (c Config) HitParams() guides.HitParams {
	return guides.HitParams{TargetPx: c.Hit.BasePx, FloorPx: c.Hit.FloorPx, MinZoom: c.Hit.MinZoom}
}

// RenderOptions builds guide render options from the layer and group
// sections. Zoom, canvas and active guide are left for the caller.
func (c Config) RenderOptions() guides.RenderOptions {
	var opts guides.RenderOptions
	if len(c.Layers.Visible) > 0 {
		opts.VisibleLayers = make(map[string]bool)
		for _, spec := range guides.Catalog() {
			opts.VisibleLayers[spec.ID] = false
		}
		for _, id := range c.Layers.Visible {
			opts.VisibleLayers[id] = true
		}
	}
	for name, v := range c.Groups.Visible {
		g, _ := guides.ParseGroup(name)
		if opts.GroupVisibility == nil {
			opts.GroupVisibility = make(map[guides.Group]bool)
		}
		opts.GroupVisibility[g] = v
	}
	for name, v := range c.Groups.Opacity {
		g, _ := guides.ParseGroup(name)
		if opts.GroupOpacity == nil {
			opts.GroupOpacity = make(map[guides.Group]float64)
		}
		opts.GroupOpacity[g] = v
	}
	return opts
}

// Path returns the config file location: $PAGEREVIEW_CONFIG, then
// $XDG_CONFIG_HOME/pagereview/config.toml, then ~/.config/pagereview/config.toml.
// It returns "" only when no home directory can be determined.
func Path() string {
	if p := os.Getenv(EnvVar); p != "" {
		return p
	}
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName, "config.toml")
}

// Encode writes cfg as TOML.
func Encode(w io.Writer, cfg Config) error {
	return toml.NewEncoder(w).Encode(cfg)
}
