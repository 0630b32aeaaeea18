package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/asteria/pagereview/pkg/errors"
	"github.com/asteria/pagereview/pkg/guides"
	"github.com/asteria/pagereview/pkg/snap"
)

func TestParseEmptyIsDefault(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestParsePartialSource(t *testing.T) {
	data := []byte(`
[box]
min_size = 20

[snap]
enabled = false

[snap.sources.detected]
radius = 14

[snap.sources.ruler]
priority = 5
weight = 1
radius = 4
`)
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if cfg.Box.MinSize != 20 || cfg.Box.PriorThreshold != 8 {
		t.Errorf("Box = %+v", cfg.Box)
	}
	if cfg.Snap.Enabled {
		t.Error("snap.enabled should be false")
	}

	want := snap.DefaultSettings()[snap.SourceDetected]
	want.Radius = 14
	if got := cfg.Snap.Sources[snap.SourceDetected]; got != want {
		t.Errorf("detected = %+v, want %+v", got, want)
	}
	if got := cfg.Snap.Sources[snap.SourceTemplate]; got != snap.DefaultSettings()[snap.SourceTemplate] {
		t.Errorf("template settings changed: %+v", got)
	}
	if got := cfg.Snap.Sources["ruler"]; got.Priority != 5 || got.Radius != 4 {
		t.Errorf("ruler = %+v", got)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", "[box\nmin_size = 1"},
		{"unknown key", "[box]\nmax_size = 3"},
		{"zero min size", "[box]\nmin_size = 0"},
		{"negative radius", "[snap.sources.user]\nradius = -1"},
		{"opacity range", "[groups.opacity]\ndetected = 1.5"},
		{"unknown group", "[groups.visible]\nfancy = true"},
		{"unknown layer", "[layers]\nvisible = [\"nope\"]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Parse() error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[hit]\nbase_px = 8\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Hit.BasePx != 8 || cfg.Hit.FloorPx != 3 {
		t.Errorf("Hit = %+v", cfg.Hit)
	}

	if _, err := Load(filepath.Join(dir, "missing.toml")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("explicit missing path error = %v, want FILE_NOT_FOUND", err)
	}

	t.Setenv(EnvVar, filepath.Join(dir, "typo.toml"))
	if _, err := Load(""); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing $%s file error = %v, want FILE_NOT_FOUND", EnvVar, err)
	}
	t.Setenv(EnvVar, path)
	if cfg, err := Load(""); err != nil || cfg.Hit.BasePx != 8 {
		t.Errorf("Load via $%s = %+v, %v", EnvVar, cfg.Hit, err)
	}

	t.Setenv(EnvVar, "")
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	cfg, err = Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("missing search-path file should yield defaults (-want +got):\n%s", diff)
	}
}

func TestPath(t *testing.T) {
	t.Setenv(EnvVar, "/etc/pr.toml")
	if got := Path(); got != "/etc/pr.toml" {
		t.Errorf("Path() = %q, want env override", got)
	}

	t.Setenv(EnvVar, "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	if got, want := Path(), filepath.Join("/xdg", "pagereview", "config.toml"); got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}

func TestRenderOptions(t *testing.T) {
	cfg, err := Parse([]byte(`
[layers]
visible = ["baseline-grid"]

[groups.visible]
diagnostic = false

[groups.opacity]
detected = 0.5
`))
	if err != nil {
		t.Fatal(err)
	}
	opts := cfg.RenderOptions()
	if !opts.VisibleLayers[guides.LayerBaselineGrid] || opts.VisibleLayers[guides.LayerRulers] {
		t.Errorf("VisibleLayers = %v", opts.VisibleLayers)
	}
	if v, ok := opts.GroupVisibility[guides.GroupDiagnostic]; !ok || v {
		t.Errorf("GroupVisibility = %v", opts.GroupVisibility)
	}
	if opts.GroupOpacity[guides.GroupDetected] != 0.5 {
		t.Errorf("GroupOpacity = %v", opts.GroupOpacity)
	}

	if opts := Default().RenderOptions(); opts.VisibleLayers != nil {
		t.Error("default config should leave registry visibility alone")
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, Default()); err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	cfg, err := Parse(buf.Bytes())
	if err != nil {
		t.Fatalf("Parse(encoded) error: %v\n%s", err, buf.String())
	}
	if diff := cmp.Diff(Default(), cfg, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}
