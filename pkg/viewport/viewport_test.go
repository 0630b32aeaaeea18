package viewport

import (
	"math"
	"testing"

	"github.com/asteria/pagereview/pkg/geometry"
)

func TestCalculateOverlayScale(t *testing.T) {
	tests := []struct {
		name    string
		crop    *geometry.Box
		preview *Dims
		want    Scale
		wantOK  bool
	}{
		{
			name:    "crop box extent plus one",
			crop:    &geometry.Box{MinX: 0, MinY: 0, MaxX: 99, MaxY: 199},
			preview: &Dims{Width: 200, Height: 400},
			want:    Scale{X: 2, Y: 2},
			wantOK:  true,
		},
		{
			name:    "offset crop box",
			crop:    &geometry.Box{MinX: 100, MinY: 50, MaxX: 199, MaxY: 99},
			preview: &Dims{Width: 50, Height: 100},
			want:    Scale{X: 0.5, Y: 2},
			wantOK:  true,
		},
		{
			name:    "no crop box uses preview",
			preview: &Dims{Width: 640, Height: 480},
			want:    Scale{X: 1, Y: 1},
			wantOK:  true,
		},
		{
			name:   "no preview",
			crop:   &geometry.Box{MaxX: 10, MaxY: 10},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CalculateOverlayScale(tt.crop, tt.preview)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("CalculateOverlayScale = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestMapClientPointToOutput(t *testing.T) {
	m := Mapping{
		Rect:    Rect{Left: 10, Top: 20, Width: 400, Height: 200},
		Preview: Dims{Width: 200, Height: 100},
		Scale:   Scale{X: 2, Y: 2},
	}
	got, ok := MapClientPointToOutput(m, 210, 120)
	if !ok {
		t.Fatal("MapClientPointToOutput returned ok=false")
	}
	if got != (Point{X: 50, Y: 25}) {
		t.Errorf("MapClientPointToOutput = %+v, want {50 25}", got)
	}

	cx, cy, ok := OutputToClient(m, got)
	if !ok || cx != 210 || cy != 120 {
		t.Errorf("OutputToClient = (%v, %v, %v), want (210, 120, true)", cx, cy, ok)
	}
}

func TestMapClientPointToOutputDegenerate(t *testing.T) {
	base := Mapping{
		Rect:    Rect{Left: 0, Top: 0, Width: 100, Height: 100},
		Preview: Dims{Width: 100, Height: 100},
		Scale:   Scale{X: 1, Y: 1},
	}
	tests := []struct {
		name   string
		mutate func(*Mapping)
	}{
		{"zero rect width", func(m *Mapping) { m.Rect.Width = 0 }},
		{"zero rect height", func(m *Mapping) { m.Rect.Height = 0 }},
		{"zero scale", func(m *Mapping) { m.Scale.X = 0 }},
		{"missing scale", func(m *Mapping) { m.Scale = Scale{} }},
		{"nan scale", func(m *Mapping) { m.Scale.Y = math.NaN() }},
		{"zero preview", func(m *Mapping) { m.Preview = Dims{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := base
			tt.mutate(&m)
			if _, ok := MapClientPointToOutput(m, 50, 50); ok {
				t.Error("expected ok=false")
			}
			if _, _, ok := ClientDeltaToOutput(m, 5, 5); ok {
				t.Error("ClientDeltaToOutput expected ok=false")
			}
		})
	}

	if _, ok := MapClientPointToOutput(base, math.NaN(), 4); ok {
		t.Error("non-finite client point should be ignored")
	}
}

func TestClientDeltaToOutput(t *testing.T) {
	m := Mapping{
		Rect:    Rect{Width: 400, Height: 200},
		Preview: Dims{Width: 200, Height: 100},
		Scale:   Scale{X: 2, Y: 2},
	}
	dx, dy, ok := ClientDeltaToOutput(m, -40, 8)
	if !ok || dx != -10 || dy != 2 {
		t.Errorf("ClientDeltaToOutput = (%v, %v, %v), want (-10, 2, true)", dx, dy, ok)
	}
}

func TestOutputToPreview(t *testing.T) {
	got := OutputToPreview(geometry.Box{MinX: 1, MinY: 2, MaxX: 3, MaxY: 4}, Scale{X: 2, Y: 0.5})
	want := geometry.Box{MinX: 2, MinY: 1, MaxX: 6, MaxY: 2}
	if got != want {
		t.Errorf("OutputToPreview = %v, want %v", got, want)
	}
}
