package geometry

import (
	"encoding/json"
	"math"
	"testing"
)

func TestClampBox(t *testing.T) {
	bounds := Box{MinX: 0, MinY: 0, MaxX: 100, MaxY: 100}
	tests := []struct {
		name    string
		box     Box
		bounds  Box
		minSize float64
		want    Box
	}{
		{
			name:    "inside bounds unchanged",
			box:     Box{MinX: 10, MinY: 20, MaxX: 60, MaxY: 80},
			bounds:  bounds,
			minSize: DefaultMinSize,
			want:    Box{MinX: 10, MinY: 20, MaxX: 60, MaxY: 80},
		},
		{
			name:    "edges clamped independently",
			box:     Box{MinX: -5, MinY: -5, MaxX: 150, MaxY: 50},
			bounds:  bounds,
			minSize: DefaultMinSize,
			want:    Box{MinX: 0, MinY: 0, MaxX: 100, MaxY: 50},
		},
		{
			name:    "reversed edges reordered",
			box:     Box{MinX: 50, MinY: 50, MaxX: 10, MaxY: 10},
			bounds:  bounds,
			minSize: DefaultMinSize,
			want:    Box{MinX: 10, MinY: 10, MaxX: 50, MaxY: 50},
		},
		{
			name:    "grows toward higher edge first",
			box:     Box{MinX: 40, MinY: 10, MaxX: 42, MaxY: 15},
			bounds:  bounds,
			minSize: DefaultMinSize,
			want:    Box{MinX: 40, MinY: 10, MaxX: 52, MaxY: 22},
		},
		{
			name:    "grows lower edge when higher is pinned",
			box:     Box{MinX: 95, MinY: 10, MaxX: 97, MaxY: 15},
			bounds:  bounds,
			minSize: DefaultMinSize,
			want:    Box{MinX: 88, MinY: 10, MaxX: 100, MaxY: 22},
		},
		{
			name:    "bounds smaller than min size fills bounds",
			box:     Box{MinX: 1, MinY: 1, MaxX: 2, MaxY: 2},
			bounds:  Box{MinX: 0, MinY: 0, MaxX: 5, MaxY: 5},
			minSize: DefaultMinSize,
			want:    Box{MinX: 0, MinY: 0, MaxX: 5, MaxY: 5},
		},
		{
			name:    "rounds to whole pixels",
			box:     Box{MinX: 10.4, MinY: 10.6, MaxX: 40.5, MaxY: 40.49},
			bounds:  bounds,
			minSize: DefaultMinSize,
			want:    Box{MinX: 10, MinY: 11, MaxX: 41, MaxY: 40},
		},
		{
			name:    "fractional bounds round inward",
			box:     Box{MinX: 0.4, MinY: 0, MaxX: 5, MaxY: 5},
			bounds:  Box{MinX: 0.4, MinY: 0, MaxX: 10.4, MaxY: 10},
			minSize: DefaultMinSize,
			want:    Box{MinX: 1, MinY: 0, MaxX: 10, MaxY: 10},
		},
		{
			name:    "sub-pixel bounds kept as is",
			box:     Box{MinX: 0, MinY: 0, MaxX: 5, MaxY: 5},
			bounds:  Box{MinX: 0.2, MinY: 0, MaxX: 0.8, MaxY: 10},
			minSize: DefaultMinSize,
			want:    Box{MinX: 0.2, MinY: 0, MaxX: 0.8, MaxY: 10},
		},
		{
			name:    "non-finite coordinates fall back to bounds",
			box:     Box{MinX: math.NaN(), MinY: 20, MaxX: math.Inf(1), MaxY: 60},
			bounds:  bounds,
			minSize: DefaultMinSize,
			want:    Box{MinX: 0, MinY: 20, MaxX: 100, MaxY: 60},
		},
		{
			name:    "negative min size treated as zero",
			box:     Box{MinX: 10, MinY: 10, MaxX: 10, MaxY: 10},
			bounds:  bounds,
			minSize: -4,
			want:    Box{MinX: 10, MinY: 10, MaxX: 10, MaxY: 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampBox(tt.box, tt.bounds, tt.minSize); got != tt.want {
				t.Errorf("ClampBox(%v, %v) = %v, want %v", tt.box, tt.bounds, got, tt.want)
			}
		})
	}
}

func TestClampBoxInvariants(t *testing.T) {
	boundsList := []Box{
		{MinX: 0, MinY: 0, MaxX: 100, MaxY: 200},
		{MinX: 10, MinY: 10, MaxX: 18, MaxY: 40},
		{MinX: 0, MinY: 0, MaxX: 3, MaxY: 3},
		{MinX: 0.4, MinY: 2.5, MaxX: 50.4, MaxY: 60.7},
	}
	coords := []float64{-50, -1, 0, 5, 11.5, 17, 50, 99, 150, 400}

	for _, bounds := range boundsList {
		for _, x0 := range coords {
			for _, x1 := range coords {
				for _, y0 := range coords {
					box := Box{MinX: x0, MinY: y0, MaxX: x1, MaxY: y0 + 7}
					got := ClampBox(box, bounds, DefaultMinSize)

					if got.MinX > got.MaxX || got.MinY > got.MaxY {
						t.Fatalf("ClampBox(%v, %v) = %v: edges out of order", box, bounds, got)
					}
					if !bounds.Contains(got) {
						t.Fatalf("ClampBox(%v, %v) = %v: outside bounds", box, bounds, got)
					}
					if w := math.Min(DefaultMinSize, bounds.Width()); got.Width() < w {
						t.Fatalf("ClampBox(%v, %v) = %v: width %v < %v", box, bounds, got, got.Width(), w)
					}
					if h := math.Min(DefaultMinSize, bounds.Height()); got.Height() < h {
						t.Fatalf("ClampBox(%v, %v) = %v: height %v < %v", box, bounds, got, got.Height(), h)
					}
				}
			}
		}
	}
}

func TestBoxJSON(t *testing.T) {
	box := Box{MinX: 1, MinY: 2, MaxX: 30, MaxY: 40}
	data, err := json.Marshal(box)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != "[1,2,30,40]" {
		t.Errorf("Marshal = %s, want [1,2,30,40]", data)
	}

	var bad Box
	if err := json.Unmarshal([]byte("[1,2,3]"), &bad); err == nil {
		t.Error("Unmarshal of 3 coordinates should fail")
	}
}

func TestBoxEdgeAccessors(t *testing.T) {
	box := Box{MinX: 1, MinY: 2, MaxX: 30, MaxY: 40}
	for _, e := range Edges {
		moved := box.WithEdge(e, 7)
		if moved.Edge(e) != 7 {
			t.Errorf("WithEdge(%s, 7).Edge(%s) = %v", e, e, moved.Edge(e))
		}
	}
	if !math.IsNaN(box.Edge("diagonal")) {
		t.Error("Edge of unknown edge should be NaN")
	}
}
