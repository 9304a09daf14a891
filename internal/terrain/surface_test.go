package terrain

import (
	"errors"
	"math"
	"testing"

	"github.com/windlidar/campaign-planner/pkg/core"
)

// flatSurface builds a rows x cols grid at constant elevation with 10 m cells.
func flatSurface(t *testing.T, rows, cols int, elev float64) *Surface {
	t.Helper()
	samples := make([]float64, rows*cols)
	for i := range samples {
		samples[i] = elev
	}
	s, err := NewSurface(samples, rows, cols, 0, 0, 10, -9999)
	if err != nil {
		t.Fatalf("NewSurface: %v", err)
	}
	return s
}

func TestNewSurfaceRejectsBadGrids(t *testing.T) {
	if _, err := NewSurface([]float64{1, 2}, 1, 2, 0, 0, 10, -9999); !errors.Is(err, ErrBadGrid) {
		t.Errorf("1-row grid: expected ErrBadGrid, got %v", err)
	}
	if _, err := NewSurface([]float64{1, 2, 3}, 2, 2, 0, 0, 10, -9999); !errors.Is(err, ErrBadGrid) {
		t.Errorf("sample count mismatch: expected ErrBadGrid, got %v", err)
	}
	if _, err := NewSurface([]float64{1, 2, 3, 4}, 2, 2, 0, 0, 0, -9999); !errors.Is(err, ErrBadGrid) {
		t.Errorf("zero cell size: expected ErrBadGrid, got %v", err)
	}
	all := []float64{-9999, -9999, -9999, -9999}
	if _, err := NewSurface(all, 2, 2, 0, 0, 10, -9999); !errors.Is(err, ErrBadGrid) {
		t.Errorf("all-nodata grid: expected ErrBadGrid, got %v", err)
	}
}

func TestElevationAtInterpolates(t *testing.T) {
	// 2x2 grid with a tilted plane: z = x/10.
	s, err := NewSurface([]float64{0, 1, 0, 1}, 2, 2, 0, 0, 10, -9999)
	if err != nil {
		t.Fatalf("NewSurface: %v", err)
	}

	got, err := s.ElevationAt(5, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(got-0.5) > 1e-12 {
		t.Errorf("centre elevation = %v, want 0.5", got)
	}
}

func TestElevationAtWithinMinMax(t *testing.T) {
	s, err := NewSurface([]float64{
		100, 120, 110,
		130, 150, 140,
		105, 125, 115,
	}, 3, 3, 0, 0, 10, -9999)
	if err != nil {
		t.Fatalf("NewSurface: %v", err)
	}

	for _, q := range [][2]float64{{0, 0}, {5, 5}, {13, 7}, {20, 20}, {19.9, 0.1}} {
		z, err := s.ElevationAt(q[0], q[1])
		if err != nil {
			t.Fatalf("ElevationAt(%v, %v): %v", q[0], q[1], err)
		}
		if z < s.MinElevation() || z > s.MaxElevation() {
			t.Errorf("ElevationAt(%v, %v) = %v outside [%v, %v]",
				q[0], q[1], z, s.MinElevation(), s.MaxElevation())
		}
	}
}

func TestElevationAtOutOfBounds(t *testing.T) {
	s := flatSurface(t, 3, 3, 100)

	for _, q := range [][2]float64{{-0.1, 0}, {0, -0.1}, {20.1, 0}, {0, 20.1}, {1e6, 1e6}} {
		_, err := s.ElevationAt(q[0], q[1])
		if !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("ElevationAt(%v, %v): expected ErrOutOfBounds, got %v", q[0], q[1], err)
		}
	}
}

func TestElevationAtNoData(t *testing.T) {
	s, err := NewSurface([]float64{
		100, -9999,
		100, 100,
	}, 2, 2, 0, 0, 10, -9999)
	if err != nil {
		t.Fatalf("NewSurface: %v", err)
	}

	if _, err := s.ElevationAt(5, 5); !errors.Is(err, ErrNoData) {
		t.Errorf("expected ErrNoData, got %v", err)
	}
}

func TestLineOfSightFlatTerrain(t *testing.T) {
	s := flatSurface(t, 11, 11, 0)

	a := core.Position3D{X: 0, Y: 0, Z: 10}
	b := core.Position3D{X: 100, Y: 100, Z: 10}
	vis, err := s.LineOfSight(a, b, DefaultClearance)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !vis {
		t.Error("flat terrain with elevated endpoints should be visible")
	}
}

func TestLineOfSightBlockedByRidge(t *testing.T) {
	// 11x11 grid, a 50 m ridge along the middle column (x = 50).
	samples := make([]float64, 11*11)
	for row := 0; row < 11; row++ {
		for col := 0; col < 11; col++ {
			if col == 5 {
				samples[row*11+col] = 50
			}
		}
	}
	s, err := NewSurface(samples, 11, 11, 0, 0, 10, -9999)
	if err != nil {
		t.Fatalf("NewSurface: %v", err)
	}

	a := core.Position3D{X: 0, Y: 50, Z: 10}
	b := core.Position3D{X: 100, Y: 50, Z: 10}
	vis, err := s.LineOfSight(a, b, DefaultClearance)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vis {
		t.Error("ridge should block the sight line")
	}

	// High enough to clear the ridge.
	a.Z, b.Z = 60, 60
	vis, err = s.LineOfSight(a, b, DefaultClearance)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !vis {
		t.Error("sight line above the ridge should be visible")
	}
}

func TestLineOfSightSymmetric(t *testing.T) {
	samples := make([]float64, 11*11)
	for row := 0; row < 11; row++ {
		for col := 0; col < 11; col++ {
			samples[row*11+col] = float64(col) * 3 // tilted terrain
		}
	}
	s, err := NewSurface(samples, 11, 11, 0, 0, 10, -9999)
	if err != nil {
		t.Fatalf("NewSurface: %v", err)
	}

	pairs := [][2]core.Position3D{
		{{X: 5, Y: 5, Z: 5}, {X: 95, Y: 95, Z: 40}},
		{{X: 5, Y: 95, Z: 2}, {X: 95, Y: 5, Z: 28}},
		{{X: 10, Y: 50, Z: 15}, {X: 90, Y: 50, Z: 15}},
	}
	for _, pair := range pairs {
		ab, errAB := s.LineOfSight(pair[0], pair[1], DefaultClearance)
		ba, errBA := s.LineOfSight(pair[1], pair[0], DefaultClearance)
		if (errAB == nil) != (errBA == nil) {
			t.Fatalf("asymmetric errors: %v vs %v", errAB, errBA)
		}
		if ab != ba {
			t.Errorf("visibility not symmetric for %+v: %v vs %v", pair, ab, ba)
		}
	}
}

func TestLineOfSightZeroDistance(t *testing.T) {
	s := flatSurface(t, 3, 3, 0)
	p := core.Position3D{X: 10, Y: 10, Z: 5}
	vis, err := s.LineOfSight(p, p, DefaultClearance)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !vis {
		t.Error("zero-distance pair should be trivially visible")
	}
}

func TestCandidateSitesFeasibility(t *testing.T) {
	s, err := NewSurface([]float64{
		100, 100, -9999,
		100, 100, 100,
		100, 100, 100,
	}, 3, 3, 0, 0, 10, -9999)
	if err != nil {
		t.Fatalf("NewSurface: %v", err)
	}

	sites := s.CandidateSites(MaskOptions{Stride: 1, MastHeight: 1.5})
	if len(sites) != 9 {
		t.Fatalf("expected 9 sites, got %d", len(sites))
	}

	feasible := 0
	for _, site := range sites {
		if site.Feasible {
			feasible++
			if site.Position.Z != 101.5 {
				t.Errorf("site %s: Z = %v, want 101.5", site.ID, site.Position.Z)
			}
		}
	}
	if feasible != 8 {
		t.Errorf("expected 8 feasible sites (one nodata node), got %d", feasible)
	}
}
