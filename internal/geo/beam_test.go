package geo

import (
	"math"
	"testing"

	"github.com/windlidar/campaign-planner/pkg/core"
)

const angleTol = 1e-9

func TestBeamAnglesCardinalDirections(t *testing.T) {
	site := core.Position3D{X: 0, Y: 0, Z: 0}

	tests := []struct {
		name    string
		target  core.Position3D
		wantAz  float64
		wantEl  float64
		wantRng float64
	}{
		{"north", core.Position3D{X: 0, Y: 100, Z: 0}, 0, 0, 100},
		{"east", core.Position3D{X: 100, Y: 0, Z: 0}, 90, 0, 100},
		{"south", core.Position3D{X: 0, Y: -100, Z: 0}, 180, 0, 100},
		{"west", core.Position3D{X: -100, Y: 0, Z: 0}, 270, 0, 100},
		{"northeast up", core.Position3D{X: 100, Y: 100, Z: 100 * math.Sqrt2}, 45, 45, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			az, el, rng := BeamAngles(site, tt.target)
			if math.Abs(az-tt.wantAz) > angleTol {
				t.Errorf("azimuth = %v, want %v", az, tt.wantAz)
			}
			if math.Abs(el-tt.wantEl) > angleTol {
				t.Errorf("elevation = %v, want %v", el, tt.wantEl)
			}
			if math.Abs(rng-tt.wantRng) > 1e-6 {
				t.Errorf("range = %v, want %v", rng, tt.wantRng)
			}
		})
	}
}

func TestBeamAnglesCoincidentPoints(t *testing.T) {
	p := core.Position3D{X: 5, Y: 5, Z: 5}
	az, el, rng := BeamAngles(p, p)
	if az != 0 || el != 0 || rng != 0 {
		t.Errorf("coincident points: got az=%v el=%v rng=%v, want zeros", az, el, rng)
	}
}

func TestAngularDisplacementRollover(t *testing.T) {
	tests := []struct {
		name     string
		az1, az2 float64
		want     float64
	}{
		{"short arc", 10, 50, 40},
		{"across north", 350, 10, 20},
		{"across north reversed", 10, 350, 20},
		{"opposite", 0, 180, 180},
		{"same", 123.4, 123.4, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dAz, _ := AngularDisplacement(tt.az1, 0, tt.az2, 0)
			if math.Abs(dAz-tt.want) > angleTol {
				t.Errorf("displacement(%v, %v) = %v, want %v", tt.az1, tt.az2, dAz, tt.want)
			}
		})
	}
}

func TestSeparationAngleOrthogonalBeams(t *testing.T) {
	// Two lidars flanking a point symmetrically: crossing angle 90 degrees.
	a := core.Position3D{X: 1, Y: 1, Z: 0}
	b := core.Position3D{X: -1, Y: 1, Z: 0}
	got := SeparationAngle(a, b)
	if math.Abs(got-90) > angleTol {
		t.Errorf("separation = %v, want 90", got)
	}
}

func TestSeparationAngleClampsDrift(t *testing.T) {
	a := core.Position3D{X: 1, Y: 0, Z: 0}
	got := SeparationAngle(a, a)
	if got != 0 {
		t.Errorf("parallel beams: got %v, want 0", got)
	}
	if SeparationAngle(a, core.Position3D{}) != 0 {
		t.Error("zero vector should yield 0")
	}
}

func TestBeamDirectionUnitNorm(t *testing.T) {
	dir := BeamDirection(core.Position3D{X: 0, Y: 0, Z: 10}, core.Position3D{X: 50, Y: 50, Z: 0})
	if math.Abs(dir.Norm()-1) > angleTol {
		t.Errorf("direction norm = %v, want 1", dir.Norm())
	}
}
