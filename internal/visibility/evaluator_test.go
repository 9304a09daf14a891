package visibility

import (
	"context"
	"math"
	"testing"

	"github.com/windlidar/campaign-planner/internal/terrain"
	"github.com/windlidar/campaign-planner/pkg/core"
)

func flatSurface(t *testing.T) *terrain.Surface {
	t.Helper()
	samples := make([]float64, 21*21)
	s, err := terrain.NewSurface(samples, 21, 21, -50, -50, 10, -9999)
	if err != nil {
		t.Fatalf("NewSurface: %v", err)
	}
	return s
}

func testUnit(id string) core.LidarUnit {
	return core.LidarUnit{
		ID:     id,
		Model:  "WLS-400",
		Range:  core.RangeLimits{Min: 10, Max: 5000},
		Motion: core.MotionLimits{MaxVelocity: 50, MaxAcceleration: 100},
	}
}

func TestEvaluateDualDopplerLayout(t *testing.T) {
	// Two lidars flanking a point on flat terrain; both see it and the
	// beams cross at close to 90 degrees.
	s := flatSurface(t)
	e := NewEvaluator(s, 0)

	siteA := core.CandidateSite{ID: "sa", Position: core.Position3D{X: 0, Y: 0, Z: 10}, Feasible: true}
	siteB := core.CandidateSite{ID: "sb", Position: core.Position3D{X: 100, Y: 0, Z: 10}, Feasible: true}
	pt := core.MeasurementPoint{ID: "p1", Position: core.Position3D{X: 50, Y: 50, Z: 0}}

	ra := e.Evaluate(testUnit("wls-1"), siteA, pt)
	rb := e.Evaluate(testUnit("wls-2"), siteB, pt)

	if !ra.Visible || !rb.Visible {
		t.Fatalf("both units should see the point: %+v %+v", ra, rb)
	}
	wantRange := math.Sqrt(50*50 + 50*50 + 10*10)
	if math.Abs(ra.SlantRange-wantRange) > 1e-9 {
		t.Errorf("slant range = %v, want %v", ra.SlantRange, wantRange)
	}

	score := ScorePoint(pt.ID, []core.BeamVector{
		{UnitID: "wls-1", Dir: pt.Position.Sub(siteA.Position)},
		{UnitID: "wls-2", Dir: pt.Position.Sub(siteB.Position)},
	}, ScorePolicy{MinUnits: 2, Shape: ShapeDegrees})

	if !score.Defined {
		t.Fatal("score should be defined with two visible units")
	}
	// The symmetric layout crosses near 90 degrees; the shaped score is
	// close to its maximum.
	if score.Value < 0.9 {
		t.Errorf("score = %v, want near 1 for a near-orthogonal crossing", score.Value)
	}
}

func TestEvaluateRangeFailsClosed(t *testing.T) {
	s := flatSurface(t)
	e := NewEvaluator(s, 0)
	site := core.CandidateSite{ID: "sa", Position: core.Position3D{X: 0, Y: 0, Z: 10}}

	unit := testUnit("wls-1")
	unit.Range = core.RangeLimits{Min: 50, Max: 60}

	// Clear line-of-sight, but out of range on both sides.
	near := core.MeasurementPoint{ID: "near", Position: core.Position3D{X: 10, Y: 0, Z: 10}}
	far := core.MeasurementPoint{ID: "far", Position: core.Position3D{X: 100, Y: 0, Z: 10}}

	if r := e.Evaluate(unit, site, near); r.Visible {
		t.Error("pair below minimum range must not be visible")
	}
	if r := e.Evaluate(unit, site, far); r.Visible {
		t.Error("pair beyond maximum range must not be visible")
	}
}

func TestEvaluateBlockedByTerrain(t *testing.T) {
	// Ridge between site and point.
	samples := make([]float64, 11*11)
	for row := 0; row < 11; row++ {
		samples[row*11+5] = 80
	}
	s, err := terrain.NewSurface(samples, 11, 11, 0, 0, 10, -9999)
	if err != nil {
		t.Fatalf("NewSurface: %v", err)
	}
	e := NewEvaluator(s, 0)

	site := core.CandidateSite{ID: "sa", Position: core.Position3D{X: 0, Y: 50, Z: 10}}
	pt := core.MeasurementPoint{ID: "p1", Position: core.Position3D{X: 100, Y: 50, Z: 10}}

	r := e.Evaluate(testUnit("wls-1"), site, pt)
	if r.Visible {
		t.Error("ridge should block visibility")
	}
	if !r.Blocked {
		t.Error("result should be marked terrain-blocked, not range-rejected")
	}
}

func TestScorePointUndefinedBelowMinimum(t *testing.T) {
	beams := []core.BeamVector{{UnitID: "wls-1", Dir: core.Position3D{X: 1}}}
	score := ScorePoint("p1", beams, ScorePolicy{MinUnits: 2})
	if score.Defined {
		t.Error("one beam cannot define a geometry score")
	}
}

func TestScorePointPenalizesParallelBeams(t *testing.T) {
	parallel := []core.BeamVector{
		{UnitID: "wls-1", Dir: core.Position3D{X: 1, Y: 0}},
		{UnitID: "wls-2", Dir: core.Position3D{X: 1, Y: 0.01}},
	}
	orthogonal := []core.BeamVector{
		{UnitID: "wls-1", Dir: core.Position3D{X: 1, Y: 0}},
		{UnitID: "wls-2", Dir: core.Position3D{X: 0, Y: 1}},
	}

	p := ScorePoint("p1", parallel, ScorePolicy{MinUnits: 2})
	o := ScorePoint("p1", orthogonal, ScorePolicy{MinUnits: 2})
	if p.Value >= o.Value {
		t.Errorf("near-parallel beams (%v) should score below orthogonal (%v)", p.Value, o.Value)
	}

	antiparallel := []core.BeamVector{
		{UnitID: "wls-1", Dir: core.Position3D{X: 1, Y: 0}},
		{UnitID: "wls-2", Dir: core.Position3D{X: -1, Y: 0.01}},
	}
	a := ScorePoint("p1", antiparallel, ScorePolicy{MinUnits: 2})
	if a.Value >= o.Value {
		t.Errorf("near-antiparallel beams (%v) should score below orthogonal (%v)", a.Value, o.Value)
	}
}

func TestScorePointConservativeWithThreeBeams(t *testing.T) {
	// Third beam nearly parallel to the first: the minimum pairwise
	// separation governs, so the score collapses towards zero.
	beams := []core.BeamVector{
		{UnitID: "wls-1", Dir: core.Position3D{X: 1, Y: 0}},
		{UnitID: "wls-2", Dir: core.Position3D{X: 0, Y: 1}},
		{UnitID: "wls-3", Dir: core.Position3D{X: 1, Y: 0.02}},
	}
	score := ScorePoint("p1", beams, ScorePolicy{MinUnits: 2})
	if !score.Defined {
		t.Fatal("score should be defined")
	}
	if score.Value > 0.1 {
		t.Errorf("minimum pairwise separation should dominate: got %v", score.Value)
	}
}

func TestEvaluateAllMatchesSequential(t *testing.T) {
	s := flatSurface(t)
	e := NewEvaluator(s, 0)

	units := []core.LidarUnit{testUnit("wls-1"), testUnit("wls-2")}
	sites := []core.CandidateSite{
		{ID: "sa", Position: core.Position3D{X: 0, Y: 0, Z: 10}},
		{ID: "sb", Position: core.Position3D{X: 100, Y: 0, Z: 10}},
	}
	points := []core.MeasurementPoint{
		{ID: "p1", Position: core.Position3D{X: 50, Y: 50, Z: 30}},
		{ID: "p2", Position: core.Position3D{X: 20, Y: 80, Z: 50}},
		{ID: "p3", Position: core.Position3D{X: 90, Y: 90, Z: 20}},
	}

	var pairs []Pair
	for i, u := range units {
		for _, p := range points {
			pairs = append(pairs, Pair{Unit: u, Site: sites[i], Point: p})
		}
	}

	parallel := e.EvaluateAll(context.Background(), pairs, 4)
	for i, pair := range pairs {
		want := e.Evaluate(pair.Unit, pair.Site, pair.Point)
		if parallel[i] != want {
			t.Errorf("pair %d: parallel %+v != sequential %+v", i, parallel[i], want)
		}
	}
}
