package visibility

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/windlidar/campaign-planner/internal/geo"
	"github.com/windlidar/campaign-planner/pkg/core"
)

// Score shapes. The angular-separation score is a proxy for how sensitive
// the multi-Doppler wind reconstruction is to pointing and range errors:
// near-parallel (or near-antiparallel) beams make the retrieval numerically
// unstable, so both ends of the [0, 180] separation range are penalized.
const (
	// ShapeSin scores sin(separation): 1.0 at a 90 degree crossing,
	// falling to 0 at 0 and 180 degrees.
	ShapeSin = "sin"

	// ShapeDegrees scores the distance from a degenerate geometry on a
	// linear scale: min(theta, 180-theta)/90.
	ShapeDegrees = "degrees"
)

// ScorePolicy makes the exact scoring formula a configuration choice rather
// than a constant of the engine.
type ScorePolicy struct {
	// MinUnits is the number of units that must see a point before its
	// geometry is defined at all. Never below 2: a single beam cannot
	// resolve a vector wind.
	MinUnits int

	// Shape selects the scoring formula; ShapeSin when empty.
	Shape string
}

// ScorePoint computes the geometry quality of one measurement point from
// the beams of the units that see it. With fewer than MinUnits beams the
// score is undefined (the campaign cannot resolve the point). With exactly
// two beams the score is shaped from their crossing angle; with more, from
// the minimum pairwise separation as a conservative bound.
func ScorePoint(pointID string, beams []core.BeamVector, policy ScorePolicy) core.GeometryScore {
	minUnits := policy.MinUnits
	if minUnits < 2 {
		minUnits = 2
	}
	if len(beams) < minUnits {
		return core.GeometryScore{PointID: pointID}
	}

	separations := make([]float64, 0, len(beams)*(len(beams)-1)/2)
	for i := 0; i < len(beams); i++ {
		for j := i + 1; j < len(beams); j++ {
			separations = append(separations, geo.SeparationAngle(beams[i].Dir, beams[j].Dir))
		}
	}

	theta := floats.Min(separations)
	return core.GeometryScore{
		PointID: pointID,
		Value:   shape(theta, policy.Shape),
		Defined: true,
	}
}

func shape(thetaDeg float64, shapeName string) float64 {
	switch shapeName {
	case ShapeDegrees:
		return math.Min(thetaDeg, 180-thetaDeg) / 90
	default:
		return math.Sin(thetaDeg * math.Pi / 180)
	}
}
