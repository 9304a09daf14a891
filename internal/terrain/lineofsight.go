package terrain

import (
	"math"

	"github.com/windlidar/campaign-planner/pkg/core"
)

// DefaultClearance is the margin in metres by which the sight line must
// clear the terrain for a sample to count as unobstructed.
const DefaultClearance = 2.0

// LineOfSight reports whether the straight segment between a and b clears
// the terrain. The segment is sampled at a step no larger than half the
// raster cell size so a single-cell ridge cannot slip between samples;
// visibility fails when the interpolated terrain plus the clearance margin
// rises above the sight line at any interior sample.
//
// Zero-distance pairs are trivially visible. Samples that fall outside the
// extent or on nodata cells propagate their error: the caller decides
// whether an unverifiable path counts as blocked.
//
// The sample set depends only on the unordered pair, so the test is
// symmetric: LineOfSight(a, b) == LineOfSight(b, a).
func (s *Surface) LineOfSight(a, b core.Position3D, clearance float64) (bool, error) {
	dist := a.DistanceTo(b)
	if dist == 0 {
		return true, nil
	}

	step := s.cellSize / 2
	n := int(math.Ceil(dist / step))

	for i := 1; i < n; i++ {
		t := float64(i) / float64(n)
		x := a.X + (b.X-a.X)*t
		y := a.Y + (b.Y-a.Y)*t
		sight := a.Z + (b.Z-a.Z)*t

		ground, err := s.ElevationAt(x, y)
		if err != nil {
			return false, err
		}
		if ground+clearance > sight {
			return false, nil
		}
	}
	return true, nil
}
