// Package visibility evaluates whether lidar placements can measure
// campaign points, and scores the multi-Doppler beam geometry of the units
// that can.
package visibility

import (
	"context"
	"sync"

	"github.com/windlidar/campaign-planner/internal/geo"
	"github.com/windlidar/campaign-planner/internal/terrain"
	"github.com/windlidar/campaign-planner/pkg/core"
)

// Evaluator runs terrain-aware visibility checks. Safe for concurrent use;
// the underlying Surface is immutable.
type Evaluator struct {
	surface   *terrain.Surface
	clearance float64
}

// NewEvaluator creates an Evaluator over the given surface. clearance is
// the margin in metres the sight line must keep above terrain; zero is a
// valid choice for campaigns measuring close to the ground, a negative
// value selects the default.
func NewEvaluator(surface *terrain.Surface, clearance float64) *Evaluator {
	if clearance < 0 {
		clearance = terrain.DefaultClearance
	}
	return &Evaluator{surface: surface, clearance: clearance}
}

// Evaluate checks one (unit at site, point) pair. The range check fails
// closed: a pair outside the unit's range limits is not visible regardless
// of line-of-sight, and the terrain test is skipped entirely. A sight line
// that cannot be verified (leaves the raster, crosses nodata) counts as
// blocked.
func (e *Evaluator) Evaluate(unit core.LidarUnit, site core.CandidateSite, pt core.MeasurementPoint) core.VisibilityResult {
	az, el, rng := geo.BeamAngles(site.Position, pt.Position)
	res := core.VisibilityResult{
		UnitID:     unit.ID,
		SiteID:     site.ID,
		PointID:    pt.ID,
		SlantRange: rng,
		Azimuth:    az,
		Elevation:  el,
	}

	if !unit.Range.Contains(rng) {
		return res
	}

	visible, err := e.surface.LineOfSight(site.Position, pt.Position, e.clearance)
	if err != nil || !visible {
		res.Blocked = true
		return res
	}

	res.Visible = true
	return res
}

// Pair identifies one evaluation job in a batch.
type Pair struct {
	Unit  core.LidarUnit
	Site  core.CandidateSite
	Point core.MeasurementPoint
}

// EvaluateAll evaluates a batch of pairs across a bounded pool of workers.
// Each pair writes a disjoint slot of the result slice, so no ordering or
// merging is needed; results[i] corresponds to pairs[i]. A cancelled
// context stops workers early and leaves the remaining slots zero-valued.
func (e *Evaluator) EvaluateAll(ctx context.Context, pairs []Pair, workers int) []core.VisibilityResult {
	if workers < 1 {
		workers = 1
	}
	results := make([]core.VisibilityResult, len(pairs))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = e.Evaluate(pairs[i].Unit, pairs[i].Site, pairs[i].Point)
			}
		}()
	}

	for i := range pairs {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return results
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()
	return results
}
