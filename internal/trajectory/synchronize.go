package trajectory

import (
	"fmt"
	"time"

	"github.com/windlidar/campaign-planner/pkg/core"
)

// Options control the shared timeline.
type Options struct {
	// Dwell is the stare time on every point.
	Dwell time.Duration
	// Cadence, when positive, fixes the slew window between points. A unit
	// whose minimum slew time exceeds the cadence makes the plan infeasible
	// for that unit/point pair. When zero, the slowest unit sets the pace
	// and every move is feasible by construction.
	Cadence time.Duration
}

// Synchronize builds one timed scan program per unit over the shared point
// order. Per-unit angles and minimum slew times are computed independently,
// then each step's arrival time is the maximum over units plus the dwell on
// the previous point, so all units arrive at every point together. The first
// slew of a cycle starts from the last point's angles, because the scan
// repeats.
func Synchronize(placement *core.Placement, units []core.LidarUnit, ordered []core.MeasurementPoint, opts Options) (map[string]core.TrajectoryPlan, error) {
	if len(units) == 0 || len(ordered) == 0 {
		return nil, fmt.Errorf("%w: nothing to synchronize", ErrBadPlanInput)
	}
	for _, unit := range units {
		if unit.Motion.MaxVelocity <= 0 || unit.Motion.MaxAcceleration <= 0 {
			return nil, fmt.Errorf("%w: unit %s", ErrBadMotionLimits, unit.ID)
		}
	}
	angles, err := lookAngles(placement, units, ordered)
	if err != nil {
		return nil, err
	}

	// Minimum slew time per unit per step. Step i moves from point i-1 to
	// point i; step 0 wraps from the final point.
	moves := make([][]time.Duration, len(units))
	for u, unit := range units {
		moves[u] = make([]time.Duration, len(ordered))
		for i := range ordered {
			prev := (i + len(ordered) - 1) % len(ordered)
			moves[u][i] = slewTime(
				angles[u][prev].az, angles[u][prev].el,
				angles[u][i].az, angles[u][i].el,
				unit.Motion)
		}
	}

	// Pacing reduction: the slowest unit sets the window for each step,
	// unless a fixed cadence overrides it.
	windows := make([]time.Duration, len(ordered))
	var motionErr MotionError
	for i := range ordered {
		var slowest time.Duration
		for u := range units {
			if moves[u][i] > slowest {
				slowest = moves[u][i]
			}
		}
		if opts.Cadence > 0 {
			windows[i] = opts.Cadence
			for u, unit := range units {
				if moves[u][i] > opts.Cadence {
					motionErr.Violations = append(motionErr.Violations, Violation{
						UnitID:   unit.ID,
						PointID:  ordered[i].ID,
						Required: moves[u][i],
						Allotted: opts.Cadence,
					})
				}
			}
		} else {
			windows[i] = slowest
		}
	}
	if len(motionErr.Violations) > 0 {
		return nil, &motionErr
	}

	arrivals := make([]time.Duration, len(ordered))
	var clock time.Duration
	for i := range ordered {
		clock += windows[i]
		arrivals[i] = clock
		clock += opts.Dwell
	}

	plans := make(map[string]core.TrajectoryPlan, len(units))
	for u, unit := range units {
		site, _ := placement.Site(unit.ID)
		steps := make([]core.TrajectoryStep, len(ordered))
		for i, pt := range ordered {
			steps[i] = core.TrajectoryStep{
				PointID:   pt.ID,
				Azimuth:   angles[u][i].az,
				Elevation: angles[u][i].el,
				MoveTime:  moves[u][i],
				Arrival:   arrivals[i],
				Dwell:     opts.Dwell,
			}
		}
		plans[unit.ID] = core.TrajectoryPlan{
			UnitID: unit.ID,
			SiteID: site.ID,
			Steps:  steps,
		}
	}
	return plans, nil
}
