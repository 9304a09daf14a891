package optimizer

import (
	"github.com/windlidar/campaign-planner/internal/cache"
	"github.com/windlidar/campaign-planner/internal/geo"
	"github.com/windlidar/campaign-planner/internal/visibility"
	"github.com/windlidar/campaign-planner/pkg/core"
)

// objective is the search ranking of a candidate placement. Ordering is
// lexicographic: a placement covering one more point always beats a
// placement with better geometry but less coverage, and installation
// distance only separates otherwise equal placements, keeping the search
// deterministic and reproducible.
type objective struct {
	coverage int     // points seen by at least the minimum unit count
	geometry float64 // sum of defined geometry scores
	install  float64 // total site-to-access-point distance (lower wins)
}

// betterThan reports whether a ranks strictly above b.
func (a objective) betterThan(b objective) bool {
	if a.coverage != b.coverage {
		return a.coverage > b.coverage
	}
	if a.geometry != b.geometry {
		return a.geometry > b.geometry
	}
	return a.install < b.install
}

// atLeast reports whether a ranks at or above b (a non-decreasing move).
func (a objective) atLeast(b objective) bool {
	return a == b || a.betterThan(b)
}

// assignment is the optimizer's mutable working state: one site index per
// unit, indices into the feasible-site slice.
type assignment []int

func (a assignment) clone() assignment {
	c := make(assignment, len(a))
	copy(c, a)
	return c
}

// usesSite reports whether any unit other than skip occupies site s.
func (a assignment) usesSite(s, skip int) bool {
	for u, idx := range a {
		if u != skip && idx == s {
			return true
		}
	}
	return false
}

// evaluator scores assignments against the campaign's points, memoizing
// visibility results across perturbations and restarts.
type evaluator struct {
	eval   *visibility.Evaluator
	cache  *cache.VisibilityCache
	sites  []core.CandidateSite
	points []core.MeasurementPoint
	cons   Constraints
}

func (ev *evaluator) visible(unit core.LidarUnit, site core.CandidateSite, pt core.MeasurementPoint) core.VisibilityResult {
	key := cache.ResultKey{UnitID: unit.ID, SiteID: site.ID, PointID: pt.ID}
	return ev.cache.GetOrCompute(key, func() core.VisibilityResult {
		return ev.eval.Evaluate(unit, site, pt)
	})
}

// score ranks one assignment.
func (ev *evaluator) score(a assignment) objective {
	var obj objective

	for _, pt := range ev.points {
		beams := make([]core.BeamVector, 0, len(ev.cons.Units))
		for u, unit := range ev.cons.Units {
			if a[u] < 0 {
				continue // not placed yet (partial greedy seed)
			}
			site := ev.sites[a[u]]
			if res := ev.visible(unit, site, pt); res.Visible {
				beams = append(beams, core.BeamVector{
					UnitID: unit.ID,
					Dir:    geo.BeamDirection(site.Position, pt.Position),
				})
			}
		}
		if len(beams) >= ev.cons.MinUnitsPerPoint {
			obj.coverage++
		}
		if s := visibility.ScorePoint(pt.ID, beams, ev.cons.Policy); s.Defined {
			obj.geometry += s.Value
		}
	}

	for _, idx := range a {
		if idx < 0 {
			continue
		}
		obj.install += ev.sites[idx].Position.DistanceTo(ev.cons.AccessPoint)
	}
	return obj
}

// uncovered lists the IDs of points below minimum coverage, in input order.
func (ev *evaluator) uncovered(a assignment) []string {
	var out []string
	for _, pt := range ev.points {
		seen := 0
		for u, unit := range ev.cons.Units {
			if res := ev.visible(unit, ev.sites[a[u]], pt); res.Visible {
				seen++
			}
		}
		if seen < ev.cons.MinUnitsPerPoint {
			out = append(out, pt.ID)
		}
	}
	return out
}
