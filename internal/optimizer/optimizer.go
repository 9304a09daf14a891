// Package optimizer selects one candidate site per lidar unit so the
// campaign's measurement points are jointly covered with the best
// achievable multi-Doppler geometry. The search is a seeded
// iterative-improvement loop: a greedy coverage-maximizing seed followed by
// single-unit perturbations that only accept non-decreasing objective
// moves, repeated over independent restarts.
package optimizer

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/windlidar/campaign-planner/internal/cache"
	"github.com/windlidar/campaign-planner/internal/visibility"
	"github.com/windlidar/campaign-planner/pkg/core"
)

// Constraints configure one optimization run.
type Constraints struct {
	// Units are the lidar units to place, in a stable order.
	Units []core.LidarUnit

	// MinUnitsPerPoint is the coverage requirement per measurement point.
	MinUnitsPerPoint int

	// AccessPoint breaks ties by total installation distance.
	AccessPoint core.Position3D

	// Policy shapes the geometry score.
	Policy visibility.ScorePolicy

	// MaxIterations bounds the perturbation loop per restart.
	MaxIterations int

	// NoImprove stops a restart early after this many iterations without a
	// strict improvement.
	NoImprove int

	// Restarts is the number of independent seeded searches.
	Restarts int

	// Seed makes the whole search reproducible. Restart r uses Seed+r.
	Seed int64

	// Workers bounds the parallel visibility evaluations in the cache
	// warm-up pass.
	Workers int
}

// Optimizer runs placement searches over a fixed terrain and point set.
type Optimizer struct {
	eval  *visibility.Evaluator
	cache *cache.VisibilityCache
	log   *slog.Logger

	iterations metric.Int64Counter
	accepted   metric.Int64Counter
	restarts   metric.Int64Counter
}

// New creates an Optimizer. Metrics are registered on the global OTel
// meter, which is a no-op unless a provider is installed.
func New(eval *visibility.Evaluator, logger *slog.Logger) (*Optimizer, error) {
	o := &Optimizer{
		eval:  eval,
		cache: cache.NewVisibilityCache(),
		log:   logger,
	}

	m := meter()
	var err error
	if o.iterations, err = m.Int64Counter(
		"optimizer.iterations",
		metric.WithDescription("Total local-search iterations"),
	); err != nil {
		return nil, fmt.Errorf("creating iterations counter: %w", err)
	}
	if o.accepted, err = m.Int64Counter(
		"optimizer.moves.accepted",
		metric.WithDescription("Total accepted perturbation moves"),
	); err != nil {
		return nil, fmt.Errorf("creating accepted counter: %w", err)
	}
	if o.restarts, err = m.Int64Counter(
		"optimizer.restarts",
		metric.WithDescription("Total completed restarts"),
	); err != nil {
		return nil, fmt.Errorf("creating restarts counter: %w", err)
	}
	return o, nil
}

// Optimize selects one site per unit. It returns a mutable Placement on
// success; the caller freezes it before trajectory generation. When the
// coverage constraint cannot be met for every point, the error is a
// *CoverageError naming the offending points.
func (o *Optimizer) Optimize(ctx context.Context, sites []core.CandidateSite, points []core.MeasurementPoint, cons Constraints) (*core.Placement, error) {
	if len(cons.Units) == 0 {
		return nil, fmt.Errorf("%w: no units", ErrBadConstraints)
	}
	if cons.MinUnitsPerPoint < 1 {
		return nil, fmt.Errorf("%w: minimum units per point must be positive", ErrBadConstraints)
	}
	if cons.MaxIterations < 1 {
		cons.MaxIterations = 1000
	}
	if cons.NoImprove < 1 {
		cons.NoImprove = cons.MaxIterations
	}
	if cons.Restarts < 1 {
		cons.Restarts = 1
	}

	feasible := o.feasibleSites(sites, points, cons)
	if len(feasible) < len(cons.Units) {
		return nil, fmt.Errorf("%w: %d feasible site(s) for %d unit(s)",
			ErrNoFeasibleSites, len(feasible), len(cons.Units))
	}

	o.warmCache(ctx, feasible, points, cons)

	ev := &evaluator{eval: o.eval, cache: o.cache, sites: feasible, points: points, cons: cons}

	type restartResult struct {
		best assignment
		obj  objective
	}
	results := make([]restartResult, cons.Restarts)

	// Restarts are independent searches; run them in parallel and keep the
	// best. The reduction prefers the lowest restart index on ties, so the
	// outcome does not depend on goroutine scheduling.
	var wg sync.WaitGroup
	for r := 0; r < cons.Restarts; r++ {
		wg.Add(1)
		go func(r int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(cons.Seed + int64(r)))
			best, obj := o.search(ctx, ev, rng, cons)
			results[r] = restartResult{best: best, obj: obj}
			o.restarts.Add(ctx, 1)
		}(r)
	}
	wg.Wait()

	best := results[0]
	for _, res := range results[1:] {
		if res.obj.betterThan(best.obj) {
			best = res
		}
	}

	o.log.Info("placement search finished",
		"restarts", cons.Restarts,
		"coverage", best.obj.coverage,
		"points", len(points),
		"geometryScore", best.obj.geometry)

	if uncovered := ev.uncovered(best.best); len(uncovered) > 0 {
		sort.Strings(uncovered)
		return nil, &CoverageError{Uncovered: uncovered, MinUnits: cons.MinUnitsPerPoint}
	}

	placement := core.NewPlacement()
	for u, unit := range cons.Units {
		if err := placement.Assign(unit.ID, feasible[best.best[u]]); err != nil {
			return nil, fmt.Errorf("assembling placement: %w", err)
		}
	}
	return placement, nil
}

// warmCache evaluates every (unit, feasible site, point) combination up
// front across the configured worker pool, so the search loops read only
// cached results. Results are cached per unit ID: range limits are a unit
// property, not a model property. A cancelled context leaves the remaining
// combinations unevaluated; their zero results are not cached.
func (o *Optimizer) warmCache(ctx context.Context, sites []core.CandidateSite, points []core.MeasurementPoint, cons Constraints) {
	pairs := make([]visibility.Pair, 0, len(cons.Units)*len(sites)*len(points))
	for _, unit := range cons.Units {
		for _, site := range sites {
			for _, pt := range points {
				pairs = append(pairs, visibility.Pair{Unit: unit, Site: site, Point: pt})
			}
		}
	}

	results := o.eval.EvaluateAll(ctx, pairs, cons.Workers)
	for i := range results {
		if results[i].UnitID == "" {
			continue
		}
		key := cache.ResultKey{
			UnitID:  pairs[i].Unit.ID,
			SiteID:  pairs[i].Site.ID,
			PointID: pairs[i].Point.ID,
		}
		o.cache.Put(key, results[i])
	}
}

// feasibleSites restricts the search space to buildable sites from which at
// least one unit could reach at least one measurement point.
func (o *Optimizer) feasibleSites(sites []core.CandidateSite, points []core.MeasurementPoint, cons Constraints) []core.CandidateSite {
	var out []core.CandidateSite
	for _, site := range sites {
		if !site.Feasible {
			continue
		}
		reachable := false
		for _, pt := range points {
			d := site.Position.DistanceTo(pt.Position)
			for _, unit := range cons.Units {
				if unit.Range.Contains(d) {
					reachable = true
					break
				}
			}
			if reachable {
				break
			}
		}
		if reachable {
			out = append(out, site)
		}
	}
	return out
}

// search runs one seeded restart: greedy seed, then local perturbation.
func (o *Optimizer) search(ctx context.Context, ev *evaluator, rng *rand.Rand, cons Constraints) (assignment, objective) {
	current := o.greedySeed(ev, cons)
	currentObj := ev.score(current)

	sinceImprove := 0
	for iter := 0; iter < cons.MaxIterations && sinceImprove < cons.NoImprove; iter++ {
		if ctx.Err() != nil {
			break
		}
		o.iterations.Add(ctx, 1)

		// Perturb one unit's site.
		u := rng.Intn(len(current))
		s := rng.Intn(len(ev.sites))
		if s == current[u] || current.usesSite(s, u) {
			sinceImprove++
			continue
		}

		candidate := current.clone()
		candidate[u] = s
		candidateObj := ev.score(candidate)

		if candidateObj.atLeast(currentObj) {
			improved := candidateObj.betterThan(currentObj)
			current = candidate
			currentObj = candidateObj
			o.accepted.Add(ctx, 1, metric.WithAttributes(attribute.Bool("improved", improved)))
			if improved {
				sinceImprove = 0
				continue
			}
		}
		sinceImprove++
	}
	return current, currentObj
}

// greedySeed places units one at a time, each on the free site that ranks
// the partial placement highest. Sites are scanned in slice order, so the
// seed is deterministic.
func (o *Optimizer) greedySeed(ev *evaluator, cons Constraints) assignment {
	seed := make(assignment, len(cons.Units))
	for u := range seed {
		seed[u] = -1
	}

	for u := range cons.Units {
		bestSite := -1
		var bestObj objective
		for s := range ev.sites {
			if seed.usesSite(s, u) {
				continue
			}
			trial := seed.clone()
			trial[u] = s
			obj := ev.score(trial)
			if bestSite == -1 || obj.betterThan(bestObj) {
				bestSite = s
				bestObj = obj
			}
		}
		seed[u] = bestSite
	}
	return seed
}
