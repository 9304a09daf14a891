package trajectory

import (
	"fmt"
	"time"

	"github.com/windlidar/campaign-planner/internal/geo"
	"github.com/windlidar/campaign-planner/pkg/core"
)

// pointing is one unit's look angles toward one measurement point.
type pointing struct {
	az, el float64
}

// OrderPoints picks the scan order all units will share. A nearest-neighbour
// tour is grown from every possible start point, using the worst-case angular
// displacement across units as the edge cost; the tour with the smallest total
// synchronized cycle time wins. Ties keep the earliest start index, so the
// result is deterministic for a given input order.
func OrderPoints(placement *core.Placement, units []core.LidarUnit, points []core.MeasurementPoint) ([]core.MeasurementPoint, error) {
	if len(units) == 0 || len(points) == 0 {
		return nil, fmt.Errorf("%w: no units or points to order", ErrBadPlanInput)
	}
	angles, err := lookAngles(placement, units, points)
	if err != nil {
		return nil, err
	}
	if len(points) == 1 {
		return []core.MeasurementPoint{points[0]}, nil
	}

	cost := func(i, j int) float64 {
		worst := 0.0
		for u := range units {
			dAz, dEl := geo.AngularDisplacement(
				angles[u][i].az, angles[u][i].el,
				angles[u][j].az, angles[u][j].el)
			if dAz > worst {
				worst = dAz
			}
			if dEl > worst {
				worst = dEl
			}
		}
		return worst
	}

	var bestOrder []int
	var bestTime time.Duration
	for start := range points {
		order := nearestNeighbourTour(start, len(points), cost)
		total := tourCycleTime(order, angles, units)
		if bestOrder == nil || total < bestTime {
			bestOrder = order
			bestTime = total
		}
	}

	ordered := make([]core.MeasurementPoint, len(bestOrder))
	for i, idx := range bestOrder {
		ordered[i] = points[idx]
	}
	return ordered, nil
}

// lookAngles computes the azimuth/elevation every unit needs for every point.
func lookAngles(placement *core.Placement, units []core.LidarUnit, points []core.MeasurementPoint) ([][]pointing, error) {
	angles := make([][]pointing, len(units))
	for u, unit := range units {
		site, err := placement.Site(unit.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: unit %s has no site", ErrBadPlanInput, unit.ID)
		}
		angles[u] = make([]pointing, len(points))
		for p, pt := range points {
			az, el, _ := geo.BeamAngles(site.Position, pt.Position)
			angles[u][p] = pointing{az: az, el: el}
		}
	}
	return angles, nil
}

// nearestNeighbourTour grows a tour greedily from start. Ties on edge cost
// keep the lowest point index.
func nearestNeighbourTour(start, n int, cost func(i, j int) float64) []int {
	order := make([]int, 0, n)
	visited := make([]bool, n)
	order = append(order, start)
	visited[start] = true
	current := start
	for len(order) < n {
		next := -1
		var nextCost float64
		for j := 0; j < n; j++ {
			if visited[j] {
				continue
			}
			c := cost(current, j)
			if next < 0 || c < nextCost {
				next = j
				nextCost = c
			}
		}
		order = append(order, next)
		visited[next] = true
		current = next
	}
	return order
}

// tourCycleTime sums the synchronized slew time over a full cycle of the
// tour, including the wrap from the last point back to the first. The scan
// repeats, so the closing edge is part of every cycle.
func tourCycleTime(order []int, angles [][]pointing, units []core.LidarUnit) time.Duration {
	var total time.Duration
	for i := range order {
		prev := order[(i+len(order)-1)%len(order)]
		cur := order[i]
		var step time.Duration
		for u, unit := range units {
			t := slewTime(
				angles[u][prev].az, angles[u][prev].el,
				angles[u][cur].az, angles[u][cur].el,
				unit.Motion)
			if t > step {
				step = t
			}
		}
		total += step
	}
	return total
}
