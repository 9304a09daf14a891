// pkg/core/trajectory.go
package core

import "time"

// TrajectoryStep is one step-stare command: slew to the target angles,
// arrive at ArrivalTime on the shared campaign timeline, then hold for
// Dwell while the beam acquires the point.
type TrajectoryStep struct {
	PointID   string        `json:"pointId"`
	Azimuth   float64       `json:"azimuth"`   // deg, clockwise from north
	Elevation float64       `json:"elevation"` // deg above horizontal
	MoveTime  time.Duration `json:"moveTime"`  // this unit's own minimum slew time
	Arrival   time.Duration `json:"arrival"`   // offset on the shared timeline
	Dwell     time.Duration `json:"dwell"`
}

// TrajectoryPlan is the ordered scan program for a single unit. All plans in
// a campaign share one timeline: for every step index, Arrival is identical
// across units (the slowest unit paces the group).
type TrajectoryPlan struct {
	UnitID string           `json:"unitId"`
	SiteID string           `json:"siteId"`
	Steps  []TrajectoryStep `json:"steps"`
}

// CycleTime returns the duration of one full scan cycle: the arrival at the
// last point plus its dwell.
func (p TrajectoryPlan) CycleTime() time.Duration {
	if len(p.Steps) == 0 {
		return 0
	}
	last := p.Steps[len(p.Steps)-1]
	return last.Arrival + last.Dwell
}
