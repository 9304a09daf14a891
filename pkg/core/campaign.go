// pkg/core/campaign.go
package core

import "time"

// MeasurementPoint is a location the campaign must observe, typically a
// rotor-plane point. Immutable once the campaign is defined.
type MeasurementPoint struct {
	ID       string     `json:"id"`
	Position Position3D `json:"position"`
}

// CandidateSite is a location considered for lidar placement. Position.Z is
// the terrain elevation at the site plus the instrument mast height.
type CandidateSite struct {
	ID       string     `json:"id"`
	Position Position3D `json:"position"`
	Feasible bool       `json:"feasible"`
}

// RangeLimits bound the usable measurement distance of a lidar model.
// A pair outside [Min, Max] fails closed regardless of line-of-sight.
type RangeLimits struct {
	Min float64 `json:"min"` // metres
	Max float64 `json:"max"` // metres
}

// Contains reports whether the slant range r is measurable.
func (l RangeLimits) Contains(r float64) bool {
	return r >= l.Min && r <= l.Max
}

// MotionLimits describe the scan-head drive of a lidar model.
type MotionLimits struct {
	MaxVelocity     float64 `json:"maxVelocity"`     // deg/s
	MaxAcceleration float64 `json:"maxAcceleration"` // deg/s^2
}

// LidarUnit is one scanning lidar in the campaign. The site assignment lives
// in Placement, not here; a unit only carries its identity and hardware
// envelope.
type LidarUnit struct {
	ID     string       `json:"id"`
	Model  string       `json:"model"`
	Range  RangeLimits  `json:"range"`
	Motion MotionLimits `json:"motion"`
}

// CampaignSummary is the list view of a persisted campaign.
type CampaignSummary struct {
	ID      uint      `json:"id"`
	Name    string    `json:"name"`
	RunTime time.Time `json:"runTime"`
	Units   int       `json:"units"`
}
