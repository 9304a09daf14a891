// pkg/core/visibility.go
package core

// VisibilityResult records whether one unit placed at one site can measure
// one point, and the beam geometry if it can. Results are derived data,
// recomputed whenever the placement changes.
type VisibilityResult struct {
	UnitID  string `json:"unitId"`
	SiteID  string `json:"siteId"`
	PointID string `json:"pointId"`

	Visible    bool    `json:"visible"`
	SlantRange float64 `json:"slantRange"` // metres
	Azimuth    float64 `json:"azimuth"`    // deg, clockwise from north
	Elevation  float64 `json:"elevation"`  // deg above horizontal

	// Blocked is set when line-of-sight failed on terrain rather than range.
	Blocked bool `json:"blocked"`
}

// BeamVector is the unit vector from a lidar site towards a measurement
// point, used for multi-Doppler geometry scoring.
type BeamVector struct {
	UnitID string     `json:"unitId"`
	Dir    Position3D `json:"dir"`
}

// GeometryScore is the angular-geometry quality of a point given the units
// that see it. Higher is better. Defined is false when fewer than the
// required minimum of units see the point, in which case Value is
// meaningless and the point cannot be resolved.
type GeometryScore struct {
	PointID string  `json:"pointId"`
	Value   float64 `json:"value"`
	Defined bool    `json:"defined"`
}
