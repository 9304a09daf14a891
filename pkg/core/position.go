// pkg/core/position.go
package core

import "math"

// Position3D represents a 3D coordinate in the campaign's projected CRS,
// without GIS dependencies.
type Position3D struct {
	X float64 `json:"x"` // easting
	Y float64 `json:"y"` // northing
	Z float64 `json:"z"` // elevation ASL
}

// DistanceTo returns the straight-line (slant) distance to other.
func (p Position3D) DistanceTo(other Position3D) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	dz := p.Z - other.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// HorizontalDistanceTo returns the distance to other projected onto the
// horizontal plane.
func (p Position3D) HorizontalDistanceTo(other Position3D) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Sub returns the component-wise difference p - other.
func (p Position3D) Sub(other Position3D) Position3D {
	return Position3D{X: p.X - other.X, Y: p.Y - other.Y, Z: p.Z - other.Z}
}

// Dot returns the dot product of p and other treated as vectors.
func (p Position3D) Dot(other Position3D) float64 {
	return p.X*other.X + p.Y*other.Y + p.Z*other.Z
}

// Norm returns the Euclidean norm of p treated as a vector.
func (p Position3D) Norm() float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y + p.Z*p.Z)
}
