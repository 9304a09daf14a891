package geo

import (
	"math"

	"github.com/windlidar/campaign-planner/pkg/core"
)

// BEAM GEOMETRY
// All angles are degrees. Azimuth is measured clockwise from grid north in
// [0, 360). Elevation is measured from the horizontal plane, positive up.

// BeamAngles returns the azimuth, elevation and slant range of the beam from
// a lidar at site pointing at target.
func BeamAngles(site, target core.Position3D) (azimuth, elevation, slantRange float64) {
	dx := target.X - site.X
	dy := target.Y - site.Y
	dz := target.Z - site.Z

	horizontal := math.Sqrt(dx*dx + dy*dy)
	slantRange = math.Sqrt(horizontal*horizontal + dz*dz)

	azimuth = math.Atan2(dx, dy) * 180 / math.Pi
	if azimuth < 0 {
		azimuth += 360
	}
	if horizontal == 0 && dz == 0 {
		// Coincident points: pointing direction is undefined, report zeros.
		return 0, 0, 0
	}
	elevation = math.Atan2(dz, horizontal) * 180 / math.Pi
	return azimuth, elevation, slantRange
}

// AngularDisplacement returns the smallest motion, per axis, a
// rollover-capable scan head must perform to move between two pointing
// directions. Displacements are folded into [0, 180]: a head that can roll
// over never travels the long way around.
func AngularDisplacement(az1, el1, az2, el2 float64) (dAz, dEl float64) {
	dAz = foldDisplacement(math.Abs(az1 - az2))
	dEl = foldDisplacement(math.Abs(el1 - el2))
	return dAz, dEl
}

// foldDisplacement maps a raw angular difference onto the shorter arc.
func foldDisplacement(d float64) float64 {
	d = math.Mod(math.Abs(d), 360)
	if d > 180 {
		d = 360 - d
	}
	return d
}

// BeamDirection returns the unit vector from site towards target. The zero
// vector is returned for coincident points.
func BeamDirection(site, target core.Position3D) core.Position3D {
	v := target.Sub(site)
	n := v.Norm()
	if n == 0 {
		return core.Position3D{}
	}
	return core.Position3D{X: v.X / n, Y: v.Y / n, Z: v.Z / n}
}

// SeparationAngle returns the angle in degrees between two beam directions
// at their crossing point, in [0, 180].
func SeparationAngle(a, b core.Position3D) float64 {
	na := a.Norm()
	nb := b.Norm()
	if na == 0 || nb == 0 {
		return 0
	}
	cos := a.Dot(b) / (na * nb)
	// Clamp against floating-point drift before acos.
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}
	return math.Acos(cos) * 180 / math.Pi
}
