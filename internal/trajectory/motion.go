package trajectory

import (
	"math"
	"time"

	"github.com/windlidar/campaign-planner/internal/geo"
	"github.com/windlidar/campaign-planner/pkg/core"
)

// MoveTime returns the minimum time for a scanner head to slew through the
// given angular displacement (degrees) under a trapezoidal velocity profile.
// Short moves never reach peak velocity and follow the triangular branch.
// The result is rounded up to a whole millisecond so command timestamps stay
// on the controller's tick grid. Limits must be positive; callers validate.
func MoveTime(displacement float64, limits core.MotionLimits) time.Duration {
	if displacement <= 0 {
		return 0
	}
	vmax := limits.MaxVelocity
	amax := limits.MaxAcceleration

	var seconds float64
	if displacement > vmax*vmax/amax {
		seconds = displacement/vmax + vmax/amax
	} else {
		seconds = 2 * math.Sqrt(displacement/amax)
	}
	return time.Duration(math.Ceil(seconds*1e3)) * time.Millisecond
}

// slewTime is the minimum time to move both axes between two pointings.
// The axes move simultaneously, so the slower axis governs.
func slewTime(az1, el1, az2, el2 float64, limits core.MotionLimits) time.Duration {
	dAz, dEl := geo.AngularDisplacement(az1, el1, az2, el2)
	tAz := MoveTime(dAz, limits)
	tEl := MoveTime(dEl, limits)
	if tAz > tEl {
		return tAz
	}
	return tEl
}
