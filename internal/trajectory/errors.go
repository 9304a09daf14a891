package trajectory

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrMotionInfeasible = errors.New("motion infeasible")
	ErrBadMotionLimits  = errors.New("invalid motion limits")
	ErrBadPlanInput     = errors.New("invalid trajectory input")
)

// Violation records a single unit/point step whose minimum slew time exceeds
// the time allotted to it on the shared timeline.
type Violation struct {
	UnitID   string
	PointID  string
	Required time.Duration
	Allotted time.Duration
}

func (v Violation) String() string {
	return fmt.Sprintf("unit %s at point %s needs %s, allotted %s",
		v.UnitID, v.PointID, v.Required, v.Allotted)
}

// MotionError reports every unit/point pair that cannot meet its timing.
// Impacted steps are listed explicitly, never dropped.
type MotionError struct {
	Violations []Violation
}

func (e *MotionError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.String()
	}
	return fmt.Sprintf("%v: %s", ErrMotionInfeasible, strings.Join(parts, "; "))
}

func (e *MotionError) Unwrap() error { return ErrMotionInfeasible }
