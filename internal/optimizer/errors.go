package optimizer

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInsufficientCoverage = errors.New("insufficient coverage")
	ErrNoFeasibleSites      = errors.New("no feasible candidate sites")
	ErrBadConstraints       = errors.New("invalid optimizer constraints")
)

// CoverageError reports which measurement points cannot be seen by the
// minimum required number of units under the best placement found. The
// offending points are named explicitly; the caller never receives a
// silently degraded placement.
type CoverageError struct {
	// Uncovered lists the IDs of points below minimum coverage, sorted.
	Uncovered []string

	// MinUnits is the required view count per point.
	MinUnits int
}

func (e *CoverageError) Error() string {
	return fmt.Sprintf("insufficient coverage: %d point(s) below %d units: %s",
		len(e.Uncovered), e.MinUnits, strings.Join(e.Uncovered, ", "))
}

func (e *CoverageError) Unwrap() error { return ErrInsufficientCoverage }
