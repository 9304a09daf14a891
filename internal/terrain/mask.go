package terrain

import (
	"fmt"

	geom "github.com/peterstace/simplefeatures/geom"

	"github.com/windlidar/campaign-planner/internal/geo"
	"github.com/windlidar/campaign-planner/pkg/core"
)

// MaskOptions control how candidate lidar sites are derived from the grid.
type MaskOptions struct {
	// Stride takes every Nth grid node in each direction. 1 uses all nodes.
	Stride int

	// MaxSlope marks nodes on terrain steeper than this (degrees) infeasible.
	MaxSlope float64

	// MastHeight is added to the ground elevation to give the instrument's
	// optical centre.
	MastHeight float64

	// ExclusionZones are areas where no unit may be installed.
	ExclusionZones []geom.Geometry
}

// CandidateSites derives the candidate-site grid for the optimizer. Every
// node is returned; nodes on missing data, inside an exclusion zone or on
// unbuildable slopes are tagged infeasible rather than dropped, so callers
// can report why a region yielded no placements.
func (s *Surface) CandidateSites(opts MaskOptions) []core.CandidateSite {
	stride := opts.Stride
	if stride < 1 {
		stride = 1
	}

	var sites []core.CandidateSite
	for row := 0; row < s.rows; row += stride {
		for col := 0; col < s.cols; col += stride {
			x, y := s.NodePosition(row, col)
			site := core.CandidateSite{
				ID: fmt.Sprintf("site-%d-%d", row, col),
			}

			if s.IsNoData(row, col) {
				sites = append(sites, site)
				continue
			}
			z := s.NodeElevation(row, col)
			site.Position = core.Position3D{X: x, Y: y, Z: z + opts.MastHeight}

			if geo.InAnyZone(opts.ExclusionZones, x, y) {
				sites = append(sites, site)
				continue
			}
			if opts.MaxSlope > 0 {
				slope, err := s.SlopeAt(x, y)
				if err != nil || slope > opts.MaxSlope {
					sites = append(sites, site)
					continue
				}
			}

			site.Feasible = true
			sites = append(sites, site)
		}
	}
	return sites
}
