package geo

import (
	"fmt"

	geom "github.com/peterstace/simplefeatures/geom"

	"github.com/windlidar/campaign-planner/pkg/core"
)

// TourLineString builds an XYZ line string through the ordered measurement
// points of a scan cycle, for GeoJSON/KML export of the tour path.
func TourLineString(points []core.MeasurementPoint) (geom.LineString, error) {
	if len(points) < 2 {
		return geom.LineString{}, fmt.Errorf("tour must have at least 2 points, got %d", len(points))
	}

	flat := make([]float64, 0, len(points)*3)
	for _, p := range points {
		flat = append(flat, p.Position.X, p.Position.Y, p.Position.Z)
	}

	seq := geom.NewSequence(flat, geom.DimXYZ)
	ls, err := geom.NewLineString(seq)
	if err != nil {
		return geom.LineString{}, fmt.Errorf("building tour line: %w", err)
	}
	return ls, nil
}
