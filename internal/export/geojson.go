package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/peterstace/simplefeatures/geom"

	"github.com/windlidar/campaign-planner/internal/geo"
	"github.com/windlidar/campaign-planner/pkg/core"
)

// WriteGeoJSON writes sites, points and the scan tour as a feature
// collection in the campaign CRS.
func WriteGeoJSON(w io.Writer, c Campaign) error {
	var features geom.GeoJSONFeatureCollection

	if c.Placement != nil {
		for _, unitID := range c.Placement.UnitIDs() {
			site, err := c.Placement.Site(unitID)
			if err != nil {
				return fmt.Errorf("unit %s: %w", unitID, err)
			}
			features = append(features, geom.GeoJSONFeature{
				Geometry: geo.Point(site.Position).AsGeometry(),
				Properties: map[string]interface{}{
					"kind": "site",
					"site": site.ID,
					"unit": unitID,
				},
			})
		}
	}

	for _, pt := range c.Points {
		features = append(features, geom.GeoJSONFeature{
			Geometry: geo.Point(pt.Position).AsGeometry(),
			Properties: map[string]interface{}{
				"kind":  "measurementPoint",
				"point": pt.ID,
			},
		})
	}

	if tour := tourPoints(c); len(tour) >= 2 {
		ls, err := geo.TourLineString(tour)
		if err != nil {
			return err
		}
		features = append(features, geom.GeoJSONFeature{
			Geometry: ls.AsGeometry(),
			Properties: map[string]interface{}{
				"kind": "scanTour",
			},
		})
	}

	enc := json.NewEncoder(w)
	return enc.Encode(features)
}

// tourPoints recovers the shared visit order from any unit's plan. All plans
// share the same order, so the first one serves.
func tourPoints(c Campaign) []core.MeasurementPoint {
	byID := make(map[string]core.MeasurementPoint, len(c.Points))
	for _, pt := range c.Points {
		byID[pt.ID] = pt
	}
	for _, plan := range c.Plans {
		ordered := make([]core.MeasurementPoint, 0, len(plan.Steps))
		for _, step := range plan.Steps {
			if pt, ok := byID[step.PointID]; ok {
				ordered = append(ordered, pt)
			}
		}
		return ordered
	}
	return nil
}
