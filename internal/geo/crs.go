package geo

import (
	"errors"
	"fmt"

	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/wroge/wgs84"

	"github.com/windlidar/campaign-planner/pkg/core"
)

// CAMPAIGN CRS
// The planner works in a single projected CRS (typically a UTM zone) so all
// core math stays planar-metric. Geographic coordinates only appear at the
// edges: measurement points supplied in EPSG:4326 are projected on ingest,
// and exports that need lat/lon (KML) are unprojected on the way out.

// ErrUnsupportedEPSG is returned when the wgs84 repository has no transform
// for the requested code.
var ErrUnsupportedEPSG = errors.New("unsupported EPSG code")

// Georeference converts between the campaign projected CRS and EPSG:4326.
type Georeference struct {
	epsg int
}

// NewGeoreference builds a Georeference for the campaign EPSG code.
func NewGeoreference(epsg int) (*Georeference, error) {
	if code := wgs84.EPSG().Code(epsg); code == nil {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedEPSG, epsg)
	}
	return &Georeference{epsg: epsg}, nil
}

// EPSG returns the campaign EPSG code.
func (g *Georeference) EPSG() int { return g.epsg }

// ToGeographic converts a campaign-CRS position to lon/lat degrees.
func (g *Georeference) ToGeographic(p core.Position3D) (lon, lat, h float64) {
	f := wgs84.EPSG().Transform(g.epsg, 4326)
	return f(p.X, p.Y, p.Z)
}

// FromGeographic converts lon/lat degrees to a campaign-CRS position.
func (g *Georeference) FromGeographic(lon, lat, h float64) core.Position3D {
	f := wgs84.EPSG().Transform(4326, g.epsg)
	x, y, z := f(lon, lat, h)
	return core.Position3D{X: x, Y: y, Z: z}
}

// Point builds a simplefeatures XYZ point from a campaign-CRS position.
// Positions with non-finite coordinates degrade to an empty point rather
// than an error; campaign positions come from parsed grids and CSV files
// that only admit finite values.
func Point(p core.Position3D) geom.Point {
	pt, _ := geom.NewPoint(geom.Coordinates{
		XY:   geom.XY{X: p.X, Y: p.Y},
		Z:    p.Z,
		Type: geom.DimXYZ,
	}, geom.OmitInvalid)
	return pt
}

// InAnyZone reports whether the planar location (x, y) lies inside any of
// the zone geometries.
func InAnyZone(zones []geom.Geometry, x, y float64) bool {
	if len(zones) == 0 {
		return false
	}
	pt, err := geom.NewPoint(geom.Coordinates{XY: geom.XY{X: x, Y: y}, Type: geom.DimXY})
	if err != nil {
		return false
	}
	g := pt.AsGeometry()
	for _, zone := range zones {
		if geom.Intersects(zone, g) {
			return true
		}
	}
	return false
}
