package export

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/windlidar/campaign-planner/internal/geo"
)

// kml document structure, as much of the schema as the placemarks need.
type kml struct {
	XMLName  xml.Name    `xml:"kml"`
	Xmlns    string      `xml:"xmlns,attr"`
	Document kmlDocument `xml:"Document"`
}

type kmlDocument struct {
	Name       string         `xml:"name"`
	Placemarks []kmlPlacemark `xml:"Placemark"`
}

type kmlPlacemark struct {
	Name        string   `xml:"name"`
	Description string   `xml:"description,omitempty"`
	Point       kmlPoint `xml:"Point"`
}

type kmlPoint struct {
	// lon,lat,alt per the KML spec
	Coordinates string `xml:"coordinates"`
}

// WriteKML writes sites and measurement points as placemarks. Coordinates
// are transformed from the campaign CRS to WGS84.
func WriteKML(w io.Writer, c Campaign, ref *geo.Georeference) error {
	doc := kml{
		Xmlns: "http://www.opengis.net/kml/2.2",
		Document: kmlDocument{
			Name: c.Name,
		},
	}

	if c.Placement != nil {
		for _, unitID := range c.Placement.UnitIDs() {
			site, err := c.Placement.Site(unitID)
			if err != nil {
				return fmt.Errorf("unit %s: %w", unitID, err)
			}
			lon, lat, h := ref.ToGeographic(site.Position)
			doc.Document.Placemarks = append(doc.Document.Placemarks, kmlPlacemark{
				Name:        site.ID,
				Description: fmt.Sprintf("lidar unit %s", unitID),
				Point:       kmlPoint{Coordinates: coordString(lon, lat, h)},
			})
		}
	}

	for _, pt := range c.Points {
		lon, lat, h := ref.ToGeographic(pt.Position)
		doc.Document.Placemarks = append(doc.Document.Placemarks, kmlPlacemark{
			Name:        pt.ID,
			Description: "measurement point",
			Point:       kmlPoint{Coordinates: coordString(lon, lat, h)},
		})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	return enc.Encode(doc)
}

func coordString(lon, lat, h float64) string {
	return fmt.Sprintf("%.7f,%.7f,%.2f", lon, lat, h)
}
