// Package export serializes a planned campaign to its delivery formats:
// a YAML summary for humans, KML for map tools, a motion-program XML per
// unit and GeoJSON for GIS pipelines.
package export

import (
	"fmt"
	"io"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/windlidar/campaign-planner/pkg/core"
)

// Campaign bundles everything the writers need for one planned campaign.
type Campaign struct {
	Name      string
	EPSG      int
	Points    []core.MeasurementPoint
	Placement *core.Placement
	Plans     map[string]core.TrajectoryPlan
}

type yamlSummary struct {
	Campaign string        `yaml:"campaign"`
	EPSG     int           `yaml:"epsg"`
	Points   []yamlPoint   `yaml:"measurementPoints"`
	Units    []yamlUnit    `yaml:"units"`
	Cycle    time.Duration `yaml:"cycleTime"`
}

type yamlPoint struct {
	ID string  `yaml:"id"`
	X  float64 `yaml:"x"`
	Y  float64 `yaml:"y"`
	Z  float64 `yaml:"z"`
}

type yamlUnit struct {
	ID    string     `yaml:"id"`
	Site  string     `yaml:"site"`
	X     float64    `yaml:"x"`
	Y     float64    `yaml:"y"`
	Z     float64    `yaml:"z"`
	Steps []yamlStep `yaml:"steps,omitempty"`
}

type yamlStep struct {
	Point     string        `yaml:"point"`
	Azimuth   float64       `yaml:"azimuth"`
	Elevation float64       `yaml:"elevation"`
	Arrival   time.Duration `yaml:"arrival"`
	Dwell     time.Duration `yaml:"dwell"`
}

// WriteYAML writes the human-readable campaign summary.
func WriteYAML(w io.Writer, c Campaign) error {
	summary := yamlSummary{
		Campaign: c.Name,
		EPSG:     c.EPSG,
	}

	for _, pt := range c.Points {
		summary.Points = append(summary.Points, yamlPoint{
			ID: pt.ID, X: pt.Position.X, Y: pt.Position.Y, Z: pt.Position.Z,
		})
	}

	for _, unitID := range sortedUnitIDs(c) {
		site, err := c.Placement.Site(unitID)
		if err != nil {
			return fmt.Errorf("unit %s: %w", unitID, err)
		}
		unit := yamlUnit{
			ID: unitID, Site: site.ID,
			X: site.Position.X, Y: site.Position.Y, Z: site.Position.Z,
		}
		if plan, ok := c.Plans[unitID]; ok {
			for _, step := range plan.Steps {
				unit.Steps = append(unit.Steps, yamlStep{
					Point:     step.PointID,
					Azimuth:   step.Azimuth,
					Elevation: step.Elevation,
					Arrival:   step.Arrival,
					Dwell:     step.Dwell,
				})
			}
			summary.Cycle = plan.CycleTime()
		}
		summary.Units = append(summary.Units, unit)
	}

	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(summary)
}

func sortedUnitIDs(c Campaign) []string {
	if c.Placement != nil {
		return c.Placement.UnitIDs()
	}
	ids := make([]string, 0, len(c.Plans))
	for id := range c.Plans {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
