package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/windlidar/campaign-planner/internal/geo"
	"github.com/windlidar/campaign-planner/pkg/core"
)

func testCampaign(t *testing.T) Campaign {
	t.Helper()
	placement := core.NewPlacement()
	require.NoError(t, placement.Assign("wls-1", core.CandidateSite{
		ID: "site-3-4", Position: core.Position3D{X: 500000, Y: 6000000, Z: 12},
	}))
	require.NoError(t, placement.Assign("wls-2", core.CandidateSite{
		ID: "site-7-1", Position: core.Position3D{X: 500400, Y: 6000100, Z: 9},
	}))
	placement.Freeze()

	points := []core.MeasurementPoint{
		{ID: "p1", Position: core.Position3D{X: 500200, Y: 6000300, Z: 80}},
		{ID: "p2", Position: core.Position3D{X: 500250, Y: 6000350, Z: 90}},
	}

	plans := map[string]core.TrajectoryPlan{
		"wls-1": {
			UnitID: "wls-1",
			SiteID: "site-3-4",
			Steps: []core.TrajectoryStep{
				{PointID: "p1", Azimuth: 30, Elevation: 15, MoveTime: 800 * time.Millisecond, Arrival: time.Second, Dwell: 30 * time.Second},
				{PointID: "p2", Azimuth: 35, Elevation: 16, MoveTime: 400 * time.Millisecond, Arrival: 32 * time.Second, Dwell: 30 * time.Second},
			},
		},
		"wls-2": {
			UnitID: "wls-2",
			SiteID: "site-7-1",
			Steps: []core.TrajectoryStep{
				{PointID: "p1", Azimuth: 310, Elevation: 20, MoveTime: 300 * time.Millisecond, Arrival: time.Second, Dwell: 30 * time.Second},
				{PointID: "p2", Azimuth: 312, Elevation: 21, MoveTime: 200 * time.Millisecond, Arrival: 32 * time.Second, Dwell: 30 * time.Second},
			},
		},
	}

	return Campaign{
		Name:      "hornsea-south",
		EPSG:      32631,
		Points:    points,
		Placement: placement,
		Plans:     plans,
	}
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteYAML(&buf, testCampaign(t)))

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "hornsea-south", decoded["campaign"])
	assert.Equal(t, 32631, decoded["epsg"])

	units, ok := decoded["units"].([]any)
	require.True(t, ok)
	require.Len(t, units, 2)

	first, ok := units[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "wls-1", first["id"])
	assert.Equal(t, "site-3-4", first["site"])
}

func TestWriteKML(t *testing.T) {
	ref, err := geo.NewGeoreference(32631)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteKML(&buf, testCampaign(t), ref))

	out := buf.String()
	assert.Contains(t, out, `<?xml`)
	assert.Contains(t, out, "site-3-4")
	assert.Contains(t, out, "p2")
	// UTM zone 31N around x=500000 sits near 3 degrees east
	assert.Contains(t, out, "3.0")
}

func TestWriteMotionXML(t *testing.T) {
	var buf bytes.Buffer
	c := testCampaign(t)
	require.NoError(t, WriteMotionXML(&buf, c, "wls-1"))

	out := buf.String()
	assert.Contains(t, out, `unit="wls-1"`)
	assert.Contains(t, out, `site="site-3-4"`)
	assert.Contains(t, out, `point="p1"`)
	assert.Contains(t, out, "<arrivalMs>1000</arrivalMs>")
	assert.Contains(t, out, "<dwellMs>30000</dwellMs>")
}

func TestWriteMotionXML_UnknownUnit(t *testing.T) {
	var buf bytes.Buffer
	err := WriteMotionXML(&buf, testCampaign(t), "wls-9")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "wls-9"))
}

func TestWriteGeoJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteGeoJSON(&buf, testCampaign(t)))

	var fc struct {
		Type     string `json:"type"`
		Features []struct {
			Geometry struct {
				Type string `json:"type"`
			} `json:"geometry"`
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &fc))
	assert.Equal(t, "FeatureCollection", fc.Type)

	// 2 sites + 2 points + 1 tour line
	require.Len(t, fc.Features, 5)

	kinds := map[string]int{}
	for _, f := range fc.Features {
		kinds[f.Properties["kind"].(string)]++
	}
	assert.Equal(t, 2, kinds["site"])
	assert.Equal(t, 2, kinds["measurementPoint"])
	assert.Equal(t, 1, kinds["scanTour"])
	assert.Equal(t, "LineString", fc.Features[4].Geometry.Type)
}
