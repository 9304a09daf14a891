package convert

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/windlidar/campaign-planner/pkg/core"
)

func TestCampaignRoundTrip(t *testing.T) {
	points := []core.MeasurementPoint{
		{ID: "p1", Position: core.Position3D{X: 1050, Y: 2050, Z: 80}},
		{ID: "p2", Position: core.Position3D{X: 1100, Y: 2020, Z: 95.5}},
	}

	row, err := CampaignToRow("hornsea-south", 32631, time.Now(), points)
	require.NoError(t, err)
	assert.Equal(t, "hornsea-south", row.Name)
	assert.Equal(t, 32631, row.EPSG)

	decoded, err := PointsFromRow(row)
	require.NoError(t, err)
	require.Len(t, decoded, 2)
	assert.Equal(t, "p2", decoded[1].ID)
	assert.Equal(t, 95.5, decoded[1].Position.Z)
}

func TestPlacementToRows(t *testing.T) {
	placement := core.NewPlacement()
	require.NoError(t, placement.Assign("wls-1", core.CandidateSite{
		ID: "site-3-4", Position: core.Position3D{X: 100, Y: 200, Z: 12},
	}))
	require.NoError(t, placement.Assign("wls-2", core.CandidateSite{
		ID: "site-7-1", Position: core.Position3D{X: 400, Y: 50, Z: 9},
	}))

	rows, err := PlacementToRows(7, placement)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// UnitIDs are sorted, so rows come back in a stable order.
	assert.Equal(t, uint(7), rows[0].CampaignID)
	assert.Equal(t, "wls-1", rows[0].UnitID)
	assert.Equal(t, "site-3-4", rows[0].SiteID)
	assert.Equal(t, 200.0, rows[0].Y)
	assert.Equal(t, "wls-2", rows[1].UnitID)
}

func TestPlanRoundTrip(t *testing.T) {
	plan := core.TrajectoryPlan{
		UnitID: "wls-1",
		SiteID: "site-3-4",
		Steps: []core.TrajectoryStep{
			{PointID: "p1", Azimuth: 45, Elevation: 10, MoveTime: 500 * time.Millisecond, Arrival: time.Second, Dwell: 30 * time.Second},
			{PointID: "p2", Azimuth: 90, Elevation: 12, MoveTime: 700 * time.Millisecond, Arrival: 33 * time.Second, Dwell: 30 * time.Second},
		},
	}

	row, err := PlanToRow(7, plan)
	require.NoError(t, err)
	assert.Equal(t, "wls-1", row.UnitID)
	assert.Equal(t, plan.CycleTime().Milliseconds(), row.CycleTimeMs)

	decoded, err := PlanFromRow(row)
	require.NoError(t, err)
	require.Len(t, decoded.Steps, 2)
	assert.Equal(t, "p2", decoded.Steps[1].PointID)
	assert.Equal(t, 90.0, decoded.Steps[1].Azimuth)
	assert.Equal(t, 33*time.Second, decoded.Steps[1].Arrival)
}
