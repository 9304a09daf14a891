// Package convert maps domain types to their database representations.
package convert

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"github.com/windlidar/campaign-planner/internal/model"
	"github.com/windlidar/campaign-planner/pkg/core"
)

// CampaignToRow builds a campaign row from the run inputs.
func CampaignToRow(name string, epsg int, runTime time.Time, points []core.MeasurementPoint) (model.Campaign, error) {
	body, err := json.Marshal(points)
	if err != nil {
		return model.Campaign{}, fmt.Errorf("error encoding points: %w", err)
	}
	return model.Campaign{
		Name:    name,
		EPSG:    epsg,
		RunTime: runTime,
		Points:  datatypes.JSON(body),
	}, nil
}

// PointsFromRow decodes the measurement points stored on a campaign row.
func PointsFromRow(c model.Campaign) ([]core.MeasurementPoint, error) {
	var points []core.MeasurementPoint
	if err := json.Unmarshal(c.Points, &points); err != nil {
		return nil, fmt.Errorf("error decoding points: %w", err)
	}
	return points, nil
}

// PlacementToRows flattens a placement into one row per unit.
func PlacementToRows(campaignID uint, placement *core.Placement) ([]model.PlacementRecord, error) {
	rows := make([]model.PlacementRecord, 0, placement.Len())
	for _, unitID := range placement.UnitIDs() {
		site, err := placement.Site(unitID)
		if err != nil {
			return nil, err
		}
		rows = append(rows, model.PlacementRecord{
			CampaignID: campaignID,
			UnitID:     unitID,
			SiteID:     site.ID,
			X:          site.Position.X,
			Y:          site.Position.Y,
			Z:          site.Position.Z,
		})
	}
	return rows, nil
}

// PlanToRow builds a trajectory row with the steps encoded as JSON.
func PlanToRow(campaignID uint, plan core.TrajectoryPlan) (model.TrajectoryRecord, error) {
	body, err := json.Marshal(plan.Steps)
	if err != nil {
		return model.TrajectoryRecord{}, fmt.Errorf("error encoding steps for unit %s: %w", plan.UnitID, err)
	}
	return model.TrajectoryRecord{
		CampaignID:  campaignID,
		UnitID:      plan.UnitID,
		SiteID:      plan.SiteID,
		CycleTimeMs: plan.CycleTime().Milliseconds(),
		Steps:       datatypes.JSON(body),
	}, nil
}

// PlanFromRow decodes a trajectory row back into a plan.
func PlanFromRow(row model.TrajectoryRecord) (core.TrajectoryPlan, error) {
	var steps []core.TrajectoryStep
	if err := json.Unmarshal(row.Steps, &steps); err != nil {
		return core.TrajectoryPlan{}, fmt.Errorf("error decoding steps for unit %s: %w", row.UnitID, err)
	}
	return core.TrajectoryPlan{
		UnitID: row.UnitID,
		SiteID: row.SiteID,
		Steps:  steps,
	}, nil
}
