// Package gormstore implements campaign persistence over any GORM dialector.
// The SQLite and Postgres backends embed it and add only connection handling.
package gormstore

import (
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/windlidar/campaign-planner/internal/model"
	"github.com/windlidar/campaign-planner/internal/model/convert"
	"github.com/windlidar/campaign-planner/pkg/core"
)

// Backend persists campaigns through a gorm.DB handle.
type Backend struct {
	db  *gorm.DB
	log zerolog.Logger
}

// New creates a backend over an open database handle.
func New(db *gorm.DB, log zerolog.Logger) *Backend {
	return &Backend{db: db, log: log}
}

// Init migrates the campaign tables.
func (b *Backend) Init() error {
	if err := b.db.AutoMigrate(model.DatabaseModels...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (b *Backend) Close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// DB exposes the handle for embedding backends.
func (b *Backend) DB() *gorm.DB { return b.db }

// SaveCampaign stores the run inputs and the frozen placement, returning the
// campaign's database ID.
func (b *Backend) SaveCampaign(name string, epsg int, points []core.MeasurementPoint, placement *core.Placement) (uint, error) {
	row, err := convert.CampaignToRow(name, epsg, time.Now(), points)
	if err != nil {
		return 0, err
	}
	if err := b.db.Create(&row).Error; err != nil {
		return 0, fmt.Errorf("error saving campaign %s: %w", name, err)
	}

	placements, err := convert.PlacementToRows(row.ID, placement)
	if err != nil {
		return 0, err
	}
	if len(placements) > 0 {
		if err := b.db.Create(&placements).Error; err != nil {
			return 0, fmt.Errorf("error saving placements for campaign %s: %w", name, err)
		}
	}

	b.log.Debug().Uint("campaignId", row.ID).Int("units", len(placements)).
		Msg("Campaign saved")
	return row.ID, nil
}

// SaveTrajectories stores one trajectory row per unit, in unit order.
func (b *Backend) SaveTrajectories(campaignID uint, plans map[string]core.TrajectoryPlan) error {
	unitIDs := make([]string, 0, len(plans))
	for id := range plans {
		unitIDs = append(unitIDs, id)
	}
	sort.Strings(unitIDs)

	rows := make([]model.TrajectoryRecord, 0, len(plans))
	for _, id := range unitIDs {
		row, err := convert.PlanToRow(campaignID, plans[id])
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil
	}
	if err := b.db.Create(&rows).Error; err != nil {
		return fmt.Errorf("error saving trajectories for campaign %d: %w", campaignID, err)
	}
	return nil
}

// ListCampaigns returns summaries of all stored campaigns, newest first.
func (b *Backend) ListCampaigns() ([]core.CampaignSummary, error) {
	var campaigns []model.Campaign
	if err := b.db.Order("created_at desc").Find(&campaigns).Error; err != nil {
		return nil, fmt.Errorf("error listing campaigns: %w", err)
	}

	summaries := make([]core.CampaignSummary, 0, len(campaigns))
	for _, c := range campaigns {
		var units int64
		if err := b.db.Model(&model.PlacementRecord{}).
			Where("campaign_id = ?", c.ID).Count(&units).Error; err != nil {
			return nil, fmt.Errorf("error counting placements: %w", err)
		}
		summaries = append(summaries, core.CampaignSummary{
			ID:      c.ID,
			Name:    c.Name,
			RunTime: c.RunTime,
			Units:   int(units),
		})
	}
	return summaries, nil
}
