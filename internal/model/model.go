package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

////////////////////////
// DATABASE STRUCTURES //
////////////////////////

// DatabaseModels is a list of all the structs exported here which represent
// tables in the database schema
var DatabaseModels = []interface{}{
	&Campaign{},
	&PlacementRecord{},
	&TrajectoryRecord{},
}

// Campaign is one persisted planning run: the input points plus the frozen
// result identifiers. Point coordinates are stored as a JSON document since
// they are write-once and only ever read back whole.
type Campaign struct {
	gorm.Model
	Name    string         `json:"name" gorm:"size:127;index"`
	EPSG    int            `json:"epsg"`
	RunTime time.Time      `json:"runTime"`
	Points  datatypes.JSON `json:"points"`
}

// PlacementRecord is one unit's chosen site within a campaign.
type PlacementRecord struct {
	gorm.Model
	CampaignID uint    `json:"campaignId" gorm:"index"`
	UnitID     string  `json:"unitId" gorm:"size:63"`
	SiteID     string  `json:"siteId" gorm:"size:63"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
}

// TrajectoryRecord is one unit's timed scan program. Steps are stored as a
// JSON document; the planner reads plans back whole, never step by step.
type TrajectoryRecord struct {
	gorm.Model
	CampaignID  uint           `json:"campaignId" gorm:"index"`
	UnitID      string         `json:"unitId" gorm:"size:63"`
	SiteID      string         `json:"siteId" gorm:"size:63"`
	CycleTimeMs int64          `json:"cycleTimeMs"`
	Steps       datatypes.JSON `json:"steps"`
}
