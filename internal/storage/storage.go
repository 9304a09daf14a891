// internal/storage/storage.go
package storage

import (
	"github.com/windlidar/campaign-planner/pkg/core"
)

// Backend is the interface all storage implementations must satisfy
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Campaign persistence
	SaveCampaign(name string, epsg int, points []core.MeasurementPoint, placement *core.Placement) (uint, error)
	SaveTrajectories(campaignID uint, plans map[string]core.TrajectoryPlan) error

	// Retrieval
	ListCampaigns() ([]core.CampaignSummary, error)
}
