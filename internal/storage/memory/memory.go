// Package memory stores campaigns in memory and exports them to JSON files
// on close. It is the default backend for single-run CLI use, where a
// database would be overkill.
package memory

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/windlidar/campaign-planner/internal/config"
	"github.com/windlidar/campaign-planner/pkg/core"
)

// campaignRecord groups one campaign with its placement and plans.
type campaignRecord struct {
	ID      uint                           `json:"id"`
	Name    string                         `json:"name"`
	EPSG    int                            `json:"epsg"`
	RunTime time.Time                      `json:"runTime"`
	Points  []core.MeasurementPoint        `json:"points"`
	Sites   map[string]core.CandidateSite  `json:"sites"`
	Plans   map[string]core.TrajectoryPlan `json:"plans,omitempty"`
}

// Backend stores campaign data in memory and exports to JSON.
type Backend struct {
	cfg       config.MemoryConfig
	campaigns map[uint]*campaignRecord
	idCounter uint
	mu        sync.RWMutex
}

// New creates a new memory backend
func New(cfg config.MemoryConfig) *Backend {
	return &Backend{
		cfg:       cfg,
		campaigns: make(map[uint]*campaignRecord),
	}
}

// Init creates the output directory.
func (b *Backend) Init() error {
	if b.cfg.OutputDir == "" {
		return nil
	}
	return os.MkdirAll(b.cfg.OutputDir, 0755)
}

// Close exports every stored campaign to a JSON file.
func (b *Backend) Close() error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.cfg.OutputDir == "" {
		return nil
	}
	for _, rec := range b.campaigns {
		name := fmt.Sprintf("%s.%s.json", rec.Name, rec.RunTime.Format("20060102_150405"))
		body, err := json.MarshalIndent(rec, "", "  ")
		if err != nil {
			return fmt.Errorf("error encoding campaign %s: %w", rec.Name, err)
		}
		if err := os.WriteFile(filepath.Join(b.cfg.OutputDir, name), body, 0644); err != nil {
			return fmt.Errorf("error exporting campaign %s: %w", rec.Name, err)
		}
	}
	return nil
}

// SaveCampaign stores the run inputs and the frozen placement.
func (b *Backend) SaveCampaign(name string, epsg int, points []core.MeasurementPoint, placement *core.Placement) (uint, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	sites := make(map[string]core.CandidateSite, placement.Len())
	for _, unitID := range placement.UnitIDs() {
		site, err := placement.Site(unitID)
		if err != nil {
			return 0, err
		}
		sites[unitID] = site
	}

	b.idCounter++
	b.campaigns[b.idCounter] = &campaignRecord{
		ID:      b.idCounter,
		Name:    name,
		EPSG:    epsg,
		RunTime: time.Now(),
		Points:  points,
		Sites:   sites,
	}
	return b.idCounter, nil
}

// SaveTrajectories attaches plans to a stored campaign.
func (b *Backend) SaveTrajectories(campaignID uint, plans map[string]core.TrajectoryPlan) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	rec, ok := b.campaigns[campaignID]
	if !ok {
		return fmt.Errorf("campaign %d not found", campaignID)
	}
	rec.Plans = plans
	return nil
}

// ListCampaigns returns summaries of all stored campaigns.
func (b *Backend) ListCampaigns() ([]core.CampaignSummary, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	summaries := make([]core.CampaignSummary, 0, len(b.campaigns))
	for id := uint(1); id <= b.idCounter; id++ {
		rec, ok := b.campaigns[id]
		if !ok {
			continue
		}
		summaries = append(summaries, core.CampaignSummary{
			ID:      rec.ID,
			Name:    rec.Name,
			RunTime: rec.RunTime,
			Units:   len(rec.Sites),
		})
	}
	return summaries, nil
}
