// Package campaign orchestrates one full planning run: parse the inputs,
// derive candidate sites, search for a placement, synchronize the scan
// trajectories and hand the result to storage and the export writers.
package campaign

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/windlidar/campaign-planner/internal/config"
	"github.com/windlidar/campaign-planner/internal/export"
	"github.com/windlidar/campaign-planner/internal/geo"
	"github.com/windlidar/campaign-planner/internal/logging"
	"github.com/windlidar/campaign-planner/internal/monitor"
	"github.com/windlidar/campaign-planner/internal/optimizer"
	"github.com/windlidar/campaign-planner/internal/parser"
	"github.com/windlidar/campaign-planner/internal/storage"
	"github.com/windlidar/campaign-planner/internal/terrain"
	"github.com/windlidar/campaign-planner/internal/trajectory"
	"github.com/windlidar/campaign-planner/internal/visibility"
	"github.com/windlidar/campaign-planner/pkg/core"

	geom "github.com/peterstace/simplefeatures/geom"
)

// ErrNoUnits is returned when the configuration declares no lidar units.
var ErrNoUnits = errors.New("no lidar units configured")

// Inputs are the campaign input streams. Zones is optional.
type Inputs struct {
	Terrain io.Reader
	Points  io.Reader
	Zones   io.Reader
}

// Dependencies holds all dependencies for the planner
type Dependencies struct {
	LogManager *logging.SlogManager
	Backend    storage.Backend
	Monitor    *monitor.Service
	Context    *Context
}

// Result is the outcome of one planning run.
type Result struct {
	Name       string
	EPSG       int
	CampaignID uint

	Surface   *terrain.Surface
	Sites     []core.CandidateSite
	Points    []core.MeasurementPoint
	Placement *core.Placement
	Ordered   []core.MeasurementPoint
	Plans     map[string]core.TrajectoryPlan
}

// Planner runs planning campaigns against the loaded configuration.
type Planner struct {
	deps Dependencies
	log  *slog.Logger
}

// NewPlanner creates a new planner
func NewPlanner(deps Dependencies) *Planner {
	log := slog.Default()
	if deps.LogManager != nil {
		log = deps.LogManager.Logger()
	}
	return &Planner{deps: deps, log: log}
}

// Run executes one full planning pass and persists the result through the
// configured backend. The returned Result carries everything the export
// writers need.
func (p *Planner) Run(ctx context.Context, in Inputs) (*Result, error) {
	cc := config.GetCampaignConfig()
	oc := config.GetOptimizerConfig()
	tc := config.GetTrajectoryConfig()

	units, err := unitsFromConfig(config.GetUnits())
	if err != nil {
		return nil, err
	}

	if p.deps.Context != nil {
		p.deps.Context.SetCampaign(cc.Name, runID())
	}
	p.log.Info("planning campaign",
		"campaign", cc.Name,
		"epsg", cc.EPSG,
		"units", len(units))

	prs := parser.NewParser(p.log)

	phaseStart := time.Now()
	surface, err := prs.ParseRaster(in.Terrain)
	if err != nil {
		return nil, fmt.Errorf("terrain input: %w", err)
	}
	points, err := prs.ParsePoints(in.Points)
	if err != nil {
		return nil, fmt.Errorf("points input: %w", err)
	}
	var zones []geom.Geometry
	if in.Zones != nil {
		if zones, err = prs.ParseZones(in.Zones); err != nil {
			return nil, fmt.Errorf("zones input: %w", err)
		}
	}
	p.progress("parse", 0, len(points), 0)
	p.phase("parse", time.Since(phaseStart))

	sites := surface.CandidateSites(terrain.MaskOptions{
		Stride:         config.GetInt("campaign.siteStride"),
		MaxSlope:       cc.MaxSlope,
		MastHeight:     cc.MastHeight,
		ExclusionZones: zones,
	})
	p.log.Debug("candidate sites derived",
		"sites", len(sites),
		"exclusionZones", len(zones))

	eval := visibility.NewEvaluator(surface, cc.Clearance)
	opt, err := optimizer.New(eval, p.log)
	if err != nil {
		return nil, err
	}

	phaseStart = time.Now()
	placement, err := opt.Optimize(ctx, sites, points, optimizer.Constraints{
		Units:            units,
		MinUnitsPerPoint: cc.MinUnitsPerPoint,
		AccessPoint: core.Position3D{
			X: config.GetFloat("campaign.access.x"),
			Y: config.GetFloat("campaign.access.y"),
		},
		Policy: visibility.ScorePolicy{
			MinUnits: cc.MinUnitsPerPoint,
			Shape:    cc.ScoreShape,
		},
		MaxIterations: oc.MaxIterations,
		NoImprove:     oc.NoImprove,
		Restarts:      oc.Restarts,
		Seed:          oc.Seed,
		Workers:       oc.Workers,
	})
	if err != nil {
		return nil, fmt.Errorf("placement search: %w", err)
	}
	placement.Freeze()
	p.progress("placement", oc.Restarts*oc.MaxIterations, len(points), 0)
	p.phase("placement", time.Since(phaseStart))

	phaseStart = time.Now()
	ordered, err := trajectory.OrderPoints(placement, units, points)
	if err != nil {
		return nil, fmt.Errorf("scan order: %w", err)
	}
	plans, err := trajectory.Synchronize(placement, units, ordered, trajectory.Options{
		Dwell:   tc.Dwell,
		Cadence: tc.Cadence,
	})
	if err != nil {
		return nil, fmt.Errorf("trajectory synchronization: %w", err)
	}
	p.progress("trajectory", 0, len(points), 0)
	p.phase("trajectory", time.Since(phaseStart))

	res := &Result{
		Name:      cc.Name,
		EPSG:      cc.EPSG,
		Surface:   surface,
		Sites:     sites,
		Points:    points,
		Placement: placement,
		Ordered:   ordered,
		Plans:     plans,
	}

	if p.deps.Backend != nil {
		phaseStart = time.Now()
		id, err := p.deps.Backend.SaveCampaign(cc.Name, cc.EPSG, points, placement)
		if err != nil {
			return nil, fmt.Errorf("saving campaign: %w", err)
		}
		if err := p.deps.Backend.SaveTrajectories(id, plans); err != nil {
			return nil, fmt.Errorf("saving trajectories: %w", err)
		}
		res.CampaignID = id
		p.phase("persist", time.Since(phaseStart))
	}

	for _, id := range placement.UnitIDs() {
		site, _ := placement.Site(id)
		p.log.Info("unit placed",
			"unit", id,
			"site", site.ID,
			"cycleTime", plans[id].CycleTime())
	}
	return res, nil
}

// Export writes the delivery files for a finished run into dir: the YAML
// summary, the GeoJSON layer, a KML overlay and one motion program per
// unit.
func (p *Planner) Export(dir string, res *Result) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating export dir: %w", err)
	}

	bundle := export.Campaign{
		Name:      res.Name,
		EPSG:      res.EPSG,
		Points:    res.Points,
		Placement: res.Placement,
		Plans:     res.Plans,
	}

	if err := p.writeFile(filepath.Join(dir, res.Name+".yaml"), func(w io.Writer) error {
		return export.WriteYAML(w, bundle)
	}); err != nil {
		return err
	}
	if err := p.writeFile(filepath.Join(dir, res.Name+".geojson"), func(w io.Writer) error {
		return export.WriteGeoJSON(w, bundle)
	}); err != nil {
		return err
	}

	if ref, err := geo.NewGeoreference(res.EPSG); err != nil {
		// No transform for this CRS, the planar formats still stand.
		p.log.Warn("skipping KML export", "error", err)
	} else if err := p.writeFile(filepath.Join(dir, res.Name+".kml"), func(w io.Writer) error {
		return export.WriteKML(w, bundle, ref)
	}); err != nil {
		return err
	}

	for _, unitID := range res.Placement.UnitIDs() {
		name := fmt.Sprintf("%s.%s.motion.xml", res.Name, unitID)
		if err := p.writeFile(filepath.Join(dir, name), func(w io.Writer) error {
			return export.WriteMotionXML(w, bundle, unitID)
		}); err != nil {
			return err
		}
	}
	return nil
}

func (p *Planner) writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Base(path), err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", filepath.Base(path), err)
	}
	p.log.Debug("export written", "file", filepath.Base(path))
	return nil
}

func (p *Planner) phase(name string, elapsed time.Duration) {
	if p.deps.Monitor == nil {
		return
	}
	p.deps.Monitor.RecordPhase(name, elapsed)
}

func (p *Planner) progress(stage string, iteration, coverage int, geometry float64) {
	if p.deps.Monitor == nil {
		return
	}
	p.deps.Monitor.Record(monitor.Progress{
		Stage:     stage,
		Iteration: iteration,
		Coverage:  coverage,
		Geometry:  geometry,
	})
}

// runID stamps one planning run for log and monitor correlation.
func runID() string {
	return time.Now().Format("20060102T150405")
}

func unitsFromConfig(cfgs []config.UnitConfig) ([]core.LidarUnit, error) {
	if len(cfgs) == 0 {
		return nil, ErrNoUnits
	}
	units := make([]core.LidarUnit, 0, len(cfgs))
	for i, c := range cfgs {
		if c.ID == "" {
			return nil, fmt.Errorf("unit %d has no id", i)
		}
		units = append(units, core.LidarUnit{
			ID:    c.ID,
			Model: c.Model,
			Range: core.RangeLimits{Min: c.MinRange, Max: c.MaxRange},
			Motion: core.MotionLimits{
				MaxVelocity:     c.MaxVelocity,
				MaxAcceleration: c.MaxAcceleration,
			},
		})
	}
	return units, nil
}
