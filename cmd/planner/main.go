// Command planner plans one scanning-lidar measurement campaign: it reads
// the terrain grid, the measurement points and the optional exclusion
// zones, places the configured units, synchronizes their scan trajectories
// and writes the delivery files.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/windlidar/campaign-planner/internal/api"
	"github.com/windlidar/campaign-planner/internal/campaign"
	"github.com/windlidar/campaign-planner/internal/config"
	"github.com/windlidar/campaign-planner/internal/influx"
	"github.com/windlidar/campaign-planner/internal/logging"
	"github.com/windlidar/campaign-planner/internal/monitor"
	intotel "github.com/windlidar/campaign-planner/internal/otel"
	"github.com/windlidar/campaign-planner/internal/storage"
)

// Version and BuildDate can be set at build time via ldflags.
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
)

func main() {
	var (
		configDir   = flag.String("config", ".", "directory containing planner.cfg.yaml")
		terrainPath = flag.String("terrain", "", "ESRI ASCII terrain grid (required)")
		pointsPath  = flag.String("points", "", "measurement point CSV (required)")
		zonesPath   = flag.String("zones", "", "exclusion zone WKT file (optional)")
		outDir      = flag.String("out", "./exports", "directory for the export files")
		list        = flag.Bool("list", false, "list stored campaigns and exit")
		version     = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *version {
		fmt.Printf("campaign-planner %s (built %s)\n", Version, BuildDate)
		return
	}

	if err := run(*configDir, *terrainPath, *pointsPath, *zonesPath, *outDir, *list); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(configDir, terrainPath, pointsPath, zonesPath, outDir string, listOnly bool) error {
	if err := config.Load(configDir); err != nil {
		return err
	}
	cc := config.GetCampaignConfig()

	logsDir := config.GetString("logsDir")
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}
	logFile, err := os.Create(logging.LogFilePath(logsDir, cc.Name, time.Now()))
	if err != nil {
		return fmt.Errorf("creating log file: %w", err)
	}
	defer logFile.Close()

	otelProvider, otelCleanup, err := setupOTel(logsDir)
	if err != nil {
		return err
	}
	defer otelCleanup()

	cx := campaign.NewContext()
	slogMgr := logging.NewSlogManager()
	slogMgr.Setup(logFile, config.GetString("logLevel"), otelProvider.LoggerProvider(), cx.Attrs)
	logger := slogMgr.Logger()
	logger.Info("campaign planner starting", "version", Version, "build", BuildDate)

	zl := zerolog.New(logFile).With().Timestamp().Logger()

	backend, err := storage.NewBackend(config.GetStorageConfig(), zl)
	if err != nil {
		return err
	}
	if err := backend.Init(); err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			logger.Error("closing storage", "error", err)
		}
	}()

	if listOnly {
		return listCampaigns(backend)
	}
	if terrainPath == "" || pointsPath == "" {
		return fmt.Errorf("both -terrain and -points are required")
	}

	mon := monitor.NewService(monitor.Dependencies{
		Campaign:  cc.Name,
		Influx:    setupInflux(zl, logsDir, logger),
		Logger:    logging.NewMonitorLogger(zl),
		StatusDir: logsDir,
	})
	if err := mon.Start(); err != nil {
		return err
	}
	defer mon.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	inputs, closeInputs, err := openInputs(terrainPath, pointsPath, zonesPath)
	if err != nil {
		return err
	}
	defer closeInputs()

	planner := campaign.NewPlanner(campaign.Dependencies{
		LogManager: slogMgr,
		Backend:    backend,
		Monitor:    mon,
		Context:    cx,
	})

	started := time.Now()
	res, err := planner.Run(ctx, inputs)
	if err != nil {
		return err
	}
	if err := planner.Export(outDir, res); err != nil {
		return err
	}
	if config.GetBool("registry.enabled") {
		uploadToRegistry(logger, outDir, res)
	}

	flushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := slogMgr.Flush(flushCtx); err != nil {
		logger.Error("flushing logs", "error", err)
	}

	fmt.Printf("campaign %q planned in %s\n", res.Name, time.Since(started).Round(time.Millisecond))
	for _, unitID := range res.Placement.UnitIDs() {
		site, _ := res.Placement.Site(unitID)
		fmt.Printf("  %s -> %s  cycle %s\n", unitID, site.ID, res.Plans[unitID].CycleTime())
	}
	fmt.Printf("exports written to %s\n", outDir)
	return nil
}

// setupOTel builds the OTel provider from configuration. The returned
// cleanup shuts the provider down and closes its log file.
func setupOTel(logsDir string) (*intotel.Provider, func(), error) {
	oc := config.GetOTelConfig()

	var logWriter io.WriteCloser
	if oc.Enabled {
		f, err := os.Create(filepath.Join(logsDir, "otel.log.json"))
		if err != nil {
			return nil, nil, fmt.Errorf("creating otel log file: %w", err)
		}
		logWriter = f
	}

	provider, err := intotel.New(intotel.Config{
		Enabled:      oc.Enabled,
		ServiceName:  oc.ServiceName,
		BatchTimeout: oc.BatchTimeout,
		LogWriter:    logWriter,
		Endpoint:     oc.Endpoint,
		Insecure:     oc.Insecure,
	})
	if err != nil {
		if logWriter != nil {
			logWriter.Close()
		}
		return nil, nil, fmt.Errorf("setting up otel: %w", err)
	}

	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = provider.Shutdown(ctx)
		if logWriter != nil {
			logWriter.Close()
		}
	}
	return provider, cleanup, nil
}

// setupInflux connects the metrics sink when enabled. A failed connection
// falls back to the manager's gzip backup file, so a nil return only means
// metrics are switched off entirely.
func setupInflux(zl zerolog.Logger, logsDir string, logger *slog.Logger) *influx.Manager {
	if !config.GetBool("influx.enabled") {
		return nil
	}
	im := influx.NewManager(zl, filepath.Join(logsDir, "metrics.lp.gz"))
	if err := im.Connect(); err != nil {
		logger.Warn("influx unavailable, metrics go to the backup file", "error", err)
	}
	return im
}

// uploadToRegistry publishes the YAML export to the campaign registry. The
// registry is a convenience mirror, so a failed upload is logged and does
// not fail the run.
func uploadToRegistry(logger *slog.Logger, outDir string, res *campaign.Result) {
	client := api.New(config.GetString("registry.url"), config.GetString("registry.apiKey"))
	if err := client.Healthcheck(); err != nil {
		logger.Warn("campaign registry unreachable, skipping upload", "error", err)
		return
	}

	var cycle time.Duration
	for _, plan := range res.Plans {
		cycle = plan.CycleTime()
		break
	}
	err := client.Upload(filepath.Join(outDir, res.Name+".yaml"), api.UploadMetadata{
		CampaignName: res.Name,
		EPSG:         res.EPSG,
		Units:        res.Placement.Len(),
		CycleTime:    cycle.Seconds(),
	})
	if err != nil {
		logger.Warn("campaign registry upload failed", "error", err)
		return
	}
	logger.Info("campaign uploaded to registry", "campaign", res.Name)
}

func openInputs(terrainPath, pointsPath, zonesPath string) (campaign.Inputs, func(), error) {
	var files []*os.File
	closeAll := func() {
		for _, f := range files {
			f.Close()
		}
	}
	open := func(path string) (*os.File, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
		return f, nil
	}

	terrain, err := open(terrainPath)
	if err != nil {
		closeAll()
		return campaign.Inputs{}, nil, fmt.Errorf("terrain file: %w", err)
	}
	points, err := open(pointsPath)
	if err != nil {
		closeAll()
		return campaign.Inputs{}, nil, fmt.Errorf("points file: %w", err)
	}

	in := campaign.Inputs{Terrain: terrain, Points: points}
	if zonesPath != "" {
		zones, err := open(zonesPath)
		if err != nil {
			closeAll()
			return campaign.Inputs{}, nil, fmt.Errorf("zones file: %w", err)
		}
		in.Zones = zones
	}
	return in, closeAll, nil
}

func listCampaigns(backend storage.Backend) error {
	summaries, err := backend.ListCampaigns()
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		fmt.Println("no campaigns stored")
		return nil
	}
	for _, s := range summaries {
		fmt.Printf("%4d  %-32s  %s  %d unit(s)\n",
			s.ID, s.Name, s.RunTime.Format(time.RFC3339), s.Units)
	}
	return nil
}
