package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/windlidar/campaign-planner/internal/influx"
	"github.com/windlidar/campaign-planner/internal/queue"
)

// Logger is the minimal logging surface the monitor needs.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Progress is one optimizer sample recorded during a planning run.
type Progress struct {
	Stage     string    `json:"stage"`
	Iteration int       `json:"iteration"`
	Coverage  int       `json:"coverage"`
	Geometry  float64   `json:"geometry"`
	Time      time.Time `json:"time"`
}

// PhaseSample is the wall time one run phase took.
type PhaseSample struct {
	Phase   string        `json:"phase"`
	Elapsed time.Duration `json:"elapsed"`
	Time    time.Time     `json:"time"`
}

// Dependencies holds all dependencies for the run monitor.
type Dependencies struct {
	Campaign  string
	Influx    *influx.Manager
	Logger    Logger
	StatusDir string
}

// Service tracks optimizer progress for a running campaign. Samples are
// buffered through a queue and flushed once per second to InfluxDB and to
// a status file, so the hot search loop never blocks on I/O.
type Service struct {
	deps      Dependencies
	samples   *queue.Queue[Progress]
	phases    *queue.Queue[PhaseSample]
	latest    Progress
	isRunning bool
	mu        sync.RWMutex
	stopChan  chan struct{}
}

// NewService creates a new run monitor.
func NewService(deps Dependencies) *Service {
	return &Service{
		deps:     deps,
		samples:  queue.New[Progress](),
		phases:   queue.New[PhaseSample](),
		stopChan: make(chan struct{}),
	}
}

// IsRunning returns whether the monitor goroutine is active.
func (s *Service) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Record buffers one progress sample. Safe to call from search goroutines.
func (s *Service) Record(p Progress) {
	if p.Time.IsZero() {
		p.Time = time.Now()
	}
	s.samples.Push(p)
	s.mu.Lock()
	s.latest = p
	s.mu.Unlock()
}

// Latest returns the most recent sample.
func (s *Service) Latest() Progress {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// RecordPhase buffers the wall time one run phase took.
func (s *Service) RecordPhase(phase string, elapsed time.Duration) {
	s.phases.Push(PhaseSample{Phase: phase, Elapsed: elapsed, Time: time.Now()})
}

// Pending returns how many samples are buffered but not yet flushed.
func (s *Service) Pending() int {
	return s.samples.Len() + s.phases.Len()
}

// Flush drains the buffer, posting every sample to InfluxDB and rewriting
// the status file with the latest one.
func (s *Service) Flush(ctx context.Context) error {
	drained := s.samples.GetAndEmpty()
	phases := s.phases.GetAndEmpty()
	if len(drained) == 0 && len(phases) == 0 {
		return nil
	}

	if s.deps.Influx != nil {
		for _, p := range drained {
			point := influx.ProgressPoint(s.deps.Campaign, p.Stage, p.Iteration, p.Coverage, p.Geometry, p.Time)
			if err := s.deps.Influx.WritePoint(ctx, "planner_progress", point); err != nil {
				s.deps.Logger.Error("Error posting progress point", "error", err)
			}
		}
		for _, p := range phases {
			point := influx.PerformancePoint(s.deps.Campaign, p.Phase, p.Elapsed, p.Time)
			if err := s.deps.Influx.WritePoint(ctx, "planner_performance", point); err != nil {
				s.deps.Logger.Error("Error posting performance point", "error", err)
			}
		}
	}

	if s.deps.StatusDir != "" && len(drained) > 0 {
		if err := s.writeStatus(drained[len(drained)-1]); err != nil {
			s.deps.Logger.Error("Error writing status file", "error", err)
			return err
		}
	}
	return nil
}

func (s *Service) writeStatus(p Progress) error {
	body, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding status: %w", err)
	}
	path := filepath.Join(s.deps.StatusDir, "status.json")
	return os.WriteFile(path, body, 0644)
}

// Start starts the monitor goroutine.
func (s *Service) Start() error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.stopChan = make(chan struct{})
	s.mu.Unlock()

	go func() {
		defer func() {
			s.mu.Lock()
			s.isRunning = false
			s.mu.Unlock()
		}()

		s.deps.Logger.Debug("Starting run monitor goroutine")
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-s.stopChan:
				// final drain so the last samples are not lost
				if err := s.Flush(context.Background()); err != nil {
					s.deps.Logger.Error("Final flush failed", "error", err)
				}
				return
			case <-ticker.C:
				if err := s.Flush(context.Background()); err != nil {
					s.deps.Logger.Error("Flush failed", "error", err)
				}
			}
		}
	}()

	return nil
}

// Stop stops the monitor.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		close(s.stopChan)
	}
}
