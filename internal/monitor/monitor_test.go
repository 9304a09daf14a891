package monitor

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

func TestRecordAndLatest(t *testing.T) {
	s := NewService(Dependencies{Campaign: "test", Logger: nopLogger{}})

	s.Record(Progress{Stage: "search", Iteration: 1, Coverage: 2})
	s.Record(Progress{Stage: "search", Iteration: 2, Coverage: 3, Geometry: 1.5})

	latest := s.Latest()
	if latest.Iteration != 2 || latest.Coverage != 3 {
		t.Errorf("latest = %+v, want iteration 2 coverage 3", latest)
	}
	if latest.Time.IsZero() {
		t.Error("Record should stamp samples missing a time")
	}
	if s.Pending() != 2 {
		t.Errorf("pending = %d, want 2", s.Pending())
	}
}

func TestFlushWritesStatusFile(t *testing.T) {
	dir := t.TempDir()
	s := NewService(Dependencies{Campaign: "test", Logger: nopLogger{}, StatusDir: dir})

	s.Record(Progress{Stage: "search", Iteration: 10, Coverage: 4, Geometry: 2.1})
	if err := s.Flush(context.Background()); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	body, err := os.ReadFile(filepath.Join(dir, "status.json"))
	if err != nil {
		t.Fatalf("status file: %v", err)
	}
	var got Progress
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if got.Iteration != 10 || got.Coverage != 4 {
		t.Errorf("status = %+v, want iteration 10 coverage 4", got)
	}
	if s.Pending() != 0 {
		t.Errorf("pending = %d after flush, want 0", s.Pending())
	}
}

func TestRecordPhaseAndFlush(t *testing.T) {
	s := NewService(Dependencies{Campaign: "test", Logger: nopLogger{}})

	s.RecordPhase("parse", 120*time.Millisecond)
	s.RecordPhase("placement", 3*time.Second)
	if s.Pending() != 2 {
		t.Errorf("pending = %d, want 2", s.Pending())
	}

	// Phase samples alone must still drain, even with no progress samples
	// and no status dir.
	if err := s.Flush(context.Background()); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if s.Pending() != 0 {
		t.Errorf("pending = %d after flush, want 0", s.Pending())
	}
}

func TestFlushSkipsStatusFileWithoutProgress(t *testing.T) {
	dir := t.TempDir()
	s := NewService(Dependencies{Campaign: "test", Logger: nopLogger{}, StatusDir: dir})

	s.RecordPhase("trajectory", time.Second)
	if err := s.Flush(context.Background()); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "status.json")); !os.IsNotExist(err) {
		t.Error("status file should not be written for phase samples only")
	}
}

func TestStartStop(t *testing.T) {
	s := NewService(Dependencies{Campaign: "test", Logger: nopLogger{}})

	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !s.IsRunning() {
		t.Fatal("monitor should be running after Start")
	}
	s.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for s.IsRunning() {
		if time.Now().After(deadline) {
			t.Fatal("monitor did not stop")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
