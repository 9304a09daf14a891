package influx

import (
	"testing"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

func TestCreateWritersIdempotent(t *testing.T) {
	viper.Set("influx.org", "planner-metrics")
	t.Cleanup(viper.Reset)

	m := NewManager(zerolog.Nop(), "")
	m.Client = influxdb2.NewClient("http://127.0.0.1:0", "")
	t.Cleanup(m.Client.Close)

	m.CreateWriters()
	if len(m.Writers) != len(DefaultBucketNames) {
		t.Fatalf("writers = %d, want %d", len(m.Writers), len(DefaultBucketNames))
	}
	first := m.Writers["planner_progress"]

	// Connect registers the writers itself; a second call from a caller
	// must not replace them or stack another error drain on the channel.
	m.CreateWriters()
	if len(m.Writers) != len(DefaultBucketNames) {
		t.Fatalf("writers = %d after second call, want %d", len(m.Writers), len(DefaultBucketNames))
	}
	if m.Writers["planner_progress"] != first {
		t.Error("repeated CreateWriters replaced an existing writer")
	}
}

func TestProgressPoint(t *testing.T) {
	at := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	p := ProgressPoint("hornsea-south", "placement", 250, 18, 0.82, at)

	if p.Name() != "optimizer_progress" {
		t.Errorf("measurement = %s, want optimizer_progress", p.Name())
	}
	if !p.Time().Equal(at) {
		t.Errorf("time = %v, want %v", p.Time(), at)
	}
}

func TestPerformancePoint(t *testing.T) {
	at := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	p := PerformancePoint("hornsea-south", "parse", 1500*time.Millisecond, at)

	if p.Name() != "run_performance" {
		t.Errorf("measurement = %s, want run_performance", p.Name())
	}
	fields := p.FieldList()
	if len(fields) != 1 || fields[0].Key != "elapsedMs" {
		t.Fatalf("fields = %+v, want one elapsedMs field", fields)
	}
	if fields[0].Value != float64(1500) {
		t.Errorf("elapsedMs = %v, want 1500", fields[0].Value)
	}
}
