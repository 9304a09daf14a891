package campaign

import (
	"log/slog"
	"sync"
	"time"
)

// Context holds the identity of the campaign currently being planned. Log
// records and monitor samples are tagged with it so concurrent tooling can
// tell runs apart.
type Context struct {
	mu      sync.RWMutex
	name    string
	runID   string
	started time.Time
}

// NewContext creates a new Context with default values
func NewContext() *Context {
	return &Context{name: "no campaign loaded"}
}

// Name returns the active campaign name.
func (c *Context) Name() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.name
}

// RunID returns the active run identifier.
func (c *Context) RunID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.runID
}

// Started returns when the active run began.
func (c *Context) Started() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.started
}

// SetCampaign sets the active campaign and stamps the run start.
func (c *Context) SetCampaign(name, runID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.name = name
	c.runID = runID
	c.started = time.Now()
}

// Attrs returns the log attributes identifying the active run. It satisfies
// logging.ContextProvider.
func (c *Context) Attrs() []slog.Attr {
	c.mu.RLock()
	defer c.mu.RUnlock()
	attrs := []slog.Attr{slog.String("campaign", c.name)}
	if c.runID != "" {
		attrs = append(attrs, slog.String("run", c.runID))
	}
	return attrs
}
