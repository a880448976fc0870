package engine

import (
	"sync"

	"rats-server/models"
)

// Counters holds the process wide statistics. Every mutation happens under
// its own lock, which may be taken while a game lock is held but never the
// other way round.
type Counters struct {
	mu    sync.Mutex
	stats models.Stats
}

func NewCounters() *Counters {
	return &Counters{}
}

func (c *Counters) ClientConnected() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats.Connected++
	c.stats.TotalConnected++
}

func (c *Counters) ClientDisconnected() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats.Connected--
}

func (c *Counters) GameStarted() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats.Running++
}

// GameTerminated accounts for a game that ended with a disconnect.
func (c *Counters) GameTerminated() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats.Running--
	c.stats.Terminated++
}

// GameCompleted accounts for a game that played all its tricks. Completed
// games count as terminated too.
func (c *Counters) GameCompleted() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats.Running--
	c.stats.Terminated++
	c.stats.Completed++
}

func (c *Counters) TrickPlayed() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats.Tricks++
}

func (c *Counters) Snapshot() models.Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}
