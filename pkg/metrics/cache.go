package metrics

import "sync/atomic"

// Counters tracks how effective the chart cache is at absorbing repeat traffic.
type Counters struct {
	hits        atomic.Int64
	misses      atomic.Int64
	engineCalls atomic.Int64
}

// NewCounters returns a zeroed counter set.
func NewCounters() *Counters {
	return &Counters{}
}

func (c *Counters) Hit()        { c.hits.Add(1) }
func (c *Counters) Miss()       { c.misses.Add(1) }
func (c *Counters) EngineCall() { c.engineCalls.Add(1) }

// Snapshot is the serializable view exposed on the health endpoint.
type Snapshot struct {
	CacheHits   int64 `json:"cacheHits"`
	CacheMisses int64 `json:"cacheMisses"`
	EngineCalls int64 `json:"engineCalls"`
}

// Snapshot reads all counters at once.
func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		CacheHits:   c.hits.Load(),
		CacheMisses: c.misses.Load(),
		EngineCalls: c.engineCalls.Load(),
	}
}
