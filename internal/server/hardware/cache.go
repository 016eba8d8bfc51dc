// Package hardware memoizes an expensive hardware-telemetry probe behind a
// time-to-live window.
package hardware

import (
	"context"
	"sync"
	"time"
)

// Snapshot is the cached hardware telemetry. It is replaced wholesale on
// every refresh, never partially mutated.
type Snapshot struct {
	PowerSummary   string
	ThermalSummary string
	Suggestions    []string
	LastRefreshed  time.Time
}

// Reading is the output of a single probe.
type Reading struct {
	PowerSummary   string
	ThermalSummary string
	Suggestions    []string
}

// Prober performs the underlying (expensive) hardware query.
type Prober interface {
	Probe(ctx context.Context) (Reading, error)
}

// Cache wraps a Prober with TTL memoization. A failed probe is cached too:
// its error text becomes both summaries and the timestamp is stamped, so a
// failing probe is retried at most once per window.
type Cache struct {
	mu     sync.Mutex
	prober Prober
	ttl    time.Duration

	snap  Snapshot
	valid bool
}

func NewCache(prober Prober, ttl time.Duration) *Cache {
	return &Cache{prober: prober, ttl: ttl}
}

// Snapshot returns the cached telemetry, refreshing it first when no
// snapshot exists yet or the cached one is older than the TTL. The probe
// runs under the cache lock, which is what guarantees at most one probe per
// window under concurrent callers.
func (c *Cache) Snapshot(ctx context.Context, now time.Time) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.valid && now.Sub(c.snap.LastRefreshed) <= c.ttl {
		return c.snap
	}

	reading, err := c.prober.Probe(ctx)
	if err != nil {
		msg := "Error querying hardware: " + err.Error()
		c.snap = Snapshot{
			PowerSummary:   msg,
			ThermalSummary: msg,
			LastRefreshed:  now,
		}
	} else {
		c.snap = Snapshot{
			PowerSummary:   reading.PowerSummary,
			ThermalSummary: reading.ThermalSummary,
			Suggestions:    reading.Suggestions,
			LastRefreshed:  now,
		}
	}
	c.valid = true

	return c.snap
}
