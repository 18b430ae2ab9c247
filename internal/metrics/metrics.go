// Package metrics exposes plinko-hintd's runtime counters as a JSON
// /metrics endpoint and a /health liveness check, using plain atomic
// counters and the standard library's http server rather than a
// third-party metrics client.
package metrics

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"
)

// Collector accumulates counters for one running engine. Safe for
// concurrent use.
type Collector struct {
	totalEntries      atomic.Int64
	totalQueries      atomic.Int64
	totalUpdates      atomic.Int64
	totalQueryNanos   atomic.Int64
	totalUpdateNanos  atomic.Int64
	lastSnapshotNanos atomic.Int64
	ready             atomic.Bool
}

// New returns an empty Collector.
func New() *Collector {
	return &Collector{}
}

// RecordEntry counts one processEntry call during streaming build.
func (c *Collector) RecordEntry() {
	c.totalEntries.Add(1)
}

// RecordQuery counts one getHint/consumeHint round trip and its latency.
func (c *Collector) RecordQuery(d time.Duration) {
	c.totalQueries.Add(1)
	c.totalQueryNanos.Add(d.Nanoseconds())
}

// RecordUpdate counts one updateHint call and its latency.
func (c *Collector) RecordUpdate(d time.Duration) {
	c.totalUpdates.Add(1)
	c.totalUpdateNanos.Add(d.Nanoseconds())
}

// RecordSnapshot marks a successful snapshot publish.
func (c *Collector) RecordSnapshot() {
	c.lastSnapshotNanos.Store(time.Now().UnixNano())
}

// SetReady flips the readiness flag surfaced on /health.
func (c *Collector) SetReady(ready bool) {
	c.ready.Store(ready)
}

// Snapshot is the JSON-serializable view of the collector.
type Snapshot struct {
	TotalEntries        int64   `json:"total_entries"`
	TotalQueries        int64   `json:"total_queries"`
	AvgQueryMicros      float64 `json:"avg_query_micros"`
	TotalUpdates        int64   `json:"total_updates"`
	AvgUpdateMicros     float64 `json:"avg_update_micros"`
	LastSnapshotRFC3339 string  `json:"last_snapshot,omitempty"`
}

func (c *Collector) snapshot() Snapshot {
	queries := c.totalQueries.Load()
	updates := c.totalUpdates.Load()

	var avgQuery, avgUpdate float64
	if queries > 0 {
		avgQuery = float64(c.totalQueryNanos.Load()) / float64(queries) / 1e3
	}
	if updates > 0 {
		avgUpdate = float64(c.totalUpdateNanos.Load()) / float64(updates) / 1e3
	}

	s := Snapshot{
		TotalEntries:    c.totalEntries.Load(),
		TotalQueries:    queries,
		AvgQueryMicros:  avgQuery,
		TotalUpdates:    updates,
		AvgUpdateMicros: avgUpdate,
	}
	if nanos := c.lastSnapshotNanos.Load(); nanos > 0 {
		s.LastSnapshotRFC3339 = time.Unix(0, nanos).UTC().Format(time.RFC3339)
	}
	return s
}

// Handler returns an http.ServeMux wired with /health and /metrics.
func (c *Collector) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if !c.ready.Load() {
			http.Error(w, `{"status":"starting"}`, http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy","service":"plinko-hintd"}`))
	})

	mux.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(c.snapshot())
	})

	return mux
}
