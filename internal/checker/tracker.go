package checker

import (
	"sort"
	"sync"
)

// HostTracker counts confirmed-invalid outcomes per host for one run.
// It is safe for concurrent use and is never consulted when classifying.
type HostTracker struct {
	mu     sync.Mutex
	counts map[string]int
}

// NewHostTracker returns an empty tracker.
func NewHostTracker() *HostTracker {
	return &HostTracker{counts: make(map[string]int)}
}

// Record increments the failure count for host. Empty hosts are ignored.
func (t *HostTracker) Record(host string) {
	if host == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.counts[host]++
}

// Count returns the failure count recorded for host.
func (t *HostTracker) Count(host string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.counts[host]
}

// Snapshot returns a copy of all counts.
func (t *HostTracker) Snapshot() map[string]int {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string]int, len(t.counts))
	for h, n := range t.counts {
		out[h] = n
	}
	return out
}

// HostCount is one row of [HostTracker.Top].
type HostCount struct {
	Host  string `json:"host"`
	Count int    `json:"count"`
}

// Top returns the n hosts with the most failures, highest first, ties by
// host name. n <= 0 returns every host.
func (t *HostTracker) Top(n int) []HostCount {
	snap := t.Snapshot()
	rows := make([]HostCount, 0, len(snap))
	for h, c := range snap {
		rows = append(rows, HostCount{Host: h, Count: c})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Host < rows[j].Host
	})
	if n > 0 && len(rows) > n {
		rows = rows[:n]
	}
	return rows
}
