// Package timing accumulates wall-clock durations per named operation.
package timing

import (
	"sort"
	"sync"
	"time"
)

type Tracker struct {
	timings map[string][]time.Duration
	mu      sync.RWMutex
}

func NewTracker() *Tracker {
	return &Tracker{timings: make(map[string][]time.Duration)}
}

// Start begins timing operation; the returned func records the duration.
func (tt *Tracker) Start(operation string) func() {
	start := time.Now()
	return func() {
		tt.Record(operation, time.Since(start))
	}
}

func (tt *Tracker) Record(operation string, d time.Duration) {
	tt.mu.Lock()
	defer tt.mu.Unlock()

	tt.timings[operation] = append(tt.timings[operation], d)
}

// Stat summarizes one operation.
type Stat struct {
	Operation string
	Count     int
	Total     time.Duration
}

// Mean is the average duration of one call.
func (s Stat) Mean() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Count)
}

// Summary returns one Stat per operation, sorted by name.
func (tt *Tracker) Summary() []Stat {
	tt.mu.RLock()
	defer tt.mu.RUnlock()

	stats := make([]Stat, 0, len(tt.timings))
	for operation, timings := range tt.timings {
		s := Stat{Operation: operation, Count: len(timings)}
		for _, d := range timings {
			s.Total += d
		}
		stats = append(stats, s)
	}

	sort.Slice(stats, func(i, j int) bool { return stats[i].Operation < stats[j].Operation })
	return stats
}

// Reset drops every recorded duration.
func (tt *Tracker) Reset() {
	tt.mu.Lock()
	defer tt.mu.Unlock()

	tt.timings = make(map[string][]time.Duration)
}
