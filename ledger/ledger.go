// Copyright © 2026 Aron Vendel <aron@avendel.dev>

// Package ledger keeps the bounded reading history and the flattened
// current snapshot for one helmet, and publishes both to concurrent
// readers. One producer appends; any number of readers take copies.
package ledger

import (
	"sync"

	"github.com/avendel/fireguard/data"
)

// DefaultCapacity is how many readings are retained per helmet.
const DefaultCapacity = 100

// Ledger owns the history and snapshot of a single helmet. Multiple helmet
// streams get independent Ledger instances.
type Ledger struct {
	mu       sync.RWMutex
	capacity int
	history  []data.Reading
	current  data.Snapshot
}

func New(helmetID, name string, capacity int) *Ledger {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Ledger{
		capacity: capacity,
		history:  make([]data.Reading, 0, capacity),
		current: data.Snapshot{
			HelmetID:    helmetID,
			Name:        name,
			AlertStatus: data.AlertNormal,
		},
	}
}

// Append records a finalized reading: it is pushed to the back of the
// history, the oldest reading is evicted once the capacity is reached, and
// the current snapshot is refreshed. All of that happens under one lock,
// so a reader never sees a snapshot paired with a mismatched history tail.
func (l *Ledger) Append(r data.Reading) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.history) >= l.capacity {
		copy(l.history, l.history[1:])
		l.history[len(l.history)-1] = r
	} else {
		l.history = append(l.history, r)
	}
	l.setCurrent(r)
}

// setCurrent flattens a reading into the snapshot. Identity fields are
// left untouched. Callers must hold the write lock.
func (l *Ledger) setCurrent(r data.Reading) {
	l.current.Timestamp = r.Timestamp
	l.current.Temperature = r.Temperature
	l.current.GasLevel = r.GasLevel
	l.current.FlameDetected = r.FlameDetected
	l.current.HeartRate = r.HeartRate
	l.current.BloodOxygen = r.BloodOxygen
	l.current.AlertStatus = r.AlertStatus
}

// Current returns the flattened latest state.
func (l *Ledger) Current() data.Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

// History returns a copy of the retained readings, oldest first.
func (l *Ledger) History() []data.Reading {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]data.Reading, len(l.history))
	copy(out, l.history)
	return out
}

// Len reports how many readings are currently retained.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.history)
}

// Record returns the snapshot and history as one consistent unit, taken
// under a single lock. This is what gets persisted and served.
func (l *Ledger) Record() data.HelmetRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()
	history := make([]data.Reading, len(l.history))
	copy(history, l.history)
	return data.HelmetRecord{
		Snapshot: l.current,
		History:  history,
	}
}

// Restore reseeds the ledger from a persisted record, keeping the newest
// readings if the record exceeds the capacity. Identity fields configured
// at construction win over the ones in the record.
func (l *Ledger) Restore(rec data.HelmetRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()

	history := rec.History
	if len(history) > l.capacity {
		history = history[len(history)-l.capacity:]
	}
	l.history = make([]data.Reading, len(history), l.capacity)
	copy(l.history, history)

	if len(l.history) > 0 {
		l.setCurrent(l.history[len(l.history)-1])
	}
}
