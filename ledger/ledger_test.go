// Copyright © 2026 Aron Vendel <aron@avendel.dev>

package ledger

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avendel/fireguard/data"
)

func reading(gas int) data.Reading {
	return data.Reading{
		Timestamp:   time.Now().Truncate(time.Second),
		Temperature: 20.0 + float64(gas)/10,
		GasLevel:    gas,
		AlertStatus: data.AlertNormal,
	}
}

func TestNewLedgerIsEmpty(t *testing.T) {
	l := New("H1", "John Doe", 10)

	assert.Zero(t, l.Len())
	assert.Empty(t, l.History())

	current := l.Current()
	assert.Equal(t, "H1", current.HelmetID)
	assert.Equal(t, "John Doe", current.Name)
	assert.Equal(t, data.AlertNormal, current.AlertStatus)
	assert.True(t, current.Timestamp.IsZero())
}

func TestAppendUpdatesCurrent(t *testing.T) {
	l := New("H1", "John Doe", 10)

	hr := 72.0
	r := reading(120)
	r.HeartRate = &hr
	l.Append(r)

	current := l.Current()
	assert.Equal(t, "H1", current.HelmetID)
	assert.Equal(t, 120, current.GasLevel)
	require.NotNil(t, current.HeartRate)
	assert.Equal(t, 72.0, *current.HeartRate)

	history := l.History()
	require.Len(t, history, 1)
	assert.Equal(t, r, history[0])
}

func TestCapacityEviction(t *testing.T) {
	l := New("H1", "John Doe", 5)

	for gas := 0; gas < 8; gas++ {
		l.Append(reading(gas))
	}

	history := l.History()
	require.Len(t, history, 5)
	// Oldest evicted first; the last five remain in order.
	for i, r := range history {
		assert.Equal(t, 3+i, r.GasLevel)
	}
	assert.Equal(t, 7, l.Current().GasLevel)
}

func TestHistoryReturnsCopy(t *testing.T) {
	l := New("H1", "John Doe", 10)
	l.Append(reading(1))

	history := l.History()
	history[0].GasLevel = 999

	assert.Equal(t, 1, l.History()[0].GasLevel)
}

func TestRecordIsConsistent(t *testing.T) {
	l := New("H1", "John Doe", 10)
	l.Append(reading(1))
	l.Append(reading(2))

	rec := l.Record()
	require.Len(t, rec.History, 2)
	assert.Equal(t, rec.GasLevel, rec.History[len(rec.History)-1].GasLevel)
}

func TestRestore(t *testing.T) {
	l := New("H1", "John Doe", 5)

	var history []data.Reading
	for gas := 0; gas < 8; gas++ {
		history = append(history, reading(gas))
	}
	l.Restore(data.HelmetRecord{
		Snapshot: data.Snapshot{HelmetID: "H9", Name: "someone else"},
		History:  history,
	})

	// Truncated to capacity, newest kept; configured identity wins.
	require.Equal(t, 5, l.Len())
	current := l.Current()
	assert.Equal(t, "H1", current.HelmetID)
	assert.Equal(t, "John Doe", current.Name)
	assert.Equal(t, 7, current.GasLevel)

	// Appends keep evicting correctly after a restore.
	l.Append(reading(8))
	assert.Equal(t, 5, l.Len())
	assert.Equal(t, 8, l.Current().GasLevel)
}

// Readers must never observe a current snapshot paired with a history
// whose tail is a different reading.
func TestConcurrentReadersSeeConsistentState(t *testing.T) {
	l := New("H1", "John Doe", 50)

	const appends = 500
	var wg sync.WaitGroup
	stop := make(chan struct{})
	torn := make(chan string, 1)

	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				rec := l.Record()
				if len(rec.History) == 0 {
					continue
				}
				tail := rec.History[len(rec.History)-1]
				if rec.GasLevel != tail.GasLevel {
					select {
					case torn <- "snapshot and history tail diverged":
					default:
					}
					return
				}
			}
		}()
	}

	for gas := 0; gas < appends; gas++ {
		l.Append(reading(gas))
	}
	close(stop)
	wg.Wait()

	select {
	case msg := <-torn:
		t.Fatal(msg)
	default:
	}

	assert.Equal(t, 50, l.Len())
	assert.Equal(t, appends-1, l.Current().GasLevel)
}
