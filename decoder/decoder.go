// Copyright © 2026 Aron Vendel <aron@avendel.dev>

// Package decoder turns the helmet firmware's line-oriented serial chatter
// into discrete readings. Fields of one reading arrive spread over several
// consecutive lines; the ALERT STATUS line closes the cycle. Malformed or
// unknown lines never abort the stream, they degrade to an absent field or
// are skipped.
package decoder

import (
	"bufio"
	"io"
	"time"

	jww "github.com/spf13/jwalterweatherman"

	"github.com/avendel/fireguard/data"
)

// partialReading accumulates the fields of one cycle. Every field stays
// absent until a line sets it; fields are only overwritten within a cycle.
type partialReading struct {
	temperature  *float64
	gasLevel     *int
	flame        *bool
	heartRate    *float64
	heartRateAvg *float64
	bloodOxygen  *float64
	alert        data.AlertStatus
}

// Decoder assembles readings from one helmet's line stream. It is not safe
// for concurrent use; one stream has one producer.
type Decoder struct {
	partial partialReading
}

func New() *Decoder {
	return &Decoder{}
}

// Line consumes one raw line. It returns a finalized Reading and true when
// the line completed a cycle. Feeding a line never fails: empty,
// unrecognized and malformed lines are no-ops.
func (d *Decoder) Line(raw string) (data.Reading, bool) {
	line := normalize(raw)
	if line == "" {
		return data.Reading{}, false
	}

	for _, m := range matchers {
		if m.match(line) {
			m.apply(&d.partial, line)
			jww.TRACE.Printf("matched %s: %s", m.name, line)
			return data.Reading{}, false
		}
	}

	if isTrigger(line) {
		return d.finalize(line)
	}

	jww.TRACE.Println("ignoring line:", line)
	return data.Reading{}, false
}

// finalize closes the cycle on a trigger line. The trigger's own status
// wins over a Smoke Alert set earlier in the cycle; that overwrite matches
// the firmware protocol as observed. Without at least a temperature or a
// gas level there is nothing worth recording, so the trigger is consumed
// and the partial state carries into the next cycle.
func (d *Decoder) finalize(line string) (data.Reading, bool) {
	d.partial.alert = triggerStatus(line)

	if d.partial.temperature == nil && d.partial.gasLevel == nil {
		jww.DEBUG.Println("trigger line before any core field, keeping partial state")
		return data.Reading{}, false
	}

	r := data.Reading{
		Timestamp:    time.Now().Truncate(time.Second),
		HeartRate:    d.partial.heartRate,
		HeartRateAvg: d.partial.heartRateAvg,
		AlertStatus:  d.partial.alert,
	}
	if d.partial.temperature != nil {
		r.Temperature = *d.partial.temperature
	}
	if d.partial.gasLevel != nil {
		r.GasLevel = *d.partial.gasLevel
	}
	if d.partial.flame != nil {
		r.FlameDetected = *d.partial.flame
	}
	if d.partial.bloodOxygen != nil {
		r.BloodOxygen = *d.partial.bloodOxygen
	}
	if r.HeartRate == nil {
		r.HeartRate = d.partial.heartRateAvg
	}

	d.partial = partialReading{}
	return r, true
}

// Run drives the decoder over a line stream until it ends, sending every
// finalized reading to out. The channel is closed on return. The returned
// error is the stream's own error, never a parse failure; the caller
// decides the retry policy.
func (d *Decoder) Run(reader io.Reader, out chan<- data.Reading) error {
	defer close(out)

	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		if reading, ok := d.Line(scanner.Text()); ok {
			out <- reading
		}
	}
	return scanner.Err()
}
