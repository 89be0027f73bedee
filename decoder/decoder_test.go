// Copyright © 2026 Aron Vendel <aron@avendel.dev>

package decoder

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avendel/fireguard/data"
)

// feed runs lines through a fresh decoder and collects finalized readings.
func feed(t *testing.T, lines ...string) []data.Reading {
	t.Helper()
	d := New()
	var readings []data.Reading
	for _, line := range lines {
		if r, ok := d.Line(line); ok {
			readings = append(readings, r)
		}
	}
	return readings
}

func TestCompleteCycle(t *testing.T) {
	start := time.Now().Truncate(time.Second)
	readings := feed(t,
		"Temperature: 28.5",
		"MQ2 Value: 120",
		"Flame Detected? NO",
		"ALERT STATUS: Normal",
	)
	require.Len(t, readings, 1)

	r := readings[0]
	assert.Equal(t, 28.5, r.Temperature)
	assert.Equal(t, 120, r.GasLevel)
	assert.False(t, r.FlameDetected)
	assert.Equal(t, data.AlertNormal, r.AlertStatus)
	assert.Nil(t, r.HeartRate)
	assert.Nil(t, r.HeartRateAvg)
	assert.Zero(t, r.BloodOxygen)
	assert.False(t, r.Timestamp.Before(start))
}

func TestVitalsCycle(t *testing.T) {
	readings := feed(t,
		"Temperature: 36.6 ºC",
		"MQ2 Value: 85",
		"HR (BPM): 72",
		"Avg HR: 70.5",
		"SpO₂ (%): 97.5",
		"ALERT STATUS: Normal",
	)
	require.Len(t, readings, 1)

	r := readings[0]
	assert.Equal(t, 36.6, r.Temperature)
	require.NotNil(t, r.HeartRate)
	assert.Equal(t, 72.0, *r.HeartRate)
	require.NotNil(t, r.HeartRateAvg)
	assert.Equal(t, 70.5, *r.HeartRateAvg)
	assert.Equal(t, 97.5, r.BloodOxygen)
}

func TestUnrecognizedLinesAreIgnored(t *testing.T) {
	readings := feed(t,
		"",
		"booting...",
		"MAX30102 init OK",
		"Flame Raw: 512",
		"some : colon noise 123",
	)
	assert.Empty(t, readings)
}

func TestTriggerWithoutCoreFieldsKeepsPartialState(t *testing.T) {
	d := New()

	// Heart rate alone is not enough to finalize.
	_, ok := d.Line("Heart Rate: 80")
	assert.False(t, ok)
	_, ok = d.Line("ALERT STATUS: Normal")
	assert.False(t, ok)

	// The partial state survives the discarded trigger.
	_, ok = d.Line("Temperature: 30.0")
	assert.False(t, ok)
	r, ok := d.Line("ALERT STATUS: Normal")
	require.True(t, ok)
	require.NotNil(t, r.HeartRate)
	assert.Equal(t, 80.0, *r.HeartRate)
	assert.Equal(t, 30.0, r.Temperature)
}

func TestSmokeThenFlame(t *testing.T) {
	readings := feed(t,
		"Temperature: 40.1",
		"Smoke Detected: YES",
		"Flame Detected? YES",
		"ALERT STATUS: Normal",
	)
	require.Len(t, readings, 1)

	// The flame line wins the flame flag; the trigger line wins the alert
	// status, overwriting the smoke alert.
	assert.True(t, readings[0].FlameDetected)
	assert.Equal(t, data.AlertNormal, readings[0].AlertStatus)
}

func TestFlameThenSmoke(t *testing.T) {
	readings := feed(t,
		"Temperature: 40.1",
		"Flame Detected? YES",
		"Smoke Detected: YES",
		"ALERT STATUS: Normal",
	)
	require.Len(t, readings, 1)

	// The smoke line clears the flame flag when it comes later.
	assert.False(t, readings[0].FlameDetected)
	assert.Equal(t, data.AlertNormal, readings[0].AlertStatus)
}

func TestAffirmativeTrigger(t *testing.T) {
	readings := feed(t,
		"Temperature: 52.3",
		"ALERT STATUS: 🚨 ALERT",
	)
	require.Len(t, readings, 1)
	assert.Equal(t, data.AlertActive, readings[0].AlertStatus)
}

func TestHeartRateFallsBackToAverage(t *testing.T) {
	readings := feed(t,
		"MQ2 Value: 90",
		"Avg HR: 68",
		"ALERT STATUS: Normal",
	)
	require.Len(t, readings, 1)
	require.NotNil(t, readings[0].HeartRate)
	assert.Equal(t, 68.0, *readings[0].HeartRate)
}

func TestMalformedHeartRateDegradesToAverage(t *testing.T) {
	readings := feed(t,
		"MQ2 Value: 90",
		"Heart Rate: 81",
		"Avg HR: 68",
		"Heart Rate: n/a",
		"ALERT STATUS: Normal",
	)
	require.Len(t, readings, 1)

	// The malformed instant line clears the field, so the average wins.
	require.NotNil(t, readings[0].HeartRate)
	assert.Equal(t, 68.0, *readings[0].HeartRate)
}

func TestMalformedTemperatureDegradesToZero(t *testing.T) {
	readings := feed(t,
		"Temperature: ???",
		"ALERT STATUS: Normal",
	)
	require.Len(t, readings, 1)
	assert.Zero(t, readings[0].Temperature)
}

func TestTemperatureRequiresSeparator(t *testing.T) {
	readings := feed(t,
		"Temperature rising fast 99",
		"ALERT STATUS: Normal",
	)
	assert.Empty(t, readings)
}

func TestBloodOxygenRequiresPercentQualifier(t *testing.T) {
	readings := feed(t,
		"MQ2 Value: 90",
		"HR/SpO2 Alert threshold: 90",
		"ALERT STATUS: Normal",
	)
	require.Len(t, readings, 1)
	assert.Zero(t, readings[0].BloodOxygen)
}

func TestPartialResetsBetweenCycles(t *testing.T) {
	readings := feed(t,
		"Temperature: 28.5",
		"HR (BPM): 72",
		"ALERT STATUS: Normal",
		"MQ2 Value: 150",
		"ALERT STATUS: Normal",
	)
	require.Len(t, readings, 2)

	// The second cycle must not inherit the first one's fields.
	assert.Zero(t, readings[1].Temperature)
	assert.Equal(t, 150, readings[1].GasLevel)
	assert.Nil(t, readings[1].HeartRate)
}

func TestRun(t *testing.T) {
	stream := strings.Join([]string{
		"Temperature: 28.5",
		"MQ2 Value: 120",
		"ALERT STATUS: Normal",
		"Temperature: 29.0",
		"MQ2 Value: 121",
		"ALERT STATUS: 🚨 ALERT",
		"trailing noise",
	}, "\n")

	out := make(chan data.Reading, 4)
	err := New().Run(strings.NewReader(stream), out)
	require.NoError(t, err)

	var readings []data.Reading
	for r := range out {
		readings = append(readings, r)
	}
	require.Len(t, readings, 2)
	assert.Equal(t, data.AlertNormal, readings[0].AlertStatus)
	assert.Equal(t, data.AlertActive, readings[1].AlertStatus)
}
