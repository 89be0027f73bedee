// Copyright © 2026 Aron Vendel <aron@avendel.dev>

package data

import "time"

// AlertStatus is the helmet's alert state as reported on the trigger line.
// The string values match what the firmware prints and what the dashboard
// expects in JSON.
type AlertStatus string

const (
	AlertNormal AlertStatus = "Normal"
	AlertActive AlertStatus = "ALERT"
	AlertSmoke  AlertStatus = "Smoke Alert"
)

// Reading is one finalized sensor cycle. It is immutable once produced.
// HeartRate is the instant rate if the firmware reported one, otherwise the
// rolling average, otherwise nil. HeartRateAvg keeps the raw average so the
// persisted history stays lossless.
type Reading struct {
	Timestamp     time.Time   `json:"timestamp"`
	Temperature   float64     `json:"temperature"`
	GasLevel      int         `json:"mq2_value"`
	FlameDetected bool        `json:"flame_detected"`
	HeartRate     *float64    `json:"heart_rate"`
	HeartRateAvg  *float64    `json:"heart_rate_avg"`
	BloodOxygen   float64     `json:"spo2"`
	AlertStatus   AlertStatus `json:"alert_status"`
}

// Snapshot is the flattened latest state of one helmet, used for card
// display without walking the history. The heartRate JSON key is camelCase
// because that is what the dashboard has always consumed.
type Snapshot struct {
	HelmetID      string      `json:"helmet_id"`
	Name          string      `json:"name"`
	Timestamp     time.Time   `json:"timestamp"`
	Temperature   float64     `json:"temperature"`
	GasLevel      int         `json:"mq2_value"`
	FlameDetected bool        `json:"flame_detected"`
	HeartRate     *float64    `json:"heartRate"`
	BloodOxygen   float64     `json:"spo2"`
	AlertStatus   AlertStatus `json:"alert_status"`
}

// HelmetRecord is the serialized form of one helmet: the flat snapshot
// plus the bounded time-series history, oldest first. This is the shape
// persisted to disk and served by the /helmets endpoint.
type HelmetRecord struct {
	Snapshot
	History []Reading `json:"history"`
}

// Sample is the wire unit published on the MQTT bus between the decoder
// and its consumers (server, record, push, watch).
type Sample struct {
	HelmetID string `json:"helmet_id"`
	Reading
}
