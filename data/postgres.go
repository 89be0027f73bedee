// Copyright © 2026 Aron Vendel <aron@avendel.dev>

package data

import (
	"database/sql"

	_ "github.com/lib/pq"
)

type postgres_driver struct {
}

func init() {
	RegisterDBDriver("postgres", postgres_driver{})
}

func (postgres postgres_driver) OpenDatabase(db *sql.DB) error {
	if _, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS readings (
		timestamp      bigint,
		helmet_id      text,
		temperature    double precision,
		mq2_value      integer,
		flame_detected boolean,
		heart_rate     double precision,
		heart_rate_avg double precision,
		spo2           double precision,
		alert_status   text
	)`); err != nil {
		db.Close()
		return err
	}

	if _, err := db.Exec(`
	CREATE INDEX IF NOT EXISTS i_readings ON readings (
		helmet_id,
		timestamp
	)`); err != nil {
		db.Close()
		return err
	}

	return nil
}

func (postgres postgres_driver) Close(db *sql.DB) {
}

func (postgres postgres_driver) InsertReading(db *sql.DB, helmetID string, r Reading) error {
	stmt := `INSERT INTO readings (
		timestamp,
		helmet_id,
		temperature,
		mq2_value,
		flame_detected,
		heart_rate, heart_rate_avg, spo2, alert_status
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := db.Exec(stmt, r.Timestamp.Unix(), helmetID, r.Temperature, r.GasLevel,
		r.FlameDetected, r.HeartRate, r.HeartRateAvg, r.BloodOxygen, string(r.AlertStatus))
	return err
}

func (postgres postgres_driver) QueryReadings(db *sql.DB, helmetID string, start int64) (*sql.Rows, error) {
	stmt := `SELECT timestamp, temperature, mq2_value, flame_detected,
			heart_rate, heart_rate_avg, spo2, alert_status
		FROM readings
		WHERE
			helmet_id = $1 AND
			timestamp > $2
		ORDER BY timestamp`
	return db.Query(stmt, helmetID, start)
}
