// Copyright © 2026 Aron Vendel <aron@avendel.dev>

package data

import (
	"database/sql"

	_ "github.com/go-sql-driver/mysql"
)

type mysql_driver struct {
}

func init() {
	RegisterDBDriver("mysql", mysql_driver{})
}

func (mysql mysql_driver) OpenDatabase(db *sql.DB) error {
	_, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS readings (
		timestamp      bigint,
		helmet_id      varchar(64),
		temperature    double,
		mq2_value      integer,
		flame_detected boolean,
		heart_rate     double,
		heart_rate_avg double,
		spo2           double,
		alert_status   varchar(32),
		INDEX i_readings (helmet_id, timestamp)
	)`)
	if err != nil {
		db.Close()
		return err
	}

	return nil
}

func (mysql mysql_driver) Close(db *sql.DB) {
}

func (mysql mysql_driver) InsertReading(db *sql.DB, helmetID string, r Reading) error {
	stmt := `INSERT INTO readings (
		timestamp,
		helmet_id,
		temperature,
		mq2_value,
		flame_detected,
		heart_rate, heart_rate_avg, spo2, alert_status
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := db.Exec(stmt, r.Timestamp.Unix(), helmetID, r.Temperature, r.GasLevel,
		r.FlameDetected, r.HeartRate, r.HeartRateAvg, r.BloodOxygen, string(r.AlertStatus))
	return err
}

func (mysql mysql_driver) QueryReadings(db *sql.DB, helmetID string, start int64) (*sql.Rows, error) {
	stmt := `SELECT timestamp, temperature, mq2_value, flame_detected,
			heart_rate, heart_rate_avg, spo2, alert_status
		FROM readings
		WHERE
			helmet_id = ? AND
			timestamp > ?
		ORDER BY timestamp`
	return db.Query(stmt, helmetID, start)
}
