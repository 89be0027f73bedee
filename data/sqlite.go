package data

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3" // Load SQLite DB driver
)

type sqlite_driver struct {
}

func init() {
	RegisterDBDriver("sqlite3", sqlite_driver{})
}

func (sqlite sqlite_driver) OpenDatabase(db *sql.DB) error {
	_, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS readings (
		timestamp      integer,
		helmet_id      text,
		temperature    real,
		mq2_value      integer,
		flame_detected integer,
		heart_rate     real,
		heart_rate_avg real,
		spo2           real,
		alert_status   text
	)`)
	if err != nil {
		db.Close()
		return err
	}

	return nil
}

func (sqlite sqlite_driver) Close(db *sql.DB) {
}

func (sqlite sqlite_driver) InsertReading(db *sql.DB, helmetID string, r Reading) error {
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

func (sqlite sqlite_driver) QueryReadings(db *sql.DB, helmetID string, start int64) (*sql.Rows, error) {
	stmt := `SELECT timestamp, temperature, mq2_value, flame_detected,
			heart_rate, heart_rate_avg, spo2, alert_status
		FROM readings
		WHERE
			helmet_id = ? AND
			timestamp > ?
		ORDER BY timestamp`
	return db.Query(stmt, helmetID, start)
}
