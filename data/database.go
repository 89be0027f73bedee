package data

import (
	"database/sql"
	"time"

	"github.com/spf13/viper"
)

type Database struct {
	db     *sql.DB
	driver DBdriver
}

var drivers map[string]DBdriver

// DBdriver abstracts the SQL dialect differences between the supported
// databases. Drivers register themselves from init() under the same name
// database/sql knows them by.
type DBdriver interface {
	OpenDatabase(db *sql.DB) error
	Close(db *sql.DB)
	InsertReading(db *sql.DB, helmetID string, r Reading) error
	QueryReadings(db *sql.DB, helmetID string, start int64) (*sql.Rows, error)
}

func init() {
	drivers = make(map[string]DBdriver)
}

func RegisterDBDriver(name string, driver DBdriver) {
	drivers[name] = driver
}

func DBDrivers() []string {
	names := make([]string, len(drivers))
	i := 0
	for name := range drivers {
		names[i] = name
		i++
	}
	return names
}

func OpenDatabase() (*Database, error) {
	db, err := sql.Open(viper.GetString("dbDriver"), viper.GetString("database"))
	if err != nil {
		return nil, err
	}

	driver := drivers[viper.GetString("dbDriver")]
	if err := driver.OpenDatabase(db); err != nil {
		return nil, err
	}

	return &Database{db, driver}, nil
}

func (database *Database) Close() {
	database.driver.Close(database.db)
	database.db.Close()
}

func (database *Database) InsertReading(helmetID string, r Reading) error {
	return database.driver.InsertReading(database.db, helmetID, r)
}

// Readings streams the stored readings for one helmet since the given Unix
// timestamp, oldest first. Rows that fail to scan are skipped.
func (database *Database) Readings(helmetID string, start int64) <-chan Reading {
	rows, err := database.driver.QueryReadings(database.db, helmetID, start)
	if err != nil {
		return nil
	}

	ch := make(chan Reading, 64)
	go func() {
		defer rows.Close()
		for rows.Next() {
			r, err := scanReading(rows)
			if err != nil {
				continue
			}
			ch <- r
		}
		close(ch)
	}()
	return ch
}

func scanReading(rows *sql.Rows) (Reading, error) {
	var (
		r         Reading
		timestamp int64
		flame     bool
		hr, avg   sql.NullFloat64
		alert     string
	)
	err := rows.Scan(&timestamp, &r.Temperature, &r.GasLevel, &flame, &hr, &avg, &r.BloodOxygen, &alert)
	if err != nil {
		return Reading{}, err
	}
	r.Timestamp = time.Unix(timestamp, 0)
	r.FlameDetected = flame
	if hr.Valid {
		r.HeartRate = &hr.Float64
	}
	if avg.Valid {
		r.HeartRateAvg = &avg.Float64
	}
	r.AlertStatus = AlertStatus(alert)
	return r, nil
}
