// Package capacity stores and aggregates observations of how full ferry sailings are
package capacity

import (
	"time"

	"github.com/golang-sql/civil"
	"github.com/jmoiron/sqlx"
)

// Entry is a single observation of a sailing's remaining capacity, as published on the
// operator's current conditions page. Percentages are the share of space still available.
type Entry struct {
	Id    int64     `db:"id" json:"id"`
	Route string    `db:"route" json:"route"`
	Date  time.Time `db:"date" json:"date"`
	//Time is the scheduled departure time, hh:mm:ss
	Time           string   `db:"time" json:"time"`
	Vessel         string   `db:"vessel" json:"vessel"`
	OverallPercent *float64 `db:"overall_percent" json:"overall_percent"`
	VehiclePercent *float64 `db:"vehicle_percent" json:"vehicle_percent"`
	TruckPercent   *float64 `db:"truck_percent" json:"truck_percent"`
	Full           *bool    `db:"full" json:"full"`
	Eta            *string  `db:"eta" json:"eta"`
	Departure      *string  `db:"departure" json:"departure"`
	//Timestamp is when the observation was recorded
	Timestamp time.Time `db:"timestamp" json:"timestamp"`
}

// SailingDate returns the civil date of the sailing
func (e *Entry) SailingDate() civil.Date {
	return civil.DateOf(e.Date)
}

// IsFull reports whether the sailing was observed to be full
func (e *Entry) IsFull() bool {
	return e.Full != nil && *e.Full
}

// DateColumn converts a civil date to the value stored in a date column
func DateColumn(date civil.Date) time.Time {
	return date.In(time.UTC)
}

// RecordEntry saves Entry to the database
func RecordEntry(entry *Entry, db *sqlx.DB) error {

	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	statementString := "insert into entries " +
		"(route, " +
		"date, " +
		"time, " +
		"vessel, " +
		"overall_percent, " +
		"vehicle_percent, " +
		"truck_percent, " +
		"full, " +
		"eta, " +
		"departure, " +
		"timestamp) " +
		"values " +
		"(:route, " +
		":date, " +
		":time, " +
		":vessel, " +
		":overall_percent, " +
		":vehicle_percent, " +
		":truck_percent, " +
		":full, " +
		":eta, " +
		":departure, " +
		":timestamp)"
	statementString = db.Rebind(statementString)
	_, err := db.NamedExec(statementString, entry)
	return err
}
