package capacity

import (
	"fmt"
	"time"

	"github.com/OpenTransitTools/ferrycast/foundation/database"
	"github.com/golang-sql/civil"
	"github.com/jmoiron/sqlx"
)

// SailingSummary counts how often a sailing time filled up over recent weeks
type SailingSummary struct {
	Time      string `db:"time" json:"time"`
	Total     int    `db:"total" json:"total"`
	FullCount int    `db:"full_count" json:"full_count"`
}

// FullRatio returns the fraction of observed days the sailing filled up
func (s SailingSummary) FullRatio() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.FullCount) / float64(s.Total)
}

// DowResult is one past day in a sailing's history. Full is when the sailing was first seen
// full that day, nil if it never filled.
type DowResult struct {
	Date time.Time  `db:"date" json:"date"`
	Full *time.Time `db:"full" json:"full"`
}

// summaryWeeks and historyWeeks are how far back the aggregation queries look
const (
	summaryWeeks = 12
	historyWeeks = 6
)

// mostRecentWeekday selects the latest day before today that falls on weekday $1
const mostRecentWeekday = "with most_recent_weekday as ( " +
	"select days " +
	"from generate_series(current_date - interval '1 day', " +
	"current_date - interval '1 day' - interval '1 week', " +
	"- interval '1 day') days " +
	"where extract(dow from days) = $1 " +
	"limit 1) "

// GetDailySummary counts, for each sailing time on route, how many of the last twelve
// weekdays matching dow it was observed and how many of those it filled up
func GetDailySummary(db *sqlx.DB, dow time.Weekday, route string) ([]SailingSummary, error) {
	query := mostRecentWeekday +
		", dates as ( " +
		"select date::date as date " +
		"from generate_series((select * from most_recent_weekday), " +
		fmt.Sprintf("current_date - interval '1 week' * %d, ", summaryWeeks) +
		"- interval '1 week') as date), " +
		"daily_status as ( " +
		"select e.date, e.time, bool_or(e.full) as was_full " +
		"from dates d " +
		"join entries e on e.date = d.date " +
		"where e.route = $2 " +
		"group by e.date, e.time) " +
		"select ds.time::text as time, " +
		"count(*) as total, " +
		"count(case when ds.was_full then 1 end) as full_count " +
		"from daily_status ds " +
		"group by ds.time " +
		"order by ds.time"
	var results []SailingSummary
	err := db.Select(&results, query, int(dow), route)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve daily summary for route %s dow %d: %w", route, dow, err)
	}
	return results, nil
}

// GetEntriesForDow returns the last six weekdays matching dow, most recent first, with the
// time the sailing on route first filled up on each
func GetEntriesForDow(db *sqlx.DB, dow time.Weekday, route string, sailing string) ([]DowResult, error) {
	query := mostRecentWeekday +
		"select date.date::date as date, " +
		"(select timestamp from entries " +
		"where date = date.date and route = $2 and time = $3 and full " +
		"order by timestamp limit 1) as full " +
		"from generate_series((select * from most_recent_weekday), " +
		fmt.Sprintf("current_date - interval '1 week' * %d, ", historyWeeks) +
		"- interval '1 week') as date"
	var results []DowResult
	err := db.Select(&results, query, int(dow), route, sailing)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve sailing history for route %s dow %d sailing %s: %w",
			route, dow, sailing, err)
	}
	return results, nil
}

// GetEntriesForDate returns every observation for route on date ordered by when it was
// recorded. When sailings is not empty only those sailing times are returned.
func GetEntriesForDate(db *sqlx.DB, date civil.Date, route string, sailings []string) ([]Entry, error) {
	statementString := "select id, route, date, time::text as time, vessel, overall_percent, " +
		"vehicle_percent, truck_percent, full, eta::text as eta, departure::text as departure, timestamp " +
		"from entries where date = :date and route = :route "
	sqlArgMap := map[string]interface{}{
		"date":  DateColumn(date),
		"route": route,
	}
	if len(sailings) > 0 {
		statementString += "and time in (:sailings) "
		sqlArgMap["sailings"] = sailings
	}
	statementString += "order by timestamp"

	rows, err := database.PrepareNamedQueryRowsFromMap(statementString, db, sqlArgMap)
	if err != nil {
		return nil, fmt.Errorf("unable to query entries for %s on %s: %w", route, date, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var results []Entry
	for rows.Next() {
		var entry Entry
		err = rows.StructScan(&entry)
		if err != nil {
			return nil, fmt.Errorf("unable to scan entry: %w", err)
		}
		results = append(results, entry)
	}
	return results, rows.Err()
}

// GetSailings returns the sailing times observed in the last week
func GetSailings(db *sqlx.DB) ([]string, error) {
	var sailings []string
	err := db.Select(&sailings, "select distinct time::text from entries "+
		"where date >= current_date - interval '1 week' order by 1")
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve sailings: %w", err)
	}
	return sailings, nil
}

// GetRoutes returns the route codes observed in the last week
func GetRoutes(db *sqlx.DB) ([]string, error) {
	var routes []string
	err := db.Select(&routes, "select distinct route from entries "+
		"where date >= current_date - interval '1 week' order by route")
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve routes: %w", err)
	}
	return routes, nil
}
