package capacity

import (
	"time"

	"github.com/golang-sql/civil"
	"github.com/jmoiron/sqlx"
)

// Store gives access to capacity observations held in the database
type Store struct {
	db *sqlx.DB
}

// NewStore creates a Store on db
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// DailySummary calls GetDailySummary
func (s *Store) DailySummary(dow time.Weekday, route string) ([]SailingSummary, error) {
	return GetDailySummary(s.db, dow, route)
}

// SailingHistory calls GetEntriesForDow
func (s *Store) SailingHistory(dow time.Weekday, route string, sailing string) ([]DowResult, error) {
	return GetEntriesForDow(s.db, dow, route, sailing)
}

// Entries calls GetEntriesForDate
func (s *Store) Entries(date civil.Date, route string, sailings []string) ([]Entry, error) {
	return GetEntriesForDate(s.db, date, route, sailings)
}

// Sailings calls GetSailings
func (s *Store) Sailings() ([]string, error) {
	return GetSailings(s.db)
}

// Routes calls GetRoutes
func (s *Store) Routes() ([]string, error) {
	return GetRoutes(s.db)
}
