package web

import (
	"errors"
	"log"
	"time"

	"github.com/OpenTransitTools/ferrycast/business/canonical"
	"github.com/OpenTransitTools/ferrycast/business/civilday"
	"github.com/OpenTransitTools/ferrycast/business/data/capacity"
	"github.com/OpenTransitTools/ferrycast/business/data/holiday"
	"github.com/golang-sql/civil"
)

const testBaseURL = "https://bcferries-conditions.tweeres.ca"

// pinnedNow is Wednesday 2026-02-11 at noon in Vancouver, the following monday is Family Day
var pinnedNow = time.Date(2026, time.February, 11, 12, 0, 0, 0, civilday.Location)

type testLogWriter struct {
	logLines []string
	log      *log.Logger
}

func makeTestLogWriter() *testLogWriter {
	logWriter := testLogWriter{
		logLines: make([]string, 0),
	}
	logger := log.New(&logWriter, "FERRY_WEB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logWriter.log = logger
	return &logWriter
}

func (t *testLogWriter) Write(p []byte) (n int, err error) {
	t.logLines = append(t.logLines, string(p))
	return len(p), nil
}

func boolPtr(b bool) *bool {
	return &b
}

func getTestDate(str string) civil.Date {
	result, err := civil.ParseDate(str)
	if err != nil {
		panic(err)
	}
	return result
}

// storeCall records the arguments of a fakeStore query
type storeCall struct {
	dow     time.Weekday
	route   string
	sailing string
}

// entriesCall records the arguments of a fakeStore.Entries query
type entriesCall struct {
	date     civil.Date
	route    string
	sailings []string
}

// fakeStore implements CapacityStore with canned results
type fakeStore struct {
	summaries    []capacity.SailingSummary
	history      []capacity.DowResult
	entries      []capacity.Entry
	sailings     []string
	routes       []string
	fail         bool
	summaryCalls []storeCall
	historyCalls []storeCall
	entriesCalls []entriesCall
}

func (f *fakeStore) DailySummary(dow time.Weekday, route string) ([]capacity.SailingSummary, error) {
	f.summaryCalls = append(f.summaryCalls, storeCall{dow: dow, route: route})
	if f.fail {
		return nil, errors.New("database unavailable")
	}
	return f.summaries, nil
}

func (f *fakeStore) SailingHistory(dow time.Weekday, route string, sailing string) ([]capacity.DowResult, error) {
	f.historyCalls = append(f.historyCalls, storeCall{dow: dow, route: route, sailing: sailing})
	if f.fail {
		return nil, errors.New("database unavailable")
	}
	return f.history, nil
}

func (f *fakeStore) Entries(date civil.Date, route string, sailings []string) ([]capacity.Entry, error) {
	f.entriesCalls = append(f.entriesCalls, entriesCall{date: date, route: route, sailings: sailings})
	if f.fail {
		return nil, errors.New("database unavailable")
	}
	return f.entries, nil
}

func (f *fakeStore) Sailings() ([]string, error) {
	if f.fail {
		return nil, errors.New("database unavailable")
	}
	return f.sailings, nil
}

func (f *fakeStore) Routes() ([]string, error) {
	if f.fail {
		return nil, errors.New("database unavailable")
	}
	return f.routes, nil
}

func makeTestHandlers(store CapacityStore) *siteHandlers {
	holidays := holiday.Default()
	return &siteHandlers{
		log:                     makeTestLogWriter().log,
		resolver:                canonical.NewResolver(holidays, testBaseURL),
		holidays:                holidays,
		store:                   store,
		collection:              makeConditionsCollection(),
		clock:                   civilday.FixedClock(pinnedNow),
		expireConditionsSeconds: 3600,
		allowedOrigins:          []string{"https://ferries.example.org"},
	}
}

func makeTestEntry(route string, date string, sailingTime string, timestamp time.Time) capacity.Entry {
	return capacity.Entry{
		Route:     route,
		Date:      capacity.DateColumn(getTestDate(date)),
		Time:      sailingTime,
		Vessel:    "Spirit of Vancouver Island",
		Full:      boolPtr(false),
		Timestamp: timestamp,
	}
}
