package holiday

import (
	"testing"
	"time"

	"github.com/golang-sql/civil"
	"github.com/matryer/is"
)

func getTestDate(str string) civil.Date {
	result, err := civil.ParseDate(str)
	if err != nil {
		panic(err)
	}
	return result
}

// wednesday, the next Monday is Family Day
var pinnedToday = getTestDate("2026-02-11")

func TestSlug(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{name: "Family Day", want: "family-day"},
		{name: "Canada Day", want: "canada-day"},
		{name: "Labour Day", want: "labour-day"},
		{name: "New Year's Day", want: "new-years-day"},
		{name: "New Year’s Day", want: "new-years-day"},
		{name: "National Day for Truth and Reconciliation", want: "national-day-for-truth-and-reconciliation"},
		{name: "  Saint-Jean-Baptiste  ", want: "saint-jean-baptiste"},
		{name: "Journée nationale", want: "journee-nationale"},
		{name: "Boxing Day (observed)", want: "boxing-day-observed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := is.New(t)
			is.Equal(Slug(tt.name), tt.want)
		})
	}
}

func TestSlugRoundTrip(t *testing.T) {
	unique := Unique()
	if len(unique) != len(BCStatutoryHolidays) {
		t.Fatalf("expected %d unique holidays, got %d", len(BCStatutoryHolidays), len(unique))
	}
	for _, identity := range unique {
		t.Run(identity.Slug, func(t *testing.T) {
			is := is.New(t)
			is.Equal(Slug(identity.Name), identity.Slug)
			found, ok := BySlug(Slug(identity.Name))
			is.True(ok)
			is.Equal(found.Slug, Slug(identity.Name))
			is.Equal(found.Name, identity.Name)
		})
	}
}

func TestBySlugUnknown(t *testing.T) {
	is := is.New(t)
	_, ok := BySlug("made-up-holiday")
	is.True(!ok)
	_, ok = BySlug("")
	is.True(!ok)
}

func TestDefaultTableDates(t *testing.T) {
	want := map[string][]string{
		"New Year's Day":       {"2025-01-01", "2026-01-01"},
		"Family Day":           {"2025-02-17", "2026-02-16"},
		"Good Friday":          {"2025-04-18", "2026-04-03"},
		"Victoria Day":         {"2025-05-19", "2026-05-18"},
		"Canada Day":           {"2025-07-01", "2026-07-01"},
		"British Columbia Day": {"2025-08-04", "2026-08-03"},
		"Labour Day":           {"2025-09-01", "2026-09-07"},
		"National Day for Truth and Reconciliation": {"2025-09-30", "2026-09-30"},
		"Thanksgiving":    {"2025-10-13", "2026-10-12"},
		"Remembrance Day": {"2025-11-11", "2026-11-11"},
		"Christmas Day":   {"2025-12-25", "2026-12-25"},
	}
	got := make(map[string][]string)
	for _, h := range Default().Holidays() {
		got[h.Name] = append(got[h.Name], h.ObservedDate.String())
	}
	is := is.New(t)
	is.Equal(len(got), len(want))
	for name, dates := range want {
		is.Equal(got[name], dates)
	}
}

func TestFromRulesObservesWeekendOnMonday(t *testing.T) {
	is := is.New(t)
	// Christmas 2027 is a Saturday, Canada Day 2029 is a Sunday
	holidays := FromRules(BCStatutoryHolidays, 2027, 2029)
	observed := make(map[string]bool)
	for _, h := range holidays {
		observed[h.Name+" "+h.ObservedDate.String()] = true
	}
	is.True(observed["Christmas Day 2027-12-27"])
	is.True(observed["Canada Day 2029-07-02"])
}

func TestHolidaysAreChronological(t *testing.T) {
	holidays := Default().Holidays()
	for i := 1; i < len(holidays); i++ {
		if holidays[i].ObservedDate.Before(holidays[i-1].ObservedDate) {
			t.Errorf("%v at %d is before %v", holidays[i], i, holidays[i-1])
		}
	}
}

func TestForDate(t *testing.T) {
	tests := []struct {
		date     string
		wantName string
		wantOk   bool
	}{
		{date: "2026-02-16", wantName: "Family Day", wantOk: true},
		// friday window [-1,4], holiday is 3 days later
		{date: "2026-02-13", wantName: "Family Day", wantOk: true},
		// tuesday window [-5,0], holiday was the day before
		{date: "2026-02-17", wantName: "Family Day", wantOk: true},
		// wednesday window [0,0]
		{date: "2026-02-18", wantOk: false},
		// thursday window [0,5] reaches the monday after
		{date: "2026-02-12", wantName: "Family Day", wantOk: true},
		{date: "2026-02-05", wantOk: false},
		{date: "2026-03-01", wantOk: false},
		{date: "2026-06-15", wantOk: false},
		{date: "2026-07-01", wantName: "Canada Day", wantOk: true},
		{date: "2026-04-03", wantName: "Good Friday", wantOk: true},
		// saturday before Good Friday's sunday after
		{date: "2026-04-05", wantName: "Good Friday", wantOk: true},
		{date: "2026-05-16", wantName: "Victoria Day", wantOk: true},
		{date: "2026-12-25", wantName: "Christmas Day", wantOk: true},
		{date: "2024-05-20", wantOk: false},
	}
	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			is := is.New(t)
			got, ok := ForDate(getTestDate(tt.date))
			is.Equal(ok, tt.wantOk)
			if tt.wantOk {
				is.Equal(got.Name, tt.wantName)
			}
		})
	}
}

func TestForDateWindowsAreKeyedByQueryWeekday(t *testing.T) {
	midweek := New([]Holiday{{Name: "Midweek", ObservedDate: getTestDate("2026-06-10")}})
	monday := New([]Holiday{{Name: "Monday", ObservedDate: getTestDate("2026-06-08")}})
	tests := []struct {
		name     string
		calendar *Calendar
		date     string
		wantOk   bool
	}{
		{name: "midweek holiday itself", calendar: midweek, date: "2026-06-10", wantOk: true},
		{name: "tuesday before midweek", calendar: midweek, date: "2026-06-09", wantOk: false},
		{name: "thursday after midweek", calendar: midweek, date: "2026-06-11", wantOk: false},
		{name: "weekend before midweek", calendar: midweek, date: "2026-06-06", wantOk: false},
		{name: "wednesday before monday", calendar: monday, date: "2026-06-03", wantOk: false},
		{name: "thursday before monday", calendar: monday, date: "2026-06-04", wantOk: true},
		{name: "friday before monday", calendar: monday, date: "2026-06-05", wantOk: true},
		{name: "sunday before monday", calendar: monday, date: "2026-06-07", wantOk: true},
		{name: "tuesday after monday", calendar: monday, date: "2026-06-09", wantOk: true},
		{name: "wednesday after monday", calendar: monday, date: "2026-06-10", wantOk: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := is.New(t)
			_, ok := tt.calendar.ForDate(getTestDate(tt.date))
			is.Equal(ok, tt.wantOk)
		})
	}
}

func TestForDateFirstChronologicalMatchWins(t *testing.T) {
	is := is.New(t)
	// given out of order, both within the saturday window [-2,3] of 2026-06-06
	c := New([]Holiday{
		{Name: "Later", ObservedDate: getTestDate("2026-06-08")},
		{Name: "Earlier", ObservedDate: getTestDate("2026-06-05")},
	})
	got, ok := c.ForDate(getTestDate("2026-06-06"))
	is.True(ok)
	is.Equal(got.Name, "Earlier")
	is.Equal(c.Holidays()[0].Name, "Earlier")
}

func TestNewPanicsOnSlugCollision(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected New to panic for colliding slugs")
		}
	}()
	New([]Holiday{
		{Name: "Family Day", ObservedDate: getTestDate("2026-02-16")},
		{Name: "Family-Day", ObservedDate: getTestDate("2026-02-17")},
	})
}

func TestNextOccurrence(t *testing.T) {
	tests := []struct {
		name    string
		holiday string
		today   civil.Date
		want    string
		wantOk  bool
	}{
		{name: "upcoming family day", holiday: "Family Day", today: pinnedToday, want: "2026-02-16", wantOk: true},
		{name: "canada day", holiday: "Canada Day", today: pinnedToday, want: "2026-07-01", wantOk: true},
		{name: "christmas 2025 passed", holiday: "Christmas Day", today: pinnedToday, want: "2026-12-25", wantOk: true},
		{name: "today counts", holiday: "Family Day", today: getTestDate("2026-02-16"), want: "2026-02-16", wantOk: true},
		{name: "unknown name", holiday: "Made Up Holiday", today: pinnedToday, wantOk: false},
		{name: "no entry after horizon", holiday: "New Year's Day", today: pinnedToday, wantOk: false},
		{name: "everything passed", holiday: "Christmas Day", today: getTestDate("2026-12-26"), wantOk: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := is.New(t)
			got, ok := NextOccurrence(tt.holiday, tt.today)
			is.Equal(ok, tt.wantOk)
			if tt.wantOk {
				is.Equal(got.String(), tt.want)
			}
		})
	}
}

func TestWeekdayOfHolidayTable(t *testing.T) {
	is := is.New(t)
	for _, h := range Default().Holidays() {
		switch h.Name {
		case "Family Day", "Victoria Day", "British Columbia Day", "Labour Day", "Thanksgiving":
			is.Equal(h.ObservedDate.In(time.UTC).Weekday(), time.Monday)
		case "Good Friday":
			is.Equal(h.ObservedDate.In(time.UTC).Weekday(), time.Friday)
		}
	}
}
