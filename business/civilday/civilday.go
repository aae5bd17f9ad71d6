// Package civilday provides calendar dates and weekday names in the civil timezone of the
// ferry service area. All date arithmetic in ferrycast happens on civil.Date values produced
// here so that "today" and day-of-week calculations agree regardless of server timezone.
package civilday

import (
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/golang-sql/civil"
)

// LocationName is the IANA name of the civil timezone covering the ferry service area
const LocationName = "America/Vancouver"

// Location is the loaded civil timezone
var Location = mustLoadLocation(LocationName)

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic("civilday: unable to load location " + name + ": " + err.Error())
	}
	return loc
}

// Clock supplies the current instant. Production code uses SystemClock, tests pin a FixedClock.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock
type SystemClock struct{}

// Now implements Clock
func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock always returns the same instant
type FixedClock time.Time

// Now implements Clock
func (c FixedClock) Now() time.Time {
	return time.Time(c)
}

// Today returns the current civil date in Location according to clock
func Today(clock Clock) civil.Date {
	return civil.DateOf(clock.Now().In(Location))
}

// dayNames are indexed by time.Weekday, Sunday first
var dayNames = [7]string{
	"sunday",
	"monday",
	"tuesday",
	"wednesday",
	"thursday",
	"friday",
	"saturday",
}

// DayNames returns the lowercase weekday names, Sunday first
func DayNames() []string {
	names := make([]string, len(dayNames))
	copy(names, dayNames[:])
	return names
}

// DayName returns the lowercase name of weekday
func DayName(weekday time.Weekday) string {
	return dayNames[weekday]
}

// ParseDay matches name case-insensitively against the weekday names
func ParseDay(name string) (time.Weekday, bool) {
	lower := strings.ToLower(name)
	for i, dayName := range dayNames {
		if dayName == lower {
			return time.Weekday(i), true
		}
	}
	return time.Sunday, false
}

// Weekday returns the day of the week d falls on. The result does not depend on any timezone.
func Weekday(d civil.Date) time.Weekday {
	return d.In(time.UTC).Weekday()
}

// WeekdayName returns the lowercase weekday name d falls on
func WeekdayName(d civil.Date) string {
	return DayName(Weekday(d))
}

// InferDateFromDay returns the next date strictly after today that falls on the named weekday.
// When today is already that weekday the result is one week out.
// Returns false if day is not a weekday name.
func InferDateFromDay(day string, today civil.Date) (civil.Date, bool) {
	weekday, ok := ParseDay(day)
	if !ok {
		return civil.Date{}, false
	}
	daysAhead := (int(weekday) - int(Weekday(today)) + 7) % 7
	if daysAhead == 0 {
		daysAhead = 7
	}
	return today.AddDays(daysAhead), true
}
