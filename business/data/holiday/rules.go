package holiday

import (
	"time"

	"github.com/golang-sql/civil"
	"github.com/rickar/cal/v2"
)

// DefaultFirstYear and DefaultLastYear bound the horizon of the default holiday table
const (
	DefaultFirstYear = 2025
	DefaultLastYear  = 2026
)

// weekendToMonday moves fixed-date holidays that land on a weekend to the following Monday
var weekendToMonday = []cal.AltDay{
	{Day: time.Saturday, Offset: 2},
	{Day: time.Sunday, Offset: 1},
}

// BCStatutoryHolidays are the statutory holidays observed in British Columbia
var BCStatutoryHolidays = []*cal.Holiday{
	{
		Name:     "New Year's Day",
		Type:     cal.ObservancePublic,
		Month:    time.January,
		Day:      1,
		Observed: weekendToMonday,
		Func:     cal.CalcDayOfMonth,
	},
	{
		Name:      "Family Day",
		Type:      cal.ObservancePublic,
		Month:     time.February,
		Weekday:   time.Monday,
		Offset:    3,
		StartYear: 2019,
		Func:      cal.CalcWeekdayOffset,
	},
	{
		Name:   "Good Friday",
		Type:   cal.ObservancePublic,
		Offset: -2,
		Func:   cal.CalcEasterOffset,
	},
	{
		Name:    "Victoria Day",
		Type:    cal.ObservancePublic,
		Month:   time.May,
		Day:     24,
		Weekday: time.Monday,
		Offset:  -1,
		Func:    cal.CalcWeekdayFrom,
	},
	{
		Name:     "Canada Day",
		Type:     cal.ObservancePublic,
		Month:    time.July,
		Day:      1,
		Observed: weekendToMonday,
		Func:     cal.CalcDayOfMonth,
	},
	{
		Name:    "British Columbia Day",
		Type:    cal.ObservancePublic,
		Month:   time.August,
		Weekday: time.Monday,
		Offset:  1,
		Func:    cal.CalcWeekdayOffset,
	},
	{
		Name:    "Labour Day",
		Type:    cal.ObservancePublic,
		Month:   time.September,
		Weekday: time.Monday,
		Offset:  1,
		Func:    cal.CalcWeekdayOffset,
	},
	{
		Name:      "National Day for Truth and Reconciliation",
		Type:      cal.ObservancePublic,
		Month:     time.September,
		Day:       30,
		Observed:  weekendToMonday,
		StartYear: 2023,
		Func:      cal.CalcDayOfMonth,
	},
	{
		Name:    "Thanksgiving",
		Type:    cal.ObservancePublic,
		Month:   time.October,
		Weekday: time.Monday,
		Offset:  2,
		Func:    cal.CalcWeekdayOffset,
	},
	{
		Name:     "Remembrance Day",
		Type:     cal.ObservancePublic,
		Month:    time.November,
		Day:      11,
		Observed: weekendToMonday,
		Func:     cal.CalcDayOfMonth,
	},
	{
		Name:     "Christmas Day",
		Type:     cal.ObservancePublic,
		Month:    time.December,
		Day:      25,
		Observed: weekendToMonday,
		Func:     cal.CalcDayOfMonth,
	},
}

// FromRules expands holiday rules into one Holiday per rule per year in [firstYear, lastYear].
// Years a rule does not apply to are skipped.
func FromRules(rules []*cal.Holiday, firstYear, lastYear int) []Holiday {
	var holidays []Holiday
	for year := firstYear; year <= lastYear; year++ {
		for _, rule := range rules {
			_, observed := rule.Calc(year)
			if observed.IsZero() {
				continue
			}
			// only the calendar fields are used, the rule's location is irrelevant
			y, m, d := observed.Date()
			holidays = append(holidays, Holiday{
				Name:         rule.Name,
				ObservedDate: civil.Date{Year: y, Month: m, Day: d},
			})
		}
	}
	return holidays
}
