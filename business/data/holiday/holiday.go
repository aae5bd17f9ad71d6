// Package holiday holds the table of statutory holidays and answers which holiday, if any,
// a travel date is associated with.
//
// A date is associated with a holiday when the holiday's observed date falls inside the
// proximity window for the date's weekday. Windows are keyed by the weekday of the date
// being tested, not of the holiday, and model how far long-weekend traffic spreads around
// a holiday.
package holiday

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/OpenTransitTools/ferrycast/business/civilday"
	"github.com/golang-sql/civil"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Holiday is a single observance of a named holiday
type Holiday struct {
	Name         string     `json:"name"`
	ObservedDate civil.Date `json:"observed_date"`
}

// Slug returns the url identifier for the holiday's name
func (h Holiday) Slug() string {
	return Slug(h.Name)
}

// Identity identifies a holiday independent of the year it is observed in
type Identity struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// window is an inclusive range of day offsets, observedDate - queryDate
type window struct {
	low  int
	high int
}

func (w window) contains(diff int) bool {
	return diff >= w.low && diff <= w.high
}

// proximityWindows are indexed by the weekday of the query date.
// A Monday holiday reaches back to the Friday before it, a midweek holiday only covers itself.
var proximityWindows = [7]window{
	time.Sunday:    {-3, 2},
	time.Monday:    {-4, 1},
	time.Tuesday:   {-5, 0},
	time.Wednesday: {0, 0},
	time.Thursday:  {0, 5},
	time.Friday:    {-1, 4},
	time.Saturday:  {-2, 3},
}

var (
	apostrophes     = strings.NewReplacer("'", "", "’", "")
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
)

// Slug converts a holiday name to its url identifier: accents folded, lower cased,
// apostrophes removed, and every other run of non alphanumeric characters replaced by a
// single hyphen.
func Slug(name string) string {
	folder := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(folder, name)
	if err != nil {
		folded = name
	}
	slug := apostrophes.Replace(strings.ToLower(folded))
	slug = nonAlphanumeric.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// Calendar is an immutable, chronologically ordered holiday table. It is safe for concurrent use.
type Calendar struct {
	holidays []Holiday
	unique   []Identity
	bySlug   map[string]Identity
}

// New builds a Calendar from holidays. Rows are sorted by observed date, keeping the given
// order for rows on the same date. Panics if two different names produce the same slug.
func New(holidays []Holiday) *Calendar {
	rows := make([]Holiday, len(holidays))
	copy(rows, holidays)
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].ObservedDate.Before(rows[j].ObservedDate)
	})

	c := &Calendar{
		holidays: rows,
		bySlug:   make(map[string]Identity),
	}
	for _, h := range rows {
		slug := h.Slug()
		if existing, present := c.bySlug[slug]; present {
			if existing.Name != h.Name {
				panic(fmt.Sprintf("holiday: %q and %q share slug %q", existing.Name, h.Name, slug))
			}
			continue
		}
		identity := Identity{Name: h.Name, Slug: slug}
		c.bySlug[slug] = identity
		c.unique = append(c.unique, identity)
	}
	return c
}

// Holidays returns every row in the table in chronological order
func (c *Calendar) Holidays() []Holiday {
	result := make([]Holiday, len(c.holidays))
	copy(result, c.holidays)
	return result
}

// ForDate returns the first holiday in table order whose observed date lies inside the
// proximity window of date's weekday. Because the table is chronological this is the
// earliest matching holiday.
func (c *Calendar) ForDate(date civil.Date) (Holiday, bool) {
	w := proximityWindows[civilday.Weekday(date)]
	for _, h := range c.holidays {
		if w.contains(h.ObservedDate.DaysSince(date)) {
			return h, true
		}
	}
	return Holiday{}, false
}

// Unique returns one Identity per holiday name in order of first appearance
func (c *Calendar) Unique() []Identity {
	result := make([]Identity, len(c.unique))
	copy(result, c.unique)
	return result
}

// BySlug finds the holiday identified by slug
func (c *Calendar) BySlug(slug string) (Identity, bool) {
	identity, ok := c.bySlug[slug]
	return identity, ok
}

// NextOccurrence returns the earliest observed date of the named holiday on or after today.
// Returns false when the name is unknown or every occurrence in the table has passed.
func (c *Calendar) NextOccurrence(name string, today civil.Date) (civil.Date, bool) {
	for _, h := range c.holidays {
		if h.Name == name && !h.ObservedDate.Before(today) {
			return h.ObservedDate, true
		}
	}
	return civil.Date{}, false
}

// defaultCalendar holds the BC statutory holidays for the default horizon
var defaultCalendar = New(FromRules(BCStatutoryHolidays, DefaultFirstYear, DefaultLastYear))

// Default returns the calendar used by the package level functions
func Default() *Calendar {
	return defaultCalendar
}

// ForDate calls ForDate on the default calendar
func ForDate(date civil.Date) (Holiday, bool) {
	return defaultCalendar.ForDate(date)
}

// BySlug calls BySlug on the default calendar
func BySlug(slug string) (Identity, bool) {
	return defaultCalendar.BySlug(slug)
}

// NextOccurrence calls NextOccurrence on the default calendar
func NextOccurrence(name string, today civil.Date) (civil.Date, bool) {
	return defaultCalendar.NextOccurrence(name, today)
}

// Unique calls Unique on the default calendar
func Unique() []Identity {
	return defaultCalendar.Unique()
}
