package canonical

import (
	"github.com/OpenTransitTools/ferrycast/business/civilday"
	"github.com/OpenTransitTools/ferrycast/business/data/holiday"
	"github.com/golang-sql/civil"
)

// Dimensions is the resolved description of a page. An explicitly supplied date and a date
// inferred from the day of week are kept apart because only the former may appear in a
// canonical url next to a day.
type Dimensions struct {
	Route   string
	Sailing string
	// Holiday is set when the holiday parameter names a known holiday
	Holiday *holiday.Identity
	Day     string
	// DateParam is the date parameter as supplied
	DateParam *civil.Date
	// InferredDate is derived from Day when no date parameter was supplied
	InferredDate *civil.Date
}

// date returns the date the page describes, explicit first
func (d Dimensions) date() *civil.Date {
	if d.DateParam != nil {
		return d.DateParam
	}
	return d.InferredDate
}

// Dimensions resolves the parameters of an already canonical request
func (r *Resolver) Dimensions(p Params, today civil.Date) Dimensions {
	var d Dimensions
	if p.Route != nil {
		d.Route = *p.Route
	}
	if p.Sailing != nil {
		d.Sailing = *p.Sailing
	}
	if present(p.Holiday) {
		if identity, ok := r.holidays.BySlug(*p.Holiday); ok {
			d.Holiday = &identity
		}
	}
	// a day that is not a weekday name is ignored
	if present(p.Day) {
		if weekday, ok := civilday.ParseDay(*p.Day); ok {
			d.Day = civilday.DayName(weekday)
		}
	}
	if present(p.Date) {
		if date, err := civil.ParseDate(*p.Date); err == nil {
			d.DateParam = &date
		}
	} else if len(d.Day) > 0 {
		if date, ok := civilday.InferDateFromDay(d.Day, today); ok {
			d.InferredDate = &date
		}
	}
	return d
}

// CanonicalURL builds the absolute canonical url of a page.
// Route and sailing come first, then exactly one of holiday, day or date, in that priority.
// A past date with no holiday or day is replaced by its day of week so stale dated urls
// collapse onto the evergreen day page.
func (r *Resolver) CanonicalURL(d Dimensions, today civil.Date) string {
	var q queryBuilder
	if len(d.Route) > 0 {
		q.add(RouteParam, d.Route)
	}
	if len(d.Sailing) > 0 {
		q.add(SailingParam, d.Sailing)
	}

	date := d.date()
	switch {
	case d.Holiday != nil:
		q.add(HolidayParam, d.Holiday.Slug)
		if date != nil {
			next, ok := r.holidays.NextOccurrence(d.Holiday.Name, today)
			if !ok || next != *date {
				q.add(DateParam, date.String())
			}
		}
	case len(d.Day) > 0:
		q.add(DayParam, d.Day)
		if d.DateParam != nil {
			q.add(DateParam, d.DateParam.String())
		}
	case date != nil:
		if date.Before(today) {
			q.add(DayParam, civilday.WeekdayName(*date))
		} else {
			q.add(DateParam, date.String())
		}
	}

	query := q.encode()
	if len(query) == 0 {
		return r.baseURL
	}
	return r.baseURL + "?" + query
}

// PageURL returns the absolute url of path on the public origin
func (r *Resolver) PageURL(path string) string {
	if len(path) == 0 || path == "/" {
		return r.baseURL
	}
	return r.baseURL + path
}
