package canonical

import (
	"github.com/OpenTransitTools/ferrycast/business/civilday"
	"github.com/OpenTransitTools/ferrycast/business/data/holiday"
	"github.com/golang-sql/civil"
)

// DefaultBaseURL is the public origin canonical urls are built against
const DefaultBaseURL = "https://bcferries-conditions.tweeres.ca"

// maxRedirectSteps bounds rule evaluation. Every rule removes a parameter or replaces the
// date with a holiday, so no sequence of rules can be longer than this.
const maxRedirectSteps = 4

// Resolver canonicalizes pages against a holiday calendar and a public base url
type Resolver struct {
	holidays *holiday.Calendar
	baseURL  string
}

// NewResolver creates a Resolver. An empty baseURL uses DefaultBaseURL.
func NewResolver(holidays *holiday.Calendar, baseURL string) *Resolver {
	if len(baseURL) == 0 {
		baseURL = DefaultBaseURL
	}
	return &Resolver{
		holidays: holidays,
		baseURL:  baseURL,
	}
}

// BaseURL returns the public origin used for canonical urls
func (r *Resolver) BaseURL() string {
	return r.baseURL
}

// Redirect decides whether p is in canonical form. When it is not, the returned path
// ("/?query") is the canonical form and true is returned. The returned path is a fixed
// point: calling Redirect with its parameters reports no redirect.
//
// Only the route, sailing and unrecognised parameters are never modified.
func (r *Resolver) Redirect(p Params, today civil.Date) (string, bool) {
	changed := false
	for i := 0; i < maxRedirectSteps; i++ {
		next, fired := r.redirectStep(p, today)
		if !fired {
			break
		}
		p = next
		changed = true
	}
	if !changed {
		return "", false
	}
	return redirectPath(p), true
}

// redirectStep evaluates the canonicalization rules in priority order and applies the first
// one that matches.
func (r *Resolver) redirectStep(p Params, today civil.Date) (Params, bool) {
	hasDate := present(p.Date)
	hasDay := present(p.Day)
	hasHoliday := present(p.Holiday)

	// a date is more specific than a day of the week
	if hasDate && hasDay {
		p.Day = nil
		return p, true
	}

	// the remaining rules only consider an explicit date parameter, a date inferred from
	// day must never move a day page onto a holiday page
	if !hasDate {
		return p, false
	}
	date, err := civil.ParseDate(*p.Date)
	if err != nil {
		return p, false
	}
	dateHoliday, dateHasHoliday := r.holidays.ForDate(date)

	// the next occurrence of a holiday is addressed by its slug alone
	if !hasHoliday {
		if !dateHasHoliday {
			return p, false
		}
		next, ok := r.holidays.NextOccurrence(dateHoliday.Name, today)
		if ok && next == date {
			slug := dateHoliday.Slug()
			p.Holiday = &slug
			p.Date = nil
			return p, true
		}
		return p, false
	}

	// holiday does not describe the date
	if !dateHasHoliday || dateHoliday.Slug() != *p.Holiday {
		p.Holiday = nil
		return p, true
	}

	// holiday and date agree, drop the date when the slug alone identifies it
	identity, ok := r.holidays.BySlug(*p.Holiday)
	if !ok {
		return p, false
	}
	next, ok := r.holidays.NextOccurrence(identity.Name, today)
	if ok && next == date {
		p.Date = nil
		return p, true
	}
	return p, false
}

// redirectPath builds the root relative redirect location for p
func redirectPath(p Params) string {
	query := p.Values().Encode()
	if len(query) == 0 {
		return "/"
	}
	return "/?" + query
}

// ResolveDate returns the date a page describes: an explicit date parameter wins,
// otherwise the next date falling on the day parameter. Returns false when neither
// resolves; callers decide what to default to.
func ResolveDate(p Params, today civil.Date) (civil.Date, bool) {
	if present(p.Date) {
		date, err := civil.ParseDate(*p.Date)
		if err != nil {
			return civil.Date{}, false
		}
		return date, true
	}
	if present(p.Day) {
		return civilday.InferDateFromDay(*p.Day, today)
	}
	return civil.Date{}, false
}
