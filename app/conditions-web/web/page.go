package web

import (
	"fmt"
	"strings"
	"time"

	"github.com/OpenTransitTools/ferrycast/business/canonical"
	"github.com/OpenTransitTools/ferrycast/business/civilday"
	"github.com/OpenTransitTools/ferrycast/business/data/capacity"
	"github.com/OpenTransitTools/ferrycast/business/data/ferryroute"
	"github.com/golang-sql/civil"
)

const siteName = "BC Ferries Conditions"

// routeModel describes a route on a page
type routeModel struct {
	Code  string `json:"code"`
	Slug  string `json:"slug,omitempty"`
	Label string `json:"label"`
	From  string `json:"from"`
	To    string `json:"to"`
}

func makeRouteModel(r ferryroute.Route) routeModel {
	return routeModel{
		Code:  r.Code,
		Slug:  r.Slug,
		Label: r.Label(),
		From:  r.From,
		To:    r.To,
	}
}

// holidayModel describes the holiday a page's date falls near
type holidayModel struct {
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	ObservedDate string `json:"observed_date"`
	// LongWeekend is set when the holiday is observed on a Monday or Friday
	LongWeekend bool `json:"long_weekend"`
}

// sailingModel is how often one sailing time filled over recent weeks
type sailingModel struct {
	Time        string  `json:"time"`
	Total       int     `json:"total"`
	FullCount   int     `json:"full_count"`
	FullPercent float64 `json:"full_percent"`
}

func makeSailingModels(summaries []capacity.SailingSummary) []sailingModel {
	results := make([]sailingModel, 0, len(summaries))
	for _, s := range summaries {
		results = append(results, sailingModel{
			Time:        s.Time,
			Total:       s.Total,
			FullCount:   s.FullCount,
			FullPercent: s.FullRatio() * 100,
		})
	}
	return results
}

// pageModel is the data rendered for the home page
type pageModel struct {
	CanonicalURL string               `json:"canonical_url"`
	OgURL        string               `json:"og_url"`
	Title        string               `json:"title"`
	Description  string               `json:"description"`
	Route        routeModel           `json:"route"`
	Date         string               `json:"date"`
	Day          string               `json:"day"`
	Holiday      *holidayModel        `json:"holiday,omitempty"`
	Sailing      string               `json:"sailing,omitempty"`
	Sailings     []sailingModel       `json:"sailings"`
	History      []capacity.DowResult `json:"history,omitempty"`
	// Observations are the scraped entries for the date, empty for future dates
	Observations   []capacity.Entry `json:"observations"`
	SailingOptions []string         `json:"sailing_options"`
	// RouteOptions are the route codes observed recently
	RouteOptions []string `json:"route_options"`
}

// buildPage fills the metadata of the home page for route on date. params must already be canonical.
func (h *siteHandlers) buildPage(route ferryroute.Route, params canonical.Params, date civil.Date,
	today civil.Date) *pageModel {

	dimensions := h.resolver.Dimensions(params, today)
	canonicalURL := h.resolver.CanonicalURL(dimensions, today)

	page := &pageModel{
		CanonicalURL: canonicalURL,
		OgURL:        canonicalURL,
		Route:        makeRouteModel(route),
		Date:         date.String(),
		Day:          civilday.WeekdayName(date),
		Sailing:      dimensions.Sailing,
		Sailings:     make([]sailingModel, 0),
		Observations: make([]capacity.Entry, 0),
	}

	occasion := formatDate(date)
	switch {
	case dimensions.Holiday != nil:
		occasion = dimensions.Holiday.Name
	case len(dimensions.Day) > 0 && dimensions.DateParam == nil:
		occasion = "a " + capitalize(dimensions.Day)
	}
	if observed, ok := h.holidays.ForDate(date); ok {
		page.Holiday = &holidayModel{
			Name:         observed.Name,
			Slug:         observed.Slug(),
			ObservedDate: observed.ObservedDate.String(),
			LongWeekend:  isLongWeekend(observed.ObservedDate),
		}
	}

	page.Title = fmt.Sprintf("Should I reserve the %s ferry on %s? - %s", route.Label(), occasion, siteName)
	page.Description = fmt.Sprintf("Use past sailing stats to decide whether to reserve the %s ferry "+
		"on %s. See how full each sailing got over the past few weeks.", route.Name(), occasion)
	return page
}

// busiestTimesPage is the data rendered for a route's busiest times on a day of the week
type busiestTimesPage struct {
	CanonicalURL string         `json:"canonical_url"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Route        routeModel     `json:"route"`
	Day          string         `json:"day"`
	OppositeURL  string         `json:"opposite_url,omitempty"`
	ReserveURL   string         `json:"reserve_url"`
	Sailings     []sailingModel `json:"sailings"`
}

func (h *siteHandlers) buildBusiestTimesPage(route ferryroute.Route, dow time.Weekday,
	summaries []capacity.SailingSummary) *busiestTimesPage {

	day := civilday.DayName(dow)
	page := &busiestTimesPage{
		CanonicalURL: h.resolver.PageURL(busiestTimesPath(route, day)),
		Title: fmt.Sprintf("How full are %s ferries from %s? - %s",
			capitalize(day), route.FromShort, siteName),
		Description: fmt.Sprintf("See how often each %s sailing from %s to %s fills up. "+
			"Know when to book ahead and when you can just show up.", capitalize(day), route.FromShort, route.ToShort),
		Route: makeRouteModel(route),
		Day:   day,
		ReserveURL: h.resolver.CanonicalURL(canonical.Dimensions{
			Route: route.Code,
			Day:   day,
		}, civilday.Today(h.clock)),
		Sailings: makeSailingModels(summaries),
	}
	if opposite, ok := ferryroute.Opposite(route); ok {
		page.OppositeURL = h.resolver.PageURL(busiestTimesPath(opposite, day))
	}
	return page
}

func busiestTimesPath(route ferryroute.Route, day string) string {
	return "/busiest-ferry-times/" + route.Slug + "/" + day
}

// isLongWeekend reports whether a holiday observed on date extends a weekend
func isLongWeekend(date civil.Date) bool {
	weekday := civilday.Weekday(date)
	return weekday == time.Monday || weekday == time.Friday
}

// formatDate renders date for titles, e.g. "Monday, February 16, 2026"
func formatDate(date civil.Date) string {
	return date.In(time.UTC).Format("Monday, January 2, 2006")
}

func capitalize(s string) string {
	if len(s) == 0 {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
