package web

import (
	"encoding/xml"

	"github.com/OpenTransitTools/ferrycast/business/canonical"
	"github.com/OpenTransitTools/ferrycast/business/civilday"
	"github.com/OpenTransitTools/ferrycast/business/data/ferryroute"
	"github.com/OpenTransitTools/ferrycast/business/data/holiday"
	"github.com/golang-sql/civil"
)

const sitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

type sitemapURL struct {
	Loc string `xml:"loc"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// sitemapLocations lists the canonical url of every evergreen page: the home page, each route,
// each route on each day of the week, each holiday with an upcoming occurrence alone and per
// route, and the busiest times pages. Dated pages are left out since they expire.
func sitemapLocations(resolver *canonical.Resolver, holidays *holiday.Calendar, today civil.Date) []string {
	locations := []string{resolver.BaseURL()}
	add := func(d canonical.Dimensions) {
		locations = append(locations, resolver.CanonicalURL(d, today))
	}

	routes := ferryroute.All()
	for _, r := range routes {
		add(canonical.Dimensions{Route: r.Code})
	}
	for _, r := range routes {
		for _, day := range civilday.DayNames() {
			add(canonical.Dimensions{Route: r.Code, Day: day})
		}
	}

	var upcoming []holiday.Identity
	for _, identity := range holidays.Unique() {
		if _, ok := holidays.NextOccurrence(identity.Name, today); ok {
			upcoming = append(upcoming, identity)
		}
	}
	for i := range upcoming {
		add(canonical.Dimensions{Holiday: &upcoming[i]})
	}
	for _, r := range routes {
		for i := range upcoming {
			add(canonical.Dimensions{Route: r.Code, Holiday: &upcoming[i]})
		}
	}

	for _, r := range routes {
		for _, day := range civilday.DayNames() {
			locations = append(locations, resolver.PageURL(busiestTimesPath(r, day)))
		}
	}
	return locations
}

// buildSitemap renders sitemapLocations as a sitemap xml document
func buildSitemap(resolver *canonical.Resolver, holidays *holiday.Calendar, today civil.Date) ([]byte, error) {
	set := urlSet{Xmlns: sitemapNamespace}
	for _, loc := range sitemapLocations(resolver, holidays, today) {
		set.URLs = append(set.URLs, sitemapURL{Loc: loc})
	}
	data, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), data...), nil
}
