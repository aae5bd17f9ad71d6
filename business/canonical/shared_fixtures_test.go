package canonical

import (
	"github.com/OpenTransitTools/ferrycast/business/data/holiday"
	"github.com/golang-sql/civil"
)

const testBaseURL = "https://bcferries-conditions.tweeres.ca"

// pinnedToday is a wednesday, the following monday is Family Day 2026
var pinnedToday = getTestDate("2026-02-11")

func getTestDate(str string) civil.Date {
	result, err := civil.ParseDate(str)
	if err != nil {
		panic(err)
	}
	return result
}

func getTestDatePointer(str string) *civil.Date {
	result := getTestDate(str)
	return &result
}

func stringPointer(s string) *string {
	return &s
}

func makeTestResolver() *Resolver {
	return NewResolver(holiday.Default(), testBaseURL)
}

func holidayIdentity(name string) *holiday.Identity {
	return &holiday.Identity{Name: name, Slug: holiday.Slug(name)}
}
