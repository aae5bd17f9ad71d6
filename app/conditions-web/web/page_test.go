package web

import (
	"testing"

	"github.com/matryer/is"
)

func TestIsLongWeekend(t *testing.T) {
	tests := []struct {
		date string
		want bool
	}{
		{date: "2026-02-16", want: true},  // Family Day, monday
		{date: "2026-04-03", want: true},  // Good Friday
		{date: "2026-07-01", want: false}, // Canada Day, wednesday
		{date: "2026-11-11", want: false}, // Remembrance Day, wednesday
	}
	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			is := is.New(t)
			is.Equal(isLongWeekend(getTestDate(tt.date)), tt.want)
		})
	}
}

func TestFormatDate(t *testing.T) {
	is := is.New(t)
	is.Equal(formatDate(getTestDate("2026-03-08")), "Sunday, March 8, 2026")
}

func TestCapitalize(t *testing.T) {
	is := is.New(t)
	is.Equal(capitalize("monday"), "Monday")
	is.Equal(capitalize("FRIDAY"), "Friday")
	is.Equal(capitalize(""), "")
}
