package scraper

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/OpenTransitTools/ferrycast/business/data/capacity"
	"github.com/PuerkitoBio/goquery"
	"github.com/golang-sql/civil"
)

// selectors on the operator's current conditions page
const (
	rowSelector            = "tr.mobile-friendly-row"
	timeSelector           = ".mobile-paragraph .text-lowercase"
	vesselSelector         = ".mobile-paragraph a.sailing-ferry-name"
	overallPercentSelector = ".cc-vessel-percent-full"
	vehiclePercentSelector = ".vehicle-info-link .pcnt:nth-of-type(2)"
	truckPercentSelector   = ".vehicle-info-link .pcnt:nth-of-type(4)"
	fullMessageSelector    = ".percentage-full .font-size-22"
	etaSelector            = ".cc-message-updates"
	departureSelector      = ".mobile-paragraph .font-italic"
	nextDaySelector        = ".next-day-sailing"
)

var (
	etaPrefix       = regexp.MustCompile(`ETA\s*:\s*`)
	departedPrefix  = regexp.MustCompile(`Departed\s+`)
	clockTimeLayout = []string{"3:04 pm", "3:04pm", "15:04", "15:04:05"}
)

// parseConditions reads every sailing row from a current conditions page for route.
// today is the civil date the page was fetched on; sailings marked as tomorrow are dated
// the day after.
func parseConditions(route string, body []byte, today civil.Date, fetchedAt time.Time) ([]capacity.Entry, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("unable to parse conditions page for route %s: %w", route, err)
	}
	var entries []capacity.Entry
	var rowErr error
	doc.Find(rowSelector).EachWithBreak(func(i int, row *goquery.Selection) bool {
		entry, ok, err := parseConditionsRow(route, row, today, fetchedAt)
		if err != nil {
			rowErr = fmt.Errorf("row %d on route %s: %w", i, route, err)
			return false
		}
		if ok {
			entries = append(entries, entry)
		}
		return true
	})
	if rowErr != nil {
		return nil, rowErr
	}
	return entries, nil
}

// parseConditionsRow builds capacity.Entry from a single sailing row.
// Rows without a sailing time are skipped by returning false.
func parseConditionsRow(route string, row *goquery.Selection, today civil.Date,
	fetchedAt time.Time) (capacity.Entry, bool, error) {

	sailingTime, ok := parseClockTime(selectionText(row, timeSelector))
	if !ok {
		return capacity.Entry{}, false, nil
	}

	date := today
	if strings.Contains(selectionText(row, nextDaySelector), "Tomorrow") {
		date = today.AddDays(1)
	}

	full := strings.EqualFold(selectionText(row, fullMessageSelector), "full")
	entry := capacity.Entry{
		Route:     route,
		Date:      capacity.DateColumn(date),
		Time:      sailingTime,
		Vessel:    selectionText(row, vesselSelector),
		Full:      &full,
		Timestamp: fetchedAt,
	}

	var err error
	if entry.OverallPercent, err = parsePercent(selectionText(row, overallPercentSelector), full); err != nil {
		return capacity.Entry{}, false, err
	}
	if entry.VehiclePercent, err = parsePercent(selectionText(row, vehiclePercentSelector), full); err != nil {
		return capacity.Entry{}, false, err
	}
	if entry.TruckPercent, err = parsePercent(selectionText(row, truckPercentSelector), full); err != nil {
		return capacity.Entry{}, false, err
	}

	message := selectionText(row, etaSelector)
	if strings.Contains(message, "ETA") {
		entry.Eta = clockTimePointer(etaPrefix.ReplaceAllString(message, ""))
	}
	entry.Departure = clockTimePointer(departedPrefix.ReplaceAllString(selectionText(row, departureSelector), ""))

	return entry, true, nil
}

// selectionText returns the trimmed text of the first element matching selector under row
func selectionText(row *goquery.Selection, selector string) string {
	return strings.TrimSpace(row.Find(selector).First().Text())
}

// parsePercent converts a percentage such as "42%" to a number. "Full" is zero percent
// available, as is any value when the whole sailing is full. Empty text is nil.
func parsePercent(text string, sailingFull bool) (*float64, error) {
	if sailingFull {
		zero := 0.0
		return &zero, nil
	}
	text = strings.TrimSpace(strings.ReplaceAll(text, "%", ""))
	if len(text) == 0 {
		return nil, nil
	}
	if strings.EqualFold(text, "full") {
		zero := 0.0
		return &zero, nil
	}
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid percentage %q: %w", text, err)
	}
	return &value, nil
}

// parseClockTime converts a displayed time such as "9:00 am" to "09:00:00"
func parseClockTime(text string) (string, bool) {
	text = strings.ToLower(strings.Join(strings.Fields(text), " "))
	if len(text) == 0 {
		return "", false
	}
	for _, layout := range clockTimeLayout {
		parsed, err := time.Parse(layout, text)
		if err == nil {
			return parsed.Format("15:04:05"), true
		}
	}
	return "", false
}

func clockTimePointer(text string) *string {
	result, ok := parseClockTime(text)
	if !ok {
		return nil
	}
	return &result
}
