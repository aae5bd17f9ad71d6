// Package canonical decides the single canonical form of a ferrycast page from its query
// parameters: whether an incoming url must be redirected, which date a page describes, and
// the canonical url emitted in page metadata.
//
// Every function here is a pure function of its inputs. The current civil date is always
// passed in explicitly.
package canonical

import (
	"net/url"
	"strings"
)

// query parameter names recognised by ferrycast pages
const (
	RouteParam   = "route"
	SailingParam = "sailing"
	HolidayParam = "holiday"
	DayParam     = "day"
	DateParam    = "date"
)

// Params holds the recognised query parameters. A nil field was absent from the query,
// which is distinct from a parameter present with an empty value.
type Params struct {
	Route   *string
	Sailing *string
	Holiday *string
	Day     *string
	Date    *string
	// Other holds every query parameter not listed above, preserved on redirect
	Other url.Values
}

// ParseParams splits query into recognised parameters and everything else.
// Only the first value of a recognised parameter is kept.
func ParseParams(query url.Values) Params {
	p := Params{Other: make(url.Values)}
	for key, values := range query {
		if len(values) == 0 {
			continue
		}
		value := values[0]
		switch key {
		case RouteParam:
			p.Route = &value
		case SailingParam:
			p.Sailing = &value
		case HolidayParam:
			p.Holiday = &value
		case DayParam:
			p.Day = &value
		case DateParam:
			p.Date = &value
		default:
			p.Other[key] = append([]string(nil), values...)
		}
	}
	return p
}

// Values converts Params back into url.Values
func (p Params) Values() url.Values {
	values := make(url.Values)
	for key, other := range p.Other {
		values[key] = append([]string(nil), other...)
	}
	setIfNotNil(values, RouteParam, p.Route)
	setIfNotNil(values, SailingParam, p.Sailing)
	setIfNotNil(values, HolidayParam, p.Holiday)
	setIfNotNil(values, DayParam, p.Day)
	setIfNotNil(values, DateParam, p.Date)
	return values
}

func setIfNotNil(values url.Values, key string, value *string) {
	if value != nil {
		values.Set(key, *value)
	}
}

// present reports whether a parameter was supplied with a non empty value
func present(value *string) bool {
	return value != nil && len(*value) > 0
}

// queryBuilder encodes parameters in the order they are added, unlike url.Values which sorts keys
type queryBuilder struct {
	keys   []string
	values []string
}

func (q *queryBuilder) add(key, value string) {
	q.keys = append(q.keys, key)
	q.values = append(q.values, value)
}

func (q *queryBuilder) encode() string {
	var sb strings.Builder
	for i, key := range q.keys {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(q.values[i]))
	}
	return sb.String()
}
