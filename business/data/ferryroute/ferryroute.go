// Package ferryroute holds the catalogue of ferry routes ferrycast publishes pages for.
// Route codes outside the catalogue are still valid routes, the catalogue only names them.
package ferryroute

import "strings"

// Route describes a one way ferry route between two terminals
type Route struct {
	// Slug is the human friendly path segment, e.g. vancouver-victoria
	Slug string `json:"slug"`
	// Code is the operator's route code, e.g. TSA-SWB
	Code      string `json:"code"`
	From      string `json:"from"`
	To        string `json:"to"`
	FromShort string `json:"from_short"`
	ToShort   string `json:"to_short"`
}

// Label returns the short "from to to" description of the route
func (r Route) Label() string {
	return r.FromShort + " to " + r.ToShort
}

// Name returns the full "from to to" description of the route
func (r Route) Name() string {
	return r.From + " to " + r.To
}

// DefaultCode is the route shown when a request does not name one
const DefaultCode = "SWB-TSA"

var routes = []Route{
	{
		Slug:      "vancouver-victoria",
		Code:      "TSA-SWB",
		From:      "Vancouver (Tsawwassen)",
		To:        "Victoria (Swartz Bay)",
		FromShort: "Tsawwassen",
		ToShort:   "Swartz Bay",
	},
	{
		Slug:      "victoria-vancouver",
		Code:      "SWB-TSA",
		From:      "Victoria (Swartz Bay)",
		To:        "Vancouver (Tsawwassen)",
		FromShort: "Swartz Bay",
		ToShort:   "Tsawwassen",
	},
}

// All returns every route in catalogue order
func All() []Route {
	result := make([]Route, len(routes))
	copy(result, routes)
	return result
}

// Codes returns the route codes in catalogue order
func Codes() []string {
	codes := make([]string, 0, len(routes))
	for _, r := range routes {
		codes = append(codes, r.Code)
	}
	return codes
}

// BySlug finds the route with path segment slug
func BySlug(slug string) (Route, bool) {
	for _, r := range routes {
		if r.Slug == slug {
			return r, true
		}
	}
	return Route{}, false
}

// ByCode finds the route with operator code, ignoring case
func ByCode(code string) (Route, bool) {
	for _, r := range routes {
		if strings.EqualFold(r.Code, code) {
			return r, true
		}
	}
	return Route{}, false
}

// ForCode returns the catalogued route for code, or a route named after the terminals in the
// code when it is not catalogued. A code that does not name two terminals is used for both ends.
func ForCode(code string) Route {
	if r, ok := ByCode(code); ok {
		return r
	}
	from, to := code, code
	if terminals := strings.Split(code, "-"); len(terminals) == 2 {
		from, to = terminals[0], terminals[1]
	}
	return Route{
		Code:      code,
		From:      from,
		To:        to,
		FromShort: from,
		ToShort:   to,
	}
}

// Opposite returns the route travelling in the other direction, found by swapping the
// terminals in the route code
func Opposite(r Route) (Route, bool) {
	terminals := strings.Split(r.Code, "-")
	if len(terminals) != 2 {
		return Route{}, false
	}
	return ByCode(terminals[1] + "-" + terminals[0])
}
