package web

import (
	"context"
	"encoding/json"
	logger "log"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/OpenTransitTools/ferrycast/business/canonical"
	"github.com/OpenTransitTools/ferrycast/business/civilday"
	"github.com/OpenTransitTools/ferrycast/business/data/capacity"
	"github.com/OpenTransitTools/ferrycast/business/data/ferryroute"
	"github.com/OpenTransitTools/ferrycast/business/data/holiday"
	"github.com/go-chi/cors"
	"github.com/golang-sql/civil"
	"github.com/gorilla/mux"
)

// CapacityStore provides the aggregated capacity history pages are built from
type CapacityStore interface {
	DailySummary(dow time.Weekday, route string) ([]capacity.SailingSummary, error)
	SailingHistory(dow time.Weekday, route string, sailing string) ([]capacity.DowResult, error)
	Entries(date civil.Date, route string, sailings []string) ([]capacity.Entry, error)
	Sailings() ([]string, error)
	Routes() ([]string, error)
}

// siteHandlers holds data needed to respond and log site requests
type siteHandlers struct {
	log                     *logger.Logger
	resolver                *canonical.Resolver
	holidays                *holiday.Calendar
	store                   CapacityStore
	collection              *conditionsCollection
	clock                   civilday.Clock
	expireConditionsSeconds int
	// allowedOrigins may read the json responses from a browser
	allowedOrigins []string
}

// serveHealth responds with the application status header
func (h *siteHandlers) serveHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Add("Application-Status", "OK")
}

// serveIndex redirects non-canonical requests, otherwise responds with the page model for the
// requested route and date
func (h *siteHandlers) serveIndex(w http.ResponseWriter, r *http.Request) {
	today := civilday.Today(h.clock)
	params := canonical.ParseParams(r.URL.Query())

	if params.Date != nil && len(*params.Date) > 0 {
		if _, err := civil.ParseDate(*params.Date); err != nil {
			http.Error(w, "invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
	}

	if target, ok := h.resolver.Redirect(params, today); ok {
		http.Redirect(w, r, target, http.StatusFound)
		return
	}

	routeCode := ferryroute.DefaultCode
	if params.Route != nil && len(*params.Route) > 0 {
		routeCode = *params.Route
	}
	route := ferryroute.ForCode(routeCode)

	date, ok := canonical.ResolveDate(params, today)
	if !ok {
		date = h.defaultDate(params, today)
	}

	page := h.buildPage(route, params, date, today)
	dow := civilday.Weekday(date)

	summaries, err := h.store.DailySummary(dow, route.Code)
	if err != nil {
		h.log.Printf("Error loading daily summary for route %s on %s: %v", route.Code, dow, err)
		http.Error(w, "Error serving request", http.StatusInternalServerError)
		return
	}
	page.Sailings = makeSailingModels(summaries)

	if len(page.Sailing) > 0 {
		history, err := h.store.SailingHistory(dow, route.Code, page.Sailing)
		if err != nil {
			h.log.Printf("Error loading history for sailing %s on route %s: %v", page.Sailing, route.Code, err)
			http.Error(w, "Error serving request", http.StatusInternalServerError)
			return
		}
		page.History = history
	}

	// observations only exist up to today
	if !date.After(today) {
		var sailings []string
		if len(page.Sailing) > 0 {
			sailings = []string{page.Sailing}
		}
		observations, err := h.store.Entries(date, route.Code, sailings)
		if err != nil {
			h.log.Printf("Error loading observations for route %s on %s: %v", route.Code, date, err)
			http.Error(w, "Error serving request", http.StatusInternalServerError)
			return
		}
		page.Observations = observations
	}

	sailingOptions, err := h.store.Sailings()
	if err != nil {
		h.log.Printf("Error loading sailing times: %v", err)
		http.Error(w, "Error serving request", http.StatusInternalServerError)
		return
	}
	page.SailingOptions = sailingOptions

	routeOptions, err := h.store.Routes()
	if err != nil {
		h.log.Printf("Error loading routes: %v", err)
		http.Error(w, "Error serving request", http.StatusInternalServerError)
		return
	}
	page.RouteOptions = routeOptions

	h.writeJSON(w, page)
}

// defaultDate is the date shown when neither a date nor a day was given: the next occurrence of
// the requested holiday if there is one, otherwise today
func (h *siteHandlers) defaultDate(params canonical.Params, today civil.Date) civil.Date {
	if params.Holiday == nil || len(*params.Holiday) == 0 {
		return today
	}
	identity, ok := h.holidays.BySlug(*params.Holiday)
	if !ok {
		return today
	}
	if next, ok := h.holidays.NextOccurrence(identity.Name, today); ok {
		return next
	}
	return today
}

// serveLegacyReserve permanently redirects the former planning page to the home page, keeping the query
func (h *siteHandlers) serveLegacyReserve(w http.ResponseWriter, r *http.Request) {
	target := "/"
	if query := r.URL.Query().Encode(); len(query) > 0 {
		target = "/?" + query
	}
	http.Redirect(w, r, target, http.StatusMovedPermanently)
}

// serveLegacyReserveRoute permanently redirects the former per-route planning page to the home page
// with the route as a parameter
func (h *siteHandlers) serveLegacyReserveRoute(w http.ResponseWriter, r *http.Request) {
	route, ok := ferryroute.BySlug(mux.Vars(r)["route"])
	if !ok {
		http.NotFound(w, r)
		return
	}
	query := r.URL.Query()
	query.Set(canonical.RouteParam, route.Code)
	http.Redirect(w, r, "/?"+query.Encode(), http.StatusMovedPermanently)
}

// serveBusiestTimes responds with how often each sailing of a route fills on a day of the week
func (h *siteHandlers) serveBusiestTimes(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	route, ok := ferryroute.BySlug(vars["route"])
	if !ok {
		http.NotFound(w, r)
		return
	}
	dow, ok := civilday.ParseDay(vars["day"])
	if !ok {
		http.NotFound(w, r)
		return
	}

	summaries, err := h.store.DailySummary(dow, route.Code)
	if err != nil {
		h.log.Printf("Error loading daily summary for route %s on %s: %v", route.Code, dow, err)
		http.Error(w, "Error serving request", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, h.buildBusiestTimesPage(route, dow, summaries))
}

// serveSitemap responds with the sitemap of every evergreen page
func (h *siteHandlers) serveSitemap(w http.ResponseWriter, _ *http.Request) {
	data, err := buildSitemap(h.resolver, h.holidays, civilday.Today(h.clock))
	if err != nil {
		h.log.Printf("Error building sitemap: %v", err)
		http.Error(w, "Error serving request", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/xml")
	byteCount, err := w.Write(data)
	if err != nil {
		h.log.Printf("Error writing sitemap response: %s", err)
		return
	}
	h.log.Printf("wrote %d bytes in sitemap response.", byteCount)
}

// conditionsResponseWrapper provides json response wrapper around current capacity.Entry values
type conditionsResponseWrapper struct {
	Timestamp int64            `json:"timestamp"`
	Entries   []capacity.Entry `json:"entries"`
}

// serveConditions responds with the latest conditions received from the scraper that have not expired
func (h *siteHandlers) serveConditions(w http.ResponseWriter, r *http.Request) {
	now := h.clock.Now()
	expireAfter := time.Duration(h.expireConditionsSeconds) * time.Second
	current := make([]capacity.Entry, 0)
	for _, e := range h.collection.entryList(r.FormValue(canonical.RouteParam)) {
		if now.Sub(e.Timestamp) <= expireAfter {
			current = append(current, e)
		}
	}
	h.writeJSON(w, conditionsResponseWrapper{
		Timestamp: now.Unix(),
		Entries:   current,
	})
}

// writeJSON marshals value as the json response
func (h *siteHandlers) writeJSON(w http.ResponseWriter, value interface{}) {
	jsonData, err := json.Marshal(value)
	if err != nil {
		h.log.Printf("Error marshaling response to json: error:%v\n", err)
		http.Error(w, "Error serving request", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	byteCount, err := w.Write(jsonData)
	if err != nil {
		h.log.Printf("Error writing json response: %s", err)
		return
	}
	h.log.Printf("wrote %d bytes in json response.", byteCount)
}

// makeRouter routes site requests to siteHandlers
func makeRouter(h *siteHandlers) *mux.Router {
	r := mux.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: h.allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodHead},
		MaxAge:         300,
	}))
	r.HandleFunc("/", h.serveIndex).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/health", h.serveHealth)
	r.HandleFunc("/should-i-reserve", h.serveLegacyReserve).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/should-i-reserve/{route}", h.serveLegacyReserveRoute).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/busiest-ferry-times/{route}/{day}", h.serveBusiestTimes).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/sitemap.xml", h.serveSitemap).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/conditions", h.serveConditions).Methods(http.MethodGet, http.MethodHead)
	return r
}

// createServer creates configured http.Server for responding to site requests
func createServer(h *siteHandlers, httpPort int) *http.Server {
	srv := &http.Server{
		Addr: strings.Join([]string{"0.0.0.0", strconv.Itoa(httpPort)}, ":"),
		// Good practice to set timeouts to avoid Slowloris attacks.
		WriteTimeout: time.Second * 15,
		ReadTimeout:  time.Second * 15,
		IdleTimeout:  time.Second * 60,
		Handler:      makeRouter(h),
	}
	return srv
}

// runWebService starts up the site web service, and terminates on shutdown signal
func runWebService(log *logger.Logger,
	wg *sync.WaitGroup,
	h *siteHandlers,
	httpPort int,
	shutdownSignal chan bool,
) {
	defer wg.Done()
	srv := createServer(h, httpPort)
	log.Printf("Starting server on port %d", httpPort)
	go func() {
		if err := srv.ListenAndServe(); err != nil {
			log.Printf("server ListenAndServe ended. %s", err)
		}
	}()

	<-shutdownSignal
	log.Printf("ending webservice on shutdown signal")
	shutdownCtx, serverCancelFunc := context.WithTimeout(context.Background(), time.Duration(5)*time.Second)
	defer serverCancelFunc()
	err := srv.Shutdown(shutdownCtx)
	if err != nil {
		log.Printf("error shutting down webservice, error:%s", err)
	}
}
