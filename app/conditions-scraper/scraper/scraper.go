// Package scraper periodically reads the operator's current conditions pages and records
// how full each sailing is.
package scraper

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/OpenTransitTools/ferrycast/business/civilday"
	"github.com/OpenTransitTools/ferrycast/business/data/capacity"
	"github.com/OpenTransitTools/ferrycast/business/data/ferryroute"
	"github.com/OpenTransitTools/ferrycast/foundation/httpclient"
	"github.com/jmoiron/sqlx"
	"github.com/nats-io/nats.go"
	"golang.org/x/time/rate"
)

// Config holds the settings for RunScraperLoop
type Config struct {
	ConditionsUrl    string
	Routes           []string
	LoopEverySeconds int
	FetchTimeout     time.Duration
	// FetchInterval is the minimum time between two page requests
	FetchInterval    time.Duration
	UserAgent        string
	NatsSubject      string
	RecordToDatabase bool
	PublishOverNats  bool
}

// pageFetcher retrieves a conditions page
type pageFetcher interface {
	GetBytes(ctx context.Context, url string) ([]byte, httpclient.RemoteFileInfo, error)
}

// conditionsScraper holds the state kept between runs of the loop
type conditionsScraper struct {
	log           *log.Logger
	fetcher       pageFetcher
	publisher     resultsPublisher
	clock         civilday.Clock
	conditionsUrl string
	routes        []string
	fetchTimeout  time.Duration
	limiter       *rate.Limiter
	// lastSeen holds the version of the page last published per route
	lastSeen map[string]httpclient.RemoteFileInfo
}

// RunScraperLoop starts loop that reads the conditions pages every cfg.LoopEverySeconds and publishes the results.
func RunScraperLoop(log *log.Logger,
	db *sqlx.DB,
	natsConn *nats.Conn,
	cfg Config,
	shutdownSignal chan os.Signal) error {

	s := &conditionsScraper{
		log:           log,
		fetcher:       httpclient.NewClient(cfg.FetchTimeout, cfg.UserAgent),
		publisher:     makeConditionsResultsPublisher(log, db, natsConn, cfg.NatsSubject, cfg.RecordToDatabase, cfg.PublishOverNats),
		clock:         civilday.SystemClock{},
		conditionsUrl: strings.TrimSuffix(cfg.ConditionsUrl, "/"),
		routes:        routesToScrape(cfg.Routes),
		fetchTimeout:  cfg.FetchTimeout,
		limiter:       makeFetchLimiter(cfg.FetchInterval),
		lastSeen:      make(map[string]httpclient.RemoteFileInfo),
	}

	loopDuration := time.Duration(cfg.LoopEverySeconds) * time.Second

	sleepChan := make(chan bool)
	sleep := time.Duration(0) //sleep for zero seconds the first time

	for {

		go func() {
			time.Sleep(sleep)
			sleepChan <- true
		}()

		select {
		case <-shutdownSignal:
			log.Printf("Exiting on shutdown signal")
			return nil
		case <-sleepChan:
			break
		}

		// mark the time we start working
		start := time.Now()

		count := s.scrapeAll()
		log.Printf("published %d entries from %d routes\n", count, len(s.routes))

		// attempt to run the loop every loopEverySeconds by subtracting the time it took to perform the work
		workTook := time.Now().Sub(start)

		log.Printf("work took %s\n", fmtDuration(workTook))

		// if the work took longer than loopEverySeconds don't sleep at all on the next loop
		if workTook >= loopDuration {
			sleep = time.Duration(0)
		} else {
			sleep = loopDuration - workTook
		}
	}
}

// scrapeAll reads each route's page and publishes new entries, returns the number of entries published
func (s *conditionsScraper) scrapeAll() int {
	count := 0
	for _, route := range s.routes {
		entries, err := s.scrapeRoute(route)
		if err != nil {
			s.log.Printf("error scraping route %s. error:%v\n", route, err)
			continue
		}
		s.publisher.publish(entries)
		count += len(entries)
	}
	return count
}

// scrapeRoute fetches and parses the conditions page for route.
// Returns no entries when the page has not changed since it was last published.
func (s *conditionsScraper) scrapeRoute(route string) ([]capacity.Entry, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.fetchTimeout)
	defer cancel()

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting to fetch route %s: %w", route, err)
	}

	url := s.conditionsUrl + "/" + route
	body, info, err := s.fetcher.GetBytes(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch %s: %w", url, err)
	}
	if previous, present := s.lastSeen[route]; present &&
		!info.IsDifferent(previous.ETag, previous.LastModifiedTimestamp) {
		s.log.Printf("conditions for route %s unchanged since last fetch", route)
		return nil, nil
	}

	now := s.clock.Now()
	entries, err := parseConditions(route, body, civilday.Today(s.clock), now)
	if err != nil {
		return nil, err
	}
	s.lastSeen[route] = info
	return entries, nil
}

// routesToScrape returns the configured route codes, or every catalogued route when none are configured
func routesToScrape(configured []string) []string {
	if len(configured) == 0 {
		return ferryroute.Codes()
	}
	return configured
}

// makeFetchLimiter spaces page requests at least interval apart, a zero interval does not limit
func makeFetchLimiter(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}

// fmtDuration returns a string presentation of time.Duration for logging
func fmtDuration(d time.Duration) string {
	d = d.Round(time.Millisecond)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	d -= s * time.Second
	mill := d / time.Millisecond
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, mill)
}
