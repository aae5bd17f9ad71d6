// Package web serves the ferry conditions site: canonical page resolution, capacity
// summaries, sitemap and the live conditions received from the scraper.
package web

import (
	logger "log"
	"os"
	"sync"
	"time"

	"github.com/OpenTransitTools/ferrycast/business/canonical"
	"github.com/OpenTransitTools/ferrycast/business/civilday"
	"github.com/OpenTransitTools/ferrycast/business/data/holiday"
	"github.com/nats-io/nats.go"
)

// Config holds the settings for StartServices
type Config struct {
	HttpPort                int
	BaseURL                 string
	ConditionsSubject       string
	ExpireConditionsSeconds int
	AllowedOrigins          []string
}

// StartServices brings up backgroundLoop, conditionsListener and webservice. Exits on shutdown signal.
// The conditions listener only runs when natsConn is provided.
func StartServices(log *logger.Logger,
	cfg Config,
	natsConn *nats.Conn,
	store CapacityStore,
	shutdownSignal chan os.Signal) {

	wg := sync.WaitGroup{}

	//create shared container
	collection := makeConditionsCollection()

	holidays := holiday.Default()
	handlers := &siteHandlers{
		log:                     log,
		resolver:                canonical.NewResolver(holidays, cfg.BaseURL),
		holidays:                holidays,
		store:                   store,
		collection:              collection,
		clock:                   civilday.SystemClock{},
		expireConditionsSeconds: cfg.ExpireConditionsSeconds,
		allowedOrigins:          cfg.AllowedOrigins,
	}

	//create shutdown channels
	backgroundLoopShutdown := make(chan bool, 1)
	conditionsListenerShutdown := make(chan bool, 1)
	webServiceShutdown := make(chan bool, 1)

	//start all child services
	wg.Add(2)
	go runBackgroundLoop(log, &wg, collection, backgroundLoopShutdown, cfg.ExpireConditionsSeconds)
	go runWebService(log, &wg, handlers, cfg.HttpPort, webServiceShutdown)
	if natsConn != nil {
		wg.Add(1)
		go runConditionsListener(log, &wg, natsConn, collection, cfg.ConditionsSubject,
			conditionsListenerShutdown)
	}

	<-shutdownSignal
	log.Printf("Exiting on shutdown signal, shutting down subroutines")
	backgroundLoopShutdown <- true
	conditionsListenerShutdown <- true
	webServiceShutdown <- true
	wg.Wait()
	log.Printf("Subroutines shut down, exiting conditions web service")
}

// runBackgroundLoop frequently runs clean up on conditionsCollection
func runBackgroundLoop(log *logger.Logger,
	wg *sync.WaitGroup,
	collection *conditionsCollection,
	shutdownSignal chan bool,
	expireConditionsSeconds int) {
	defer wg.Done()

	sleepChan := make(chan bool)

	loopDuration := time.Duration(30) * time.Second
	sleep := loopDuration

	for {

		go func() {
			time.Sleep(sleep)
			sleepChan <- true
		}()

		select {
		case <-shutdownSignal:
			log.Printf("Exiting background loop on shutdown signal")
			return
		case <-sleepChan:
		}

		removed, currentSize := collection.expireEntries(time.Now(), expireConditionsSeconds)

		log.Printf("Conditions collection has %d sailings. Removed %d old sailings", currentSize, removed)
	}
}
