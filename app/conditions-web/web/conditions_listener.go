package web

import (
	"encoding/json"
	logger "log"
	"os"
	"sync"

	"github.com/OpenTransitTools/ferrycast/business/data/capacity"
	"github.com/nats-io/nats.go"
)

// runConditionsListener starts NATS subscription on conditionsSubject for batches of capacity.Entry.
// Stores results in conditionsCollection. Ends NATS subscription and returns on shutdownSignal
func runConditionsListener(
	log *logger.Logger,
	wg *sync.WaitGroup,
	natsConn *nats.Conn,
	collection *conditionsCollection,
	conditionsSubject string,
	shutdownSignal chan bool) {
	defer wg.Done()

	ch := make(chan *nats.Msg, 64)
	log.Printf("Subscribing to conditions on subject:%s on nats: %v\n", conditionsSubject,
		natsConn.Servers())
	sub, err := natsConn.ChanSubscribe(conditionsSubject, ch)
	if err != nil {
		log.Printf("Unable to establish subscription to nats server: %v\n", err)
		os.Exit(1)
	}

	for {
		select {
		case msg := <-ch:
			processConditionsFromMsg(log, msg, collection)
		case <-shutdownSignal:
			log.Printf("ending conditions listener on shutdown signal\n")
			log.Printf("unsubscribing to nats\n")
			err = sub.Unsubscribe()
			if err != nil {
				log.Printf("Error unsubscribing to nats:%s", err)
			}
			return
		}
	}
}

// processConditionsFromMsg un-marshal capacity.Entry batch from nats.Msg and store result in conditionsCollection
func processConditionsFromMsg(log *logger.Logger, msg *nats.Msg, collection *conditionsCollection) {
	var entries []capacity.Entry
	err := json.Unmarshal(msg.Data, &entries)
	if err != nil {
		log.Printf("error parsing conditions: %s, payload:%s", err, string(msg.Data))
		return
	}
	collection.addEntries(entries)
}
