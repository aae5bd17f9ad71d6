package scraper

import (
	"encoding/json"
	"log"

	"github.com/OpenTransitTools/ferrycast/business/data/capacity"
	"github.com/jmoiron/sqlx"
	"github.com/nats-io/nats.go"
)

// resultsPublisher takes entries read by the scraper and sends them to their
// destinations (database and/or nats)
type resultsPublisher interface {
	publish(entries []capacity.Entry)
}

// conditionsResultsPublisher implements resultsPublisher
type conditionsResultsPublisher struct {
	log              *log.Logger
	db               *sqlx.DB
	natsConnection   *nats.Conn
	natsSubject      string
	recordToDatabase bool
	publishOverNats  bool
}

// makeConditionsResultsPublisher creates conditionsResultsPublisher
func makeConditionsResultsPublisher(log *log.Logger,
	db *sqlx.DB,
	natsConnection *nats.Conn,
	natsSubject string,
	recordToDatabase bool,
	publishOverNats bool) *conditionsResultsPublisher {
	return &conditionsResultsPublisher{
		log:              log,
		db:               db,
		natsConnection:   natsConnection,
		natsSubject:      natsSubject,
		recordToDatabase: recordToDatabase && db != nil,
		publishOverNats:  publishOverNats && natsConnection != nil,
	}
}

// publish sends entries over NATS and records them to the database according to
// publishOverNats and recordToDatabase
func (c *conditionsResultsPublisher) publish(entries []capacity.Entry) {
	if len(entries) == 0 {
		return
	}
	if c.publishOverNats {
		c.sendOverNats(entries)
	}
	if c.recordToDatabase {
		c.record(entries)
	}
}

func (c *conditionsResultsPublisher) sendOverNats(entries []capacity.Entry) {
	jsonData, err := json.Marshal(entries)
	if err != nil {
		c.log.Printf("failed to marshal %d entries in "+
			"conditionsResultsPublisher.sendOverNats, error:%v", len(entries), err)
		return
	}
	err = c.natsConnection.Publish(c.natsSubject, jsonData)
	if err != nil {
		c.log.Printf("failed to send entries in "+
			"conditionsResultsPublisher.sendOverNats, error:%v", err)
	}
}

func (c *conditionsResultsPublisher) record(entries []capacity.Entry) {
	saved := 0
	for i := range entries {
		err := capacity.RecordEntry(&entries[i], c.db)
		if err != nil {
			c.log.Printf("Error saving entry %+v. error: %v", entries[i], err)
			continue
		}
		saved++
	}
	c.log.Printf("Saved %d of %d entries", saved, len(entries))
}
