package web

import (
	"testing"
	"time"

	"github.com/OpenTransitTools/ferrycast/business/data/capacity"
	"github.com/matryer/is"
	"github.com/nats-io/nats.go"
)

func TestAddEntriesKeepsNewestPerSailing(t *testing.T) {
	is := is.New(t)
	c := makeConditionsCollection()

	older := makeTestEntry("TSA-SWB", "2026-02-11", "09:00:00", pinnedNow.Add(-time.Minute))
	newer := makeTestEntry("TSA-SWB", "2026-02-11", "09:00:00", pinnedNow)
	newer.Full = boolPtr(true)

	is.Equal(c.addEntries([]capacity.Entry{newer}), 1)
	is.Equal(c.addEntries([]capacity.Entry{older}), 0) // stale observation discarded

	entries := c.entryList("")
	is.Equal(len(entries), 1)
	is.True(entries[0].IsFull())
}

func TestEntryListOrder(t *testing.T) {
	is := is.New(t)
	c := makeConditionsCollection()
	c.addEntries([]capacity.Entry{
		makeTestEntry("TSA-SWB", "2026-02-12", "07:00:00", pinnedNow),
		makeTestEntry("SWB-TSA", "2026-02-11", "11:00:00", pinnedNow),
		makeTestEntry("TSA-SWB", "2026-02-11", "15:00:00", pinnedNow),
		makeTestEntry("TSA-SWB", "2026-02-11", "09:00:00", pinnedNow),
	})

	var got []string
	for _, e := range c.entryList("") {
		got = append(got, e.Route+" "+e.SailingDate().String()+" "+e.Time)
	}
	is.Equal(got, []string{
		"SWB-TSA 2026-02-11 11:00:00",
		"TSA-SWB 2026-02-11 09:00:00",
		"TSA-SWB 2026-02-11 15:00:00",
		"TSA-SWB 2026-02-12 07:00:00",
	})
	is.Equal(len(c.entryList("SWB-TSA")), 1)
	is.Equal(len(c.entryList("HSB-NAN")), 0)
}

func TestExpireEntries(t *testing.T) {
	is := is.New(t)
	c := makeConditionsCollection()
	c.addEntries([]capacity.Entry{
		makeTestEntry("TSA-SWB", "2026-02-11", "07:00:00", pinnedNow.Add(-90*time.Minute)),
		makeTestEntry("TSA-SWB", "2026-02-11", "09:00:00", pinnedNow.Add(-30*time.Minute)),
		makeTestEntry("TSA-SWB", "2026-02-11", "11:00:00", pinnedNow),
	})

	removed, currentSize := c.expireEntries(pinnedNow, 3600)
	is.Equal(removed, 1)
	is.Equal(currentSize, 2)

	// expired sailing can be stored again
	is.Equal(c.addEntries([]capacity.Entry{
		makeTestEntry("TSA-SWB", "2026-02-11", "07:00:00", pinnedNow.Add(-80*time.Minute)),
	}), 1)
	is.Equal(len(c.entryList("")), 3)
}

func TestProcessConditionsFromMsg(t *testing.T) {
	is := is.New(t)
	c := makeConditionsCollection()
	logWriter := makeTestLogWriter()

	msg := &nats.Msg{Data: []byte(`[
		{"route":"SWB-TSA","date":"2026-02-11T00:00:00Z","time":"13:00:00","vessel":"Queen of Alberni",
		 "overall_percent":12,"vehicle_percent":5,"truck_percent":null,"full":false,
		 "eta":null,"departure":"13:04:00","timestamp":"2026-02-11T20:00:00Z"}
	]`)}
	processConditionsFromMsg(logWriter.log, msg, c)

	entries := c.entryList("SWB-TSA")
	is.Equal(len(entries), 1)
	is.Equal(entries[0].Vessel, "Queen of Alberni")
	is.Equal(entries[0].SailingDate(), getTestDate("2026-02-11"))
	is.Equal(*entries[0].OverallPercent, 12.0)
	is.Equal(entries[0].TruckPercent, nil)
	is.Equal(*entries[0].Departure, "13:04:00")

	processConditionsFromMsg(logWriter.log, &nats.Msg{Data: []byte("not json")}, c)
	is.Equal(len(c.entryList("")), 1)
	is.Equal(len(logWriter.logLines), 1) // parse error logged
}
