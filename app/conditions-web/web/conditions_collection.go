package web

import (
	"sort"
	"sync"
	"time"

	"github.com/OpenTransitTools/ferrycast/business/data/capacity"
)

// conditionsCollection contains the latest capacity.Entry for each sailing and provides thread safe access to them
type conditionsCollection struct {
	mu         sync.Mutex
	entriesMap map[string]capacity.Entry
	entries    []capacity.Entry
}

// makeConditionsCollection conditionsCollection factory
func makeConditionsCollection() *conditionsCollection {
	return &conditionsCollection{
		entriesMap: make(map[string]capacity.Entry),
		entries:    make([]capacity.Entry, 0),
	}
}

// sailingKey identifies a sailing across observations
func sailingKey(e capacity.Entry) string {
	return e.Route + "|" + e.SailingDate().String() + "|" + e.Time
}

// addEntries stores new entries, discarding any that are older than the entry already held for the
// same sailing. Returns the number of entries stored.
func (c *conditionsCollection) addEntries(newEntries []capacity.Entry) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	added := 0
	for _, e := range newEntries {
		key := sailingKey(e)
		if existing, present := c.entriesMap[key]; present {
			//new entry is older than previous one, don't replace it
			if existing.Timestamp.After(e.Timestamp) {
				continue
			}
		}
		c.entriesMap[key] = e
		added++
	}
	if added > 0 {
		c.rebuildList()
	}
	return added
}

// rebuildList orders entries by route, date and time. Must be called with mu held.
func (c *conditionsCollection) rebuildList() {
	newEntries := make([]capacity.Entry, 0, len(c.entriesMap))
	for _, e := range c.entriesMap {
		newEntries = append(newEntries, e)
	}
	sort.Slice(newEntries, func(i, j int) bool {
		a, b := newEntries[i], newEntries[j]
		if a.Route != b.Route {
			return a.Route < b.Route
		}
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		return a.Time < b.Time
	})
	c.entries = newEntries
}

// entryList returns the stored entries for route, or all entries when route is empty
func (c *conditionsCollection) entryList(route string) []capacity.Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	results := make([]capacity.Entry, 0)
	for _, e := range c.entries {
		if len(route) == 0 || e.Route == route {
			results = append(results, e)
		}
	}
	return results
}

// expireEntries removes all entries that were observed more than "expireAfterSeconds" before at.
// returns the number of entries that have been removed and how many are currently stored.
func (c *conditionsCollection) expireEntries(at time.Time, expireAfterSeconds int) (removed int, currentSize int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expireAfter := time.Duration(expireAfterSeconds) * time.Second
	newMap := make(map[string]capacity.Entry)
	newEntries := make([]capacity.Entry, 0)
	for _, e := range c.entries {
		if at.Sub(e.Timestamp) < expireAfter {
			newEntries = append(newEntries, e)
			newMap[sailingKey(e)] = e
		}
	}
	previousSize := len(c.entries)
	c.entriesMap = newMap
	c.entries = newEntries
	currentSize = len(c.entries)
	return previousSize - currentSize, currentSize
}
