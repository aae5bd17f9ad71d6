package capacity

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/golang-sql/civil"
	"github.com/redis/go-redis/v9"
)

// Aggregator computes the capacity aggregations pages are built from
type Aggregator interface {
	DailySummary(dow time.Weekday, route string) ([]SailingSummary, error)
	SailingHistory(dow time.Weekday, route string, sailing string) ([]DowResult, error)
	Entries(date civil.Date, route string, sailings []string) ([]Entry, error)
	Sailings() ([]string, error)
	Routes() ([]string, error)
}

// cacheTimeout bounds each round trip to redis
const cacheTimeout = 500 * time.Millisecond

// CachedStore serves aggregations from redis when present, computing and caching them with
// source otherwise. Redis failures are logged and fall through to source.
type CachedStore struct {
	log    *log.Logger
	source Aggregator
	client *redis.Client
	ttl    time.Duration
}

// NewCachedStore creates CachedStore, cached results expire after ttl
func NewCachedStore(log *log.Logger, source Aggregator, client *redis.Client, ttl time.Duration) *CachedStore {
	return &CachedStore{
		log:    log,
		source: source,
		client: client,
		ttl:    ttl,
	}
}

func summaryCacheKey(dow time.Weekday, route string) string {
	return fmt.Sprintf("ferrycast:summary:%s:%d", route, dow)
}

func historyCacheKey(dow time.Weekday, route string, sailing string) string {
	return fmt.Sprintf("ferrycast:history:%s:%d:%s", route, dow, sailing)
}

// DailySummary implements Aggregator
func (c *CachedStore) DailySummary(dow time.Weekday, route string) ([]SailingSummary, error) {
	key := summaryCacheKey(dow, route)
	var result []SailingSummary
	if c.get(key, &result) {
		return result, nil
	}
	result, err := c.source.DailySummary(dow, route)
	if err != nil {
		return nil, err
	}
	c.set(key, result)
	return result, nil
}

// SailingHistory implements Aggregator
func (c *CachedStore) SailingHistory(dow time.Weekday, route string, sailing string) ([]DowResult, error) {
	key := historyCacheKey(dow, route, sailing)
	var result []DowResult
	if c.get(key, &result) {
		return result, nil
	}
	result, err := c.source.SailingHistory(dow, route, sailing)
	if err != nil {
		return nil, err
	}
	c.set(key, result)
	return result, nil
}

// Entries implements Aggregator. Observations of the current day change with every scrape so
// they are never cached.
func (c *CachedStore) Entries(date civil.Date, route string, sailings []string) ([]Entry, error) {
	return c.source.Entries(date, route, sailings)
}

// Sailings implements Aggregator
func (c *CachedStore) Sailings() ([]string, error) {
	const key = "ferrycast:sailings"
	var result []string
	if c.get(key, &result) {
		return result, nil
	}
	result, err := c.source.Sailings()
	if err != nil {
		return nil, err
	}
	c.set(key, result)
	return result, nil
}

// Routes implements Aggregator
func (c *CachedStore) Routes() ([]string, error) {
	const key = "ferrycast:routes"
	var result []string
	if c.get(key, &result) {
		return result, nil
	}
	result, err := c.source.Routes()
	if err != nil {
		return nil, err
	}
	c.set(key, result)
	return result, nil
}

// get loads key into dest, returns false on a miss or any failure
func (c *CachedStore) get(key string, dest interface{}) bool {
	ctx, cancel := context.WithTimeout(context.Background(), cacheTimeout)
	defer cancel()
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		c.log.Printf("unable to read %s from cache: %v", key, err)
		return false
	}
	if err = json.Unmarshal(data, dest); err != nil {
		c.log.Printf("unable to parse cached %s: %v", key, err)
		return false
	}
	return true
}

func (c *CachedStore) set(key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		c.log.Printf("unable to marshal %s for cache: %v", key, err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), cacheTimeout)
	defer cancel()
	if err = c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.log.Printf("unable to write %s to cache: %v", key, err)
	}
}
