// Package cache holds the time-bounded memo for the reporting exchange rate.
package cache

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// RateCache remembers one successfully fetched rate for a fixed TTL.
// Failures are never stored.
type RateCache struct {
	mu        sync.RWMutex
	value     decimal.Decimal
	timestamp time.Time
	valid     bool
	ttl       time.Duration
	now       func() time.Time
}

func NewRateCache(ttl time.Duration, now func() time.Time) *RateCache {
	if now == nil {
		now = time.Now
	}
	return &RateCache{ttl: ttl, now: now}
}

// Get returns the cached value and when it was fetched, if still fresh.
func (c *RateCache) Get() (decimal.Decimal, time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.valid || c.now().Sub(c.timestamp) >= c.ttl {
		return decimal.Zero, time.Time{}, false
	}
	return c.value, c.timestamp, true
}

// Set stores value stamped with the current time and returns that time.
func (c *RateCache) Set(value decimal.Decimal) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.value = value
	c.timestamp = c.now()
	c.valid = true
	return c.timestamp
}
