package cache

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRateCacheExpires(t *testing.T) {
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	c := NewRateCache(time.Hour, func() time.Time { return now })

	_, _, ok := c.Get()
	assert.False(t, ok)

	stamped := c.Set(decimal.NewFromInt(1300))
	assert.Equal(t, now, stamped)

	now = now.Add(59 * time.Minute)
	v, at, ok := c.Get()
	assert.True(t, ok)
	assert.True(t, v.Equal(decimal.NewFromInt(1300)))
	assert.Equal(t, stamped, at)

	now = now.Add(time.Minute)
	_, _, ok = c.Get()
	assert.False(t, ok)
}

func TestRateCacheEmptyUntilSet(t *testing.T) {
	c := NewRateCache(time.Hour, nil)
	_, _, ok := c.Get()
	assert.False(t, ok)

	c.Set(decimal.NewFromInt(1300))
	_, _, ok = c.Get()
	assert.True(t, ok)
}
