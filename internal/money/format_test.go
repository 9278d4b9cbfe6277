package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/dyike/FolioGo/internal/models"
)

func TestPrice(t *testing.T) {
	assert.Equal(t, "120.00$", Price(decimal.NewFromInt(120), models.USD))
	assert.Equal(t, "70,000.00원", Price(decimal.NewFromInt(70000), models.KRW))
	assert.Equal(t, "1,234.57$", Price(decimal.RequireFromString("1234.567"), models.USD))
	assert.Equal(t, "0.05$", Price(decimal.RequireFromString("0.05"), models.USD))
}

func TestKRW(t *testing.T) {
	assert.Equal(t, "1,560,000원", KRW(decimal.NewFromInt(1560000)))
	assert.Equal(t, "350,000원", KRW(decimal.RequireFromString("349999.6")))
	assert.Equal(t, "0원", KRW(decimal.Zero))
}

func TestAmountAndPercent(t *testing.T) {
	assert.Equal(t, "1,560,000", Amount(decimal.NewFromInt(1560000), 0))
	assert.Equal(t, "-1,234.50", Amount(decimal.RequireFromString("-1234.5"), 2))
	assert.Equal(t, "20.00%", Percent(decimal.NewFromInt(20)))
	assert.Equal(t, "-3.33%", Percent(decimal.RequireFromString("-3.3333")))
}

func TestRate(t *testing.T) {
	assert.Equal(t, "1$ = 1,350.00원", Rate(decimal.NewFromInt(1350)))
}
