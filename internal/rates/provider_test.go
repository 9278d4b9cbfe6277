package rates

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/dyike/FolioGo/internal/cache"
	"github.com/dyike/FolioGo/internal/dataflows"
)

// MockRateSource is a mock implementation of dataflows.RateSource
type MockRateSource struct {
	mock.Mock
	name string
}

func (m *MockRateSource) Name() string { return m.name }

func (m *MockRateSource) FetchRate(ctx context.Context) (decimal.Decimal, error) {
	args := m.Called(ctx)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

var fallback = decimal.NewFromInt(1350)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newProvider(c *clock, sources ...dataflows.RateSource) *Provider {
	p := NewProvider(cache.NewRateCache(time.Hour, c.now), fallback, zerolog.Nop(), sources...)
	p.now = c.now
	return p
}

func TestRateIsCachedWithinTTL(t *testing.T) {
	c := &clock{t: time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)}
	src := &MockRateSource{name: "yahoo"}
	src.On("FetchRate", mock.Anything).Return(decimal.NewFromInt(1300), nil).Once()

	p := newProvider(c, src)

	q := p.Rate(context.Background())
	assert.True(t, q.Value.Equal(decimal.NewFromInt(1300)))
	assert.False(t, q.Fallback)

	c.t = c.t.Add(30 * time.Minute)
	assert.True(t, p.ReportingRate(context.Background()).Equal(decimal.NewFromInt(1300)))

	src.AssertNumberOfCalls(t, "FetchRate", 1)
}

func TestRateRefetchesAfterTTL(t *testing.T) {
	c := &clock{t: time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)}
	src := &MockRateSource{name: "yahoo"}
	src.On("FetchRate", mock.Anything).Return(decimal.NewFromInt(1300), nil).Once()
	src.On("FetchRate", mock.Anything).Return(decimal.NewFromInt(1310), nil).Once()

	p := newProvider(c, src)
	p.Rate(context.Background())

	c.t = c.t.Add(time.Hour)
	assert.True(t, p.ReportingRate(context.Background()).Equal(decimal.NewFromInt(1310)))
	src.AssertNumberOfCalls(t, "FetchRate", 2)
}

func TestRateFallbackIsNotCached(t *testing.T) {
	c := &clock{t: time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)}
	src := &MockRateSource{name: "yahoo"}
	src.On("FetchRate", mock.Anything).Return(decimal.Zero, errors.New("network down")).Once()
	src.On("FetchRate", mock.Anything).Return(decimal.NewFromInt(1300), nil).Once()

	p := newProvider(c, src)

	q := p.Rate(context.Background())
	assert.True(t, q.Fallback)
	assert.True(t, q.Value.Equal(fallback))

	// the very next call queries again instead of serving the fallback
	q = p.Rate(context.Background())
	assert.False(t, q.Fallback)
	assert.True(t, q.Value.Equal(decimal.NewFromInt(1300)))
	src.AssertNumberOfCalls(t, "FetchRate", 2)
}

func TestRateEmptyResultFallsBack(t *testing.T) {
	c := &clock{t: time.Now()}
	src := &MockRateSource{name: "yahoo"}
	src.On("FetchRate", mock.Anything).Return(decimal.Zero, dataflows.ErrNoData)

	p := newProvider(c, src)
	assert.True(t, p.ReportingRate(context.Background()).Equal(fallback))
}

func TestRateTriesSecondSource(t *testing.T) {
	c := &clock{t: time.Now()}
	primary := &MockRateSource{name: "yahoo"}
	primary.On("FetchRate", mock.Anything).Return(decimal.Zero, errors.New("boom"))
	secondary := &MockRateSource{name: "exchangerate-api"}
	secondary.On("FetchRate", mock.Anything).Return(decimal.NewFromInt(1299), nil)

	p := newProvider(c, primary, secondary)
	q := p.Rate(context.Background())
	assert.False(t, q.Fallback)
	assert.True(t, q.Value.Equal(decimal.NewFromInt(1299)))
}

func TestRateWithoutSourcesUsesFallback(t *testing.T) {
	p := newProvider(&clock{t: time.Now()})
	q := p.Rate(context.Background())
	assert.True(t, q.Fallback)
	assert.True(t, q.Value.Equal(fallback))
}
