package dataflows

import (
	"context"
	"fmt"
	"time"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/dyike/FolioGo/config"
	"github.com/dyike/FolioGo/internal/models"
)

// barFetcher loads chart bars for symbol in [start, end].
type barFetcher func(ctx context.Context, symbol string, start, end time.Time, interval datetime.Interval) ([]models.Bar, error)

// YahooFinanceClient handles Yahoo Finance price and FX lookups
type YahooFinanceClient struct {
	fetch barFetcher
	now   func() time.Time
	log   zerolog.Logger

	priceWindow   time.Duration
	priceInterval datetime.Interval
	rateSymbol    string
	rateWindow    time.Duration
	rateInterval  datetime.Interval
}

// NewYahooFinanceClient creates a new Yahoo Finance client
func NewYahooFinanceClient(cfg *config.Config, log zerolog.Logger) *YahooFinanceClient {
	return &YahooFinanceClient{
		fetch:         fetchChartBars,
		now:           time.Now,
		log:           log.With().Str("client", "yahoo").Logger(),
		priceWindow:   cfg.PriceWindow,
		priceInterval: datetime.Interval(cfg.PriceInterval),
		rateSymbol:    cfg.RateSymbol,
		rateWindow:    cfg.RateWindow,
		rateInterval:  datetime.Interval(cfg.RateInterval),
	}
}

func (yf *YahooFinanceClient) Name() string { return "yahoo" }

// LatestClose gets the last close for symbol over the configured price window.
func (yf *YahooFinanceClient) LatestClose(ctx context.Context, symbol string) (decimal.Decimal, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return decimal.Zero, err
	}
	return yf.latest(ctx, NormalizeSymbol(symbol), yf.priceWindow, yf.priceInterval)
}

// FetchRate gets the last USD→KRW quote over the configured rate window.
func (yf *YahooFinanceClient) FetchRate(ctx context.Context) (decimal.Decimal, error) {
	return yf.latest(ctx, yf.rateSymbol, yf.rateWindow, yf.rateInterval)
}

// latest returns the close of the most recent bar inside the lookback window.
// The window spans several days so the last session is found on weekends and holidays.
func (yf *YahooFinanceClient) latest(ctx context.Context, symbol string, window time.Duration, interval datetime.Interval) (decimal.Decimal, error) {
	if err := ctx.Err(); err != nil {
		return decimal.Zero, err
	}

	end := yf.now()
	start := end.Add(-window)

	bars, err := yf.fetch(ctx, symbol, start, end, interval)
	if err != nil {
		return decimal.Zero, err
	}

	price, err := lastClose(bars)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", symbol, err)
	}

	yf.log.Debug().
		Str("symbol", symbol).
		Int("bars", len(bars)).
		Str("close", price.String()).
		Msg("Fetched latest close")
	return price, nil
}

func fetchChartBars(ctx context.Context, symbol string, start, end time.Time, interval datetime.Interval) ([]models.Bar, error) {
	params := &chart.Params{
		Symbol:   symbol,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: interval,
	}
	params.Context = &ctx

	iter := chart.Get(params)

	bars := make([]models.Bar, 0)
	for iter.Next() {
		bar := iter.Bar()
		bars = append(bars, models.Bar{
			Symbol:    symbol,
			Timestamp: time.Unix(int64(bar.Timestamp), 0),
			Open:      bar.Open,
			High:      bar.High,
			Low:       bar.Low,
			Close:     bar.Close,
			Volume:    int64(bar.Volume),
		})
	}

	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to get chart for %s: %w", symbol, err)
	}

	return bars, nil
}
