package dataflows

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// ErrNoData is returned when a source answers but has no usable price.
var ErrNoData = errors.New("no market data")

// PriceSource returns the latest close for a ticker.
type PriceSource interface {
	LatestClose(ctx context.Context, symbol string) (decimal.Decimal, error)
}

// RateSource returns the latest USD→KRW quote.
type RateSource interface {
	Name() string
	FetchRate(ctx context.Context) (decimal.Decimal, error)
}
