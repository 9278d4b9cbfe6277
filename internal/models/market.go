package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bar is one OHLC candle returned by a market data source.
type Bar struct {
	Symbol    string          `json:"symbol"`
	Timestamp time.Time       `json:"timestamp"`
	Open      decimal.Decimal `json:"open"`
	High      decimal.Decimal `json:"high"`
	Low       decimal.Decimal `json:"low"`
	Close     decimal.Decimal `json:"close"`
	Volume    int64           `json:"volume"`
}

// Snapshot is the persisted record of one run's totals.
type Snapshot struct {
	ID           string          `json:"id"`
	TakenAt      time.Time       `json:"taken_at"`
	Rate         decimal.Decimal `json:"rate"`
	RateFallback bool            `json:"rate_fallback"`
	Total        decimal.Decimal `json:"total_krw"`
	Holdings     int             `json:"holdings"`
	Evaluated    int             `json:"evaluated"`
	Skipped      int             `json:"skipped"`
	Alerts       int             `json:"alerts"`
}
