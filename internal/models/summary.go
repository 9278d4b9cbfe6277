package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// EvaluatedHolding is a holding priced against the market for one pipeline run.
type EvaluatedHolding struct {
	Ticker        string          `json:"ticker"`
	CurrentPrice  decimal.Decimal `json:"current_price"`
	PriceDisplay  string          `json:"price_display"`
	ReturnPercent decimal.Decimal `json:"return_percent"`
	Valuation     decimal.Decimal `json:"valuation_krw"`
	Currency      Currency        `json:"currency"`
}

// Alert reports a holding whose return reached its target.
type Alert struct {
	Ticker        string          `json:"ticker"`
	TargetPercent decimal.Decimal `json:"target_percent"`
	ReturnPercent decimal.Decimal `json:"return_percent"`
}

func (a Alert) Message() string {
	return fmt.Sprintf("🚨 %s reached its target return (%s%%) - now %s%%",
		a.Ticker, a.TargetPercent.String(), a.ReturnPercent.StringFixed(2))
}

// SkippedHolding records a holding left out of a run because no price was available.
type SkippedHolding struct {
	Ticker string `json:"ticker"`
	Reason string `json:"reason"`
}

// AllocationSlice is one ticker's share of the total, grouped under its currency.
type AllocationSlice struct {
	Currency Currency        `json:"currency"`
	Ticker   string          `json:"ticker"`
	Value    decimal.Decimal `json:"value_krw"`
	Share    decimal.Decimal `json:"share"`
}

// RateQuote is the USD→KRW rate used for a run.
type RateQuote struct {
	Value     decimal.Decimal `json:"value"`
	Fallback  bool            `json:"fallback"`
	FetchedAt time.Time       `json:"fetched_at"`
}

// Summary is the result of one full pipeline run.
type Summary struct {
	GeneratedAt time.Time          `json:"generated_at"`
	Rate        RateQuote          `json:"rate"`
	Total       decimal.Decimal    `json:"total_krw"`
	Rows        []EvaluatedHolding `json:"rows"`
	Allocation  []AllocationSlice  `json:"allocation"`
	Alerts      []Alert            `json:"alerts"`
	Skipped     []SkippedHolding   `json:"skipped"`
	// TopIndex is the row with the highest return, -1 when there are no rows.
	TopIndex int `json:"top_index"`
	// Holdings is the number of holdings loaded from the store.
	Holdings int `json:"holdings"`
}

// Empty reports whether the store held no holdings at all.
func (s Summary) Empty() bool { return s.Holdings == 0 }
