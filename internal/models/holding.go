package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidHolding is returned when a submitted holding fails validation.
var ErrInvalidHolding = errors.New("invalid holding")

// Currency is the denomination of a holding. Only USD and KRW are tracked.
type Currency string

const (
	USD Currency = "USD"
	KRW Currency = "KRW"
)

// ReportingCurrency is the currency every valuation is normalized into.
const ReportingCurrency = KRW

// Currencies lists the accepted currencies in the order the add form offers them.
var Currencies = []Currency{KRW, USD}

// ParseCurrency accepts the literal codes "USD" and "KRW".
func ParseCurrency(s string) (Currency, error) {
	switch Currency(strings.ToUpper(strings.TrimSpace(s))) {
	case USD:
		return USD, nil
	case KRW:
		return KRW, nil
	}
	return "", fmt.Errorf("%w: unknown currency %q", ErrInvalidHolding, s)
}

// Unit returns the suffix used when displaying a price in this currency.
func (c Currency) Unit() string {
	if c == USD {
		return "$"
	}
	return "원"
}

// DefaultTargetReturnPercent is used when a submission leaves the target empty.
var DefaultTargetReturnPercent = decimal.NewFromInt(10)

// Holding is one tracked position as persisted in the portfolio file.
type Holding struct {
	Ticker              string          `json:"ticker"`
	CostBasis           decimal.Decimal `json:"cost_basis"`
	Quantity            decimal.Decimal `json:"quantity"`
	Currency            Currency        `json:"currency"`
	TargetReturnPercent decimal.Decimal `json:"target_return_percent"`
}

// Validate checks the holding before it is persisted.
func (h Holding) Validate() error {
	if strings.TrimSpace(h.Ticker) == "" {
		return fmt.Errorf("%w: ticker is required", ErrInvalidHolding)
	}
	if _, err := ParseCurrency(string(h.Currency)); err != nil {
		return err
	}
	if h.CostBasis.IsNegative() {
		return fmt.Errorf("%w: cost basis must not be negative", ErrInvalidHolding)
	}
	if h.Quantity.IsNegative() {
		return fmt.Errorf("%w: quantity must not be negative", ErrInvalidHolding)
	}
	if h.TargetReturnPercent.IsNegative() {
		return fmt.Errorf("%w: target return must not be negative", ErrInvalidHolding)
	}
	return nil
}

// Normalized returns a copy with the ticker trimmed and the currency canonicalized.
func (h Holding) Normalized() Holding {
	h.Ticker = strings.TrimSpace(h.Ticker)
	if c, err := ParseCurrency(string(h.Currency)); err == nil {
		h.Currency = c
	}
	return h
}
