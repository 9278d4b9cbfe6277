// Package portfolio prices holdings and aggregates them into a dashboard summary.
package portfolio

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/dyike/FolioGo/internal/dataflows"
	"github.com/dyike/FolioGo/internal/models"
	"github.com/dyike/FolioGo/internal/money"
)

var hundred = decimal.NewFromInt(100)

// Evaluator prices a single holding against the market.
type Evaluator struct {
	prices dataflows.PriceSource
	log    zerolog.Logger
}

func NewEvaluator(prices dataflows.PriceSource, log zerolog.Logger) *Evaluator {
	return &Evaluator{
		prices: prices,
		log:    log.With().Str("component", "evaluator").Logger(),
	}
}

// Evaluate returns either a full row (plus an alert when the target is reached)
// or a skip record when no price is available. It never returns both.
func (e *Evaluator) Evaluate(ctx context.Context, h models.Holding, rate decimal.Decimal) (models.EvaluatedHolding, *models.Alert, *models.SkippedHolding) {
	ticker := strings.TrimSpace(h.Ticker)

	price, err := e.prices.LatestClose(ctx, ticker)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			e.log.Debug().Err(err).Str("ticker", ticker).Msg("Price lookup interrupted")
		} else {
			e.log.Warn().Err(err).Str("ticker", ticker).Msg("Skipping holding without price data")
		}
		return models.EvaluatedHolding{}, nil, &models.SkippedHolding{Ticker: ticker, Reason: err.Error()}
	}

	row := models.EvaluatedHolding{
		Ticker:        ticker,
		CurrentPrice:  price,
		PriceDisplay:  money.Price(price, h.Currency),
		ReturnPercent: ReturnPercent(price, h.CostBasis),
		Valuation:     Valuation(price, h.Quantity, h.Currency, rate),
		Currency:      h.Currency,
	}

	var alert *models.Alert
	if row.ReturnPercent.GreaterThanOrEqual(h.TargetReturnPercent) {
		alert = &models.Alert{
			Ticker:        ticker,
			TargetPercent: h.TargetReturnPercent,
			ReturnPercent: row.ReturnPercent,
		}
	}
	return row, alert, nil
}

// ReturnPercent is (price-cost)/cost*100, or zero when cost is not positive.
func ReturnPercent(price, cost decimal.Decimal) decimal.Decimal {
	if !cost.IsPositive() {
		return decimal.Zero
	}
	return price.Sub(cost).Mul(hundred).Div(cost)
}

// Valuation converts price*quantity into the reporting currency.
func Valuation(price, quantity decimal.Decimal, c models.Currency, rate decimal.Decimal) decimal.Decimal {
	value := price.Mul(quantity)
	if c != models.ReportingCurrency {
		return value.Mul(rate)
	}
	return value
}
