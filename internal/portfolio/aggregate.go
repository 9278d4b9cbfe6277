package portfolio

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dyike/FolioGo/internal/models"
)

// Aggregate totals the evaluated rows and builds the allocation breakdown.
// Rows keep their input order; the total is the exact sum of valuations.
func Aggregate(rate models.RateQuote, rows []models.EvaluatedHolding, alerts []models.Alert, skipped []models.SkippedHolding) models.Summary {
	summary := models.Summary{
		GeneratedAt: time.Now(),
		Rate:        rate,
		Total:       decimal.Zero,
		Rows:        nonNil(rows),
		Alerts:      nonNil(alerts),
		Skipped:     nonNil(skipped),
		TopIndex:    -1,
	}

	for i, row := range summary.Rows {
		summary.Total = summary.Total.Add(row.Valuation)
		if summary.TopIndex < 0 || row.ReturnPercent.GreaterThan(summary.Rows[summary.TopIndex].ReturnPercent) {
			summary.TopIndex = i
		}
	}
	summary.Allocation = allocate(summary.Rows, summary.Total)
	return summary
}

// allocate groups valuations by currency, then ticker, both in first-seen order.
func allocate(rows []models.EvaluatedHolding, total decimal.Decimal) []models.AllocationSlice {
	type key struct {
		currency models.Currency
		ticker   string
	}

	var currencies []models.Currency
	tickers := make(map[models.Currency][]string)
	values := make(map[key]decimal.Decimal)

	for _, row := range rows {
		k := key{row.Currency, row.Ticker}
		if _, ok := tickers[row.Currency]; !ok {
			currencies = append(currencies, row.Currency)
		}
		if _, ok := values[k]; !ok {
			tickers[row.Currency] = append(tickers[row.Currency], row.Ticker)
			values[k] = decimal.Zero
		}
		values[k] = values[k].Add(row.Valuation)
	}

	slices := make([]models.AllocationSlice, 0, len(values))
	for _, c := range currencies {
		for _, t := range tickers[c] {
			v := values[key{c, t}]
			share := decimal.Zero
			if !total.IsZero() {
				share = v.Div(total)
			}
			slices = append(slices, models.AllocationSlice{Currency: c, Ticker: t, Value: v, Share: share})
		}
	}
	return slices
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
