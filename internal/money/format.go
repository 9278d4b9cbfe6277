// Package money formats decimal amounts for display.
package money

import (
	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/dyike/FolioGo/internal/models"
)

// format renders v with fraction digits, thousands separators and an optional
// unit suffix ("1,234.50$", "70,000원").
func format(v decimal.Decimal, fraction int, unit string) string {
	minor := v.Shift(int32(fraction)).Round(0).IntPart()
	return gomoney.NewFormatter(fraction, ".", ",", unit, "1$").Format(minor)
}

// Price renders a market price with two decimals and the currency unit suffix.
func Price(v decimal.Decimal, c models.Currency) string {
	return format(v, 2, c.Unit())
}

// KRW renders a reporting-currency total rounded to whole won.
func KRW(v decimal.Decimal) string {
	return format(v, 0, models.ReportingCurrency.Unit())
}

// Amount renders v with thousands separators and no unit.
func Amount(v decimal.Decimal, fraction int) string {
	return format(v, fraction, "")
}

// Percent renders a return percentage with two decimals.
func Percent(v decimal.Decimal) string {
	return v.StringFixed(2) + "%"
}

// Rate renders the USD→KRW banner value, e.g. "1$ = 1,350.00원".
func Rate(rate decimal.Decimal) string {
	return "1$ = " + Price(rate, models.KRW)
}
