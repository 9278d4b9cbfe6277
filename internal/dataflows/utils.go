package dataflows

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dyike/FolioGo/internal/models"
)

// NormalizeSymbol trims surrounding whitespace. Case is kept as entered since
// exchange suffixes such as ".KS" are matched verbatim by Yahoo.
func NormalizeSymbol(symbol string) string {
	return strings.TrimSpace(symbol)
}

// ValidateSymbol checks if a ticker is usable for a lookup
func ValidateSymbol(symbol string) error {
	symbol = NormalizeSymbol(symbol)
	if len(symbol) == 0 {
		return fmt.Errorf("symbol cannot be empty")
	}
	if len(symbol) > 20 {
		return fmt.Errorf("symbol too long: %s", symbol)
	}
	return nil
}

// lastClose returns the most recent positive close in bars.
func lastClose(bars []models.Bar) (decimal.Decimal, error) {
	for i := len(bars) - 1; i >= 0; i-- {
		if bars[i].Close.IsPositive() {
			return bars[i].Close, nil
		}
	}
	return decimal.Zero, ErrNoData
}
