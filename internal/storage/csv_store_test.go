package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyike/FolioGo/internal/models"
)

func newTestStore(t *testing.T) *CSVStore {
	t.Helper()
	return NewCSVStore(filepath.Join(t.TempDir(), "data", "portfolio_v2.csv"), zerolog.Nop())
}

func holding(ticker string, cost, qty int64, cur models.Currency, target int64) models.Holding {
	return models.Holding{
		Ticker:              ticker,
		CostBasis:           decimal.NewFromInt(cost),
		Quantity:            decimal.NewFromInt(qty),
		Currency:            cur,
		TargetReturnPercent: decimal.NewFromInt(target),
	}
}

func assertHoldingsEqual(t *testing.T, want, got []models.Holding) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].Ticker, got[i].Ticker)
		assert.Equal(t, want[i].Currency, got[i].Currency)
		assert.True(t, want[i].CostBasis.Equal(got[i].CostBasis), "cost basis row %d", i)
		assert.True(t, want[i].Quantity.Equal(got[i].Quantity), "quantity row %d", i)
		assert.True(t, want[i].TargetReturnPercent.Equal(got[i].TargetReturnPercent), "target row %d", i)
	}
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	s := newTestStore(t)
	holdings := s.Load(context.Background())
	assert.NotNil(t, holdings)
	assert.Empty(t, holdings)
}

func TestAppendThenLoadPreservesOrderAndValues(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	first := holding("AAPL", 100, 10, models.USD, 10)
	second := models.Holding{
		Ticker:              "005930.KS",
		CostBasis:           decimal.RequireFromString("70000.5"),
		Quantity:            decimal.RequireFromString("0.25"),
		Currency:            models.KRW,
		TargetReturnPercent: decimal.RequireFromString("5.5"),
	}

	require.NoError(t, s.Append(ctx, first))
	before := s.Load(ctx)
	require.NoError(t, s.Append(ctx, second))

	after := s.Load(ctx)
	assertHoldingsEqual(t, append(before, second), after)
}

func TestAppendTrimsTicker(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.Append(ctx, holding("  TSLA ", 200, 1, models.USD, 10)))
	assert.Equal(t, "TSLA", s.Load(ctx)[0].Ticker)
}

func TestAppendRejectsInvalidHolding(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	err := s.Append(ctx, holding("   ", 100, 1, models.USD, 10))
	assert.ErrorIs(t, err, models.ErrInvalidHolding)

	_, statErr := os.Stat(s.Path())
	assert.True(t, os.IsNotExist(statErr), "nothing should be written")
}

func TestResetThenLoadIsEmpty(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.Append(ctx, holding("AAPL", 100, 10, models.USD, 10)))

	require.NoError(t, s.Reset(ctx))
	assert.Empty(t, s.Load(ctx))

	// resetting an absent file is fine
	require.NoError(t, s.Reset(ctx))
}

func TestFileFormat(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.Append(ctx, holding("AAPL", 100, 10, models.USD, 10)))

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, "ticker,cost_basis,quantity,currency,target_return_percent\nAAPL,100,10,USD,10\n", string(data))
}

func TestLoadCorruptFileIsEmpty(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.Path()), 0o755))

	cases := map[string]string{
		"bad number":   "ticker,cost_basis,quantity,currency,target_return_percent\nAAPL,abc,10,USD,10\n",
		"bad currency": "ticker,cost_basis,quantity,currency,target_return_percent\nAAPL,100,10,EUR,10\n",
		"short row":    "ticker,cost_basis,quantity,currency,target_return_percent\nAAPL,100\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, os.WriteFile(s.Path(), []byte(content), 0o644))
			assert.Empty(t, s.Load(ctx))
		})
	}
}

func TestAppendOverCorruptFileStartsFresh(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.Path()), 0o755))
	require.NoError(t, os.WriteFile(s.Path(), []byte("garbage,\"unterminated\n"), 0o644))

	h := holding("AAPL", 100, 10, models.USD, 10)
	require.NoError(t, s.Append(ctx, h))
	assertHoldingsEqual(t, []models.Holding{h}, s.Load(ctx))
}

func TestAppendWriteFailurePropagates(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	// parent "directory" is a regular file, so the write cannot succeed
	s := NewCSVStore(filepath.Join(blocker, "portfolio.csv"), zerolog.Nop())
	err := s.Append(context.Background(), holding("AAPL", 100, 10, models.USD, 10))
	assert.Error(t, err)
}
