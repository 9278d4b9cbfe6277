package portfolio

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/dyike/FolioGo/internal/models"
)

// HoldingStore is the persistence the dashboard reads from and writes to.
type HoldingStore interface {
	Load(ctx context.Context) []models.Holding
	Append(ctx context.Context, h models.Holding) error
	Reset(ctx context.Context) error
}

// RateProvider supplies the reporting rate for a run.
type RateProvider interface {
	Rate(ctx context.Context) models.RateQuote
}

// Recorder persists a run's totals.
type Recorder interface {
	Record(ctx context.Context, summary models.Summary) (models.Snapshot, error)
}

// Dashboard runs the full load → rate → evaluate → aggregate pipeline.
// Nothing is carried between runs except what the rate provider caches.
type Dashboard struct {
	store     HoldingStore
	rates     RateProvider
	evaluator *Evaluator
	recorder  Recorder
	now       func() time.Time
	log       zerolog.Logger
}

type Option func(*Dashboard)

// WithRecorder records a snapshot after every successful run.
func WithRecorder(r Recorder) Option {
	return func(d *Dashboard) { d.recorder = r }
}

// WithClock overrides the clock used for Summary.GeneratedAt.
func WithClock(now func() time.Time) Option {
	return func(d *Dashboard) { d.now = now }
}

func NewDashboard(store HoldingStore, rates RateProvider, evaluator *Evaluator, log zerolog.Logger, opts ...Option) *Dashboard {
	d := &Dashboard{
		store:     store,
		rates:     rates,
		evaluator: evaluator,
		now:       time.Now,
		log:       log.With().Str("component", "dashboard").Logger(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run recomputes the summary from scratch. Market and store read failures
// only shrink the result; the only error is context cancellation.
func (d *Dashboard) Run(ctx context.Context) (models.Summary, error) {
	holdings := d.store.Load(ctx)
	if err := ctx.Err(); err != nil {
		return models.Summary{}, err
	}

	rate := d.rates.Rate(ctx)

	rows := make([]models.EvaluatedHolding, 0, len(holdings))
	var (
		alerts  []models.Alert
		skipped []models.SkippedHolding
	)
	for _, h := range holdings {
		if err := ctx.Err(); err != nil {
			return models.Summary{}, err
		}
		row, alert, skip := d.evaluator.Evaluate(ctx, h, rate.Value)
		// A lookup aborted by cancellation is not a missing price.
		if err := ctx.Err(); err != nil {
			return models.Summary{}, err
		}
		if skip != nil {
			skipped = append(skipped, *skip)
			continue
		}
		rows = append(rows, row)
		if alert != nil {
			alerts = append(alerts, *alert)
		}
	}

	summary := Aggregate(rate, rows, alerts, skipped)
	summary.GeneratedAt = d.now()
	summary.Holdings = len(holdings)

	d.log.Info().
		Int("holdings", summary.Holdings).
		Int("evaluated", len(summary.Rows)).
		Int("skipped", len(summary.Skipped)).
		Int("alerts", len(summary.Alerts)).
		Str("total_krw", summary.Total.String()).
		Bool("rate_fallback", rate.Fallback).
		Msg("Dashboard refreshed")

	if d.recorder != nil {
		if _, err := d.recorder.Record(ctx, summary); err != nil {
			d.log.Error().Err(err).Msg("Failed to record snapshot")
		}
	}
	return summary, nil
}

// Rate exposes the reporting rate without running the pipeline.
func (d *Dashboard) Rate(ctx context.Context) models.RateQuote {
	return d.rates.Rate(ctx)
}

// AddHolding persists a new holding.
func (d *Dashboard) AddHolding(ctx context.Context, h models.Holding) error {
	if err := d.store.Append(ctx, h); err != nil {
		return err
	}
	d.log.Info().Str("ticker", h.Ticker).Str("currency", string(h.Currency)).Msg("Holding added")
	return nil
}

// Reset removes every holding.
func (d *Dashboard) Reset(ctx context.Context) error {
	if err := d.store.Reset(ctx); err != nil {
		return err
	}
	d.log.Info().Msg("Portfolio reset")
	return nil
}
