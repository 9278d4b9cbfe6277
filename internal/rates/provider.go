// Package rates resolves the USD→KRW reporting rate.
package rates

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/dyike/FolioGo/internal/cache"
	"github.com/dyike/FolioGo/internal/dataflows"
	"github.com/dyike/FolioGo/internal/models"
)

// Provider returns the reporting rate, memoized for the cache TTL.
// Sources are tried in order; when all fail the fallback constant is used
// and nothing is cached, so the next call queries again.
type Provider struct {
	sources  []dataflows.RateSource
	cache    *cache.RateCache
	fallback decimal.Decimal
	now      func() time.Time
	log      zerolog.Logger
}

func NewProvider(rateCache *cache.RateCache, fallback decimal.Decimal, log zerolog.Logger, sources ...dataflows.RateSource) *Provider {
	return &Provider{
		sources:  sources,
		cache:    rateCache,
		fallback: fallback,
		now:      time.Now,
		log:      log.With().Str("component", "rates").Logger(),
	}
}

// Rate never fails; errors only change which value is returned.
func (p *Provider) Rate(ctx context.Context) models.RateQuote {
	if v, at, ok := p.cache.Get(); ok {
		return models.RateQuote{Value: v, FetchedAt: at}
	}

	for _, src := range p.sources {
		rate, err := src.FetchRate(ctx)
		if err == nil && rate.IsPositive() {
			at := p.cache.Set(rate)
			p.log.Debug().
				Str("source", src.Name()).
				Str("rate", rate.String()).
				Msg("Fetched reporting rate")
			return models.RateQuote{Value: rate, FetchedAt: at}
		}
		p.log.Warn().Err(err).Str("source", src.Name()).Msg("Rate fetch failed")
	}

	p.log.Warn().
		Str("rate", p.fallback.String()).
		Msg("Using hardcoded fallback rate")
	return models.RateQuote{Value: p.fallback, Fallback: true, FetchedAt: p.now()}
}

// ReportingRate is Rate without the metadata.
func (p *Provider) ReportingRate(ctx context.Context) decimal.Decimal {
	return p.Rate(ctx).Value
}
