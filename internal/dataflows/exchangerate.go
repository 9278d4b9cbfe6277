package dataflows

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// ExchangeRateAPIClient reads USD→KRW from exchangerate-api.com
type ExchangeRateAPIClient struct {
	client *resty.Client
	log    zerolog.Logger
}

type exchangeRateResponse struct {
	Base  string                     `json:"base"`
	Rates map[string]decimal.Decimal `json:"rates"`
}

// NewExchangeRateAPIClient creates a client against baseURL (…/v4/latest)
func NewExchangeRateAPIClient(baseURL string, timeout time.Duration, log zerolog.Logger) *ExchangeRateAPIClient {
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(timeout)

	return &ExchangeRateAPIClient{
		client: client,
		log:    log.With().Str("client", "exchangerate-api").Logger(),
	}
}

func (c *ExchangeRateAPIClient) Name() string { return "exchangerate-api" }

// FetchRate gets the latest USD→KRW rate
func (c *ExchangeRateAPIClient) FetchRate(ctx context.Context) (decimal.Decimal, error) {
	var result exchangeRateResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(&result).
		Get("/USD")
	if err != nil {
		return decimal.Zero, fmt.Errorf("exchangerate-api request failed: %w", err)
	}
	if resp.IsError() {
		return decimal.Zero, fmt.Errorf("exchangerate-api returned status %d", resp.StatusCode())
	}

	rate, ok := result.Rates["KRW"]
	if !ok || !rate.IsPositive() {
		return decimal.Zero, fmt.Errorf("exchangerate-api: KRW: %w", ErrNoData)
	}

	c.log.Debug().Str("rate", rate.String()).Msg("Fetched USD/KRW")
	return rate, nil
}
