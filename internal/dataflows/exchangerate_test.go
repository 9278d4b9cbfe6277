package dataflows

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExchangeRateAPIFetchRate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v4/latest/USD", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"base":"USD","rates":{"EUR":0.92,"KRW":1301.5}}`))
	}))
	defer srv.Close()

	c := NewExchangeRateAPIClient(srv.URL+"/v4/latest", time.Second, zerolog.Nop())
	rate, err := c.FetchRate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1301.5", rate.String())
	assert.Equal(t, "exchangerate-api", c.Name())
}

func TestExchangeRateAPIMissingKRW(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"base":"USD","rates":{"EUR":0.92}}`))
	}))
	defer srv.Close()

	c := NewExchangeRateAPIClient(srv.URL, time.Second, zerolog.Nop())
	_, err := c.FetchRate(context.Background())
	assert.ErrorIs(t, err, ErrNoData)
}

func TestExchangeRateAPIErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewExchangeRateAPIClient(srv.URL, time.Second, zerolog.Nop())
	_, err := c.FetchRate(context.Background())
	assert.Error(t, err)
}
