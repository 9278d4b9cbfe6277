package cli

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/dyike/FolioGo/config"
	"github.com/dyike/FolioGo/internal/cache"
	"github.com/dyike/FolioGo/internal/dataflows"
	"github.com/dyike/FolioGo/internal/display"
	"github.com/dyike/FolioGo/internal/logger"
	"github.com/dyike/FolioGo/internal/portfolio"
	"github.com/dyike/FolioGo/internal/rates"
	"github.com/dyike/FolioGo/internal/server"
	"github.com/dyike/FolioGo/internal/storage"
	"github.com/dyike/FolioGo/internal/storage/sqlite"
)

// env carries what the commands need from the outside world. Tests replace
// the market sources and the prompter.
type env struct {
	cfg         *config.Config
	out         io.Writer
	logOut      io.Writer
	prompter    Prompter
	prices      dataflows.PriceSource
	rateSources []dataflows.RateSource
}

// app is the wired pipeline for one command invocation.
type app struct {
	cfg       *config.Config
	log       zerolog.Logger
	store     *storage.CSVStore
	history   *sqlite.Store
	dashboard *portfolio.Dashboard
	render    *display.Renderer
}

func newApp(e *env) (*app, error) {
	cfg := e.cfg
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.LogPretty,
		Output: e.logOut,
	})

	yahoo := dataflows.NewYahooFinanceClient(cfg, log)

	prices := e.prices
	if prices == nil {
		prices = yahoo
	}

	sources := e.rateSources
	if sources == nil {
		sources = []dataflows.RateSource{yahoo}
		if cfg.ExchangeRateAPIEnabled {
			sources = append(sources, dataflows.NewExchangeRateAPIClient(cfg.ExchangeRateAPIURL, cfg.HTTPTimeout, log))
		}
	}

	provider := rates.NewProvider(cache.NewRateCache(cfg.RateTTL, nil), cfg.RateFallback, log, sources...)
	store := storage.NewCSVStore(cfg.PortfolioFile, log)

	a := &app{
		cfg:    cfg,
		log:    log,
		store:  store,
		render: display.NewRenderer(e.out),
	}

	var opts []portfolio.Option
	if cfg.HistoryEnabled {
		history, err := sqlite.Open(cfg.HistoryDB)
		if err != nil {
			log.Warn().Err(err).Str("path", cfg.HistoryDB).Msg("Snapshot history unavailable")
		} else {
			a.history = history
			opts = append(opts, portfolio.WithRecorder(history))
		}
	}

	a.dashboard = portfolio.NewDashboard(store, provider, portfolio.NewEvaluator(prices, log), log, opts...)
	return a, nil
}

// historyAPI returns nil, not a typed nil, when history is off.
func (a *app) historyAPI() server.History {
	if a.history == nil {
		return nil
	}
	return a.history
}

func (a *app) Close() error {
	return a.history.Close()
}
