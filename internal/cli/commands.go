package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dyike/FolioGo/config"
	"github.com/dyike/FolioGo/internal/scheduler"
	"github.com/dyike/FolioGo/internal/server"
)

// Version is set at build time.
var Version = "dev"

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(&env{
		cfg:      config.DefaultConfig(),
		out:      os.Stdout,
		logOut:   os.Stderr,
		prompter: surveyPrompter{},
	})
}

func newRootCmd(e *env) *cobra.Command {
	cfg := e.cfg
	var (
		dataFile string
		debug    bool
	)

	rootCmd := &cobra.Command{
		Use:   "foliogo",
		Short: "FolioGo - personal investment dashboard",
		Long: `FolioGo tracks your holdings in a CSV file, prices them with Yahoo Finance
and reports returns and allocation in KRW.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if dataFile != "" {
				cfg.PortfolioFile = dataFile
			}
			if debug {
				cfg.Debug = true
				cfg.LogLevel = "debug"
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("failed to create directories: %w", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default behavior: show the dashboard
			return withApp(e, func(a *app) error { return runShow(cmd.Context(), a) })
		},
	}

	rootCmd.AddCommand(newShowCmd(e))
	rootCmd.AddCommand(newAddCmd(e))
	rootCmd.AddCommand(newResetCmd(e))
	rootCmd.AddCommand(newWatchCmd(e))
	rootCmd.AddCommand(newServeCmd(e))
	rootCmd.AddCommand(newHistoryCmd(e))
	rootCmd.AddCommand(newRateCmd(e))
	rootCmd.AddCommand(newConfigCmd(e))
	rootCmd.AddCommand(newVersionCmd(e))

	// Global flags
	rootCmd.PersistentFlags().StringVar(&dataFile, "data-file", "", "Portfolio CSV file (overrides FOLIOGO_PORTFOLIO_FILE)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	return rootCmd
}

func withApp(e *env, fn func(a *app) error) error {
	a, err := newApp(e)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

func runShow(ctx context.Context, a *app) error {
	summary, err := a.dashboard.Run(ctx)
	if err != nil {
		return err
	}
	a.render.Dashboard(summary)
	return nil
}

func newShowCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Price every holding and render the dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(e, func(a *app) error { return runShow(cmd.Context(), a) })
		},
	}
}

func newAddCmd(e *env) *cobra.Command {
	var in holdingInput

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a holding",
		Long: `Add a holding to the portfolio file. Any field not given as a flag is asked for
interactively.
Example: foliogo add --ticker AAPL --currency USD --price 100 --qty 10 --target 10`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !in.complete() {
				answers, err := e.prompter.AskHolding(in)
				if err != nil {
					return err
				}
				in = answers
			}
			h, err := in.holding()
			if err != nil {
				return err
			}

			return withApp(e, func(a *app) error {
				if err := a.dashboard.AddHolding(cmd.Context(), h); err != nil {
					return fmt.Errorf("failed to save holding: %w", err)
				}
				fmt.Fprintf(e.out, "✅ Added %s (%s)\n\n", h.Ticker, h.Currency)
				return runShow(cmd.Context(), a)
			})
		},
	}

	cmd.Flags().StringVar(&in.Ticker, "ticker", "", "Ticker symbol, e.g. AAPL or 005930.KS")
	cmd.Flags().StringVar(&in.Currency, "currency", "", "Currency of the ticker (KRW or USD)")
	cmd.Flags().StringVar(&in.Price, "price", "", "Average purchase price")
	cmd.Flags().StringVar(&in.Quantity, "qty", "", "Quantity held")
	cmd.Flags().StringVar(&in.Target, "target", "", "Target return percent (default 10)")

	return cmd
}

func newResetCmd(e *env) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every holding",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				ok, err := e.prompter.Confirm("Delete every holding from " + e.cfg.PortfolioFile + "?")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(e.out, "Reset cancelled.")
					return nil
				}
			}

			return withApp(e, func(a *app) error {
				if err := a.dashboard.Reset(cmd.Context()); err != nil {
					return fmt.Errorf("failed to reset portfolio: %w", err)
				}
				fmt.Fprintln(e.out, "🗑️  Portfolio reset")
				return runShow(cmd.Context(), a)
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func newWatchCmd(e *env) *cobra.Command {
	var clearBetween bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Render the dashboard and refresh it periodically and on file changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(e, func(a *app) error {
				refresh := func(ctx context.Context) error {
					summary, err := a.dashboard.Run(ctx)
					if err != nil {
						return err
					}
					if clearBetween {
						clearScreen(e.out)
					}
					a.render.Dashboard(summary)
					return nil
				}

				r := scheduler.New(a.cfg.RefreshSchedule, a.store.Path(), refresh, a.log)
				r.Trigger(cmd.Context(), "startup")
				return r.Run(cmd.Context())
			})
		},
	}

	cmd.Flags().BoolVar(&clearBetween, "clear", true, "Clear the screen before each refresh")
	return cmd
}

func newServeCmd(e *env) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard as a JSON HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				e.cfg.ServerAddr = addr
			}
			return withApp(e, func(a *app) error {
				srv := server.New(server.Config{
					Addr:      a.cfg.ServerAddr,
					Log:       a.log,
					Dashboard: a.dashboard,
					History:   a.historyAPI(),
					DevMode:   a.cfg.Debug,
				})
				return srv.ListenAndServe(cmd.Context())
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides FOLIOGO_SERVER_ADDR)")
	return cmd
}

func newHistoryCmd(e *env) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded dashboard snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(e, func(a *app) error {
				if a.history == nil {
					fmt.Fprintln(e.out, "Snapshot history is disabled (FOLIOGO_HISTORY_ENABLED=false).")
					return nil
				}
				snapshots, err := a.history.List(cmd.Context(), limit)
				if err != nil {
					return err
				}
				a.render.History(snapshots)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of snapshots to list (0 for all)")
	return cmd
}

func newRateCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "rate",
		Short: "Print the current USD→KRW rate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(e, func(a *app) error {
				a.render.Rate(a.dashboard.Rate(cmd.Context()))
				return nil
			})
		},
	}
}

func newVersionCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(e.out, "FolioGo %s\n", Version)
			fmt.Fprintln(e.out, "Personal investment dashboard")
		},
	}
}

func newConfigCmd(e *env) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Run: func(cmd *cobra.Command, args []string) {
			showConfig(e.out, e.cfg)
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return validateConfig(e.out, e.cfg)
		},
	})

	return configCmd
}

func showConfig(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "📋 Current FolioGo Configuration:")
	fmt.Fprintln(w, "═══════════════════════════════════════")
	fmt.Fprintf(w, "Project Directory:    %s\n", cfg.ProjectDir)
	fmt.Fprintf(w, "Data Directory:       %s\n", cfg.DataDir)
	fmt.Fprintf(w, "Portfolio File:       %s\n", cfg.PortfolioFile)
	fmt.Fprintf(w, "History Database:     %s\n", cfg.HistoryDB)
	fmt.Fprintf(w, "History Enabled:      %t\n", cfg.HistoryEnabled)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Rate Symbol:          %s\n", cfg.RateSymbol)
	fmt.Fprintf(w, "Rate Fallback:        %s\n", cfg.RateFallback)
	fmt.Fprintf(w, "Rate Cache TTL:       %s\n", cfg.RateTTL)
	fmt.Fprintf(w, "Rate Window:          %s (%s bars)\n", cfg.RateWindow, cfg.RateInterval)
	fmt.Fprintf(w, "Price Window:         %s (%s bars)\n", cfg.PriceWindow, cfg.PriceInterval)
	if cfg.ExchangeRateAPIEnabled {
		fmt.Fprintf(w, "Secondary Rate API:   ✅ %s\n", cfg.ExchangeRateAPIURL)
	} else {
		fmt.Fprintln(w, "Secondary Rate API:   ❌ Disabled")
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "HTTP Timeout:         %s\n", cfg.HTTPTimeout)
	fmt.Fprintf(w, "Refresh Schedule:     %s\n", cfg.RefreshSchedule)
	fmt.Fprintf(w, "Server Address:       %s\n", cfg.ServerAddr)
	fmt.Fprintf(w, "Log Level:            %s\n", cfg.LogLevel)
	fmt.Fprintf(w, "Debug Mode:           %t\n", cfg.Debug)
}

func validateConfig(w io.Writer, cfg *config.Config) error {
	fmt.Fprintln(w, "🔍 Validating FolioGo Configuration...")
	fmt.Fprintln(w, "═══════════════════════════════════════")

	fmt.Fprint(w, "📁 Checking directories... ")
	if err := cfg.EnsureDirectories(); err != nil {
		fmt.Fprintln(w, "❌")
		return fmt.Errorf("directory validation failed: %w", err)
	}
	fmt.Fprintln(w, "✅")

	fmt.Fprint(w, "⚙️  Checking configuration values... ")
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(w, "❌")
		return err
	}
	fmt.Fprintln(w, "✅")

	fmt.Fprintln(w)
	fmt.Fprintln(w, "✅ Configuration validation completed successfully!")
	return nil
}

// clearScreen clears the terminal screen
func clearScreen(w io.Writer) {
	fmt.Fprint(w, "\033[2J\033[H")
}
