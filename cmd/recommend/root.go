package main

import (
	"fmt"
	"os"

	"github.com/Alias1177/ForexAdvisor/internal/catalog"
	"github.com/Alias1177/ForexAdvisor/internal/recommend"
	"github.com/Alias1177/ForexAdvisor/internal/report"
	"github.com/Alias1177/ForexAdvisor/models"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

type options struct {
	style       string
	count       int
	account     string
	risk        string
	catalogPath string
	logLevel    string
}

func newRootCmd() *cobra.Command {
	opts := options{}

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Print sized forex trade recommendations",
		Long: `Recommend prints the same trade reports the Telegram bot sends,
sized for the given account and risk per trade.

  recommend --style swing --count 4 --account 10000 --risk 100`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.style, "style", "day", "Trade style: day or swing")
	cmd.Flags().IntVar(&opts.count, "count", 3, "Number of recommendations")
	cmd.Flags().StringVar(&opts.account, "account", "5000", "Account size in USD")
	cmd.Flags().StringVar(&opts.risk, "risk", "60", "Risk per trade in USD")
	cmd.Flags().StringVar(&opts.catalogPath, "catalog", "", "Candidate catalog YAML (default: embedded catalog)")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "warn", "Log level")

	return cmd
}

func run(cmd *cobra.Command, opts options) error {
	lvl, err := zerolog.ParseLevel(opts.logLevel)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(lvl).With().Timestamp().Logger()

	style, err := models.ParseStyle(opts.style)
	if err != nil {
		return err
	}
	account, err := decimal.NewFromString(opts.account)
	if err != nil {
		return &models.InvalidRequestError{Field: "account_size", Reason: fmt.Sprintf("%q is not a number", opts.account)}
	}
	risk, err := decimal.NewFromString(opts.risk)
	if err != nil {
		return &models.InvalidRequestError{Field: "risk_per_trade", Reason: fmt.Sprintf("%q is not a number", opts.risk)}
	}

	source := catalog.Default()
	if opts.catalogPath != "" {
		if source, err = catalog.Load(opts.catalogPath); err != nil {
			return err
		}
	}

	engine := recommend.NewEngine(source, recommend.WithLogger(logger))
	reports, err := engine.Reports(style, opts.count, account, risk)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, r := range reports {
		fmt.Fprintln(out, r)
	}
	fmt.Fprintln(out, report.Summary(style, len(reports), risk))
	return nil
}
