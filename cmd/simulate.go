package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/dca"
	"github.com/etnz/dca/date"
	"github.com/etnz/dca/renderer"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

// simulateCmd holds the flags for the 'simulate' subcommand.
type simulateCmd struct {
	ticker string
	market dca.Market
	amount string
	from   string
	to     string
	period string
	json   bool
}

func (*simulateCmd) Name() string     { return "simulate" }
func (*simulateCmd) Synopsis() string { return "simulate periodic and lump sum investments in a security" }
func (*simulateCmd) Usage() string {
	return `dca simulate -t <ticker> [-m <market>] [-a <amount>] -from <date> [-to <date>] [-p <period>] [-json]

  Invests <amount> at the start of every period between -from (included) and
  -to (excluded), and compares three policies:

  - periodic investment, dividends kept as cash.
  - periodic investment, dividends reinvested.
  - the same total invested at once on the first period, dividends reinvested.

  Prices are read from the data folder, see 'dca import'.
`
}

func (c *simulateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ticker, "t", "", "Ticker or symbol of the security, e.g. 2330, VOO or BTC.")
	f.TextVar(&c.market, "m", cfg.Market, "Market of the symbol: tw, us or crypto.")
	f.StringVar(&c.amount, "a", cfg.Amount, "Amount invested every period.")
	f.StringVar(&c.from, "from", "", "First day of the simulation.")
	f.StringVar(&c.to, "to", "", "Day after the end of the simulation. Defaults to tomorrow.")
	f.StringVar(&c.period, "p", "monthly", "Investment period: daily, weekly, monthly, quarterly or yearly.")
	f.BoolVar(&c.json, "json", false, "Print the simulation as JSON.")
}

func (c *simulateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ticker, err := c.market.Ticker(c.ticker)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	amount, err := decimal.NewFromString(c.amount)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing amount %q: %v\n", c.amount, err)
		return subcommands.ExitUsageError
	}
	period, err := date.ParsePeriod(c.period)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	rng, err := parseRange(c.from, c.to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	hist, err := OpenStore().History(ctx, ticker, rng, period)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading %s prices: %v\n", ticker, err)
		return subcommands.ExitFailure
	}

	sim, err := dca.Simulate(hist.Samples, dca.M(amount, hist.Currency))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error simulating %s: %v\n", ticker, err)
		return subcommands.ExitFailure
	}

	if c.json {
		if err := printJSON(struct {
			Portfolio []dca.LedgerRow `json:"portfolio"`
			Summary   dca.Summary     `json:"summary"`
			Ticker    string          `json:"ticker"`
		}{sim.Ledger, sim.Summary, ticker}); err != nil {
			fmt.Fprintf(os.Stderr, "Error printing simulation: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}
	printMarkdown(renderer.RenderSimulation(sim, ticker))
	return subcommands.ExitSuccess
}
