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
)

// compareCmd holds the flags for the 'compare' subcommand.
type compareCmd struct {
	ticker1, ticker2 string
	market1, market2 dca.Market
	from, to         string
	json             bool
}

func (*compareCmd) Name() string     { return "compare" }
func (*compareCmd) Synopsis() string { return "compare the daily trends of two securities" }
func (*compareCmd) Usage() string {
	return `dca compare -t1 <ticker> [-m1 <market>] -t2 <ticker> [-m2 <market>] -from <date> [-to <date>] [-json]

  Aligns the daily closes of two securities on the days both are quoted,
  and reports their change since the first common day and the correlation
  of their closes.
`
}

func (c *compareCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ticker1, "t1", "", "Ticker or symbol of the first security.")
	f.TextVar(&c.market1, "m1", cfg.Market, "Market of the first symbol: tw, us or crypto.")
	f.StringVar(&c.ticker2, "t2", "", "Ticker or symbol of the second security.")
	f.TextVar(&c.market2, "m2", cfg.Market, "Market of the second symbol: tw, us or crypto.")
	f.StringVar(&c.from, "from", "", "First day of the comparison.")
	f.StringVar(&c.to, "to", "", "Day after the end of the comparison. Defaults to tomorrow.")
	f.BoolVar(&c.json, "json", false, "Print the comparison as JSON.")
}

func (c *compareCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ticker1, err := c.market1.Ticker(c.ticker1)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error with the first security: %v\n", err)
		return subcommands.ExitUsageError
	}
	ticker2, err := c.market2.Ticker(c.ticker2)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error with the second security: %v\n", err)
		return subcommands.ExitUsageError
	}
	rng, err := parseRange(c.from, c.to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	s := OpenStore()
	var points [2][]dca.Point
	for i, ticker := range []string{ticker1, ticker2} {
		hist, err := s.History(ctx, ticker, rng, date.Daily)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading %s prices: %v\n", ticker, err)
			return subcommands.ExitFailure
		}
		points[i] = dca.Points(hist.Samples)
	}

	cmp, err := dca.Align(points[0], points[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error comparing %s and %s: %v\n", ticker1, ticker2, err)
		return subcommands.ExitFailure
	}

	if c.json {
		if err := printJSON(struct {
			Data        []dca.AlignedRow `json:"data"`
			Correlation dca.Correlation  `json:"correlation"`
			Ticker1     string           `json:"ticker1"`
			Ticker2     string           `json:"ticker2"`
		}{cmp.Rows, cmp.Correlation, ticker1, ticker2}); err != nil {
			fmt.Fprintf(os.Stderr, "Error printing comparison: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}
	printMarkdown(renderer.RenderComparison(cmp, ticker1, ticker2))
	return subcommands.ExitSuccess
}
