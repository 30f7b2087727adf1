package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
)

type tickersCmd struct{}

func (*tickersCmd) Name() string     { return "tickers" }
func (*tickersCmd) Synopsis() string { return "list the securities in the data folder" }
func (*tickersCmd) Usage() string {
	return `dca tickers

  Lists the securities that have a price history in the data folder.
`
}

func (c *tickersCmd) SetFlags(f *flag.FlagSet) {}

func (c *tickersCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	securities, err := OpenStore().Securities()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading securities: %v\n", err)
		return subcommands.ExitFailure
	}
	if len(securities) == 0 {
		fmt.Fprintf(os.Stderr, "No security in %q, see 'dca import'.\n", cfg.Data)
		return subcommands.ExitSuccess
	}

	var b strings.Builder
	b.WriteString("| Ticker | Currency |\n|:---|:---|\n")
	for _, sec := range securities {
		fmt.Fprintf(&b, "| %s | %s |\n", sec.Ticker, sec.Currency)
	}
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}
