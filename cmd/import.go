package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/etnz/dca"
	"github.com/etnz/dca/importer"
	"github.com/google/subcommands"
)

// importCmd holds the flags for the 'import' subcommand.
type importCmd struct {
	ticker   string
	market   dca.Market
	currency string
	format   string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import price histories into the data folder" }
func (*importCmd) Usage() string {
	return `dca import [-t <ticker>] [-m <market>] [-c <currency>] [-format json|csv] <file>...

  Imports price and dividend histories into the data folder. Samples already
  present on the same days are replaced.

  JSON files are chart documents as served by Yahoo Finance, they carry their
  ticker and currency. CSV files need a Date and a Close column, and
  optionally a Dividends column: the ticker is then required.

  The format is guessed from the file extension unless -format is set.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ticker, "t", "", "Ticker or symbol of the security, overrides the one in the file.")
	f.TextVar(&c.market, "m", cfg.Market, "Market of the symbol: tw, us or crypto.")
	f.StringVar(&c.currency, "c", "", "Currency of the prices, overrides the one in the file.")
	f.StringVar(&c.format, "format", "", "File format: json or csv.")
}

func (c *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one file is required")
		return subcommands.ExitUsageError
	}

	s := OpenStore()
	for _, filename := range f.Args() {
		hist, err := c.read(filename)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error importing %q: %v\n", filename, err)
			return subcommands.ExitFailure
		}
		if err := s.Put(hist); err != nil {
			fmt.Fprintf(os.Stderr, "Error storing %s: %v\n", hist.Ticker, err)
			return subcommands.ExitFailure
		}
		first, last := hist.Samples[0].On, hist.Samples[len(hist.Samples)-1].On
		fmt.Fprintf(stdout, "Imported %d samples of %s from %s to %s\n", len(hist.Samples), hist.Ticker, first, last)
	}
	return subcommands.ExitSuccess
}

// read imports filename, and applies the flags overrides.
func (c *importCmd) read(filename string) (*dca.History, error) {
	format := c.format
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	}

	r, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var hist *dca.History
	switch format {
	case "json":
		hist, err = importer.ImportJSON(r, importer.ChartPaths)
	case "csv":
		hist, err = importer.ImportCSV(r)
	default:
		return nil, fmt.Errorf("unknown format %q, use -format json or csv", format)
	}
	if err != nil {
		return nil, err
	}

	if c.ticker != "" {
		if hist.Ticker, err = c.market.Ticker(c.ticker); err != nil {
			return nil, err
		}
	}
	if hist.Ticker == "" {
		return nil, fmt.Errorf("the file has no ticker, use -t")
	}
	if c.currency != "" {
		hist.Currency = strings.ToUpper(c.currency)
	}
	return hist, nil
}
