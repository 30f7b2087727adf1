// Package cmd implements the CLI application to simulate investment plans.
package cmd

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/dca/config"
	"github.com/etnz/dca/date"
	"github.com/etnz/dca/store"
	"github.com/google/subcommands"
)

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

// cfg is the application configuration, overridden by global flags.
var cfg = &config.Config{}

// stdout receives the command outputs.
var stdout io.Writer = os.Stdout

// Register the subcommands and the global flags on c.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander, f *flag.FlagSet, conf *config.Config) {
	cfg = conf
	f.StringVar(&cfg.Data, "data", cfg.Data, "Path to the price history folder. Defaults to $DCA_DATA.")

	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
	c.Register(c.CommandsCommand(), "")
	c.Register(&topicCmd{}, "")

	c.Register(&simulateCmd{}, "analysis")
	c.Register(&compareCmd{}, "analysis")

	c.Register(&importCmd{}, "data")
	c.Register(&tickersCmd{}, "data")

	c.Register(&serveCmd{}, "server")
}

// OpenStore opens the price history folder.
func OpenStore() *store.Store { return store.Open(cfg.Data) }

// parseRange parses the [from, to) command line range. An empty 'to' means tomorrow,
// so that today is included.
func parseRange(from, to string) (date.Range, error) {
	start, err := date.Parse(from)
	if err != nil {
		return date.Range{}, fmt.Errorf("invalid start date: %w", err)
	}
	end := date.Today().Add(1)
	if to != "" {
		if end, err = date.Parse(to); err != nil {
			return date.Range{}, fmt.Errorf("invalid end date: %w", err)
		}
	}
	return date.Between(start, end)
}

// printMarkdown renders md for the terminal, or prints it raw if it cannot be rendered.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(160))
	if err == nil {
		var out string
		if out, err = r.Render(md); err == nil {
			fmt.Fprint(stdout, out)
			return
		}
	}
	fmt.Fprint(stdout, md)
}

// printJSON prints v as indented JSON.
func printJSON(v any) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
