package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/etnz/dca/api"
	"github.com/google/subcommands"
)

type serveCmd struct {
	addr   string
	static string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the web application and its API" }
func (*serveCmd) Usage() string {
	return `dca serve [-addr <host:port>] [-static <dir>]

  Serves the simulation and comparison API, and the web application in the
  static folder, until interrupted.

    POST /api/calculate
    POST /api/compare_trends
    GET  /health
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", cfg.Server.Addr, "Address to listen on.")
	f.StringVar(&c.static, "static", cfg.Server.Static, "Folder of the web application, empty to serve the API only.")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := cfg.Server
	server.Addr, server.Static = c.addr, c.static

	router := api.NewRouter(api.NewHandler(OpenStore()), server.Static)
	if err := api.ListenAndServe(ctx, server, router); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
