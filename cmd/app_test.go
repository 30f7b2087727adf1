package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/etnz/dca"
	"github.com/etnz/dca/config"
	"github.com/google/subcommands"
)

// setup points the application to an empty data folder.
func setup(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	previous := cfg
	cfg = &config.Config{Data: filepath.Join(dir, "data"), Market: dca.Domestic, Amount: "1000"}
	t.Cleanup(func() { cfg = previous })
	return dir
}

// run executes c with args, and returns its status and output.
func run(t *testing.T, c subcommands.Command, args ...string) (subcommands.ExitStatus, string) {
	t.Helper()
	var buf bytes.Buffer
	stdout = &buf
	t.Cleanup(func() { stdout = os.Stdout })

	f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	c.SetFlags(f)
	if err := f.Parse(args); err != nil {
		t.Fatalf("%s %v: invalid arguments: %v", c.Name(), args, err)
	}
	return c.Execute(context.Background(), f), buf.String()
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	filename := filepath.Join(dir, name)
	if err := os.WriteFile(filename, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return filename
}

func TestImportAndSimulate(t *testing.T) {
	dir := setup(t)
	csv := writeFile(t, dir, "tsmc.csv", "Date,Close,Dividends\n2024-01-02,10,0\n2024-02-01,12,1\n")

	status, out := run(t, &importCmd{}, "-t", "2330", "-c", "twd", csv)
	if status != subcommands.ExitSuccess {
		t.Fatalf("import status = %v want %v", status, subcommands.ExitSuccess)
	}
	if want := "Imported 2 samples of 2330.TW from 2024-01-02 to 2024-02-01"; !strings.Contains(out, want) {
		t.Errorf("import output = %q want %q", out, want)
	}

	status, out = run(t, &tickersCmd{})
	if status != subcommands.ExitSuccess || !strings.Contains(out, "2330.TW") {
		t.Errorf("tickers = %v %q want 2330.TW", status, out)
	}

	status, out = run(t, &simulateCmd{}, "-t", "2330", "-a", "100", "-from", "2024-01-01", "-to", "2024-03-01", "-json")
	if status != subcommands.ExitSuccess {
		t.Fatalf("simulate status = %v want %v", status, subcommands.ExitSuccess)
	}
	var got struct {
		Ticker  string
		Summary map[string]any
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("simulate -json output is invalid: %v\n%s", err, out)
	}
	if got.Ticker != "2330.TW" {
		t.Errorf("simulate ticker = %q want %q", got.Ticker, "2330.TW")
	}
	for key, want := range map[string]any{
		"total_invested":    200.0,
		"final_value_price": 220.0,
		"final_value_drip":  230.0,
		"currency":          "TWD",
	} {
		if got.Summary[key] != want {
			t.Errorf("simulate summary[%q] = %v want %v", key, got.Summary[key], want)
		}
	}
}

func TestCompare(t *testing.T) {
	dir := setup(t)
	a := writeFile(t, dir, "a.csv", "Date,Close\n2024-01-02,100\n2024-01-03,110\n2024-01-04,120\n")
	b := writeFile(t, dir, "b.csv", "Date,Close\n2024-01-03,20\n2024-01-04,30\n2024-01-05,40\n")
	for ticker, file := range map[string]string{"AAA": a, "BBB": b} {
		if status, _ := run(t, &importCmd{}, "-t", ticker, "-m", "us", file); status != subcommands.ExitSuccess {
			t.Fatalf("import %s status = %v want %v", ticker, status, subcommands.ExitSuccess)
		}
	}

	status, out := run(t, &compareCmd{}, "-t1", "AAA", "-m1", "us", "-t2", "BBB", "-m2", "us", "-from", "2024-01-01", "-to", "2024-02-01", "-json")
	if status != subcommands.ExitSuccess {
		t.Fatalf("compare status = %v want %v", status, subcommands.ExitSuccess)
	}
	var got struct {
		Data        []map[string]any
		Correlation *float64
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("compare -json output is invalid: %v\n%s", err, out)
	}
	if len(got.Data) != 2 {
		t.Errorf("compare data has %d rows want 2", len(got.Data))
	}
	if got.Correlation == nil || *got.Correlation != 1 {
		t.Errorf("compare correlation = %v want 1", got.Correlation)
	}
}

func TestCommandErrors(t *testing.T) {
	dir := setup(t)
	csv := writeFile(t, dir, "prices.csv", "Date,Close\n2024-01-02,10\n")
	txt := writeFile(t, dir, "prices.txt", "Date,Close\n2024-01-02,10\n")

	tests := []struct {
		name string
		cmd  subcommands.Command
		args []string
		want subcommands.ExitStatus
	}{
		{"import without file", &importCmd{}, nil, subcommands.ExitUsageError},
		{"import without ticker", &importCmd{}, []string{csv}, subcommands.ExitFailure},
		{"import unknown format", &importCmd{}, []string{"-t", "VOO", txt}, subcommands.ExitFailure},
		{"simulate without ticker", &simulateCmd{}, []string{"-from", "2024-01-01"}, subcommands.ExitUsageError},
		{"simulate bad amount", &simulateCmd{}, []string{"-t", "VOO", "-a", "lots", "-from", "2024-01-01"}, subcommands.ExitUsageError},
		{"simulate bad period", &simulateCmd{}, []string{"-t", "VOO", "-p", "hourly", "-from", "2024-01-01"}, subcommands.ExitUsageError},
		{"simulate without start", &simulateCmd{}, []string{"-t", "VOO"}, subcommands.ExitUsageError},
		{"simulate empty range", &simulateCmd{}, []string{"-t", "VOO", "-from", "2024-01-01", "-to", "2024-01-01"}, subcommands.ExitUsageError},
		{"simulate no data", &simulateCmd{}, []string{"-t", "VOO", "-m", "us", "-from", "2024-01-01"}, subcommands.ExitFailure},
		{"compare without second ticker", &compareCmd{}, []string{"-t1", "VOO", "-m1", "us", "-from", "2024-01-01"}, subcommands.ExitUsageError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if status, _ := run(t, tt.cmd, tt.args...); status != tt.want {
				t.Errorf("%s %v status = %v want %v", tt.cmd.Name(), tt.args, status, tt.want)
			}
		})
	}
}

func TestMarketFlags(t *testing.T) {
	setup(t)
	cfg.Market = dca.Crypto

	c := &compareCmd{}
	f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	c.SetFlags(f)
	if err := f.Parse([]string{"-m1", "US"}); err != nil {
		t.Fatalf("compare -m1 US: unexpected error: %v", err)
	}
	if c.market1 != dca.International {
		t.Errorf("compare -m1 US: market1 = %v want %v", c.market1, dca.International)
	}
	// the configured market is the default
	if c.market2 != dca.Crypto {
		t.Errorf("compare: market2 = %v want %v", c.market2, dca.Crypto)
	}

	f = flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	f.SetOutput(io.Discard)
	c.SetFlags(f)
	if err := f.Parse([]string{"-m1", "mars"}); err == nil {
		t.Errorf("compare -m1 mars: expected an error")
	}
}
