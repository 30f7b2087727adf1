// Package store persists price histories in a folder, in a way that is
// human-readable and git-friendly.
//
// The folder contains:
//
//	securities.jsonl   one instrument per line: {"ticker":"2330.TW","currency":"TWD"}
//	2330.TW.jsonl      one trading day per line: {"on":"2024-01-02","close":"593","dividend":"3.5"}
//
// Series files are sorted chronologically and rewritten atomically.
package store

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/etnz/dca"
	"github.com/etnz/dca/date"
	"github.com/rs/zerolog/log"
)

const securitiesFilename = "securities.jsonl"
const seriesExt = ".jsonl"

// tickerRE restricts tickers to characters that are safe in a filename.
var tickerRE = regexp.MustCompile(`^[A-Z0-9^=._-]+$`)

// Security is the declaration of an instrument in the store.
type Security struct {
	Ticker   string `json:"ticker"`
	Currency string `json:"currency,omitempty"`
}

// Store is a folder of price histories. It implements dca.Provider.
type Store struct {
	dir string
	mu  sync.Mutex // serializes writers
}

var _ dca.Provider = (*Store)(nil)

// Open returns the store in dir. The folder is created on the first write.
func Open(dir string) *Store { return &Store{dir: dir} }

func checkTicker(ticker string) error {
	if !tickerRE.MatchString(ticker) {
		return &dca.InputError{Field: "ticker", Constraint: "must be an upper case ticker", Value: ticker}
	}
	return nil
}

func (s *Store) seriesFile(ticker string) string {
	return filepath.Join(s.dir, ticker+seriesExt)
}

// History returns the samples of ticker within r, resampled to period.
func (s *Store) History(ctx context.Context, ticker string, r date.Range, period date.Period) (*dca.History, error) {
	if err := checkTicker(ticker); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	all, err := s.readSeries(ticker)
	if err != nil {
		return nil, err
	}
	samples := make([]dca.Sample, 0, len(all))
	for _, sample := range all {
		if r.Contains(sample.On) {
			samples = append(samples, sample)
		}
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w for %s in %s", dca.ErrNoData, ticker, r)
	}

	currency, err := s.currency(ticker)
	if err != nil {
		return nil, err
	}

	samples = dca.Resample(samples, period)
	// the first period may start before the range.
	if samples[0].On.Before(r.From) {
		samples[0].On = r.From
	}
	log.Debug().
		Str("ticker", ticker).
		Stringer("range", r).
		Stringer("period", period).
		Int("samples", len(samples)).
		Msg("history loaded")

	return &dca.History{Ticker: ticker, Currency: currency, Samples: samples}, nil
}

// readSeries reads the whole series file of ticker.
func (s *Store) readSeries(ticker string) ([]dca.Sample, error) {
	filename := s.seriesFile(ticker)
	content, err := os.ReadFile(filename)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w for %s: unknown ticker", dca.ErrNoData, ticker)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: cannot read %q: %w", dca.ErrUpstream, filename, err)
	}

	var samples []dca.Sample
	scanner := bufio.NewScanner(bytes.NewReader(content))
	i := 0
	for scanner.Scan() {
		i++
		txt := scanner.Bytes()
		// Start simply ignoring empty lines.
		if len(bytes.TrimSpace(txt)) == 0 {
			continue
		}
		var sample dca.Sample
		if err := json.Unmarshal(txt, &sample); err != nil {
			return nil, fmt.Errorf("%w: parse error %s:%v: %w", dca.ErrUpstream, filename, i, err)
		}
		if sample.On.IsZero() {
			return nil, fmt.Errorf("%w: parse error %s:%v: missing the property %q with a date", dca.ErrUpstream, filename, i, "on")
		}
		if n := len(samples); n > 0 && !samples[n-1].On.Before(sample.On) {
			return nil, fmt.Errorf("%w: parse error %s:%v: %s is not after %s", dca.ErrUpstream, filename, i, sample.On, samples[n-1].On)
		}
		samples = append(samples, sample)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: cannot read %q: %w", dca.ErrUpstream, filename, err)
	}
	return samples, nil
}

// Securities returns all declared instruments, sorted by ticker.
func (s *Store) Securities() ([]Security, error) {
	filename := filepath.Join(s.dir, securitiesFilename)
	content, err := os.ReadFile(filename)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: cannot read %q: %w", dca.ErrUpstream, filename, err)
	}
	var securities []Security
	for i, line := range strings.Split(string(content), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var sec Security
		if err := json.Unmarshal([]byte(line), &sec); err != nil {
			return nil, fmt.Errorf("%w: parse error %s:%v: %w", dca.ErrUpstream, filename, i+1, err)
		}
		securities = append(securities, sec)
	}
	slices.SortFunc(securities, func(a, b Security) int { return strings.Compare(a.Ticker, b.Ticker) })
	return securities, nil
}

// currency returns the declared currency of ticker, or dca.DefaultCurrency.
func (s *Store) currency(ticker string) (string, error) {
	securities, err := s.Securities()
	if err != nil {
		return "", err
	}
	for _, sec := range securities {
		if sec.Ticker == ticker && sec.Currency != "" {
			return sec.Currency, nil
		}
	}
	return dca.DefaultCurrency, nil
}

// Put merges h into the store: samples of h replace existing samples on the same date.
// The security is declared, or its currency updated when h has one.
func (s *Store) Put(h *dca.History) error {
	if err := checkTicker(h.Ticker); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("cannot create store %q: %w", s.dir, err)
	}

	existing, err := s.readSeries(h.Ticker)
	if err != nil && !errors.Is(err, dca.ErrNoData) {
		return err
	}
	var merged date.History[dca.Sample]
	for _, sample := range existing {
		merged.Append(sample.On, sample)
	}
	for _, sample := range h.Samples {
		merged.Append(sample.On, sample)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, sample := range merged.Values() {
		if err := enc.Encode(sample); err != nil {
			return fmt.Errorf("cannot encode %s on %s: %w", h.Ticker, sample.On, err)
		}
	}
	if err := writeFile(s.seriesFile(h.Ticker), buf.Bytes()); err != nil {
		return err
	}

	log.Info().
		Str("ticker", h.Ticker).
		Int("added", len(h.Samples)).
		Int("total", merged.Len()).
		Msg("history stored")

	return s.declare(Security{Ticker: h.Ticker, Currency: h.Currency})
}

// declare adds or updates a security in the securities file.
func (s *Store) declare(sec Security) error {
	securities, err := s.Securities()
	if err != nil {
		return err
	}
	i := slices.IndexFunc(securities, func(x Security) bool { return x.Ticker == sec.Ticker })
	switch {
	case i < 0:
		securities = append(securities, sec)
	case sec.Currency != "":
		securities[i] = sec
	default:
		return nil // nothing new
	}
	slices.SortFunc(securities, func(a, b Security) int { return strings.Compare(a.Ticker, b.Ticker) })

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, sec := range securities {
		if err := enc.Encode(sec); err != nil {
			return fmt.Errorf("cannot encode security %s: %w", sec.Ticker, err)
		}
	}
	return writeFile(filepath.Join(s.dir, securitiesFilename), buf.Bytes())
}

// writeFile replaces filename content atomically.
func writeFile(filename string, content []byte) error {
	f, err := os.CreateTemp(filepath.Dir(filename), ".tmp-"+filepath.Base(filename))
	if err != nil {
		return fmt.Errorf("cannot write %q: %w", filename, err)
	}
	_, err = f.Write(content)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(f.Name())
		return fmt.Errorf("cannot write %q: %w", filename, err)
	}
	if err := os.Rename(f.Name(), filename); err != nil {
		os.Remove(f.Name())
		return fmt.Errorf("cannot write %q: %w", filename, err)
	}
	return nil
}

// Tickers returns the tickers of all declared instruments, sorted.
func (s *Store) Tickers() ([]string, error) {
	securities, err := s.Securities()
	if err != nil {
		return nil, err
	}
	tickers := make([]string, len(securities))
	for i, sec := range securities {
		tickers[i] = sec.Ticker
	}
	return tickers, nil
}
