// Package importer turns saved market data documents into price histories.
package importer

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/dca"
	"github.com/etnz/dca/date"
	"github.com/shopspring/decimal"
)

// Paths locates the series in a JSON document, as jsonpath expressions.
//
// Timestamps and Closes are required and must be arrays of the same length.
// The other paths are optional: when they do not resolve the value is left
// empty (GMTOffset defaults to UTC).
type Paths struct {
	Ticker     string
	Currency   string
	GMTOffset  string // seconds east of UTC of the exchange
	Timestamps string // unix timestamps, in seconds
	Closes     string
	Dividends  string // collection of {"amount": ..., "date": <unix timestamp>}
}

// ChartPaths are the paths of a chart document as served by Yahoo Finance:
//
//	{"chart":{"result":[{"meta":{"symbol":"2330.TW","currency":"TWD","gmtoffset":28800},
//	  "timestamp":[...],"indicators":{"quote":[{"close":[...]}]},
//	  "events":{"dividends":{"1700000000":{"amount":3.5,"date":1700000000}}}}]}}
var ChartPaths = Paths{
	Ticker:     "$.chart.result[0].meta.symbol",
	Currency:   "$.chart.result[0].meta.currency",
	GMTOffset:  "$.chart.result[0].meta.gmtoffset",
	Timestamps: "$.chart.result[0].timestamp",
	Closes:     "$.chart.result[0].indicators.quote[0].close",
	Dividends:  "$.chart.result[0].events.dividends",
}

// ImportJSON reads a JSON document and extracts the history located by p.
//
// Timestamps are converted to calendar days in the exchange time zone, then
// the zone is dropped. Days without a close (null) are skipped. When a day
// appears twice, the last close wins. Each dividend is credited to the first
// trading day on or after its date.
func ImportJSON(r io.Reader, p Paths) (*dca.History, error) {
	var jobj any
	if err := json.NewDecoder(r).Decode(&jobj); err != nil {
		return nil, fmt.Errorf("cannot decode JSON document: %w", err)
	}

	h := &dca.History{}
	h.Ticker, _ = optional[string](jobj, p.Ticker)
	h.Currency, _ = optional[string](jobj, p.Currency)
	offset, _ := optional[float64](jobj, p.GMTOffset)
	zone := time.FixedZone("exchange", int(offset))

	timestamps, err := list(jobj, p.Timestamps)
	if err != nil {
		return nil, err
	}
	closes, err := list(jobj, p.Closes)
	if err != nil {
		return nil, err
	}
	if len(timestamps) != len(closes) {
		return nil, fmt.Errorf("%q has %d values but %q has %d", p.Timestamps, len(timestamps), p.Closes, len(closes))
	}

	var series date.History[dca.Sample]
	for i, jts := range timestamps {
		if closes[i] == nil {
			continue
		}
		ts, ok := jts.(float64)
		if !ok {
			return nil, fmt.Errorf("error parsing %q: %v at index %d is not a timestamp", p.Timestamps, jts, i)
		}
		cl, ok := closes[i].(float64)
		if !ok {
			return nil, fmt.Errorf("error parsing %q: %v at index %d is not a price", p.Closes, closes[i], i)
		}
		day := date.FromTime(time.Unix(int64(ts), 0).In(zone))
		series.Append(day, dca.Sample{On: day, Close: decimal.NewFromFloat(cl)})
	}

	samples := make([]dca.Sample, 0, series.Len())
	for _, s := range series.Values() {
		samples = append(samples, s)
	}

	dividends, err := readDividends(jobj, p.Dividends, zone)
	if err != nil {
		return nil, err
	}
	creditDividends(samples, dividends)

	if err := dca.ValidateSamples(samples); err != nil {
		return nil, fmt.Errorf("invalid series in JSON document: %w", err)
	}
	h.Samples = samples
	return h, nil
}

// get evaluates path on jobj.
func get(jobj any, path string) (any, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("error parsing %q: %w", path, err)
	}
	return jval, nil
}

// optional returns the value at path, if path is set, resolves and has type T.
func optional[T any](jobj any, path string) (T, bool) {
	var zero T
	if path == "" {
		return zero, false
	}
	jval, err := get(jobj, path)
	if err != nil {
		return zero, false
	}
	// because jsonpath is never clear about whether it returns a list of 1 answer, or a single answer:
	// keep the first one if any
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	v, ok := jval.(T)
	return v, ok
}

// list returns the array at path.
func list(jobj any, path string) ([]any, error) {
	jval, err := get(jobj, path)
	if err != nil {
		return nil, err
	}
	jlist, ok := jval.([]any)
	if !ok {
		return nil, fmt.Errorf("error parsing %q: not an array", path)
	}
	return jlist, nil
}

type dividend struct {
	on     date.Date
	amount decimal.Decimal
}

// readDividends reads the dividend events at path, sorted by date.
// Events can be an object keyed by anything, or an array.
func readDividends(jobj any, path string, zone *time.Location) ([]dividend, error) {
	if path == "" {
		return nil, nil
	}
	jval, err := get(jobj, path)
	if err != nil {
		return nil, nil // no dividend event in the document
	}
	var events []any
	switch v := jval.(type) {
	case []any:
		events = v
	case map[string]any:
		for _, e := range v {
			events = append(events, e)
		}
	default:
		return nil, fmt.Errorf("error parsing %q: not a collection of dividends", path)
	}

	dividends := make([]dividend, 0, len(events))
	for _, e := range events {
		event, ok := e.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("error parsing %q: %v is not a dividend event", path, e)
		}
		amount, ok := event["amount"].(float64)
		if !ok {
			return nil, fmt.Errorf("error parsing %q: %v has no amount", path, e)
		}
		ts, ok := event["date"].(float64)
		if !ok {
			return nil, fmt.Errorf("error parsing %q: %v has no date", path, e)
		}
		dividends = append(dividends, dividend{
			on:     date.FromTime(time.Unix(int64(ts), 0).In(zone)),
			amount: decimal.NewFromFloat(amount),
		})
	}
	slices.SortFunc(dividends, func(a, b dividend) int { return a.on.Compare(b.on) })
	return dividends, nil
}

// creditDividends adds each dividend to the first sample on or after its date.
// Dividends after the last sample are dropped.
func creditDividends(samples []dca.Sample, dividends []dividend) {
	i := 0
	for _, d := range dividends {
		for i < len(samples) && samples[i].On.Before(d.on) {
			i++
		}
		if i == len(samples) {
			return
		}
		samples[i].Dividend = samples[i].Dividend.Add(d.amount)
	}
}
