package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/etnz/dca"
	"github.com/etnz/dca/date"
	"github.com/shopspring/decimal"
)

// ImportCSV reads a CSV price history.
//
// The header must contain a "Date" and a "Close" column, and optionally a
// "Dividends" column, in any order and case. Other columns are ignored.
// Dates can carry a time and a zone ("2024-01-02 00:00:00+08:00"), only the
// calendar day is kept. Rows with an empty close are skipped.
func ImportCSV(r io.Reader) (*dca.History, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("empty CSV document: %w", dca.ErrNoData)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read CSV header: %w", err)
	}
	columns := map[string]int{}
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	dateCol, ok := columns["date"]
	if !ok {
		return nil, fmt.Errorf("CSV header %v has no %q column", header, "Date")
	}
	closeCol, ok := columns["close"]
	if !ok {
		return nil, fmt.Errorf("CSV header %v has no %q column", header, "Close")
	}
	divCol, hasDividends := columns["dividends"]

	var samples []dca.Sample
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("cannot read CSV: %w", err)
		}
		line, _ := reader.FieldPos(0)
		field := func(i int) string {
			if i < len(record) {
				return strings.TrimSpace(record[i])
			}
			return ""
		}

		if field(closeCol) == "" {
			continue
		}
		on, err := parseDay(field(dateCol))
		if err != nil {
			return nil, fmt.Errorf("parse error line %v: %w", line, err)
		}
		s := dca.Sample{On: on}
		if s.Close, err = decimal.NewFromString(field(closeCol)); err != nil {
			return nil, fmt.Errorf("parse error line %v: invalid close %q: %w", line, field(closeCol), err)
		}
		if hasDividends && field(divCol) != "" {
			if s.Dividend, err = decimal.NewFromString(field(divCol)); err != nil {
				return nil, fmt.Errorf("parse error line %v: invalid dividend %q: %w", line, field(divCol), err)
			}
		}
		samples = append(samples, s)
	}

	if err := dca.ValidateSamples(samples); err != nil {
		return nil, fmt.Errorf("invalid series in CSV document: %w", err)
	}
	return &dca.History{Samples: samples}, nil
}

// parseDay parses the calendar day at the start of a timestamp.
func parseDay(s string) (date.Date, error) {
	if i := strings.IndexAny(s, " T"); i > 0 {
		s = s[:i]
	}
	return date.Parse(s)
}
