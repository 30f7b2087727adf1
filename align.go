package dca

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/etnz/dca/date"
	"github.com/shopspring/decimal"
)

// correlationPlaces is the number of decimal places of a reported correlation.
const correlationPlaces = 4

// AlignedRow is a date on which both series have a price.
type AlignedRow struct {
	On      date.Date       `json:"date"`
	Price1  decimal.Decimal `json:"price1"`
	Price2  decimal.Decimal `json:"price2"`
	Change1 Percent         `json:"pct1"` // change since the first aligned date
	Change2 Percent         `json:"pct2"`
}

// MarshalJSON writes prices as JSON numbers.
func (r AlignedRow) MarshalJSON() ([]byte, error) {
	type row AlignedRow
	return json.Marshal(struct {
		row
		Price1 json.Number `json:"price1"`
		Price2 json.Number `json:"price2"`
	}{row(r), json.Number(r.Price1.String()), json.Number(r.Price2.String())})
}

// Correlation is a Pearson correlation coefficient, that may be undefined.
//
// The zero value is undefined.
type Correlation struct {
	value   decimal.Decimal
	defined bool
}

// Defined reports whether the coefficient exists.
func (c Correlation) Defined() bool { return c.defined }

// Value returns the coefficient, or ErrDegenerateCorrelation.
func (c Correlation) Value() (decimal.Decimal, error) {
	if !c.defined {
		return decimal.Zero, ErrDegenerateCorrelation
	}
	return c.value, nil
}

func (c Correlation) String() string {
	if !c.defined {
		return "n/a"
	}
	return c.value.StringFixed(correlationPlaces)
}

// MarshalJSON writes the coefficient as a number, or null when it is undefined.
func (c Correlation) MarshalJSON() ([]byte, error) {
	if !c.defined {
		return []byte("null"), nil
	}
	return []byte(c.value.String()), nil
}

// Comparison is the relative performance of two price series over their common dates.
type Comparison struct {
	Rows        []AlignedRow
	Correlation Correlation
}

// Align joins two price series on the dates they have in common.
//
// Dates present in only one series are dropped. Each row carries the change
// in percent of each price since the first common date. The correlation is
// computed on the prices themselves, and is undefined when one of the series
// is constant over the common dates (in particular when there is a single
// common date).
func Align(series1, series2 []Point) (*Comparison, error) {
	if err := validatePoints("series1", series1); err != nil {
		return nil, err
	}
	if err := validatePoints("series2", series2); err != nil {
		return nil, err
	}

	prices1, days1 := index(series1)
	prices2, days2 := index(series2)

	var rows []AlignedRow
	var base1, base2 decimal.Decimal
	for on := range date.Common(days1, days2) {
		p1, p2 := prices1[on], prices2[on]
		if rows == nil {
			base1, base2 = p1, p2
		}
		rows = append(rows, AlignedRow{
			On:      on,
			Price1:  p1,
			Price2:  p2,
			Change1: change(p1, base1),
			Change2: change(p2, base2),
		})
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w between %s..%s and %s..%s", ErrNoOverlap,
			days1[0], days1[len(days1)-1], days2[0], days2[len(days2)-1])
	}

	corr := pearson(rows)
	for i := range rows {
		r := &rows[i]
		r.Price1 = r.Price1.Round(displayPlaces)
		r.Price2 = r.Price2.Round(displayPlaces)
		r.Change1 = r.Change1.Round()
		r.Change2 = r.Change2.Round()
	}
	return &Comparison{Rows: rows, Correlation: corr}, nil
}

func index(points []Point) (map[date.Date]decimal.Decimal, []date.Date) {
	prices := make(map[date.Date]decimal.Decimal, len(points))
	days := make([]date.Date, len(points))
	for i, p := range points {
		prices[p.On] = p.Price
		days[i] = p.On
	}
	return prices, days
}

// pearson computes the correlation of the full precision prices of rows.
func pearson(rows []AlignedRow) Correlation {
	n := decimal.NewFromInt(int64(len(rows)))
	var sum1, sum2 decimal.Decimal
	for _, r := range rows {
		sum1 = sum1.Add(r.Price1)
		sum2 = sum2.Add(r.Price2)
	}
	mean1, mean2 := sum1.Div(n), sum2.Div(n)

	var cov, var1, var2 decimal.Decimal
	for _, r := range rows {
		d1, d2 := r.Price1.Sub(mean1), r.Price2.Sub(mean2)
		cov = cov.Add(d1.Mul(d2))
		var1 = var1.Add(d1.Mul(d1))
		var2 = var2.Add(d2.Mul(d2))
	}
	if var1.IsZero() || var2.IsZero() {
		return Correlation{}
	}

	// decimal has no square root, the denominator is the only inexact step.
	denominator := math.Sqrt(var1.InexactFloat64()) * math.Sqrt(var2.InexactFloat64())
	if denominator == 0 || math.IsInf(denominator, 0) || math.IsNaN(denominator) {
		return Correlation{}
	}
	r := cov.Div(decimal.NewFromFloat(denominator)).Round(correlationPlaces)
	// the inexact denominator must not push the coefficient out of [-1, 1].
	one := decimal.NewFromInt(1)
	r = decimal.Min(one, decimal.Max(one.Neg(), r))
	return Correlation{value: r, defined: true}
}
