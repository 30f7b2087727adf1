package dca

import (
	"fmt"

	"github.com/etnz/dca/date"
	"github.com/shopspring/decimal"
)

// Sample is one period of a price series: the closing price and the
// dividend per share paid during that period.
type Sample struct {
	On       date.Date       `json:"on"`
	Close    decimal.Decimal `json:"close"`
	Dividend decimal.Decimal `json:"dividend,omitzero"`
}

// NewSample is a convenient factory for samples.
func NewSample[T float64 | int | int64 | decimal.Decimal](on date.Date, close, dividend T) Sample {
	return Sample{On: on, Close: newDecimal(close), Dividend: newDecimal(dividend)}
}

// Point is a dated price.
type Point struct {
	On    date.Date
	Price decimal.Decimal
}

// Points projects samples onto their closing prices.
func Points(samples []Sample) []Point {
	points := make([]Point, len(samples))
	for i, s := range samples {
		points[i] = Point{On: s.On, Price: s.Close}
	}
	return points
}

// ValidateSamples checks that samples can be simulated: it is not empty,
// strictly chronological, prices are positive and dividends are not negative.
func ValidateSamples(samples []Sample) error {
	if len(samples) == 0 {
		return ErrNoData
	}
	for i, s := range samples {
		if !s.Close.IsPositive() {
			return invalid(fmt.Sprintf("samples[%d].close", i), "must be positive", s.Close)
		}
		if s.Dividend.IsNegative() {
			return invalid(fmt.Sprintf("samples[%d].dividend", i), "must not be negative", s.Dividend)
		}
		if i > 0 && !samples[i-1].On.Before(s.On) {
			return invalid(fmt.Sprintf("samples[%d].on", i), "must be after the previous sample", s.On)
		}
	}
	return nil
}

// validatePoints is the [ValidateSamples] equivalent for price points.
func validatePoints(name string, points []Point) error {
	if len(points) == 0 {
		return fmt.Errorf("%s: %w", name, ErrNoData)
	}
	for i, p := range points {
		if !p.Price.IsPositive() {
			return invalid(fmt.Sprintf("%s[%d].price", name, i), "must be positive", p.Price)
		}
		if i > 0 && !points[i-1].On.Before(p.On) {
			return invalid(fmt.Sprintf("%s[%d].on", name, i), "must be after the previous point", p.On)
		}
	}
	return nil
}

// Resample aggregates a chronological series into one sample per period.
//
// Each resulting sample is dated on the first day of its period, carries the
// last close seen in the period and the sum of all dividends paid in the
// period. Daily resampling returns the samples unchanged.
func Resample(samples []Sample, period date.Period) []Sample {
	if period == date.Daily {
		return samples
	}
	res := make([]Sample, 0, len(samples))
	for _, s := range samples {
		start := s.On.StartOf(period)
		if n := len(res); n > 0 && res[n-1].On == start {
			last := &res[n-1]
			last.Close = s.Close
			last.Dividend = last.Dividend.Add(s.Dividend)
			continue
		}
		res = append(res, Sample{On: start, Close: s.Close, Dividend: s.Dividend})
	}
	return res
}
