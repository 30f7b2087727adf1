package dca

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/etnz/dca/date"
)

// twoPeriods is the series used to hand compute the expected values.
func twoPeriods() []Sample {
	return []Sample{
		NewSample(date.New(2024, time.January, 1), 10.0, 0.0),
		NewSample(date.New(2024, time.February, 1), 12.0, 1.0),
	}
}

func TestSimulate(t *testing.T) {
	sim, err := Simulate(twoPeriods(), M(100, "USD"))
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}
	if len(sim.Ledger) != 2 {
		t.Fatalf("len(Simulate().Ledger) = %d want 2", len(sim.Ledger))
	}

	testCases := []struct {
		name string
		got  any
		want any
	}{
		// First period, no dividend yet: price-only and drip are identical.
		{"row[0].Shares", sim.Ledger[0].Shares, Q(10)},
		{"row[0].SharesDrip", sim.Ledger[0].SharesDrip, Q(10)},
		{"row[0].SharesLump", sim.Ledger[0].SharesLump, Q(20)},
		{"row[0].Value", sim.Ledger[0].Value, M(100, "USD")},
		{"row[0].ValueLump", sim.Ledger[0].ValueLump, M(200, "USD")},
		{"row[0].ROI", sim.Ledger[0].ROI, P(0)},
		{"row[0].AverageCost", sim.Ledger[0].AverageCost, M(10, "USD")},

		// Price only: 10 + 100/12 shares.
		{"row[1].Shares", sim.Ledger[1].Shares, Q(18.33)},
		{"row[1].Value", sim.Ledger[1].Value, M(220, "USD")},
		{"row[1].ROI", sim.Ledger[1].ROI, P(10)},
		{"row[1].AverageCost", sim.Ledger[1].AverageCost, M(10.91, "USD")},

		// Drip: the dividend is paid on the 10 shares held before the contribution.
		{"row[1].SharesDrip", sim.Ledger[1].SharesDrip, Q(19.17)},
		{"row[1].ValueDrip", sim.Ledger[1].ValueDrip, M(230, "USD")},
		{"row[1].ROIDrip", sim.Ledger[1].ROIDrip, P(15)},

		// Lump sum: 200 invested at 10, dividend reinvested at 12.
		{"row[1].SharesLump", sim.Ledger[1].SharesLump, Q(21.67)},
		{"row[1].ValueLump", sim.Ledger[1].ValueLump, M(260, "USD")},
		{"row[1].ROILump", sim.Ledger[1].ROILump, P(30)},

		{"row[1].TotalInvested", sim.Ledger[1].TotalInvested, M(200, "USD")},

		{"Summary.TotalInvested", sim.Summary.TotalInvested, M(200, "USD")},
		{"Summary.LumpSumCapital", sim.Summary.LumpSumCapital, M(200, "USD")},
		{"Summary.FinalValue", sim.Summary.FinalValue, M(220, "USD")},
		{"Summary.FinalValueDrip", sim.Summary.FinalValueDrip, M(230, "USD")},
		{"Summary.FinalValueLump", sim.Summary.FinalValueLump, M(260, "USD")},
		{"Summary.ROI", sim.Summary.ROI, P(10)},
		{"Summary.ROIDrip", sim.Summary.ROIDrip, P(15)},
		{"Summary.ROILump", sim.Summary.ROILump, P(30)},
		{"Summary.Currency", sim.Summary.Currency, "USD"},
	}
	for _, tc := range testCases {
		if !equal(tc.got, tc.want) {
			t.Errorf("Simulate() %s = %v want %v", tc.name, tc.got, tc.want)
		}
	}
}

// equal compares values of this package by value, not by representation.
func equal(got, want any) bool {
	switch w := want.(type) {
	case Money:
		g, ok := got.(Money)
		return ok && g.Equal(w)
	case Quantity:
		g, ok := got.(Quantity)
		return ok && g.Equal(w)
	case Percent:
		g, ok := got.(Percent)
		return ok && g.Equal(w)
	default:
		return reflect.DeepEqual(got, want)
	}
}

func TestSimulate_SinglePeriod(t *testing.T) {
	testCases := []struct {
		amount, price float64
		wantShares    float64
		wantROILump   float64 // the first dividend is paid on the lump sum only
	}{
		{100, 10, 10, 5},
		{100, 8, 12.5, 6.25},
		{1000, 3, 333.33, 16.67},
		{5000, 590, 8.47, 0.08},
	}
	for _, tc := range testCases {
		samples := []Sample{NewSample(date.New(2024, time.March, 1), tc.price, 0.5)}
		sim, err := Simulate(samples, M(tc.amount, "TWD"))
		if err != nil {
			t.Fatalf("Simulate(%v @ %v) error = %v", tc.amount, tc.price, err)
		}
		row := sim.Ledger[0]
		if !row.Shares.Equal(Q(tc.wantShares)) {
			t.Errorf("Simulate(%v @ %v).Shares = %v want %v", tc.amount, tc.price, row.Shares, tc.wantShares)
		}
		// A dividend on the first period is paid on an empty position.
		if !row.SharesDrip.Equal(row.Shares) {
			t.Errorf("Simulate(%v @ %v).SharesDrip = %v want %v", tc.amount, tc.price, row.SharesDrip, row.Shares)
		}
		if !row.ROI.Equal(P(0)) || !row.ROIDrip.Equal(P(0)) {
			t.Errorf("Simulate(%v @ %v) ROIs = %v, %v want 0", tc.amount, tc.price, row.ROI, row.ROIDrip)
		}
		if !row.ROILump.Equal(P(tc.wantROILump)) {
			t.Errorf("Simulate(%v @ %v).ROILump = %v want %v", tc.amount, tc.price, row.ROILump, tc.wantROILump)
		}
	}
}

func TestSimulate_Idempotent(t *testing.T) {
	samples := []Sample{
		NewSample(date.New(2023, time.January, 1), 3.7, 0.0),
		NewSample(date.New(2023, time.February, 1), 3.9, 0.11),
		NewSample(date.New(2023, time.March, 1), 3.1, 0.0),
		NewSample(date.New(2023, time.April, 1), 4.3, 0.13),
	}
	first, err := Simulate(samples, M(333, "EUR"))
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}
	second, err := Simulate(samples, M(333, "EUR"))
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Simulate() is not idempotent:\n%v\n%v", first, second)
	}
}

func TestSimulate_InvestedIsMonotonic(t *testing.T) {
	var samples []Sample
	for i := range 36 {
		samples = append(samples, NewSample(date.New(2020, time.Month(i+1), 1), float64(20+i%7), float64(i%3)/10))
	}
	sim, err := Simulate(samples, M(150, "USD"))
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}
	for i := 1; i < len(sim.Ledger); i++ {
		if sim.Ledger[i].TotalInvested.LessThan(sim.Ledger[i-1].TotalInvested) {
			t.Errorf("TotalInvested decreased at %v: %v < %v", sim.Ledger[i].On, sim.Ledger[i].TotalInvested, sim.Ledger[i-1].TotalInvested)
		}
		// reinvesting dividends never holds fewer shares.
		if sim.Ledger[i].Shares.GreaterThan(sim.Ledger[i].SharesDrip) {
			t.Errorf("Shares > SharesDrip at %v: %v > %v", sim.Ledger[i].On, sim.Ledger[i].Shares, sim.Ledger[i].SharesDrip)
		}
	}
	if want := M(150*36, "USD"); !sim.Summary.TotalInvested.Equal(want) {
		t.Errorf("Summary.TotalInvested = %v want %v", sim.Summary.TotalInvested, want)
	}
}

func TestSimulate_NoDividendKeepsPoliciesEqual(t *testing.T) {
	samples := []Sample{
		NewSample(date.New(2024, time.January, 1), 10.0, 0.0),
		NewSample(date.New(2024, time.February, 1), 11.0, 0.0),
		NewSample(date.New(2024, time.March, 1), 9.0, 0.0),
	}
	sim, err := Simulate(samples, M(100, "USD"))
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}
	for _, row := range sim.Ledger {
		if !row.Shares.Equal(row.SharesDrip) || !row.Value.Equal(row.ValueDrip) {
			t.Errorf("row %v: price-only %v/%v and drip %v/%v diverge without dividends", row.On, row.Shares, row.Value, row.SharesDrip, row.ValueDrip)
		}
	}
}

func TestSimulate_Errors(t *testing.T) {
	d := date.New(2024, time.January, 1)
	testCases := []struct {
		name    string
		samples []Sample
		amount  Money
		want    error
	}{
		{"empty", nil, M(100, "USD"), ErrNoData},
		{"zero amount", twoPeriods(), M(0, "USD"), ErrInvalidInput},
		{"negative amount", twoPeriods(), M(-5, "USD"), ErrInvalidInput},
		{"zero price", []Sample{NewSample(d, 0.0, 0.0)}, M(100, "USD"), ErrInvalidInput},
		{"negative price", []Sample{NewSample(d, -1.0, 0.0)}, M(100, "USD"), ErrInvalidInput},
		{"negative dividend", []Sample{NewSample(d, 1.0, -1.0)}, M(100, "USD"), ErrInvalidInput},
		{"unordered", []Sample{NewSample(d, 1.0, 0.0), NewSample(d.Add(-1), 1.0, 0.0)}, M(100, "USD"), ErrInvalidInput},
		{"duplicated", []Sample{NewSample(d, 1.0, 0.0), NewSample(d, 1.0, 0.0)}, M(100, "USD"), ErrInvalidInput},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Simulate(tc.samples, tc.amount)
			if !errors.Is(err, tc.want) {
				t.Errorf("Simulate() error = %v want %v", err, tc.want)
			}
		})
	}
}

func TestSimulate_InputErrorNamesTheField(t *testing.T) {
	samples := []Sample{
		NewSample(date.New(2024, time.January, 1), 10.0, 0.0),
		NewSample(date.New(2024, time.February, 1), 0.0, 0.0),
	}
	_, err := Simulate(samples, M(100, "USD"))
	var inputErr *InputError
	if !errors.As(err, &inputErr) {
		t.Fatalf("Simulate() error = %v want an *InputError", err)
	}
	if inputErr.Field != "samples[1].close" {
		t.Errorf("InputError.Field = %q want %q", inputErr.Field, "samples[1].close")
	}
}
