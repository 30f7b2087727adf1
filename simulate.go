package dca

import (
	"github.com/etnz/dca/date"
)

// LedgerRow is the state of the three investment policies at the end of one period.
//
// Amounts are rounded for display, the simulation itself runs at full precision.
type LedgerRow struct {
	On            date.Date `json:"date"`
	Price         Money     `json:"price"`
	TotalInvested Money     `json:"total_invested"` // cumulative contributions of the DCA policies

	Value     Money `json:"portfolio_value"`      // DCA, dividends taken as cash
	ValueDrip Money `json:"portfolio_value_drip"` // DCA, dividends reinvested
	ValueLump Money `json:"lump_sum_value"`       // whole capital invested on the first period, dividends reinvested

	AverageCost Money `json:"average_cost"` // average cost per share of the price-only policy

	Shares     Quantity `json:"total_shares"`
	SharesDrip Quantity `json:"total_shares_drip"`
	SharesLump Quantity `json:"lump_sum_shares"`

	ROI     Percent `json:"roi"`
	ROIDrip Percent `json:"roi_drip"`
	ROILump Percent `json:"roi_lump"`
}

// Summary is the outcome of a simulation, as of the last period.
type Summary struct {
	TotalInvested  Money `json:"total_invested"`
	LumpSumCapital Money `json:"lump_sum_capital"`

	FinalValue     Money `json:"final_value_price"`
	FinalValueDrip Money `json:"final_value_drip"`
	FinalValueLump Money `json:"final_value_lump"`

	ROI     Percent `json:"total_roi_price"`
	ROIDrip Percent `json:"total_roi_drip"`
	ROILump Percent `json:"total_roi_lump"`

	Currency string `json:"currency"`
}

// Simulation holds one ledger row per period and the summary.
type Simulation struct {
	Ledger  []LedgerRow
	Summary Summary
}

// position is the share balance held under one policy.
type position struct {
	shares   Quantity
	reinvest bool // reinvest dividends
}

// step moves the position through one period.
//
// Dividends are paid on the balance held before this period's contribution,
// and are reinvested at this period's price.
func (p position) step(price, dividend Money, contribution Quantity) position {
	if p.reinvest && dividend.IsPositive() {
		p.shares = p.shares.Add(dividend.Mul(p.shares).DivPrice(price))
	}
	p.shares = p.shares.Add(contribution)
	return p
}

// state is the full precision state of a simulation, it is local to one run.
type state struct {
	amount   Money // contribution per period
	capital  Money // lump sum capital
	invested Money

	priceOnly position
	drip      position
	lump      position
}

// next returns the state after the period of sample s, and the matching ledger row.
func (st state) next(s Sample) (state, LedgerRow) {
	cur := st.amount.Currency()
	price, dividend := M(s.Close, cur), M(s.Dividend, cur)

	bought := st.amount.DivPrice(price)
	st.invested = st.invested.Add(st.amount)
	st.priceOnly = st.priceOnly.step(price, dividend, bought)
	st.drip = st.drip.step(price, dividend, bought)
	st.lump = st.lump.step(price, dividend, Quantity{})

	value := price.Mul(st.priceOnly.shares)
	valueDrip := price.Mul(st.drip.shares)
	valueLump := price.Mul(st.lump.shares)

	var avg Money
	if st.priceOnly.shares.IsPositive() {
		avg = st.invested.Div(st.priceOnly.shares)
	}

	row := LedgerRow{
		On:            s.On,
		Price:         price.Round(),
		TotalInvested: st.invested.Round(),
		Value:         value.Round(),
		ValueDrip:     valueDrip.Round(),
		ValueLump:     valueLump.Round(),
		AverageCost:   avg.Round(),
		Shares:        st.priceOnly.shares.Round(),
		SharesDrip:    st.drip.shares.Round(),
		SharesLump:    st.lump.shares.Round(),
		ROI:           Change(value, st.invested).Round(),
		ROIDrip:       Change(valueDrip, st.invested).Round(),
		ROILump:       Change(valueLump, st.capital).Round(),
	}
	return st, row
}

// Simulate invests amount on every sample, and compares three policies:
//
//   - price only: amount is invested every period, dividends are not reinvested.
//   - drip: amount is invested every period, dividends are reinvested.
//   - lump sum: amount times the number of periods is invested on the first
//     period, dividends are reinvested.
//
// The amount currency is the currency of the prices, it is reported in the
// Summary. Samples must satisfy [ValidateSamples].
func Simulate(samples []Sample, amount Money) (*Simulation, error) {
	if !amount.IsPositive() {
		return nil, invalid("amount", "must be positive", amount.value)
	}
	if err := ValidateSamples(samples); err != nil {
		return nil, err
	}

	capital := amount.MulInt(len(samples))
	first := M(samples[0].Close, amount.Currency())
	st := state{
		amount:    amount,
		capital:   capital,
		invested:  M(0, amount.Currency()),
		priceOnly: position{},
		drip:      position{reinvest: true},
		lump:      position{shares: capital.DivPrice(first), reinvest: true},
	}

	ledger := make([]LedgerRow, 0, len(samples))
	for _, s := range samples {
		var row LedgerRow
		st, row = st.next(s)
		ledger = append(ledger, row)
	}

	return &Simulation{
		Ledger:  ledger,
		Summary: summarize(ledger, st.invested, capital),
	}, nil
}

// summarize copies the last row of the ledger.
func summarize(ledger []LedgerRow, invested, capital Money) Summary {
	s := Summary{
		TotalInvested:  invested.Round(),
		LumpSumCapital: capital.Round(),
		Currency:       capital.Currency(),
	}
	if len(ledger) == 0 {
		return s
	}
	last := ledger[len(ledger)-1]
	s.FinalValue = last.Value
	s.FinalValueDrip = last.ValueDrip
	s.FinalValueLump = last.ValueLump
	s.ROI = last.ROI
	s.ROIDrip = last.ROIDrip
	s.ROILump = last.ROILump
	return s
}
