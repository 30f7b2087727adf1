package dca

import (
	"context"

	"github.com/etnz/dca/date"
)

// DefaultCurrency is the currency assumed for an instrument that declares none.
const DefaultCurrency = "TWD"

// History is a price and dividend series of one instrument, as delivered by a provider.
type History struct {
	Ticker   string
	Currency string
	Samples  []Sample
}

// Provider retrieves the price history of instruments.
//
// Implementations return an error wrapping ErrNoData when the ticker is
// unknown or has no sample in the range, and wrapping ErrUpstream when the
// data source itself fails.
type Provider interface {
	History(ctx context.Context, ticker string, r date.Range, period date.Period) (*History, error)
}
