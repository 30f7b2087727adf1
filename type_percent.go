package dca

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Percent is a percentage, 12.5 means 12.5%.
type Percent struct {
	value decimal.Decimal
}

func P[T float64 | int | int64 | decimal.Decimal](value T) Percent {
	return Percent{value: newDecimal(value)}
}

// Change returns the relative change from base to value in percent, zero when base is zero.
func Change(value, base Money) Percent {
	cur(value, base) // currencies must match
	return change(value.value, base.value)
}

func change(value, base decimal.Decimal) Percent {
	if base.IsZero() {
		return Percent{}
	}
	return Percent{value: value.Sub(base).Div(base).Mul(hundred)}
}

func (p Percent) Equal(q Percent) bool         { return p.value.Equal(q.value) }
func (p Percent) Decimal() decimal.Decimal     { return p.value }
func (p Percent) Round() Percent               { return Percent{value: p.value.Round(displayPlaces)} }
func (p Percent) MarshalJSON() ([]byte, error) { return []byte(p.value.String()), nil }

func (p Percent) String() string {
	return fmt.Sprintf("%s%%", p.value.StringFixed(displayPlaces))
}

func (p Percent) SignedString() string {
	res := p.value.StringFixed(displayPlaces)
	switch {
	case res == "0.00":
		return "-"
	case p.value.IsPositive():
		return "+" + res + "%"
	default:
		return res + "%"
	}
}
