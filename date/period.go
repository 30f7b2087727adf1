package date

import (
	"fmt"
	"strings"
)

// Period is a sampling granularity of a price series.
type Period int

func (p Period) String() string {
	switch p {
	case Daily:
		return "daily"
	case Weekly:
		return "weekly"
	case Monthly:
		return "monthly"
	case Quarterly:
		return "quarterly"
	case Yearly:
		return "yearly"
	default:
		panic(fmt.Sprintf("unknown period %d", p))
	}
}

const (
	Daily Period = iota
	Weekly
	Monthly
	Quarterly
	Yearly
)

// ParsePeriod parses a period name, or the interval codes market data
// providers use ("1d", "1wk", "1mo", "3mo", "1y").
func ParsePeriod(p string) (Period, error) {
	p = strings.ToLower(strings.TrimSpace(p))
	switch p {
	case "daily", "day", "1d":
		return Daily, nil
	case "weekly", "week", "1wk":
		return Weekly, nil
	case "monthly", "month", "1mo":
		return Monthly, nil
	case "quarterly", "quarter", "3mo":
		return Quarterly, nil
	case "yearly", "year", "1y":
		return Yearly, nil
	default:
		return Daily, fmt.Errorf("unknown period %q", p)
	}
}
