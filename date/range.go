package date

import "fmt"

// Range represents the half-open range of days [From, To).
type Range struct{ From, To Date }

// Between returns the range that starts on 'from' and stops the day before 'until'.
//
// It is the usual half-open [start, end) convention of market data queries.
func Between(from, until Date) (Range, error) {
	if !from.Before(until) {
		return Range{}, fmt.Errorf("empty date range: %s is not before %s", from, until)
	}
	return Range{From: from, To: until}, nil
}

// Contains return true if date is in the range: on or after From, and before To.
func (r Range) Contains(date Date) bool { return !date.Before(r.From) && date.Before(r.To) }

func (r Range) String() string { return fmt.Sprintf("[%s, %s)", r.From, r.To) }
