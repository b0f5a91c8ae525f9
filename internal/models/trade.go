package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Result classifies the outcome of a closed trade.
type Result string

const (
	ResultWin       Result = "Win"
	ResultLoss      Result = "Loss"
	ResultBreakEven Result = "Break-even"
)

// Results lists the selectable outcomes in the order the form offers them.
var Results = []Result{ResultWin, ResultLoss, ResultBreakEven}

func (r Result) String() string { return string(r) }

// Valid reports whether r is one of the known outcomes.
func (r Result) Valid() bool {
	switch r {
	case ResultWin, ResultLoss, ResultBreakEven:
		return true
	default:
		return false
	}
}

// ParseResult matches s against the known outcomes.
func ParseResult(s string) (Result, bool) {
	r := Result(strings.TrimSpace(s))
	if !r.Valid() {
		return "", false
	}
	return r, true
}

// Trade represents one logged options trade.
type Trade struct {
	OrderID    string
	Symbol     string
	OpenDate   Date
	CloseDate  Date
	TotalValue decimal.Decimal // profit or loss, may be negative
	TradeCount int             // number of legs
	DaysHeld   int
	Result     Result

	raw []string
}

// WithRaw returns a copy of t that remembers the text it was read from.
func (t Trade) WithRaw(fields []string) Trade {
	t.raw = append([]string(nil), fields...)
	return t
}

// Raw returns the text t was read from, or nil for trades built in memory.
// Callers must not modify the returned slice.
func (t Trade) Raw() []string { return t.raw }

// HoldingDays returns CloseDate minus OpenDate in days.
func (t Trade) HoldingDays() int { return t.CloseDate.Sub(t.OpenDate) }

// Equal compares two trades field by field, with TotalValue compared numerically.
func (t Trade) Equal(o Trade) bool {
	return t.OrderID == o.OrderID &&
		t.Symbol == o.Symbol &&
		t.OpenDate == o.OpenDate &&
		t.CloseDate == o.CloseDate &&
		t.TotalValue.Equal(o.TotalValue) &&
		t.TradeCount == o.TradeCount &&
		t.DaysHeld == o.DaysHeld &&
		t.Result == o.Result
}

// TradeSet is the ordered trade log. Insertion order is file order.
type TradeSet []Trade

// Clone returns a copy that does not share its backing array with s.
func (s TradeSet) Clone() TradeSet {
	out := make(TradeSet, len(s))
	copy(out, s)
	return out
}

// Equal reports whether both sets hold equal trades in the same order.
func (s TradeSet) Equal(o TradeSet) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if !s[i].Equal(o[i]) {
			return false
		}
	}
	return true
}
