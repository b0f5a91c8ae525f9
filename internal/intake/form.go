package intake

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"trade-tracker-go/internal/models"
)

// MaxSymbolLen is the longest symbol the form accepts.
const MaxSymbolLen = 10

// Form field names, shared with the page template.
const (
	FieldSymbol     = "symbol"
	FieldOrderID    = "order_id"
	FieldResult     = "result"
	FieldTotalValue = "total_value"
	FieldOpenDate   = "open_date"
	FieldCloseDate  = "close_date"
	FieldTradeCount = "trade_count"
)

// Form is one submission of the new-trade form.
type Form struct {
	Symbol     string
	OrderID    string
	Result     models.Result
	TotalValue decimal.Decimal
	OpenDate   models.Date
	CloseDate  models.Date
	TradeCount int
}

// Defaults returns the values the form shows before any input.
func Defaults(today models.Date) Form {
	return Form{
		Result:     models.ResultWin,
		TotalValue: decimal.Zero,
		OpenDate:   today,
		CloseDate:  today,
		TradeCount: 1,
	}
}

// Parse reads a submitted form. Values that cannot be coerced to the field
// type fall back to the default; nothing else is checked.
func Parse(values url.Values, today models.Date) Form {
	f := Defaults(today)

	f.Symbol = truncate(values.Get(FieldSymbol), MaxSymbolLen)
	f.OrderID = values.Get(FieldOrderID)

	if r, ok := models.ParseResult(values.Get(FieldResult)); ok {
		f.Result = r
	}
	if v, err := models.ParseMoney(values.Get(FieldTotalValue)); err == nil {
		f.TotalValue = v
	}
	if d, err := models.ParseDate(values.Get(FieldOpenDate)); err == nil {
		f.OpenDate = d
	}
	if d, err := models.ParseDate(values.Get(FieldCloseDate)); err == nil {
		f.CloseDate = d
	}
	if n, err := strconv.Atoi(strings.TrimSpace(values.Get(FieldTradeCount))); err == nil {
		f.TradeCount = n
	}
	return f
}

// Trade builds the record to append. Days held is derived from the dates
// and may be zero or negative.
func (f Form) Trade() models.Trade {
	return models.Trade{
		OrderID:    f.OrderID,
		Symbol:     strings.ToUpper(f.Symbol),
		OpenDate:   f.OpenDate,
		CloseDate:  f.CloseDate,
		TotalValue: f.TotalValue,
		TradeCount: f.TradeCount,
		DaysHeld:   f.CloseDate.Sub(f.OpenDate),
		Result:     f.Result,
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
