package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TradeRow is the database form of a Trade, used by the sqlite store.
// The auto-increment ID keeps rows in insertion order.
type TradeRow struct {
	gorm.Model
	OrderID    string          `gorm:"column:order_id"`
	Symbol     string          `gorm:"size:10"`
	OpenDate   Date            `gorm:"type:text"`
	CloseDate  Date            `gorm:"type:text"`
	TotalValue decimal.Decimal `gorm:"type:text"`
	TradeCount int
	DaysHeld   int
	Result     string
}

// TableName keeps the table name stable regardless of the struct name.
func (TradeRow) TableName() string { return "trades" }

// NewTradeRow converts a Trade into its database form.
func NewTradeRow(t Trade) TradeRow {
	return TradeRow{
		OrderID:    t.OrderID,
		Symbol:     t.Symbol,
		OpenDate:   t.OpenDate,
		CloseDate:  t.CloseDate,
		TotalValue: t.TotalValue,
		TradeCount: t.TradeCount,
		DaysHeld:   t.DaysHeld,
		Result:     string(t.Result),
	}
}

// Trade converts the row back to a Trade.
func (r TradeRow) Trade() Trade {
	return Trade{
		OrderID:    r.OrderID,
		Symbol:     r.Symbol,
		OpenDate:   r.OpenDate,
		CloseDate:  r.CloseDate,
		TotalValue: r.TotalValue,
		TradeCount: r.TradeCount,
		DaysHeld:   r.DaysHeld,
		Result:     Result(r.Result),
	}
}
