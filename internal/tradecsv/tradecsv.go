// Package tradecsv reads and writes the trade log CSV format.
//
// The format is a UTF-8 CSV file whose first row is exactly Header. Each
// following row holds one trade: dates as YYYY-MM-DD, Total_Value as a plain
// decimal, Trade_Count and Days_Held as integers.
//
// Rows that were read from a file are written back with their original text,
// so rewriting a log does not reformat entries made by other tools.
package tradecsv

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"trade-tracker-go/internal/models"
)

// Header is the column schema of the trade log, in file order.
var Header = []string{
	"Order #", "Symbol", "Open_Date", "Close_Date",
	"Total_Value", "Trade_Count", "Days_Held", "Result",
}

var (
	// ErrHeader is returned when the first row does not match Header.
	ErrHeader = errors.New("unexpected trade log header")
	// ErrRecord is returned when a data row cannot be parsed.
	ErrRecord = errors.New("malformed trade record")
)

// FileName is the name offered for downloads of the trade log.
const FileName = "trade_log.csv"

// ContentType is the MIME type of the trade log.
const ContentType = "text/csv"

// Read parses a full trade log from r.
func Read(r io.Reader) (models.TradeSet, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)

	head, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty file", ErrHeader)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHeader, err)
	}
	head[0] = strings.TrimPrefix(head[0], "\ufeff")
	for i, col := range Header {
		if head[i] != col {
			return nil, fmt.Errorf("%w: column %d is %q, want %q", ErrHeader, i+1, head[i], col)
		}
	}

	set := models.TradeSet{}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRecord, err)
		}
		line, _ := cr.FieldPos(0)
		trade, err := parseRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrRecord, line, err)
		}
		set = append(set, trade)
	}
	return set, nil
}

func parseRecord(rec []string) (models.Trade, error) {
	open, err := models.ParseDate(rec[2])
	if err != nil {
		return models.Trade{}, fmt.Errorf("Open_Date: %w", err)
	}
	closeDate, err := models.ParseDate(rec[3])
	if err != nil {
		return models.Trade{}, fmt.Errorf("Close_Date: %w", err)
	}
	value, err := models.ParseMoney(rec[4])
	if err != nil {
		return models.Trade{}, fmt.Errorf("Total_Value: %w", err)
	}
	count, err := strconv.Atoi(strings.TrimSpace(rec[5]))
	if err != nil {
		return models.Trade{}, fmt.Errorf("Trade_Count: %w", err)
	}
	days, err := strconv.Atoi(strings.TrimSpace(rec[6]))
	if err != nil {
		return models.Trade{}, fmt.Errorf("Days_Held: %w", err)
	}

	return models.Trade{
		OrderID:    rec[0],
		Symbol:     rec[1],
		OpenDate:   open,
		CloseDate:  closeDate,
		TotalValue: value,
		TradeCount: count,
		DaysHeld:   days,
		Result:     models.Result(rec[7]),
	}.WithRaw(rec), nil
}

// Write writes the header followed by one row per trade.
func Write(w io.Writer, set models.TradeSet) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, t := range set {
		if err := cw.Write(record(t)); err != nil {
			return fmt.Errorf("failed to write trade %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Marshal returns the CSV encoding of set.
func Marshal(set models.TradeSet) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, set); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func record(t models.Trade) []string {
	if raw := t.Raw(); len(raw) == len(Header) {
		if orig, err := parseRecord(raw); err == nil && orig.Equal(t) {
			return raw
		}
	}
	return []string{
		t.OrderID,
		t.Symbol,
		t.OpenDate.String(),
		t.CloseDate.String(),
		models.FormatMoney(t.TotalValue),
		strconv.Itoa(t.TradeCount),
		strconv.Itoa(t.DaysHeld),
		t.Result.String(),
	}
}
