package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"trade-tracker-go/internal/models"
	"trade-tracker-go/internal/tradecsv"
)

const headerLine = "Order #,Symbol,Open_Date,Close_Date,Total_Value,Trade_Count,Days_Held,Result\n"

func newTrade(symbol string, value string, result models.Result) models.Trade {
	open := models.NewDate(2024, 6, 3)
	closeDate := models.NewDate(2024, 6, 10)
	return models.Trade{
		OrderID:    "ord-" + symbol,
		Symbol:     symbol,
		OpenDate:   open,
		CloseDate:  closeDate,
		TotalValue: decimal.RequireFromString(value),
		TradeCount: 2,
		DaysHeld:   closeDate.Sub(open),
		Result:     result,
	}
}

func writeLog(t *testing.T, path string, set models.TradeSet) {
	t.Helper()
	data, err := tradecsv.Marshal(set)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func TestCSVStore_RoundTrip(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "trade_log.csv")
	s := NewCSVStore(path, true, zap.NewNop())
	require.NoError(t, s.Ensure())

	trade := newTrade("SPY", "-12.34", models.ResultLoss)
	trade.CloseDate = models.NewDate(2024, 6, 1)
	trade.DaysHeld = trade.HoldingDays()

	// Act
	require.NoError(t, s.Append(trade))
	reloaded := NewCSVStore(path, true, zap.NewNop()).Load()

	// Assert
	require.Len(t, reloaded, 1)
	assert.True(t, trade.Equal(reloaded[0]), "got %+v", reloaded[0])
	assert.Equal(t, -2, reloaded[0].DaysHeld)
}

func TestCSVStore_IdempotentLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trade_log.csv")
	writeLog(t, path, models.TradeSet{newTrade("SPY", "1", models.ResultWin), newTrade("QQQ", "2", models.ResultLoss)})

	for _, cached := range []bool{true, false} {
		s := NewCSVStore(path, cached, zap.NewNop())
		first := s.Load()
		second := s.Load()
		assert.Len(t, first, 2)
		assert.True(t, first.Equal(second))
	}
}

func TestCSVStore_MissingFileEquivalence(t *testing.T) {
	dir := t.TempDir()

	missing := NewCSVStore(filepath.Join(dir, "absent.csv"), true, zap.NewNop()).Load()

	testCases := []struct {
		name    string
		content string
	}{
		{name: "Garbage", content: "this is not,a trade log\n\x00\x01"},
		{name: "Wrong header", content: "a,b,c,d,e,f,g,h\n"},
		{name: "Bad row", content: headerLine + "1,SPY,not-a-date,2024-01-01,1,1,0,Win\n"},
		{name: "Empty file", content: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(tc.name, " ", "_")+".csv")
			require.NoError(t, os.WriteFile(path, []byte(tc.content), 0o644))

			malformed := NewCSVStore(path, true, zap.NewNop()).Load()

			assert.Equal(t, missing, malformed)
			assert.NotNil(t, malformed)
			assert.Empty(t, malformed)
		})
	}

	t.Run("Unreadable path", func(t *testing.T) {
		// A directory cannot be parsed as a CSV file.
		got := NewCSVStore(dir, true, zap.NewNop()).Load()
		assert.Equal(t, missing, got)
	})
}

func TestCSVStore_AppendPreservesOrderAndContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trade_log.csv")
	existing := models.TradeSet{
		newTrade("SPY", "100.10", models.ResultWin),
		newTrade("QQQ", "-50", models.ResultLoss),
		newTrade("IWM", "0", models.ResultBreakEven),
	}
	writeLog(t, path, existing)
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	s := NewCSVStore(path, true, zap.NewNop())
	fourth := newTrade("AAPL", "7.77", models.ResultWin)
	require.NoError(t, s.Append(fourth))

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(after), string(before)),
		"prior rows must be byte-for-byte unchanged:\nbefore:\n%s\nafter:\n%s", before, after)

	reloaded := NewCSVStore(path, true, zap.NewNop()).Load()
	require.Len(t, reloaded, 4)
	assert.True(t, existing.Equal(reloaded[:3]))
	assert.True(t, fourth.Equal(reloaded[3]))
}

func TestCSVStore_AppendKeepsHandWrittenRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trade_log.csv")
	handWritten := headerLine +
		"1,SPY,2024-01-02,2024-01-09,100.00,2,7,Win\n" +
		"2,QQQ,2024-01-02 00:00:00,2024-01-03 00:00:00,-12.50,1,1,Loss\n" +
		"3,IWM,2024-1-2,2024-1-2,0.0,1,0,Break-even\n"
	require.NoError(t, os.WriteFile(path, []byte(handWritten), 0o644))

	s := NewCSVStore(path, true, zap.NewNop())
	require.NoError(t, s.Append(newTrade("AAPL", "7.50", models.ResultWin)))

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, handWritten+"ord-AAPL,AAPL,2024-06-03,2024-06-10,7.50,2,7,Win\n", string(after))
}

func TestCSVStore_CachedLoadIsStaleAfterAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trade_log.csv")
	writeLog(t, path, models.TradeSet{newTrade("SPY", "1", models.ResultWin)})

	s := NewCSVStore(path, true, zap.NewNop())
	before := s.Load()
	require.Len(t, before, 1)

	require.NoError(t, s.Append(newTrade("QQQ", "2", models.ResultLoss)))

	// The memoized set is not refreshed by Append.
	assert.Len(t, s.Load(), 1)
	// The file itself holds both records.
	assert.Len(t, NewCSVStore(path, false, zap.NewNop()).Load(), 2)
}

func TestCSVStore_CachedAppendsBuildOnMemoizedSet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trade_log.csv")
	s := NewCSVStore(path, true, zap.NewNop())
	require.NoError(t, s.Ensure())

	require.NoError(t, s.Append(newTrade("SPY", "1", models.ResultWin)))
	require.NoError(t, s.Append(newTrade("QQQ", "2", models.ResultLoss)))

	// Each append rewrites memoized set plus one record, so the second
	// append replaces the first until the process reloads.
	onDisk := NewCSVStore(path, false, zap.NewNop()).Load()
	require.Len(t, onDisk, 1)
	assert.Equal(t, "QQQ", onDisk[0].Symbol)
}

func TestCSVStore_UncachedLoadSeesAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trade_log.csv")
	s := NewCSVStore(path, false, zap.NewNop())
	require.NoError(t, s.Ensure())

	require.NoError(t, s.Append(newTrade("SPY", "1", models.ResultWin)))
	require.NoError(t, s.Append(newTrade("QQQ", "2", models.ResultLoss)))

	got := s.Load()
	require.Len(t, got, 2)
	assert.Equal(t, "SPY", got[0].Symbol)
	assert.Equal(t, "QQQ", got[1].Symbol)
}

func TestCSVStore_AppendDoesNotMutateLoadedSet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trade_log.csv")
	writeLog(t, path, models.TradeSet{newTrade("SPY", "1", models.ResultWin)})

	s := NewCSVStore(path, true, zap.NewNop())
	loaded := s.Load()
	loaded = append(loaded[:0:0], loaded...)

	require.NoError(t, s.Append(newTrade("QQQ", "2", models.ResultLoss)))
	assert.True(t, loaded.Equal(s.Load()))
}

func TestCSVStore_Ensure(t *testing.T) {
	t.Run("Creates header-only file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "trade_log.csv")
		s := NewCSVStore(path, true, zap.NewNop())

		require.NoError(t, s.Ensure())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, headerLine, string(data))
		assert.Empty(t, s.Load())
	})

	t.Run("Leaves existing file alone", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "trade_log.csv")
		require.NoError(t, os.WriteFile(path, []byte("corrupt"), 0o644))

		require.NoError(t, NewCSVStore(path, true, zap.NewNop()).Ensure())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "corrupt", string(data))
	})
}

func TestCSVStore_AppendFailsWhenDirectoryMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "trade_log.csv")
	s := NewCSVStore(path, true, zap.NewNop())

	err := s.Append(newTrade("SPY", "1", models.ResultWin))
	assert.ErrorContains(t, err, "failed to create temp trade log")
}
