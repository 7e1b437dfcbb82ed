package domain_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wyfcoding/stocktracking/internal/stock/domain"
)

func TestNewStockInitializesQuote(t *testing.T) {
	price := decimal.RequireFromString("150.00")
	stock := domain.NewStock("aapl", "Apple Inc.", price)

	if stock.Symbol != "AAPL" {
		t.Errorf("Symbol = %q, want AAPL", stock.Symbol)
	}
	if stock.CompanyName != "Apple Inc." {
		t.Errorf("CompanyName = %q, want Apple Inc.", stock.CompanyName)
	}
	if !stock.CurrentPrice.Equal(price) {
		t.Errorf("CurrentPrice = %s, want %s", stock.CurrentPrice, price)
	}
	if !stock.PreviousClose.Equal(price) {
		t.Errorf("PreviousClose = %s, want %s", stock.PreviousClose, price)
	}
	if !stock.DayHigh.Equal(price) || !stock.DayLow.Equal(price) {
		t.Errorf("DayHigh/DayLow = %s/%s, want both %s", stock.DayHigh, stock.DayLow, price)
	}
	if !stock.ChangeAmount.IsZero() || !stock.ChangePercentage.IsZero() {
		t.Errorf("change metrics = %s/%s, want zero", stock.ChangeAmount, stock.ChangePercentage)
	}
	if stock.Volume != 0 {
		t.Errorf("Volume = %d, want 0", stock.Volume)
	}
	if stock.LastUpdated.IsZero() {
		t.Error("LastUpdated should be set on creation")
	}
}

func TestApplyPriceRecomputesChangeMetrics(t *testing.T) {
	stock := domain.NewStock("AAPL", "Apple Inc.", decimal.RequireFromString("150.00"))

	stock.ApplyPrice(decimal.RequireFromString("151.26"))

	if got := stock.ChangeAmount.StringFixed(2); got != "1.26" {
		t.Errorf("ChangeAmount = %s, want 1.26", got)
	}
	if got := stock.ChangePercentage.StringFixed(2); got != "0.84" {
		t.Errorf("ChangePercentage = %s, want 0.84", got)
	}
	if got := stock.CurrentPrice.StringFixed(2); got != "151.26" {
		t.Errorf("CurrentPrice = %s, want 151.26", got)
	}
	if got := stock.PreviousClose.StringFixed(2); got != "150.00" {
		t.Errorf("PreviousClose = %s, want 150.00 (must stay fixed)", got)
	}
}

// 涨跌幅保留两位小数，恰好一半时远离零舍入（161/160 -> 0.625% -> 0.63%）。
func TestApplyPriceRoundsPercentageHalfAwayFromZero(t *testing.T) {
	tests := []struct {
		name     string
		newPrice string
		want     string
	}{
		{"positive half", "161.00", "0.63"},
		{"negative half", "159.00", "-0.63"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stock := domain.NewStock("MSFT", "Microsoft Corporation", decimal.RequireFromString("160.00"))
			stock.ApplyPrice(decimal.RequireFromString(tt.newPrice))
			if got := stock.ChangePercentage.StringFixed(2); got != tt.want {
				t.Errorf("ChangePercentage = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestApplyPriceZeroPreviousClose(t *testing.T) {
	stock := &domain.Stock{
		Symbol:        "ZERO",
		CompanyName:   "Zero Base Corp",
		PreviousClose: decimal.Zero,
		DayHigh:       decimal.Zero,
		DayLow:        decimal.Zero,
	}

	stock.ApplyPrice(decimal.RequireFromString("10.00"))

	if !stock.ChangePercentage.IsZero() {
		t.Errorf("ChangePercentage = %s, want 0 when previous close is zero", stock.ChangePercentage)
	}
	if got := stock.ChangeAmount.StringFixed(2); got != "10.00" {
		t.Errorf("ChangeAmount = %s, want 10.00", got)
	}
}

func TestApplyPriceWidensExtrema(t *testing.T) {
	stock := domain.NewStock("TSLA", "Tesla Inc.", decimal.RequireFromString("800.00"))

	stock.ApplyPrice(decimal.RequireFromString("790.00"))
	stock.ApplyPrice(decimal.RequireFromString("812.50"))
	stock.ApplyPrice(decimal.RequireFromString("805.00"))

	if got := stock.DayHigh.StringFixed(2); got != "812.50" {
		t.Errorf("DayHigh = %s, want 812.50", got)
	}
	if got := stock.DayLow.StringFixed(2); got != "790.00" {
		t.Errorf("DayLow = %s, want 790.00", got)
	}
	if got := stock.CurrentPrice.StringFixed(2); got != "805.00" {
		t.Errorf("CurrentPrice = %s, want 805.00", got)
	}
}

func TestApplyPriceAdvancesLastUpdated(t *testing.T) {
	stock := domain.NewStock("NVDA", "NVIDIA Corporation", decimal.RequireFromString("450.00"))
	created := stock.LastUpdated

	time.Sleep(time.Millisecond)
	stock.ApplyPrice(decimal.RequireFromString("451.00"))

	if !stock.LastUpdated.After(created) {
		t.Errorf("LastUpdated = %v, want after %v", stock.LastUpdated, created)
	}
}

func TestNormalizeSymbol(t *testing.T) {
	if got := domain.NormalizeSymbol(" aapl "); got != "AAPL" {
		t.Errorf("NormalizeSymbol = %q, want AAPL", got)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	stock := domain.NewStock("AMD", "Advanced Micro Devices", decimal.RequireFromString("110.00"))
	clone := stock.Clone()

	clone.ApplyPrice(decimal.RequireFromString("120.00"))

	if got := stock.CurrentPrice.StringFixed(2); got != "110.00" {
		t.Errorf("original CurrentPrice = %s, want 110.00 after mutating clone", got)
	}
}

func TestNewStockPriceChangedEventCarriesSnapshot(t *testing.T) {
	stock := domain.NewStock("GOOGL", "Alphabet Inc.", decimal.RequireFromString("2800.00"))
	stock.ApplyPrice(decimal.RequireFromString("2828.00"))

	event := domain.NewStockPriceChangedEvent("evt-1", stock)

	if event.EventID != "evt-1" {
		t.Errorf("EventID = %q, want evt-1", event.EventID)
	}
	if event.Symbol != "GOOGL" {
		t.Errorf("Symbol = %q, want GOOGL", event.Symbol)
	}
	if event.CurrentPrice != "2828.00" {
		t.Errorf("CurrentPrice = %q, want 2828.00", event.CurrentPrice)
	}
	if event.ChangePercentage != "1.00" {
		t.Errorf("ChangePercentage = %q, want 1.00", event.ChangePercentage)
	}
	if !event.Timestamp.Equal(stock.LastUpdated) {
		t.Errorf("Timestamp = %v, want %v", event.Timestamp, stock.LastUpdated)
	}
}
