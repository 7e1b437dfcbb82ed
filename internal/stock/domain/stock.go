// Package domain 股票行情跟踪的领域模型：报价实体、仓储契约与领域事件
package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrStockNotFound 股票不存在
var ErrStockNotFound = errors.New("stock not found")

var hundred = decimal.NewFromInt(100)

// Stock 股票报价实体，Symbol 为唯一键
type Stock struct {
	// Symbol 证券代码，统一大写，创建后不可变
	Symbol string `json:"symbol"`
	// CompanyName 公司名称
	CompanyName string `json:"company_name"`
	// CurrentPrice 当前价
	CurrentPrice decimal.Decimal `json:"current_price"`
	// PreviousClose 昨收价，创建时等于初始价，价格更新不修改
	PreviousClose decimal.Decimal `json:"previous_close"`
	// ChangeAmount 涨跌额 = CurrentPrice - PreviousClose
	ChangeAmount decimal.Decimal `json:"change_amount"`
	// ChangePercentage 涨跌幅（百分比，保留两位小数）
	ChangePercentage decimal.Decimal `json:"change_percentage"`
	// DayHigh 当日最高价，只会向上扩展
	DayHigh decimal.Decimal `json:"day_high"`
	// DayLow 当日最低价，只会向下扩展
	DayLow decimal.Decimal `json:"day_low"`
	// Volume 成交量，价格更新不修改
	Volume int64 `json:"volume"`
	// LastUpdated 最近一次变更时间
	LastUpdated time.Time `json:"last_updated"`
}

// NormalizeSymbol 证券代码统一为大写并去除首尾空白
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// NewStock 创建报价，PreviousClose/DayHigh/DayLow 均初始化为 initialPrice
func NewStock(symbol, companyName string, initialPrice decimal.Decimal) *Stock {
	return &Stock{
		Symbol:           NormalizeSymbol(symbol),
		CompanyName:      companyName,
		CurrentPrice:     initialPrice,
		PreviousClose:    initialPrice,
		ChangeAmount:     decimal.Zero,
		ChangePercentage: decimal.Zero,
		DayHigh:          initialPrice,
		DayLow:           initialPrice,
		Volume:           0,
		LastUpdated:      time.Now(),
	}
}

// ApplyPrice 以 newPrice 更新当前价：基于 PreviousClose 重算涨跌指标，
// 扩展当日最高/最低价并刷新更新时间。PreviousClose 为零时涨跌幅记为零。
func (s *Stock) ApplyPrice(newPrice decimal.Decimal) {
	s.ChangeAmount = newPrice.Sub(s.PreviousClose)
	if s.PreviousClose.IsZero() {
		s.ChangePercentage = decimal.Zero
	} else {
		s.ChangePercentage = s.ChangeAmount.Div(s.PreviousClose).Mul(hundred).Round(2)
	}
	s.CurrentPrice = newPrice
	if newPrice.GreaterThan(s.DayHigh) {
		s.DayHigh = newPrice
	}
	if newPrice.LessThan(s.DayLow) {
		s.DayLow = newPrice
	}
	s.LastUpdated = time.Now()
}

// Clone 返回报价的独立副本，供并发读取方安全持有
func (s *Stock) Clone() *Stock {
	c := *s
	return &c
}
