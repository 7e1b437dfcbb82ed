// Package mysql 提供报价仓储的 MySQL GORM 实现
package mysql

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/wyfcoding/stocktracking/internal/stock/domain"
)

// StockModel 股票报价数据库模型
type StockModel struct {
	gorm.Model
	Symbol           string          `gorm:"column:symbol;type:varchar(20);uniqueIndex;not null;comment:证券代码"`
	CompanyName      string          `gorm:"column:company_name;type:varchar(100);not null;comment:公司名称"`
	CurrentPrice     decimal.Decimal `gorm:"column:current_price;type:decimal(10,2);not null;comment:当前价"`
	PreviousClose    decimal.Decimal `gorm:"column:previous_close;type:decimal(10,2);not null;comment:昨收价"`
	ChangeAmount     decimal.Decimal `gorm:"column:change_amount;type:decimal(10,2);not null;comment:涨跌额"`
	ChangePercentage decimal.Decimal `gorm:"column:change_percentage;type:decimal(10,2);not null;comment:涨跌幅"`
	DayHigh          decimal.Decimal `gorm:"column:day_high;type:decimal(10,2);not null;comment:当日最高价"`
	DayLow           decimal.Decimal `gorm:"column:day_low;type:decimal(10,2);not null;comment:当日最低价"`
	Volume           int64           `gorm:"column:volume;type:bigint;not null;default:0;comment:成交量"`
	LastUpdated      time.Time       `gorm:"column:last_updated;type:datetime(3);index;not null;comment:最近更新时间"`
}

// TableName 指定表名
func (StockModel) TableName() string {
	return "stocks"
}

// toStockModel 领域实体转数据库模型
func toStockModel(s *domain.Stock) *StockModel {
	return &StockModel{
		Symbol:           s.Symbol,
		CompanyName:      s.CompanyName,
		CurrentPrice:     s.CurrentPrice,
		PreviousClose:    s.PreviousClose,
		ChangeAmount:     s.ChangeAmount,
		ChangePercentage: s.ChangePercentage,
		DayHigh:          s.DayHigh,
		DayLow:           s.DayLow,
		Volume:           s.Volume,
		LastUpdated:      s.LastUpdated,
	}
}

// toStock 数据库模型转领域实体
func toStock(m *StockModel) *domain.Stock {
	return &domain.Stock{
		Symbol:           m.Symbol,
		CompanyName:      m.CompanyName,
		CurrentPrice:     m.CurrentPrice,
		PreviousClose:    m.PreviousClose,
		ChangeAmount:     m.ChangeAmount,
		ChangePercentage: m.ChangePercentage,
		DayHigh:          m.DayHigh,
		DayLow:           m.DayLow,
		Volume:           m.Volume,
		LastUpdated:      m.LastUpdated,
	}
}
