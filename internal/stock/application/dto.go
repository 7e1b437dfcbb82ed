// Package application 股票行情的应用服务层：命令、查询与服务门面
package application

import (
	"time"

	"github.com/wyfcoding/stocktracking/internal/stock/domain"
)

// StockDTO 对外暴露的报价数据，金额统一保留两位小数
type StockDTO struct {
	Symbol           string    `json:"symbol"`
	CompanyName      string    `json:"company_name"`
	CurrentPrice     string    `json:"current_price"`
	PreviousClose    string    `json:"previous_close"`
	ChangeAmount     string    `json:"change_amount"`
	ChangePercentage string    `json:"change_percentage"`
	DayHigh          string    `json:"day_high"`
	DayLow           string    `json:"day_low"`
	Volume           int64     `json:"volume"`
	LastUpdated      time.Time `json:"last_updated"`
}

func toStockDTO(s *domain.Stock) *StockDTO {
	return &StockDTO{
		Symbol:           s.Symbol,
		CompanyName:      s.CompanyName,
		CurrentPrice:     s.CurrentPrice.StringFixed(2),
		PreviousClose:    s.PreviousClose.StringFixed(2),
		ChangeAmount:     s.ChangeAmount.StringFixed(2),
		ChangePercentage: s.ChangePercentage.StringFixed(2),
		DayHigh:          s.DayHigh.StringFixed(2),
		DayLow:           s.DayLow.StringFixed(2),
		Volume:           s.Volume,
		LastUpdated:      s.LastUpdated,
	}
}

func toStockDTOs(stocks []*domain.Stock) []*StockDTO {
	dtos := make([]*StockDTO, 0, len(stocks))
	for _, s := range stocks {
		dtos = append(dtos, toStockDTO(s))
	}
	return dtos
}
