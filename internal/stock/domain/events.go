package domain

import (
	"context"
	"time"
)

// StockUpdatesTopic 价格变动事件的固定主题
const StockUpdatesTopic = "stock.updates"

// StockPriceChangedEvent 价格变动事件，载荷为更新后的完整报价快照
type StockPriceChangedEvent struct {
	EventID          string    `json:"event_id"`
	Symbol           string    `json:"symbol"`
	CompanyName      string    `json:"company_name"`
	CurrentPrice     string    `json:"current_price"`
	PreviousClose    string    `json:"previous_close"`
	ChangeAmount     string    `json:"change_amount"`
	ChangePercentage string    `json:"change_percentage"`
	DayHigh          string    `json:"day_high"`
	DayLow           string    `json:"day_low"`
	Volume           int64     `json:"volume"`
	Timestamp        time.Time `json:"timestamp"`
}

// NewStockPriceChangedEvent 由报价快照构造事件，金额统一保留两位小数
func NewStockPriceChangedEvent(eventID string, s *Stock) *StockPriceChangedEvent {
	return &StockPriceChangedEvent{
		EventID:          eventID,
		Symbol:           s.Symbol,
		CompanyName:      s.CompanyName,
		CurrentPrice:     s.CurrentPrice.StringFixed(2),
		PreviousClose:    s.PreviousClose.StringFixed(2),
		ChangeAmount:     s.ChangeAmount.StringFixed(2),
		ChangePercentage: s.ChangePercentage.StringFixed(2),
		DayHigh:          s.DayHigh.StringFixed(2),
		DayLow:           s.DayLow.StringFixed(2),
		Volume:           s.Volume,
		Timestamp:        s.LastUpdated,
	}
}

// EventPublisher 价格变动事件的发布契约。投递尽力而为，不保证送达。
type EventPublisher interface {
	Publish(ctx context.Context, topic string, key string, event any) error
}
