package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wyfcoding/stocktracking/internal/stock/domain"
	"github.com/wyfcoding/stocktracking/pkg/metrics"
)

// StockManager 处理报价目录的全部写入操作（Commands）。
// 每次成功的价格更新恰好发布一条变动事件；发布失败不回滚已持久化的更新。
type StockManager struct {
	repo      domain.StockRepository
	publisher domain.EventPublisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// NewStockManager 创建写入服务
func NewStockManager(repo domain.StockRepository, publisher domain.EventPublisher, m *metrics.Metrics, logger *slog.Logger) *StockManager {
	return &StockManager{
		repo:      repo,
		publisher: publisher,
		metrics:   m,
		logger:    logger.With("module", "stock_manager"),
	}
}

// EnsureStock 幂等创建：已存在时不做任何修改
func (m *StockManager) EnsureStock(ctx context.Context, symbol, companyName string, initialPrice decimal.Decimal) (*StockDTO, error) {
	stock, created, err := m.repo.CreateIfAbsent(ctx, symbol, companyName, initialPrice)
	if err != nil {
		return nil, fmt.Errorf("create stock %s: %w", symbol, err)
	}
	if created {
		m.logger.Info("stock created",
			"symbol", stock.Symbol,
			"company", stock.CompanyName,
			"price", stock.CurrentPrice,
		)
	}
	return toStockDTO(stock), nil
}

// UpdateStockPrice 应用新价格并广播变动事件
func (m *StockManager) UpdateStockPrice(ctx context.Context, symbol string, newPrice decimal.Decimal) (*StockDTO, error) {
	stock, err := m.repo.ApplyPriceUpdate(ctx, symbol, newPrice)
	if err != nil {
		m.metrics.RecordStockUpdate(false)
		return nil, fmt.Errorf("update stock %s: %w", symbol, err)
	}
	m.metrics.RecordStockUpdate(true)

	event := domain.NewStockPriceChangedEvent(uuid.New().String(), stock)
	if err := m.publisher.Publish(ctx, domain.StockUpdatesTopic, stock.Symbol, event); err != nil {
		m.logger.Warn("failed to publish price change",
			"symbol", stock.Symbol,
			"event_id", event.EventID,
			"error", err,
		)
	}

	m.logger.Debug("stock price updated",
		"symbol", stock.Symbol,
		"price", stock.CurrentPrice,
		"change_percentage", stock.ChangePercentage,
	)
	return toStockDTO(stock), nil
}
