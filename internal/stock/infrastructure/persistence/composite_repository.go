// Package persistence 组合主仓储与快照缓存，构成读写分层的报价存储
package persistence

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/wyfcoding/stocktracking/internal/stock/domain"
)

// SnapshotCache 快照缓存契约：单只查询优先命中，写入走直写
type SnapshotCache interface {
	Get(ctx context.Context, symbol string) (*domain.Stock, bool, error)
	Set(ctx context.Context, stock *domain.Stock) error
}

// compositeStockRepository 主仓储负责持久化与权威排序，缓存加速单只查询。
// 缓存故障只记录日志，永远不影响主仓储的结果。
type compositeStockRepository struct {
	primary domain.StockRepository
	cache   SnapshotCache
	logger  *slog.Logger
}

// NewCompositeStockRepository 创建组合仓储
func NewCompositeStockRepository(primary domain.StockRepository, cache SnapshotCache, logger *slog.Logger) domain.StockRepository {
	return &compositeStockRepository{
		primary: primary,
		cache:   cache,
		logger:  logger.With("module", "composite_repository"),
	}
}

// ListAll 全量查询始终走主仓储，保证排序权威
func (r *compositeStockRepository) ListAll(ctx context.Context) ([]*domain.Stock, error) {
	return r.primary.ListAll(ctx)
}

func (r *compositeStockRepository) GetBySymbol(ctx context.Context, symbol string) (*domain.Stock, error) {
	cached, found, err := r.cache.Get(ctx, symbol)
	if err != nil {
		r.logger.Warn("stock cache read failed", "symbol", symbol, "error", err)
	} else if found {
		return cached, nil
	}

	stock, err := r.primary.GetBySymbol(ctx, symbol)
	if err != nil {
		return nil, err
	}
	r.backfill(ctx, stock)
	return stock, nil
}

func (r *compositeStockRepository) CreateIfAbsent(ctx context.Context, symbol, companyName string, initialPrice decimal.Decimal) (*domain.Stock, bool, error) {
	stock, created, err := r.primary.CreateIfAbsent(ctx, symbol, companyName, initialPrice)
	if err != nil {
		return nil, false, err
	}
	if created {
		r.backfill(ctx, stock)
	}
	return stock, created, nil
}

func (r *compositeStockRepository) ApplyPriceUpdate(ctx context.Context, symbol string, newPrice decimal.Decimal) (*domain.Stock, error) {
	stock, err := r.primary.ApplyPriceUpdate(ctx, symbol, newPrice)
	if err != nil {
		return nil, err
	}
	r.backfill(ctx, stock)
	return stock, nil
}

func (r *compositeStockRepository) backfill(ctx context.Context, stock *domain.Stock) {
	if err := r.cache.Set(ctx, stock); err != nil {
		r.logger.Warn("stock cache write failed", "symbol", stock.Symbol, "error", err)
	}
}
