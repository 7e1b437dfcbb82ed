// Package memory 提供报价仓储的进程内实现，适用于演示环境与测试
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/wyfcoding/stocktracking/internal/stock/domain"
)

// stockRepository 以 map 持有报价，单把读写锁串行化全部写入
type stockRepository struct {
	mu     sync.RWMutex
	stocks map[string]*domain.Stock
}

// NewStockRepository 创建内存仓储实例
func NewStockRepository() domain.StockRepository {
	return &stockRepository{
		stocks: make(map[string]*domain.Stock),
	}
}

func (r *stockRepository) ListAll(ctx context.Context) ([]*domain.Stock, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stocks := make([]*domain.Stock, 0, len(r.stocks))
	for _, s := range r.stocks {
		stocks = append(stocks, s.Clone())
	}
	// LastUpdated 倒序，时间相同时按代码排序保证结果稳定
	sort.Slice(stocks, func(i, j int) bool {
		if stocks[i].LastUpdated.Equal(stocks[j].LastUpdated) {
			return stocks[i].Symbol < stocks[j].Symbol
		}
		return stocks[i].LastUpdated.After(stocks[j].LastUpdated)
	})
	return stocks, nil
}

func (r *stockRepository) GetBySymbol(ctx context.Context, symbol string) (*domain.Stock, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stock, ok := r.stocks[domain.NormalizeSymbol(symbol)]
	if !ok {
		return nil, domain.ErrStockNotFound
	}
	return stock.Clone(), nil
}

func (r *stockRepository) CreateIfAbsent(ctx context.Context, symbol, companyName string, initialPrice decimal.Decimal) (*domain.Stock, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := domain.NormalizeSymbol(symbol)
	if existing, ok := r.stocks[key]; ok {
		return existing.Clone(), false, nil
	}

	stock := domain.NewStock(key, companyName, initialPrice)
	r.stocks[key] = stock
	return stock.Clone(), true, nil
}

func (r *stockRepository) ApplyPriceUpdate(ctx context.Context, symbol string, newPrice decimal.Decimal) (*domain.Stock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stock, ok := r.stocks[domain.NormalizeSymbol(symbol)]
	if !ok {
		return nil, domain.ErrStockNotFound
	}
	stock.ApplyPrice(newPrice)
	return stock.Clone(), nil
}
