// Package redis 提供报价快照的 Redis 缓存
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/wyfcoding/stocktracking/internal/stock/domain"
	"github.com/wyfcoding/stocktracking/pkg/cache"
)

const keyPrefix = "stocktracker:stock:"

// StockCache 报价快照缓存：键为证券代码，值为 JSON 序列化的完整报价
type StockCache struct {
	cache *cache.RedisCache
	ttl   time.Duration
}

// NewStockCache 创建快照缓存，ttl 控制条目过期时间
func NewStockCache(c *cache.RedisCache, ttl time.Duration) *StockCache {
	return &StockCache{cache: c, ttl: ttl}
}

// Get 查询快照，未命中时 found 为 false
func (s *StockCache) Get(ctx context.Context, symbol string) (*domain.Stock, bool, error) {
	var stock domain.Stock
	found, err := s.cache.GetJSON(ctx, cacheKey(symbol), &stock)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read stock cache: %w", err)
	}
	if !found {
		return nil, false, nil
	}
	return &stock, true, nil
}

// Set 写入快照
func (s *StockCache) Set(ctx context.Context, stock *domain.Stock) error {
	if err := s.cache.SetJSON(ctx, cacheKey(stock.Symbol), stock, s.ttl); err != nil {
		return fmt.Errorf("failed to write stock cache: %w", err)
	}
	return nil
}

func cacheKey(symbol string) string {
	return keyPrefix + domain.NormalizeSymbol(symbol)
}
