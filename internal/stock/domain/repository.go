package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// StockRepository 报价目录的仓储契约。
// 实现必须内部同步：ApplyPriceUpdate 对同一 symbol 的读-改-写串行执行，
// ListAll/GetBySymbol 返回独立副本，与并发写入互不干扰。
type StockRepository interface {
	// ListAll 返回全部报价，按 LastUpdated 倒序
	ListAll(ctx context.Context) ([]*Stock, error)
	// GetBySymbol 按代码查询（大小写不敏感），不存在时返回 ErrStockNotFound
	GetBySymbol(ctx context.Context, symbol string) (*Stock, error)
	// CreateIfAbsent 幂等创建：已存在时原样返回现有记录，created 为 false
	CreateIfAbsent(ctx context.Context, symbol, companyName string, initialPrice decimal.Decimal) (stock *Stock, created bool, err error)
	// ApplyPriceUpdate 原子应用新价格并返回更新后的快照
	ApplyPriceUpdate(ctx context.Context, symbol string, newPrice decimal.Decimal) (*Stock, error)
}
