package application

import (
	"context"

	"github.com/shopspring/decimal"
)

// StockApplicationService 股票行情服务门面，聚合命令服务与查询服务
type StockApplicationService struct {
	manager *StockManager
	query   *StockQueryService
}

// NewStockApplicationService 创建服务门面
func NewStockApplicationService(manager *StockManager, query *StockQueryService) *StockApplicationService {
	return &StockApplicationService{
		manager: manager,
		query:   query,
	}
}

// EnsureStock 幂等创建
func (s *StockApplicationService) EnsureStock(ctx context.Context, symbol, companyName string, initialPrice decimal.Decimal) (*StockDTO, error) {
	return s.manager.EnsureStock(ctx, symbol, companyName, initialPrice)
}

// UpdateStockPrice 应用新价格并广播变动事件
func (s *StockApplicationService) UpdateStockPrice(ctx context.Context, symbol string, newPrice decimal.Decimal) (*StockDTO, error) {
	return s.manager.UpdateStockPrice(ctx, symbol, newPrice)
}

// GetAllStocks 返回全部报价，按最近更新时间倒序
func (s *StockApplicationService) GetAllStocks(ctx context.Context) ([]*StockDTO, error) {
	return s.query.GetAllStocks(ctx)
}

// GetStockBySymbol 按代码查询，大小写不敏感
func (s *StockApplicationService) GetStockBySymbol(ctx context.Context, symbol string) (*StockDTO, error) {
	return s.query.GetStockBySymbol(ctx, symbol)
}

// GetTopGainers 涨幅榜
func (s *StockApplicationService) GetTopGainers(ctx context.Context) ([]*StockDTO, error) {
	return s.query.GetTopGainers(ctx)
}

// GetTopLosers 跌幅榜
func (s *StockApplicationService) GetTopLosers(ctx context.Context) ([]*StockDTO, error) {
	return s.query.GetTopLosers(ctx)
}
