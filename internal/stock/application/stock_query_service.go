package application

import (
	"context"
	"sort"

	"github.com/wyfcoding/stocktracking/internal/stock/domain"
)

// StockQueryService 处理报价目录的全部查询操作（Queries）
type StockQueryService struct {
	repo domain.StockRepository
}

// NewStockQueryService 创建查询服务
func NewStockQueryService(repo domain.StockRepository) *StockQueryService {
	return &StockQueryService{repo: repo}
}

// GetAllStocks 返回全部报价，按最近更新时间倒序
func (s *StockQueryService) GetAllStocks(ctx context.Context) ([]*StockDTO, error) {
	stocks, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return toStockDTOs(stocks), nil
}

// GetStockBySymbol 按代码查询，大小写不敏感
func (s *StockQueryService) GetStockBySymbol(ctx context.Context, symbol string) (*StockDTO, error) {
	stock, err := s.repo.GetBySymbol(ctx, symbol)
	if err != nil {
		return nil, err
	}
	return toStockDTO(stock), nil
}

// GetTopGainers 涨幅榜：仅含涨跌幅为正的股票，按涨跌幅倒序
func (s *StockQueryService) GetTopGainers(ctx context.Context) ([]*StockDTO, error) {
	stocks, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	gainers := make([]*domain.Stock, 0, len(stocks))
	for _, stock := range stocks {
		if stock.ChangePercentage.IsPositive() {
			gainers = append(gainers, stock)
		}
	}
	sort.SliceStable(gainers, func(i, j int) bool {
		return gainers[i].ChangePercentage.GreaterThan(gainers[j].ChangePercentage)
	})
	return toStockDTOs(gainers), nil
}

// GetTopLosers 跌幅榜：仅含涨跌幅为负的股票，按涨跌幅升序（跌得最狠的在前）
func (s *StockQueryService) GetTopLosers(ctx context.Context) ([]*StockDTO, error) {
	stocks, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	losers := make([]*domain.Stock, 0, len(stocks))
	for _, stock := range stocks {
		if stock.ChangePercentage.IsNegative() {
			losers = append(losers, stock)
		}
	}
	sort.SliceStable(losers, func(i, j int) bool {
		return losers[i].ChangePercentage.LessThan(losers[j].ChangePercentage)
	})
	return toStockDTOs(losers), nil
}
