package mysql

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wyfcoding/stocktracking/internal/stock/domain"
	"github.com/wyfcoding/stocktracking/pkg/db"
)

// stockRepository MySQL 仓储实现，价格更新在事务内持行锁执行
type stockRepository struct {
	db *db.DB
}

// NewStockRepository 创建 MySQL 仓储实例
func NewStockRepository(database *db.DB) domain.StockRepository {
	return &stockRepository{db: database}
}

func (r *stockRepository) ListAll(ctx context.Context) ([]*domain.Stock, error) {
	var models []StockModel
	if err := r.db.WithContext(ctx).Order("last_updated DESC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list stocks: %w", err)
	}

	stocks := make([]*domain.Stock, 0, len(models))
	for i := range models {
		stocks = append(stocks, toStock(&models[i]))
	}
	return stocks, nil
}

func (r *stockRepository) GetBySymbol(ctx context.Context, symbol string) (*domain.Stock, error) {
	var model StockModel
	err := r.db.WithContext(ctx).Where("symbol = ?", domain.NormalizeSymbol(symbol)).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrStockNotFound
		}
		return nil, fmt.Errorf("failed to get stock by symbol: %w", err)
	}
	return toStock(&model), nil
}

func (r *stockRepository) CreateIfAbsent(ctx context.Context, symbol, companyName string, initialPrice decimal.Decimal) (*domain.Stock, bool, error) {
	key := domain.NormalizeSymbol(symbol)

	existing, err := r.GetBySymbol(ctx, key)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, domain.ErrStockNotFound) {
		return nil, false, err
	}

	stock := domain.NewStock(key, companyName, initialPrice)
	inserted, err := r.db.InsertIgnoreConflict(ctx, toStockModel(stock), []string{"symbol"})
	if err != nil {
		return nil, false, fmt.Errorf("failed to create stock %s: %w", key, err)
	}
	if !inserted {
		// 与并发创建竞争失败，读取先到者写入的记录
		existing, err := r.GetBySymbol(ctx, key)
		if err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}
	return stock, true, nil
}

func (r *stockRepository) ApplyPriceUpdate(ctx context.Context, symbol string, newPrice decimal.Decimal) (*domain.Stock, error) {
	key := domain.NormalizeSymbol(symbol)

	var updated *domain.Stock
	err := r.db.WithTx(ctx, func(tx *gorm.DB) error {
		var model StockModel
		err := tx.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
			Where("symbol = ?", key).
			First(&model).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrStockNotFound
			}
			return fmt.Errorf("failed to lock stock %s: %w", key, err)
		}

		stock := toStock(&model)
		stock.ApplyPrice(newPrice)

		next := toStockModel(stock)
		next.ID = model.ID
		next.CreatedAt = model.CreatedAt
		if err := tx.Save(next).Error; err != nil {
			return fmt.Errorf("failed to save stock %s: %w", key, err)
		}

		updated = stock
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
