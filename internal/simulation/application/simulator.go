// Package application 行情模拟的应用服务：驱动周期性的随机价格更新
package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/wyfcoding/stocktracking/internal/simulation/domain"
	stockapp "github.com/wyfcoding/stocktracking/internal/stock/application"
	stockdomain "github.com/wyfcoding/stocktracking/internal/stock/domain"
	"github.com/wyfcoding/stocktracking/pkg/metrics"
)

// ErrRunInProgress 上一轮模拟尚未结束
var ErrRunInProgress = errors.New("simulation run already in progress")

// Simulator 单轮行情模拟任务，实现 scheduler.Job。
// 内部守卫保证同一时刻至多一轮在执行，重入的触发直接跳过。
type Simulator struct {
	repo    stockdomain.StockRepository
	manager *stockapp.StockManager
	walk    *domain.RandomWalk
	seeds   []domain.SeedStock
	metrics *metrics.Metrics
	logger  *slog.Logger
	running atomic.Bool
}

// NewSimulator 创建模拟任务
func NewSimulator(
	repo stockdomain.StockRepository,
	manager *stockapp.StockManager,
	walk *domain.RandomWalk,
	seeds []domain.SeedStock,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Simulator {
	return &Simulator{
		repo:    repo,
		manager: manager,
		walk:    walk,
		seeds:   seeds,
		metrics: m,
		logger:  logger.With("module", "simulator"),
	}
}

// Name 实现 scheduler.Job
func (s *Simulator) Name() string {
	return "stock-price-simulation"
}

// Run 执行一轮模拟：补种目录、拉取全量快照、随机选取并逐只更新。
// 选取为有放回抽样，同一代码可能在一轮内被更新多次。
// 单只更新失败仅跳过该只；补种或拉取失败结束本轮，调度周期不受影响。
func (s *Simulator) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		s.metrics.RecordSimulationRun("skipped", 0)
		return ErrRunInProgress
	}
	defer s.running.Store(false)

	start := time.Now()

	if err := s.seedCatalog(ctx); err != nil {
		s.metrics.RecordSimulationRun("failed", time.Since(start).Seconds())
		return fmt.Errorf("seed catalog: %w", err)
	}

	stocks, err := s.repo.ListAll(ctx)
	if err != nil {
		s.metrics.RecordSimulationRun("failed", time.Since(start).Seconds())
		return fmt.Errorf("list stocks: %w", err)
	}
	if len(stocks) == 0 {
		s.metrics.RecordSimulationRun("completed", time.Since(start).Seconds())
		return nil
	}

	planned := s.walk.PickCount(len(stocks))
	updated := 0
	for i := 0; i < planned; i++ {
		if err := ctx.Err(); err != nil {
			s.metrics.RecordSimulationRun("cancelled", time.Since(start).Seconds())
			s.logger.Info("simulation run cancelled", "updated", updated, "planned", planned)
			return err
		}

		pick := stocks[s.walk.PickIndex(len(stocks))]
		next := s.walk.NextPrice(pick.CurrentPrice)
		if _, err := s.manager.UpdateStockPrice(ctx, pick.Symbol, next); err != nil {
			if errors.Is(err, stockdomain.ErrStockNotFound) {
				s.logger.Warn("stock vanished during run", "symbol", pick.Symbol)
			} else {
				s.logger.Error("failed to update stock price", "symbol", pick.Symbol, "error", err)
			}
			continue
		}
		updated++
	}

	s.metrics.RecordSimulationRun("completed", time.Since(start).Seconds())
	s.logger.Debug("simulation run finished",
		"planned", planned,
		"updated", updated,
		"duration", time.Since(start),
	)
	return nil
}

// seedCatalog 幂等补种：已存在的股票保持原状
func (s *Simulator) seedCatalog(ctx context.Context) error {
	for _, seed := range s.seeds {
		if _, err := s.manager.EnsureStock(ctx, seed.Symbol, seed.CompanyName, seed.Price); err != nil {
			return err
		}
	}
	return nil
}
