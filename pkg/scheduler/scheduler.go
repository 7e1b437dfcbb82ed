// Package scheduler 基于 robfig/cron 的定时任务封装：注册、启动与优雅停止
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// jobTimeout 单轮任务的执行上限
const jobTimeout = time.Minute

// Job 定时任务契约
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Scheduler cron 调度器封装。任务 panic 自动恢复，
// 上一轮尚未结束时跳过本轮触发，避免任务重叠。
type Scheduler struct {
	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc
	logger *slog.Logger
}

// New 创建调度器
func New(logger *slog.Logger) *Scheduler {
	log := logger.With("module", "scheduler")
	cronLog := &slogAdapter{logger: log}
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cronLog),
			cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
		),
		ctx:    ctx,
		cancel: cancel,
		logger: log,
	}
}

// Register 以 cron 表达式注册任务，支持 @every 语法
func (s *Scheduler) Register(spec string, job Job) error {
	_, err := s.cron.AddFunc(spec, func() {
		runCtx, cancel := context.WithTimeout(s.ctx, jobTimeout)
		defer cancel()

		start := time.Now()
		if err := job.Run(runCtx); err != nil {
			s.logger.Error("scheduled job failed",
				"job", job.Name(),
				"duration", time.Since(start),
				"error", err,
			)
			return
		}
		s.logger.Debug("scheduled job completed", "job", job.Name(), "duration", time.Since(start))
	})
	if err != nil {
		return fmt.Errorf("register job %s: %w", job.Name(), err)
	}

	s.logger.Info("job registered", "job", job.Name(), "spec", spec)
	return nil
}

// Start 启动调度循环
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started")
}

// Stop 停止调度并等待在途任务结束。
// 先取消任务上下文促使长任务尽快收尾，再等待 cron 退出。
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

// slogAdapter 将 cron 的日志接入 slog，cron 的常规输出降为 debug 级
type slogAdapter struct {
	logger *slog.Logger
}

func (a *slogAdapter) Info(msg string, keysAndValues ...any) {
	a.logger.Debug(msg, keysAndValues...)
}

func (a *slogAdapter) Error(err error, msg string, keysAndValues ...any) {
	a.logger.Error(msg, append(keysAndValues, "error", err)...)
}
