package publisher

import (
	"context"
	"log/slog"

	"github.com/wyfcoding/stocktracking/internal/stock/domain"
	"github.com/wyfcoding/stocktracking/pkg/metrics"
)

type namedSink struct {
	name string
	pub  domain.EventPublisher
}

// MultiPublisher 将事件扇出到全部已注册的发布端。
// 投递尽力而为：单个发布端失败只记录日志与指标，不影响其余发布端，也不上抛。
type MultiPublisher struct {
	sinks   []namedSink
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewMultiPublisher 创建多路发布器
func NewMultiPublisher(m *metrics.Metrics, logger *slog.Logger) *MultiPublisher {
	return &MultiPublisher{
		metrics: m,
		logger:  logger.With("module", "multi_publisher"),
	}
}

// Add 注册发布端，name 用于日志与指标标签。仅限启动期调用。
func (p *MultiPublisher) Add(name string, pub domain.EventPublisher) {
	p.sinks = append(p.sinks, namedSink{name: name, pub: pub})
}

// Publish 实现 domain.EventPublisher
func (p *MultiPublisher) Publish(ctx context.Context, topic string, key string, event any) error {
	for _, sink := range p.sinks {
		err := sink.pub.Publish(ctx, topic, key, event)
		p.metrics.RecordEventPublish(sink.name, err)
		if err != nil {
			p.logger.Warn("event sink publish failed",
				"sink", sink.name,
				"topic", topic,
				"key", key,
				"error", err,
			)
		}
	}
	return nil
}
