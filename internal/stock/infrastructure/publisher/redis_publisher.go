package publisher

import (
	"context"

	"github.com/wyfcoding/stocktracking/internal/stock/domain"
	"github.com/wyfcoding/stocktracking/pkg/cache"
)

// RedisEventPublisher 将价格变动事件发布到 Redis 频道，供进程外订阅方消费
type RedisEventPublisher struct {
	cache   *cache.RedisCache
	channel string
}

// NewRedisEventPublisher 创建 Redis 频道发布端，channel 为空时沿用事件自身的主题
func NewRedisEventPublisher(c *cache.RedisCache, channel string) domain.EventPublisher {
	return &RedisEventPublisher{cache: c, channel: channel}
}

// Publish 实现 domain.EventPublisher
func (p *RedisEventPublisher) Publish(ctx context.Context, topic string, key string, event any) error {
	channel := p.channel
	if channel == "" {
		channel = topic
	}
	return p.cache.Publish(ctx, channel, event)
}
