// Package publisher 价格变动事件的发布端实现：Kafka、Redis 频道与多路扇出
package publisher

import (
	"context"

	"github.com/wyfcoding/stocktracking/internal/stock/domain"
	"github.com/wyfcoding/stocktracking/pkg/mq"
)

// KafkaEventPublisher 将价格变动事件写入 Kafka，消息按证券代码分区
type KafkaEventPublisher struct {
	producer *mq.KafkaProducer
	topic    string
}

// NewKafkaEventPublisher 创建 Kafka 发布端，topic 为空时沿用事件自身的主题
func NewKafkaEventPublisher(producer *mq.KafkaProducer, topic string) domain.EventPublisher {
	return &KafkaEventPublisher{producer: producer, topic: topic}
}

// Publish 实现 domain.EventPublisher
func (p *KafkaEventPublisher) Publish(ctx context.Context, topic string, key string, event any) error {
	if p.topic != "" {
		topic = p.topic
	}
	return p.producer.SendMessage(ctx, topic, key, event)
}
