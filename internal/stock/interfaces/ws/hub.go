// Package ws 行情推送通道：把价格变动事件实时广播给浏览器客户端
package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/wyfcoding/stocktracking/pkg/metrics"
)

// Session 一条客户端连接的发送端。
// Deliver 必须非阻塞，队列已满返回 false；Close 必须幂等。
type Session interface {
	Deliver(msg []byte) bool
	Close()
}

// Envelope 推送消息的统一包装
type Envelope struct {
	Topic string `json:"topic"`
	Data  any    `json:"data"`
}

// Hub 连接集线器，实现 domain.EventPublisher：每个事件扇出到全部在线客户端。
// 投递尽力而为，发送队列满的慢客户端被直接断开。
type Hub struct {
	mu       sync.RWMutex
	sessions map[Session]bool
	closed   bool

	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewHub 创建集线器
func NewHub(m *metrics.Metrics, logger *slog.Logger) *Hub {
	return &Hub{
		sessions: make(map[Session]bool),
		metrics:  m,
		logger:   logger.With("module", "ws_hub"),
	}
}

// Register 接入新客户端；集线器已关闭时直接断开
func (h *Hub) Register(s Session) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		s.Close()
		return
	}
	h.sessions[s] = true
	total := len(h.sessions)
	h.mu.Unlock()

	h.metrics.ClientConnected()
	h.logger.Debug("websocket client connected", "clients", total)
}

// Unregister 摘除客户端并关闭其发送端，可重复调用
func (h *Hub) Unregister(s Session) {
	h.mu.Lock()
	if _, ok := h.sessions[s]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.sessions, s)
	total := len(h.sessions)
	h.mu.Unlock()

	h.metrics.ClientDisconnected()
	s.Close()
	h.logger.Debug("websocket client disconnected", "clients", total)
}

// Publish 实现 domain.EventPublisher：序列化事件并广播给全部客户端
func (h *Hub) Publish(ctx context.Context, topic string, key string, event any) error {
	data, err := json.Marshal(Envelope{Topic: topic, Data: event})
	if err != nil {
		return fmt.Errorf("marshal push envelope: %w", err)
	}

	var slow []Session
	h.mu.RLock()
	for s := range h.sessions {
		if !s.Deliver(data) {
			slow = append(slow, s)
		}
	}
	h.mu.RUnlock()

	for _, s := range slow {
		h.logger.Warn("dropping slow websocket client", "topic", topic, "key", key)
		h.Unregister(s)
	}
	return nil
}

// ClientCount 当前在线客户端数
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Close 关闭集线器并断开全部客户端，此后的 Register 一律拒绝
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	sessions := make([]Session, 0, len(h.sessions))
	for s := range h.sessions {
		sessions = append(sessions, s)
	}
	h.sessions = make(map[Session]bool)
	h.mu.Unlock()

	for _, s := range sessions {
		h.metrics.ClientDisconnected()
		s.Close()
	}
	h.logger.Info("websocket hub closed", "dropped_clients", len(sessions))
}
