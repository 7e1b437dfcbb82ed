package ws

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// writeWait 单次写操作的超时
	writeWait = 10 * time.Second
	// maxMessageSize 入站消息大小上限，推送通道不接收业务数据
	maxMessageSize = 512
)

// Client gorilla 连接上的会话：send 缓冲加独立读写泵
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	pingInterval time.Duration
	pongTimeout  time.Duration
	closeOnce    sync.Once
	logger       *slog.Logger
}

func newClient(hub *Hub, conn *websocket.Conn, queueSize int, pingInterval, pongTimeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		hub:          hub,
		conn:         conn,
		send:         make(chan []byte, queueSize),
		pingInterval: pingInterval,
		pongTimeout:  pongTimeout,
		logger:       logger,
	}
}

// Deliver 实现 Session：非阻塞投递，队列满返回 false
func (c *Client) Deliver(msg []byte) bool {
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// Close 实现 Session：关闭发送通道，写泵随后退出并关闭底层连接
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}

// writePump 唯一的连接写入方，顺序写出广播消息与心跳 ping
func (c *Client) writePump() {
	ticker := time.NewTicker(c.pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.logger.Debug("websocket write failed", "error", err)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump 消费入站帧以驱动 pong 处理，连接断开时负责摘除会话
func (c *Client) readPump() {
	defer c.hub.Unregister(c)

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(c.pongTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.pongTimeout))
	})

	// 推送通道为单向下行，入站数据帧一律丢弃
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
