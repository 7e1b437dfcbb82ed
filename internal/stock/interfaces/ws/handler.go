package ws

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/wyfcoding/stocktracking/pkg/logger"
)

// Config 推送通道的连接参数
type Config struct {
	ReadBufferSize  int
	WriteBufferSize int
	SendQueueSize   int
	PingInterval    time.Duration
	PongTimeout     time.Duration
}

// Handler 处理 websocket 升级请求并把连接接入集线器
type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
	cfg      Config
	logger   *slog.Logger
}

// NewHandler 创建升级处理器
func NewHandler(hub *Hub, cfg Config, logger *slog.Logger) *Handler {
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
			CheckOrigin: func(*http.Request) bool {
				return true
			},
		},
		cfg:    cfg,
		logger: logger.With("module", "ws_handler"),
	}
}

// Handle 将 HTTP 连接升级为 websocket
func (h *Handler) Handle(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Error(c.Request.Context(), "websocket upgrade failed", "error", err)
		return
	}

	client := newClient(h.hub, conn, h.cfg.SendQueueSize, h.cfg.PingInterval, h.cfg.PongTimeout, h.logger)
	h.hub.Register(client)

	go client.writePump()
	go client.readPump()
}
