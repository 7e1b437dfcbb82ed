// Package http 股票行情的 REST 接口
package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wyfcoding/stocktracking/internal/stock/application"
	"github.com/wyfcoding/stocktracking/internal/stock/domain"
	"github.com/wyfcoding/stocktracking/pkg/logger"
)

// ServiceInfo /api/info 返回的服务元数据
type ServiceInfo struct {
	Name        string
	Version     string
	Description string
	WSPath      string
}

// StockHandler 股票行情 HTTP 处理器
type StockHandler struct {
	app  *application.StockApplicationService
	info ServiceInfo
}

// NewStockHandler 创建 HTTP 处理器
func NewStockHandler(app *application.StockApplicationService, info ServiceInfo) *StockHandler {
	return &StockHandler{app: app, info: info}
}

// RegisterRoutes 注册路由
func (h *StockHandler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		api.GET("/info", h.GetAPIInfo)

		stocks := api.Group("/stocks")
		{
			stocks.GET("", h.GetAllStocks)
			stocks.GET("/gainers", h.GetTopGainers)
			stocks.GET("/losers", h.GetTopLosers)
			stocks.GET("/:symbol", h.GetStockBySymbol)
		}
	}
}

// GetAllStocks 查询全部报价，按最近更新时间倒序
func (h *StockHandler) GetAllStocks(c *gin.Context) {
	stocks, err := h.app.GetAllStocks(c.Request.Context())
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to list stocks", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stocks)
}

// GetStockBySymbol 按代码查询单只股票，大小写不敏感
func (h *StockHandler) GetStockBySymbol(c *gin.Context) {
	symbol := c.Param("symbol")

	stock, err := h.app.GetStockBySymbol(c.Request.Context(), symbol)
	if err != nil {
		if errors.Is(err, domain.ErrStockNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		logger.Error(c.Request.Context(), "Failed to get stock", "symbol", symbol, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stock)
}

// GetTopGainers 涨幅榜
func (h *StockHandler) GetTopGainers(c *gin.Context) {
	stocks, err := h.app.GetTopGainers(c.Request.Context())
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to list gainers", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stocks)
}

// GetTopLosers 跌幅榜
func (h *StockHandler) GetTopLosers(c *gin.Context) {
	stocks, err := h.app.GetTopLosers(c.Request.Context())
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to list losers", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stocks)
}

// GetAPIInfo 服务元数据与端点一览
func (h *StockHandler) GetAPIInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"application": h.info.Name,
		"version":     h.info.Version,
		"description": h.info.Description,
		"endpoints": gin.H{
			"getAllStocks":      "/api/stocks",
			"getStockBySymbol":  "/api/stocks/{symbol}",
			"getTopGainers":     "/api/stocks/gainers",
			"getTopLosers":      "/api/stocks/losers",
			"webSocketEndpoint": h.info.WSPath,
		},
	})
}
