// Package metrics 提供 Prometheus helper，包含服务的 counter/gauge/histogram 集合
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/wyfcoding/stocktracking/pkg/logger"
)

// Metrics 指标集合
type Metrics struct {
	// HTTP 请求计数（按方法、路由、状态码）
	HTTPRequestsTotal *prometheus.CounterVec
	// HTTP 请求耗时（按方法、路由）
	HTTPRequestDuration *prometheus.HistogramVec

	// 模拟任务执行计数（按结果：completed, skipped, cancelled, failed）
	SimulationRunsTotal *prometheus.CounterVec
	// 模拟任务单次执行耗时
	SimulationRunDuration prometheus.Histogram

	// 价格更新成功计数
	StockUpdatesTotal prometheus.Counter
	// 价格更新失败计数
	StockUpdateFailuresTotal prometheus.Counter

	// 价格事件发布计数（按通道、结果）
	EventPublishesTotal *prometheus.CounterVec

	// 当前 WebSocket 连接数
	WSClientsConnected prometheus.Gauge
}

// New 创建指标实例
func New(serviceName string) *Metrics {
	return &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stocktracker",
			Subsystem: serviceName,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "stocktracker",
			Subsystem: serviceName,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),

		SimulationRunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stocktracker",
			Subsystem: serviceName,
			Name:      "simulation_runs_total",
			Help:      "Total simulation runs by outcome",
		}, []string{"outcome"}),
		SimulationRunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "stocktracker",
			Subsystem: serviceName,
			Name:      "simulation_run_duration_seconds",
			Help:      "Simulation run duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),

		StockUpdatesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "stocktracker",
			Subsystem: serviceName,
			Name:      "stock_updates_total",
			Help:      "Total successful stock price updates",
		}),
		StockUpdateFailuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "stocktracker",
			Subsystem: serviceName,
			Name:      "stock_update_failures_total",
			Help:      "Total failed stock price updates",
		}),

		EventPublishesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stocktracker",
			Subsystem: serviceName,
			Name:      "event_publishes_total",
			Help:      "Total price change event publishes by sink and result",
		}, []string{"sink", "status"}),

		WSClientsConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "stocktracker",
			Subsystem: serviceName,
			Name:      "ws_clients_connected",
			Help:      "Number of connected websocket clients",
		}),
	}
}

// Register 注册所有指标
func (m *Metrics) Register() error {
	collectors := []prometheus.Collector{
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.SimulationRunsTotal,
		m.SimulationRunDuration,
		m.StockUpdatesTotal,
		m.StockUpdateFailuresTotal,
		m.EventPublishesTotal,
		m.WSClientsConnected,
	}

	for _, collector := range collectors {
		if err := prometheus.DefaultRegisterer.Register(collector); err != nil {
			logger.Error(context.Background(), "Failed to register metric", "error", err)
			return err
		}
	}

	logger.Info(context.Background(), "Metrics registered successfully")
	return nil
}

// RecordHTTPRequest 记录 HTTP 请求
func (m *Metrics) RecordHTTPRequest(method, path string, statusCode int, duration float64) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

// RecordSimulationRun 记录一次模拟任务执行
func (m *Metrics) RecordSimulationRun(outcome string, duration float64) {
	m.SimulationRunsTotal.WithLabelValues(outcome).Inc()
	m.SimulationRunDuration.Observe(duration)
}

// RecordStockUpdate 记录一次价格更新结果
func (m *Metrics) RecordStockUpdate(success bool) {
	if success {
		m.StockUpdatesTotal.Inc()
	} else {
		m.StockUpdateFailuresTotal.Inc()
	}
}

// RecordEventPublish 记录一次事件发布结果
func (m *Metrics) RecordEventPublish(sink string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.EventPublishesTotal.WithLabelValues(sink, status).Inc()
}

// ClientConnected 记录 WebSocket 客户端接入
func (m *Metrics) ClientConnected() {
	m.WSClientsConnected.Inc()
}

// ClientDisconnected 记录 WebSocket 客户端断开
func (m *Metrics) ClientDisconnected() {
	m.WSClientsConnected.Dec()
}

// StartHTTPServer 启动 Prometheus HTTP 服务器
func StartHTTPServer(port int, path string) error {
	if path == "" {
		path = "/metrics"
	}

	http.Handle(path, promhttp.Handler())

	addr := fmt.Sprintf(":%d", port)
	logger.Info(context.Background(), "Starting Prometheus HTTP server", "addr", addr, "path", path)

	go func() {
		if err := http.ListenAndServe(addr, nil); err != nil {
			logger.Error(context.Background(), "Failed to start Prometheus HTTP server", "error", err)
		}
	}()

	return nil
}
