package http_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/wyfcoding/stocktracking/internal/stock/application"
	stockhttp "github.com/wyfcoding/stocktracking/internal/stock/interfaces/http"
	"github.com/wyfcoding/stocktracking/internal/stock/infrastructure/persistence/memory"
	"github.com/wyfcoding/stocktracking/internal/stock/infrastructure/publisher"
	"github.com/wyfcoding/stocktracking/pkg/metrics"
)

func newRouter(t *testing.T) (*gin.Engine, *application.StockApplicationService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := memory.NewStockRepository()
	m := metrics.New("handlertest")
	logger := slog.New(slog.DiscardHandler)
	manager := application.NewStockManager(repo, publisher.NewMultiPublisher(m, logger), m, logger)
	app := application.NewStockApplicationService(manager, application.NewStockQueryService(repo))

	handler := stockhttp.NewStockHandler(app, stockhttp.ServiceInfo{
		Name:        "stocktracker",
		Version:     "1.0.0",
		Description: "Real-time stock price tracking service",
		WSPath:      "/ws",
	})

	router := gin.New()
	handler.RegisterRoutes(router)
	return router, app
}

func seedStocks(t *testing.T, app *application.StockApplicationService) {
	t.Helper()
	ctx := context.Background()
	for _, symbol := range []string{"AAPL", "TSLA", "ORCL"} {
		if _, err := app.EnsureStock(ctx, symbol, symbol+" Corp", decimal.RequireFromString("100.00")); err != nil {
			t.Fatalf("EnsureStock(%s): %v", symbol, err)
		}
	}
	if _, err := app.UpdateStockPrice(ctx, "AAPL", decimal.RequireFromString("105.00")); err != nil {
		t.Fatalf("UpdateStockPrice(AAPL): %v", err)
	}
	if _, err := app.UpdateStockPrice(ctx, "TSLA", decimal.RequireFromString("95.00")); err != nil {
		t.Fatalf("UpdateStockPrice(TSLA): %v", err)
	}
}

func doRequest(t *testing.T, router *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, path, nil)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGetAllStocksReturnsEveryQuote(t *testing.T) {
	router, app := newRouter(t)
	seedStocks(t, app)

	w := doRequest(t, router, "/api/stocks")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var stocks []application.StockDTO
	if err := json.Unmarshal(w.Body.Bytes(), &stocks); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(stocks) != 3 {
		t.Errorf("len = %d, want 3", len(stocks))
	}
}

func TestGetStockBySymbolIsCaseInsensitive(t *testing.T) {
	router, app := newRouter(t)
	seedStocks(t, app)

	w := doRequest(t, router, "/api/stocks/aapl")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var stock application.StockDTO
	if err := json.Unmarshal(w.Body.Bytes(), &stock); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if stock.Symbol != "AAPL" {
		t.Errorf("symbol = %q, want AAPL", stock.Symbol)
	}
	if stock.CurrentPrice != "105.00" {
		t.Errorf("current_price = %q, want 105.00", stock.CurrentPrice)
	}
}

func TestGetStockBySymbolUnknownReturns404(t *testing.T) {
	router, app := newRouter(t)
	seedStocks(t, app)

	w := doRequest(t, router, "/api/stocks/ZZZZ")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["error"] == "" {
		t.Error("404 body must carry an error message")
	}
}

func TestGetTopGainersOnlyPositiveChanges(t *testing.T) {
	router, app := newRouter(t)
	seedStocks(t, app)

	w := doRequest(t, router, "/api/stocks/gainers")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var stocks []application.StockDTO
	if err := json.Unmarshal(w.Body.Bytes(), &stocks); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(stocks) != 1 || stocks[0].Symbol != "AAPL" {
		t.Errorf("gainers = %v, want [AAPL]", stocks)
	}
}

func TestGetTopLosersOnlyNegativeChanges(t *testing.T) {
	router, app := newRouter(t)
	seedStocks(t, app)

	w := doRequest(t, router, "/api/stocks/losers")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var stocks []application.StockDTO
	if err := json.Unmarshal(w.Body.Bytes(), &stocks); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(stocks) != 1 || stocks[0].Symbol != "TSLA" {
		t.Errorf("losers = %v, want [TSLA]", stocks)
	}
}

func TestGetAPIInfoListsEndpoints(t *testing.T) {
	router, _ := newRouter(t)

	w := doRequest(t, router, "/api/info")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var body struct {
		Application string            `json:"application"`
		Version     string            `json:"version"`
		Endpoints   map[string]string `json:"endpoints"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Application != "stocktracker" {
		t.Errorf("application = %q, want stocktracker", body.Application)
	}
	if body.Endpoints["webSocketEndpoint"] != "/ws" {
		t.Errorf("webSocketEndpoint = %q, want /ws", body.Endpoints["webSocketEndpoint"])
	}
	if body.Endpoints["getAllStocks"] != "/api/stocks" {
		t.Errorf("getAllStocks = %q, want /api/stocks", body.Endpoints["getAllStocks"])
	}
}
