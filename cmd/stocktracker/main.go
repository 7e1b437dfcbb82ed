package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	simapp "github.com/wyfcoding/stocktracking/internal/simulation/application"
	simdomain "github.com/wyfcoding/stocktracking/internal/simulation/domain"
	"github.com/wyfcoding/stocktracking/internal/stock/application"
	stockdomain "github.com/wyfcoding/stocktracking/internal/stock/domain"
	"github.com/wyfcoding/stocktracking/internal/stock/infrastructure/persistence"
	"github.com/wyfcoding/stocktracking/internal/stock/infrastructure/persistence/memory"
	"github.com/wyfcoding/stocktracking/internal/stock/infrastructure/persistence/mysql"
	persistenceredis "github.com/wyfcoding/stocktracking/internal/stock/infrastructure/persistence/redis"
	"github.com/wyfcoding/stocktracking/internal/stock/infrastructure/publisher"
	stockhttp "github.com/wyfcoding/stocktracking/internal/stock/interfaces/http"
	"github.com/wyfcoding/stocktracking/internal/stock/interfaces/ws"
	"github.com/wyfcoding/stocktracking/pkg/cache"
	"github.com/wyfcoding/stocktracking/pkg/config"
	"github.com/wyfcoding/stocktracking/pkg/db"
	"github.com/wyfcoding/stocktracking/pkg/logger"
	"github.com/wyfcoding/stocktracking/pkg/metrics"
	"github.com/wyfcoding/stocktracking/pkg/middleware"
	"github.com/wyfcoding/stocktracking/pkg/mq"
	"github.com/wyfcoding/stocktracking/pkg/ratelimit"
	"github.com/wyfcoding/stocktracking/pkg/scheduler"
	"github.com/wyfcoding/stocktracking/pkg/utils"
)

var configPath = flag.String("config", "configs/stocktracker/config.toml", "config file path")

func main() {
	flag.Parse()
	ctx := context.Background()

	// 1. Config
	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	// 2. Logger
	if err := logger.Init(logger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		FilePath:   cfg.Logger.FilePath,
		MaxSize:    cfg.Logger.MaxSize,
		MaxBackups: cfg.Logger.MaxBackups,
		MaxAge:     cfg.Logger.MaxAge,
		Compress:   cfg.Logger.Compress,
		WithCaller: cfg.Logger.WithCaller,
	}); err != nil {
		panic(fmt.Sprintf("failed to init logger: %v", err))
	}
	logger.Info(ctx, "starting service",
		"service", cfg.ServiceName,
		"version", cfg.Version,
		"environment", cfg.Environment,
	)

	// 3. Metrics
	m := metrics.New(cfg.ServiceName)
	if err := m.Register(); err != nil {
		logger.Fatal(ctx, "failed to register metrics", "error", err)
	}
	if cfg.Metrics.Enabled {
		if err := metrics.StartHTTPServer(cfg.Metrics.Port, cfg.Metrics.Path); err != nil {
			logger.Fatal(ctx, "failed to start metrics server", "error", err)
		}
	}

	// 4. Repository
	var repo stockdomain.StockRepository
	switch cfg.Database.Driver {
	case "mysql":
		var database *db.DB
		err := utils.RetryWithBackoff(5, time.Second, 10*time.Second, func() error {
			var err error
			database, err = db.Init(db.Config{
				Driver:             cfg.Database.Driver,
				DSN:                cfg.Database.DSN,
				MaxOpenConns:       cfg.Database.MaxOpenConns,
				MaxIdleConns:       cfg.Database.MaxIdleConns,
				ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
				LogEnabled:         cfg.Database.LogEnabled,
				SlowQueryThreshold: cfg.Database.SlowQueryThreshold,
			})
			return err
		})
		if err != nil {
			logger.Fatal(ctx, "failed to connect database", "error", err)
		}
		defer database.Close()

		if cfg.Environment == "dev" {
			if err := database.AutoMigrate(&mysql.StockModel{}); err != nil {
				logger.Fatal(ctx, "failed to migrate database", "error", err)
			}
		}
		repo = mysql.NewStockRepository(database)
	default:
		repo = memory.NewStockRepository()
	}

	// 5. Redis（可选，报价快照缓存）
	var redisCache *cache.RedisCache
	if cfg.Redis.Enabled {
		err := utils.RetryWithBackoff(5, time.Second, 10*time.Second, func() error {
			var err error
			redisCache, err = cache.New(cache.Config{
				Host:         cfg.Redis.Host,
				Port:         cfg.Redis.Port,
				Password:     cfg.Redis.Password,
				DB:           cfg.Redis.DB,
				MaxPoolSize:  cfg.Redis.MaxPoolSize,
				ConnTimeout:  cfg.Redis.ConnTimeout,
				ReadTimeout:  cfg.Redis.ReadTimeout,
				WriteTimeout: cfg.Redis.WriteTimeout,
			})
			return err
		})
		if err != nil {
			logger.Fatal(ctx, "failed to connect redis", "error", err)
		}
		defer redisCache.Close()

		stockCache := persistenceredis.NewStockCache(redisCache, time.Duration(cfg.Redis.CacheTTL)*time.Second)
		repo = persistence.NewCompositeStockRepository(repo, stockCache, logger.Get())
	}

	// 6. Event sinks：WebSocket 始终接入，Kafka 与 Redis 频道按配置接入
	hub := ws.NewHub(m, logger.Get())
	events := publisher.NewMultiPublisher(m, logger.Get())
	events.Add("websocket", hub)

	if cfg.Kafka.Enabled {
		producer, err := mq.NewProducer(mq.KafkaConfig{
			Brokers:      cfg.Kafka.Brokers,
			MaxRetries:   3,
			RetryBackoff: 100,
			Async:        true,
		})
		if err != nil {
			logger.Fatal(ctx, "failed to create kafka producer", "error", err)
		}
		defer producer.Close()
		events.Add("kafka", publisher.NewKafkaEventPublisher(producer, cfg.Kafka.Topic))
	}
	if cfg.Redis.Enabled {
		events.Add("redis", publisher.NewRedisEventPublisher(redisCache, cfg.Redis.Channel))
	}

	// 7. Application
	manager := application.NewStockManager(repo, events, m, logger.Get())
	query := application.NewStockQueryService(repo)
	app := application.NewStockApplicationService(manager, query)

	// 8. Simulation
	seeds := parseSeeds(ctx, cfg.Simulation.Seeds)
	walk := simdomain.NewRandomWalk(rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
	sim := simapp.NewSimulator(repo, manager, walk, seeds, m, logger.Get())

	sched := scheduler.New(logger.Get())
	if cfg.Simulation.Enabled {
		if err := sched.Register(cfg.Simulation.Interval, sim); err != nil {
			logger.Fatal(ctx, "failed to register simulation job", "error", err)
		}
	}

	// 9. HTTP & WebSocket
	router := buildRouter(cfg, app, hub, redisCache, m)
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
	}

	// 10. Start & graceful shutdown
	sched.Start()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info(ctx, "HTTP server starting", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case sig := <-quit:
			logger.Info(ctx, "shutdown signal received", "signal", sig.String())
		case <-gctx.Done():
		}

		// 先停调度器再关推送通道，保证不再产生新事件后才断开客户端
		sched.Stop()
		hub.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error(ctx, "server exited with error", "error", err)
		return
	}
	logger.Info(ctx, "server exited")
}

// buildRouter 组装 HTTP 路由：通用中间件、REST API、健康检查与 WebSocket 升级入口
func buildRouter(cfg *config.Config, app *application.StockApplicationService, hub *ws.Hub, redisCache *cache.RedisCache, m *metrics.Metrics) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	if cfg.Environment == "dev" {
		gin.SetMode(gin.DebugMode)
	}

	// Redis 可用时用分布式限流器，多副本共享计数；否则退化为进程内令牌桶
	var limiter ratelimit.RateLimiter
	if redisCache != nil {
		limiter = ratelimit.NewRedisRateLimiter(redisCache.Client())
	} else {
		limiter = ratelimit.NewTokenBucketLimiter()
	}

	router := gin.New()
	router.Use(
		middleware.GinLoggingMiddleware(),
		middleware.GinRecoveryMiddleware(),
		middleware.GinCORSMiddleware(),
		middleware.GinMetricsMiddleware(m),
		middleware.GinRateLimitMiddleware(limiter, cfg.HTTP.RateLimit, cfg.HTTP.RateLimitBurst),
	)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"service":   cfg.ServiceName,
			"timestamp": time.Now().Unix(),
		})
	})

	stockHandler := stockhttp.NewStockHandler(app, stockhttp.ServiceInfo{
		Name:        cfg.ServiceName,
		Version:     cfg.Version,
		Description: "Real-time stock price tracking demo",
		WSPath:      cfg.WebSocket.Path,
	})
	stockHandler.RegisterRoutes(router)

	wsHandler := ws.NewHandler(hub, ws.Config{
		ReadBufferSize:  cfg.WebSocket.ReadBufferSize,
		WriteBufferSize: cfg.WebSocket.WriteBufferSize,
		SendQueueSize:   cfg.WebSocket.SendQueueSize,
		PingInterval:    time.Duration(cfg.WebSocket.PingInterval) * time.Second,
		PongTimeout:     time.Duration(cfg.WebSocket.PongTimeout) * time.Second,
	}, logger.Get())
	router.GET(cfg.WebSocket.Path, wsHandler.Handle)

	return router
}

// parseSeeds 把配置里的种子目录转换为领域对象，配置为空时回退到内置目录
func parseSeeds(ctx context.Context, seeds []config.SeedConfig) []simdomain.SeedStock {
	if len(seeds) == 0 {
		logger.Info(ctx, "no seeds configured, using built-in catalog")
		return simdomain.DefaultCatalog()
	}

	out := make([]simdomain.SeedStock, 0, len(seeds))
	for _, s := range seeds {
		price, err := decimal.NewFromString(s.Price)
		if err != nil {
			logger.Fatal(ctx, "invalid seed price", "symbol", s.Symbol, "price", s.Price, "error", err)
		}
		out = append(out, simdomain.SeedStock{
			Symbol:      s.Symbol,
			CompanyName: s.Name,
			Price:       price,
		})
	}
	return out
}
