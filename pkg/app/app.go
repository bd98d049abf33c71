// Package app 提供应用程序的初始化和配置功能.
package app

import (
	contextPkg "context"
	"fmt"
	"os"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yeisme/mediavault/pkg/api"
	appcache "github.com/yeisme/mediavault/pkg/cache"
	"github.com/yeisme/mediavault/pkg/configs"
	"github.com/yeisme/mediavault/pkg/internal/jobs"
	eventmq "github.com/yeisme/mediavault/pkg/internal/mq"
	"github.com/yeisme/mediavault/pkg/internal/storage"
	"github.com/yeisme/mediavault/pkg/log"
	"github.com/yeisme/mediavault/pkg/metrics"
	"github.com/yeisme/mediavault/pkg/middleware"
	"github.com/yeisme/mediavault/pkg/scheduler"
	"github.com/yeisme/mediavault/pkg/tracing"
)

type App struct {
	Engine *gin.Engine
	config *configs.AppConfig

	manager *storage.Manager
	sched   *scheduler.Scheduler
}

func NewApp(configPath string) *App {
	ctx := contextPkg.Background()

	// 初始化配置
	if err := configs.InitConfig(configPath); err != nil {
		fmt.Printf("Error initializing config: %v\n", err)
		os.Exit(1)
	}

	log.Init()

	config := configs.GetConfig()

	// 初始化追踪
	if err := tracing.InitTracer(config.Tracing); err != nil {
		fmt.Printf("Error initializing tracing: %v\n", err)
		os.Exit(1)
	}

	// 初始化监控
	if err := metrics.InitMetrics(config.Metrics); err != nil {
		fmt.Printf("Error initializing metrics: %v\n", err)
		os.Exit(1)
	}

	manager, err := storage.Init(ctx)
	if err != nil {
		fmt.Printf("Error initializing storage: %v\n", err)
		os.Exit(1)
	}

	l := log.Logger()
	gin.DefaultWriter = log.NewGinWriter(l, zerolog.InfoLevel)
	gin.DefaultErrorWriter = log.NewGinWriter(l, zerolog.ErrorLevel)

	engine := gin.New()
	engine.Use(
		gin.Recovery(),
		middleware.GinLoggerMiddleware(),
		middleware.CORSMiddleware(config.Server),
		gzip.Gzip(gzip.DefaultCompression),
		middleware.TracingMiddleware(),
		middleware.PrometheusMiddleware(),
		middleware.RateLimitMiddleware(config.RateLimit),
		middleware.CircuitBreakerMiddleware(config.CircuitBreaker),
		middleware.StorageMiddleware(manager),
	)

	a := &App{
		Engine:  engine,
		config:  config,
		manager: manager,
	}

	a.initScheduler()

	if err := eventmq.StartEventLogger(ctx, manager.GetMQClient()); err != nil {
		log.Logger().Warn().Err(err).Msg("start event logger failed")
	}

	api.RegisterGroup(engine, a.readCacheMiddleware())

	if config.Metrics.Enabled {
		_ = metrics.StartMetricsServer(config.Metrics, engine)
	}

	return a
}

// initScheduler 启动调度器并注册业务定时任务.
func (a *App) initScheduler() {
	sched, err := scheduler.NewScheduler()
	if err != nil {
		log.Logger().Error().Err(err).Msg("init scheduler failed, cron jobs disabled")
		return
	}

	if err := jobs.RegisterCronJobs(sched, a.manager); err != nil {
		log.Logger().Error().Err(err).Msg("register cron jobs failed")
	}

	sched.Start()
	a.sched = sched
	a.Engine.Use(middleware.SchedulerMiddleware(sched))
}

// readCacheMiddleware 基于 KV 构建只读端点的响应缓存；KV 不可用时返回 nil.
func (a *App) readCacheMiddleware() gin.HandlerFunc {
	kvClient := a.manager.GetKVClient()
	if kvClient == nil {
		return nil
	}

	return middleware.CacheMiddleware(middleware.CacheConfig{
		Cache: appcache.NewCache(kvClient),
	})
}

func (a *App) Run() error {
	defer a.Close()

	return a.Engine.Run(fmt.Sprintf("%s:%d", a.config.Server.Host, a.config.Server.Port))
}

// Close 释放调度器与存储资源.
func (a *App) Close() {
	if a.sched != nil {
		if err := a.sched.Stop(); err != nil {
			log.Logger().Warn().Err(err).Msg("stop scheduler failed")
		}
	}

	if mqClient := a.manager.GetMQClient(); mqClient != nil {
		if err := mqClient.Close(); err != nil {
			log.Logger().Warn().Err(err).Msg("close mq client failed")
		}
	}

	if kvClient := a.manager.GetKVClient(); kvClient != nil {
		if err := kvClient.Close(); err != nil {
			log.Logger().Warn().Err(err).Msg("close kv client failed")
		}
	}
}
