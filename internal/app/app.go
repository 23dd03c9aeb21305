package app

import (
	"context"

	"go-madrasah/internal/config"
	"go-madrasah/internal/metrics"
	"go-madrasah/internal/middleware"
	"go-madrasah/internal/notification"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// App owns the api process's background machinery. Shutdown must be called
// after the HTTP server stops accepting requests.
type App struct {
	infra      *infra
	dispatcher *notification.Dispatcher
	scheduler  *cron.Cron
	cancel     context.CancelFunc
	logger     *zap.Logger
}

func BuildApp(router *gin.Engine, cfg *config.Config) (*App, error) {
	logger := zap.L().Named("app.api")

	inf, err := connectInfra(cfg, true, zap.L())
	if err != nil {
		return nil, err
	}
	logger.Info("infrastructure connected", zap.String("cache_backend", cfg.Cache.Backend))

	inf.metrics = metrics.New(prometheus.DefaultRegisterer)

	router.Use(middleware.ContextLogger(zap.L()), middleware.HTTPMetrics(inf.metrics))
	router.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	ctx, cancel := context.WithCancel(context.Background())

	email := notification.NewLogSender(zap.L())
	if cfg.Notification.SendGridAPIKey != "" {
		email = notification.NewSendGridSender(
			cfg.Notification.SendGridAPIKey,
			cfg.Notification.FromName,
			cfg.Notification.FromEmail,
			cfg.Notification.FromName,
		)
	}
	dispatcher := notification.NewDispatcher(
		notification.NewStore(inf.gormDB),
		email,
		notification.DispatcherConfig{Workers: cfg.Notification.Workers, QueueSize: cfg.Notification.QueueSize},
		inf.metrics,
		inf.clock,
		zap.L(),
	)
	dispatcher.Start(ctx)

	if err := registerModules(router, inf, dispatcher); err != nil {
		cancel()
		dispatcher.Stop()
		inf.Close()
		return nil, err
	}

	a := &App{infra: inf, dispatcher: dispatcher, cancel: cancel, logger: logger}

	if inf.memory != nil {
		scheduler, err := newCacheSweeper(inf.memory, cfg.Cache.SweepEvery, zap.L())
		if err != nil {
			a.Shutdown(ctx)
			return nil, err
		}
		scheduler.Start()
		a.scheduler = scheduler
	}

	return a, nil
}

func (a *App) Shutdown(ctx context.Context) {
	if a.scheduler != nil {
		<-a.scheduler.Stop().Done()
	}
	a.dispatcher.Stop()
	a.cancel()
	a.infra.Close()
	a.logger.Info("background workers stopped")
}
