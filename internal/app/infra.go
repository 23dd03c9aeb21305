package app

import (
	"database/sql"

	"go-madrasah/internal/attendance"
	"go-madrasah/internal/config"
	"go-madrasah/internal/employee"
	"go-madrasah/internal/leave"
	"go-madrasah/internal/messaging/kafka"
	"go-madrasah/internal/metrics"
	"go-madrasah/internal/notification"
	"go-madrasah/internal/payroll"
	"go-madrasah/internal/shared/cache"
	"go-madrasah/internal/shared/clock"
	"go-madrasah/internal/shared/connection"
	"go-madrasah/internal/shared/counter"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// infra holds the process-wide connections every binary shares.
type infra struct {
	cfg     *config.Config
	db      *sql.DB
	gormDB  *gorm.DB
	rdb     *redis.Client
	cache   cache.Cache
	memory  *cache.Memory
	metrics *metrics.Metrics
	clock   clock.Clock
	logger  *zap.Logger
}

func connectInfra(cfg *config.Config, withRedis bool, logger *zap.Logger) (*infra, error) {
	gormDB, err := connection.ConnectGORMWithRetry(cfg.DB)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}

	inf := &infra{
		cfg:    cfg,
		db:     sqlDB,
		gormDB: gormDB,
		clock:  clock.System(),
		logger: logger,
	}

	if withRedis || cfg.Cache.Backend == config.CacheBackendRedis {
		rdb, err := connection.ConnectRedisWithRetry(cfg.Redis, cfg.DB.MaxRetries)
		if err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
		inf.rdb = rdb
	}

	if cfg.Cache.Backend == config.CacheBackendRedis {
		inf.cache = cache.NewRedis(inf.rdb, "madrasah")
	} else {
		inf.memory = cache.NewMemory(inf.clock)
		inf.cache = inf.memory
	}

	return inf, nil
}

func (i *infra) Close() {
	if i.rdb != nil {
		if err := i.rdb.Close(); err != nil {
			i.logger.Warn("close redis failed", zap.Error(err))
		}
	}
	if err := i.db.Close(); err != nil {
		i.logger.Warn("close database failed", zap.Error(err))
	}
}

// newPayrollService builds the run service. The api and the consumer both
// need it; only the api passes a notifier.
func newPayrollService(i *infra, notifier notification.Notifier) (payroll.Service, payroll.Repository) {
	payrollRepo := payroll.NewRepository(i.gormDB)
	employeeRepo := employee.NewRepository(i.gormDB)
	bridge := payroll.NewBridge(attendance.NewRepository(i.gormDB), leave.NewRepository(i.gormDB))

	svc := payroll.NewService(i.db, payrollRepo, employeeRepo, bridge, payroll.RunOptions{
		Counter:  counter.NewRepository(i.gormDB),
		Outbox:   kafka.NewOutboxRepository(i.db),
		Notifier: notifier,
		Metrics:  i.metrics,
		Clock:    i.clock,
	}, i.logger)
	return svc, payrollRepo
}
