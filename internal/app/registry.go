package app

import (
	"go-madrasah/internal/attendance"
	"go-madrasah/internal/attendancerule"
	"go-madrasah/internal/employee"
	"go-madrasah/internal/leave"
	"go-madrasah/internal/messaging/kafka"
	"go-madrasah/internal/middleware"
	"go-madrasah/internal/notification"
	"go-madrasah/internal/payroll"
	"go-madrasah/internal/rbac"
	"go-madrasah/internal/shared/counter"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func registerModules(
	router *gin.Engine,
	inf *infra,
	dispatcher *notification.Dispatcher,
) error {
	logger := zap.L()

	// --- Repositories ---
	attendanceRepo := attendance.NewRepository(inf.gormDB)
	ruleRepo := attendancerule.NewRepository(inf.gormDB)
	counterRepo := counter.NewRepository(inf.gormDB)
	employeeRepo := employee.NewRepository(inf.gormDB)
	leaveRepo := leave.NewRepository(inf.gormDB)
	notificationStore := notification.NewStore(inf.gormDB)
	outboxRepo := kafka.NewOutboxRepository(inf.db)

	// --- RBAC Core ---
	enforcer, err := rbac.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService, err := rbac.NewService(enforcer, rbac.DefaultPermissions, rbac.DefaultInheritance, logger)
	if err != nil {
		return err
	}

	// --- Services ---
	resolver := attendancerule.NewResolver(ruleRepo, inf.cache, inf.cfg.Cache.RuleTTL, logger)
	ruleService := attendancerule.NewService(inf.db, ruleRepo, resolver, logger)
	attendanceService := attendance.NewService(inf.db, attendanceRepo, resolver, attendance.Options{
		Permissions: rbacService,
		Notifier:    dispatcher,
		Outbox:      outboxRepo,
		Metrics:     inf.metrics,
		Clock:       inf.clock,
	}, logger)
	reportService := attendance.NewReportService(attendanceRepo, inf.clock, logger)
	employeeService := employee.NewService(inf.db, employeeRepo, counterRepo, inf.cache, logger)
	leaveService := leave.NewService(inf.db, leaveRepo, employeeRepo, inf.clock, logger)
	notificationService := notification.NewService(notificationStore, inf.clock, logger)
	payrollService, payrollRepo := newPayrollService(inf, dispatcher)
	payrollSetup := payroll.NewSetupService(inf.db, payrollRepo, employeeRepo, inf.clock, logger)

	// --- Handlers ---
	attendanceHandler := attendance.NewHandler(attendanceService, reportService, logger)
	ruleHandler := attendancerule.NewHandler(ruleService, logger)
	employeeHandler := employee.NewHandler(employeeService, logger)
	leaveHandler := leave.NewHandler(leaveService, logger)
	notificationHandler := notification.NewHandler(notificationService, logger)
	payrollHandler := payroll.NewHandler(payrollService, payrollSetup, logger)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	api.Use(
		middleware.RateLimitByIP(rate.Limit(inf.cfg.HTTP.RatePerSecond), inf.cfg.HTTP.Burst),
		middleware.AuthMiddleware(inf.cfg.JWTSecret),
		middleware.AuthenticatedLogger(),
	)
	{
		attendance.RegisterRoutes(api, attendanceHandler, rbacService,
			middleware.RateLimitByTenantUser(rate.Limit(inf.cfg.Sync.RatePerSecond), inf.cfg.Sync.Burst),
			middleware.Idempotency(inf.rdb),
		)
		attendancerule.RegisterRoutes(api, ruleHandler, rbacService)
		employee.RegisterRoutes(api, employeeHandler, rbacService)
		leave.RegisterRoutes(api, leaveHandler, rbacService)
		notification.RegisterRoutes(api, notificationHandler, rbacService)
		payroll.RegisterRoutes(api, payrollHandler, rbacService, middleware.Idempotency(inf.rdb))
		registerCacheRoutes(api, inf.cache)
	}

	return nil
}
