package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go-madrasah/internal/app"
	"go-madrasah/internal/bootstrap"
	"go-madrasah/internal/config"
	"go-madrasah/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := bootstrap.NewLogger(cfg, "api")
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	apperror.Init()
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	application, err := app.BuildApp(r, cfg)
	if err != nil {
		logger.Fatal("build app failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := bootstrap.ServeHTTP(ctx, r, cfg.HTTP, bootstrap.NewStdoutAuditLogger(), application.Shutdown); err != nil {
		logger.Error("http server stopped", zap.Error(err))
	}
}
