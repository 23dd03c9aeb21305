package bootstrap

import (
	"go-madrasah/internal/config"

	"go.uber.org/zap"
)

// NewLogger builds the process logger for name and installs it as the zap
// global, which packages without an injected logger fall back to.
func NewLogger(cfg *config.Config, name string) (*zap.Logger, error) {
	build := zap.NewDevelopment
	if cfg.IsProduction() {
		build = zap.NewProduction
	}
	logger, err := build()
	if err != nil {
		return nil, err
	}
	logger = logger.With(zap.String("process", name))
	zap.ReplaceGlobals(logger)
	return logger, nil
}
