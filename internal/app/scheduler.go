package app

import (
	"go-madrasah/internal/shared/cache"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// newCacheSweeper schedules PurgeExpired so entries nobody reads again still
// leave memory. Reads already drop expired entries lazily.
func newCacheSweeper(mem *cache.Memory, spec string, logger *zap.Logger) (*cron.Cron, error) {
	log := logger.Named("cache.sweeper")
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		if n := mem.PurgeExpired(); n > 0 {
			log.Debug("expired cache entries purged", zap.Int("purged", n))
		}
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}
