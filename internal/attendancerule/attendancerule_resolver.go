package attendancerule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-madrasah/internal/shared/cache"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const DefaultCacheTTL = 5 * time.Minute

type ResolveInput struct {
	ClassID *string
	Shift   *string
}

// Resolver picks the rule for a class or shift. It never fails: store errors
// are logged and resolution falls through to the built-in default.
type Resolver struct {
	repo   Repository
	cache  cache.Cache
	ttl    time.Duration
	group  singleflight.Group
	logger *zap.Logger
}

func NewResolver(repo Repository, c cache.Cache, ttl time.Duration, logger ...*zap.Logger) *Resolver {
	l := zap.L().Named("attendancerule.resolver")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendancerule.resolver")
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Resolver{repo: repo, cache: c, ttl: ttl, logger: l}
}

func cacheKey(tenantID string) string {
	return fmt.Sprintf("attendance_rules:%s", tenantID)
}

// Resolve order: class rule, shift rule (only when no class rule matched),
// general rule, default.
func (r *Resolver) Resolve(ctx context.Context, tenantID string, in ResolveInput) AttendanceRule {
	rules, err := r.activeRules(ctx, tenantID)
	if err != nil {
		r.logger.Warn("load attendance rules failed, using default",
			zap.String("tenant_id", tenantID),
			zap.Error(err),
		)
		return DefaultRule()
	}

	if in.ClassID != nil && *in.ClassID != "" {
		for _, rule := range rules {
			if rule.ClassID != nil && rule.ClassID.String() == *in.ClassID {
				return rule
			}
		}
	}

	if in.Shift != nil && *in.Shift != "" {
		for _, rule := range rules {
			if rule.Shift != nil && *rule.Shift == *in.Shift {
				return rule
			}
		}
	}

	for _, rule := range rules {
		if rule.RuleType == RuleTypeGeneral {
			return rule
		}
	}

	return DefaultRule()
}

func (r *Resolver) activeRules(ctx context.Context, tenantID string) ([]AttendanceRule, error) {
	key := cacheKey(tenantID)

	var cached []AttendanceRule
	if err := r.cache.Get(ctx, key, &cached); err == nil {
		return cached, nil
	} else if !errors.Is(err, cache.ErrMiss) {
		r.logger.Warn("attendance rule cache read failed", zap.String("key", key), zap.Error(err))
	}

	v, err, _ := r.group.Do(key, func() (interface{}, error) {
		rules, err := r.repo.FindActiveByTenant(ctx, tenantID)
		if err != nil {
			return nil, err
		}
		if err := r.cache.Set(ctx, key, rules, r.ttl); err != nil {
			r.logger.Warn("attendance rule cache write failed", zap.String("key", key), zap.Error(err))
		}
		return rules, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]AttendanceRule), nil
}

// Invalidate drops the tenant's cached rules. Called after every rule write.
func (r *Resolver) Invalidate(ctx context.Context, tenantID string) {
	if err := r.cache.Delete(ctx, cacheKey(tenantID)); err != nil {
		r.logger.Warn("attendance rule cache invalidation failed",
			zap.String("tenant_id", tenantID),
			zap.Error(err),
		)
	}
}
