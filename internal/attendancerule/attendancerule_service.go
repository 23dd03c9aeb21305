package attendancerule

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	ruleerrors "go-madrasah/internal/attendancerule/errors"
	"go-madrasah/internal/shared/apperror"
	"go-madrasah/internal/shared/timeofday"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=attendancerule_service.go -destination=mock/attendancerule_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, tenantID, actorID string, req CreateRuleRequest) (RuleResponse, error)
	GetAll(ctx context.Context, tenantID string, filter ListRulesFilter) ([]RuleResponse, error)
	GetByID(ctx context.Context, tenantID, id string) (RuleResponse, error)
	Update(ctx context.Context, tenantID, id string, req UpdateRuleRequest) (RuleResponse, error)
	Delete(ctx context.Context, tenantID, id string) error
	Effective(ctx context.Context, tenantID string, in ResolveInput) RuleResponse
}

type service struct {
	db       *sql.DB
	repo     Repository
	resolver *Resolver
	logger   *zap.Logger
}

func NewService(db *sql.DB, repo Repository, resolver *Resolver, logger ...*zap.Logger) Service {
	l := zap.L().Named("attendancerule.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendancerule.service")
	}
	return &service{db: db, repo: repo, resolver: resolver, logger: l}
}

func (s *service) Create(ctx context.Context, tenantID, actorID string, req CreateRuleRequest) (RuleResponse, error) {
	s.logger.Debug("create attendance rule requested",
		zap.String("tenant_id", tenantID),
		zap.String("rule_type", req.RuleType),
	)

	tenantUUID, err := uuid.Parse(tenantID)
	if err != nil {
		return RuleResponse{}, apperror.ErrTenantRequired
	}

	rule := &AttendanceRule{ID: uuid.New(), TenantID: tenantUUID, IsActive: true}
	if err := applyRequest(rule, req); err != nil {
		s.logger.Warn("create attendance rule validation failed", zap.Error(err))
		return RuleResponse{}, err
	}
	if actor, err := uuid.Parse(actorID); err == nil {
		rule.CreatedBy = &actor
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create attendance rule begin tx failed", zap.Error(err))
		return RuleResponse{}, err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Create(ctx, rule); err != nil {
		s.logger.Error("create attendance rule persist failed", zap.Error(err))
		return RuleResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create attendance rule commit failed", zap.Error(err))
		return RuleResponse{}, err
	}
	s.resolver.Invalidate(ctx, tenantID)

	s.logger.Info("attendance rule created",
		zap.String("rule_id", rule.ID.String()),
		zap.String("tenant_id", tenantID),
	)
	return mapToResponse(*rule), nil
}

func (s *service) GetAll(ctx context.Context, tenantID string, filter ListRulesFilter) ([]RuleResponse, error) {
	rules, err := s.repo.FindAllByTenant(ctx, tenantID, filter.RuleType)
	if err != nil {
		return nil, err
	}
	out := make([]RuleResponse, 0, len(rules))
	for _, r := range rules {
		out = append(out, mapToResponse(r))
	}
	return out, nil
}

func (s *service) GetByID(ctx context.Context, tenantID, id string) (RuleResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return RuleResponse{}, ruleerrors.ErrInvalidRuleID
	}
	rule, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RuleResponse{}, ruleerrors.ErrRuleNotFound
		}
		return RuleResponse{}, err
	}
	return mapToResponse(*rule), nil
}

func (s *service) Update(ctx context.Context, tenantID, id string, req UpdateRuleRequest) (RuleResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return RuleResponse{}, ruleerrors.ErrInvalidRuleID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update attendance rule begin tx failed", zap.Error(err))
		return RuleResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	rule, err := qtx.FindByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RuleResponse{}, ruleerrors.ErrRuleNotFound
		}
		return RuleResponse{}, err
	}

	if err := applyRequest(rule, req); err != nil {
		return RuleResponse{}, err
	}

	if err := qtx.Update(ctx, rule); err != nil {
		s.logger.Error("update attendance rule persist failed", zap.Error(err))
		return RuleResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update attendance rule commit failed", zap.Error(err))
		return RuleResponse{}, err
	}
	s.resolver.Invalidate(ctx, tenantID)

	s.logger.Info("attendance rule updated", zap.String("rule_id", id), zap.String("tenant_id", tenantID))
	return mapToResponse(*rule), nil
}

func (s *service) Delete(ctx context.Context, tenantID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ruleerrors.ErrInvalidRuleID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("delete attendance rule begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Delete(ctx, tenantID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ruleerrors.ErrRuleNotFound
		}
		s.logger.Error("delete attendance rule failed", zap.Error(err))
		return err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("delete attendance rule commit failed", zap.Error(err))
		return err
	}
	s.resolver.Invalidate(ctx, tenantID)

	s.logger.Info("attendance rule deleted", zap.String("rule_id", id), zap.String("tenant_id", tenantID))
	return nil
}

func (s *service) Effective(ctx context.Context, tenantID string, in ResolveInput) RuleResponse {
	return mapToResponse(s.resolver.Resolve(ctx, tenantID, in))
}

var weekdays = map[string]bool{
	"sunday": true, "monday": true, "tuesday": true, "wednesday": true,
	"thursday": true, "friday": true, "saturday": true,
}

func applyRequest(rule *AttendanceRule, req CreateRuleRequest) error {
	halfDay, err := timeofday.Parse(req.HalfDayCheckoutTime)
	if err != nil {
		return ruleerrors.ErrInvalidTime.WithDetails(map[string]string{"field": "half_day_checkout_time"})
	}
	start, err := timeofday.Parse(req.SchoolStartTime)
	if err != nil {
		return ruleerrors.ErrInvalidTime.WithDetails(map[string]string{"field": "school_start_time"})
	}
	end, err := timeofday.Parse(req.SchoolEndTime)
	if err != nil {
		return ruleerrors.ErrInvalidTime.WithDetails(map[string]string{"field": "school_end_time"})
	}
	if !start.Before(end) {
		return ruleerrors.ErrInvalidSchoolHours
	}
	if req.AbsentThresholdMinutes <= req.LateThresholdMinutes {
		return ruleerrors.ErrInvalidThresholds
	}

	days := make(pq.StringArray, 0, len(req.ExcludedDays))
	for _, d := range req.ExcludedDays {
		name := strings.ToLower(strings.TrimSpace(d))
		if !weekdays[name] {
			return ruleerrors.ErrInvalidWeekday.WithDetails(map[string]string{"value": d})
		}
		days = append(days, name)
	}

	rule.RuleType = req.RuleType
	rule.ClassID = nil
	rule.Shift = nil
	switch req.RuleType {
	case RuleTypeClassWise:
		if req.ClassID == nil || *req.ClassID == "" {
			return ruleerrors.ErrClassRequired
		}
		classID, err := uuid.Parse(*req.ClassID)
		if err != nil {
			return ruleerrors.ErrClassRequired
		}
		rule.ClassID = &classID
	case RuleTypeShiftWise:
		if req.Shift == nil || strings.TrimSpace(*req.Shift) == "" {
			return ruleerrors.ErrShiftRequired
		}
		shift := strings.TrimSpace(*req.Shift)
		rule.Shift = &shift
	}

	rule.LateThresholdMinutes = req.LateThresholdMinutes
	rule.AbsentThresholdMinutes = req.AbsentThresholdMinutes
	rule.HalfDayCheckoutTime = halfDay
	rule.SchoolStartTime = start
	rule.SchoolEndTime = end
	rule.ExcludedDays = days
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}
	return nil
}

func mapToResponse(r AttendanceRule) RuleResponse {
	resp := RuleResponse{
		ID:                     r.ID.String(),
		TenantID:               r.TenantID.String(),
		RuleType:               r.RuleType,
		Shift:                  r.Shift,
		LateThresholdMinutes:   r.LateThresholdMinutes,
		AbsentThresholdMinutes: r.AbsentThresholdMinutes,
		HalfDayCheckoutTime:    r.HalfDayCheckoutTime.String(),
		SchoolStartTime:        r.SchoolStartTime.String(),
		SchoolEndTime:          r.SchoolEndTime.String(),
		ExcludedDays:           []string(r.ExcludedDays),
		IsActive:               r.IsActive,
		IsDefault:              r.IsDefault(),
	}
	if resp.ExcludedDays == nil {
		resp.ExcludedDays = []string{}
	}
	if r.ClassID != nil {
		id := r.ClassID.String()
		resp.ClassID = &id
	}
	if r.IsDefault() {
		resp.ID = ""
		resp.TenantID = ""
	} else {
		resp.CreatedAt = r.CreatedAt.Format(time.RFC3339)
		resp.UpdatedAt = r.UpdatedAt.Format(time.RFC3339)
	}
	return resp
}
