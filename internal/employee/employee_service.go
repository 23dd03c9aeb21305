package employee

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	employeeerrors "go-madrasah/internal/employee/errors"
	"go-madrasah/internal/shared/apperror"
	"go-madrasah/internal/shared/cache"
	"go-madrasah/internal/shared/clock"
	"go-madrasah/internal/shared/contextutil"
	"go-madrasah/internal/shared/counter"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	OptionsKeyPrefix = "employees:options:"
	optionsTTL       = time.Hour
)

func OptionsKey(tenantID string) string {
	return OptionsKeyPrefix + tenantID
}

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, tenantID string, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context, tenantID string, f ListFilter) ([]EmployeeResponse, error)
	GetOptions(ctx context.Context, tenantID string) ([]EmployeeOption, error)
	GetByID(ctx context.Context, tenantID, id string) (EmployeeResponse, error)
	Update(ctx context.Context, tenantID, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Delete(ctx context.Context, tenantID, id string) error
}

type service struct {
	db      *sql.DB
	repo    Repository
	counter counter.Repository
	cache   cache.Cache
	sf      *singleflight.Group
	logger  *zap.Logger
}

func NewService(db *sql.DB, repo Repository, counter counter.Repository, c cache.Cache, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		db:      db,
		repo:    repo,
		counter: counter,
		cache:   c,
		sf:      &singleflight.Group{},
		logger:  l,
	}
}

func parseSalary(v string) (decimal.Decimal, error) {
	if strings.TrimSpace(v) == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil || d.IsNegative() {
		return decimal.Zero, employeeerrors.ErrInvalidSalary
	}
	return d.Round(2), nil
}

func optionalString(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

func (s *service) Create(ctx context.Context, tenantID string, req CreateEmployeeRequest) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create employee requested",
		zap.String("request_id", rid),
		zap.String("tenant_id", tenantID),
		zap.String("department", req.Department),
	)

	tenantUUID, err := uuid.Parse(tenantID)
	if err != nil {
		return EmployeeResponse{}, apperror.ErrTenantRequired
	}
	joinedAt, err := time.Parse(clock.DateLayout, req.JoinedAt)
	if err != nil {
		s.logger.Warn("create employee invalid joined_at", zap.String("joined_at", req.JoinedAt))
		return EmployeeResponse{}, employeeerrors.ErrInvalidJoinedAt
	}
	salary, err := parseSalary(req.MonthlySalary)
	if err != nil {
		return EmployeeResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create employee begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	if req.EmployeeCode == "" {
		next, err := s.counter.WithTx(tx).GetNextValue(ctx, tenantID, counter.CounterEmployeeCode)
		if err != nil {
			s.logger.Error("create employee generate code failed", zap.Error(err))
			return EmployeeResponse{}, err
		}
		req.EmployeeCode = fmt.Sprintf("EMP-%06d", next)
	}

	employmentType := req.EmploymentType
	if employmentType == "" {
		employmentType = EmploymentFullTime
	}

	empl := &Employee{
		ID:             uuid.New(),
		TenantID:       tenantUUID,
		UserID:         uuidPtr(req.UserID),
		EmployeeCode:   req.EmployeeCode,
		FullName:       strings.TrimSpace(req.FullName),
		Email:          optionalString(req.Email),
		Phone:          req.Phone,
		Department:     req.Department,
		Designation:    req.Designation,
		EmploymentType: employmentType,
		MonthlySalary:  salary,
		JoinedAt:       joinedAt,
		IsActive:       true,
	}

	if err := s.repo.WithTx(tx).Create(ctx, empl); err != nil {
		s.logger.Error("create employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("commit failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.invalidateOptions(ctx, tenantID)
	s.logger.Info("create employee success",
		zap.String("request_id", rid),
		zap.String("employee_id", empl.ID.String()),
		zap.String("employee_code", empl.EmployeeCode),
	)

	return mapToResponse(*empl), nil
}

func (s *service) GetAll(ctx context.Context, tenantID string, f ListFilter) ([]EmployeeResponse, error) {
	s.logger.Debug("get all employees requested", zap.String("tenant_id", tenantID))
	rows, err := s.repo.FindAll(ctx, tenantID, f)
	if err != nil {
		s.logger.Error("get all employees failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(rows), nil
}

// GetOptions serves the picker list from the cache. Concurrent misses for one
// tenant share a single query.
func (s *service) GetOptions(ctx context.Context, tenantID string) ([]EmployeeOption, error) {
	key := OptionsKey(tenantID)

	if s.cache != nil {
		var cached []EmployeeOption
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return cached, nil
		}
	}

	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		rows, err := s.repo.FindOptions(ctx, tenantID)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		opts := make([]EmployeeOption, len(rows))
		for i, e := range rows {
			opts[i] = EmployeeOption{
				ID:           e.ID.String(),
				EmployeeCode: e.EmployeeCode,
				FullName:     e.FullName,
				Department:   e.Department,
			}
		}

		if s.cache != nil {
			if err := s.cache.Set(ctx, key, opts, optionsTTL); err != nil {
				s.logger.Warn("cache employee options failed", zap.String("key", key), zap.Error(err))
			}
		}
		return opts, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]EmployeeOption), nil
}

func (s *service) GetByID(ctx context.Context, tenantID, id string) (EmployeeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}
	empl, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		if !errors.Is(mapRepositoryError(err), employeeerrors.ErrEmployeeNotFound) {
			s.logger.Error("get employee by id failed", zap.Error(err))
		}
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*empl), nil
}

func (s *service) Update(ctx context.Context, tenantID, id string, req UpdateEmployeeRequest) (EmployeeResponse, error) {
	s.logger.Debug("update employee requested",
		zap.String("tenant_id", tenantID),
		zap.String("employee_id", id),
	)

	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}
	joinedAt, err := time.Parse(clock.DateLayout, req.JoinedAt)
	if err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidJoinedAt
	}
	salary, err := parseSalary(req.MonthlySalary)
	if err != nil {
		return EmployeeResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update employee begin tx failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	empl, err := qtx.FindByID(ctx, tenantID, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	empl.UserID = uuidPtr(req.UserID)
	empl.EmployeeCode = req.EmployeeCode
	empl.FullName = strings.TrimSpace(req.FullName)
	empl.Email = optionalString(req.Email)
	empl.Phone = req.Phone
	empl.Department = req.Department
	empl.Designation = req.Designation
	empl.EmploymentType = req.EmploymentType
	empl.MonthlySalary = salary
	empl.JoinedAt = joinedAt
	empl.IsActive = *req.IsActive

	if err := qtx.Update(ctx, empl); err != nil {
		s.logger.Error("update employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("update employee commit failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.invalidateOptions(ctx, tenantID)
	s.logger.Info("update employee success", zap.String("employee_id", id))
	return mapToResponse(*empl), nil
}

func (s *service) Delete(ctx context.Context, tenantID, id string) error {
	s.logger.Debug("delete employee requested",
		zap.String("tenant_id", tenantID),
		zap.String("employee_id", id),
	)
	if _, err := uuid.Parse(id); err != nil {
		return employeeerrors.ErrInvalidEmployeeID
	}

	if err := s.repo.Delete(ctx, tenantID, id); err != nil {
		return mapRepositoryError(err)
	}

	s.invalidateOptions(ctx, tenantID)
	s.logger.Info("delete employee success", zap.String("employee_id", id))
	return nil
}

func (s *service) invalidateOptions(ctx context.Context, tenantID string) {
	if s.cache == nil {
		return
	}
	key := OptionsKey(tenantID)
	if err := s.cache.Delete(ctx, key); err != nil {
		s.logger.Error("failed to invalidate employee options cache",
			zap.Error(err),
			zap.String("key", key),
		)
	}
}

func mapToResponse(e Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:             e.ID.String(),
		TenantID:       e.TenantID.String(),
		EmployeeCode:   e.EmployeeCode,
		FullName:       e.FullName,
		Phone:          e.Phone,
		Department:     e.Department,
		Designation:    e.Designation,
		EmploymentType: e.EmploymentType,
		MonthlySalary:  e.MonthlySalary.StringFixed(2),
		JoinedAt:       e.JoinedAt.Format(clock.DateLayout),
		IsActive:       e.IsActive,
	}
	if e.Email != nil {
		resp.Email = *e.Email
	}
	if e.UserID != nil {
		v := e.UserID.String()
		resp.UserID = &v
	}
	return resp
}

func mapToListResponse(rows []Employee) []EmployeeResponse {
	res := make([]EmployeeResponse, len(rows))
	for i, e := range rows {
		res[i] = mapToResponse(e)
	}
	return res
}

func uuidPtr(v string) *uuid.UUID {
	id, err := uuid.Parse(v)
	if err != nil {
		return nil
	}
	return &id
}
