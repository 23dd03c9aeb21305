package leave

import (
	"context"
	"database/sql"
	"errors"
	"time"

	leaveerrors "go-madrasah/internal/leave/errors"
	"go-madrasah/internal/shared/apperror"
	"go-madrasah/internal/shared/clock"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EmployeeDirectory answers whether a staff member may file leave.
type EmployeeDirectory interface {
	IsActive(ctx context.Context, tenantID, employeeID string) (bool, error)
}

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, tenantID, actorID string, req CreateLeaveRequest) (LeaveResponse, error)
	GetAll(ctx context.Context, tenantID string, filter ListLeaveFilter) ([]LeaveResponse, error)
	GetByID(ctx context.Context, tenantID, id string) (LeaveResponse, error)
	Update(ctx context.Context, tenantID, id string, req UpdateLeaveRequest) (LeaveResponse, error)
	Approve(ctx context.Context, tenantID, actorID, id string) (LeaveResponse, error)
	Reject(ctx context.Context, tenantID, actorID, id, reason string) (LeaveResponse, error)
	Cancel(ctx context.Context, tenantID, actorID, id string) (LeaveResponse, error)
	Delete(ctx context.Context, tenantID, id string) error
	// Summary totals one employee's leave days inside a calendar year.
	Summary(ctx context.Context, tenantID string, q LeaveSummaryQuery) (LeaveSummaryResponse, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	employees EmployeeDirectory
	clock     clock.Clock
	logger    *zap.Logger
}

func NewService(db *sql.DB, repo Repository, employees EmployeeDirectory, clk clock.Clock, logger ...*zap.Logger) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	if clk == nil {
		clk = clock.System()
	}
	return &service{db: db, repo: repo, employees: employees, clock: clk, logger: l}
}

func (s *service) Create(ctx context.Context, tenantID, actorID string, req CreateLeaveRequest) (LeaveResponse, error) {
	s.logger.Debug("create leave requested",
		zap.String("tenant_id", tenantID),
		zap.String("actor_id", actorID),
		zap.String("employee_id", req.EmployeeID),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	tenantUUID, err := uuid.Parse(tenantID)
	if err != nil {
		return LeaveResponse{}, apperror.ErrTenantRequired
	}
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidEmployeeID
	}
	createdBy, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}
	startDate, endDate, err := parseRange(req.StartDate, req.EndDate)
	if err != nil {
		s.logger.Warn("create leave validation failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	active, err := s.employees.IsActive(ctx, tenantID, req.EmployeeID)
	if err != nil {
		s.logger.Error("create leave employee check failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if !active {
		return LeaveResponse{}, leaveerrors.ErrEmployeeInactive
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	overlap, err := qtx.HasOverlappingPeriod(ctx, tenantID, req.EmployeeID, startDate, endDate, nil)
	if err != nil {
		s.logger.Error("create leave overlap check failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if overlap {
		s.logger.Warn("create leave overlap detected",
			zap.String("employee_id", req.EmployeeID),
			zap.String("start_date", req.StartDate),
			zap.String("end_date", req.EndDate),
		)
		return LeaveResponse{}, leaveerrors.ErrLeaveOverlap
	}

	l := &Leave{
		ID:         uuid.New(),
		TenantID:   tenantUUID,
		EmployeeID: employeeUUID,
		LeaveType:  req.LeaveType,
		StartDate:  startDate,
		EndDate:    endDate,
		Reason:     req.Reason,
		Status:     StatusPending,
		CreatedBy:  createdBy,
	}
	l.TotalDays = l.Days()

	if err := qtx.Create(ctx, l); err != nil {
		s.logger.Error("create leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	s.logger.Info("create leave success",
		zap.String("leave_id", l.ID.String()),
		zap.String("employee_id", req.EmployeeID),
		zap.Int("total_days", l.TotalDays),
	)

	return mapToResponse(*l), nil
}

func (s *service) GetAll(ctx context.Context, tenantID string, filter ListLeaveFilter) ([]LeaveResponse, error) {
	f := RepoFilter{EmployeeID: filter.EmployeeID, Status: filter.Status}
	if filter.From != "" {
		from, err := parseDate(filter.From)
		if err != nil {
			return nil, err
		}
		f.From = &from
	}
	if filter.To != "" {
		to, err := parseDate(filter.To)
		if err != nil {
			return nil, err
		}
		f.To = &to
	}

	leaves, err := s.repo.FindAll(ctx, tenantID, f)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(leaves), nil
}

func (s *service) GetByID(ctx context.Context, tenantID, id string) (LeaveResponse, error) {
	l, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return LeaveResponse{}, mapNotFound(err)
	}
	return mapToResponse(*l), nil
}

func (s *service) Update(ctx context.Context, tenantID, id string, req UpdateLeaveRequest) (LeaveResponse, error) {
	s.logger.Debug("update leave requested",
		zap.String("leave_id", id),
		zap.String("tenant_id", tenantID),
	)

	startDate, endDate, err := parseRange(req.StartDate, req.EndDate)
	if err != nil {
		return LeaveResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByID(ctx, tenantID, id)
	if err != nil {
		return LeaveResponse{}, mapNotFound(err)
	}
	if l.Status != StatusPending {
		return LeaveResponse{}, leaveerrors.ErrLeaveNotEditable
	}

	overlap, err := qtx.HasOverlappingPeriod(ctx, tenantID, l.EmployeeID.String(), startDate, endDate, &id)
	if err != nil {
		return LeaveResponse{}, err
	}
	if overlap {
		return LeaveResponse{}, leaveerrors.ErrLeaveOverlap
	}

	l.LeaveType = req.LeaveType
	l.StartDate = startDate
	l.EndDate = endDate
	l.TotalDays = l.Days()
	l.Reason = req.Reason

	if err := qtx.Update(ctx, l); err != nil {
		s.logger.Error("update leave persist failed",
			zap.String("leave_id", id),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update leave commit failed",
			zap.String("leave_id", id),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}
	s.logger.Info("update leave success", zap.String("leave_id", id))

	return mapToResponse(*l), nil
}

func isAllowedStatusTransition(currentStatus, targetStatus string) bool {
	switch currentStatus {
	case StatusPending:
		return targetStatus == StatusApproved || targetStatus == StatusRejected || targetStatus == StatusCancelled
	case StatusApproved:
		return targetStatus == StatusCancelled
	default:
		return false
	}
}

func (s *service) Approve(ctx context.Context, tenantID, actorID, id string) (LeaveResponse, error) {
	return s.transitionLeaveStatus(ctx, tenantID, actorID, id, StatusApproved, "")
}

func (s *service) Reject(ctx context.Context, tenantID, actorID, id, reason string) (LeaveResponse, error) {
	if reason == "" {
		return LeaveResponse{}, leaveerrors.ErrRejectionReasonRequired
	}
	return s.transitionLeaveStatus(ctx, tenantID, actorID, id, StatusRejected, reason)
}

func (s *service) Cancel(ctx context.Context, tenantID, actorID, id string) (LeaveResponse, error) {
	return s.transitionLeaveStatus(ctx, tenantID, actorID, id, StatusCancelled, "")
}

func (s *service) transitionLeaveStatus(ctx context.Context, tenantID, actorID, id, targetStatus, reason string) (LeaveResponse, error) {
	s.logger.Debug("transition leave status requested",
		zap.String("leave_id", id),
		zap.String("tenant_id", tenantID),
		zap.String("actor_id", actorID),
		zap.String("target_status", targetStatus),
	)

	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("transition leave status begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByID(ctx, tenantID, id)
	if err != nil {
		return LeaveResponse{}, mapNotFound(err)
	}
	if !isAllowedStatusTransition(l.Status, targetStatus) {
		s.logger.Warn("transition leave status invalid",
			zap.String("leave_id", id),
			zap.String("from_status", l.Status),
			zap.String("to_status", targetStatus),
		)
		return LeaveResponse{}, leaveerrors.ErrInvalidStatusTransition
	}

	now := s.clock.Now()
	l.Status = targetStatus
	switch targetStatus {
	case StatusApproved:
		l.ReviewedBy = &actorUUID
		l.ReviewedAt = &now
	case StatusRejected:
		l.ReviewedBy = &actorUUID
		l.ReviewedAt = &now
		l.RejectionReason = &reason
	case StatusCancelled:
		l.CancelledAt = &now
	}

	if err := qtx.Update(ctx, l); err != nil {
		s.logger.Error("transition leave status persist failed",
			zap.String("leave_id", id),
			zap.String("target_status", targetStatus),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("transition leave status commit failed",
			zap.String("leave_id", id),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}
	s.logger.Info("transition leave status success",
		zap.String("leave_id", id),
		zap.String("status", targetStatus),
	)
	return mapToResponse(*l), nil
}

// Delete removes pending, rejected or cancelled requests. Approved leave may
// already be counted in a payroll run and has to be cancelled instead.
func (s *service) Delete(ctx context.Context, tenantID, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	l, err := qtx.FindByID(ctx, tenantID, id)
	if err != nil {
		return mapNotFound(err)
	}
	if l.Status == StatusApproved {
		return leaveerrors.ErrApprovedLeaveDelete
	}
	if err := qtx.Delete(ctx, tenantID, id); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *service) Summary(ctx context.Context, tenantID string, q LeaveSummaryQuery) (LeaveSummaryResponse, error) {
	if _, err := uuid.Parse(q.EmployeeID); err != nil {
		return LeaveSummaryResponse{}, leaveerrors.ErrInvalidEmployeeID
	}
	if q.Year < 2000 || q.Year > 2100 {
		return LeaveSummaryResponse{}, leaveerrors.ErrInvalidYear
	}

	from := time.Date(q.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(q.Year, time.December, 31, 0, 0, 0, 0, time.UTC)

	approved, err := s.repo.ListApprovedOverlapping(ctx, tenantID, q.EmployeeID, from, to)
	if err != nil {
		s.logger.Error("list approved leave failed", zap.String("employee_id", q.EmployeeID), zap.Error(err))
		return LeaveSummaryResponse{}, err
	}
	pending, err := s.repo.FindAll(ctx, tenantID, RepoFilter{
		EmployeeID: q.EmployeeID,
		Status:     StatusPending,
		From:       &from,
		To:         &to,
	})
	if err != nil {
		return LeaveSummaryResponse{}, err
	}

	resp := LeaveSummaryResponse{
		EmployeeID: q.EmployeeID,
		Year:       q.Year,
		DaysByType: make(map[string]int),
	}
	for _, l := range approved {
		days := l.DaysWithin(from, to)
		resp.DaysByType[l.LeaveType] += days
		if IsUnpaidType(l.LeaveType) {
			resp.UnpaidDays += days
		} else {
			resp.PaidDays += days
		}
	}
	for _, l := range pending {
		resp.PendingDays += l.DaysWithin(from, to)
	}
	return resp, nil
}

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return leaveerrors.ErrLeaveNotFound
	}
	return err
}

func parseRange(start, end string) (time.Time, time.Time, error) {
	startDate, err := parseDate(start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	endDate, err := parseDate(end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if startDate.After(endDate) {
		return time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateRange
	}
	return startDate, endDate, nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse(clock.DateLayout, v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := t.Format(time.RFC3339)
	return &v
}

func mapToResponse(l Leave) LeaveResponse {
	resp := LeaveResponse{
		ID:              l.ID.String(),
		TenantID:        l.TenantID.String(),
		EmployeeID:      l.EmployeeID.String(),
		LeaveType:       l.LeaveType,
		StartDate:       l.StartDate.Format(clock.DateLayout),
		EndDate:         l.EndDate.Format(clock.DateLayout),
		TotalDays:       l.TotalDays,
		Reason:          l.Reason,
		Status:          l.Status,
		CreatedBy:       l.CreatedBy.String(),
		ReviewedAt:      formatTime(l.ReviewedAt),
		CancelledAt:     formatTime(l.CancelledAt),
		RejectionReason: l.RejectionReason,
	}
	if l.ReviewedBy != nil {
		v := l.ReviewedBy.String()
		resp.ReviewedBy = &v
	}
	return resp
}

func mapToListResponse(leaves []Leave) []LeaveResponse {
	resp := make([]LeaveResponse, len(leaves))
	for i, l := range leaves {
		resp[i] = mapToResponse(l)
	}
	return resp
}
