package attendance

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	attendanceerrors "go-madrasah/internal/attendance/errors"
	"go-madrasah/internal/attendancerule"
	"go-madrasah/internal/messaging/kafka"
	"go-madrasah/internal/metrics"
	"go-madrasah/internal/notification"
	"go-madrasah/internal/rbac"
	"go-madrasah/internal/shared/apperror"
	"go-madrasah/internal/shared/clock"
	"go-madrasah/internal/shared/timeofday"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RuleResolver is satisfied by *attendancerule.Resolver.
type RuleResolver interface {
	Resolve(ctx context.Context, tenantID string, in attendancerule.ResolveInput) attendancerule.AttendanceRule
}

// PermissionChecker is satisfied by rbac.Service.
type PermissionChecker interface {
	Can(role, resource, action string) bool
}

type Options struct {
	Permissions PermissionChecker
	Notifier    notification.Notifier
	Outbox      kafka.OutboxRepository
	Metrics     *metrics.Metrics
	Clock       clock.Clock
}

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	MarkManual(ctx context.Context, tenantID string, actor Actor, req ManualRecordRequest) (AttendanceResponse, error)
	MarkBulk(ctx context.Context, tenantID string, actor Actor, req BulkAttendanceRequest) (BulkResult, error)
	Edit(ctx context.Context, tenantID string, actor Actor, id string, req EditAttendanceRequest) (EditResult, error)
	ListEditRequests(ctx context.Context, tenantID string, filter ListEditRequestsFilter) ([]EditRequestResponse, error)
	ApproveEditRequest(ctx context.Context, tenantID string, actor Actor, id string) (AttendanceResponse, error)
	RejectEditRequest(ctx context.Context, tenantID string, actor Actor, id string, req RejectEditRequest) (EditRequestResponse, error)
	ListAuditLogs(ctx context.Context, tenantID string, filter AuditLogFilter) ([]AuditLogResponse, error)
	GetAll(ctx context.Context, tenantID string, filter ListAttendanceFilter) ([]AttendanceResponse, int64, error)
	GetByID(ctx context.Context, tenantID, id string) (AttendanceResponse, error)
	CheckIn(ctx context.Context, tenantID string, actor Actor, req CheckInRequest) (AttendanceResponse, error)
	CheckOut(ctx context.Context, tenantID string, actor Actor, req CheckOutRequest) (AttendanceResponse, error)
	Preview(ctx context.Context, tenantID string, req PreviewRequest) (PreviewResponse, error)
	SyncOffline(ctx context.Context, tenantID string, actor Actor, batch SyncBatch) (SyncResult, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	resolver RuleResolver
	perms    PermissionChecker
	notifier notification.Notifier
	outbox   kafka.OutboxRepository
	metrics  *metrics.Metrics
	clock    clock.Clock
	logger   *zap.Logger
}

func NewService(db *sql.DB, repo Repository, resolver RuleResolver, opts Options, logger ...*zap.Logger) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	if opts.Clock == nil {
		opts.Clock = clock.System()
	}
	return &service{
		db:       db,
		repo:     repo,
		resolver: resolver,
		perms:    opts.Permissions,
		notifier: opts.Notifier,
		outbox:   opts.Outbox,
		metrics:  opts.Metrics,
		clock:    opts.Clock,
		logger:   l,
	}
}

func (s *service) canBackdate(actor Actor) bool {
	return s.perms != nil && s.perms.Can(actor.Role, rbac.ResourceAttendance, rbac.ActionBackdate)
}

func parseDate(v string) (time.Time, error) {
	d, err := time.Parse(clock.DateLayout, strings.TrimSpace(v))
	if err != nil {
		return time.Time{}, attendanceerrors.ErrInvalidDateFormat
	}
	return d, nil
}

func parseOptionalTime(v *string) (*timeofday.TimeOfDay, error) {
	if v == nil || strings.TrimSpace(*v) == "" {
		return nil, nil
	}
	t, err := timeofday.Parse(*v)
	if err != nil {
		return nil, attendanceerrors.ErrInvalidTime
	}
	return &t, nil
}

func parseOptionalUUID(v *string, invalid error) (*uuid.UUID, error) {
	if v == nil || *v == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*v)
	if err != nil {
		return nil, invalid
	}
	return &id, nil
}

func optionalUUID(v string) *uuid.UUID {
	id, err := uuid.Parse(v)
	if err != nil {
		return nil
	}
	return &id
}

func strPtr(v string) *string {
	return &v
}

// classify resolves the rule for the record's class/shift and runs Classify.
func (s *service) classify(ctx context.Context, tenantID string, classID, shift *string, checkIn, checkOut *string, date time.Time) Classification {
	rule := s.resolver.Resolve(ctx, tenantID, attendancerule.ResolveInput{ClassID: classID, Shift: shift})
	c := Classify(rule, checkIn, checkOut, date)
	s.metrics.ObserveClassification(c.Status, c.Fallback)
	return c
}

// checkWritableDate rejects future dates and, for actors without the backdate
// permission, past dates.
func (s *service) checkWritableDate(actor Actor, date time.Time) error {
	today := clock.Today(s.clock)
	if date.After(today) {
		return attendanceerrors.ErrFutureDate
	}
	if date.Before(today) && !s.canBackdate(actor) {
		return attendanceerrors.ErrPastDateNotAllowed
	}
	return nil
}

func (s *service) MarkManual(ctx context.Context, tenantID string, actor Actor, req ManualRecordRequest) (AttendanceResponse, error) {
	log := s.logger.With(zap.String("tenant_id", tenantID), zap.String("person_id", req.PersonID))
	log.Debug("manual attendance requested", zap.String("date", req.Date))

	tenantUUID, err := uuid.Parse(tenantID)
	if err != nil {
		return AttendanceResponse{}, apperror.ErrTenantRequired
	}
	personID, err := uuid.Parse(req.PersonID)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidPersonID
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return AttendanceResponse{}, err
	}
	if err := s.checkWritableDate(actor, date); err != nil {
		log.Warn("manual attendance date rejected", zap.String("date", req.Date), zap.Error(err))
		return AttendanceResponse{}, err
	}
	checkIn, err := parseOptionalTime(req.CheckIn)
	if err != nil {
		return AttendanceResponse{}, err
	}
	checkOut, err := parseOptionalTime(req.CheckOut)
	if err != nil {
		return AttendanceResponse{}, err
	}
	classID, err := parseOptionalUUID(req.ClassID, attendanceerrors.ErrInvalidClassID)
	if err != nil {
		return AttendanceResponse{}, err
	}

	c := Classification{Status: req.Status, Reason: "Marked manually"}
	if req.Status == "" {
		c = s.classify(ctx, tenantID, req.ClassID, req.Shift, req.CheckIn, req.CheckOut, date)
	}

	personType := req.PersonType
	if personType == "" {
		personType = PersonStudent
	}

	now := s.clock.Now()
	row := &Attendance{
		ID:             uuid.New(),
		TenantID:       tenantUUID,
		PersonID:       personID,
		PersonType:     personType,
		PersonName:     req.PersonName,
		ClassID:        classID,
		Shift:          req.Shift,
		AttendanceDate: date,
		CheckIn:        checkIn,
		CheckOut:       checkOut,
		Status:         c.Status,
		StatusReason:   c.Reason,
		Source:         SourceManual,
		RecordedBy:     optionalUUID(actor.UserID),
		Remarks:        req.Remarks,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("manual attendance begin tx failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.Upsert(ctx, row); err != nil {
		log.Error("manual attendance upsert failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	if err := qtx.CreateAuditLog(ctx, s.newAudit(AuditManualAttendance, row, nil, row.Status, nil, actor)); err != nil {
		log.Error("manual attendance audit failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		log.Error("manual attendance commit failed", zap.Error(err))
		return AttendanceResponse{}, err
	}

	s.notifyAlert(*row)
	log.Info("manual attendance recorded", zap.String("status", row.Status))
	return mapToResponse(*row), nil
}

func (s *service) MarkBulk(ctx context.Context, tenantID string, actor Actor, req BulkAttendanceRequest) (BulkResult, error) {
	log := s.logger.With(zap.String("tenant_id", tenantID), zap.String("date", req.Date))

	tenantUUID, err := uuid.Parse(tenantID)
	if err != nil {
		return BulkResult{}, apperror.ErrTenantRequired
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return BulkResult{}, err
	}
	classID, err := parseOptionalUUID(req.ClassID, attendanceerrors.ErrInvalidClassID)
	if err != nil {
		return BulkResult{}, err
	}

	result := BulkResult{Skipped: []SkippedRecord{}}
	if err := s.checkWritableDate(actor, date); err != nil {
		if errors.Is(err, attendanceerrors.ErrFutureDate) {
			return BulkResult{}, err
		}
		for _, item := range req.Records {
			result.Skipped = append(result.Skipped, SkippedRecord{PersonID: item.PersonID, Reason: err.Error()})
		}
		log.Warn("bulk attendance skipped past date", zap.Int("records", len(req.Records)))
		return result, nil
	}

	personType := req.PersonType
	if personType == "" {
		personType = PersonStudent
	}

	now := s.clock.Now()
	rows := make([]*Attendance, 0, len(req.Records))
	for _, item := range req.Records {
		personID, err := uuid.Parse(item.PersonID)
		if err != nil {
			result.Skipped = append(result.Skipped, SkippedRecord{PersonID: item.PersonID, Reason: attendanceerrors.ErrInvalidPersonID.Message})
			continue
		}
		checkIn, errIn := parseOptionalTime(item.CheckIn)
		checkOut, errOut := parseOptionalTime(item.CheckOut)
		if errIn != nil || errOut != nil {
			result.Skipped = append(result.Skipped, SkippedRecord{PersonID: item.PersonID, Reason: attendanceerrors.ErrInvalidTime.Message})
			continue
		}

		c := Classification{Status: item.Status, Reason: "Marked manually"}
		if item.Status == "" {
			c = s.classify(ctx, tenantID, req.ClassID, req.Shift, item.CheckIn, item.CheckOut, date)
		}

		rows = append(rows, &Attendance{
			ID:             uuid.New(),
			TenantID:       tenantUUID,
			PersonID:       personID,
			PersonType:     personType,
			PersonName:     item.PersonName,
			ClassID:        classID,
			Shift:          req.Shift,
			AttendanceDate: date,
			CheckIn:        checkIn,
			CheckOut:       checkOut,
			Status:         c.Status,
			StatusReason:   c.Reason,
			Source:         SourceManualBulk,
			RecordedBy:     optionalUUID(actor.UserID),
			Remarks:        item.Remarks,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	}

	if len(rows) == 0 {
		return result, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("bulk attendance begin tx failed", zap.Error(err))
		return BulkResult{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	for _, row := range rows {
		if err := qtx.Upsert(ctx, row); err != nil {
			log.Error("bulk attendance upsert failed", zap.String("person_id", row.PersonID.String()), zap.Error(err))
			return BulkResult{}, err
		}
		if err := qtx.CreateAuditLog(ctx, s.newAudit(AuditManualAttendance, row, nil, row.Status, nil, actor)); err != nil {
			log.Error("bulk attendance audit failed", zap.Error(err))
			return BulkResult{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		log.Error("bulk attendance commit failed", zap.Error(err))
		return BulkResult{}, err
	}

	for _, row := range rows {
		s.notifyAlert(*row)
	}
	result.Saved = len(rows)
	log.Info("bulk attendance recorded", zap.Int("saved", result.Saved), zap.Int("skipped", len(result.Skipped)))
	return result, nil
}

func (s *service) findRecord(ctx context.Context, repo Repository, tenantID, id string) (*Attendance, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, attendanceerrors.ErrRecordNotFound
	}
	row, err := repo.FindByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, attendanceerrors.ErrRecordNotFound
		}
		return nil, err
	}
	return row, nil
}

// Edit changes a record's status. Past records edited by an actor without the
// backdate permission become a pending edit request instead.
func (s *service) Edit(ctx context.Context, tenantID string, actor Actor, id string, req EditAttendanceRequest) (EditResult, error) {
	log := s.logger.With(zap.String("tenant_id", tenantID), zap.String("record_id", id))

	if _, err := uuid.Parse(tenantID); err != nil {
		return EditResult{}, apperror.ErrTenantRequired
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("edit attendance begin tx failed", zap.Error(err))
		return EditResult{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	row, err := s.findRecord(ctx, qtx, tenantID, id)
	if err != nil {
		return EditResult{}, err
	}

	now := s.clock.Now()
	if row.AttendanceDate.Before(clock.Today(s.clock)) && !s.canBackdate(actor) {
		pending, err := qtx.HasPendingEditRequest(ctx, tenantID, id)
		if err != nil {
			return EditResult{}, err
		}
		if pending {
			return EditResult{}, attendanceerrors.ErrEditRequestPending
		}

		editReq := &EditRequest{
			ID:             uuid.New(),
			TenantID:       row.TenantID,
			RecordID:       row.ID,
			OriginalStatus: row.Status,
			NewStatus:      req.NewStatus,
			EditReason:     req.EditReason,
			Status:         EditStatusPending,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if actorID := optionalUUID(actor.UserID); actorID != nil {
			editReq.RequestedBy = *actorID
		}
		if err := qtx.CreateEditRequest(ctx, editReq); err != nil {
			if apperror.IsUniqueViolation(err) {
				return EditResult{}, attendanceerrors.ErrEditRequestPending
			}
			log.Error("create edit request failed", zap.Error(err))
			return EditResult{}, err
		}
		if err := tx.Commit(); err != nil {
			log.Error("create edit request commit failed", zap.Error(err))
			return EditResult{}, err
		}

		log.Info("attendance edit request created", zap.String("edit_request_id", editReq.ID.String()))
		resp := mapEditRequestToResponse(*editReq)
		return EditResult{RequiresApproval: true, EditRequest: &resp}, nil
	}

	oldStatus := row.Status
	s.applyEdit(row, req.NewStatus, req.EditReason, actor, now)

	if err := qtx.Update(ctx, row); err != nil {
		log.Error("edit attendance update failed", zap.Error(err))
		return EditResult{}, err
	}
	if err := qtx.CreateAuditLog(ctx, s.newAudit(AuditEditAttendance, row, &oldStatus, row.Status, &req.EditReason, actor)); err != nil {
		log.Error("edit attendance audit failed", zap.Error(err))
		return EditResult{}, err
	}
	if err := tx.Commit(); err != nil {
		log.Error("edit attendance commit failed", zap.Error(err))
		return EditResult{}, err
	}

	log.Info("attendance edited", zap.String("old_status", oldStatus), zap.String("new_status", row.Status))
	resp := mapToResponse(*row)
	return EditResult{Record: &resp}, nil
}

func (s *service) applyEdit(row *Attendance, status, reason string, actor Actor, at time.Time) {
	row.Status = status
	row.StatusReason = "Edited manually"
	row.EditReason = strPtr(reason)
	row.LastEditedBy = optionalUUID(actor.UserID)
	row.LastEditedAt = &at
	row.UpdatedAt = at
}

func (s *service) ListEditRequests(ctx context.Context, tenantID string, filter ListEditRequestsFilter) ([]EditRequestResponse, error) {
	if _, err := uuid.Parse(tenantID); err != nil {
		return nil, apperror.ErrTenantRequired
	}
	rows, err := s.repo.ListEditRequests(ctx, tenantID, filter.Status)
	if err != nil {
		s.logger.Error("list edit requests failed", zap.String("tenant_id", tenantID), zap.Error(err))
		return nil, err
	}
	res := make([]EditRequestResponse, len(rows))
	for i, r := range rows {
		res[i] = mapEditRequestToResponse(r)
	}
	return res, nil
}

func (s *service) findPendingEditRequest(ctx context.Context, repo Repository, tenantID, id string) (*EditRequest, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, attendanceerrors.ErrEditRequestNotFound
	}
	req, err := repo.FindEditRequest(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, attendanceerrors.ErrEditRequestNotFound
		}
		return nil, err
	}
	if req.Status != EditStatusPending {
		return nil, attendanceerrors.ErrEditRequestNotPending
	}
	return req, nil
}

func (s *service) ApproveEditRequest(ctx context.Context, tenantID string, actor Actor, id string) (AttendanceResponse, error) {
	log := s.logger.With(zap.String("tenant_id", tenantID), zap.String("edit_request_id", id))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("approve edit request begin tx failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	editReq, err := s.findPendingEditRequest(ctx, qtx, tenantID, id)
	if err != nil {
		return AttendanceResponse{}, err
	}
	row, err := s.findRecord(ctx, qtx, tenantID, editReq.RecordID.String())
	if err != nil {
		return AttendanceResponse{}, err
	}

	now := s.clock.Now()
	oldStatus := row.Status
	s.applyEdit(row, editReq.NewStatus, editReq.EditReason, Actor{UserID: editReq.RequestedBy.String()}, now)

	editReq.Status = EditStatusApproved
	editReq.ReviewedBy = optionalUUID(actor.UserID)
	editReq.ReviewedAt = &now
	editReq.UpdatedAt = now

	if err := qtx.Update(ctx, row); err != nil {
		log.Error("approve edit request update record failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	if err := qtx.UpdateEditRequest(ctx, editReq); err != nil {
		log.Error("approve edit request update failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	if err := qtx.CreateAuditLog(ctx, s.newAudit(AuditApproveEdit, row, &oldStatus, row.Status, &editReq.EditReason, actor)); err != nil {
		log.Error("approve edit request audit failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		log.Error("approve edit request commit failed", zap.Error(err))
		return AttendanceResponse{}, err
	}

	log.Info("attendance edit request approved")
	return mapToResponse(*row), nil
}

func (s *service) RejectEditRequest(ctx context.Context, tenantID string, actor Actor, id string, req RejectEditRequest) (EditRequestResponse, error) {
	log := s.logger.With(zap.String("tenant_id", tenantID), zap.String("edit_request_id", id))

	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return EditRequestResponse{}, attendanceerrors.ErrRejectionReasonRequired
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("reject edit request begin tx failed", zap.Error(err))
		return EditRequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	editReq, err := s.findPendingEditRequest(ctx, qtx, tenantID, id)
	if err != nil {
		return EditRequestResponse{}, err
	}

	now := s.clock.Now()
	editReq.Status = EditStatusRejected
	editReq.ReviewedBy = optionalUUID(actor.UserID)
	editReq.ReviewedAt = &now
	editReq.RejectionReason = &reason
	editReq.UpdatedAt = now

	if err := qtx.UpdateEditRequest(ctx, editReq); err != nil {
		log.Error("reject edit request update failed", zap.Error(err))
		return EditRequestResponse{}, err
	}

	audit := &AuditLog{
		ID:        uuid.New(),
		TenantID:  editReq.TenantID,
		Action:    AuditRejectEdit,
		RecordID:  &editReq.RecordID,
		OldStatus: &editReq.OriginalStatus,
		NewStatus: &editReq.NewStatus,
		Reason:    &reason,
		UserID:    optionalUUID(actor.UserID),
		UserRole:  actor.Role,
		CreatedAt: now,
	}
	if err := qtx.CreateAuditLog(ctx, audit); err != nil {
		log.Error("reject edit request audit failed", zap.Error(err))
		return EditRequestResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		log.Error("reject edit request commit failed", zap.Error(err))
		return EditRequestResponse{}, err
	}

	log.Info("attendance edit request rejected")
	return mapEditRequestToResponse(*editReq), nil
}

func (s *service) ListAuditLogs(ctx context.Context, tenantID string, filter AuditLogFilter) ([]AuditLogResponse, error) {
	if _, err := uuid.Parse(tenantID); err != nil {
		return nil, apperror.ErrTenantRequired
	}
	for _, d := range []string{filter.DateFrom, filter.DateTo} {
		if d == "" {
			continue
		}
		if _, err := parseDate(d); err != nil {
			return nil, err
		}
	}
	rows, err := s.repo.ListAuditLogs(ctx, tenantID, filter)
	if err != nil {
		s.logger.Error("list attendance audit logs failed", zap.String("tenant_id", tenantID), zap.Error(err))
		return nil, err
	}
	res := make([]AuditLogResponse, len(rows))
	for i, r := range rows {
		res[i] = mapAuditLogToResponse(r)
	}
	return res, nil
}

// rangeFromFilter parses the optional date bounds shared by list and reports.
func rangeFromFilter(from, to string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error
	if from != "" {
		if start, err = parseDate(from); err != nil {
			return start, end, err
		}
	}
	if to != "" {
		if end, err = parseDate(to); err != nil {
			return start, end, err
		}
	}
	if !start.IsZero() && !end.IsZero() && start.After(end) {
		return start, end, attendanceerrors.ErrInvalidDateRange
	}
	return start, end, nil
}

func (s *service) GetAll(ctx context.Context, tenantID string, filter ListAttendanceFilter) ([]AttendanceResponse, int64, error) {
	if _, err := uuid.Parse(tenantID); err != nil {
		return nil, 0, apperror.ErrTenantRequired
	}
	from, to, err := rangeFromFilter(filter.DateFrom, filter.DateTo)
	if err != nil {
		return nil, 0, err
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	rows, total, err := s.repo.List(ctx, tenantID, RangeQuery{
		From:       from,
		To:         to,
		PersonType: filter.PersonType,
		PersonID:   filter.PersonID,
		ClassID:    filter.ClassID,
		Status:     filter.Status,
	}, filter.Page, filter.PageSize)
	if err != nil {
		s.logger.Error("list attendance failed", zap.String("tenant_id", tenantID), zap.Error(err))
		return nil, 0, err
	}

	res := make([]AttendanceResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res, total, nil
}

func (s *service) GetByID(ctx context.Context, tenantID, id string) (AttendanceResponse, error) {
	row, err := s.findRecord(ctx, s.repo, tenantID, id)
	if err != nil {
		return AttendanceResponse{}, err
	}
	return mapToResponse(*row), nil
}

// CheckIn records the caller's own arrival for today, classified against the
// rule for the given class or shift.
func (s *service) CheckIn(ctx context.Context, tenantID string, actor Actor, req CheckInRequest) (AttendanceResponse, error) {
	log := s.logger.With(zap.String("tenant_id", tenantID), zap.String("user_id", actor.UserID))

	tenantUUID, err := uuid.Parse(tenantID)
	if err != nil {
		return AttendanceResponse{}, apperror.ErrTenantRequired
	}
	personID, err := uuid.Parse(actor.UserID)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidPersonID
	}
	classID, err := parseOptionalUUID(req.ClassID, attendanceerrors.ErrInvalidClassID)
	if err != nil {
		return AttendanceResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("check in begin tx failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	now := s.clock.Now()
	today := clock.DateOf(now)

	_, err = qtx.FindByPersonAndDate(ctx, tenantID, actor.UserID, today)
	if err == nil {
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyCheckedIn
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Error("check in lookup failed", zap.Error(err))
		return AttendanceResponse{}, err
	}

	in := timeofday.FromTime(now)
	c := s.classify(ctx, tenantID, req.ClassID, req.Shift, strPtr(in.String()), nil, today)

	source := SourceManual
	if classID != nil {
		source = SourceLiveClass
	}

	row := &Attendance{
		ID:             uuid.New(),
		TenantID:       tenantUUID,
		PersonID:       personID,
		PersonType:     PersonStaff,
		ClassID:        classID,
		Shift:          req.Shift,
		AttendanceDate: today,
		CheckIn:        &in,
		Status:         c.Status,
		StatusReason:   c.Reason,
		Source:         source,
		RecordedBy:     &personID,
		Remarks:        req.Remarks,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := qtx.Create(ctx, row); err != nil {
		if apperror.IsUniqueViolation(err) {
			return AttendanceResponse{}, attendanceerrors.ErrAlreadyCheckedIn
		}
		log.Error("check in persist failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		log.Error("check in commit failed", zap.Error(err))
		return AttendanceResponse{}, err
	}

	s.notifyAlert(*row)
	log.Info("checked in", zap.String("status", row.Status), zap.String("check_in", in.String()))
	return mapToResponse(*row), nil
}

// CheckOut stamps the check-out time. The status set at check-in is kept.
func (s *service) CheckOut(ctx context.Context, tenantID string, actor Actor, req CheckOutRequest) (AttendanceResponse, error) {
	log := s.logger.With(zap.String("tenant_id", tenantID), zap.String("user_id", actor.UserID))

	if _, err := uuid.Parse(tenantID); err != nil {
		return AttendanceResponse{}, apperror.ErrTenantRequired
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("check out begin tx failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	now := s.clock.Now()

	row, err := qtx.FindByPersonAndDate(ctx, tenantID, actor.UserID, clock.DateOf(now))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, attendanceerrors.ErrCheckInNotFound
		}
		return AttendanceResponse{}, err
	}
	if row.CheckOut != nil {
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyCheckedOut
	}

	out := timeofday.FromTime(now)
	row.CheckOut = &out
	row.UpdatedAt = now
	if req.Remarks != nil {
		row.Remarks = req.Remarks
	}

	if err := qtx.Update(ctx, row); err != nil {
		log.Error("check out update failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		log.Error("check out commit failed", zap.Error(err))
		return AttendanceResponse{}, err
	}

	log.Info("checked out", zap.String("check_out", out.String()))
	return mapToResponse(*row), nil
}

// Preview classifies a hypothetical punch without writing anything.
func (s *service) Preview(ctx context.Context, tenantID string, req PreviewRequest) (PreviewResponse, error) {
	if _, err := uuid.Parse(tenantID); err != nil {
		return PreviewResponse{}, apperror.ErrTenantRequired
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return PreviewResponse{}, err
	}

	rule := s.resolver.Resolve(ctx, tenantID, attendancerule.ResolveInput{ClassID: req.ClassID, Shift: req.Shift})
	res := PreviewResponse{
		RuleType:       rule.RuleType,
		IsDefault:      rule.IsDefault(),
		LateCutoff:     rule.LateCutoff().String(),
		AbsentCutoff:   rule.AbsentCutoff().String(),
		Classification: Classify(rule, req.CheckIn, req.CheckOut, date),
	}
	if !rule.IsDefault() {
		res.RuleID = rule.ID.String()
	}
	return res, nil
}

func (s *service) newAudit(action string, row *Attendance, oldStatus *string, newStatus string, reason *string, actor Actor) *AuditLog {
	date := row.AttendanceDate
	return &AuditLog{
		ID:        uuid.New(),
		TenantID:  row.TenantID,
		Action:    action,
		RecordID:  &row.ID,
		PersonID:  &row.PersonID,
		Date:      &date,
		OldStatus: oldStatus,
		NewStatus: strPtr(newStatus),
		Reason:    reason,
		UserID:    optionalUUID(actor.UserID),
		UserRole:  actor.Role,
		CreatedAt: s.clock.Now(),
	}
}

// notifyAlert hands absent/late records to the dispatcher. It never blocks;
// a full queue is logged by the dispatcher and ignored here.
func (s *service) notifyAlert(row Attendance) {
	if s.notifier == nil || !IsAlertStatus(row.Status) {
		return
	}

	data := map[string]string{
		"date":   row.AttendanceDate.Format(clock.DateLayout),
		"reason": row.StatusReason,
	}
	if row.CheckIn != nil {
		data["check_in"] = row.CheckIn.String()
	}

	req := notification.NotifyRequest{
		TenantID:   row.TenantID.String(),
		Data:       data,
		PersonID:   row.PersonID.String(),
		PersonType: row.PersonType,
	}
	switch {
	case row.PersonType == PersonStaff && row.Status == StatusLate:
		req.EventType = notification.EventStaffAttendanceLate
		data["staff_name"] = row.PersonName
	case row.PersonType == PersonStaff:
		return
	case row.Status == StatusAbsent:
		req.EventType = notification.EventAttendanceAbsent
		data["student_name"] = row.PersonName
	default:
		req.EventType = notification.EventAttendanceLate
		data["student_name"] = row.PersonName
	}

	s.notifier.Notify(req)
}

func formatDate(t time.Time) string {
	return t.Format(clock.DateLayout)
}

func mapToResponse(a Attendance) AttendanceResponse {
	res := AttendanceResponse{
		ID:             a.ID.String(),
		TenantID:       a.TenantID.String(),
		PersonID:       a.PersonID.String(),
		PersonType:     a.PersonType,
		PersonName:     a.PersonName,
		Shift:          a.Shift,
		AttendanceDate: formatDate(a.AttendanceDate),
		Status:         a.Status,
		StatusReason:   a.StatusReason,
		Source:         a.Source,
		DeviceID:       a.DeviceID,
		Remarks:        a.Remarks,
		EditReason:     a.EditReason,
	}
	if a.ClassID != nil {
		res.ClassID = strPtr(a.ClassID.String())
	}
	if a.CheckIn != nil {
		res.CheckIn = strPtr(a.CheckIn.String())
	}
	if a.CheckOut != nil {
		res.CheckOut = strPtr(a.CheckOut.String())
	}
	if a.RecordedBy != nil {
		res.RecordedBy = strPtr(a.RecordedBy.String())
	}
	return res
}

func mapEditRequestToResponse(r EditRequest) EditRequestResponse {
	res := EditRequestResponse{
		ID:              r.ID.String(),
		RecordID:        r.RecordID.String(),
		OriginalStatus:  r.OriginalStatus,
		NewStatus:       r.NewStatus,
		EditReason:      r.EditReason,
		Status:          r.Status,
		RequestedBy:     r.RequestedBy.String(),
		RejectionReason: r.RejectionReason,
		CreatedAt:       r.CreatedAt.Format(time.RFC3339),
	}
	if r.ReviewedBy != nil {
		res.ReviewedBy = strPtr(r.ReviewedBy.String())
	}
	if r.ReviewedAt != nil {
		res.ReviewedAt = strPtr(r.ReviewedAt.Format(time.RFC3339))
	}
	return res
}

func mapAuditLogToResponse(l AuditLog) AuditLogResponse {
	res := AuditLogResponse{
		ID:        l.ID.String(),
		Action:    l.Action,
		OldStatus: l.OldStatus,
		NewStatus: l.NewStatus,
		Reason:    l.Reason,
		UserRole:  l.UserRole,
		CreatedAt: l.CreatedAt.Format(time.RFC3339),
	}
	if l.RecordID != nil {
		res.RecordID = strPtr(l.RecordID.String())
	}
	if l.PersonID != nil {
		res.PersonID = strPtr(l.PersonID.String())
	}
	if l.Date != nil {
		res.Date = strPtr(formatDate(*l.Date))
	}
	if l.UserID != nil {
		res.UserID = strPtr(l.UserID.String())
	}
	return res
}
