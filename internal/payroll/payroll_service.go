package payroll

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"go-madrasah/internal/employee"
	"go-madrasah/internal/events"
	"go-madrasah/internal/messaging/kafka"
	"go-madrasah/internal/metrics"
	"go-madrasah/internal/notification"
	payrollerrors "go-madrasah/internal/payroll/errors"
	"go-madrasah/internal/shared/apperror"
	"go-madrasah/internal/shared/clock"
	"go-madrasah/internal/shared/counter"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var runStatuses = []string{StatusDraft, StatusApproved, StatusRejected, StatusLocked, StatusPaid}

// SummaryBuilder is satisfied by *Bridge.
type SummaryBuilder interface {
	Build(ctx context.Context, tenantID string, emp employee.Employee, year, month int, settings Settings) (AttendanceSummary, LeaveSummary, error)
}

type RunOptions struct {
	Counter  counter.Repository
	Outbox   kafka.OutboxRepository
	Notifier notification.Notifier
	Metrics  *metrics.Metrics
	Clock    clock.Clock
}

//go:generate mockgen -source=payroll_service.go -destination=mock/payroll_service_mock.go -package=mock
type Service interface {
	Process(ctx context.Context, tenantID, actorID string, req ProcessRunRequest) (RunResponse, error)
	GetAll(ctx context.Context, tenantID string, filter ListRunFilter) ([]RunResponse, error)
	GetByID(ctx context.Context, tenantID, id string) (RunResponse, error)
	UpdateItem(ctx context.Context, tenantID, runID, itemID string, req UpdateItemRequest) (ItemResponse, error)
	Approve(ctx context.Context, tenantID, actorID, id string) (RunResponse, error)
	Reject(ctx context.Context, tenantID, actorID, id, reason string) (RunResponse, error)
	Lock(ctx context.Context, tenantID, actorID, id string) (RunResponse, error)
	MarkPaid(ctx context.Context, tenantID, actorID, id string, req MarkPaidRequest) (RunResponse, error)
	Delete(ctx context.Context, tenantID, id string) error
	GetPayslip(ctx context.Context, tenantID, runID, itemID string) (PayslipResponse, error)
	ExportXLSX(ctx context.Context, tenantID, runID string) ([]byte, string, error)
	// ApplyAdvanceRepayments decrements the advances deducted in a locked
	// run. Applying the same run twice is a no-op.
	ApplyAdvanceRepayments(ctx context.Context, tenantID, runID string) (int, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	employees EmployeeSource
	summaries SummaryBuilder
	counter   counter.Repository
	outbox    kafka.OutboxRepository
	notifier  notification.Notifier
	metrics   *metrics.Metrics
	clock     clock.Clock
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	employees EmployeeSource,
	summaries SummaryBuilder,
	opts RunOptions,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("payroll.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.service")
	}
	if opts.Clock == nil {
		opts.Clock = clock.System()
	}
	return &service{
		db:        db,
		repo:      repo,
		employees: employees,
		summaries: summaries,
		counter:   opts.Counter,
		outbox:    opts.Outbox,
		notifier:  opts.Notifier,
		metrics:   opts.Metrics,
		clock:     opts.Clock,
		logger:    l,
	}
}

func (s *service) Process(ctx context.Context, tenantID, actorID string, req ProcessRunRequest) (RunResponse, error) {
	s.logger.Debug("process payroll requested",
		zap.String("tenant_id", tenantID),
		zap.String("actor_id", actorID),
		zap.Int("year", req.Year),
		zap.Int("month", req.Month),
		zap.String("department", req.Department),
	)

	tenantUUID, err := uuid.Parse(tenantID)
	if err != nil {
		return RunResponse{}, apperror.ErrTenantRequired
	}
	createdBy, err := uuid.Parse(actorID)
	if err != nil {
		return RunResponse{}, payrollerrors.ErrInvalidActorID
	}
	if req.Month < 1 || req.Month > 12 || req.Year < 1 {
		return RunResponse{}, payrollerrors.ErrInvalidPeriod
	}
	department := strings.TrimSpace(req.Department)

	settings, err := loadSettings(ctx, s.repo, tenantID)
	if err != nil {
		return RunResponse{}, err
	}

	employees, err := s.employees.ListPayable(ctx, tenantID, department, req.EmployeeIDs)
	if err != nil {
		s.logger.Error("process payroll list employees failed", zap.Error(err))
		return RunResponse{}, err
	}
	if len(employees) == 0 {
		return RunResponse{}, payrollerrors.ErrNoPayableEmployees
	}

	bonuses, err := s.repo.FindBonuses(ctx, tenantID, req.Year, req.Month)
	if err != nil {
		return RunResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("process payroll begin tx failed", zap.Error(err))
		return RunResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	exists, err := qtx.RunExists(ctx, tenantID, req.Year, req.Month, department)
	if err != nil {
		return RunResponse{}, err
	}
	if exists {
		s.logger.Warn("process payroll duplicate period",
			zap.Int("year", req.Year),
			zap.Int("month", req.Month),
			zap.String("department", department),
		)
		return RunResponse{}, payrollerrors.ErrRunExists
	}

	seq, err := s.counter.WithTx(tx).GetNextValue(ctx, tenantID, counter.CounterPayrollRun)
	if err != nil {
		s.logger.Error("process payroll run number failed", zap.Error(err))
		return RunResponse{}, err
	}

	run := &Run{
		ID:         uuid.New(),
		TenantID:   tenantUUID,
		RunNumber:  fmt.Sprintf("PR-%04d%02d-%03d", req.Year, req.Month, seq),
		Year:       req.Year,
		Month:      req.Month,
		Department: department,
		Status:     StatusDraft,
		Remarks:    strings.TrimSpace(req.Remarks),
		CreatedBy:  createdBy,
	}

	for _, emp := range employees {
		item, err := s.buildItem(ctx, qtx, tenantID, run, emp, settings, bonuses)
		if err != nil {
			s.metrics.ObservePayrollItem("failed")
			s.logger.Error("process payroll item failed",
				zap.String("employee_id", emp.ID.String()),
				zap.Error(err),
			)
			return RunResponse{}, err
		}
		run.Items = append(run.Items, item)
	}
	recomputeTotals(run)

	if err := qtx.CreateRun(ctx, run); err != nil {
		s.logger.Error("process payroll persist failed", zap.Error(err))
		return RunResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("process payroll commit failed", zap.Error(err))
		return RunResponse{}, err
	}

	s.logger.Info("payroll processed",
		zap.String("tenant_id", tenantID),
		zap.String("run_id", run.ID.String()),
		zap.String("run_number", run.RunNumber),
		zap.Int("employees", run.EmployeeCount),
		zap.String("total_net_payable", money(run.TotalNetPayable)),
	)
	return mapRunResponse(*run, true), nil
}

func (s *service) buildItem(
	ctx context.Context,
	qtx Repository,
	tenantID string,
	run *Run,
	emp employee.Employee,
	settings Settings,
	bonuses []Bonus,
) (Item, error) {
	var structure *SalaryStructure
	st, err := qtx.FindActiveStructure(ctx, tenantID, emp.ID.String())
	switch {
	case err == nil:
		structure = st
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return Item{}, err
	}

	att, lv, err := s.summaries.Build(ctx, tenantID, emp, run.Year, run.Month, settings)
	if err != nil {
		return Item{}, err
	}

	advances, err := qtx.ListOutstandingAdvances(ctx, tenantID, emp.ID.String())
	if err != nil {
		return Item{}, err
	}

	result := CalculateSalary(emp, structure, att, lv, settings, advances)

	basic := emp.MonthlySalary
	if structure != nil {
		basic = structure.BasicSalary
	}
	bonusTotal := decimal.Zero
	var bonusNames []string
	for _, b := range bonuses {
		if !b.AppliesTo(emp) {
			continue
		}
		bonusTotal = bonusTotal.Add(BonusAmount(b, basic))
		bonusNames = append(bonusNames, b.Name)
	}

	outcome := "flat_salary"
	if result.UsedStructure {
		outcome = "structure"
	}
	s.metrics.ObservePayrollItem(outcome)

	gross := Round2(result.GrossSalary)
	total := Round2(result.TotalDeductions)
	bonusTotal = Round2(bonusTotal)

	return Item{
		ID:                uuid.New(),
		RunID:             run.ID,
		TenantID:          run.TenantID,
		EmployeeID:        emp.ID,
		EmployeeCode:      emp.EmployeeCode,
		EmployeeName:      emp.FullName,
		Department:        emp.Department,
		GrossSalary:       gross,
		DailyRate:         Round2(result.DailyRate),
		Earnings:          datatypes.NewJSONType(roundItems(result.Earnings)),
		Deductions:        datatypes.NewJSONType(roundItems(result.Deductions)),
		TotalDeductions:   total,
		NetSalary:         Round2(result.NetSalary),
		BonusAmount:       bonusTotal,
		BonusNote:         strings.Join(bonusNames, ", "),
		ExtraDeduction:    decimal.Zero,
		NetPayable:        NetPayable(gross, bonusTotal, total, decimal.Zero),
		AdvanceDeduction:  Round2(result.AdvanceDeduction),
		AttendanceSummary: datatypes.NewJSONType(att),
		LeaveSummary:      datatypes.NewJSONType(lv),
		UsedStructure:     result.UsedStructure,
	}, nil
}

func (s *service) GetAll(ctx context.Context, tenantID string, filter ListRunFilter) ([]RunResponse, error) {
	status := strings.ToUpper(strings.TrimSpace(filter.Status))
	if status != "" && !slices.Contains(runStatuses, status) {
		return nil, payrollerrors.ErrInvalidStatusFilter
	}
	runs, err := s.repo.FindRuns(ctx, tenantID, RunFilter{
		Year:       filter.Year,
		Month:      filter.Month,
		Status:     status,
		Department: strings.TrimSpace(filter.Department),
	})
	if err != nil {
		s.logger.Error("list payroll runs failed", zap.String("tenant_id", tenantID), zap.Error(err))
		return nil, err
	}
	out := make([]RunResponse, 0, len(runs))
	for _, r := range runs {
		out = append(out, mapRunResponse(r, false))
	}
	return out, nil
}

func (s *service) GetByID(ctx context.Context, tenantID, id string) (RunResponse, error) {
	run, err := s.findRun(ctx, s.repo, tenantID, id, true)
	if err != nil {
		return RunResponse{}, err
	}
	return mapRunResponse(*run, true), nil
}

func (s *service) findRun(ctx context.Context, repo Repository, tenantID, id string, withItems bool) (*Run, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, payrollerrors.ErrInvalidRunID
	}
	run, err := repo.FindRunByID(ctx, tenantID, id, withItems)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, payrollerrors.ErrRunNotFound
		}
		return nil, err
	}
	return run, nil
}

func (s *service) UpdateItem(ctx context.Context, tenantID, runID, itemID string, req UpdateItemRequest) (ItemResponse, error) {
	if _, err := uuid.Parse(itemID); err != nil {
		return ItemResponse{}, payrollerrors.ErrItemNotFound
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ItemResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	run, err := s.findRun(ctx, qtx, tenantID, runID, true)
	if err != nil {
		return ItemResponse{}, err
	}
	if run.Status != StatusDraft {
		return ItemResponse{}, payrollerrors.ErrRunNotEditable
	}

	idx := slices.IndexFunc(run.Items, func(it Item) bool { return it.ID.String() == itemID })
	if idx < 0 {
		return ItemResponse{}, payrollerrors.ErrItemNotFound
	}
	item := &run.Items[idx]

	if req.BonusAmount != nil {
		v, err := parseMoney(*req.BonusAmount)
		if err != nil {
			return ItemResponse{}, err
		}
		item.BonusAmount = v
	}
	if req.BonusNote != nil {
		item.BonusNote = strings.TrimSpace(*req.BonusNote)
	}
	if req.ExtraDeduction != nil {
		v, err := parseMoney(*req.ExtraDeduction)
		if err != nil {
			return ItemResponse{}, err
		}
		item.ExtraDeduction = v
	}
	if req.ExtraDeductionReason != nil {
		item.ExtraDeductionReason = strings.TrimSpace(*req.ExtraDeductionReason)
	}
	if req.Remarks != nil {
		item.Remarks = strings.TrimSpace(*req.Remarks)
	}
	item.NetPayable = NetPayable(item.GrossSalary, item.BonusAmount, item.TotalDeductions, item.ExtraDeduction)

	if err := qtx.UpdateItem(ctx, item); err != nil {
		s.logger.Error("update payroll item failed", zap.String("item_id", itemID), zap.Error(err))
		return ItemResponse{}, err
	}
	recomputeTotals(run)
	if err := qtx.UpdateRun(ctx, run); err != nil {
		return ItemResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return ItemResponse{}, err
	}
	s.logger.Info("payroll item adjusted",
		zap.String("run_id", runID),
		zap.String("item_id", itemID),
		zap.String("net_payable", money(item.NetPayable)),
	)
	return mapItemResponse(*item), nil
}

func (s *service) Approve(ctx context.Context, tenantID, actorID, id string) (RunResponse, error) {
	return s.transition(ctx, tenantID, actorID, id, StatusApproved, func(run *Run, actor uuid.UUID, now time.Time) {
		run.ReviewedBy = &actor
		run.ReviewedAt = &now
	})
}

func (s *service) Reject(ctx context.Context, tenantID, actorID, id, reason string) (RunResponse, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return RunResponse{}, payrollerrors.ErrRejectionReasonRequired
	}
	return s.transition(ctx, tenantID, actorID, id, StatusRejected, func(run *Run, actor uuid.UUID, now time.Time) {
		run.ReviewedBy = &actor
		run.ReviewedAt = &now
		run.RejectionReason = reason
	})
}

func (s *service) Lock(ctx context.Context, tenantID, actorID, id string) (RunResponse, error) {
	return s.transition(ctx, tenantID, actorID, id, StatusLocked, func(run *Run, actor uuid.UUID, now time.Time) {
		run.LockedBy = &actor
		run.LockedAt = &now
	})
}

func (s *service) MarkPaid(ctx context.Context, tenantID, actorID, id string, req MarkPaidRequest) (RunResponse, error) {
	res, err := s.transition(ctx, tenantID, actorID, id, StatusPaid, func(run *Run, actor uuid.UUID, now time.Time) {
		run.PaidAt = &now
		run.PaymentMethod = req.PaymentMethod
		run.PaymentReference = strings.TrimSpace(req.PaymentReference)
	})
	if err != nil {
		return RunResponse{}, err
	}

	run, err := s.findRun(ctx, s.repo, tenantID, id, true)
	if err != nil {
		s.logger.Warn("mark paid reload failed, skipping notifications", zap.Error(err))
		return res, nil
	}
	s.notifyPaid(tenantID, *run)
	return mapRunResponse(*run, true), nil
}

func (s *service) notifyPaid(tenantID string, run Run) {
	if s.notifier == nil {
		return
	}
	monthName := time.Month(run.Month).String()
	for _, item := range run.Items {
		s.notifier.Notify(notification.NotifyRequest{
			TenantID:   tenantID,
			EventType:  notification.EventPayrollProcessed,
			PersonID:   item.EmployeeID.String(),
			PersonType: notification.TargetStaff,
			Data: map[string]string{
				"employee_name": item.EmployeeName,
				"month":         monthName,
				"year":          strconv.Itoa(run.Year),
				"net_payable":   money(item.NetPayable),
			},
		})
	}
}

var allowedTransitions = map[string][]string{
	StatusApproved: {StatusDraft},
	StatusRejected: {StatusDraft},
	StatusLocked:   {StatusApproved},
	StatusPaid:     {StatusLocked},
}

func (s *service) transition(
	ctx context.Context,
	tenantID, actorID, id, target string,
	apply func(run *Run, actor uuid.UUID, now time.Time),
) (RunResponse, error) {
	actor, err := uuid.Parse(actorID)
	if err != nil {
		return RunResponse{}, payrollerrors.ErrInvalidActorID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return RunResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	run, err := s.findRun(ctx, qtx, tenantID, id, false)
	if err != nil {
		return RunResponse{}, err
	}
	if !slices.Contains(allowedTransitions[target], run.Status) {
		s.logger.Warn("payroll status transition rejected",
			zap.String("run_id", id),
			zap.String("from", run.Status),
			zap.String("to", target),
		)
		return RunResponse{}, payrollerrors.ErrInvalidStatusTransition
	}

	now := s.clock.Now()
	from := run.Status
	run.Status = target
	apply(run, actor, now)

	if err := qtx.UpdateRun(ctx, run); err != nil {
		s.logger.Error("payroll status update failed", zap.String("run_id", id), zap.Error(err))
		return RunResponse{}, err
	}

	if target == StatusLocked && s.outbox != nil {
		event, err := kafka.NewEvent(ctx, tenantID, "payroll_run", run.ID.String(),
			"payroll.locked", events.PayrollLockedTopic,
			events.PayrollLockedEvent{
				EventType:  "payroll.locked",
				RunID:      run.ID.String(),
				TenantID:   tenantID,
				Year:       run.Year,
				Month:      run.Month,
				LockedBy:   actorID,
				OccurredAt: now,
			})
		if err != nil {
			return RunResponse{}, err
		}
		if err := s.outbox.WithTx(tx).Create(ctx, event); err != nil {
			s.logger.Error("payroll locked outbox write failed", zap.Error(err))
			return RunResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return RunResponse{}, err
	}
	s.logger.Info("payroll status changed",
		zap.String("tenant_id", tenantID),
		zap.String("run_id", id),
		zap.String("from", from),
		zap.String("to", target),
	)
	return mapRunResponse(*run, false), nil
}

func (s *service) Delete(ctx context.Context, tenantID, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	run, err := s.findRun(ctx, qtx, tenantID, id, false)
	if err != nil {
		return err
	}
	if run.Status != StatusDraft && run.Status != StatusRejected {
		return payrollerrors.ErrDeleteNotAllowed
	}
	if err := qtx.DeleteRun(ctx, tenantID, id); err != nil {
		s.logger.Error("delete payroll run failed", zap.String("run_id", id), zap.Error(err))
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	s.logger.Info("payroll run deleted", zap.String("tenant_id", tenantID), zap.String("run_id", id))
	return nil
}

func (s *service) GetPayslip(ctx context.Context, tenantID, runID, itemID string) (PayslipResponse, error) {
	run, err := s.findRun(ctx, s.repo, tenantID, runID, false)
	if err != nil {
		return PayslipResponse{}, err
	}
	if _, err := uuid.Parse(itemID); err != nil {
		return PayslipResponse{}, payrollerrors.ErrItemNotFound
	}
	item, err := s.repo.FindItem(ctx, tenantID, runID, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PayslipResponse{}, payrollerrors.ErrItemNotFound
		}
		return PayslipResponse{}, err
	}
	return PayslipResponse{
		RunNumber: run.RunNumber,
		Year:      run.Year,
		Month:     run.Month,
		MonthName: time.Month(run.Month).String(),
		Status:    run.Status,
		Item:      mapItemResponse(*item),
	}, nil
}

func (s *service) ApplyAdvanceRepayments(ctx context.Context, tenantID, runID string) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	run, err := s.findRun(ctx, qtx, tenantID, runID, true)
	if err != nil {
		return 0, err
	}
	if run.AdvancesApplied {
		s.logger.Info("advance repayments already applied", zap.String("run_id", runID))
		return 0, nil
	}
	if run.Status != StatusLocked && run.Status != StatusPaid {
		return 0, payrollerrors.ErrInvalidStatusTransition
	}

	updated := 0
	for _, item := range run.Items {
		if !item.AdvanceDeduction.IsPositive() {
			continue
		}
		advances, err := qtx.ListOutstandingAdvances(ctx, tenantID, item.EmployeeID.String())
		if err != nil {
			return 0, err
		}
		for i := range advances {
			a := &advances[i]
			a.RemainingAmount = floorZero(a.RemainingAmount.Sub(a.MonthlyDeduction))
			if a.RemainingAmount.IsZero() {
				a.IsActive = false
			}
			if err := qtx.UpdateAdvance(ctx, a); err != nil {
				return 0, err
			}
			updated++
		}
	}

	run.AdvancesApplied = true
	if err := qtx.UpdateRun(ctx, run); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	s.logger.Info("advance repayments applied",
		zap.String("tenant_id", tenantID),
		zap.String("run_id", runID),
		zap.Int("advances_updated", updated),
	)
	return updated, nil
}

func recomputeTotals(run *Run) {
	run.EmployeeCount = len(run.Items)
	run.TotalGross = decimal.Zero
	run.TotalBonus = decimal.Zero
	run.TotalDeductions = decimal.Zero
	run.TotalNetPayable = decimal.Zero
	for _, it := range run.Items {
		run.TotalGross = run.TotalGross.Add(it.GrossSalary)
		run.TotalBonus = run.TotalBonus.Add(it.BonusAmount)
		run.TotalDeductions = run.TotalDeductions.Add(it.TotalDeductions).Add(it.ExtraDeduction)
		run.TotalNetPayable = run.TotalNetPayable.Add(it.NetPayable)
	}
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	v := t.UTC().Format(time.RFC3339)
	return &v
}

func uuidString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	v := id.String()
	return &v
}

func mapLineItems(items []LineItem) []LineItemResponse {
	out := make([]LineItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, LineItemResponse{Name: it.Name, Amount: money(it.Amount)})
	}
	return out
}

func mapItemResponse(it Item) ItemResponse {
	return ItemResponse{
		ID:                   it.ID.String(),
		EmployeeID:           it.EmployeeID.String(),
		EmployeeCode:         it.EmployeeCode,
		EmployeeName:         it.EmployeeName,
		Department:           it.Department,
		GrossSalary:          money(it.GrossSalary),
		DailyRate:            money(it.DailyRate),
		Earnings:             mapLineItems(it.Earnings.Data()),
		Deductions:           mapLineItems(it.Deductions.Data()),
		TotalDeductions:      money(it.TotalDeductions),
		NetSalary:            money(it.NetSalary),
		BonusAmount:          money(it.BonusAmount),
		BonusNote:            it.BonusNote,
		ExtraDeduction:       money(it.ExtraDeduction),
		ExtraDeductionReason: it.ExtraDeductionReason,
		NetPayable:           money(it.NetPayable),
		AttendanceSummary:    it.AttendanceSummary.Data(),
		LeaveSummary:         it.LeaveSummary.Data(),
		Remarks:              it.Remarks,
	}
}

func mapRunResponse(r Run, withItems bool) RunResponse {
	res := RunResponse{
		ID:               r.ID.String(),
		RunNumber:        r.RunNumber,
		Year:             r.Year,
		Month:            r.Month,
		Department:       r.Department,
		Status:           r.Status,
		EmployeeCount:    r.EmployeeCount,
		TotalGross:       money(r.TotalGross),
		TotalBonus:       money(r.TotalBonus),
		TotalDeductions:  money(r.TotalDeductions),
		TotalNetPayable:  money(r.TotalNetPayable),
		Remarks:          r.Remarks,
		CreatedBy:        r.CreatedBy.String(),
		ReviewedBy:       uuidString(r.ReviewedBy),
		ReviewedAt:       formatTime(r.ReviewedAt),
		RejectionReason:  r.RejectionReason,
		LockedAt:         formatTime(r.LockedAt),
		PaidAt:           formatTime(r.PaidAt),
		PaymentMethod:    r.PaymentMethod,
		PaymentReference: r.PaymentReference,
	}
	if withItems {
		res.Items = make([]ItemResponse, 0, len(r.Items))
		for _, it := range r.Items {
			res.Items = append(res.Items, mapItemResponse(it))
		}
	}
	return res
}
