package payroll

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"go-madrasah/internal/employee"
	payrollerrors "go-madrasah/internal/payroll/errors"
	"go-madrasah/internal/shared/apperror"
	"go-madrasah/internal/shared/clock"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EmployeeSource is the slice of the employee directory payroll reads.
type EmployeeSource interface {
	FindByID(ctx context.Context, tenantID, id string) (*employee.Employee, error)
	ListPayable(ctx context.Context, tenantID, department string, ids []string) ([]employee.Employee, error)
}

// SetupService manages the inputs a payroll run consumes: tenant settings,
// salary structures, advances and bonuses.
//
//go:generate mockgen -source=setup_service.go -destination=mock/setup_service_mock.go -package=mock
type SetupService interface {
	GetSettings(ctx context.Context, tenantID string) (SettingsResponse, error)
	UpdateSettings(ctx context.Context, tenantID string, req SettingsRequest) (SettingsResponse, error)

	CreateStructure(ctx context.Context, tenantID string, req StructureRequest) (StructureResponse, error)
	ListStructures(ctx context.Context, tenantID, employeeID string) ([]StructureResponse, error)
	UpdateStructure(ctx context.Context, tenantID, id string, req StructureRequest) (StructureResponse, error)

	CreateAdvance(ctx context.Context, tenantID, actorID string, req AdvanceRequest) (AdvanceResponse, error)
	ListAdvances(ctx context.Context, tenantID, employeeID string, activeOnly bool) ([]AdvanceResponse, error)
	DeactivateAdvance(ctx context.Context, tenantID, id string) (AdvanceResponse, error)

	CreateBonus(ctx context.Context, tenantID, actorID string, req BonusRequest) (BonusResponse, error)
	ListBonuses(ctx context.Context, tenantID string, filter ListBonusFilter) ([]BonusResponse, error)
	DeleteBonus(ctx context.Context, tenantID, id string) error
}

type setupService struct {
	db        *sql.DB
	repo      Repository
	employees EmployeeSource
	clock     clock.Clock
	logger    *zap.Logger
}

func NewSetupService(db *sql.DB, repo Repository, employees EmployeeSource, clk clock.Clock, logger ...*zap.Logger) SetupService {
	l := zap.L().Named("payroll.setup")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.setup")
	}
	if clk == nil {
		clk = clock.System()
	}
	return &setupService{db: db, repo: repo, employees: employees, clock: clk, logger: l}
}

// loadSettings returns the tenant's stored settings or the defaults.
func loadSettings(ctx context.Context, repo Repository, tenantID string) (Settings, error) {
	tenantUUID, err := uuid.Parse(tenantID)
	if err != nil {
		return Settings{}, apperror.ErrTenantRequired
	}
	s, err := repo.GetSettings(ctx, tenantID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return DefaultSettings(tenantUUID), nil
	}
	if err != nil {
		return Settings{}, err
	}
	return *s, nil
}

func (s *setupService) GetSettings(ctx context.Context, tenantID string) (SettingsResponse, error) {
	settings, err := loadSettings(ctx, s.repo, tenantID)
	if err != nil {
		return SettingsResponse{}, err
	}
	return mapSettingsResponse(settings), nil
}

func (s *setupService) UpdateSettings(ctx context.Context, tenantID string, req SettingsRequest) (SettingsResponse, error) {
	current, err := loadSettings(ctx, s.repo, tenantID)
	if err != nil {
		return SettingsResponse{}, err
	}

	absent, err := parseMoney(req.AbsentDeductionPerDay)
	if err != nil {
		return SettingsResponse{}, err
	}
	late, err := parseMoney(req.LateDeductionAmount)
	if err != nil {
		return SettingsResponse{}, err
	}
	overtime, err := parseMoney(req.OvertimeRatePerHour)
	if err != nil {
		return SettingsResponse{}, err
	}
	halfDayRate := current.HalfDayDeductionRate
	if strings.TrimSpace(req.HalfDayDeductionRate) != "" {
		halfDayRate, err = decimal.NewFromString(req.HalfDayDeductionRate)
		if err != nil || halfDayRate.IsNegative() || halfDayRate.GreaterThan(decimal.NewFromInt(1)) {
			return SettingsResponse{}, payrollerrors.ErrInvalidSettings
		}
	}

	current.WorkingDaysPerMonth = req.WorkingDaysPerMonth
	current.AbsentDeductionPerDay = absent
	current.HalfDayDeductionRate = halfDayRate
	current.LateDeductionEnabled = req.LateDeductionEnabled
	current.LateDaysThreshold = req.LateDaysThreshold
	current.LateDeductionAmount = late
	current.OvertimeEnabled = req.OvertimeEnabled
	current.OvertimeRatePerHour = overtime
	if req.UnrecordedDaysAsAbsent != nil {
		current.UnrecordedDaysAsAbsent = *req.UnrecordedDaysAsAbsent
	}
	current.UpdatedAt = s.clock.Now()

	if err := s.repo.SaveSettings(ctx, &current); err != nil {
		s.logger.Error("update payroll settings failed", zap.String("tenant_id", tenantID), zap.Error(err))
		return SettingsResponse{}, err
	}
	s.logger.Info("payroll settings updated",
		zap.String("tenant_id", tenantID),
		zap.Int("working_days_per_month", current.WorkingDaysPerMonth),
		zap.Bool("unrecorded_days_as_absent", current.UnrecordedDaysAsAbsent),
	)
	return mapSettingsResponse(current), nil
}

func (s *setupService) CreateStructure(ctx context.Context, tenantID string, req StructureRequest) (StructureResponse, error) {
	tenantUUID, err := uuid.Parse(tenantID)
	if err != nil {
		return StructureResponse{}, apperror.ErrTenantRequired
	}
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return StructureResponse{}, payrollerrors.ErrInvalidEmployeeID
	}
	structure := &SalaryStructure{
		ID:         uuid.New(),
		TenantID:   tenantUUID,
		EmployeeID: employeeUUID,
		IsActive:   true,
	}
	if err := applyStructure(structure, req); err != nil {
		return StructureResponse{}, err
	}

	if _, err := s.employees.FindByID(ctx, tenantID, req.EmployeeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return StructureResponse{}, payrollerrors.ErrEmployeeNotFound
		}
		return StructureResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return StructureResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.DeactivateStructures(ctx, tenantID, req.EmployeeID); err != nil {
		s.logger.Error("deactivate previous salary structure failed", zap.Error(err))
		return StructureResponse{}, err
	}
	if err := qtx.CreateStructure(ctx, structure); err != nil {
		s.logger.Error("create salary structure failed", zap.Error(err))
		return StructureResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return StructureResponse{}, err
	}

	s.logger.Info("salary structure created",
		zap.String("tenant_id", tenantID),
		zap.String("employee_id", req.EmployeeID),
		zap.String("structure_id", structure.ID.String()),
	)
	return mapStructureResponse(*structure), nil
}

func (s *setupService) ListStructures(ctx context.Context, tenantID, employeeID string) ([]StructureResponse, error) {
	if employeeID != "" {
		if _, err := uuid.Parse(employeeID); err != nil {
			return nil, payrollerrors.ErrInvalidEmployeeID
		}
	}
	structures, err := s.repo.FindStructures(ctx, tenantID, employeeID)
	if err != nil {
		return nil, err
	}
	out := make([]StructureResponse, 0, len(structures))
	for _, st := range structures {
		out = append(out, mapStructureResponse(st))
	}
	return out, nil
}

func (s *setupService) UpdateStructure(ctx context.Context, tenantID, id string, req StructureRequest) (StructureResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return StructureResponse{}, payrollerrors.ErrStructureNotFound
	}
	structure, err := s.repo.FindStructureByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return StructureResponse{}, payrollerrors.ErrStructureNotFound
		}
		return StructureResponse{}, err
	}
	if err := applyStructure(structure, req); err != nil {
		return StructureResponse{}, err
	}
	if err := s.repo.UpdateStructure(ctx, structure); err != nil {
		s.logger.Error("update salary structure failed", zap.String("structure_id", id), zap.Error(err))
		return StructureResponse{}, err
	}
	return mapStructureResponse(*structure), nil
}

func (s *setupService) CreateAdvance(ctx context.Context, tenantID, actorID string, req AdvanceRequest) (AdvanceResponse, error) {
	tenantUUID, err := uuid.Parse(tenantID)
	if err != nil {
		return AdvanceResponse{}, apperror.ErrTenantRequired
	}
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return AdvanceResponse{}, payrollerrors.ErrInvalidEmployeeID
	}
	createdBy, err := uuid.Parse(actorID)
	if err != nil {
		return AdvanceResponse{}, payrollerrors.ErrInvalidActorID
	}
	amount, err := parseMoney(req.Amount)
	if err != nil {
		return AdvanceResponse{}, err
	}
	if !amount.IsPositive() || req.RepaymentMonths < 1 {
		return AdvanceResponse{}, payrollerrors.ErrInvalidMoneyValue
	}

	if _, err := s.employees.FindByID(ctx, tenantID, req.EmployeeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AdvanceResponse{}, payrollerrors.ErrEmployeeNotFound
		}
		return AdvanceResponse{}, err
	}

	advance := &Advance{
		ID:               uuid.New(),
		TenantID:         tenantUUID,
		EmployeeID:       employeeUUID,
		Amount:           amount,
		MonthlyDeduction: amount.Div(decimal.NewFromInt(int64(req.RepaymentMonths))).Round(2),
		RemainingAmount:  amount,
		RepaymentMonths:  req.RepaymentMonths,
		Reason:           strings.TrimSpace(req.Reason),
		StartYear:        req.StartYear,
		StartMonth:       req.StartMonth,
		IsActive:         true,
		CreatedBy:        createdBy,
	}
	if err := s.repo.CreateAdvance(ctx, advance); err != nil {
		s.logger.Error("create advance failed", zap.Error(err))
		return AdvanceResponse{}, err
	}
	s.logger.Info("advance created",
		zap.String("tenant_id", tenantID),
		zap.String("employee_id", req.EmployeeID),
		zap.String("amount", amount.StringFixed(2)),
		zap.Int("repayment_months", req.RepaymentMonths),
	)
	return mapAdvanceResponse(*advance), nil
}

func (s *setupService) ListAdvances(ctx context.Context, tenantID, employeeID string, activeOnly bool) ([]AdvanceResponse, error) {
	if employeeID != "" {
		if _, err := uuid.Parse(employeeID); err != nil {
			return nil, payrollerrors.ErrInvalidEmployeeID
		}
	}
	advances, err := s.repo.FindAdvances(ctx, tenantID, employeeID, activeOnly)
	if err != nil {
		return nil, err
	}
	out := make([]AdvanceResponse, 0, len(advances))
	for _, a := range advances {
		out = append(out, mapAdvanceResponse(a))
	}
	return out, nil
}

func (s *setupService) DeactivateAdvance(ctx context.Context, tenantID, id string) (AdvanceResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return AdvanceResponse{}, payrollerrors.ErrAdvanceNotFound
	}
	advance, err := s.repo.FindAdvanceByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AdvanceResponse{}, payrollerrors.ErrAdvanceNotFound
		}
		return AdvanceResponse{}, err
	}
	advance.IsActive = false
	if err := s.repo.UpdateAdvance(ctx, advance); err != nil {
		return AdvanceResponse{}, err
	}
	return mapAdvanceResponse(*advance), nil
}

func (s *setupService) CreateBonus(ctx context.Context, tenantID, actorID string, req BonusRequest) (BonusResponse, error) {
	tenantUUID, err := uuid.Parse(tenantID)
	if err != nil {
		return BonusResponse{}, apperror.ErrTenantRequired
	}
	createdBy, err := uuid.Parse(actorID)
	if err != nil {
		return BonusResponse{}, payrollerrors.ErrInvalidActorID
	}

	amount, err := parseMoney(req.Amount)
	if err != nil {
		return BonusResponse{}, err
	}
	percentage, err := parseMoney(req.Percentage)
	if err != nil {
		return BonusResponse{}, err
	}
	switch req.BonusType {
	case BonusFixed:
		if !amount.IsPositive() {
			return BonusResponse{}, payrollerrors.ErrInvalidBonus
		}
	case BonusPercentage:
		if !percentage.IsPositive() {
			return BonusResponse{}, payrollerrors.ErrInvalidBonus
		}
	}
	switch req.ApplicableTo {
	case ApplicableDepartment:
		if strings.TrimSpace(req.Department) == "" {
			return BonusResponse{}, payrollerrors.ErrBonusTargetRequired
		}
	case ApplicableIndividual:
		if len(req.EmployeeIDs) == 0 {
			return BonusResponse{}, payrollerrors.ErrBonusTargetRequired
		}
	}

	bonus := &Bonus{
		ID:             uuid.New(),
		TenantID:       tenantUUID,
		Name:           strings.TrimSpace(req.Name),
		BonusType:      req.BonusType,
		Amount:         amount,
		Percentage:     percentage,
		ApplicableTo:   req.ApplicableTo,
		Department:     strings.TrimSpace(req.Department),
		EmployeeIDs:    req.EmployeeIDs,
		EffectiveYear:  req.EffectiveYear,
		EffectiveMonth: req.EffectiveMonth,
		Description:    req.Description,
		CreatedBy:      createdBy,
	}
	if err := s.repo.CreateBonus(ctx, bonus); err != nil {
		s.logger.Error("create bonus failed", zap.Error(err))
		return BonusResponse{}, err
	}
	s.logger.Info("bonus created",
		zap.String("tenant_id", tenantID),
		zap.String("bonus_id", bonus.ID.String()),
		zap.String("applicable_to", bonus.ApplicableTo),
	)
	return mapBonusResponse(*bonus), nil
}

func (s *setupService) ListBonuses(ctx context.Context, tenantID string, filter ListBonusFilter) ([]BonusResponse, error) {
	bonuses, err := s.repo.FindBonuses(ctx, tenantID, filter.Year, filter.Month)
	if err != nil {
		return nil, err
	}
	out := make([]BonusResponse, 0, len(bonuses))
	for _, b := range bonuses {
		out = append(out, mapBonusResponse(b))
	}
	return out, nil
}

func (s *setupService) DeleteBonus(ctx context.Context, tenantID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return payrollerrors.ErrBonusNotFound
	}
	deleted, err := s.repo.DeleteBonus(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if !deleted {
		return payrollerrors.ErrBonusNotFound
	}
	return nil
}

func applyStructure(st *SalaryStructure, req StructureRequest) error {
	fields := []struct {
		raw string
		dst *decimal.Decimal
	}{
		{req.BasicSalary, &st.BasicSalary},
		{req.HouseRentAllowance, &st.HouseRentAllowance},
		{req.FoodAllowance, &st.FoodAllowance},
		{req.TransportAllowance, &st.TransportAllowance},
		{req.MedicalAllowance, &st.MedicalAllowance},
		{req.OtherAllowance, &st.OtherAllowance},
	}
	for _, f := range fields {
		v, err := parseMoney(f.raw)
		if err != nil {
			return err
		}
		*f.dst = v
	}
	st.OtherAllowanceName = strings.TrimSpace(req.OtherAllowanceName)
	return nil
}

func parseMoney(v string) (decimal.Decimal, error) {
	if strings.TrimSpace(v) == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(v))
	if err != nil || d.IsNegative() {
		return decimal.Zero, payrollerrors.ErrInvalidMoneyValue
	}
	return d.Round(2), nil
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func mapSettingsResponse(s Settings) SettingsResponse {
	return SettingsResponse{
		WorkingDaysPerMonth:    s.WorkingDaysPerMonth,
		AbsentDeductionPerDay:  money(s.AbsentDeductionPerDay),
		HalfDayDeductionRate:   s.HalfDayDeductionRate.String(),
		LateDeductionEnabled:   s.LateDeductionEnabled,
		LateDaysThreshold:      s.LateDaysThreshold,
		LateDeductionAmount:    money(s.LateDeductionAmount),
		OvertimeEnabled:        s.OvertimeEnabled,
		OvertimeRatePerHour:    money(s.OvertimeRatePerHour),
		UnrecordedDaysAsAbsent: s.UnrecordedDaysAsAbsent,
	}
}

func mapStructureResponse(s SalaryStructure) StructureResponse {
	gross := s.BasicSalary.Add(s.HouseRentAllowance).Add(s.FoodAllowance).
		Add(s.TransportAllowance).Add(s.MedicalAllowance).Add(s.OtherAllowance)
	return StructureResponse{
		ID:                 s.ID.String(),
		EmployeeID:         s.EmployeeID.String(),
		BasicSalary:        money(s.BasicSalary),
		HouseRentAllowance: money(s.HouseRentAllowance),
		FoodAllowance:      money(s.FoodAllowance),
		TransportAllowance: money(s.TransportAllowance),
		MedicalAllowance:   money(s.MedicalAllowance),
		OtherAllowance:     money(s.OtherAllowance),
		OtherAllowanceName: s.OtherAllowanceName,
		GrossSalary:        money(gross),
		IsActive:           s.IsActive,
	}
}

func mapAdvanceResponse(a Advance) AdvanceResponse {
	return AdvanceResponse{
		ID:               a.ID.String(),
		EmployeeID:       a.EmployeeID.String(),
		Amount:           money(a.Amount),
		MonthlyDeduction: money(a.MonthlyDeduction),
		RemainingAmount:  money(a.RemainingAmount),
		RepaymentMonths:  a.RepaymentMonths,
		Reason:           a.Reason,
		StartYear:        a.StartYear,
		StartMonth:       a.StartMonth,
		IsActive:         a.IsActive,
	}
}

func mapBonusResponse(b Bonus) BonusResponse {
	return BonusResponse{
		ID:             b.ID.String(),
		Name:           b.Name,
		BonusType:      b.BonusType,
		Amount:         money(b.Amount),
		Percentage:     b.Percentage.String(),
		ApplicableTo:   b.ApplicableTo,
		Department:     b.Department,
		EmployeeIDs:    b.EmployeeIDs,
		EffectiveYear:  b.EffectiveYear,
		EffectiveMonth: b.EffectiveMonth,
		Description:    b.Description,
	}
}
