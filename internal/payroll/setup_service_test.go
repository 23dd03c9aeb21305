package payroll_test

import (
	"context"
	"errors"
	"testing"

	"go-madrasah/internal/payroll"
	payrollerrors "go-madrasah/internal/payroll/errors"
	"go-madrasah/internal/shared/clock"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func setupSetupTest(t *testing.T) (payroll.SetupService, *serviceDeps) {
	deps := setupServiceTest(t)
	svc := payroll.NewSetupService(deps.db, deps.repo, deps.employees, clock.Fixed{T: payrollNow}, zap.NewNop())
	return svc, deps
}

func TestSetupService_Settings(t *testing.T) {
	ctx := context.Background()
	svc, deps := setupSetupTest(t)

	got, err := svc.GetSettings(ctx, deps.tenantID)
	assert.NoError(t, err)
	assert.Equal(t, 26, got.WorkingDaysPerMonth)
	assert.Equal(t, "0.5", got.HalfDayDeductionRate)
	assert.Equal(t, 3, got.LateDaysThreshold)
	assert.True(t, got.UnrecordedDaysAsAbsent)

	off := false
	updated, err := svc.UpdateSettings(ctx, deps.tenantID, payroll.SettingsRequest{
		WorkingDaysPerMonth:    24,
		AbsentDeductionPerDay:  "250",
		LateDeductionEnabled:   true,
		LateDaysThreshold:      2,
		LateDeductionAmount:    "100",
		UnrecordedDaysAsAbsent: &off,
	})
	assert.NoError(t, err)
	assert.Equal(t, "250.00", updated.AbsentDeductionPerDay)
	assert.Equal(t, "0.5", updated.HalfDayDeductionRate)
	assert.False(t, updated.UnrecordedDaysAsAbsent)
	assert.Equal(t, payrollNow, deps.repo.settings.UpdatedAt)

	got, err = svc.GetSettings(ctx, deps.tenantID)
	assert.NoError(t, err)
	assert.Equal(t, 24, got.WorkingDaysPerMonth)

	_, err = svc.UpdateSettings(ctx, deps.tenantID, payroll.SettingsRequest{WorkingDaysPerMonth: 26, HalfDayDeductionRate: "1.5"})
	assert.ErrorIs(t, err, payrollerrors.ErrInvalidSettings)

	_, err = svc.UpdateSettings(ctx, deps.tenantID, payroll.SettingsRequest{WorkingDaysPerMonth: 26, AbsentDeductionPerDay: "-3"})
	assert.ErrorIs(t, err, payrollerrors.ErrInvalidMoneyValue)
}

func TestSetupService_CreateStructure(t *testing.T) {
	ctx := context.Background()
	svc, deps := setupSetupTest(t)
	previous := deps.repo.structures[0].ID

	expectTx(t, deps.sqlMock, true)
	res, err := svc.CreateStructure(ctx, deps.tenantID, payroll.StructureRequest{
		EmployeeID:         deps.hafiz.ID.String(),
		BasicSalary:        "22000",
		HouseRentAllowance: "5000",
		FoodAllowance:      "1500.5",
	})
	assert.NoError(t, err)
	assert.Equal(t, "28500.50", res.GrossSalary)
	assert.True(t, res.IsActive)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())

	active := 0
	for _, s := range deps.repo.structures {
		if s.IsActive {
			active++
			assert.NotEqual(t, previous, s.ID)
		}
	}
	assert.Equal(t, 1, active)

	_, err = svc.CreateStructure(ctx, deps.tenantID, payroll.StructureRequest{EmployeeID: uuid.NewString(), BasicSalary: "1"})
	assert.ErrorIs(t, err, payrollerrors.ErrEmployeeNotFound)

	_, err = svc.CreateStructure(ctx, deps.tenantID, payroll.StructureRequest{EmployeeID: deps.hafiz.ID.String(), BasicSalary: "abc"})
	assert.ErrorIs(t, err, payrollerrors.ErrInvalidMoneyValue)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestSetupService_CreateStructure_BeginFailure(t *testing.T) {
	svc, deps := setupSetupTest(t)
	deps.sqlMock.ExpectBegin().WillReturnError(errors.New("db unavailable"))

	_, err := svc.CreateStructure(context.Background(), deps.tenantID, payroll.StructureRequest{
		EmployeeID:  deps.karim.ID.String(),
		BasicSalary: "13000",
	})
	assert.Error(t, err)
	assert.Len(t, deps.repo.structures, 1)
}

func TestSetupService_Advances(t *testing.T) {
	ctx := context.Background()
	svc, deps := setupSetupTest(t)

	res, err := svc.CreateAdvance(ctx, deps.tenantID, deps.actorID, payroll.AdvanceRequest{
		EmployeeID:      deps.karim.ID.String(),
		Amount:          "5000",
		RepaymentMonths: 3,
		StartYear:       2026,
		StartMonth:      3,
	})
	assert.NoError(t, err)
	assert.Equal(t, "1666.67", res.MonthlyDeduction)
	assert.Equal(t, "5000.00", res.RemainingAmount)
	assert.True(t, res.IsActive)

	list, err := svc.ListAdvances(ctx, deps.tenantID, deps.karim.ID.String(), true)
	assert.NoError(t, err)
	assert.Len(t, list, 1)

	deactivated, err := svc.DeactivateAdvance(ctx, deps.tenantID, res.ID)
	assert.NoError(t, err)
	assert.False(t, deactivated.IsActive)

	list, err = svc.ListAdvances(ctx, deps.tenantID, deps.karim.ID.String(), true)
	assert.NoError(t, err)
	assert.Empty(t, list)

	_, err = svc.CreateAdvance(ctx, deps.tenantID, deps.actorID, payroll.AdvanceRequest{
		EmployeeID: deps.karim.ID.String(), Amount: "0", RepaymentMonths: 1,
	})
	assert.ErrorIs(t, err, payrollerrors.ErrInvalidMoneyValue)

	_, err = svc.DeactivateAdvance(ctx, deps.tenantID, uuid.NewString())
	assert.ErrorIs(t, err, payrollerrors.ErrAdvanceNotFound)
}

func TestSetupService_Bonuses(t *testing.T) {
	ctx := context.Background()
	svc, deps := setupSetupTest(t)

	_, err := svc.CreateBonus(ctx, deps.tenantID, deps.actorID, payroll.BonusRequest{
		Name: "Eid", BonusType: payroll.BonusFixed, ApplicableTo: payroll.ApplicableAll, EffectiveYear: 2026, EffectiveMonth: 4,
	})
	assert.ErrorIs(t, err, payrollerrors.ErrInvalidBonus)

	_, err = svc.CreateBonus(ctx, deps.tenantID, deps.actorID, payroll.BonusRequest{
		Name: "Eid", BonusType: payroll.BonusPercentage, Percentage: "10", ApplicableTo: payroll.ApplicableIndividual, EffectiveYear: 2026, EffectiveMonth: 4,
	})
	assert.ErrorIs(t, err, payrollerrors.ErrBonusTargetRequired)

	created, err := svc.CreateBonus(ctx, deps.tenantID, deps.actorID, payroll.BonusRequest{
		Name: "Eid", BonusType: payroll.BonusPercentage, Percentage: "10", ApplicableTo: payroll.ApplicableAll, EffectiveYear: 2026, EffectiveMonth: 4,
	})
	assert.NoError(t, err)
	assert.Equal(t, "10", created.Percentage)

	april, err := svc.ListBonuses(ctx, deps.tenantID, payroll.ListBonusFilter{Year: 2026, Month: 4})
	assert.NoError(t, err)
	assert.Len(t, april, 1)

	assert.NoError(t, svc.DeleteBonus(ctx, deps.tenantID, created.ID))
	assert.ErrorIs(t, svc.DeleteBonus(ctx, deps.tenantID, created.ID), payrollerrors.ErrBonusNotFound)
	assert.ErrorIs(t, svc.DeleteBonus(ctx, deps.tenantID, "x"), payrollerrors.ErrBonusNotFound)
}
