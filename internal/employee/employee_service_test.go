package employee_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"go-madrasah/internal/employee"
	employeeerrors "go-madrasah/internal/employee/errors"
	"go-madrasah/internal/shared/cache"
	"go-madrasah/internal/shared/clock"

	employeeMock "go-madrasah/internal/employee/mock"
	counterMock "go-madrasah/internal/shared/counter/mock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type serviceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service employee.Service
	repo    *employeeMock.MockRepository
	counter *counterMock.MockRepository
	cache   *cache.Memory
}

func setupServiceTest(t *testing.T) *serviceDeps {
	ctrl := gomock.NewController(t)

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := employeeMock.NewMockRepository(ctrl)
	counterRepo := counterMock.NewMockRepository(ctrl)
	mem := cache.NewMemory(clock.Fixed{T: time.Date(2026, 3, 4, 8, 0, 0, 0, time.UTC)})

	svc := employee.NewService(db, repo, counterRepo, mem, zap.NewNop())

	return &serviceDeps{
		db:      db,
		sqlMock: sqlMock,
		service: svc,
		repo:    repo,
		counter: counterRepo,
		cache:   mem,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func TestEmployeeService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success - auto generate employee code", func(t *testing.T) {
		deps := setupServiceTest(t)
		tenantID := uuid.New().String()
		assert.NoError(t, deps.cache.Set(ctx, employee.OptionsKey(tenantID), []employee.EmployeeOption{}, time.Hour))

		req := employee.CreateEmployeeRequest{
			FullName:      "Ustadz Hamid",
			Email:         "hamid@madrasah.test",
			Department:    "Tahfidz",
			MonthlySalary: "3500000",
			JoinedAt:      "2025-07-01",
		}

		expectTx(t, deps.sqlMock, true)
		deps.counter.EXPECT().WithTx(gomock.Any()).Return(deps.counter)
		deps.counter.EXPECT().
			GetNextValue(ctx, tenantID, "employee_code").
			Return(int64(42), nil)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(ctx context.Context, e *employee.Employee) error {
				assert.Equal(t, "EMP-000042", e.EmployeeCode)
				assert.Equal(t, tenantID, e.TenantID.String())
				assert.Equal(t, employee.EmploymentFullTime, e.EmploymentType)
				assert.True(t, e.MonthlySalary.Equal(decimal.NewFromInt(3500000)))
				assert.True(t, e.IsActive)
				return nil
			})

		resp, err := deps.service.Create(ctx, tenantID, req)

		assert.NoError(t, err)
		assert.Equal(t, "EMP-000042", resp.EmployeeCode)
		assert.Equal(t, "3500000.00", resp.MonthlySalary)
		assert.Equal(t, "2025-07-01", resp.JoinedAt)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())

		var cached []employee.EmployeeOption
		assert.ErrorIs(t, deps.cache.Get(ctx, employee.OptionsKey(tenantID), &cached), cache.ErrMiss)
	})

	t.Run("duplicate code maps to conflict", func(t *testing.T) {
		deps := setupServiceTest(t)
		tenantID := uuid.New().String()

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().
			Create(ctx, gomock.Any()).
			Return(&pgconn.PgError{Code: "23505", ConstraintName: "uq_employees_code"})

		_, err := deps.service.Create(ctx, tenantID, employee.CreateEmployeeRequest{
			EmployeeCode: "EMP-000001",
			FullName:     "Ustadzah Nur",
			JoinedAt:     "2025-07-01",
		})

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeCodeAlreadyExists)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("user already linked maps to conflict", func(t *testing.T) {
		deps := setupServiceTest(t)
		tenantID := uuid.New().String()

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().
			Create(ctx, gomock.Any()).
			Return(&pgconn.PgError{Code: "23505", ConstraintName: "uq_employees_user"})

		_, err := deps.service.Create(ctx, tenantID, employee.CreateEmployeeRequest{
			UserID:       uuid.New().String(),
			EmployeeCode: "EMP-000002",
			FullName:     "Ustadz Hasan",
			JoinedAt:     "2025-07-01",
		})

		assert.ErrorIs(t, err, employeeerrors.ErrUserAlreadyLinked)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("invalid input is rejected before the transaction", func(t *testing.T) {
		deps := setupServiceTest(t)
		tenantID := uuid.New().String()

		_, err := deps.service.Create(ctx, tenantID, employee.CreateEmployeeRequest{FullName: "X", JoinedAt: "01-07-2025"})
		assert.ErrorIs(t, err, employeeerrors.ErrInvalidJoinedAt)

		_, err = deps.service.Create(ctx, tenantID, employee.CreateEmployeeRequest{FullName: "X", JoinedAt: "2025-07-01", MonthlySalary: "-5"})
		assert.ErrorIs(t, err, employeeerrors.ErrInvalidSalary)

		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestEmployeeService_GetOptions(t *testing.T) {
	deps := setupServiceTest(t)
	ctx := context.Background()
	tenantID := uuid.New().String()

	id := uuid.New()
	deps.repo.EXPECT().
		FindOptions(gomock.Any(), tenantID).
		Return([]employee.Employee{{ID: id, EmployeeCode: "EMP-000001", FullName: "Ustadz Hamid", Department: "Tahfidz"}}, nil).
		Times(1)

	first, err := deps.service.GetOptions(ctx, tenantID)
	assert.NoError(t, err)
	assert.Len(t, first, 1)
	assert.Equal(t, id.String(), first[0].ID)

	second, err := deps.service.GetOptions(ctx, tenantID)
	assert.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEmployeeService_GetByID(t *testing.T) {
	deps := setupServiceTest(t)
	ctx := context.Background()
	tenantID := uuid.New().String()

	_, err := deps.service.GetByID(ctx, tenantID, "not-a-uuid")
	assert.ErrorIs(t, err, employeeerrors.ErrInvalidEmployeeID)

	id := uuid.New().String()
	deps.repo.EXPECT().FindByID(ctx, tenantID, id).Return(nil, gorm.ErrRecordNotFound)

	_, err = deps.service.GetByID(ctx, tenantID, id)
	assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
}

func TestEmployeeService_Update(t *testing.T) {
	ctx := context.Background()
	active := false

	t.Run("success", func(t *testing.T) {
		deps := setupServiceTest(t)
		tenantID := uuid.New()
		id := uuid.New()

		existing := &employee.Employee{
			ID:             id,
			TenantID:       tenantID,
			EmployeeCode:   "EMP-000001",
			FullName:       "Ustadz Hamid",
			EmploymentType: employee.EmploymentFullTime,
			IsActive:       true,
		}

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(ctx, tenantID.String(), id.String()).Return(existing, nil)
		deps.repo.EXPECT().
			Update(ctx, existing).
			DoAndReturn(func(ctx context.Context, e *employee.Employee) error {
				assert.Equal(t, employee.EmploymentPartTime, e.EmploymentType)
				assert.False(t, e.IsActive)
				return nil
			})

		resp, err := deps.service.Update(ctx, tenantID.String(), id.String(), employee.UpdateEmployeeRequest{
			EmployeeCode:   "EMP-000001",
			FullName:       "Ustadz Hamid",
			EmploymentType: employee.EmploymentPartTime,
			MonthlySalary:  "1500000.50",
			JoinedAt:       "2025-07-01",
			IsActive:       &active,
		})

		assert.NoError(t, err)
		assert.Equal(t, "1500000.50", resp.MonthlySalary)
		assert.False(t, resp.IsActive)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("not found rolls back", func(t *testing.T) {
		deps := setupServiceTest(t)
		tenantID := uuid.New().String()
		id := uuid.New().String()

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(ctx, tenantID, id).Return(nil, gorm.ErrRecordNotFound)

		_, err := deps.service.Update(ctx, tenantID, id, employee.UpdateEmployeeRequest{
			EmployeeCode:   "EMP-000001",
			FullName:       "X",
			EmploymentType: employee.EmploymentContract,
			JoinedAt:       "2025-07-01",
			IsActive:       &active,
		})

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestEmployeeService_Delete(t *testing.T) {
	deps := setupServiceTest(t)
	ctx := context.Background()
	tenantID := uuid.New().String()

	assert.ErrorIs(t, deps.service.Delete(ctx, tenantID, "bad"), employeeerrors.ErrInvalidEmployeeID)

	missing := uuid.New().String()
	deps.repo.EXPECT().Delete(ctx, tenantID, missing).Return(gorm.ErrRecordNotFound)
	assert.ErrorIs(t, deps.service.Delete(ctx, tenantID, missing), employeeerrors.ErrEmployeeNotFound)

	id := uuid.New().String()
	deps.repo.EXPECT().Delete(ctx, tenantID, id).Return(nil)
	assert.NoError(t, deps.service.Delete(ctx, tenantID, id))
}
