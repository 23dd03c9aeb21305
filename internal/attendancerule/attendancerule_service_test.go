package attendancerule_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"go-madrasah/internal/attendancerule"
	ruleerrors "go-madrasah/internal/attendancerule/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type ruleServiceDeps struct {
	db       *sql.DB
	sqlMock  sqlmock.Sqlmock
	service  attendancerule.Service
	repo     *fakeRuleRepository
	resolver *attendancerule.Resolver
}

func setupRuleServiceTest(t *testing.T) *ruleServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeRuleRepository{}
	resolver := attendancerule.NewResolver(repo, newMemoryCache(), time.Minute)

	return &ruleServiceDeps{
		db:       db,
		sqlMock:  sqlMock,
		service:  attendancerule.NewService(db, repo, resolver),
		repo:     repo,
		resolver: resolver,
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

func validCreateRequest() attendancerule.CreateRuleRequest {
	return attendancerule.CreateRuleRequest{
		RuleType:               attendancerule.RuleTypeGeneral,
		LateThresholdMinutes:   10,
		AbsentThresholdMinutes: 45,
		HalfDayCheckoutTime:    "12:30",
		SchoolStartTime:        "08:00",
		SchoolEndTime:          "14:00",
		ExcludedDays:           []string{"Friday"},
	}
}

func TestRuleService_Create(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New().String()
	actorID := uuid.New().String()

	t.Run("success invalidates cached rules", func(t *testing.T) {
		deps := setupRuleServiceTest(t)
		defer deps.db.Close()

		var stored []attendancerule.AttendanceRule
		deps.repo.findActiveByTenantFn = func(ctx context.Context, tid string) ([]attendancerule.AttendanceRule, error) {
			return stored, nil
		}
		assert.True(t, deps.resolver.Resolve(ctx, tenantID, attendancerule.ResolveInput{}).IsDefault())

		deps.repo.createFn = func(ctx context.Context, r *attendancerule.AttendanceRule) error {
			assert.Equal(t, tenantID, r.TenantID.String())
			assert.Equal(t, actorID, r.CreatedBy.String())
			assert.Equal(t, []string{"friday"}, []string(r.ExcludedDays))
			assert.True(t, r.IsActive)
			stored = append(stored, *r)
			return nil
		}
		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.Create(ctx, tenantID, actorID, validCreateRequest())
		assert.NoError(t, err)
		assert.Equal(t, "08:00", resp.SchoolStartTime)
		assert.False(t, resp.IsDefault)

		got := deps.resolver.Resolve(ctx, tenantID, attendancerule.ResolveInput{})
		assert.Equal(t, 10, got.LateThresholdMinutes)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("invalid time", func(t *testing.T) {
		deps := setupRuleServiceTest(t)
		defer deps.db.Close()

		req := validCreateRequest()
		req.SchoolStartTime = "25:00"
		_, err := deps.service.Create(ctx, tenantID, actorID, req)
		assert.ErrorIs(t, err, ruleerrors.ErrInvalidTime)
	})

	t.Run("thresholds out of order", func(t *testing.T) {
		deps := setupRuleServiceTest(t)
		defer deps.db.Close()

		req := validCreateRequest()
		req.AbsentThresholdMinutes = 5
		_, err := deps.service.Create(ctx, tenantID, actorID, req)
		assert.ErrorIs(t, err, ruleerrors.ErrInvalidThresholds)
	})

	t.Run("class rule needs class id", func(t *testing.T) {
		deps := setupRuleServiceTest(t)
		defer deps.db.Close()

		req := validCreateRequest()
		req.RuleType = attendancerule.RuleTypeClassWise
		_, err := deps.service.Create(ctx, tenantID, actorID, req)
		assert.ErrorIs(t, err, ruleerrors.ErrClassRequired)
	})

	t.Run("unknown weekday", func(t *testing.T) {
		deps := setupRuleServiceTest(t)
		defer deps.db.Close()

		req := validCreateRequest()
		req.ExcludedDays = []string{"funday"}
		_, err := deps.service.Create(ctx, tenantID, actorID, req)
		assert.ErrorIs(t, err, ruleerrors.ErrInvalidWeekday)
	})
}

func TestRuleService_Update(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New().String()
	ruleID := uuid.New()

	t.Run("not found", func(t *testing.T) {
		deps := setupRuleServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.findByIDFn = func(ctx context.Context, tid, id string) (*attendancerule.AttendanceRule, error) {
			return nil, gorm.ErrRecordNotFound
		}

		_, err := deps.service.Update(ctx, tenantID, ruleID.String(), validCreateRequest())
		assert.ErrorIs(t, err, ruleerrors.ErrRuleNotFound)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("switches to shift rule", func(t *testing.T) {
		deps := setupRuleServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		classID := uuid.New()
		deps.repo.findByIDFn = func(ctx context.Context, tid, id string) (*attendancerule.AttendanceRule, error) {
			r := attendancerule.DefaultRule()
			r.ID = ruleID
			r.RuleType = attendancerule.RuleTypeClassWise
			r.ClassID = &classID
			return &r, nil
		}
		deps.repo.updateFn = func(ctx context.Context, r *attendancerule.AttendanceRule) error {
			assert.Nil(t, r.ClassID)
			assert.Equal(t, "evening", *r.Shift)
			return nil
		}

		req := validCreateRequest()
		req.RuleType = attendancerule.RuleTypeShiftWise
		req.Shift = strPtr(" evening ")
		resp, err := deps.service.Update(ctx, tenantID, ruleID.String(), req)
		assert.NoError(t, err)
		assert.Equal(t, attendancerule.RuleTypeShiftWise, resp.RuleType)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestRuleService_Delete(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New().String()

	t.Run("invalid id", func(t *testing.T) {
		deps := setupRuleServiceTest(t)
		defer deps.db.Close()

		err := deps.service.Delete(ctx, tenantID, "nope")
		assert.ErrorIs(t, err, ruleerrors.ErrInvalidRuleID)
	})

	t.Run("not found", func(t *testing.T) {
		deps := setupRuleServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.deleteFn = func(ctx context.Context, tid, id string) error {
			return gorm.ErrRecordNotFound
		}
		err := deps.service.Delete(ctx, tenantID, uuid.New().String())
		assert.ErrorIs(t, err, ruleerrors.ErrRuleNotFound)
	})

	t.Run("success", func(t *testing.T) {
		deps := setupRuleServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		err := deps.service.Delete(ctx, tenantID, uuid.New().String())
		assert.NoError(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestRuleService_EffectiveDefault(t *testing.T) {
	deps := setupRuleServiceTest(t)
	defer deps.db.Close()

	resp := deps.service.Effective(context.Background(), uuid.New().String(), attendancerule.ResolveInput{})
	assert.True(t, resp.IsDefault)
	assert.Equal(t, "", resp.ID)
	assert.Equal(t, []string{"friday"}, resp.ExcludedDays)
}
