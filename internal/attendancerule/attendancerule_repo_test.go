package attendancerule_test

import (
	"context"
	"regexp"
	"testing"

	"go-madrasah/internal/attendancerule"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestRepository_Create_KeepsZeroThresholdAndInactive(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer sqlDB.Close()

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	assert.NoError(t, err)

	rule := attendancerule.DefaultRule()
	rule.TenantID = uuid.New()
	rule.LateThresholdMinutes = 0
	rule.IsActive = false

	newID := uuid.New()
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "attendance_rules"`)).
		WithArgs(
			rule.TenantID,
			attendancerule.RuleTypeGeneral,
			nil, // class_id
			nil, // shift
			0,
			60,
			sqlmock.AnyArg(), // half_day_checkout_time
			sqlmock.AnyArg(), // school_start_time
			sqlmock.AnyArg(), // school_end_time
			sqlmock.AnyArg(), // excluded_days
			false,
			nil,              // created_by
			sqlmock.AnyArg(), // created_at
			sqlmock.AnyArg(), // updated_at
			nil,              // deleted_at
		).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(newID.String()))
	mock.ExpectCommit()

	err = attendancerule.NewRepository(gormDB).Create(context.Background(), &rule)

	assert.NoError(t, err)
	assert.Equal(t, newID, rule.ID)
	assert.Equal(t, 0, rule.LateThresholdMinutes)
	assert.False(t, rule.IsActive)
	assert.NoError(t, mock.ExpectationsWereMet())
}
