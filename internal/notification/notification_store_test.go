package notification_test

import (
	"context"
	"regexp"
	"testing"

	"go-madrasah/internal/notification"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestStore_SaveSettings_StoresDisabledToggle(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer sqlDB.Close()

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	assert.NoError(t, err)

	tenantID := uuid.New()
	settings := notification.Settings{TenantID: tenantID, AttendanceNotificationsEnabled: false}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "notification_settings"`)).
		WithArgs(tenantID, false, false, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = notification.NewStore(gormDB).SaveSettings(context.Background(), &settings)

	assert.NoError(t, err)
	assert.False(t, settings.AttendanceNotificationsEnabled)
	assert.NoError(t, mock.ExpectationsWereMet())
}
