package notification_test

import (
	"context"
	"testing"
	"time"

	"go-madrasah/internal/notification"
	notificationerrors "go-madrasah/internal/notification/errors"
	"go-madrasah/internal/shared/apperror"

	notificationMock "go-madrasah/internal/notification/mock"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupServiceTest(t *testing.T) (notification.Service, *notificationMock.MockStore) {
	ctrl := gomock.NewController(t)
	store := notificationMock.NewMockStore(ctrl)
	return notification.NewService(store, fixedNow, zap.NewNop()), store
}

func TestNotificationService_List(t *testing.T) {
	svc, store := setupServiceTest(t)
	ctx := context.Background()
	tenantID := uuid.NewString()
	userID := uuid.NewString()
	readAt := fixedNow.T.Add(time.Hour)

	store.EXPECT().
		ListInbox(ctx, tenantID, userID, "teacher", true, 1, 20).
		Return([]notification.Notification{
			{ID: uuid.New(), EventType: notification.EventStaffAttendanceLate, Title: "Late Check-in", IsRead: true, ReadAt: &readAt, CreatedAt: fixedNow.T},
		}, int64(1), nil)

	items, total, err := svc.List(ctx, tenantID, userID, "teacher", notification.ListInboxFilter{UnreadOnly: true})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, items, 1)
	assert.Equal(t, "2026-03-02T09:00:00Z", *items[0].ReadAt)
}

func TestNotificationService_List_InvalidTenant(t *testing.T) {
	svc, _ := setupServiceTest(t)
	_, _, err := svc.List(context.Background(), "bad", "u", "teacher", notification.ListInboxFilter{})
	assert.ErrorIs(t, err, apperror.ErrTenantRequired)
}

func TestNotificationService_MarkRead(t *testing.T) {
	svc, store := setupServiceTest(t)
	ctx := context.Background()
	tenantID := uuid.NewString()
	userID := uuid.NewString()

	t.Run("invalid id", func(t *testing.T) {
		err := svc.MarkRead(ctx, tenantID, userID, "nope")
		assert.ErrorIs(t, err, notificationerrors.ErrInvalidNotificationID)
	})

	t.Run("not found", func(t *testing.T) {
		id := uuid.NewString()
		store.EXPECT().MarkRead(ctx, tenantID, userID, id, fixedNow.T).Return(gorm.ErrRecordNotFound)
		err := svc.MarkRead(ctx, tenantID, userID, id)
		assert.ErrorIs(t, err, notificationerrors.ErrNotificationNotFound)
	})

	t.Run("success", func(t *testing.T) {
		id := uuid.NewString()
		store.EXPECT().MarkRead(ctx, tenantID, userID, id, fixedNow.T).Return(nil)
		assert.NoError(t, svc.MarkRead(ctx, tenantID, userID, id))
	})
}

func TestNotificationService_UpdateSettings(t *testing.T) {
	svc, store := setupServiceTest(t)
	ctx := context.Background()
	tenantID := uuid.New()
	on, off := true, false

	store.EXPECT().SaveSettings(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, s *notification.Settings) error {
			assert.Equal(t, tenantID, s.TenantID)
			assert.False(t, s.AttendanceNotificationsEnabled)
			assert.True(t, s.EmailEnabled)
			return nil
		})

	resp, err := svc.UpdateSettings(ctx, tenantID.String(), notification.SettingsRequest{
		AttendanceNotificationsEnabled: &off,
		EmailEnabled:                   &on,
	})
	assert.NoError(t, err)
	assert.True(t, resp.EmailEnabled)
	assert.False(t, resp.AttendanceNotificationsEnabled)
}
