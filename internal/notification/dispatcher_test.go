package notification_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go-madrasah/internal/notification"
	"go-madrasah/internal/shared/clock"

	notificationMock "go-madrasah/internal/notification/mock"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

type fakeEmail struct {
	mu   sync.Mutex
	sent []notification.EmailMessage
	err  error
}

func (f *fakeEmail) Send(_ context.Context, msg notification.EmailMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	return f.err
}

func (f *fakeEmail) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

var fixedNow = clock.Fixed{T: time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)}

func waitFor(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for delivery")
	}
}

func TestDispatcher_DeliversAbsentAlert(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := notificationMock.NewMockStore(ctrl)
	email := &fakeEmail{}

	tenantID := uuid.New()
	parentID := uuid.New()
	studentID := uuid.New().String()
	done := make(chan struct{})

	store.EXPECT().GetSettings(gomock.Any(), tenantID.String()).
		Return(notification.Settings{TenantID: tenantID, AttendanceNotificationsEnabled: true, EmailEnabled: true}, nil)
	store.EXPECT().FindContact(gomock.Any(), tenantID.String(), "student", studentID).
		Return(notification.Contact{UserID: &parentID, Email: "parent@example.com", Name: "Parent"}, nil)
	store.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, n *notification.Notification) error {
			assert.Equal(t, "Absence Alert", n.Title)
			assert.Equal(t, "Aisha was marked absent on 2026-03-02. Reason: No check-in recorded.", n.Body)
			assert.Equal(t, notification.TargetParent, n.TargetRole)
			assert.Equal(t, parentID, *n.RecipientID)
			assert.Equal(t, fixedNow.T, n.CreatedAt)
			return nil
		})

	d := notification.NewDispatcher(store, &notifyingEmail{fakeEmail: email, done: done}, notification.DispatcherConfig{Workers: 1}, nil, fixedNow, zap.NewNop())
	d.Start(context.Background())
	defer d.Stop()

	ok := d.Notify(notification.NotifyRequest{
		TenantID:   tenantID.String(),
		EventType:  notification.EventAttendanceAbsent,
		PersonID:   studentID,
		PersonType: "student",
		Data: map[string]string{
			"student_name": "Aisha",
			"date":         "2026-03-02",
			"reason":       "No check-in recorded",
		},
	})
	assert.True(t, ok)
	waitFor(t, done)

	assert.Equal(t, 1, email.count())
	assert.Equal(t, "parent@example.com", email.sent[0].ToAddress)
}

type notifyingEmail struct {
	*fakeEmail
	done chan struct{}
}

func (n *notifyingEmail) Send(ctx context.Context, msg notification.EmailMessage) error {
	err := n.fakeEmail.Send(ctx, msg)
	close(n.done)
	return err
}

func TestDispatcher_SkipsWhenAttendanceAlertsDisabled(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := notificationMock.NewMockStore(ctrl)
	tenantID := uuid.New()
	done := make(chan struct{})

	store.EXPECT().GetSettings(gomock.Any(), tenantID.String()).
		DoAndReturn(func(context.Context, string) (notification.Settings, error) {
			close(done)
			return notification.Settings{TenantID: tenantID}, nil
		})
	store.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

	d := notification.NewDispatcher(store, nil, notification.DispatcherConfig{Workers: 1}, nil, fixedNow, zap.NewNop())
	d.Start(context.Background())

	assert.True(t, d.Notify(notification.NotifyRequest{TenantID: tenantID.String(), EventType: notification.EventAttendanceLate}))
	waitFor(t, done)
	d.Stop()
}

func TestDispatcher_SettingsErrorFallsBackToDefaults(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := notificationMock.NewMockStore(ctrl)
	email := &fakeEmail{}
	tenantID := uuid.New()
	done := make(chan struct{})

	store.EXPECT().GetSettings(gomock.Any(), tenantID.String()).
		Return(notification.Settings{}, errors.New("db down"))
	store.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, n *notification.Notification) error {
			assert.Nil(t, n.RecipientID)
			assert.Equal(t, notification.TargetAll, n.TargetRole)
			assert.Equal(t, "Holiday", n.Title)
			close(done)
			return nil
		})

	d := notification.NewDispatcher(store, email, notification.DispatcherConfig{Workers: 2}, nil, fixedNow, zap.NewNop())
	d.Start(context.Background())

	assert.True(t, d.Notify(notification.NotifyRequest{
		TenantID:       tenantID.String(),
		EventType:      "unknown_event",
		RecipientEmail: "all@example.com",
		Data:           map[string]string{"title": "Holiday", "message": "School closed"},
	}))
	waitFor(t, done)
	d.Stop()

	// Defaults keep email off.
	assert.Zero(t, email.count())
}

func TestDispatcher_NotifyDoesNotBlockWhenQueueFull(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := notificationMock.NewMockStore(ctrl)

	// Not started: nothing drains the queue.
	d := notification.NewDispatcher(store, nil, notification.DispatcherConfig{Workers: 1, QueueSize: 1}, nil, fixedNow, zap.NewNop())

	req := notification.NotifyRequest{TenantID: uuid.NewString(), EventType: notification.EventAttendanceLate}
	assert.True(t, d.Notify(req))
	assert.False(t, d.Notify(req))
}

func TestDispatcher_NotifyAfterStop(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := notificationMock.NewMockStore(ctrl)

	d := notification.NewDispatcher(store, nil, notification.DispatcherConfig{}, nil, fixedNow, zap.NewNop())
	d.Start(context.Background())
	d.Stop()
	d.Stop()

	assert.False(t, d.Notify(notification.NotifyRequest{TenantID: uuid.NewString(), EventType: notification.EventAttendanceAbsent}))
}
