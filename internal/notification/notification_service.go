package notification

import (
	"context"
	"errors"
	"time"

	notificationerrors "go-madrasah/internal/notification/errors"
	"go-madrasah/internal/shared/apperror"
	"go-madrasah/internal/shared/clock"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=notification_service.go -destination=mock/notification_service_mock.go -package=mock
type Service interface {
	List(ctx context.Context, tenantID, userID, role string, filter ListInboxFilter) ([]NotificationResponse, int64, error)
	MarkRead(ctx context.Context, tenantID, userID, id string) error
	GetSettings(ctx context.Context, tenantID string) (SettingsResponse, error)
	UpdateSettings(ctx context.Context, tenantID string, req SettingsRequest) (SettingsResponse, error)
}

type service struct {
	store  Store
	clock  clock.Clock
	logger *zap.Logger
}

func NewService(store Store, clk clock.Clock, logger ...*zap.Logger) Service {
	l := zap.L().Named("notification.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.service")
	}
	if clk == nil {
		clk = clock.System()
	}
	return &service{store: store, clock: clk, logger: l}
}

func (s *service) List(ctx context.Context, tenantID, userID, role string, filter ListInboxFilter) ([]NotificationResponse, int64, error) {
	if _, err := uuid.Parse(tenantID); err != nil {
		return nil, 0, apperror.ErrTenantRequired
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	rows, total, err := s.store.ListInbox(ctx, tenantID, userID, role, filter.UnreadOnly, filter.Page, filter.PageSize)
	if err != nil {
		s.logger.Error("list notifications failed", zap.String("tenant_id", tenantID), zap.Error(err))
		return nil, 0, err
	}

	res := make([]NotificationResponse, len(rows))
	for i, n := range rows {
		res[i] = mapToResponse(n)
	}
	return res, total, nil
}

func (s *service) MarkRead(ctx context.Context, tenantID, userID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return notificationerrors.ErrInvalidNotificationID
	}
	err := s.store.MarkRead(ctx, tenantID, userID, id, s.clock.Now())
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notificationerrors.ErrNotificationNotFound
	}
	return err
}

func (s *service) GetSettings(ctx context.Context, tenantID string) (SettingsResponse, error) {
	if _, err := uuid.Parse(tenantID); err != nil {
		return SettingsResponse{}, apperror.ErrTenantRequired
	}
	st, err := s.store.GetSettings(ctx, tenantID)
	if err != nil {
		return SettingsResponse{}, err
	}
	return SettingsResponse{
		AttendanceNotificationsEnabled: st.AttendanceNotificationsEnabled,
		EmailEnabled:                   st.EmailEnabled,
	}, nil
}

func (s *service) UpdateSettings(ctx context.Context, tenantID string, req SettingsRequest) (SettingsResponse, error) {
	tid, err := uuid.Parse(tenantID)
	if err != nil {
		return SettingsResponse{}, apperror.ErrTenantRequired
	}
	st := &Settings{
		TenantID:                       tid,
		AttendanceNotificationsEnabled: *req.AttendanceNotificationsEnabled,
		EmailEnabled:                   *req.EmailEnabled,
		UpdatedAt:                      s.clock.Now(),
	}
	if err := s.store.SaveSettings(ctx, st); err != nil {
		s.logger.Error("save notification settings failed", zap.String("tenant_id", tenantID), zap.Error(err))
		return SettingsResponse{}, err
	}
	s.logger.Info("notification settings updated",
		zap.String("tenant_id", tenantID),
		zap.Bool("attendance_enabled", st.AttendanceNotificationsEnabled),
		zap.Bool("email_enabled", st.EmailEnabled),
	)
	return SettingsResponse{
		AttendanceNotificationsEnabled: st.AttendanceNotificationsEnabled,
		EmailEnabled:                   st.EmailEnabled,
	}, nil
}

func mapToResponse(n Notification) NotificationResponse {
	res := NotificationResponse{
		ID:        n.ID.String(),
		EventType: n.EventType,
		Title:     n.Title,
		Body:      n.Body,
		Priority:  n.Priority,
		Data:      n.Data,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt.Format(time.RFC3339),
	}
	if n.ReadAt != nil {
		v := n.ReadAt.Format(time.RFC3339)
		res.ReadAt = &v
	}
	return res
}
