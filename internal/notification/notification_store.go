package notification

import (
	"context"
	"errors"
	"time"

	"go-madrasah/internal/rbac"
	"go-madrasah/internal/tenant"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=notification_store.go -destination=mock/notification_store_mock.go -package=mock
type Store interface {
	Create(ctx context.Context, n *Notification) error
	FindContact(ctx context.Context, tenantID, personType, personID string) (Contact, error)
	GetSettings(ctx context.Context, tenantID string) (Settings, error)
	SaveSettings(ctx context.Context, s *Settings) error
	ListInbox(ctx context.Context, tenantID, userID, role string, unreadOnly bool, page, pageSize int) ([]Notification, int64, error)
	MarkRead(ctx context.Context, tenantID, userID, id string, at time.Time) error
}

type store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) Store {
	return &store{db: db}
}

func (s *store) Create(ctx context.Context, n *Notification) error {
	return s.db.WithContext(ctx).Create(n).Error
}

// FindContact reads the students/employees tables owned by the admission and
// HR modules. A student's contact is the guardian.
func (s *store) FindContact(ctx context.Context, tenantID, personType, personID string) (Contact, error) {
	var row struct {
		UserID *uuid.UUID
		Email  string
		Name   string
	}

	q := s.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).Where("id = ?", personID)
	var err error
	if personType == TargetStaff {
		err = q.Table("employees").
			Select("user_id, COALESCE(email, '') AS email, full_name AS name").
			Take(&row).Error
	} else {
		err = q.Table("students").
			Select("parent_user_id AS user_id, COALESCE(guardian_email, '') AS email, full_name AS name").
			Take(&row).Error
	}
	if err != nil {
		return Contact{}, err
	}
	return Contact{UserID: row.UserID, Email: row.Email, Name: row.Name}, nil
}

func (s *store) GetSettings(ctx context.Context, tenantID string) (Settings, error) {
	tid, err := uuid.Parse(tenantID)
	if err != nil {
		return Settings{}, err
	}
	var st Settings
	err = s.db.WithContext(ctx).First(&st, "tenant_id = ?", tid).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return DefaultSettings(tid), nil
	}
	return st, err
}

func (s *store) SaveSettings(ctx context.Context, st *Settings) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tenant_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"attendance_notifications_enabled", "email_enabled", "updated_at"}),
	}).Create(st).Error
}

// inboxScope matches rows addressed to the user plus broadcasts to the
// user's audience.
func inboxScope(tenantID, userID, role string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Scopes(tenant.Scope(tenantID)).
			Where("(recipient_id = ? OR (recipient_id IS NULL AND target_role IN ?))", userID, AudienceOf(role))
	}
}

func (s *store) ListInbox(ctx context.Context, tenantID, userID, role string, unreadOnly bool, page, pageSize int) ([]Notification, int64, error) {
	var (
		rows  []Notification
		total int64
	)
	q := s.db.WithContext(ctx).Model(&Notification{}).Scopes(inboxScope(tenantID, userID, role))
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&rows).Error
	return rows, total, err
}

func (s *store) MarkRead(ctx context.Context, tenantID, userID, id string, at time.Time) error {
	res := s.db.WithContext(ctx).
		Model(&Notification{}).
		Scopes(tenant.Scope(tenantID)).
		Where("id = ? AND recipient_id = ?", id, userID).
		Updates(map[string]any{"is_read": true, "read_at": at})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// AudienceOf maps an RBAC role to the broadcast target roles it receives.
func AudienceOf(role string) []string {
	switch role {
	case rbac.RoleSuperAdmin, rbac.RoleAdmin, rbac.RolePrincipal:
		return []string{TargetAdmin, TargetStaff, TargetAll}
	case rbac.RoleTeacher, rbac.RoleStaff, rbac.RoleAccountant:
		return []string{TargetStaff, TargetAll}
	default:
		return []string{TargetAll}
	}
}
