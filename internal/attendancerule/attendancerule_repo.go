package attendancerule

import (
	"context"
	"database/sql"

	"go-madrasah/internal/shared/gormtx"
	"go-madrasah/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=attendancerule_repo.go -destination=mock/attendancerule_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, r *AttendanceRule) error
	FindAllByTenant(ctx context.Context, tenantID, ruleType string) ([]AttendanceRule, error)
	FindActiveByTenant(ctx context.Context, tenantID string) ([]AttendanceRule, error)
	FindByID(ctx context.Context, tenantID, id string) (*AttendanceRule, error)
	Update(ctx context.Context, r *AttendanceRule) error
	Delete(ctx context.Context, tenantID, id string) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return gormtx.Conn(ctx, r.db, r.tx)
}

func (r *repository) Create(ctx context.Context, rule *AttendanceRule) error {
	return r.conn(ctx).Create(rule).Error
}

func (r *repository) FindAllByTenant(ctx context.Context, tenantID, ruleType string) ([]AttendanceRule, error) {
	var rules []AttendanceRule
	q := r.conn(ctx).Scopes(tenant.Scope(tenantID))
	if ruleType != "" {
		q = q.Where("rule_type = ?", ruleType)
	}
	err := q.Order("created_at DESC").Find(&rules).Error
	return rules, err
}

// FindActiveByTenant returns newest first so the first match wins when admins
// leave two active rules for the same scope.
func (r *repository) FindActiveByTenant(ctx context.Context, tenantID string) ([]AttendanceRule, error) {
	var rules []AttendanceRule
	err := r.conn(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("is_active = ?", true).
		Order("updated_at DESC").
		Find(&rules).Error
	return rules, err
}

func (r *repository) FindByID(ctx context.Context, tenantID, id string) (*AttendanceRule, error) {
	var rule AttendanceRule
	err := r.conn(ctx).
		Scopes(tenant.Scope(tenantID)).
		First(&rule, "id = ?", id).Error
	return &rule, err
}

func (r *repository) Update(ctx context.Context, rule *AttendanceRule) error {
	return r.conn(ctx).Save(rule).Error
}

func (r *repository) Delete(ctx context.Context, tenantID, id string) error {
	res := r.conn(ctx).
		Scopes(tenant.Scope(tenantID)).
		Delete(&AttendanceRule{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
