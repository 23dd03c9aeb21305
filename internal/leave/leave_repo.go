package leave

import (
	"context"
	"database/sql"
	"time"

	"go-madrasah/internal/shared/gormtx"
	"go-madrasah/internal/tenant"

	"gorm.io/gorm"
)

type RepoFilter struct {
	EmployeeID string
	Status     string
	From       *time.Time
	To         *time.Time
}

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *Leave) error
	FindAll(ctx context.Context, tenantID string, f RepoFilter) ([]Leave, error)
	FindByID(ctx context.Context, tenantID, id string) (*Leave, error)
	Update(ctx context.Context, l *Leave) error
	Delete(ctx context.Context, tenantID, id string) error
	HasOverlappingPeriod(ctx context.Context, tenantID, employeeID string, startDate, endDate time.Time, excludeID *string) (bool, error)
	// ListApprovedOverlapping returns approved leaves of one employee that
	// touch [from, to].
	ListApprovedOverlapping(ctx context.Context, tenantID, employeeID string, from, to time.Time) ([]Leave, error)
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

func (r *repository) Create(ctx context.Context, l *Leave) error {
	return r.conn(ctx).Create(l).Error
}

func (r *repository) FindAll(ctx context.Context, tenantID string, f RepoFilter) ([]Leave, error) {
	q := r.conn(ctx).Scopes(tenant.Scope(tenantID))
	if f.EmployeeID != "" {
		q = q.Where("employee_id = ?", f.EmployeeID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.From != nil {
		q = q.Where("end_date >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("start_date <= ?", *f.To)
	}

	var leaves []Leave
	err := q.Order("start_date DESC").Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindByID(ctx context.Context, tenantID, id string) (*Leave, error) {
	var l Leave
	err := r.conn(ctx).
		Scopes(tenant.Scope(tenantID)).
		First(&l, "id = ?", id).Error
	return &l, err
}

func (r *repository) Update(ctx context.Context, l *Leave) error {
	return r.conn(ctx).Save(l).Error
}

func (r *repository) Delete(ctx context.Context, tenantID, id string) error {
	return r.conn(ctx).
		Scopes(tenant.Scope(tenantID)).
		Delete(&Leave{}, "id = ?", id).Error
}

func (r *repository) HasOverlappingPeriod(ctx context.Context, tenantID, employeeID string, startDate, endDate time.Time, excludeID *string) (bool, error) {
	db := r.conn(ctx).
		Model(&Leave{}).
		Scopes(tenant.Scope(tenantID)).
		Where("employee_id = ?", employeeID).
		Where("status IN ?", []string{StatusPending, StatusApproved}).
		Where("NOT (end_date < ? OR start_date > ?)", startDate, endDate)

	if excludeID != nil && *excludeID != "" {
		db = db.Where("id <> ?", *excludeID)
	}

	var count int64
	err := db.Count(&count).Error
	return count > 0, err
}

func (r *repository) ListApprovedOverlapping(ctx context.Context, tenantID, employeeID string, from, to time.Time) ([]Leave, error) {
	var leaves []Leave
	err := r.conn(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("employee_id = ?", employeeID).
		Where("status = ?", StatusApproved).
		Where("start_date <= ? AND end_date >= ?", to, from).
		Order("start_date").
		Find(&leaves).Error
	return leaves, err
}
