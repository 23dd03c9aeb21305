package employee

import (
	"context"
	"database/sql"
	"strings"

	"go-madrasah/internal/shared/gormtx"
	"go-madrasah/internal/tenant"

	"gorm.io/gorm"
)

const (
	SortByName     = "name"
	SortByCode     = "code"
	SortByJoinedAt = "joined_at"
)

type ListFilter struct {
	Department string
	ActiveOnly bool
	// Search matches name, code or email, case-insensitively.
	Search   string
	SortBy   string
	SortDesc bool
}

var sortColumns = map[string]string{
	SortByName:     "full_name",
	SortByCode:     "employee_code",
	SortByJoinedAt: "joined_at",
}

func (f ListFilter) orderClause() string {
	col, ok := sortColumns[f.SortBy]
	if !ok {
		col = sortColumns[SortByName]
	}
	if f.SortDesc {
		return col + " DESC"
	}
	return col
}

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, e *Employee) error
	FindAll(ctx context.Context, tenantID string, f ListFilter) ([]Employee, error)
	FindOptions(ctx context.Context, tenantID string) ([]Employee, error)
	FindByID(ctx context.Context, tenantID, id string) (*Employee, error)
	Update(ctx context.Context, e *Employee) error
	Delete(ctx context.Context, tenantID, id string) error
	// ListPayable returns active employees, optionally narrowed to one
	// department or an explicit id list.
	ListPayable(ctx context.Context, tenantID, department string, ids []string) ([]Employee, error)
	IsActive(ctx context.Context, tenantID, id string) (bool, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return gormtx.Conn(ctx, r.db, r.tx)
}

func (r *repository) Create(ctx context.Context, e *Employee) error {
	return r.conn(ctx).Create(e).Error
}

func (r *repository) FindAll(ctx context.Context, tenantID string, f ListFilter) ([]Employee, error) {
	var rows []Employee
	q := r.conn(ctx).Scopes(tenant.Scope(tenantID))
	if f.Department != "" {
		q = q.Where("department = ?", f.Department)
	}
	if f.ActiveOnly {
		q = q.Where("is_active = ?", true)
	}
	if term := strings.ToLower(strings.TrimSpace(f.Search)); term != "" {
		like := "%" + term + "%"
		q = q.Where("(LOWER(full_name) LIKE ? OR LOWER(employee_code) LIKE ? OR LOWER(email) LIKE ?)", like, like, like)
	}
	err := q.Order(f.orderClause()).Find(&rows).Error
	return rows, err
}

func (r *repository) FindOptions(ctx context.Context, tenantID string) ([]Employee, error) {
	var rows []Employee
	err := r.conn(ctx).
		Scopes(tenant.Scope(tenantID)).
		Select("id", "employee_code", "full_name", "department").
		Where("is_active = ?", true).
		Order("full_name").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindByID(ctx context.Context, tenantID, id string) (*Employee, error) {
	var e Employee
	err := r.conn(ctx).
		Scopes(tenant.Scope(tenantID)).
		First(&e, "id = ?", id).Error
	return &e, err
}

func (r *repository) Update(ctx context.Context, e *Employee) error {
	return r.conn(ctx).Save(e).Error
}

func (r *repository) Delete(ctx context.Context, tenantID, id string) error {
	res := r.conn(ctx).
		Scopes(tenant.Scope(tenantID)).
		Delete(&Employee{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) ListPayable(ctx context.Context, tenantID, department string, ids []string) ([]Employee, error) {
	var rows []Employee
	q := r.conn(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("is_active = ?", true)
	if department != "" {
		q = q.Where("department = ?", department)
	}
	if len(ids) > 0 {
		q = q.Where("id IN ?", ids)
	}
	err := q.Order("employee_code").Find(&rows).Error
	return rows, err
}

func (r *repository) IsActive(ctx context.Context, tenantID, id string) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Model(&Employee{}).
		Scopes(tenant.Scope(tenantID)).
		Where("id = ?", id).
		Where("is_active = ?", true).
		Count(&count).Error
	return count > 0, err
}
