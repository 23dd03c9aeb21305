package payroll

import (
	"context"
	"database/sql"

	"go-madrasah/internal/shared/gormtx"
	"go-madrasah/internal/tenant"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RunFilter struct {
	Year       int
	Month      int
	Status     string
	Department string
}

//go:generate mockgen -source=payroll_repo.go -destination=mock/payroll_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository

	GetSettings(ctx context.Context, tenantID string) (*Settings, error)
	SaveSettings(ctx context.Context, s *Settings) error

	CreateStructure(ctx context.Context, s *SalaryStructure) error
	DeactivateStructures(ctx context.Context, tenantID, employeeID string) error
	FindActiveStructure(ctx context.Context, tenantID, employeeID string) (*SalaryStructure, error)
	FindStructureByID(ctx context.Context, tenantID, id string) (*SalaryStructure, error)
	FindStructures(ctx context.Context, tenantID, employeeID string) ([]SalaryStructure, error)
	UpdateStructure(ctx context.Context, s *SalaryStructure) error

	CreateAdvance(ctx context.Context, a *Advance) error
	FindAdvanceByID(ctx context.Context, tenantID, id string) (*Advance, error)
	FindAdvances(ctx context.Context, tenantID, employeeID string, activeOnly bool) ([]Advance, error)
	// ListOutstandingAdvances returns active advances with a positive
	// remaining amount.
	ListOutstandingAdvances(ctx context.Context, tenantID, employeeID string) ([]Advance, error)
	UpdateAdvance(ctx context.Context, a *Advance) error

	CreateBonus(ctx context.Context, b *Bonus) error
	FindBonuses(ctx context.Context, tenantID string, year, month int) ([]Bonus, error)
	DeleteBonus(ctx context.Context, tenantID, id string) (bool, error)

	// RunExists reports a non-rejected run for the same period and scope.
	RunExists(ctx context.Context, tenantID string, year, month int, department string) (bool, error)
	CreateRun(ctx context.Context, run *Run) error
	FindRuns(ctx context.Context, tenantID string, f RunFilter) ([]Run, error)
	FindRunByID(ctx context.Context, tenantID, id string, withItems bool) (*Run, error)
	UpdateRun(ctx context.Context, run *Run) error
	DeleteRun(ctx context.Context, tenantID, id string) error
	FindItem(ctx context.Context, tenantID, runID, itemID string) (*Item, error)
	UpdateItem(ctx context.Context, item *Item) error
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

func (r *repository) GetSettings(ctx context.Context, tenantID string) (*Settings, error) {
	var s Settings
	err := r.conn(ctx).
		Scopes(tenant.Scope(tenantID)).
		First(&s).Error
	return &s, err
}

func (r *repository) SaveSettings(ctx context.Context, s *Settings) error {
	return r.conn(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tenant_id"}},
			UpdateAll: true,
		}).
		Create(s).Error
}

func (r *repository) CreateStructure(ctx context.Context, s *SalaryStructure) error {
	return r.conn(ctx).Create(s).Error
}

func (r *repository) DeactivateStructures(ctx context.Context, tenantID, employeeID string) error {
	return r.conn(ctx).
		Model(&SalaryStructure{}).
		Scopes(tenant.Scope(tenantID)).
		Where("employee_id = ? AND is_active", employeeID).
		Update("is_active", false).Error
}

func (r *repository) FindActiveStructure(ctx context.Context, tenantID, employeeID string) (*SalaryStructure, error) {
	var s SalaryStructure
	err := r.conn(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("employee_id = ? AND is_active", employeeID).
		First(&s).Error
	return &s, err
}

func (r *repository) FindStructureByID(ctx context.Context, tenantID, id string) (*SalaryStructure, error) {
	var s SalaryStructure
	err := r.conn(ctx).
		Scopes(tenant.Scope(tenantID)).
		First(&s, "id = ?", id).Error
	return &s, err
}

func (r *repository) FindStructures(ctx context.Context, tenantID, employeeID string) ([]SalaryStructure, error) {
	q := r.conn(ctx).Scopes(tenant.Scope(tenantID))
	if employeeID != "" {
		q = q.Where("employee_id = ?", employeeID)
	}
	var out []SalaryStructure
	err := q.Order("created_at DESC").Find(&out).Error
	return out, err
}

func (r *repository) UpdateStructure(ctx context.Context, s *SalaryStructure) error {
	return r.conn(ctx).Save(s).Error
}

func (r *repository) CreateAdvance(ctx context.Context, a *Advance) error {
	return r.conn(ctx).Create(a).Error
}

func (r *repository) FindAdvanceByID(ctx context.Context, tenantID, id string) (*Advance, error) {
	var a Advance
	err := r.conn(ctx).
		Scopes(tenant.Scope(tenantID)).
		First(&a, "id = ?", id).Error
	return &a, err
}

func (r *repository) FindAdvances(ctx context.Context, tenantID, employeeID string, activeOnly bool) ([]Advance, error) {
	q := r.conn(ctx).Scopes(tenant.Scope(tenantID))
	if employeeID != "" {
		q = q.Where("employee_id = ?", employeeID)
	}
	if activeOnly {
		q = q.Where("is_active")
	}
	var out []Advance
	err := q.Order("created_at DESC").Find(&out).Error
	return out, err
}

func (r *repository) ListOutstandingAdvances(ctx context.Context, tenantID, employeeID string) ([]Advance, error) {
	var out []Advance
	err := r.conn(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("employee_id = ? AND is_active AND remaining_amount > 0", employeeID).
		Order("created_at ASC").
		Find(&out).Error
	return out, err
}

func (r *repository) UpdateAdvance(ctx context.Context, a *Advance) error {
	return r.conn(ctx).Save(a).Error
}

func (r *repository) CreateBonus(ctx context.Context, b *Bonus) error {
	return r.conn(ctx).Create(b).Error
}

func (r *repository) FindBonuses(ctx context.Context, tenantID string, year, month int) ([]Bonus, error) {
	q := r.conn(ctx).Scopes(tenant.Scope(tenantID))
	if year > 0 {
		q = q.Where("effective_year = ?", year)
	}
	if month > 0 {
		q = q.Where("effective_month = ?", month)
	}
	var out []Bonus
	err := q.Order("created_at ASC").Find(&out).Error
	return out, err
}

func (r *repository) DeleteBonus(ctx context.Context, tenantID, id string) (bool, error) {
	res := r.conn(ctx).
		Scopes(tenant.Scope(tenantID)).
		Delete(&Bonus{}, "id = ?", id)
	return res.RowsAffected > 0, res.Error
}

func (r *repository) RunExists(ctx context.Context, tenantID string, year, month int, department string) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Model(&Run{}).
		Scopes(tenant.Scope(tenantID)).
		Where("year = ? AND month = ?", year, month).
		Where("COALESCE(department, '') = ?", department).
		Where("status <> ?", StatusRejected).
		Count(&count).Error
	return count > 0, err
}

// CreateRun inserts the run together with its items.
func (r *repository) CreateRun(ctx context.Context, run *Run) error {
	return r.conn(ctx).Create(run).Error
}

func (r *repository) FindRuns(ctx context.Context, tenantID string, f RunFilter) ([]Run, error) {
	q := r.conn(ctx).Scopes(tenant.Scope(tenantID))
	if f.Year > 0 {
		q = q.Where("year = ?", f.Year)
	}
	if f.Month > 0 {
		q = q.Where("month = ?", f.Month)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Department != "" {
		q = q.Where("department = ?", f.Department)
	}
	var runs []Run
	err := q.Order("year DESC, month DESC, created_at DESC").Find(&runs).Error
	return runs, err
}

func (r *repository) FindRunByID(ctx context.Context, tenantID, id string, withItems bool) (*Run, error) {
	q := r.conn(ctx).Scopes(tenant.Scope(tenantID))
	if withItems {
		q = q.Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("employee_name ASC")
		})
	}
	var run Run
	err := q.First(&run, "id = ?", id).Error
	return &run, err
}

func (r *repository) UpdateRun(ctx context.Context, run *Run) error {
	return r.conn(ctx).Omit(clause.Associations).Save(run).Error
}

func (r *repository) DeleteRun(ctx context.Context, tenantID, id string) error {
	db := r.conn(ctx)
	if err := db.
		Scopes(tenant.Scope(tenantID)).
		Where("run_id = ?", id).
		Delete(&Item{}).Error; err != nil {
		return err
	}
	return db.
		Scopes(tenant.Scope(tenantID)).
		Delete(&Run{}, "id = ?", id).Error
}

func (r *repository) FindItem(ctx context.Context, tenantID, runID, itemID string) (*Item, error) {
	var item Item
	err := r.conn(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("run_id = ?", runID).
		First(&item, "id = ?", itemID).Error
	return &item, err
}

func (r *repository) UpdateItem(ctx context.Context, item *Item) error {
	return r.conn(ctx).Save(item).Error
}
