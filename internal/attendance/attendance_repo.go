package attendance

import (
	"context"
	"database/sql"
	"time"

	"go-madrasah/internal/shared/clock"
	"go-madrasah/internal/shared/gormtx"
	"go-madrasah/internal/tenant"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RangeQuery selects records for reports and the payroll bridge. Empty fields
// do not filter.
type RangeQuery struct {
	From       time.Time
	To         time.Time
	PersonType string
	PersonID   string
	ClassID    string
	Status     string
}

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository

	Create(ctx context.Context, a *Attendance) error
	Upsert(ctx context.Context, a *Attendance) error
	Update(ctx context.Context, a *Attendance) error
	FindByID(ctx context.Context, tenantID, id string) (*Attendance, error)
	FindByPersonAndDate(ctx context.Context, tenantID, personID string, date time.Time) (*Attendance, error)
	FindInRange(ctx context.Context, tenantID string, q RangeQuery) ([]Attendance, error)
	List(ctx context.Context, tenantID string, q RangeQuery, page, pageSize int) ([]Attendance, int64, error)

	CreateSyncLog(ctx context.Context, l *SyncLog) error

	CreateEditRequest(ctx context.Context, r *EditRequest) error
	UpdateEditRequest(ctx context.Context, r *EditRequest) error
	FindEditRequest(ctx context.Context, tenantID, id string) (*EditRequest, error)
	HasPendingEditRequest(ctx context.Context, tenantID, recordID string) (bool, error)
	ListEditRequests(ctx context.Context, tenantID, status string) ([]EditRequest, error)

	CreateAuditLog(ctx context.Context, l *AuditLog) error
	ListAuditLogs(ctx context.Context, tenantID string, f AuditLogFilter) ([]AuditLog, error)
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

func (r *repository) Create(ctx context.Context, a *Attendance) error {
	return r.conn(ctx).Create(a).Error
}

// Upsert writes on (tenant_id, person_id, attendance_date). The existing row
// keeps its id, which RETURNING copies back into a.
func (r *repository) Upsert(ctx context.Context, a *Attendance) error {
	return r.conn(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "tenant_id"}, {Name: "person_id"}, {Name: "attendance_date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"person_type", "person_name", "class_id", "shift", "check_in", "check_out",
			"status", "status_reason", "source", "recorded_by", "remarks", "updated_at",
		}),
	}).Create(a).Error
}

func (r *repository) Update(ctx context.Context, a *Attendance) error {
	return r.conn(ctx).Save(a).Error
}

func (r *repository) FindByID(ctx context.Context, tenantID, id string) (*Attendance, error) {
	var a Attendance
	err := r.conn(ctx).
		Scopes(tenant.Scope(tenantID)).
		First(&a, "id = ?", id).Error
	return &a, err
}

func (r *repository) FindByPersonAndDate(ctx context.Context, tenantID, personID string, date time.Time) (*Attendance, error) {
	var a Attendance
	err := r.conn(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("person_id = ?", personID).
		Where("attendance_date = ?", date.Format(clock.DateLayout)).
		First(&a).Error
	return &a, err
}

func (r *repository) rangeScope(tenantID string, q RangeQuery) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Scopes(tenant.Scope(tenantID))
		if !q.From.IsZero() {
			db = db.Where("attendance_date >= ?", q.From.Format(clock.DateLayout))
		}
		if !q.To.IsZero() {
			db = db.Where("attendance_date <= ?", q.To.Format(clock.DateLayout))
		}
		if q.PersonType != "" {
			db = db.Where("person_type = ?", q.PersonType)
		}
		if q.PersonID != "" {
			db = db.Where("person_id = ?", q.PersonID)
		}
		if q.ClassID != "" {
			db = db.Where("class_id = ?", q.ClassID)
		}
		if q.Status != "" {
			db = db.Where("status = ?", q.Status)
		}
		return db
	}
}

func (r *repository) FindInRange(ctx context.Context, tenantID string, q RangeQuery) ([]Attendance, error) {
	var rows []Attendance
	err := r.conn(ctx).
		Scopes(r.rangeScope(tenantID, q)).
		Order("attendance_date ASC, person_id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) List(ctx context.Context, tenantID string, q RangeQuery, page, pageSize int) ([]Attendance, int64, error) {
	var (
		rows  []Attendance
		total int64
	)
	base := r.conn(ctx).Model(&Attendance{}).Scopes(r.rangeScope(tenantID, q))
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := base.
		Order("attendance_date DESC, person_name ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&rows).Error
	return rows, total, err
}

func (r *repository) CreateSyncLog(ctx context.Context, l *SyncLog) error {
	return r.conn(ctx).Create(l).Error
}

func (r *repository) CreateEditRequest(ctx context.Context, req *EditRequest) error {
	return r.conn(ctx).Create(req).Error
}

func (r *repository) UpdateEditRequest(ctx context.Context, req *EditRequest) error {
	return r.conn(ctx).Save(req).Error
}

func (r *repository) FindEditRequest(ctx context.Context, tenantID, id string) (*EditRequest, error) {
	var req EditRequest
	err := r.conn(ctx).
		Scopes(tenant.Scope(tenantID)).
		First(&req, "id = ?", id).Error
	return &req, err
}

func (r *repository) HasPendingEditRequest(ctx context.Context, tenantID, recordID string) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Model(&EditRequest{}).
		Scopes(tenant.Scope(tenantID)).
		Where("record_id = ?", recordID).
		Where("status = ?", EditStatusPending).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) ListEditRequests(ctx context.Context, tenantID, status string) ([]EditRequest, error) {
	var rows []EditRequest
	q := r.conn(ctx).Scopes(tenant.Scope(tenantID))
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Order("created_at DESC").Limit(100).Find(&rows).Error
	return rows, err
}

func (r *repository) CreateAuditLog(ctx context.Context, l *AuditLog) error {
	return r.conn(ctx).Create(l).Error
}

func (r *repository) ListAuditLogs(ctx context.Context, tenantID string, f AuditLogFilter) ([]AuditLog, error) {
	var rows []AuditLog
	q := r.conn(ctx).Scopes(tenant.Scope(tenantID))
	if f.PersonID != "" {
		q = q.Where("person_id = ?", f.PersonID)
	}
	if f.Action != "" {
		q = q.Where("action = ?", f.Action)
	}
	if f.DateFrom != "" {
		q = q.Where("created_at >= ?", f.DateFrom)
	}
	if f.DateTo != "" {
		q = q.Where("created_at < (?::date + 1)", f.DateTo)
	}
	err := q.Order("created_at DESC").Limit(500).Find(&rows).Error
	return rows, err
}
