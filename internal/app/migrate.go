package app

import (
	"context"
	"fmt"

	"go-madrasah/internal/attendance"
	"go-madrasah/internal/attendancerule"
	"go-madrasah/internal/config"
	"go-madrasah/internal/employee"
	"go-madrasah/internal/leave"
	"go-madrasah/internal/notification"
	"go-madrasah/internal/payroll"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Models lists every gorm-managed table.
func Models() []any {
	return []any{
		&attendancerule.AttendanceRule{},
		&attendance.Attendance{},
		&attendance.SyncLog{},
		&attendance.EditRequest{},
		&attendance.AuditLog{},
		&employee.Employee{},
		&leave.Leave{},
		&payroll.Settings{},
		&payroll.SalaryStructure{},
		&payroll.Advance{},
		&payroll.Bonus{},
		&payroll.Run{},
		&payroll.Item{},
		&notification.Notification{},
		&notification.Settings{},
	}
}

// rawSchema covers the tables written with database/sql instead of gorm.
var rawSchema = []string{
	`CREATE TABLE IF NOT EXISTS tenant_counters (
	tenant_id uuid NOT NULL,
	counter_type varchar(40) NOT NULL,
	last_value bigint NOT NULL DEFAULT 0,
	updated_at timestamptz NOT NULL DEFAULT now(),
	PRIMARY KEY (tenant_id, counter_type)
)`,
	`CREATE TABLE IF NOT EXISTS outbox_events (
	id uuid PRIMARY KEY,
	request_id varchar(64),
	tenant_id uuid NOT NULL,
	aggregate_type varchar(40) NOT NULL,
	aggregate_id varchar(64) NOT NULL,
	event_type varchar(60) NOT NULL,
	topic varchar(120) NOT NULL,
	payload jsonb NOT NULL,
	status varchar(10) NOT NULL DEFAULT 'pending',
	retry_count int NOT NULL DEFAULT 0,
	error_message text,
	next_retry_at timestamptz,
	processed_at timestamptz,
	created_at timestamptz NOT NULL DEFAULT now(),
	updated_at timestamptz NOT NULL DEFAULT now()
)`,
	`CREATE INDEX IF NOT EXISTS idx_outbox_events_due ON outbox_events (status, next_retry_at, created_at)`,
}

func Migrate(ctx context.Context, db *gorm.DB) error {
	conn := db.WithContext(ctx)
	if err := conn.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	for _, stmt := range rawSchema {
		if err := conn.Exec(stmt).Error; err != nil {
			return fmt.Errorf("raw schema: %w", err)
		}
	}
	return nil
}

// MigrateDatabase connects with cfg and applies the schema.
func MigrateDatabase(ctx context.Context, cfg *config.Config) error {
	inf, err := connectInfra(cfg, false, zap.L())
	if err != nil {
		return err
	}
	defer inf.Close()

	if err := Migrate(ctx, inf.gormDB); err != nil {
		return err
	}
	zap.L().Info("schema up to date", zap.Int("models", len(Models())), zap.Int("raw_statements", len(rawSchema)))
	return nil
}
