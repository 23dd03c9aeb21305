package app

import (
	"go-madrasah/internal/attendance"
	"go-madrasah/internal/config"
	"go-madrasah/internal/payroll"

	"go.uber.org/zap"
)

// Reports is the read side the operator CLI exports from.
type Reports struct {
	Attendance attendance.ReportService
	Payroll    payroll.Service
}

// OpenReports connects to the database only; close must be called when done.
func OpenReports(cfg *config.Config) (*Reports, func(), error) {
	inf, err := connectInfra(cfg, false, zap.L())
	if err != nil {
		return nil, nil, err
	}

	payrollService, _ := newPayrollService(inf, nil)
	r := &Reports{
		Attendance: attendance.NewReportService(attendance.NewRepository(inf.gormDB), inf.clock, zap.L()),
		Payroll:    payrollService,
	}
	return r, inf.Close, nil
}
