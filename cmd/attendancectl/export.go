package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go-madrasah/internal/app"
	"go-madrasah/internal/attendance"
	"go-madrasah/internal/config"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const exportTimeout = 2 * time.Minute

func newExportCmd() *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write attendance or payroll workbooks to disk",
	}
	cmd.PersistentFlags().StringVar(&outDir, "out", "", "output directory (defaults to EXPORT_DIR)")
	cmd.AddCommand(newExportAttendanceCmd(&outDir), newExportPayrollCmd(&outDir))
	return cmd
}

func newExportAttendanceCmd(outDir *string) *cobra.Command {
	var tenantID string
	q := attendance.MonthlyReportQuery{PersonType: attendance.PersonStudent}
	cmd := &cobra.Command{
		Use:   "attendance",
		Short: "Export one month of attendance as xlsx",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withReports(cmd, *outDir, func(ctx context.Context, r *app.Reports) ([]byte, string, error) {
				return r.Attendance.ExportMonthlyXLSX(ctx, tenantID, q)
			})
		},
	}
	cmd.Flags().StringVar(&tenantID, "tenant", "", "tenant id")
	cmd.Flags().IntVar(&q.Year, "year", 0, "report year")
	cmd.Flags().IntVar(&q.Month, "month", 0, "report month (1-12)")
	cmd.Flags().StringVar(&q.PersonType, "person-type", attendance.PersonStudent, "student or staff")
	_ = cmd.MarkFlagRequired("tenant")
	_ = cmd.MarkFlagRequired("year")
	_ = cmd.MarkFlagRequired("month")
	return cmd
}

func newExportPayrollCmd(outDir *string) *cobra.Command {
	var tenantID, runID string
	cmd := &cobra.Command{
		Use:   "payroll",
		Short: "Export a payroll run as xlsx",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withReports(cmd, *outDir, func(ctx context.Context, r *app.Reports) ([]byte, string, error) {
				return r.Payroll.ExportXLSX(ctx, tenantID, runID)
			})
		},
	}
	cmd.Flags().StringVar(&tenantID, "tenant", "", "tenant id")
	cmd.Flags().StringVar(&runID, "run", "", "payroll run id")
	_ = cmd.MarkFlagRequired("tenant")
	_ = cmd.MarkFlagRequired("run")
	return cmd
}

func withReports(cmd *cobra.Command, outDir string, render func(ctx context.Context, r *app.Reports) ([]byte, string, error)) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if outDir == "" {
		outDir = cfg.ExportDir
	}

	reports, closeFn, err := app.OpenReports(cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	ctx, cancel := context.WithTimeout(cmd.Context(), exportTimeout)
	defer cancel()

	body, filename, err := render(ctx, reports)
	if err != nil {
		return err
	}

	path, err := writeExport(outDir, filename, body)
	if err != nil {
		return err
	}
	zap.L().Info("export written", zap.String("path", path), zap.Int("bytes", len(body)))
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

func writeExport(dir, filename string, body []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, filepath.Base(filename))
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
