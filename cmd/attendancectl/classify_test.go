package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"go-madrasah/internal/attendance"

	"github.com/stretchr/testify/assert"
)

func runClassify(t *testing.T, args ...string) (classifyOutput, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"classify"}, args...))

	var got classifyOutput
	if err := cmd.Execute(); err != nil {
		return got, err
	}
	assert.NoError(t, json.Unmarshal(out.Bytes(), &got))
	return got, nil
}

func TestClassifyCmd_DefaultRule(t *testing.T) {
	got, err := runClassify(t, "--date", "2026-03-04", "--check-in", "09:20")
	assert.NoError(t, err)
	assert.Equal(t, "2026-03-04", got.Date)
	assert.Equal(t, attendance.StatusLate, got.Classification.Status)

	got, err = runClassify(t, "--date", "2026-03-04", "--check-in", "09:15")
	assert.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, got.Classification.Status)

	// 2026-03-06 is a Friday
	got, err = runClassify(t, "--date", "2026-03-06", "--check-in", "09:00")
	assert.NoError(t, err)
	assert.Equal(t, attendance.StatusHoliday, got.Classification.Status)
}

func TestClassifyCmd_FlagOverrides(t *testing.T) {
	got, err := runClassify(t,
		"--date", "2026-03-06",
		"--start", "08:00",
		"--late", "5",
		"--absent", "30",
		"--excluded", "Saturday",
		"--check-in", "08:31",
	)
	assert.NoError(t, err)
	assert.Equal(t, attendance.StatusAbsent, got.Classification.Status)
	assert.Equal(t, 5, got.Rule.LateThresholdMinutes)
	assert.Equal(t, []string{"saturday"}, []string(got.Rule.ExcludedDays))

	got, err = runClassify(t, "--date", "2026-03-04", "--check-in", "09:00", "--check-out", "12:00")
	assert.NoError(t, err)
	assert.Equal(t, attendance.StatusHalfDay, got.Classification.Status)
}

func TestClassifyCmd_RuleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rule.json")
	body := `{"late_threshold_minutes":10,"absent_threshold_minutes":40,` +
		`"school_start_time":"07:30","half_day_checkout_time":"11:00","school_end_time":"13:00","excluded_days":["sunday"]}`
	assert.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	got, err := runClassify(t, "--rule-file", path, "--date", "2026-03-04", "--check-in", "07:45")
	assert.NoError(t, err)
	assert.Equal(t, attendance.StatusLate, got.Classification.Status)
}

func TestClassifyCmd_Errors(t *testing.T) {
	_, err := runClassify(t, "--date", "04/03/2026")
	assert.Error(t, err)

	_, err = runClassify(t, "--late", "30", "--absent", "20")
	assert.Error(t, err)

	_, err = runClassify(t, "--start", "25:00")
	assert.Error(t, err)
}

func TestWriteExport(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	path, err := writeExport(dir, "../payroll_PR-202602-001.xlsx", []byte("xlsx"))
	assert.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "payroll_PR-202602-001.xlsx"), path)

	body, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Equal(t, "xlsx", string(body))
}
