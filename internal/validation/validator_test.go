package validation

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/attendance-summary/internal/types"
)

func date(month time.Month, d int) time.Time {
	return time.Date(2025, month, d, 0, 0, 0, 0, time.UTC)
}

func TestValidateDateRange(t *testing.T) {
	assert.NoError(t, ValidateDateRange(date(9, 1), date(9, 30)))
	assert.NoError(t, ValidateDateRange(date(9, 1), date(9, 1)))
	assert.NoError(t, ValidateDateRange(date(9, 1).Add(20*time.Hour), date(9, 1)))

	err := ValidateDateRange(date(9, 30), date(9, 1))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidDateRange)
	assert.Contains(t, err.Error(), "2025-09-30")
}

func TestAuditStatusCodes(t *testing.T) {
	records := []types.AttendanceRecord{
		{SheetName: "September", EmployeeName: "Alice", EmployeeID: "E1", Days: map[string]string{
			"2025-09-01": "W", "2025-09-02": "XYZ", "2025-09-03": "XYZ", "2025-09-04": "wfh",
		}},
		{SheetName: "September", EmployeeName: "Bob", EmployeeID: "E2", Days: map[string]string{
			"2025-09-01": "XYZ",
		}},
		{SheetName: "August", EmployeeName: "Carol", EmployeeID: "E3", Days: map[string]string{
			"2025-09-05": "??", "2025-10-01": "outside",
		}},
	}

	result := AuditStatusCodes(records, date(9, 1), date(9, 30))

	assert.True(t, result.IsValid)
	assert.Equal(t, 3, result.RecordsValidated)
	require.Len(t, result.Errors, 3)
	assert.Equal(t, 3, result.WarningCount)

	assert.Equal(t, "August", result.Errors[0].Sheet)
	assert.Equal(t, "??", result.Errors[0].Value)

	assert.Equal(t, "XYZ", result.Errors[1].Value)
	assert.Equal(t, 3, result.Errors[1].Count)

	assert.Equal(t, "wfh", result.Errors[2].Value)
	assert.Equal(t, SeverityWarning, result.Errors[2].Severity)
}

func TestAuditStatusCodes_Clean(t *testing.T) {
	records := []types.AttendanceRecord{
		{SheetName: "S", EmployeeName: "Alice", Days: map[string]string{"2025-09-01": "W", "2025-09-02": "Halfday"}},
	}

	result := AuditStatusCodes(records, date(9, 1), date(9, 30))

	assert.True(t, result.IsValid)
	assert.Empty(t, result.Errors)
}

func TestAuditIdentity(t *testing.T) {
	records := []types.AttendanceRecord{
		{SheetName: "S", EmployeeName: "Alice", EmployeeID: "E1"},
		{SheetName: "S", EmployeeName: "Dave", EmployeeID: "  "},
	}

	result := AuditIdentity(records)

	require.Len(t, result.Errors, 1)
	assert.Equal(t, "Dave", result.Errors[0].Employee)
	assert.Equal(t, "employee_id", result.Errors[0].Rule)
}

func TestValidationResult_Merge(t *testing.T) {
	a := &ValidationResult{IsValid: true, RecordsValidated: 2}
	b := &ValidationResult{IsValid: true, RecordsValidated: 3}
	b.add(&ValidationError{Severity: SeverityError, Message: "boom"})
	b.add(&ValidationError{Severity: SeverityWarning, Message: "hmm"})

	a.Merge(b)

	assert.False(t, a.IsValid)
	assert.Equal(t, 1, a.ErrorCount)
	assert.Equal(t, 1, a.WarningCount)
	assert.Equal(t, 5, a.RecordsValidated)
}

func TestValidationError_Error(t *testing.T) {
	e := &ValidationError{
		Severity: SeverityWarning, Sheet: "September", Employee: "Alice",
		Value: "XYZ", Message: "unrecognized status code ignored in totals", Count: 3,
	}

	assert.Equal(t,
		"[WARNING] Sheet 'September', Employee 'Alice': unrecognized status code ignored in totals (value: 'XYZ') x3",
		e.Error())
}

func TestFormatErrors(t *testing.T) {
	assert.Equal(t, "No data quality issues.", FormatErrors(nil))

	out := FormatErrors([]*ValidationError{{Severity: SeverityWarning, Sheet: "S", Message: "m"}})
	assert.Contains(t, out, "1 issue(s)")
	assert.Contains(t, out, "1. [WARNING] Sheet 'S': m")
}

func TestWriteErrorLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quality.log")
	errs := []*ValidationError{{Severity: SeverityWarning, Sheet: "S", Value: "XYZ", Message: "m"}}

	require.NoError(t, WriteErrorLog(errs, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Attendance data quality log")
	assert.Contains(t, string(data), "(value: 'XYZ')")
}

func TestWriteErrorLog_BadPath(t *testing.T) {
	err := WriteErrorLog(nil, filepath.Join(t.TempDir(), "missing", "dir", "log.txt"))
	assert.Error(t, err)
}

func TestWriteErrorLog_RewritesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quality.log")
	first := []*ValidationError{{Severity: SeverityWarning, Sheet: "S", Value: "XYZ", Message: "m", Count: 2}}
	require.NoError(t, WriteErrorLog(first, path))

	require.NoError(t, WriteErrorLog(nil, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "No data quality issues.")
	assert.NotContains(t, string(data), "XYZ")
}
