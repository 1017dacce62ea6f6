// =============================================================================
// Attendance Summary - Validation Engine
// =============================================================================
//
// Parsing and aggregation are best-effort and never fail on bad cells. This
// module surfaces what was silently dropped so a user can fix the sheet:
//
//   1. Date range: start must not be after end. This is the one fatal check.
//   2. Status codes: entries in range whose code is not in the status table
//      are reported as warnings, one per (sheet, code), with an occurrence
//      count.
//   3. Identity: records without an employee id are reported as warnings,
//      since the combiner keys on the id.
//
// Findings are collected, never thrown, and can be written to a log file.
//
// =============================================================================

package validation

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/ginjaninja78/attendance-summary/internal/summary"
	"github.com/ginjaninja78/attendance-summary/internal/types"
)

// ErrInvalidDateRange is returned when the start date is after the end date.
var ErrInvalidDateRange = errors.New("invalid date range")

// Severity levels.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// ValidationError represents a single finding.
type ValidationError struct {
	// Severity is SeverityError or SeverityWarning.
	Severity string

	// Sheet is the sheet the finding comes from.
	Sheet string

	// Employee names the first affected employee.
	Employee string

	// Value is the offending value, such as an unrecognized status code.
	Value string

	// Rule is the check that produced the finding.
	Rule string

	// Message is a human-readable description.
	Message string

	// Count is how many times the finding occurred.
	Count int
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] Sheet '%s'", strings.ToUpper(e.Severity), e.Sheet)
	if e.Employee != "" {
		fmt.Fprintf(&b, ", Employee '%s'", e.Employee)
	}
	fmt.Fprintf(&b, ": %s", e.Message)
	if e.Value != "" {
		fmt.Fprintf(&b, " (value: '%s')", e.Value)
	}
	if e.Count > 1 {
		fmt.Fprintf(&b, " x%d", e.Count)
	}
	return b.String()
}

// =============================================================================
// VALIDATION RESULT
// =============================================================================

// ValidationResult contains the findings of an audit.
type ValidationResult struct {
	// IsValid is true if there are no fatal errors.
	IsValid bool

	// Errors contains all findings, including warnings.
	Errors []*ValidationError

	// ErrorCount is the number of fatal errors.
	ErrorCount int

	// WarningCount is the number of warnings.
	WarningCount int

	// RecordsValidated is the number of records audited.
	RecordsValidated int
}

func (r *ValidationResult) add(e *ValidationError) {
	r.Errors = append(r.Errors, e)
	if e.Severity == SeverityError {
		r.ErrorCount++
		r.IsValid = false
	} else {
		r.WarningCount++
	}
}

// Merge appends the findings of other.
func (r *ValidationResult) Merge(other *ValidationResult) {
	for _, e := range other.Errors {
		r.add(e)
	}
	r.RecordsValidated += other.RecordsValidated
}

// =============================================================================
// CHECKS
// =============================================================================

// ValidateDateRange rejects a range whose start is after its end. Only the
// calendar dates are compared.
func ValidateDateRange(start, end time.Time) error {
	startKey := start.Format(types.DateLayout)
	endKey := end.Format(types.DateLayout)
	if startKey > endKey {
		return fmt.Errorf("%w: start %s is after end %s", ErrInvalidDateRange, startKey, endKey)
	}
	return nil
}

// AuditStatusCodes reports entries within [start, end] whose status code
// is not recognized. Findings are ordered by sheet, then code.
func AuditStatusCodes(records []types.AttendanceRecord, start, end time.Time) *ValidationResult {
	type key struct{ sheet, code string }

	result := &ValidationResult{IsValid: true, RecordsValidated: len(records)}
	findings := make(map[key]*ValidationError)

	for _, record := range records {
		for _, code := range summary.InRange(record, start, end) {
			if category, _ := summary.Classify(code); category != types.Unclassified {
				continue
			}

			k := key{sheet: record.SheetName, code: code}
			if f, ok := findings[k]; ok {
				f.Count++
				continue
			}
			findings[k] = &ValidationError{
				Severity: SeverityWarning,
				Sheet:    record.SheetName,
				Employee: record.EmployeeName,
				Value:    code,
				Rule:     "status_code",
				Message:  "unrecognized status code ignored in totals",
				Count:    1,
			}
		}
	}

	keys := make([]key, 0, len(findings))
	for k := range findings {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].sheet != keys[j].sheet {
			return keys[i].sheet < keys[j].sheet
		}
		return keys[i].code < keys[j].code
	})

	for _, k := range keys {
		result.add(findings[k])
	}

	return result
}

// AuditIdentity reports records without an employee id.
func AuditIdentity(records []types.AttendanceRecord) *ValidationResult {
	result := &ValidationResult{IsValid: true, RecordsValidated: len(records)}

	for _, record := range records {
		if strings.TrimSpace(record.EmployeeID) != "" {
			continue
		}
		result.add(&ValidationError{
			Severity: SeverityWarning,
			Sheet:    record.SheetName,
			Employee: record.EmployeeName,
			Rule:     "employee_id",
			Message:  "missing employee id",
			Count:    1,
		})
	}

	return result
}

// =============================================================================
// ERROR REPORTING
// =============================================================================

// FormatErrors formats findings for display.
func FormatErrors(errors []*ValidationError) string {
	if len(errors) == 0 {
		return "No data quality issues."
	}

	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("Data quality check found %d issue(s):\n\n", len(errors)))

	for i, err := range errors {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, err.Error()))
	}

	return builder.String()
}

// WriteErrorLog writes findings to filePath with a timestamped header.
func WriteErrorLog(errors []*ValidationError, filePath string) (err error) {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create error log: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close error log: %w", closeErr)
		}
	}()

	writer := bufio.NewWriter(file)
	fmt.Fprintf(writer, "Attendance data quality log\nGenerated: %s\n\n", time.Now().Format(time.RFC3339))
	writer.WriteString(FormatErrors(errors))

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to write error log: %w", err)
	}
	return nil
}
