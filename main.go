// =============================================================================
// Attendance Summary - Main Entry Point
// =============================================================================
//
// USAGE:
//   attendance summarize   - Summarize attendance over a date range
//   attendance inspect     - Show how every sheet was parsed
//   attendance version     - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Loaders, sheet parser, aggregation and reports
//   - pkg/           : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/attendance-summary/cmd"
)

func main() {
	cmd.Execute()
}
