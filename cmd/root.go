// =============================================================================
// Attendance Summary - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. All other commands
// are attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (attendance)
//   ├── summarizeCmd (attendance summarize)
//   ├── inspectCmd   (attendance inspect)
//   └── versionCmd   (attendance version)
//
// CONFIGURATION:
//   Before any subcommand runs, the root command:
//   1. Loads the configuration (--config, then ATTENDANCE_* env overrides)
//   2. Sets up logging (--verbose forces debug)
//   3. Tags the context with a run ID used in log records
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/attendance-summary/internal/config"
	"github.com/ginjaninja78/attendance-summary/internal/logging"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file. Empty means
// config.DefaultConfigPath, which may be absent.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// appConfig and appLogger are set by the root command before a subcommand
// runs.
var (
	appConfig *config.Config
	appLogger *slog.Logger
	closeLog  = func() error { return nil }
)

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "attendance",
	Short: "Attendance Summary - Summarize monthly attendance spreadsheets",
	Long: `Attendance Summary reads monthly attendance workbooks (one sheet per
month, any layout with a row of dates) and reports per-employee totals of
present, leave, absent and off days over a date range.

Key Features:
  - Header row and date columns found heuristically on every sheet
  - .xlsx/.xlsm workbooks and single-sheet .csv exports
  - Per-sheet or cross-month combined summaries
  - CSV and XLSX reports, plus a data quality check for unknown codes

Example Usage:
  attendance summarize --input ./attendance.xlsx
  attendance summarize --input ./exports --from 2025-09-01 --to 2025-10-31 --combined
  attendance inspect --input ./attendance.xlsx`,

	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initApp(cmd)
	},

	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLog()
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. It is called by main.main(). Interrupts
// cancel the command's context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// initApp loads the configuration and logger for the command being run.
func initApp(cmd *cobra.Command) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	logger, closeFn, err := logging.New(cfg.Logging, verbose)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}

	appConfig = cfg
	appLogger = logger
	closeLog = closeFn

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logging.WithRunID(ctx, uuid.New().String())
	cmd.SetContext(ctx)

	logger.DebugContext(ctx, "configuration loaded",
		"config", cfgFile,
		"format", cfg.Report.Format,
		"max_concurrency", cfg.Processing.MaxConcurrency)

	return nil
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"Path to the configuration file (default is config.yaml if present)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}
