// =============================================================================
// Attendance Summary - Configuration Module
// =============================================================================
//
// This module loads the application configuration.
//
// LOAD ORDER:
//   1. YAML file (config.yaml by default). A missing default file is not an
//      error; the built-in defaults apply.
//   2. Environment overrides, prefix ATTENDANCE, e.g.
//      ATTENDANCE_REPORT_OUTPUT_DIR or ATTENDANCE_PARSER_MIN_DATE_CELLS.
//   3. Defaults for anything still unset.
//   4. Struct validation.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/attendance-summary/internal/sheetparser"
)

// DefaultConfigPath is used when no --config flag is given.
const DefaultConfigPath = "config.yaml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "ATTENDANCE"

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the complete application configuration.
type Config struct {
	Parser     ParserConfig     `yaml:"parser" envconfig:"PARSER"`
	CSV        CSVSettings      `yaml:"csv" envconfig:"CSV"`
	Report     ReportConfig     `yaml:"report" envconfig:"REPORT"`
	Processing ProcessingConfig `yaml:"processing" envconfig:"PROCESSING"`
	Logging    LoggingConfig    `yaml:"logging" envconfig:"LOGGING"`
}

// ParserConfig tunes the sheet parsing heuristics. Zero values fall back to
// the parser defaults.
type ParserConfig struct {
	// HeaderLookahead is how many rows from the top are searched for the
	// date header row.
	// Default: 5
	HeaderLookahead int `yaml:"header_lookahead" envconfig:"HEADER_LOOKAHEAD" validate:"gte=1"`

	// MinDateCells is the number of date-like cells that marks a header row.
	// Default: 3
	MinDateCells int `yaml:"min_date_cells" envconfig:"MIN_DATE_CELLS" validate:"gte=1"`

	// IdentityColumns is the first column that may hold a date.
	// Default: 2
	IdentityColumns int `yaml:"identity_columns" envconfig:"IDENTITY_COLUMNS" validate:"gte=0"`

	// Column positions of the identity fields, 0-based.
	// Defaults: 0, 1, 2
	ProcessColumn int `yaml:"process_column" envconfig:"PROCESS_COLUMN" validate:"gte=0"`
	IDColumn      int `yaml:"id_column" envconfig:"ID_COLUMN" validate:"gte=0"`
	NameColumn    int `yaml:"name_column" envconfig:"NAME_COLUMN" validate:"gte=0"`

	// AllowedYears lists the years recognized in date-like header text.
	// Default: 2023, 2024, 2025, 2026
	AllowedYears []int `yaml:"allowed_years" envconfig:"ALLOWED_YEARS" validate:"dive,gte=1900,lte=9999"`

	// MinDateTextLength is the shortest text accepted as a date header.
	// Default: 8
	MinDateTextLength int `yaml:"min_date_text_length" envconfig:"MIN_DATE_TEXT_LENGTH" validate:"gte=1"`

	// SubHeaderMarker is the repeated column header skipped below the dates.
	// Default: "Emp Name"
	SubHeaderMarker string `yaml:"sub_header_marker" envconfig:"SUB_HEADER_MARKER"`

	// Placeholders are name-column values that do not denote an employee.
	// Default: "nan", "None", "Emp Name"
	Placeholders []string `yaml:"placeholders" envconfig:"PLACEHOLDERS"`

	// DateLayouts are Go time layouts tried on text header cells.
	DateLayouts []string `yaml:"date_layouts" envconfig:"DATE_LAYOUTS"`

	// UnknownProcess replaces an empty process value.
	// Default: "Unknown"
	UnknownProcess string `yaml:"unknown_process" envconfig:"UNKNOWN_PROCESS"`
}

// CSVSettings contains settings for reading .csv attendance exports.
type CSVSettings struct {
	// Delimiter separates fields. Accepts a single character or one of
	// "tab", "pipe", "semicolon".
	// Default: ","
	Delimiter string `yaml:"delimiter" envconfig:"DELIMITER" validate:"required"`

	// TrimLeadingSpace drops leading whitespace in unquoted fields.
	// Default: false
	TrimLeadingSpace bool `yaml:"trim_leading_space" envconfig:"TRIM_LEADING_SPACE"`
}

// ReportConfig controls report output.
type ReportConfig struct {
	// OutputDir is where report files are written.
	// Default: "./output"
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR" validate:"required"`

	// Format selects the report files: "csv", "xlsx" or "both".
	// Default: "csv"
	Format string `yaml:"format" envconfig:"FORMAT" validate:"oneof=csv xlsx both"`

	// Delimiter separates fields in CSV reports.
	// Default: ","
	Delimiter string `yaml:"delimiter" envconfig:"DELIMITER" validate:"required"`

	// FileNameFormat names report files. Placeholders:
	//   {start}, {end} - the date range (YYYY-MM-DD)
	//   {timestamp}    - current time (YYYYMMDD_HHMMSS)
	//   {uuid}         - a random UUID
	//   {kind}         - "summary" or "combined"
	// The extension is appended.
	// Default: "attendance_report_{start}_to_{end}"
	FileNameFormat string `yaml:"file_name_format" envconfig:"FILE_NAME_FORMAT" validate:"required"`

	// WriteQualityLog writes unrecognized status codes to a log file next
	// to the report.
	// Default: false
	WriteQualityLog bool `yaml:"write_quality_log" envconfig:"WRITE_QUALITY_LOG"`
}

// ProcessingConfig controls concurrency.
type ProcessingConfig struct {
	// MaxConcurrency bounds the number of sheets parsed at once.
	// Default: 4
	MaxConcurrency int `yaml:"max_concurrency" envconfig:"MAX_CONCURRENCY" validate:"gte=1,lte=64"`
}

// LoggingConfig controls the application logger.
type LoggingConfig struct {
	// Level is one of "debug", "info", "warn", "error".
	// Default: "info"
	Level string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`

	// Format is "text" or "json".
	// Default: "text"
	Format string `yaml:"format" envconfig:"FORMAT" validate:"oneof=text json"`

	// Output is "console", "file" or "both".
	// Default: "console"
	Output string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`

	// FilePath is the log file used when Output includes "file".
	// Default: "./logs/attendance.log"
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Load reads the configuration.
//
// PARAMETERS:
//   - configPath: The YAML file to read. An empty path means
//     DefaultConfigPath, which may be absent.
//
// RETURNS:
//   - A pointer to the validated Config.
//   - An error if the file cannot be read or parsed, an environment
//     override is malformed, or validation fails.
func Load(configPath string) (*Config, error) {
	var cfg Config

	explicit := configPath != ""
	if !explicit {
		configPath = DefaultConfigPath
	}

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		// Defaults only.
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)
	return &cfg
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(cfg *Config) {
	defaults := sheetparser.DefaultOptions()
	p := &cfg.Parser
	if p.HeaderLookahead == 0 {
		p.HeaderLookahead = defaults.HeaderLookahead
	}
	if p.MinDateCells == 0 {
		p.MinDateCells = defaults.MinDateCells
	}
	if p.IdentityColumns == 0 {
		p.IdentityColumns = defaults.IdentityColumns
	}
	// A zero name column is indistinguishable from unset, so the three
	// identity positions default together.
	if p.ProcessColumn == 0 && p.IDColumn == 0 && p.NameColumn == 0 {
		p.ProcessColumn = defaults.ProcessColumn
		p.IDColumn = defaults.IDColumn
		p.NameColumn = defaults.NameColumn
	}
	if len(p.AllowedYears) == 0 {
		p.AllowedYears = defaults.AllowedYears
	}
	if p.MinDateTextLength == 0 {
		p.MinDateTextLength = defaults.MinDateTextLength
	}
	if p.SubHeaderMarker == "" {
		p.SubHeaderMarker = defaults.SubHeaderMarker
	}
	if len(p.Placeholders) == 0 {
		p.Placeholders = defaults.Placeholders
	}
	if len(p.DateLayouts) == 0 {
		p.DateLayouts = defaults.DateLayouts
	}
	if p.UnknownProcess == "" {
		p.UnknownProcess = defaults.UnknownProcess
	}

	if cfg.CSV.Delimiter == "" {
		cfg.CSV.Delimiter = ","
	}

	if cfg.Report.OutputDir == "" {
		cfg.Report.OutputDir = "./output"
	}
	if cfg.Report.Format == "" {
		cfg.Report.Format = "csv"
	}
	if cfg.Report.Delimiter == "" {
		cfg.Report.Delimiter = ","
	}
	if cfg.Report.FileNameFormat == "" {
		cfg.Report.FileNameFormat = "attendance_report_{start}_to_{end}"
	}

	if cfg.Processing.MaxConcurrency == 0 {
		cfg.Processing.MaxConcurrency = 4
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "console"
	}
	if cfg.Logging.FilePath == "" {
		cfg.Logging.FilePath = "./logs/attendance.log"
	}
}

// Validate checks the configuration against its struct rules.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			first := verrs[0]
			return fmt.Errorf("%s failed '%s' (value %v)", first.Namespace(), first.Tag(), first.Value())
		}
		return err
	}
	return nil
}

// ParserOptions converts the parser section into sheet parser options.
func (c *Config) ParserOptions() sheetparser.Options {
	p := c.Parser
	return sheetparser.Options{
		HeaderLookahead:   p.HeaderLookahead,
		MinDateCells:      p.MinDateCells,
		IdentityColumns:   p.IdentityColumns,
		ProcessColumn:     p.ProcessColumn,
		IDColumn:          p.IDColumn,
		NameColumn:        p.NameColumn,
		AllowedYears:      p.AllowedYears,
		MinDateTextLength: p.MinDateTextLength,
		SubHeaderMarker:   p.SubHeaderMarker,
		Placeholders:      p.Placeholders,
		DateLayouts:       p.DateLayouts,
		UnknownProcess:    p.UnknownProcess,
	}
}

// ReportCSV returns CSV settings for reading and writing reports.
func (c *Config) ReportCSV() CSVSettings {
	return CSVSettings{Delimiter: c.Report.Delimiter}
}
