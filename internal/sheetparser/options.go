// =============================================================================
// Attendance Summary - Sheet Parser Options
// =============================================================================
//
// The monthly attendance sheets have no fixed schema, so the parser locates
// its structure with a handful of positional heuristics. Every threshold the
// heuristics use lives here so it can be tuned from the configuration file
// instead of being baked into the algorithm.
//
// DEFAULT LAYOUT:
//
//   | Col A   | Col B  | Col C    | Col D      | Col E      | ... |
//   |---------|--------|----------|------------|------------|-----|
//   | (title) |        |          |            |            |     |
//   |         |        |          | 2025-09-01 | 2025-09-02 | ... |  <- header row
//   | Process | EMP ID | Emp Name |            |            |     |  <- optional sub-header
//   | Ops     | E1     | Alice    | W          | PL         | ... |
//
// =============================================================================

package sheetparser

// =============================================================================
// DEFAULTS
// =============================================================================

const (
	// DefaultHeaderLookahead is how many rows from the top are searched for
	// the date header row.
	DefaultHeaderLookahead = 5

	// DefaultMinDateCells is how many date-like cells a row needs to be
	// accepted as the header row.
	DefaultMinDateCells = 3

	// DefaultIdentityColumns is the number of leading columns that never hold
	// dates (process and employee id).
	DefaultIdentityColumns = 2

	// DefaultMinDateTextLength is the shortest text accepted as a date-like
	// header value. It rules out a bare year such as "2025".
	DefaultMinDateTextLength = 8

	// DefaultSubHeaderMarker is the text of the repeated column sub-header
	// that some sheets carry directly below the date row.
	DefaultSubHeaderMarker = "Emp Name"

	// DefaultUnknownProcess is used when a record has no process value.
	DefaultUnknownProcess = "Unknown"
)

// DefaultAllowedYears returns the calendar years whose "YYYY-" prefix marks
// a text cell as date-like.
func DefaultAllowedYears() []int {
	return []int{2023, 2024, 2025, 2026}
}

// DefaultPlaceholders returns the name-column values that do not denote an
// employee.
func DefaultPlaceholders() []string {
	return []string{"nan", "None", DefaultSubHeaderMarker}
}

// DefaultDateLayouts returns the layouts tried, in order, when a header cell
// holds a date as text. Only year-first layouts are accepted.
func DefaultDateLayouts() []string {
	return []string{
		"2006-01-02",
		"2006-1-2",
		"2006/01/02",
		"2006/1/2",
		"2006-01-02T15:04:05",
	}
}

// =============================================================================
// OPTIONS
// =============================================================================

// Options controls the parsing heuristics. Zero values are replaced by the
// defaults above when passed to New. The column layout (IdentityColumns,
// ProcessColumn, IDColumn, NameColumn) is defaulted as a whole when all four
// are zero; set any of them and the others are taken as given.
type Options struct {
	// HeaderLookahead bounds the header-row search to the first N rows.
	HeaderLookahead int

	// MinDateCells is the date-like cell count that selects a header row.
	MinDateCells int

	// IdentityColumns is the first column index that may hold a date.
	IdentityColumns int

	// ProcessColumn, IDColumn and NameColumn locate the identity fields.
	ProcessColumn int
	IDColumn      int
	NameColumn    int

	// AllowedYears lists the years recognized in date-like text.
	AllowedYears []int

	// MinDateTextLength is the minimum trimmed length of date-like text.
	MinDateTextLength int

	// SubHeaderMarker is skipped when it directly follows the header row.
	SubHeaderMarker string

	// Placeholders are name-column values treated as "no employee".
	// Matching is case-insensitive.
	Placeholders []string

	// DateLayouts are tried in order on text header cells.
	DateLayouts []string

	// UnknownProcess replaces an empty process value.
	UnknownProcess string
}

// DefaultOptions returns the documented default heuristics.
func DefaultOptions() Options {
	return Options{
		HeaderLookahead:   DefaultHeaderLookahead,
		MinDateCells:      DefaultMinDateCells,
		IdentityColumns:   DefaultIdentityColumns,
		ProcessColumn:     0,
		IDColumn:          1,
		NameColumn:        2,
		AllowedYears:      DefaultAllowedYears(),
		MinDateTextLength: DefaultMinDateTextLength,
		SubHeaderMarker:   DefaultSubHeaderMarker,
		Placeholders:      DefaultPlaceholders(),
		DateLayouts:       DefaultDateLayouts(),
		UnknownProcess:    DefaultUnknownProcess,
	}
}

// applyDefaults fills unset options. Column positions are only defaulted
// together: 0 is a meaningful index, but all four at 0 would read every
// identity field from the first column.
func applyDefaults(opts *Options) {
	if opts.IdentityColumns == 0 && opts.ProcessColumn == 0 && opts.IDColumn == 0 && opts.NameColumn == 0 {
		opts.IdentityColumns = DefaultIdentityColumns
		opts.ProcessColumn = 0
		opts.IDColumn = 1
		opts.NameColumn = 2
	}
	if opts.HeaderLookahead <= 0 {
		opts.HeaderLookahead = DefaultHeaderLookahead
	}
	if opts.MinDateCells <= 0 {
		opts.MinDateCells = DefaultMinDateCells
	}
	if opts.IdentityColumns < 0 {
		opts.IdentityColumns = DefaultIdentityColumns
	}
	if len(opts.AllowedYears) == 0 {
		opts.AllowedYears = DefaultAllowedYears()
	}
	if opts.MinDateTextLength <= 0 {
		opts.MinDateTextLength = DefaultMinDateTextLength
	}
	if opts.SubHeaderMarker == "" {
		opts.SubHeaderMarker = DefaultSubHeaderMarker
	}
	if len(opts.Placeholders) == 0 {
		opts.Placeholders = DefaultPlaceholders()
	}
	if len(opts.DateLayouts) == 0 {
		opts.DateLayouts = DefaultDateLayouts()
	}
	if opts.UnknownProcess == "" {
		opts.UnknownProcess = DefaultUnknownProcess
	}
}
