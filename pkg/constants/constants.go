// Package constants provides shared constants used throughout the pmfscale codebase.
// This includes the fixed sheet names, column synonyms and tokens that the
// three input workbooks are expected to share, plus file permissions and
// naming formats for generated outputs.
package constants

// Marker constants define the multiplier-variable token.
const (
	// PMFMarker marks a column as a multiplier variable. It is also the suffix
	// appended to skip-rule variables and the point at which column names are
	// truncated to form their base tag.
	PMFMarker = "_PMF"
)

// Season token constants
const (
	// SeasonTokenPattern admits skip-rule CONTRIBUTION values such as "S1 2024".
	// It is applied to trimmed, upper-cased values.
	SeasonTokenPattern = `^S\d\s20\d{2}$`
)

// Sheet name constants
const (
	// PMFSheet is the sheet of the multiplier workbook holding multipliers
	PMFSheet = "PMF"

	// MapSheet is the sheet of the granular spec workbook mapping geographies to map codes
	MapSheet = "MAP"

	// SkippedSheet is the audit workbook sheet listing skipped cells
	SkippedSheet = "Skipped"

	// MultipliedSheet is the audit workbook sheet listing multiplied cells
	MultipliedSheet = "Multiplied"

	// SkipRuleColumnLimit is how many leading columns of a per-map-code sheet are read
	SkipRuleColumnLimit = 4
)

// Source names used in error messages and logs
const (
	SourceADS      = "ADS"
	SourcePMF      = "PMF"
	SourceMap      = "MAP"
	SourceGranular = "Granular Spec"
)

// Column name constants
const (
	ColumnGeography     = "GEOGRAPHY"
	ColumnSeason        = "SEASON"
	ColumnPeriodDef     = "PERIOD_DEFINITION"
	ColumnTimePeriods   = "TIME_PERIODS"
	ColumnPeriodMapping = "PERIOD MAPPING"
	ColumnMap           = "MAP"
	ColumnVariable      = "VARIABLE"
	ColumnContribution  = "CONTRIBUTION"
)

// FactSeasonColumns are the accepted season headers of the fact table.
func FactSeasonColumns() []string {
	return []string{ColumnSeason, ColumnPeriodDef, ColumnTimePeriods}
}

// PMFSeasonColumns are the accepted season headers of the PMF sheet, in priority order.
func PMFSeasonColumns() []string {
	return []string{ColumnSeason, ColumnPeriodMapping}
}

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Output naming constants
const (
	// DateFormat is the run date embedded in output file names
	DateFormat = "2006-01-02"

	// ScaledSuffix names the scaled fact table: <base>_Scaled_<date>.csv
	ScaledSuffix = "_Scaled_"

	// LogsSuffix names the audit workbook: <base>_Logs_<date>.xlsx
	LogsSuffix = "_Logs_"

	// ReportSuffix names the markdown run report: <base>_Report_<date>.md
	ReportSuffix = "_Report_"

	// SummarySuffix names the machine-readable run summary: <base>_Summary_<date>.json
	SummarySuffix = "_Summary_"

	// ReportSampleRows limits how many audit records a run report lists per kind
	ReportSampleRows = 20
)

// Progress percentages reported at engine checkpoints
const (
	ProgressFactLoaded       = 10
	ProgressColumnsResolved  = 20
	ProgressMultipliersBuilt = 40
	ProgressSkipRulesBuilt   = 60
	ProgressScalingApplied   = 90
	ProgressAuditReady       = 100
)
