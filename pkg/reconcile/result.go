package reconcile

import (
	"fmt"
	"time"

	"github.com/agentstation/pmfscale/pkg/audit"
	"github.com/agentstation/pmfscale/pkg/columns"
	"github.com/agentstation/pmfscale/pkg/skiprules"
	"github.com/agentstation/pmfscale/pkg/table"
)

// Result represents the outcome of a reconciliation run
type Result struct {
	// RunID uniquely identifies the run in logs and reports
	RunID string

	// Scaled is the fact table after scaling; same rows and columns as the input
	Scaled *table.Table

	// Audit holds every skipped and multiplied cell in emission order
	Audit *audit.Log

	// Variables are the multiplier variables shared by the fact and PMF tables
	Variables []columns.Variable

	// SkipRules is the skip-rule set the run applied
	SkipRules skiprules.Set

	// Warnings contains non-fatal issues such as unmapped geographies
	Warnings []string

	// Metadata about the run
	Metadata ResultMetadata
}

// ResultMetadata contains metadata about the run
type ResultMetadata struct {
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	// Resolved column names
	GeographyColumn string
	SeasonColumn    string

	Stats ResultStatistics
}

// ResultStatistics contains counts gathered while building indices and scaling
type ResultStatistics struct {
	FactRows    int `json:"fact_rows" yaml:"fact_rows"`
	FactColumns int `json:"fact_columns" yaml:"fact_columns"`
	Variables   int `json:"variables" yaml:"variables"`

	PMFRows              int `json:"pmf_rows" yaml:"pmf_rows"`
	MultipliersIndexed   int `json:"multipliers_indexed" yaml:"multipliers_indexed"`
	MultipliersDropped   int `json:"multipliers_dropped" yaml:"multipliers_dropped"`
	MultiplierOverwrites int `json:"multiplier_overwrites" yaml:"multiplier_overwrites"`

	MapCodes       int `json:"map_codes" yaml:"map_codes"`
	RowsMapped     int `json:"rows_mapped" yaml:"rows_mapped"`
	RowsUnmapped   int `json:"rows_unmapped" yaml:"rows_unmapped"`
	SkipRules      int `json:"skip_rules" yaml:"skip_rules"`
	SkipRuleSheets skiprules.Stats `json:"skip_rule_sheets" yaml:"skip_rule_sheets"`

	CellsSkipped    int `json:"cells_skipped" yaml:"cells_skipped"`
	CellsMultiplied int `json:"cells_multiplied" yaml:"cells_multiplied"`
}

// HasWarnings returns true if there were warnings
func (r *Result) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// Summary returns a one-line, human-readable summary of the result
func (r *Result) Summary() string {
	s := r.Metadata.Stats
	return fmt.Sprintf("Scaled %d rows across %d variables: %d cells multiplied, %d skipped (%d warnings)",
		s.FactRows, s.Variables, s.CellsMultiplied, s.CellsSkipped, len(r.Warnings))
}
