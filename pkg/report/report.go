// Package report summarizes a scaling run for people: a structured Summary
// for JSON/YAML output and a Markdown document for review.
package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/agentstation/utc"
	md "github.com/nao1215/markdown"

	"github.com/agentstation/pmfscale/pkg/constants"
	"github.com/agentstation/pmfscale/pkg/reconcile"
	"github.com/agentstation/pmfscale/pkg/table"
)

// Summary is the machine-readable digest of a run.
type Summary struct {
	RunID     string                     `json:"run_id" yaml:"run_id"`
	Started   utc.Time                   `json:"started" yaml:"started"`
	Duration  string                     `json:"duration" yaml:"duration"`
	Geography string                     `json:"geography_column" yaml:"geography_column"`
	Season    string                     `json:"season_column" yaml:"season_column"`
	Variables []string                   `json:"variables" yaml:"variables"`
	Stats     reconcile.ResultStatistics `json:"stats" yaml:"stats"`
	Warnings  []string                   `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Outputs   []string                   `json:"outputs,omitempty" yaml:"outputs,omitempty"`
}

// NewSummary digests a result. Outputs lists files written for the run, if any.
func NewSummary(result *reconcile.Result, outputs ...string) *Summary {
	s := &Summary{
		RunID:     result.RunID,
		Started:   utc.New(result.Metadata.StartTime),
		Duration:  result.Metadata.Duration.String(),
		Geography: result.Metadata.GeographyColumn,
		Season:    result.Metadata.SeasonColumn,
		Variables: make([]string, 0, len(result.Variables)),
		Stats:     result.Metadata.Stats,
		Warnings:  result.Warnings,
		Outputs:   outputs,
	}
	for _, v := range result.Variables {
		s.Variables = append(s.Variables, v.Name)
	}
	return s
}

// Rows flattens the summary into label/value pairs for tabular output.
func (s *Summary) Rows() [][]string {
	st := s.Stats
	return [][]string{
		{"Run ID", s.RunID},
		{"Duration", s.Duration},
		{"Geography column", s.Geography},
		{"Season column", s.Season},
		{"Fact rows", strconv.Itoa(st.FactRows)},
		{"Shared variables", strconv.Itoa(st.Variables)},
		{"Multipliers indexed", strconv.Itoa(st.MultipliersIndexed)},
		{"Multipliers dropped", strconv.Itoa(st.MultipliersDropped)},
		{"Map codes", strconv.Itoa(st.MapCodes)},
		{"Rows without map code", strconv.Itoa(st.RowsUnmapped)},
		{"Skip rules", strconv.Itoa(st.SkipRules)},
		{"Cells multiplied", strconv.Itoa(st.CellsMultiplied)},
		{"Cells skipped", strconv.Itoa(st.CellsSkipped)},
		{"Warnings", strconv.Itoa(len(s.Warnings))},
	}
}

// Option configures WriteMarkdown.
type Option func(*options)

type options struct {
	title      string
	sampleRows int
}

// WithTitle sets the document title.
func WithTitle(title string) Option {
	return func(o *options) {
		o.title = title
	}
}

// WithSampleRows limits how many records of each kind are listed.
// Zero or less lists none.
func WithSampleRows(n int) Option {
	return func(o *options) {
		o.sampleRows = n
	}
}

// WriteMarkdown renders the run report.
func WriteMarkdown(w io.Writer, result *reconcile.Result, opts ...Option) error {
	o := &options{
		title:      "Scaling Report",
		sampleRows: constants.ReportSampleRows,
	}
	for _, opt := range opts {
		opt(o)
	}

	summary := NewSummary(result)
	doc := md.NewMarkdown(w)

	doc.H1(o.title).LF()
	doc.PlainTextf("Run %s started %s and took %s.",
		md.Code(summary.RunID),
		summary.Started.Time.UTC().Format(time.RFC3339),
		summary.Duration).LF()

	doc.H2("Statistics").LF()
	doc.Table(md.TableSet{
		Header: []string{"Metric", "Value"},
		Rows:   summary.Rows(),
	}).LF()

	if len(summary.Variables) > 0 {
		doc.H2("Variables").LF()
		doc.BulletList(summary.Variables...).LF()
	}

	if len(summary.Warnings) > 0 {
		doc.H2("Warnings").LF()
		doc.BulletList(summary.Warnings...).LF()
	}

	if result.Audit != nil && o.sampleRows > 0 {
		section(doc, "Multiplied", result.Audit.MultipliedTable(), o.sampleRows)
		section(doc, "Skipped", result.Audit.SkippedTable(), o.sampleRows)
	}

	if err := doc.Build(); err != nil {
		return fmt.Errorf("rendering markdown report: %w", err)
	}
	return nil
}

// section writes the first n rows of an audit table.
func section(doc *md.Markdown, title string, t *table.Table, n int) {
	doc.H2(fmt.Sprintf("%s (%d)", title, t.Len())).LF()
	if t.Len() == 0 {
		doc.PlainText("None.").LF()
		return
	}

	rows := t.Rows
	if len(rows) > n {
		rows = rows[:n]
	}
	doc.Table(md.TableSet{
		Header: t.Columns,
		Rows:   rows,
	}).LF()
	if t.Len() > n {
		doc.PlainTextf("Showing %d of %d records.", n, t.Len()).LF()
	}
}
