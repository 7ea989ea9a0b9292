package pmfscale

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/pmfscale/pkg/audit"
	"github.com/agentstation/pmfscale/pkg/constants"
	"github.com/agentstation/pmfscale/pkg/errors"
	"github.com/agentstation/pmfscale/pkg/logging"
	"github.com/agentstation/pmfscale/pkg/reconcile"
	"github.com/agentstation/pmfscale/pkg/report"
	"github.com/agentstation/pmfscale/pkg/save"
	"github.com/agentstation/pmfscale/pkg/sheets"
	"github.com/agentstation/pmfscale/pkg/table"
)

// Compile-time interface check to ensure proper implementation.
var _ Persistence = (*client)(nil)

// Persistence handles writing run outputs.
type Persistence interface {
	// Save writes the scaled table and audit workbook, plus any optional
	// artifacts the options ask for.
	Save(result *reconcile.Result, base string, opts ...save.Option) (*Outputs, error)
}

// Outputs lists the files written by Save. Optional files are empty when
// not written.
type Outputs struct {
	Scaled  string `json:"scaled" yaml:"scaled"`
	Logs    string `json:"logs" yaml:"logs"`
	Report  string `json:"report,omitempty" yaml:"report,omitempty"`
	Summary string `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// Files returns the written paths in write order.
func (o *Outputs) Files() []string {
	files := []string{o.Scaled, o.Logs}
	for _, f := range []string{o.Report, o.Summary} {
		if f != "" {
			files = append(files, f)
		}
	}
	return files
}

// Save writes <base>_Scaled_<date>.csv and <base>_Logs_<date>.xlsx into the
// output directory. Base may be a file name or path; its directory and
// extension are dropped. An empty base uses the scaled table's name. The
// date is the local calendar date of the save date, or of the client clock.
func (c *client) Save(result *reconcile.Result, base string, opts ...save.Option) (*Outputs, error) {
	if result == nil || result.Scaled == nil || result.Audit == nil {
		return nil, errors.NewValidationError("result", nil, "nothing to save")
	}

	o := save.Defaults().Apply(opts...)
	if !o.Summary().IsValid() {
		return nil, errors.NewValidationError("summary", o.Summary().String(), errors.ErrUnsupportedFormat.Error())
	}

	base = baseName(base, result.Scaled.Name)
	date := o.Date()
	if date.IsZero() {
		date = c.options.clock()
	}
	stamp := date.Local().Format(constants.DateFormat)

	if err := os.MkdirAll(o.Dir(), constants.DirPermissions); err != nil {
		return nil, errors.WrapIO("create", o.Dir(), err)
	}
	path := func(suffix, ext string) string {
		return filepath.Join(o.Dir(), base+suffix+stamp+ext)
	}

	out := &Outputs{
		Scaled: path(constants.ScaledSuffix, ".csv"),
		Logs:   path(constants.LogsSuffix, ".xlsx"),
	}

	if err := writeFile(out.Scaled, func(w io.Writer) error {
		return sheets.WriteCSV(w, result.Scaled)
	}); err != nil {
		return nil, err
	}

	if err := writeFile(out.Logs, func(w io.Writer) error {
		return sheets.WriteWorkbook(w, auditSheets(result.Audit)...)
	}); err != nil {
		return nil, err
	}

	if o.Report() {
		out.Report = path(constants.ReportSuffix, ".md")
		if err := writeFile(out.Report, func(w io.Writer) error {
			return report.WriteMarkdown(w, result, report.WithTitle("Scaling Report: "+base))
		}); err != nil {
			return nil, err
		}
	}

	if f := o.Summary(); f != save.FormatNone {
		summary := report.NewSummary(result, out.Files()...)
		out.Summary = path(constants.SummarySuffix, f.Ext())
		if err := writeFile(out.Summary, func(w io.Writer) error {
			return encodeSummary(w, f, summary)
		}); err != nil {
			return nil, err
		}
	}

	ctx := logging.WithLogger(context.Background(), c.logger(context.Background()))
	logging.FromContext(logging.WithRunID(ctx, result.RunID)).Info().
		Strs("files", out.Files()).
		Msg("Outputs saved")

	return out, nil
}

// auditSheets lays out the audit log with numeric cells kept numeric.
func auditSheets(log *audit.Log) []sheets.Sheet {
	skipped := sheets.Sheet{
		Name:    constants.SkippedSheet,
		Columns: audit.SkippedColumns,
		Rows:    make([][]any, 0, len(log.Skipped)),
	}
	for _, r := range log.Skipped {
		skipped.Rows = append(skipped.Rows, []any{r.Row, r.Geography, r.Season, r.MapCode, r.Variable})
	}

	multiplied := sheets.Sheet{
		Name:    constants.MultipliedSheet,
		Columns: audit.MultipliedColumns,
		Rows:    make([][]any, 0, len(log.Multiplied)),
	}
	for _, r := range log.Multiplied {
		multiplied.Rows = append(multiplied.Rows, []any{
			r.Row, r.Geography, r.Season, r.MapCode, r.Variable,
			numberCell(r.Original), numberCell(r.Multiplier), numberCell(r.Updated),
		})
	}

	return []sheets.Sheet{skipped, multiplied}
}

// numberCell keeps finite values numeric. Infinities have no numeric cell
// form in a workbook, so they are stored as text.
func numberCell(v float64) any {
	if table.IsFinite(v) {
		return v
	}
	return table.FormatNumber(v)
}

func encodeSummary(w io.Writer, f save.Format, summary *report.Summary) error {
	switch f {
	case save.FormatYAML:
		data, err := yaml.MarshalWithOptions(summary, yaml.Indent(2), yaml.IndentSequence(false))
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}
}

// writeFile creates path and streams content into it.
func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, constants.FilePermissions)
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return errors.WrapIO("write", path, err)
	}
	if err := f.Close(); err != nil {
		return errors.WrapIO("close", path, err)
	}
	return nil
}

func baseName(base, fallback string) string {
	if base == "" {
		base = fallback
	}
	base = filepath.Base(base)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "ADS"
	}
	return base
}
