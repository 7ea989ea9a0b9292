// Package scale implements the scale command: one scaling run from input
// files to saved outputs.
package scale

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/pmfscale"
	"github.com/agentstation/pmfscale/internal/appcontext"
	"github.com/agentstation/pmfscale/internal/cmd/alerts"
	"github.com/agentstation/pmfscale/internal/cmd/hints"
	"github.com/agentstation/pmfscale/internal/cmd/output"
	"github.com/agentstation/pmfscale/pkg/errors"
	"github.com/agentstation/pmfscale/pkg/reconcile"
	"github.com/agentstation/pmfscale/pkg/report"
	"github.com/agentstation/pmfscale/pkg/save"
)

// Flags holds the scale command flags.
type Flags struct {
	ADS     string
	PMF     string
	Spec    string
	Out     string
	Base    string
	Report  bool
	Summary string
}

// NewCommand creates the scale command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "scale",
		GroupID: "core",
		Short:   "Scale an ADS fact table by PMF multipliers",
		Long: `Scale multiplies every shared variable of the ADS fact table by the
matching PMF multiplier for the row's geography and season, honoring the
skip rules of the granular spec workbook.

Writes <base>_Scaled_<date>.csv and <base>_Logs_<date>.xlsx to the output
directory, and optionally a Markdown report and a run summary.`,
		Example: `  pmfscale scale --ads ads.csv --pmf pmf.xlsx --spec granular.xlsx
  pmfscale scale --ads ads.xlsx --pmf pmf.xlsx --spec granular.xlsx --out runs --report
  pmfscale scale --ads ads.csv --pmf pmf.xlsx --spec granular.xlsx --summary yaml -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, app, flags)
		},
	}

	cmd.Flags().StringVar(&flags.ADS, "ads", "", "ADS fact table (.csv or .xlsx)")
	cmd.Flags().StringVar(&flags.PMF, "pmf", "", "PMF workbook with a PMF sheet")
	cmd.Flags().StringVar(&flags.Spec, "spec", "", "granular spec workbook with a MAP sheet")
	cmd.Flags().StringVar(&flags.Out, "out", "", "output directory (overrides output_dir)")
	cmd.Flags().StringVar(&flags.Base, "base", "", "base name of output files (default is the ADS file name)")
	cmd.Flags().BoolVar(&flags.Report, "report", false, "also write a Markdown report")
	cmd.Flags().StringVar(&flags.Summary, "summary", "", "also write a run summary: json, yaml")

	for _, name := range []string{"ads", "pmf", "spec"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func run(cmd *cobra.Command, app appcontext.Interface, flags *Flags) error {
	logger := app.Logger()

	opts, err := saveOptions(cmd, app, flags)
	if err != nil {
		return err
	}

	format, err := output.Resolve(app.OutputFormat())
	if err != nil {
		return err
	}

	client, err := app.Client()
	if err != nil {
		return err
	}
	client.OnProgress(func(stage reconcile.Stage) {
		logger.Debug().Int("percent", stage.Percent()).Str("stage", stage.String()).Msg("progress")
	})

	result, err := client.Scale(cmd.Context(), pmfscale.Files{
		ADS:  flags.ADS,
		PMF:  flags.PMF,
		Spec: flags.Spec,
	})
	if err != nil {
		return err
	}

	base := flags.Base
	if base == "" {
		base = flags.ADS
	}
	outputs, err := client.Save(result, base, opts...)
	if err != nil {
		return err
	}

	notices := alerts.NewFormatWriter(cmd.ErrOrStderr(), format)
	if result.HasWarnings() {
		alert := alerts.NewWarning(fmt.Sprintf("%d warnings", len(result.Warnings))).
			WithDetails(result.Warnings...)
		if err := notices.WriteAlert(alert); err != nil {
			return err
		}
	}

	summary := report.NewSummary(result, outputs.Files()...)
	if err := output.NewFormatter(format).Format(cmd.OutOrStdout(), summaryView{summary}); err != nil {
		return err
	}

	if err := notices.WriteAlert(alerts.NewSuccess(fmt.Sprintf("Scaled %d rows", result.Scaled.Len())).
		WithDetails(outputs.Files()...)); err != nil {
		return err
	}

	return hints.Display(cmd.ErrOrStderr(), format, hints.ForResult(result, hints.Inputs{
		ADS:  flags.ADS,
		PMF:  flags.PMF,
		Spec: flags.Spec,
	}))
}

// saveOptions layers explicitly set flags over the configured save options.
func saveOptions(cmd *cobra.Command, app appcontext.Interface, flags *Flags) ([]save.Option, error) {
	opts := app.SaveOptions()
	if cmd.Flags().Changed("out") {
		opts = append(opts, save.WithDir(flags.Out))
	}
	if cmd.Flags().Changed("report") {
		opts = append(opts, save.WithReport(flags.Report))
	}
	if cmd.Flags().Changed("summary") {
		f, ok := save.ParseFormat(flags.Summary)
		if !ok {
			return nil, errors.NewValidationError("summary", flags.Summary, "must be json or yaml")
		}
		opts = append(opts, save.WithSummary(f))
	}
	return opts, nil
}

// summaryView prints a summary as a label/value table, and as itself in
// JSON or YAML.
type summaryView struct {
	summary *report.Summary
}

func (v summaryView) TableData() output.Data {
	rows := v.summary.Rows()
	for _, f := range v.summary.Outputs {
		rows = append(rows, []string{"Output", f})
	}
	return output.Data{
		Headers:         []string{"Field", "Value"},
		Rows:            rows,
		ColumnAlignment: []output.Align{output.AlignLeft, output.AlignRight},
	}
}

func (v summaryView) Value() any {
	return v.summary
}
