// Package inspect implements the inspect command, which lists the sheets of
// input files with their headers and the role each sheet can play in a run.
package inspect

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/pmfscale/internal/appcontext"
	"github.com/agentstation/pmfscale/internal/cmd/output"
	"github.com/agentstation/pmfscale/pkg/columns"
	"github.com/agentstation/pmfscale/pkg/constants"
	"github.com/agentstation/pmfscale/pkg/sheets"
	"github.com/agentstation/pmfscale/pkg/table"
)

// Sheet roles.
const (
	RoleFact        = "fact"
	RoleMultipliers = "multipliers"
	RoleMap         = "map"
	RoleSkipRules   = "skip rules"
)

// SheetInfo describes one sheet of an input file.
type SheetInfo struct {
	File      string   `json:"file" yaml:"file"`
	Sheet     string   `json:"sheet" yaml:"sheet"`
	Role      string   `json:"role,omitempty" yaml:"role,omitempty"`
	Rows      int      `json:"rows" yaml:"rows"`
	Variables int      `json:"variables" yaml:"variables"`
	Columns   []string `json:"columns" yaml:"columns"`
}

// NewCommand creates the inspect command.
func NewCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:     "inspect FILE...",
		GroupID: "core",
		Short:   "List the sheets and headers of input files",
		Example: `  pmfscale inspect granular.xlsx
  pmfscale inspect ads.csv pmf.xlsx -o yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := output.Resolve(app.OutputFormat())
			if err != nil {
				return err
			}

			var infos []SheetInfo
			for _, path := range args {
				found, err := Inspect(path)
				if err != nil {
					return err
				}
				app.Logger().Debug().Str("file", path).Int("sheets", len(found)).Msg("inspected")
				infos = append(infos, found...)
			}

			return output.NewFormatter(format).Format(cmd.OutOrStdout(), infos)
		},
	}
}

// Inspect reads every sheet of the file at path.
func Inspect(path string) ([]SheetInfo, error) {
	wb, err := sheets.Open(path)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	infos := make([]SheetInfo, 0, len(wb.SheetNames()))
	for _, name := range wb.SheetNames() {
		t, err := wb.ReadSheet(name)
		if err != nil {
			return nil, err
		}
		infos = append(infos, SheetInfo{
			File:      wb.Name(),
			Sheet:     name,
			Role:      Role(name, t),
			Rows:      t.Len(),
			Variables: countMarked(t.Columns, constants.PMFMarker),
			Columns:   columns.TrimHeaders(t.Columns),
		})
	}
	return infos, nil
}

// Role guesses what a sheet is for from its name and headers.
func Role(name string, t *table.Table) string {
	has := func(candidates ...string) bool {
		_, ok := columns.Find(t.Columns, candidates...)
		return ok
	}

	switch {
	case strings.EqualFold(name, constants.MapSheet) && has(constants.ColumnMap):
		return RoleMap
	case strings.EqualFold(name, constants.PMFSheet) && has(constants.ColumnGeography):
		return RoleMultipliers
	case has(constants.ColumnVariable) && has(constants.ColumnContribution):
		return RoleSkipRules
	case has(constants.ColumnGeography) && has(constants.FactSeasonColumns()...):
		return RoleFact
	}
	return ""
}

func countMarked(headers []string, marker string) int {
	n := 0
	for _, h := range headers {
		if strings.Contains(strings.ToUpper(h), marker) {
			n++
		}
	}
	return n
}
