package inspect

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/pmfscale/internal/appcontext"
	"github.com/agentstation/pmfscale/pkg/sheets"
	"github.com/agentstation/pmfscale/pkg/table"
)

func writeWorkbook(t *testing.T, path string, s ...sheets.Sheet) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, sheets.WriteWorkbook(&buf, s...))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func TestRole(t *testing.T) {
	tests := []struct {
		name    string
		sheet   string
		columns []string
		want    string
	}{
		{"map", "MAP", []string{"Geography", "Map"}, RoleMap},
		{"map sheet without map column", "MAP", []string{"Geography"}, ""},
		{"multipliers", "PMF", []string{"GEOGRAPHY", "PERIOD MAPPING", "TV_PMF"}, RoleMultipliers},
		{"skip rules", "NA1", []string{"VARIABLE", "CONTRIBUTION", "NOTES"}, RoleSkipRules},
		{"fact", "ads", []string{" Geography ", "Time_Periods", "TV_PMF"}, RoleFact},
		{"unknown", "Readme", []string{"NOTES"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Role(tt.sheet, table.New(tt.sheet, tt.columns)))
		})
	}
}

func TestInspect(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "granular.xlsx")
	writeWorkbook(t, path,
		sheets.Sheet{Name: "MAP", Columns: []string{"GEOGRAPHY", "MAP"}, Rows: [][]any{{"BOSE.COM", "NA1"}}},
		sheets.Sheet{Name: "NA1", Columns: []string{"VARIABLE", "CONTRIBUTION"}, Rows: [][]any{{"TV_PMF", "S1 2024"}, {"COL_PMF", "S2 2024"}}},
	)

	got, err := Inspect(path)
	require.NoError(t, err)

	want := []SheetInfo{
		{File: "granular.xlsx", Sheet: "MAP", Role: RoleMap, Rows: 1, Columns: []string{"GEOGRAPHY", "MAP"}},
		{File: "granular.xlsx", Sheet: "NA1", Role: RoleSkipRules, Rows: 2, Columns: []string{"VARIABLE", "CONTRIBUTION"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Inspect() mismatch (-want +got):\n%s", diff)
	}
}

func TestInspectCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ads.csv")
	require.NoError(t, os.WriteFile(path, []byte("Geography,Season,TV_PMF,col_pmf_x,Revenue\nA,S1 2024,1,2,3\n"), 0o644))

	got, err := Inspect(path)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "ads", got[0].Sheet)
	assert.Equal(t, RoleFact, got[0].Role)
	assert.Equal(t, 2, got[0].Variables)
	assert.Equal(t, 1, got[0].Rows)
}

func TestCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ads.csv")
	require.NoError(t, os.WriteFile(path, []byte("Geography,Season,TV_PMF\nA,S1 2024,1\n"), 0o644))

	app := &appcontext.Mock{OutputFormatFunc: func() string { return "json" }}
	cmd := NewCommand(app)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{path})
	require.NoError(t, cmd.Execute())

	var infos []SheetInfo
	require.NoError(t, json.Unmarshal(out.Bytes(), &infos))
	require.Len(t, infos, 1)
	assert.Equal(t, []string{"Geography", "Season", "TV_PMF"}, infos[0].Columns)
}

func TestCommandErrors(t *testing.T) {
	app := &appcontext.Mock{}

	cmd := NewCommand(app)
	cmd.SetArgs([]string{})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	assert.Error(t, cmd.Execute(), "no files")

	cmd = NewCommand(app)
	cmd.SetArgs([]string{filepath.Join(t.TempDir(), "notes.txt")})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	assert.Error(t, cmd.Execute(), "unsupported extension")
}
