package scaling_test

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/pmfscale/pkg/audit"
	"github.com/agentstation/pmfscale/pkg/columns"
	"github.com/agentstation/pmfscale/pkg/multiplier"
	"github.com/agentstation/pmfscale/pkg/scaling"
	"github.com/agentstation/pmfscale/pkg/skiprules"
	"github.com/agentstation/pmfscale/pkg/table"
)

type mapResolver map[string]string

func (m mapResolver) Resolve(geo string) (string, bool) {
	code, ok := m[geo]
	return code, ok
}

func TestBaseTag(t *testing.T) {
	tests := []struct {
		column string
		want   string
	}{
		{"TV_PMF", "TV_PMF"},
		{"tv_pmf_spend", "TV_PMF"},
		{"Radio_PMF_A_PMF_B", "RADIO_PMF"},
		{"REVENUE", "REVENUE"},
		{"x_pmf", "X_PMF"},
	}
	for _, tt := range tests {
		t.Run(tt.column, func(t *testing.T) {
			assert.Equal(t, tt.want, scaling.BaseTag(tt.column, "_PMF"))
		})
	}
}

func fact() *table.Table {
	return table.FromRecords("ads", [][]string{
		{"Geography", "Season", "COL_PMF", "OTHER"},
		{"BOSE.COM", "S1 2024", "100", "7"},
	})
}

func index(geo, season, variable string, m float64) *multiplier.Index {
	return multiplier.Build([]multiplier.Entry{
		{Geography: geo, Season: season, Variable: variable, Multiplier: m, Valid: true},
	})
}

var colPMF = []columns.Variable{{Name: "COL_PMF", PMFColumn: "COL_PMF"}}

func TestApplyMultiplies(t *testing.T) {
	in := fact()
	scaled, log := scaling.Apply(in, scaling.Inputs{
		GeographyColumn: "Geography",
		SeasonColumn:    "Season",
		Variables:       colPMF,
		Multipliers:     index("BOSE_COM", "S1 2024", "COL_PMF", 1.5),
		Marker:          "_PMF",
	})

	assert.Equal(t, "150", scaled.Value(0, "COL_PMF"))
	assert.Equal(t, "7", scaled.Value(0, "OTHER"))
	assert.Equal(t, "100", in.Value(0, "COL_PMF"), "input must not be modified")

	assert.Empty(t, log.Skipped)
	want := []audit.MultipliedRecord{{
		Row: 0, Geography: "BOSE.COM", Season: "S1 2024", Variable: "COL_PMF",
		Original: 100, Multiplier: 1.5, Updated: 150,
	}}
	if diff := cmp.Diff(want, log.Multiplied); diff != "" {
		t.Errorf("Multiplied mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyOverflowWritesInf(t *testing.T) {
	in := table.FromRecords("ads", [][]string{
		{"Geography", "Season", "COL_PMF"},
		{"BOSE.COM", "S1 2024", "1e308"},
	})
	scaled, log := scaling.Apply(in, scaling.Inputs{
		GeographyColumn: "Geography",
		SeasonColumn:    "Season",
		Variables:       colPMF,
		Multipliers:     index("BOSE_COM", "S1 2024", "COL_PMF", 10),
		Marker:          "_PMF",
	})

	assert.Equal(t, "inf", scaled.Value(0, "COL_PMF"))
	require.Len(t, log.Multiplied, 1)
	assert.True(t, math.IsInf(log.Multiplied[0].Updated, 1))
}

func TestApplySkipWinsOverMultiplier(t *testing.T) {
	in := fact()
	scaled, log := scaling.Apply(in, scaling.Inputs{
		GeographyColumn: "Geography",
		SeasonColumn:    "Season",
		Variables:       colPMF,
		Multipliers:     index("BOSE.COM", "S1 2024", "COL_PMF", 1.5),
		SkipRules:       skiprules.NewSet(skiprules.Triple{Variable: "COL_PMF", Season: "S1 2024", MapCode: "NA1"}),
		Rows:            scaling.Keys(in, "Geography", "Season", mapResolver{"BOSE.COM": "NA1"}),
		Marker:          "_PMF",
	})

	assert.Equal(t, "100", scaled.Value(0, "COL_PMF"))
	assert.Empty(t, log.Multiplied)
	assert.Equal(t, []audit.SkippedRecord{{
		Row: 0, Geography: "BOSE.COM", Season: "S1 2024", MapCode: "NA1", Variable: "COL_PMF",
	}}, log.Skipped)
}

func TestApplyNoOps(t *testing.T) {
	tests := []struct {
		name    string
		records [][]string
		index   *multiplier.Index
		rules   skiprules.Set
		codes   mapResolver
	}{
		{
			name:    "no multiplier entry",
			records: [][]string{{"Geography", "Season", "COL_PMF"}, {"BOSE.COM", "S1 2024", "100"}},
			index:   index("BOSE.COM", "S2 2024", "COL_PMF", 2),
		},
		{
			name:    "non-numeric cell",
			records: [][]string{{"Geography", "Season", "COL_PMF"}, {"BOSE.COM", "S1 2024", "n/a"}},
			index:   index("BOSE.COM", "S1 2024", "COL_PMF", 2),
		},
		{
			name:    "blank cell",
			records: [][]string{{"Geography", "Season", "COL_PMF"}, {"BOSE.COM", "S1 2024", ""}},
			index:   index("BOSE.COM", "S1 2024", "COL_PMF", 2),
		},
		{
			name:    "skip rule without map code for row",
			records: [][]string{{"Geography", "Season", "COL_PMF"}, {"BOSE.COM", "S1 2024", "100"}},
			index:   index("OTHER", "S1 2024", "COL_PMF", 2),
			rules:   skiprules.NewSet(skiprules.Triple{Variable: "COL_PMF", Season: "S1 2024", MapCode: "NA1"}),
			codes:   mapResolver{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := table.FromRecords("ads", tt.records)
			scaled, log := scaling.Apply(in, scaling.Inputs{
				GeographyColumn: "Geography",
				SeasonColumn:    "Season",
				Variables:       colPMF,
				Multipliers:     tt.index,
				SkipRules:       tt.rules,
				Rows:            scaling.Keys(in, "Geography", "Season", tt.codes),
				Marker:          "_PMF",
			})
			assert.Equal(t, in.Rows, scaled.Rows)
			assert.Zero(t, log.Len())
		})
	}
}

func TestApplyOrderAndShape(t *testing.T) {
	in := table.FromRecords("ads", [][]string{
		{"GEOGRAPHY", "SEASON", "A_PMF", "B_PMF_X", "NOTE"},
		{" amazon ", "s1 2024", "10", "1", "x"},
		{"BOSE.COM", "S1 2024", "20", "2", "y"},
		{"BOSE.COM", "S2 2024", "30", "3", "z"},
	})
	entries := []multiplier.Entry{
		{Geography: "AMAZON", Season: "S1 2024", Variable: "A_PMF", Multiplier: 2, Valid: true},
		{Geography: "BOSE_COM", Season: "S2 2024", Variable: "A_PMF", Multiplier: 0.5, Valid: true},
		{Geography: "AMAZON", Season: "S1 2024", Variable: "B_PMF_X", Multiplier: 3, Valid: true},
		{Geography: "BOSE.COM", Season: "S1 2024", Variable: "B_PMF_X", Multiplier: 4, Valid: true},
	}
	rules := skiprules.NewSet(skiprules.Triple{Variable: "B_PMF", Season: "S1 2024", MapCode: "NA1"})

	scaled, log := scaling.Apply(in, scaling.Inputs{
		GeographyColumn: "GEOGRAPHY",
		SeasonColumn:    "SEASON",
		Variables: []columns.Variable{
			{Name: "A_PMF", PMFColumn: "A_PMF"},
			{Name: "B_PMF_X", PMFColumn: "B_PMF_X"},
		},
		Multipliers: multiplier.Build(entries),
		SkipRules:   rules,
		Rows:        scaling.Keys(in, "GEOGRAPHY", "SEASON", mapResolver{"BOSE.COM": "NA1"}),
		Marker:      "_PMF",
	})

	require.Equal(t, in.Columns, scaled.Columns)
	require.Equal(t, in.Len(), scaled.Len())

	want := [][]string{
		{" amazon ", "s1 2024", "20", "3", "x"},
		{"BOSE.COM", "S1 2024", "20", "2", "y"},
		{"BOSE.COM", "S2 2024", "15", "3", "z"},
	}
	if diff := cmp.Diff(want, scaled.Rows); diff != "" {
		t.Errorf("scaled rows mismatch (-want +got):\n%s", diff)
	}

	// Column-major emission: all A_PMF decisions precede B_PMF_X ones.
	require.Len(t, log.Multiplied, 3)
	assert.Equal(t, []string{"A_PMF", "A_PMF", "B_PMF_X"}, []string{
		log.Multiplied[0].Variable, log.Multiplied[1].Variable, log.Multiplied[2].Variable,
	})
	assert.Equal(t, []int{0, 2, 0}, []int{log.Multiplied[0].Row, log.Multiplied[1].Row, log.Multiplied[2].Row})
	assert.Equal(t, "AMAZON", log.Multiplied[0].Geography)
	assert.Equal(t, "S1 2024", log.Multiplied[0].Season)

	require.Len(t, log.Skipped, 1)
	assert.Equal(t, audit.SkippedRecord{Row: 1, Geography: "BOSE.COM", Season: "S1 2024", MapCode: "NA1", Variable: "B_PMF_X"}, log.Skipped[0])
}
