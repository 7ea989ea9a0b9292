package columns_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/pmfscale/pkg/columns"
	"github.com/agentstation/pmfscale/pkg/constants"
	pkgerrors "github.com/agentstation/pmfscale/pkg/errors"
)

func TestFind(t *testing.T) {
	headers := []string{"Market", " Period_Definition ", "geography", "Season"}

	t.Run("header order wins", func(t *testing.T) {
		got, ok := columns.Find(headers, constants.FactSeasonColumns()...)
		require.True(t, ok)
		assert.Equal(t, " Period_Definition ", got)
	})

	t.Run("case insensitive", func(t *testing.T) {
		got, ok := columns.Find(headers, constants.ColumnGeography)
		require.True(t, ok)
		assert.Equal(t, "geography", got)
	})

	t.Run("absent", func(t *testing.T) {
		_, ok := columns.Find(headers, "MAP")
		assert.False(t, ok)
	})
}

func TestPrefer(t *testing.T) {
	headers := []string{"PERIOD MAPPING", "GEOGRAPHY", "SEASON"}
	got, ok := columns.Prefer(headers, constants.PMFSeasonColumns()...)
	require.True(t, ok)
	assert.Equal(t, "SEASON", got)

	got, ok = columns.Prefer([]string{"Period Mapping"}, constants.PMFSeasonColumns()...)
	require.True(t, ok)
	assert.Equal(t, "Period Mapping", got)
}

func TestRequire(t *testing.T) {
	_, err := columns.Require(constants.SourceADS, "Season", []string{"GEOGRAPHY", "X_PMF"}, constants.FactSeasonColumns()...)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsMissingColumn(err))
	assert.Contains(t, err.Error(), "ADS")
	assert.Contains(t, err.Error(), "Season")

	got, err := columns.Require(constants.SourceADS, "Geography", []string{"Geography"}, constants.ColumnGeography)
	require.NoError(t, err)
	assert.Equal(t, "Geography", got)

	_, err = columns.RequirePreferred(constants.SourcePMF, "Season", []string{"GEOGRAPHY"}, constants.PMFSeasonColumns()...)
	assert.True(t, pkgerrors.IsMissingColumn(err))
}

func TestTrimHeaders(t *testing.T) {
	assert.Equal(t, []string{"A", "B C", ""}, columns.TrimHeaders([]string{" A", "B C\t", "  "}))
}

func TestSharedVariables(t *testing.T) {
	fact := []string{"GEOGRAPHY", "SEASON", "Sales_PMF", "UNITS_PMF", "ONLY_ADS_PMF", "PRICE"}
	pmf := []string{"GEOGRAPHY", "SEASON", "UNITS_PMF", "SALES_PMF", "ONLY_PMF_PMF", "PRICE"}

	got := columns.SharedVariables(fact, pmf, constants.PMFMarker)
	assert.Equal(t, []columns.Variable{
		{Name: "Sales_PMF", PMFColumn: "SALES_PMF"},
		{Name: "UNITS_PMF", PMFColumn: "UNITS_PMF"},
	}, got)
	assert.Equal(t, "SALES_PMF", got[0].Key())
}

func TestSharedVariablesMarkerCaseInsensitive(t *testing.T) {
	got := columns.SharedVariables([]string{"tv_pmf_spend"}, []string{"TV_PMF_SPEND"}, "_pmf")
	require.Len(t, got, 1)
	assert.Equal(t, "tv_pmf_spend", got[0].Name)

	assert.Empty(t, columns.SharedVariables([]string{"PRICE"}, []string{"PRICE"}, constants.PMFMarker))
}
