package sheets_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/agentstation/pmfscale/pkg/errors"
	"github.com/agentstation/pmfscale/pkg/sheets"
	"github.com/agentstation/pmfscale/pkg/table"
)

func TestDetectKind(t *testing.T) {
	tests := []struct {
		path string
		want sheets.Kind
		err  bool
	}{
		{"ads.csv", sheets.KindCSV, false},
		{"ADS.CSV", sheets.KindCSV, false},
		{"pmf.xlsx", sheets.KindXLSX, false},
		{"macro.xlsm", sheets.KindXLSX, false},
		{"old.xls", "", true},
		{"noext", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := sheets.DetectKind(tt.path)
			if tt.err {
				require.Error(t, err)
				assert.True(t, pkgerrors.IsValidationError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadCSV(t *testing.T) {
	input := "\ufeffGeography,Season,COL_PMF\nBOSE.COM,S1 2024,100\n,,\n\"AMAZON, US\",S2 2024\n"
	tbl, err := sheets.ReadCSV("ads", strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"Geography", "Season", "COL_PMF"}, tbl.Columns)
	require.Equal(t, 3, tbl.Len())
	assert.Equal(t, []string{"", "", ""}, tbl.Rows[1])
	assert.Equal(t, "AMAZON, US", tbl.Value(2, "Geography"))
	assert.Equal(t, "", tbl.Value(2, "COL_PMF"))
}

func TestBlankRowsKeepPosition(t *testing.T) {
	t.Run("csv", func(t *testing.T) {
		input := "GEOGRAPHY,SEASON,COL_PMF\nA,S1 2024,1\n,,\nB,S1 2024,2\n"
		tbl, err := sheets.ReadCSV("ads", strings.NewReader(input))
		require.NoError(t, err)

		require.Equal(t, 3, tbl.Len())
		assert.True(t, table.IsBlank(tbl.Rows[1]))
		assert.Equal(t, "B", tbl.Value(2, "GEOGRAPHY"))
	})

	t.Run("xlsx", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, sheets.WriteWorkbook(&buf, sheets.Sheet{
			Name:    "ADS",
			Columns: []string{"GEOGRAPHY", "SEASON", "COL_PMF"},
			Rows: [][]any{
				{"A", "S1 2024", 1},
				{"", "", ""},
				{"B", "S1 2024", 2},
				{"", "", ""},
			},
		}))
		wb, err := sheets.ReadXLSX("ads.xlsx", &buf)
		require.NoError(t, err)
		defer wb.Close()

		tbl, err := wb.ReadSheet("ADS")
		require.NoError(t, err)
		require.Equal(t, 3, tbl.Len(), "interior blank row kept, trailing one trimmed")
		assert.Equal(t, []string{"", "", ""}, tbl.Rows[1])
		assert.Equal(t, "B", tbl.Value(2, "GEOGRAPHY"))
		assert.Equal(t, "2", tbl.Value(2, "COL_PMF"))
	})
}

func TestReadCSVMalformed(t *testing.T) {
	_, err := sheets.ReadCSV("bad", strings.NewReader("A,B\n\"unterminated,1\n"))
	require.Error(t, err)
	var parseErr *pkgerrors.ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestWriteCSV(t *testing.T) {
	tbl := table.FromRecords("scaled", [][]string{
		{"Geography", "COL_PMF"},
		{"BOSE, INC", "150"},
	})
	var buf bytes.Buffer
	require.NoError(t, sheets.WriteCSV(&buf, tbl))
	assert.Equal(t, "Geography,COL_PMF\n\"BOSE, INC\",150\n", buf.String())
}

func TestWorkbookRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	err := sheets.WriteWorkbook(&buf,
		sheets.Sheet{
			Name:    "Skipped",
			Columns: []string{"Row", "Variable"},
			Rows:    [][]any{{0, "COL_PMF"}},
		},
		sheets.Sheet{
			Name:    "Multiplied",
			Columns: []string{"Row", "Original", "Multiplier", "Updated"},
			Rows:    [][]any{{1, 100.0, 1.5, 150.0}},
		},
	)
	require.NoError(t, err)

	wb, err := sheets.ReadXLSX("logs.xlsx", &buf)
	require.NoError(t, err)
	defer wb.Close()

	assert.Equal(t, "logs.xlsx", wb.Name())
	assert.Equal(t, []string{"Skipped", "Multiplied"}, wb.SheetNames())
	assert.True(t, wb.HasSheet("Multiplied"))
	assert.False(t, wb.HasSheet("multiplied"), "sheet names are case-sensitive")

	skipped, err := wb.ReadSheet("Skipped")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"0", "COL_PMF"}}, skipped.Rows)

	multiplied, err := wb.ReadSheet("Multiplied")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"1", "100", "1.5", "150"}}, multiplied.Rows)

	_, err = wb.ReadSheet("NA1")
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestReadFactTable(t *testing.T) {
	dir := t.TempDir()

	t.Run("csv", func(t *testing.T) {
		path := filepath.Join(dir, "ads.csv")
		require.NoError(t, os.WriteFile(path, []byte("GEOGRAPHY,SEASON\nX,S1 2024\n"), 0o644))

		tbl, err := sheets.ReadFactTable(path)
		require.NoError(t, err)
		assert.Equal(t, "ads", tbl.Name)
		assert.Equal(t, 1, tbl.Len())
	})

	t.Run("xlsx uses first sheet", func(t *testing.T) {
		path := filepath.Join(dir, "ads.xlsx")
		var buf bytes.Buffer
		require.NoError(t, sheets.WriteWorkbook(&buf,
			sheets.Sheet{Name: "Data", Columns: []string{"GEOGRAPHY", "SEASON", "COL_PMF"}, Rows: [][]any{{"BOSE.COM", "S1 2024", 100}}},
			sheets.Sheet{Name: "Other", Columns: []string{"IGNORED"}},
		))
		require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

		tbl, err := sheets.ReadFactTable(path)
		require.NoError(t, err)
		assert.Equal(t, "ads", tbl.Name)
		assert.Equal(t, "100", tbl.Value(0, "COL_PMF"))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := sheets.ReadFactTable(filepath.Join(dir, "absent.csv"))
		var ioErr *pkgerrors.IOError
		assert.ErrorAs(t, err, &ioErr)
	})

	t.Run("unsupported", func(t *testing.T) {
		_, err := sheets.ReadFactTable(filepath.Join(dir, "ads.txt"))
		assert.True(t, pkgerrors.IsValidationError(err))
	})
}

func TestMemoryWorkbook(t *testing.T) {
	pmf := table.FromRecords("PMF", [][]string{{"GEOGRAPHY"}, {"X"}})
	wb := sheets.NewMemory("pmf.xlsx", pmf)
	wb.Add(table.FromRecords("Notes", [][]string{{"A"}}))

	assert.Equal(t, []string{"PMF", "Notes"}, wb.SheetNames())

	got, err := wb.ReadSheet("PMF")
	require.NoError(t, err)
	got.Rows[0][0] = "mutated"
	again, err := wb.ReadSheet("PMF")
	require.NoError(t, err)
	assert.Equal(t, "X", again.Rows[0][0], "ReadSheet hands out copies")

	_, err = wb.ReadSheet("MAP")
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "granular.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("GEOGRAPHY,MAP\nBOSE.COM,NA1\n"), 0o644))
	wb, err := sheets.Open(csvPath)
	require.NoError(t, err)
	defer wb.Close()
	assert.Equal(t, "granular.csv", wb.Name())
	assert.Equal(t, []string{"granular"}, wb.SheetNames())

	xlsxPath := filepath.Join(dir, "pmf.xlsx")
	var buf bytes.Buffer
	require.NoError(t, sheets.WriteWorkbook(&buf, sheets.Sheet{Name: "PMF", Columns: []string{"GEOGRAPHY"}}))
	require.NoError(t, os.WriteFile(xlsxPath, buf.Bytes(), 0o644))
	xb, err := sheets.Open(xlsxPath)
	require.NoError(t, err)
	defer xb.Close()
	assert.True(t, xb.HasSheet("PMF"))

	_, err = sheets.Open(filepath.Join(dir, "notes.txt"))
	assert.True(t, pkgerrors.IsValidationError(err))
}
