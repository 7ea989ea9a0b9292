package sheets

import (
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/agentstation/pmfscale/pkg/errors"
)

// Sheet is one named sheet to write. Cells keep their Go type, so numbers
// are stored as numbers rather than text.
type Sheet struct {
	Name    string
	Columns []string
	Rows    [][]any
}

// WriteWorkbook writes the sheets, in order, as one .xlsx workbook.
func WriteWorkbook(w io.Writer, sheets ...Sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	defaultSheet := f.GetSheetName(0)
	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, s.Name); err != nil {
				return errors.WrapSheet("workbook", s.Name, err)
			}
		} else if _, err := f.NewSheet(s.Name); err != nil {
			return errors.WrapSheet("workbook", s.Name, err)
		}

		if err := writeRow(f, s.Name, 1, toAny(s.Columns)); err != nil {
			return err
		}
		for r, row := range s.Rows {
			if err := writeRow(f, s.Name, r+2, row); err != nil {
				return err
			}
		}
	}

	if err := f.Write(w); err != nil {
		return errors.WrapIO("write", "workbook", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, cells []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return errors.WrapSheet("workbook", sheet, err)
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return errors.WrapSheet("workbook", sheet, err)
	}
	return nil
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
