package sheets

import (
	"io"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/agentstation/pmfscale/pkg/errors"
	"github.com/agentstation/pmfscale/pkg/table"
)

// Compile-time interface check.
var _ WorkbookCloser = (*XLSX)(nil)

// XLSX is a Workbook backed by an excelize file.
type XLSX struct {
	name   string
	file   *excelize.File
	sheets map[string]struct{}
}

// OpenXLSX opens an .xlsx file from disk. Close releases it.
func OpenXLSX(path string) (*XLSX, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.WrapParse("xlsx", path, err)
	}
	return newXLSX(filepath.Base(path), f), nil
}

// ReadXLSX opens an .xlsx workbook from a reader, e.g. an uploaded file.
func ReadXLSX(name string, r io.Reader) (*XLSX, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.WrapParse("xlsx", name, err)
	}
	return newXLSX(name, f), nil
}

func newXLSX(name string, f *excelize.File) *XLSX {
	x := &XLSX{name: name, file: f, sheets: make(map[string]struct{})}
	for _, s := range f.GetSheetList() {
		x.sheets[s] = struct{}{}
	}
	return x
}

// Name returns the workbook file name.
func (x *XLSX) Name() string {
	return x.name
}

// SheetNames lists sheets in workbook order.
func (x *XLSX) SheetNames() []string {
	return x.file.GetSheetList()
}

// HasSheet reports whether the sheet exists. Sheet names are case-sensitive.
func (x *XLSX) HasSheet(name string) bool {
	_, ok := x.sheets[name]
	return ok
}

// ReadSheet reads raw cell values, so numbers come back unformatted.
func (x *XLSX) ReadSheet(name string) (*table.Table, error) {
	if !x.HasSheet(name) {
		return nil, errors.NewNotFoundError("sheet", name)
	}
	rows, err := x.file.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.WrapSheet(x.name, name, err)
	}
	return table.FromRecords(name, trimTrailingBlank(rows)), nil
}

// trimTrailingBlank drops the empty rows excelize can report after the last
// row holding data. Interior blank rows are kept.
func trimTrailingBlank(rows [][]string) [][]string {
	end := len(rows)
	for end > 1 && table.IsBlank(rows[end-1]) {
		end--
	}
	return rows[:end]
}

// Close releases the underlying file.
func (x *XLSX) Close() error {
	return x.file.Close()
}
