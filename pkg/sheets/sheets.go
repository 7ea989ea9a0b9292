// Package sheets reads and writes the spreadsheet files pmfscale works on.
//
// Input workbooks are exposed through the Workbook interface so the engine
// never touches a file format directly: XLSX files are read with excelize,
// CSV files with encoding/csv, and tests use the in-memory Memory workbook.
package sheets

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/agentstation/pmfscale/pkg/errors"
	"github.com/agentstation/pmfscale/pkg/table"
)

// Workbook is a named collection of sheets, each readable as a table of
// string cells whose first row is the header.
type Workbook interface {
	// Name identifies the workbook in errors and logs, usually its file name.
	Name() string

	// SheetNames lists sheets in workbook order.
	SheetNames() []string

	// HasSheet reports whether a sheet with exactly this name exists.
	HasSheet(name string) bool

	// ReadSheet reads one sheet. A missing sheet is an errors.NotFoundError.
	ReadSheet(name string) (*table.Table, error)
}

// WorkbookCloser is a Workbook backed by an open file.
type WorkbookCloser interface {
	Workbook
	io.Closer
}

// Kind is a supported input file type.
type Kind string

// Supported kinds.
const (
	KindCSV  Kind = "csv"
	KindXLSX Kind = "xlsx"
)

// DetectKind maps a file name to its kind by extension.
func DetectKind(path string) (Kind, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return KindCSV, nil
	case ".xlsx", ".xlsm":
		return KindXLSX, nil
	default:
		return "", &errors.ValidationError{
			Field:   "file",
			Value:   path,
			Message: "expected a .csv or .xlsx file: " + errors.ErrUnsupportedFormat.Error(),
		}
	}
}

// ReadFactTable reads the fact table from a CSV file or from the first sheet
// of an XLSX file. Header names are returned as written.
func ReadFactTable(path string) (*table.Table, error) {
	kind, err := DetectKind(path)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if kind == KindCSV {
		return ReadCSVFile(path, name)
	}

	wb, err := OpenXLSX(path)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	names := wb.SheetNames()
	if len(names) == 0 {
		return nil, errors.NewNotFoundError("sheet", "first sheet of "+wb.Name())
	}
	t, err := wb.ReadSheet(names[0])
	if err != nil {
		return nil, err
	}
	t.Name = name
	return t, nil
}

// Open opens any supported file as a workbook. A CSV file becomes a
// workbook with a single sheet named after the file.
func Open(path string) (WorkbookCloser, error) {
	kind, err := DetectKind(path)
	if err != nil {
		return nil, err
	}
	if kind == KindXLSX {
		return OpenXLSX(path)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	t, err := ReadCSVFile(path, name)
	if err != nil {
		return nil, err
	}
	return NewMemory(filepath.Base(path), t), nil
}
