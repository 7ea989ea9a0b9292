package sheets

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/agentstation/pmfscale/pkg/errors"
	"github.com/agentstation/pmfscale/pkg/table"
)

const utf8BOM = "\ufeff"

// ReadCSV reads comma-separated records into a table. The first record is
// the header; rows may have differing lengths.
func ReadCSV(name string, r io.Reader) (*table.Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.WrapParse("csv", name, err)
	}
	if len(records) > 0 && len(records[0]) > 0 {
		records[0][0] = strings.TrimPrefix(records[0][0], utf8BOM)
	}
	return table.FromRecords(name, records), nil
}

// ReadCSVFile reads a CSV file from disk.
func ReadCSVFile(path, name string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	defer f.Close()
	return ReadCSV(name, f)
}

// WriteCSV writes the header and rows of t as CSV.
func WriteCSV(w io.Writer, t *table.Table) error {
	writer := csv.NewWriter(w)
	if err := writer.WriteAll(t.Records()); err != nil {
		return errors.WrapIO("write", t.Name, err)
	}
	return nil
}
