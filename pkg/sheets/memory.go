package sheets

import (
	"github.com/agentstation/pmfscale/pkg/errors"
	"github.com/agentstation/pmfscale/pkg/table"
)

// Compile-time interface check.
var _ WorkbookCloser = (*Memory)(nil)

// Memory is a Workbook over tables already held in memory. Each table's Name
// is its sheet name.
type Memory struct {
	name   string
	order  []string
	tables map[string]*table.Table
}

// NewMemory creates an in-memory workbook from tables, in sheet order.
func NewMemory(name string, tables ...*table.Table) *Memory {
	m := &Memory{name: name, tables: make(map[string]*table.Table, len(tables))}
	for _, t := range tables {
		m.Add(t)
	}
	return m
}

// Add appends or replaces a sheet.
func (m *Memory) Add(t *table.Table) {
	if _, ok := m.tables[t.Name]; !ok {
		m.order = append(m.order, t.Name)
	}
	m.tables[t.Name] = t
}

// Name returns the workbook name.
func (m *Memory) Name() string {
	return m.name
}

// SheetNames lists sheets in insertion order.
func (m *Memory) SheetNames() []string {
	return append([]string(nil), m.order...)
}

// HasSheet reports whether the sheet exists.
func (m *Memory) HasSheet(name string) bool {
	_, ok := m.tables[name]
	return ok
}

// ReadSheet returns a copy of the sheet so callers may mutate it.
func (m *Memory) ReadSheet(name string) (*table.Table, error) {
	t, ok := m.tables[name]
	if !ok {
		return nil, errors.NewNotFoundError("sheet", name)
	}
	return t.Clone(), nil
}

// Close is a no-op.
func (m *Memory) Close() error {
	return nil
}
