// Package audit collects the per-cell decisions of a scaling run and lays
// them out as the two tables of the audit workbook.
package audit

import (
	"strconv"

	"github.com/agentstation/pmfscale/pkg/constants"
	"github.com/agentstation/pmfscale/pkg/table"
)

// SkippedColumns is the header of the Skipped table.
var SkippedColumns = []string{"Row", "Geo", "Season", "MAP", "Variable"}

// MultipliedColumns is the header of the Multiplied table.
var MultipliedColumns = []string{"Row", "Geo", "Season", "MAP", "Variable", "Original", "Multiplier", "Updated"}

// SkippedRecord is a cell left untouched because a skip rule matched.
type SkippedRecord struct {
	Row       int    `json:"row" yaml:"row"`
	Geography string `json:"geo" yaml:"geo"`
	Season    string `json:"season" yaml:"season"`
	MapCode   string `json:"map" yaml:"map"`
	Variable  string `json:"variable" yaml:"variable"`
}

// MultipliedRecord is a cell that was scaled.
type MultipliedRecord struct {
	Row        int     `json:"row" yaml:"row"`
	Geography  string  `json:"geo" yaml:"geo"`
	Season     string  `json:"season" yaml:"season"`
	MapCode    string  `json:"map" yaml:"map"`
	Variable   string  `json:"variable" yaml:"variable"`
	Original   float64 `json:"original" yaml:"original"`
	Multiplier float64 `json:"multiplier" yaml:"multiplier"`
	Updated    float64 `json:"updated" yaml:"updated"`
}

// Log holds records in the order they were emitted.
type Log struct {
	Skipped    []SkippedRecord
	Multiplied []MultipliedRecord
}

// NewLog creates an empty log.
func NewLog() *Log {
	return &Log{}
}

// AddSkipped appends a skipped record.
func (l *Log) AddSkipped(rec SkippedRecord) {
	l.Skipped = append(l.Skipped, rec)
}

// AddMultiplied appends a multiplied record.
func (l *Log) AddMultiplied(rec MultipliedRecord) {
	l.Multiplied = append(l.Multiplied, rec)
}

// Len returns the total number of records.
func (l *Log) Len() int {
	return len(l.Skipped) + len(l.Multiplied)
}

// SkippedTable renders the skipped records as text cells.
func (l *Log) SkippedTable() *table.Table {
	t := table.New(constants.SkippedSheet, SkippedColumns)
	for _, rec := range l.Skipped {
		t.Append([]string{
			strconv.Itoa(rec.Row),
			rec.Geography,
			rec.Season,
			rec.MapCode,
			rec.Variable,
		})
	}
	return t
}

// MultipliedTable renders the multiplied records as text cells.
func (l *Log) MultipliedTable() *table.Table {
	t := table.New(constants.MultipliedSheet, MultipliedColumns)
	for _, rec := range l.Multiplied {
		t.Append([]string{
			strconv.Itoa(rec.Row),
			rec.Geography,
			rec.Season,
			rec.MapCode,
			rec.Variable,
			table.FormatNumber(rec.Original),
			table.FormatNumber(rec.Multiplier),
			table.FormatNumber(rec.Updated),
		})
	}
	return t
}
