// Package multiplier builds the (geography, season, variable) → multiplier
// lookup from the wide PMF sheet.
package multiplier

import (
	"github.com/agentstation/pmfscale/pkg/columns"
	"github.com/agentstation/pmfscale/pkg/normalize"
	"github.com/agentstation/pmfscale/pkg/table"
)

// Entry is one long-form PMF cell.
type Entry struct {
	Geography  string
	Season     string
	Variable   string
	Multiplier float64
	// Valid is false when the cell was blank or not a number.
	Valid bool
}

// Melt reshapes the wide PMF table to long form: one entry per row and
// shared variable, in row order then variable order. Geography and season
// are trimmed and upper-cased; the variable is the upper-cased fact-table name.
func Melt(pmf *table.Table, geoColumn, seasonColumn string, variables []columns.Variable) []Entry {
	entries := make([]Entry, 0, pmf.Len()*len(variables))
	for r := range pmf.Rows {
		geo := normalize.Key(pmf.Value(r, geoColumn))
		season := normalize.Key(pmf.Value(r, seasonColumn))
		for _, v := range variables {
			value, ok := table.ParseNumber(pmf.Value(r, v.PMFColumn))
			entries = append(entries, Entry{
				Geography:  geo,
				Season:     season,
				Variable:   v.Key(),
				Multiplier: value,
				Valid:      ok,
			})
		}
	}
	return entries
}

// Key addresses one multiplier.
type Key struct {
	Geography string // normalize.Geography form
	Season    string // normalize.Key form
	Variable  string // normalize.Key form
}

// NewKey builds a Key, normalizing each part.
func NewKey(geography, season, variable string) Key {
	return Key{
		Geography: normalize.Geography(geography),
		Season:    normalize.Key(season),
		Variable:  normalize.Key(variable),
	}
}

// Index is a read-only multiplier lookup.
type Index struct {
	values     map[Key]float64
	overwrites int
	dropped    int
}

// Build indexes valid entries. When two entries share a key after
// normalization, the later one wins.
func Build(entries []Entry) *Index {
	idx := &Index{values: make(map[Key]float64, len(entries))}
	for _, e := range entries {
		if !e.Valid {
			idx.dropped++
			continue
		}
		k := NewKey(e.Geography, e.Season, e.Variable)
		if _, exists := idx.values[k]; exists {
			idx.overwrites++
		}
		idx.values[k] = e.Multiplier
	}
	return idx
}

// Lookup returns the multiplier for a raw geography, season and variable.
func (idx *Index) Lookup(geography, season, variable string) (float64, bool) {
	return idx.Get(NewKey(geography, season, variable))
}

// Get returns the multiplier for an already normalized key.
func (idx *Index) Get(k Key) (float64, bool) {
	v, ok := idx.values[k]
	return v, ok
}

// Len returns the number of indexed multipliers.
func (idx *Index) Len() int {
	return len(idx.values)
}

// Overwrites counts entries that replaced an earlier entry with the same key.
func (idx *Index) Overwrites() int {
	return idx.overwrites
}

// Dropped counts blank or non-numeric entries left out of the index.
func (idx *Index) Dropped() int {
	return idx.dropped
}
