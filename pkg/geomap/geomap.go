// Package geomap resolves fact-table geographies to the map codes that name
// their skip-rule sheets.
package geomap

import (
	"github.com/agentstation/pmfscale/pkg/columns"
	"github.com/agentstation/pmfscale/pkg/constants"
	"github.com/agentstation/pmfscale/pkg/normalize"
	"github.com/agentstation/pmfscale/pkg/table"
)

// Resolver maps normalized geographies to map codes.
type Resolver struct {
	codes map[string]string
	order []string
}

// Build reads the MAP sheet. Both the GEOGRAPHY and MAP columns are required.
// When a geography appears more than once, its last row wins.
func Build(mapSheet *table.Table) (*Resolver, error) {
	geoCol, err := columns.Require(constants.SourceMap, "Geography", mapSheet.Columns, constants.ColumnGeography)
	if err != nil {
		return nil, err
	}
	mapCol, err := columns.Require(constants.SourceMap, "Map", mapSheet.Columns, constants.ColumnMap)
	if err != nil {
		return nil, err
	}

	res := &Resolver{codes: make(map[string]string, mapSheet.Len())}
	seen := make(map[string]struct{})
	for r := range mapSheet.Rows {
		code := normalize.Key(mapSheet.Value(r, mapCol))
		res.codes[normalize.Geography(mapSheet.Value(r, geoCol))] = code
		if code == "" {
			continue
		}
		if _, ok := seen[code]; !ok {
			seen[code] = struct{}{}
			res.order = append(res.order, code)
		}
	}
	return res, nil
}

// Resolve returns the map code for a raw geography. Geographies without an
// entry, or whose entry is blank, have no map code.
func (r *Resolver) Resolve(geography string) (string, bool) {
	code, ok := r.codes[normalize.Geography(geography)]
	if !ok || code == "" {
		return "", false
	}
	return code, true
}

// Codes returns the distinct non-blank map codes in first-appearance order.
func (r *Resolver) Codes() []string {
	return append([]string(nil), r.order...)
}

// Len returns the number of mapped geographies.
func (r *Resolver) Len() int {
	return len(r.codes)
}
