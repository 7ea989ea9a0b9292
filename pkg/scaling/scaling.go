// Package scaling applies multipliers and skip rules to every
// (row, variable) cell of the fact table.
package scaling

import (
	"strings"

	"github.com/agentstation/pmfscale/pkg/audit"
	"github.com/agentstation/pmfscale/pkg/columns"
	"github.com/agentstation/pmfscale/pkg/multiplier"
	"github.com/agentstation/pmfscale/pkg/normalize"
	"github.com/agentstation/pmfscale/pkg/skiprules"
	"github.com/agentstation/pmfscale/pkg/table"
)

// BaseTag is the skip-rule tag of a column: the upper-cased name cut right
// after the first marker, or the whole upper-cased name if there is none.
// "TV_PMF_SPEND" has base tag "TV_PMF".
func BaseTag(column, marker string) string {
	name := normalize.Upper(column)
	marker = normalize.Upper(marker)
	if i := strings.Index(name, marker); i >= 0 {
		return name[:i+len(marker)]
	}
	return name
}

// RowKey is the identity of one fact-table row, computed once up front.
type RowKey struct {
	Geography string // raw cell value
	Season    string // raw cell value
	MapCode   string
	HasMap    bool
}

// Inputs carries everything Apply needs besides the fact table.
type Inputs struct {
	GeographyColumn string
	SeasonColumn    string
	Variables       []columns.Variable
	Multipliers     *multiplier.Index
	SkipRules       skiprules.Set
	// Rows holds one key per fact-table row, in row order. When its length
	// does not match the table, keys are recomputed with no map codes.
	Rows   []RowKey
	Marker string
}

// Apply returns a scaled copy of fact and the audit log of every decision.
//
// Columns are visited in variable order and rows in row order within each
// column. A cell whose (base tag, season, map code) is a skip rule is left
// as is and logged as skipped. Otherwise, if a multiplier exists for its
// (geography, season, variable) and the cell is numeric, it is replaced by
// the product and logged as multiplied. Every other cell is left alone
// without a record.
func Apply(fact *table.Table, in Inputs) (*table.Table, *audit.Log) {
	out := fact.Clone()
	log := audit.NewLog()

	keys := in.Rows
	if len(keys) != fact.Len() {
		keys = Keys(fact, in.GeographyColumn, in.SeasonColumn, nil)
	}

	for _, v := range in.Variables {
		col := out.Index(v.Name)
		if col < 0 {
			continue
		}
		tag := BaseTag(v.Name, in.Marker)
		variable := v.Key()

		for r, row := range out.Rows {
			key := keys[r]
			geo := normalize.Key(key.Geography)
			season := normalize.Key(key.Season)

			if key.HasMap && in.SkipRules.Contains(tag, season, key.MapCode) {
				log.AddSkipped(audit.SkippedRecord{
					Row:       r,
					Geography: geo,
					Season:    season,
					MapCode:   key.MapCode,
					Variable:  v.Name,
				})
				continue
			}

			if in.Multipliers == nil {
				continue
			}
			m, ok := in.Multipliers.Lookup(key.Geography, season, variable)
			if !ok {
				continue
			}
			original, ok := table.ParseNumber(row[col])
			if !ok {
				continue
			}

			updated := original * m
			row[col] = table.FormatNumber(updated)
			log.AddMultiplied(audit.MultipliedRecord{
				Row:        r,
				Geography:  geo,
				Season:     season,
				MapCode:    key.MapCode,
				Variable:   v.Name,
				Original:   original,
				Multiplier: m,
				Updated:    updated,
			})
		}
	}

	return out, log
}

// Resolver supplies the map code of a geography.
type Resolver interface {
	Resolve(geography string) (string, bool)
}

// Keys computes the RowKey of every fact-table row. A nil resolver leaves
// every row without a map code.
func Keys(fact *table.Table, geoColumn, seasonColumn string, resolver Resolver) []RowKey {
	keys := make([]RowKey, fact.Len())
	for r := range fact.Rows {
		k := RowKey{
			Geography: fact.Value(r, geoColumn),
			Season:    fact.Value(r, seasonColumn),
		}
		if resolver != nil {
			k.MapCode, k.HasMap = resolver.Resolve(k.Geography)
		}
		keys[r] = k
	}
	return keys
}
