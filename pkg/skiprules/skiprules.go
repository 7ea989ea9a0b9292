// Package skiprules builds the set of (variable, season, map code) triples
// whose fact-table cells must be left untouched.
//
// Rules live in the granular spec workbook: one sheet per map code, named
// exactly after the code, with VARIABLE and CONTRIBUTION columns among its
// first four. Only rows whose contribution is a season token ("S1 2024")
// become rules; anything else on the sheet is ignored.
package skiprules

import (
	"context"
	"regexp"
	"sort"

	"github.com/agentstation/pmfscale/pkg/columns"
	"github.com/agentstation/pmfscale/pkg/constants"
	"github.com/agentstation/pmfscale/pkg/logging"
	"github.com/agentstation/pmfscale/pkg/normalize"
	"github.com/agentstation/pmfscale/pkg/sheets"
	"github.com/agentstation/pmfscale/pkg/table"
)

// SeasonPattern admits trimmed, upper-cased season tokens.
var SeasonPattern = regexp.MustCompile(constants.SeasonTokenPattern)

// Triple is one skip rule.
type Triple struct {
	Variable string // base tag, e.g. "TV_PMF"
	Season   string
	MapCode  string
}

// Set is a read-only collection of skip rules.
type Set struct {
	triples map[Triple]struct{}
}

// NewSet builds a set from explicit triples. Parts are trimmed and upper-cased.
func NewSet(triples ...Triple) Set {
	s := Set{triples: make(map[Triple]struct{}, len(triples))}
	for _, t := range triples {
		s.add(t)
	}
	return s
}

func (s Set) add(t Triple) {
	s.triples[Triple{
		Variable: normalize.Key(t.Variable),
		Season:   normalize.Key(t.Season),
		MapCode:  normalize.Key(t.MapCode),
	}] = struct{}{}
}

// Contains reports whether the triple is a rule. The zero Set contains nothing.
func (s Set) Contains(variable, season, mapCode string) bool {
	_, ok := s.triples[Triple{
		Variable: normalize.Key(variable),
		Season:   normalize.Key(season),
		MapCode:  normalize.Key(mapCode),
	}]
	return ok
}

// Len returns the number of distinct rules.
func (s Set) Len() int {
	return len(s.triples)
}

// Triples returns the rules sorted by map code, variable, then season.
func (s Set) Triples() []Triple {
	out := make([]Triple, 0, len(s.triples))
	for t := range s.triples {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.MapCode != b.MapCode {
			return a.MapCode < b.MapCode
		}
		if a.Variable != b.Variable {
			return a.Variable < b.Variable
		}
		return a.Season < b.Season
	})
	return out
}

// Stats describes what Build read and ignored.
type Stats struct {
	SheetsRead     int `json:"sheets_read" yaml:"sheets_read"`
	SheetsMissing  int `json:"sheets_missing" yaml:"sheets_missing"`
	SheetsRejected int `json:"sheets_rejected" yaml:"sheets_rejected"`
	RowsAdmitted   int `json:"rows_admitted" yaml:"rows_admitted"`
	RowsRejected   int `json:"rows_rejected" yaml:"rows_rejected"`

	// MissingCodes lists map codes that had no sheet, in code order.
	MissingCodes []string `json:"missing_codes,omitempty" yaml:"missing_codes,omitempty"`
}

// Build reads the per-map-code sheets of wb and collects their rules. Codes
// are visited once each, in the order given; a code without a sheet, or a
// sheet without the required columns, contributes nothing. Errors are only
// returned when a sheet that exists cannot be read. Ignored sheets are
// logged through the context logger.
func Build(ctx context.Context, wb sheets.Workbook, codes []string, marker string) (Set, Stats, error) {
	ctx = logging.WithField(ctx, "workbook", wb.Name())

	set := NewSet()
	var stats Stats
	seen := make(map[string]struct{}, len(codes))

	for _, code := range codes {
		if code == "" {
			continue
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		logger := logging.FromContext(logging.WithSheet(ctx, code))

		if !wb.HasSheet(code) {
			stats.SheetsMissing++
			stats.MissingCodes = append(stats.MissingCodes, code)
			logger.Debug().Msg("no skip-rule sheet for map code")
			continue
		}

		sheet, err := wb.ReadSheet(code)
		if err != nil {
			return Set{}, stats, err
		}
		stats.SheetsRead++

		admitted, rejected, ok := collect(set, sheet, code, marker)
		if !ok {
			stats.SheetsRejected++
			logger.Debug().Msg("skip-rule sheet lacks VARIABLE or CONTRIBUTION column")
			continue
		}
		stats.RowsAdmitted += admitted
		stats.RowsRejected += rejected
		logger.Debug().
			Int("admitted", admitted).
			Int("rejected", rejected).
			Msg("read skip-rule sheet")
	}

	return set, stats, nil
}

// collect adds the admitted rows of one sheet to set.
func collect(set Set, sheet *table.Table, code, marker string) (admitted, rejected int, ok bool) {
	sheet = sheet.Head(constants.SkipRuleColumnLimit)

	varCol, hasVar := columns.Find(sheet.Columns, constants.ColumnVariable)
	contribCol, hasContrib := columns.Find(sheet.Columns, constants.ColumnContribution)
	if !hasVar || !hasContrib {
		return 0, 0, false
	}

	for r := range sheet.Rows {
		variable := normalize.Key(sheet.Value(r, varCol))
		season := normalize.Key(sheet.Value(r, contribCol))
		if variable == "" || !SeasonPattern.MatchString(season) {
			rejected++
			continue
		}
		set.add(Triple{
			Variable: variable + marker,
			Season:   season,
			MapCode:  code,
		})
		admitted++
	}
	return admitted, rejected, true
}
