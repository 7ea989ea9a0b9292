// Package columns locates the logical fields each input table must carry
// (geography, season, map code, ...) among the table's actual headers. Header
// matching ignores case and surrounding whitespace.
package columns

import (
	"strings"

	"github.com/agentstation/pmfscale/pkg/errors"
	"github.com/agentstation/pmfscale/pkg/normalize"
)

// Find returns the first header, in header order, that matches any of the
// candidates.
func Find(headers []string, candidates ...string) (string, bool) {
	want := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		want[normalize.Key(c)] = struct{}{}
	}
	for _, h := range headers {
		if _, ok := want[normalize.Key(h)]; ok {
			return h, true
		}
	}
	return "", false
}

// Prefer returns the header matching the earliest candidate, so that a
// SEASON column wins over a PERIOD MAPPING column wherever they appear.
func Prefer(headers []string, candidates ...string) (string, bool) {
	for _, c := range candidates {
		if h, ok := Find(headers, c); ok {
			return h, true
		}
	}
	return "", false
}

// Require is Find for a mandatory field. An unresolved field yields a
// *errors.MissingColumnError naming the source table.
func Require(source, field string, headers []string, candidates ...string) (string, error) {
	if h, ok := Find(headers, candidates...); ok {
		return h, nil
	}
	return "", errors.NewMissingColumnError(source, field, candidates...)
}

// RequirePreferred is Prefer for a mandatory field.
func RequirePreferred(source, field string, headers []string, candidates ...string) (string, error) {
	if h, ok := Prefer(headers, candidates...); ok {
		return h, nil
	}
	return "", errors.NewMissingColumnError(source, field, candidates...)
}

// TrimHeaders strips incidental whitespace around header names.
func TrimHeaders(headers []string) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		out[i] = strings.TrimSpace(h)
	}
	return out
}

// Variable is a multiplier variable present in both the fact table and the
// multiplier table.
type Variable struct {
	// Name is the column name as spelled in the fact table.
	Name string
	// PMFColumn is the matching column name as spelled in the multiplier table.
	PMFColumn string
}

// Key is the upper-cased variable name used to probe the multiplier index.
func (v Variable) Key() string {
	return normalize.Key(v.Name)
}

// SharedVariables returns the fact-table columns whose names contain the
// marker and that also appear, case-insensitively, among the multiplier
// table's marker columns. The result follows fact-table column order.
func SharedVariables(factHeaders, pmfHeaders []string, marker string) []Variable {
	marker = normalize.Key(marker)

	pmfByKey := make(map[string]string)
	for _, h := range pmfHeaders {
		key := normalize.Key(h)
		if !strings.Contains(key, marker) {
			continue
		}
		if _, seen := pmfByKey[key]; !seen {
			pmfByKey[key] = h
		}
	}

	var shared []Variable
	for _, h := range factHeaders {
		key := normalize.Key(h)
		if !strings.Contains(key, marker) {
			continue
		}
		if pmfCol, ok := pmfByKey[key]; ok {
			shared = append(shared, Variable{Name: h, PMFColumn: pmfCol})
		}
	}
	return shared
}
