// Package hints provides actionable user guidance after a scaling run.
package hints

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/agentstation/pmfscale/pkg/constants"
	"github.com/agentstation/pmfscale/pkg/reconcile"
)

// Hint represents actionable user guidance.
type Hint struct {
	Message string   // Human-readable guidance message
	Command string   // Optional specific command to run
	Tags    []string // For context-aware filtering
}

// New creates a new hint with the given message.
func New(message string) *Hint {
	return &Hint{Message: message}
}

// NewCommand creates a new hint with a specific command.
func NewCommand(message, command string) *Hint {
	return &Hint{Message: message, Command: command}
}

// WithTags adds tags to the hint for context-aware filtering.
func (h *Hint) WithTags(tags ...string) *Hint {
	h.Tags = append(h.Tags, tags...)
	return h
}

// HasTag checks if the hint has a specific tag.
func (h *Hint) HasTag(tag string) bool {
	for _, t := range h.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// String returns a string representation of the hint.
func (h *Hint) String() string {
	s := "Tip: " + h.Message
	if h.Command != "" {
		s += "\n   Run: " + h.Command
	}
	return s
}

// Tags used by ForResult.
const (
	TagSkipRules   = "skip-rules"
	TagMap         = "map"
	TagMultipliers = "multipliers"
)

// Inputs names the files of a run, for hints that point back at them.
type Inputs struct {
	ADS  string
	PMF  string
	Spec string
}

// ForResult derives hints from the statistics of a finished run.
func ForResult(result *reconcile.Result, in Inputs) []*Hint {
	if result == nil {
		return nil
	}
	st := result.Metadata.Stats
	spec := filepath.Base(in.Spec)

	var hints []*Hint
	if st.Variables == 0 {
		hints = append(hints, NewCommand(
			fmt.Sprintf("No %s columns are shared by the ADS and PMF files, so nothing was scaled.", constants.PMFMarker),
			fmt.Sprintf("pmfscale inspect %s %s", in.ADS, in.PMF),
		).WithTags(TagMultipliers))
	}
	if missing := st.SkipRuleSheets.MissingCodes; len(missing) > 0 {
		hints = append(hints, New(fmt.Sprintf(
			"Add sheets named %s to %s, with %s and %s columns, to skip cells for those map codes.",
			strings.Join(missing, ", "), spec, constants.ColumnVariable, constants.ColumnContribution,
		)).WithTags(TagSkipRules))
	}
	if st.RowsUnmapped > 0 {
		hints = append(hints, New(fmt.Sprintf(
			"%d rows have no map code; add their geographies to the %s sheet of %s if they need skip rules.",
			st.RowsUnmapped, constants.MapSheet, spec,
		)).WithTags(TagMap))
	}
	if st.MultipliersDropped > 0 {
		hints = append(hints, New(fmt.Sprintf(
			"%d PMF cells were not numbers and were ignored; cells that needed them kept their values.",
			st.MultipliersDropped,
		)).WithTags(TagMultipliers))
	}
	return hints
}
