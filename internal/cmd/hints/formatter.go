package hints

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/pmfscale/internal/cmd/output"
)

// hintData represents hint data for structured output.
type hintData struct {
	Message string   `json:"message" yaml:"message"`
	Command string   `json:"command,omitempty" yaml:"command,omitempty"`
	Tags    []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// Display writes hints in the given format. Nothing is written when there
// are no hints.
func Display(w io.Writer, format output.Format, hints []*Hint) error {
	if len(hints) == 0 {
		return nil
	}

	data := make([]hintData, len(hints))
	for i, h := range hints {
		data[i] = hintData{Message: h.Message, Command: h.Command, Tags: h.Tags}
	}
	wrapped := struct {
		Hints []hintData `json:"hints" yaml:"hints"`
	}{Hints: data}

	switch format {
	case output.FormatJSON:
		return json.NewEncoder(w).Encode(wrapped)
	case output.FormatYAML:
		b, err := yaml.MarshalWithOptions(wrapped, yaml.Indent(2), yaml.IndentSequence(false))
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	}

	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	for _, h := range hints {
		if _, err := fmt.Fprintln(w, h.String()); err != nil {
			return err
		}
	}
	return nil
}
