// Package save holds the options that control where and how a scaling run
// writes its outputs.
package save

import (
	"time"
)

// Format is the encoding of the optional run summary file.
type Format int

// Format constants.
const (
	FormatNone Format = iota
	FormatJSON
	FormatYAML
)

// IsValid checks if the format is valid.
func (f Format) IsValid() bool {
	switch f {
	case FormatNone, FormatJSON, FormatYAML:
		return true
	default:
		return false
	}
}

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case FormatNone:
		return "none"
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	}
	return "unknown"
}

// Ext returns the file extension for the format, including the dot.
func (f Format) Ext() string {
	switch f {
	case FormatJSON:
		return ".json"
	case FormatYAML:
		return ".yaml"
	}
	return ""
}

// ParseFormat parses a summary format name. The empty string is FormatNone.
func ParseFormat(s string) (Format, bool) {
	switch s {
	case "", "none":
		return FormatNone, true
	case "json":
		return FormatJSON, true
	case "yaml", "yml":
		return FormatYAML, true
	}
	return FormatNone, false
}

// Options is the configuration for save.
type Options struct {
	dir     string
	date    time.Time
	report  bool
	summary Format
}

// Dir returns the output directory.
func (s *Options) Dir() string {
	return s.dir
}

// Date returns the run date embedded in file names. Zero means today.
func (s *Options) Date() time.Time {
	return s.date
}

// Report reports whether a Markdown report is written.
func (s *Options) Report() bool {
	return s.report
}

// Summary returns the format of the summary file, FormatNone for no file.
func (s *Options) Summary() Format {
	return s.summary
}

// Defaults returns the default save options: current directory, today's
// date, scaled table and audit workbook only.
func Defaults() *Options {
	return &Options{
		dir:     ".",
		summary: FormatNone,
	}
}

// Apply applies the given options to the save options.
func (s *Options) Apply(opts ...Option) Options {
	for _, opt := range opts {
		opt(s)
	}
	return *s
}

// Option is a function that configures save options.
type Option func(*Options)

// WithDir sets the output directory. It is created if missing.
func WithDir(dir string) Option {
	return func(s *Options) {
		if dir != "" {
			s.dir = dir
		}
	}
}

// WithDate fixes the date embedded in output file names.
func WithDate(t time.Time) Option {
	return func(s *Options) {
		s.date = t
	}
}

// WithReport enables the Markdown run report.
func WithReport(enabled bool) Option {
	return func(s *Options) {
		s.report = enabled
	}
}

// WithSummary writes a machine-readable run summary in the given format.
func WithSummary(f Format) Option {
	return func(s *Options) {
		s.summary = f
	}
}
