// Package appcontext provides the shared application context interface
// used by all commands. Commands depend on this interface rather than on
// the concrete App, so they can be tested with Mock.
package appcontext

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/pmfscale"
	"github.com/agentstation/pmfscale/pkg/save"
)

// Interface defines the application context interface that commands need.
// The App struct from cmd/pmfscale/app implements this interface.
type Interface interface {
	// Client returns the scaling client, creating it lazily if needed.
	Client() (pmfscale.Client, error)

	// Logger returns the configured logger instance.
	// Commands should use this for all logging operations.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (table, json, yaml).
	OutputFormat() string

	// SaveOptions returns the save options derived from configuration
	// (output directory, report and summary settings).
	SaveOptions() []save.Option

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
