package appcontext

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/pmfscale"
	"github.com/agentstation/pmfscale/pkg/save"
)

// Mock provides a mock implementation of Interface for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default/zero value.
type Mock struct {
	ClientFunc       func() (pmfscale.Client, error)
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	SaveOptionsFunc  func() []save.Option
	VersionFunc      func() string
	CommitFunc       func() string
	DateFunc         func() string
	BuiltByFunc      func() string
}

// Client returns a client using the mock function or a default client.
func (m *Mock) Client() (pmfscale.Client, error) {
	if m.ClientFunc != nil {
		return m.ClientFunc()
	}
	return pmfscale.New(pmfscale.WithLogger(m.Logger()))
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns the format using the mock function or "json".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "json"
}

// SaveOptions returns save options using the mock function or none.
func (m *Mock) SaveOptions() []save.Option {
	if m.SaveOptionsFunc != nil {
		return m.SaveOptionsFunc()
	}
	return nil
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns commit using the mock function or "unknown".
func (m *Mock) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "unknown"
}

// Date returns date using the mock function or "unknown".
func (m *Mock) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "unknown"
}

// BuiltBy returns builtBy using the mock function or "test".
func (m *Mock) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "test"
}

// Ensure Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
