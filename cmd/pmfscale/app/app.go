// Package app provides the application context and dependency management
// for the pmfscale CLI. Configuration, logging and the scaling client are
// created here and handed to commands through appcontext.Interface.
package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/pmfscale"
	"github.com/agentstation/pmfscale/internal/appcontext"
	"github.com/agentstation/pmfscale/pkg/errors"
	"github.com/agentstation/pmfscale/pkg/save"
)

var _ appcontext.Interface = (*App)(nil)

// App represents the pmfscale application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	// Client instance (lazy-initialized, singleton)
	mu     sync.RWMutex
	client pmfscale.Client
}

// New creates a new App instance with the given version information.
// The app is initialized with configuration loaded from the environment,
// which can be replaced using functional options.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, errors.NewConfigError("app", "failed to load config", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// SaveOptions returns the save options derived from configuration.
func (a *App) SaveOptions() []save.Option {
	opts := []save.Option{
		save.WithDir(a.config.OutputDir),
		save.WithReport(a.config.WriteReport),
	}
	if f, ok := save.ParseFormat(a.config.SummaryFormat); ok {
		opts = append(opts, save.WithSummary(f))
	} else {
		a.logger.Warn().Str("summary_format", a.config.SummaryFormat).Msg("ignoring unknown summary format")
	}
	return opts
}

// Client returns the scaling client, creating it lazily if needed.
// This is thread-safe and ensures only one instance is created.
func (a *App) Client() (pmfscale.Client, error) {
	a.mu.RLock()
	if a.client != nil {
		c := a.client
		a.mu.RUnlock()
		return c, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	// Double-check after acquiring write lock
	if a.client != nil {
		return a.client, nil
	}

	c, err := pmfscale.New(a.clientOptions()...)
	if err != nil {
		return nil, errors.NewConfigError("client", "failed to create scaling client", err)
	}

	a.client = c
	return c, nil
}

// Shutdown performs graceful shutdown of the application.
// Runs are synchronous, so there is nothing left to stop; the hook
// exists so main can treat every App the same way.
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Debug().Msg("shutting down")
	return ctx.Err()
}

// clientOptions constructs client options from the app configuration.
func (a *App) clientOptions() []pmfscale.Option {
	opts := []pmfscale.Option{pmfscale.WithLogger(a.logger)}
	if a.config.Marker != "" {
		opts = append(opts, pmfscale.WithMarker(a.config.Marker))
	}
	return opts
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		if config == nil {
			return errors.NewValidationError("config", nil, "config cannot be nil")
		}
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		if logger == nil {
			return errors.NewValidationError("logger", nil, "logger cannot be nil")
		}
		a.logger = logger
		return nil
	}
}

// WithClient sets a custom client instance (useful for testing).
func WithClient(c pmfscale.Client) Option {
	return func(a *App) error {
		a.client = c
		return nil
	}
}
